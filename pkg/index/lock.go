package index

import (
	"errors"
	"io/fs"
	"os"
)

// LockSuffix is appended to the index path to name its lock file.
const LockSuffix = ".lock"

// Lockfile is an exclusively created sibling of the index file. Holding it
// grants the right to replace the index; Commit renames it over the index,
// Rollback discards it.
type Lockfile struct {
	path     string
	lockPath string
	f        *os.File
}

// Lock creates <path>.lock with create-only semantics. If the lock file
// already exists it fails at once with ErrConcurrentModification; there is
// no waiting or retry.
func Lock(path string) (*Lockfile, error) {
	lockPath := path + LockSuffix
	f, err := os.OpenFile(lockPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil, &Error{Op: "lock", Path: path, Kind: ErrConcurrentModification, Err: err}
		}
		return nil, &Error{Op: "lock", Path: path, Err: err}
	}
	return &Lockfile{path: path, lockPath: lockPath, f: f}, nil
}

// Path returns the canonical index path guarded by the lock.
func (l *Lockfile) Path() string {
	return l.path
}

// Commit writes c into the lock file, syncs it, and renames it onto the
// index path. The index file is only ever touched by that rename. On
// failure the lock file is removed and the index is left as it was.
func (l *Lockfile) Commit(c *Cache) error {
	if l.f == nil {
		return &Error{Op: "commit", Path: l.path, Err: os.ErrClosed}
	}
	data, err := Marshal(c)
	if err != nil {
		l.Rollback()
		return &Error{Op: "commit", Path: l.path, Err: err}
	}
	if _, err := l.f.Write(data); err != nil {
		l.Rollback()
		return &Error{Op: "commit", Path: l.path, Err: err}
	}
	if err := l.f.Sync(); err != nil {
		l.Rollback()
		return &Error{Op: "commit", Path: l.path, Err: err}
	}
	err = l.f.Close()
	l.f = nil
	if err != nil {
		os.Remove(l.lockPath)
		return &Error{Op: "commit", Path: l.path, Err: err}
	}
	if err := os.Rename(l.lockPath, l.path); err != nil {
		os.Remove(l.lockPath)
		return &Error{Op: "commit", Path: l.path, Err: err}
	}
	return nil
}

// Rollback releases the lock without touching the index. It is safe to
// call after Commit.
func (l *Lockfile) Rollback() {
	if l.f == nil {
		return
	}
	l.f.Close()
	l.f = nil
	os.Remove(l.lockPath)
}

// SaveAtomic replaces the index at path with c via Lock and Commit.
func SaveAtomic(path string, c *Cache) error {
	lk, err := Lock(path)
	if err != nil {
		return err
	}
	return lk.Commit(c)
}
