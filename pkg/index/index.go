// Package index implements the cache of tracked paths: for each path, the
// object hash of its contents and the stat snapshot taken when it was
// hashed. The index file is always rewritten whole, through a lock file and
// an atomic rename.
package index

import (
	"path/filepath"
	"sort"

	"github.com/odvcencio/dircache/pkg/object"
)

const (
	// Signature is the magic number at the head of every index file
	// ("DIRC").
	Signature uint32 = 0x44495243
	// Version is the index format version written by this package.
	Version = "1"
)

// Header identifies the index file format.
type Header struct {
	Signature uint32 `cbor:"signature"`
	Version   string `cbor:"version"`
}

// Entry is the snapshot of one tracked path.
type Entry struct {
	Path string `cbor:"path"`
	Stat
	Hash object.Hash `cbor:"hash"`
}

// Changed compares the entry's snapshot against a fresh stat.
func (e *Entry) Changed(cur Stat) ChangeMask {
	return DiffMask(e.Stat, cur)
}

// Cache is the in-memory index: a header and entries ordered by path with
// no duplicates.
type Cache struct {
	Header  Header
	entries []*Entry
}

// New returns an empty cache with the current header.
func New() *Cache {
	return &Cache{Header: Header{Signature: Signature, Version: Version}}
}

// Snapshot stats the file at path and returns an entry recording h as its
// content hash.
func Snapshot(path string, h object.Hash) (*Entry, error) {
	st, err := StatPath(path)
	if err != nil {
		return nil, err
	}
	return &Entry{Path: filepath.ToSlash(path), Stat: st, Hash: h}, nil
}

// Insert snapshots path and replaces any existing entry for it.
func (c *Cache) Insert(path string, h object.Hash) error {
	e, err := Snapshot(path, h)
	if err != nil {
		return err
	}
	c.Set(e)
	return nil
}

// Set stores e, unconditionally replacing any entry with the same path.
func (c *Cache) Set(e *Entry) {
	i, found := c.search(e.Path)
	if found {
		c.entries[i] = e
		return
	}
	c.entries = append(c.entries, nil)
	copy(c.entries[i+1:], c.entries[i:])
	c.entries[i] = e
}

// Get returns the entry for path.
func (c *Cache) Get(path string) (*Entry, bool) {
	i, found := c.search(path)
	if !found {
		return nil, false
	}
	return c.entries[i], true
}

// Remove drops the entry for path and reports whether one existed.
func (c *Cache) Remove(path string) bool {
	i, found := c.search(path)
	if !found {
		return false
	}
	c.entries = append(c.entries[:i], c.entries[i+1:]...)
	return true
}

// Entries returns the entries in path order. The slice is shared with the
// cache and must not be modified.
func (c *Cache) Entries() []*Entry {
	return c.entries
}

// Len returns the number of tracked paths.
func (c *Cache) Len() int {
	return len(c.entries)
}

func (c *Cache) search(path string) (int, bool) {
	i := sort.Search(len(c.entries), func(i int) bool {
		return c.entries[i].Path >= path
	})
	return i, i < len(c.entries) && c.entries[i].Path == path
}
