package repo

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/odvcencio/dircache/pkg/index"
	"github.com/odvcencio/dircache/pkg/object"
)

// UpdateResult reports the outcome of an UpdateCache batch.
type UpdateResult struct {
	Updated []string      // repo-relative paths recorded in the index
	Skipped []SkippedPath // paths left out, as given by the caller
}

// Err returns a *PartialUpdateError when any path was skipped, else nil.
func (res *UpdateResult) Err() error {
	if len(res.Skipped) == 0 {
		return nil
	}
	return &PartialUpdateError{Skipped: res.Skipped}
}

// UpdateCache hashes each path into the object store as a blob and records
// it in the index with a fresh stat snapshot, replacing any previous entry.
// Paths that cannot be read are skipped and reported in the result; the
// index is still saved with the rest.
//
// The index lock is taken before the index is read, so a concurrent update
// fails with index.ErrConcurrentModification instead of losing entries.
func (r *Repo) UpdateCache(paths []string) (*UpdateResult, error) {
	lk, err := index.Lock(r.IndexPath())
	if err != nil {
		return nil, fmt.Errorf("update cache: %w", err)
	}
	defer lk.Rollback()

	cache, err := index.Load(r.IndexPath())
	if err != nil {
		return nil, fmt.Errorf("update cache: %w", err)
	}

	res := &UpdateResult{}
	for _, p := range paths {
		e, err := r.hashPath(p)
		if err != nil {
			r.log.Warn("ignoring path", zap.String("path", p), zap.Error(err))
			res.Skipped = append(res.Skipped, SkippedPath{Path: p, Err: err})
			continue
		}
		r.log.Debug("hashed path", zap.String("path", e.Path), zap.Stringer("hash", e.Hash))
		cache.Set(e)
		res.Updated = append(res.Updated, e.Path)
	}

	if err := lk.Commit(cache); err != nil {
		return nil, fmt.Errorf("update cache: %w", err)
	}
	return res, nil
}

// hashPath writes the blob for one working-tree file and returns its
// index entry. The stat is taken before the read, so a file modified while
// being hashed shows up as changed on the next comparison.
func (r *Repo) hashPath(p string) (*index.Entry, error) {
	rel, err := r.repoRelPath(p)
	if err != nil {
		return nil, err
	}
	abs := r.absPath(rel)

	st, err := index.StatPath(abs)
	if err != nil {
		return nil, err
	}
	if !isRegular(st.Mode) {
		return nil, fmt.Errorf("%s: %w", rel, ErrNotRegular)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, err
	}
	h, err := r.Store.WriteBlob(&object.Blob{Data: data})
	if err != nil {
		return nil, err
	}
	return &index.Entry{Path: rel, Stat: st, Hash: h}, nil
}

// repoRelPath converts a path (absolute, or relative to CWD) into a clean
// slash-separated path relative to the repository root. A relative path
// that does not resolve inside the repo from the CWD is taken as already
// repo-relative. Symlinks in the root or in the path's parent directories
// are resolved when the lexical comparison fails; the final component is
// never followed. Paths escaping the root or naming the metadata directory
// are rejected.
func (r *Repo) repoRelPath(p string) (string, error) {
	if p == "" {
		return "", fmt.Errorf("%q: %w", p, ErrInvalidPath)
	}

	var rel string
	if filepath.IsAbs(p) {
		var ok bool
		if rel, ok = r.relToRoot(p); !ok {
			return "", fmt.Errorf("%s: %w", p, ErrOutsideRepo)
		}
	} else {
		rel = filepath.Clean(p)
		if cwd, err := os.Getwd(); err == nil {
			if fromCwd, ok := r.relToRoot(filepath.Join(cwd, p)); ok {
				rel = fromCwd
			}
		}
	}

	if escapes(rel) {
		return "", fmt.Errorf("%s: %w", p, ErrOutsideRepo)
	}
	rel = filepath.ToSlash(rel)
	if rel == "." {
		return "", fmt.Errorf("%s: %w", p, ErrInvalidPath)
	}
	if first, _, _ := strings.Cut(rel, "/"); first == MetaDirName {
		return "", fmt.Errorf("%s: %w: inside %s", p, ErrInvalidPath, MetaDirName)
	}
	return rel, nil
}

// relToRoot returns abs relative to the repository root, trying the path
// as written first and then with symlinks in the root and in abs's parent
// directory resolved.
func (r *Repo) relToRoot(abs string) (string, bool) {
	if rel, err := filepath.Rel(r.RootDir, abs); err == nil && !escapes(rel) {
		return rel, true
	}
	root := evalOrSelf(r.RootDir)
	candidates := []string{
		abs,
		filepath.Join(evalOrSelf(filepath.Dir(abs)), filepath.Base(abs)),
	}
	for _, c := range candidates {
		if rel, err := filepath.Rel(root, c); err == nil && !escapes(rel) {
			return rel, true
		}
	}
	return "", false
}

// evalOrSelf resolves symlinks in path, returning path unchanged when it
// cannot be resolved.
func evalOrSelf(path string) string {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		return resolved
	}
	return path
}

func escapes(rel string) bool {
	return rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
