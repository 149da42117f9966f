package repo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/odvcencio/dircache/pkg/index"
	"github.com/odvcencio/dircache/pkg/object"
)

// Init creates a new repository at path: the .dircache/ directory, the
// object store with its 256 fan-out directories, and an empty index.
// Returns ErrRepoExists if a .dircache/ directory already exists.
//
// An ObjectDir override that already holds a store is reused, so several
// repositories can share one object directory.
func Init(path string, opts Options) (*Repo, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("init: abs path: %w", err)
	}
	r := newRepo(abs, opts)

	if _, err := os.Stat(r.MetaDir); err == nil {
		return nil, fmt.Errorf("init: %s: %w", r.MetaDir, ErrRepoExists)
	}
	if err := os.Mkdir(r.MetaDir, 0o755); err != nil {
		return nil, fmt.Errorf("init: mkdir %s: %w", r.MetaDir, err)
	}

	// A failed Init removes what it created so that it can be retried.
	var createdStore, ok bool
	defer func() {
		if ok {
			return
		}
		if createdStore && opts.ObjectDir != "" {
			_ = os.RemoveAll(r.Store.Root())
		}
		if rmErr := os.RemoveAll(r.MetaDir); rmErr != nil {
			r.log.Warn("init cleanup failed", zap.String("dir", r.MetaDir), zap.Error(rmErr))
		}
	}()

	if err := object.Initialize(r.Store.Root()); err != nil {
		if opts.ObjectDir == "" || !errors.Is(err, object.ErrStoreExists) {
			return nil, fmt.Errorf("init: %w", err)
		}
		r.log.Info("using existing object directory", zap.String("dir", r.Store.Root()))
	} else {
		createdStore = true
	}

	if err := index.SaveAtomic(r.IndexPath(), index.New()); err != nil {
		return nil, fmt.Errorf("init: %w", err)
	}
	ok = true
	return r, nil
}

// Open searches upward from path for a .dircache/ directory and opens the
// repository. Returns ErrNotRepo if none is found.
func Open(path string, opts Options) (*Repo, error) {
	root, err := FindRoot(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	return newRepo(root, opts), nil
}

// FindRoot returns the nearest directory at or above path that holds a
// .dircache/ directory.
func FindRoot(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("abs path: %w", err)
	}

	cur := abs
	for {
		info, err := os.Stat(filepath.Join(cur, MetaDirName))
		if err == nil && info.IsDir() {
			return cur, nil
		}

		parent := filepath.Dir(cur)
		if parent == cur {
			return "", fmt.Errorf("%s: %w (or any parent up to /)", abs, ErrNotRepo)
		}
		cur = parent
	}
}

// LoadIndex reads the repository's index file.
func (r *Repo) LoadIndex() (*index.Cache, error) {
	return index.Load(r.IndexPath())
}
