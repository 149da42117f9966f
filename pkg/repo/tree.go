package repo

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/odvcencio/dircache/pkg/index"
	"github.com/odvcencio/dircache/pkg/object"
)

// BuildTree folds the index into a single flat tree: one entry per tracked
// path, however deep, carrying the path's mode bits and content hash.
// The result is ordered by path and depends only on the cache contents.
func BuildTree(cache *index.Cache) *object.Tree {
	tr := &object.Tree{Entries: make([]object.TreeEntry, 0, cache.Len())}
	for _, e := range cache.Entries() {
		tr.Insert(object.TreeEntry{Mode: e.Mode, Path: e.Path, Hash: e.Hash})
	}
	return tr
}

// WriteTree builds the tree for the current index and writes it to the
// store, returning its hash.
func (r *Repo) WriteTree() (object.Hash, error) {
	cache, err := r.LoadIndex()
	if err != nil {
		return object.ZeroHash, fmt.Errorf("write tree: %w", err)
	}
	h, err := r.Store.WriteTree(BuildTree(cache))
	if err != nil {
		return object.ZeroHash, fmt.Errorf("write tree: %w", err)
	}
	r.log.Debug("wrote tree", zap.Stringer("hash", h), zap.Int("entries", cache.Len()))
	return h, nil
}

// ReadTree returns the entries of the tree stored under h, in path order.
func (r *Repo) ReadTree(h object.Hash) ([]object.TreeEntry, error) {
	tr, err := r.Store.ReadTree(h)
	if err != nil {
		return nil, fmt.Errorf("read tree: %w", err)
	}
	return tr.Entries, nil
}
