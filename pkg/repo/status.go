package repo

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/odvcencio/dircache/pkg/diff"
	"github.com/odvcencio/dircache/pkg/index"
	"github.com/odvcencio/dircache/pkg/object"
)

// StatusEntry compares one index entry with the working tree.
type StatusEntry struct {
	Path    string           // repo-relative path
	Hash    object.Hash      // content hash recorded in the index
	Changes index.ChangeMask // stat dimensions that differ; zero when clean
	Missing bool             // the file no longer exists
}

// Clean reports whether the working file still matches its snapshot.
func (s StatusEntry) Clean() bool {
	return !s.Missing && s.Changes == 0
}

// Status stats every tracked path and compares it with its index
// snapshot. Contents are not re-read; a non-zero mask only says the file
// may have changed.
func (r *Repo) Status() ([]StatusEntry, error) {
	cache, err := r.LoadIndex()
	if err != nil {
		return nil, fmt.Errorf("status: %w", err)
	}

	out := make([]StatusEntry, 0, cache.Len())
	for _, e := range cache.Entries() {
		se := StatusEntry{Path: e.Path, Hash: e.Hash}
		cur, err := index.StatPath(r.absPath(e.Path))
		switch {
		case errors.Is(err, fs.ErrNotExist):
			se.Missing = true
		case err != nil:
			return nil, fmt.Errorf("status: %w", err)
		default:
			se.Changes = e.Changed(cur)
		}
		out = append(out, se)
	}
	return out, nil
}

// ShowDiff writes a report for every tracked path: "<path>: ok" when its
// stat snapshot still matches, "<path>: missing" when the file is gone,
// and otherwise the recorded hash followed by a unified diff from the
// stored blob to the working file.
func (r *Repo) ShowDiff(w io.Writer) error {
	entries, err := r.Status()
	if err != nil {
		return err
	}
	for _, se := range entries {
		switch {
		case se.Missing:
			fmt.Fprintf(w, "%s: missing\n", se.Path)
			continue
		case se.Clean():
			fmt.Fprintf(w, "%s: ok\n", se.Path)
			continue
		}

		fmt.Fprintf(w, "%s: %s\n", se.Path, se.Hash)
		blob, err := r.Store.ReadBlob(se.Hash)
		if err != nil {
			return fmt.Errorf("show diff %s: %w", se.Path, err)
		}
		work, err := os.ReadFile(r.absPath(se.Path))
		if err != nil {
			return fmt.Errorf("show diff %s: %w", se.Path, err)
		}
		io.WriteString(w, diff.Unified("a/"+se.Path, "b/"+se.Path, blob.Data, work, diff.DefaultContext))
	}
	return nil
}

func (r *Repo) absPath(rel string) string {
	return filepath.Join(r.RootDir, filepath.FromSlash(rel))
}
