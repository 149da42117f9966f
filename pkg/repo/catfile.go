package repo

import (
	"bytes"
	"fmt"

	"github.com/odvcencio/dircache/pkg/object"
)

// CatFile returns the type of the object stored under h and its printable
// contents: blob bytes, commit text, or one "<mode> <path> (<hash>)" line
// per tree entry.
func (r *Repo) CatFile(h object.Hash) (object.ObjectType, []byte, error) {
	obj, err := r.Store.ReadObject(h)
	if err != nil {
		return "", nil, fmt.Errorf("cat file: %w", err)
	}
	switch o := obj.(type) {
	case *object.Blob:
		return object.TypeBlob, o.Data, nil
	case *object.Commit:
		return object.TypeCommit, object.MarshalCommit(o), nil
	case *object.Tree:
		var buf bytes.Buffer
		for _, e := range o.Entries {
			buf.WriteString(e.String())
			buf.WriteByte('\n')
		}
		return object.TypeTree, buf.Bytes(), nil
	default:
		return "", nil, fmt.Errorf("cat file: unsupported object %T", obj)
	}
}
