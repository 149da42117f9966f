package object

import (
	"fmt"
	"sort"
	"strconv"
)

// ObjectType identifies the kind of object stored.
type ObjectType string

const (
	TypeBlob   ObjectType = "blob"
	TypeTree   ObjectType = "tree"
	TypeCommit ObjectType = "commit"
)

// ParseObjectType validates an envelope type name.
func ParseObjectType(s string) (ObjectType, error) {
	switch t := ObjectType(s); t {
	case TypeBlob, TypeTree, TypeCommit:
		return t, nil
	default:
		return "", fmt.Errorf("%q is not a valid object type", s)
	}
}

// Object is the closed set of storable values: *Blob, *Tree and *Commit.
// Consumers switch on the concrete type.
type Object interface {
	Type() ObjectType
	object()
}

// Blob holds raw file data.
type Blob struct {
	Data []byte
}

func (*Blob) Type() ObjectType { return TypeBlob }
func (*Blob) object()          {}

// TreeEntry is one entry in a tree object. The hash references a blob (or
// another tree) without owning it.
type TreeEntry struct {
	Mode uint32
	Path string
	Hash Hash
}

// String renders the entry as "<octal mode> <path> (<hash>)".
func (e TreeEntry) String() string {
	return fmt.Sprintf("%s %s (%s)", strconv.FormatUint(uint64(e.Mode), 8), strconv.Quote(e.Path), e.Hash)
}

// Tree is a flat listing of paths. Entries are kept sorted by Path with no
// duplicates; use Insert to add entries.
type Tree struct {
	Entries []TreeEntry
}

func (*Tree) Type() ObjectType { return TypeTree }
func (*Tree) object()          {}

// Insert adds e, replacing any entry with the same path, and keeps the
// entries ordered by path.
func (t *Tree) Insert(e TreeEntry) {
	i := sort.Search(len(t.Entries), func(i int) bool {
		return t.Entries[i].Path >= e.Path
	})
	if i < len(t.Entries) && t.Entries[i].Path == e.Path {
		t.Entries[i] = e
		return
	}
	t.Entries = append(t.Entries, TreeEntry{})
	copy(t.Entries[i+1:], t.Entries[i:])
	t.Entries[i] = e
}

// Lookup returns the entry for path.
func (t *Tree) Lookup(path string) (TreeEntry, bool) {
	i := sort.Search(len(t.Entries), func(i int) bool {
		return t.Entries[i].Path >= path
	})
	if i < len(t.Entries) && t.Entries[i].Path == path {
		return t.Entries[i], true
	}
	return TreeEntry{}, false
}

// Commit points at a tree and zero or more parents. Author and Committer are
// opaque identity lines; Message is stored verbatim.
type Commit struct {
	TreeHash  Hash
	Parents   []Hash
	Author    string
	Committer string
	Message   string
}

func (*Commit) Type() ObjectType { return TypeCommit }
func (*Commit) object()          {}

// String returns the canonical text rendering of the commit.
func (c *Commit) String() string {
	return string(MarshalCommit(c))
}
