package object

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Marshal returns the canonical body bytes of obj. The stored form prefixes
// these with the "type len\0" envelope. Trees and commits that could not be
// decoded again are rejected with ErrInvalidObject.
func Marshal(obj Object) ([]byte, error) {
	switch o := obj.(type) {
	case *Blob:
		return MarshalBlob(o), nil
	case *Tree:
		if err := ValidateTree(o); err != nil {
			return nil, err
		}
		return MarshalTree(o), nil
	case *Commit:
		if err := ValidateCommit(o); err != nil {
			return nil, err
		}
		return MarshalCommit(o), nil
	default:
		return nil, fmt.Errorf("marshal: unsupported object %T", obj)
	}
}

// Unmarshal decodes a body of the given type into its Object variant.
func Unmarshal(objType ObjectType, data []byte) (Object, error) {
	switch objType {
	case TypeBlob:
		return UnmarshalBlob(data)
	case TypeTree:
		return UnmarshalTree(data)
	case TypeCommit:
		return UnmarshalCommit(data)
	default:
		return nil, fmt.Errorf("unmarshal: %q is not a valid object type", objType)
	}
}

// Encode returns the full canonical encoding "type len\0body" of obj, which
// is exactly the byte sequence HashObject digests.
func Encode(obj Object) ([]byte, error) {
	body, err := Marshal(obj)
	if err != nil {
		return nil, err
	}
	return append(envelope(obj.Type(), len(body)), body...), nil
}

// Decode parses a full canonical encoding produced by Encode.
func Decode(raw []byte) (Object, error) {
	objType, content, err := splitEnvelope(raw)
	if err != nil {
		return nil, err
	}
	return Unmarshal(objType, content)
}

// splitEnvelope validates the "type len\0" prefix and returns the body.
func splitEnvelope(raw []byte) (ObjectType, []byte, error) {
	nulIdx := bytes.IndexByte(raw, 0)
	if nulIdx < 0 {
		return "", nil, fmt.Errorf("invalid format (no NUL)")
	}
	header := string(raw[:nulIdx])
	content := raw[nulIdx+1:]

	typeName, lenText, ok := strings.Cut(header, " ")
	if !ok {
		return "", nil, fmt.Errorf("invalid header %q", header)
	}
	objType, err := ParseObjectType(typeName)
	if err != nil {
		return "", nil, err
	}
	length, err := strconv.Atoi(lenText)
	if err != nil {
		return "", nil, fmt.Errorf("invalid length %q: %w", lenText, err)
	}
	if len(content) != length {
		return "", nil, fmt.Errorf("length mismatch (header=%d, actual=%d)", length, len(content))
	}
	return objType, content, nil
}

// ---------------------------------------------------------------------------
// Blob
// ---------------------------------------------------------------------------

// MarshalBlob serializes a Blob to raw bytes (identity).
func MarshalBlob(b *Blob) []byte {
	out := make([]byte, len(b.Data))
	copy(out, b.Data)
	return out
}

// UnmarshalBlob deserializes raw bytes into a Blob.
func UnmarshalBlob(data []byte) (*Blob, error) {
	out := make([]byte, len(data))
	copy(out, data)
	return &Blob{Data: out}, nil
}

// ---------------------------------------------------------------------------
// Tree
// ---------------------------------------------------------------------------

// ValidateTree checks that every path is non-empty, free of NUL bytes and
// unique, so that the serialized tree decodes back to the same entries.
func ValidateTree(tr *Tree) error {
	seen := make(map[string]struct{}, len(tr.Entries))
	for _, e := range tr.Entries {
		switch {
		case e.Path == "":
			return fmt.Errorf("tree: %w: empty path", ErrInvalidObject)
		case strings.IndexByte(e.Path, 0) >= 0:
			return fmt.Errorf("tree: %w: path %q contains NUL", ErrInvalidObject, e.Path)
		}
		if _, dup := seen[e.Path]; dup {
			return fmt.Errorf("tree: %w: duplicate path %q", ErrInvalidObject, e.Path)
		}
		seen[e.Path] = struct{}{}
	}
	return nil
}

// MarshalTree serializes a Tree. Entries are sorted by Path for
// deterministic output, whatever order the slice holds them in. It does not
// validate; Marshal and Store.WriteTree call ValidateTree first. Each entry
// is
//
//	<octal mode> SP <path> NUL <20 raw hash bytes>
func MarshalTree(tr *Tree) []byte {
	sorted := make([]TreeEntry, len(tr.Entries))
	copy(sorted, tr.Entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Path < sorted[j].Path
	})

	var buf bytes.Buffer
	for _, e := range sorted {
		buf.WriteString(strconv.FormatUint(uint64(e.Mode), 8))
		buf.WriteByte(' ')
		buf.WriteString(e.Path)
		buf.WriteByte(0)
		buf.Write(e.Hash[:])
	}
	return buf.Bytes()
}

// UnmarshalTree parses a Tree from its serialized form. Paths must be
// strictly increasing.
func UnmarshalTree(data []byte) (*Tree, error) {
	tr := &Tree{}
	for len(data) > 0 {
		sp := bytes.IndexByte(data, ' ')
		if sp < 0 {
			return nil, fmt.Errorf("unmarshal tree: missing mode separator")
		}
		mode, err := strconv.ParseUint(string(data[:sp]), 8, 32)
		if err != nil {
			return nil, fmt.Errorf("unmarshal tree: bad mode %q: %w", data[:sp], err)
		}
		data = data[sp+1:]

		nul := bytes.IndexByte(data, 0)
		if nul < 0 {
			return nil, fmt.Errorf("unmarshal tree: missing path terminator")
		}
		path := string(data[:nul])
		data = data[nul+1:]
		if path == "" {
			return nil, fmt.Errorf("unmarshal tree: empty path")
		}

		if len(data) < HashSize {
			return nil, fmt.Errorf("unmarshal tree: truncated hash for %q", path)
		}
		var h Hash
		copy(h[:], data[:HashSize])
		data = data[HashSize:]

		if n := len(tr.Entries); n > 0 && tr.Entries[n-1].Path >= path {
			return nil, fmt.Errorf("unmarshal tree: entry %q out of order after %q", path, tr.Entries[n-1].Path)
		}
		tr.Entries = append(tr.Entries, TreeEntry{Mode: uint32(mode), Path: path, Hash: h})
	}
	return tr, nil
}

// ---------------------------------------------------------------------------
// Commit
// ---------------------------------------------------------------------------

// ValidateCommit rejects author and committer lines that would break the
// commit header: a newline ends the header line early and NUL is never
// valid in it.
func ValidateCommit(c *Commit) error {
	for _, f := range []struct{ name, val string }{
		{"author", c.Author},
		{"committer", c.Committer},
	} {
		if strings.ContainsAny(f.val, "\n\x00") {
			return fmt.Errorf("commit: %w: %s line %q contains newline or NUL", ErrInvalidObject, f.name, f.val)
		}
	}
	return nil
}

// MarshalCommit serializes a Commit. It does not validate; Marshal and
// Store.WriteCommit call ValidateCommit first. This layout is also the display form
// and is a format contract for external readers:
//
//	tree H
//	parent H       (zero or more, in order)
//	author A
//	committer C
//
//	message
func MarshalCommit(c *Commit) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "tree %s\n", c.TreeHash)
	for _, p := range c.Parents {
		fmt.Fprintf(&buf, "parent %s\n", p)
	}
	fmt.Fprintf(&buf, "author %s\n", c.Author)
	fmt.Fprintf(&buf, "committer %s\n", c.Committer)
	buf.WriteByte('\n')
	buf.WriteString(c.Message)
	return buf.Bytes()
}

// UnmarshalCommit parses a Commit from its serialized form.
func UnmarshalCommit(data []byte) (*Commit, error) {
	idx := bytes.Index(data, []byte("\n\n"))
	if idx < 0 {
		return nil, fmt.Errorf("unmarshal commit: missing header/message separator")
	}
	header := string(data[:idx])
	message := string(data[idx+2:])

	c := &Commit{Message: message}
	var seenTree, seenAuthor, seenCommitter bool
	for _, line := range strings.Split(header, "\n") {
		key, val, ok := strings.Cut(line, " ")
		if !ok {
			return nil, fmt.Errorf("unmarshal commit: malformed header line %q", line)
		}
		switch key {
		case "tree":
			h, err := ParseHash(val)
			if err != nil {
				return nil, fmt.Errorf("unmarshal commit: tree: %w", err)
			}
			c.TreeHash = h
			seenTree = true
		case "parent":
			h, err := ParseHash(val)
			if err != nil {
				return nil, fmt.Errorf("unmarshal commit: parent: %w", err)
			}
			c.Parents = append(c.Parents, h)
		case "author":
			c.Author = val
			seenAuthor = true
		case "committer":
			c.Committer = val
			seenCommitter = true
		default:
			return nil, fmt.Errorf("unmarshal commit: unknown header key %q", key)
		}
	}
	if !seenTree || !seenAuthor || !seenCommitter {
		return nil, fmt.Errorf("unmarshal commit: missing tree, author or committer header")
	}
	return c, nil
}
