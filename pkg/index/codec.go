package index

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/fxamacker/cbor/v2"
)

// encMode uses Core Deterministic Encoding so that the same cache always
// produces identical bytes.
var encMode cbor.EncMode

var decMode cbor.DecMode

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("index: CBOR encoder initialization failed: " + err.Error())
	}
	decMode, err = cbor.DecOptions{
		DupMapKey: cbor.DupMapKeyEnforcedAPF,
	}.DecMode()
	if err != nil {
		panic("index: CBOR decoder initialization failed: " + err.Error())
	}
}

// file is the on-disk layout of the index.
type file struct {
	Header  Header   `cbor:"header"`
	Entries []*Entry `cbor:"entries"`
}

// Marshal encodes c in the index file format.
func Marshal(c *Cache) ([]byte, error) {
	entries := c.entries
	if entries == nil {
		entries = []*Entry{}
	}
	return encMode.Marshal(file{Header: c.Header, Entries: entries})
}

// Unmarshal decodes and validates an index file. The header must carry the
// expected signature and version, and entries must be strictly ordered by
// path.
func Unmarshal(data []byte) (*Cache, error) {
	var f file
	if err := decMode.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	if f.Header.Signature != Signature {
		return nil, fmt.Errorf("bad signature %#08x", f.Header.Signature)
	}
	if f.Header.Version != Version {
		return nil, fmt.Errorf("unsupported version %q", f.Header.Version)
	}
	for i, e := range f.Entries {
		if e == nil || e.Path == "" {
			return nil, fmt.Errorf("entry %d has no path", i)
		}
		if i > 0 && f.Entries[i-1].Path >= e.Path {
			return nil, fmt.Errorf("entry %q out of order after %q", e.Path, f.Entries[i-1].Path)
		}
	}
	return &Cache{Header: f.Header, entries: f.Entries}, nil
}

// Load reads the index file at path.
func Load(path string) (*Cache, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &Error{Op: "load", Path: path, Kind: ErrNotFound, Err: err}
		}
		return nil, &Error{Op: "load", Path: path, Err: err}
	}
	c, err := Unmarshal(data)
	if err != nil {
		return nil, &Error{Op: "load", Path: path, Kind: ErrCorruptIndex, Err: err}
	}
	return c, nil
}
