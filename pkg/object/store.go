package object

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// Store is a content-addressed object store with a 2-character fan-out
// directory layout: <root>/ab/cdef0123...
type Store struct {
	root        string
	compression Compression
	log         *zap.Logger
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithCompression selects the codec for newly written objects.
func WithCompression(c Compression) StoreOption {
	return func(s *Store) { s.compression = c }
}

// WithLogger sets the logger used for debug tracing of writes.
func WithLogger(log *zap.Logger) StoreOption {
	return func(s *Store) {
		if log != nil {
			s.log = log
		}
	}
}

// NewStore returns a Store rooted at the given objects directory. The
// directory is not touched until the first read or write.
func NewStore(root string, opts ...StoreOption) *Store {
	s := &Store{
		root:        root,
		compression: DefaultCompression,
		log:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Initialize creates the store root and all 256 fan-out directories. It
// fails if root already exists.
func Initialize(root string) error {
	if _, err := os.Lstat(root); err == nil {
		return fmt.Errorf("init object store %s: %w", root, ErrStoreExists)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("init object store: %w", err)
	}
	if err := os.Mkdir(root, 0o755); err != nil {
		return fmt.Errorf("init object store: %w", err)
	}
	for i := 0; i < 256; i++ {
		dir := filepath.Join(root, fmt.Sprintf("%02x", i))
		if err := os.Mkdir(dir, 0o755); err != nil {
			return fmt.Errorf("init object store: %w", err)
		}
	}
	return nil
}

// Root returns the objects directory.
func (s *Store) Root() string {
	return s.root
}

// ObjectPath returns the filesystem path for a given hash.
func (s *Store) ObjectPath(h Hash) string {
	return filepath.Join(s.root, h.Path())
}

// Has reports whether the store contains an object with the given hash.
func (s *Store) Has(h Hash) bool {
	_, err := os.Stat(s.ObjectPath(h))
	return err == nil
}

// Write stores an already-encoded body of the given type and returns its
// content hash. Writing bytes that are already stored is a no-op. New
// objects are written to a temp file and renamed into place.
func (s *Store) Write(objType ObjectType, data []byte) (Hash, error) {
	h := HashObject(objType, data)

	// Fast path: already exists.
	if s.Has(h) {
		return h, nil
	}

	var compressed bytes.Buffer
	raw := append(envelope(objType, len(data)), data...)
	if err := compressStream(s.compression, &compressed, raw); err != nil {
		return h, &Error{Op: "write", Hash: h, Err: fmt.Errorf("compress: %w", err)}
	}

	dir := filepath.Dir(s.ObjectPath(h))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return h, &Error{Op: "write", Hash: h, Err: err}
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return h, &Error{Op: "write", Hash: h, Err: err}
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(compressed.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return h, &Error{Op: "write", Hash: h, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return h, &Error{Op: "write", Hash: h, Err: err}
	}
	if err := os.Rename(tmpName, s.ObjectPath(h)); err != nil {
		os.Remove(tmpName)
		return h, &Error{Op: "write", Hash: h, Err: err}
	}

	s.log.Debug("wrote object",
		zap.Stringer("hash", h),
		zap.String("type", string(objType)),
		zap.Int("size", len(data)),
		zap.Int("compressed", compressed.Len()),
	)
	return h, nil
}

// Read retrieves an object by hash, returning its type and body. The
// decompressed bytes must hash back to h.
func (s *Store) Read(h Hash) (ObjectType, []byte, error) {
	f, err := os.Open(s.ObjectPath(h))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil, &Error{Op: "read", Hash: h, Kind: ErrNotFound, Err: err}
		}
		return "", nil, &Error{Op: "read", Hash: h, Err: err}
	}
	defer f.Close()

	raw, err := decompressStream(f)
	if err != nil {
		return "", nil, corrupt("read", h, fmt.Errorf("decompress: %w", err))
	}
	if got := HashBytes(raw); got != h {
		return "", nil, corrupt("read", h, fmt.Errorf("content hashes to %s", got))
	}

	objType, content, err := splitEnvelope(raw)
	if err != nil {
		return "", nil, corrupt("read", h, err)
	}
	return objType, content, nil
}

// WriteObject encodes and stores obj, returning its hash.
func (s *Store) WriteObject(obj Object) (Hash, error) {
	data, err := Marshal(obj)
	if err != nil {
		return ZeroHash, err
	}
	return s.Write(obj.Type(), data)
}

// ReadObject reads and decodes the object stored under h.
func (s *Store) ReadObject(h Hash) (Object, error) {
	objType, data, err := s.Read(h)
	if err != nil {
		return nil, err
	}
	obj, err := Unmarshal(objType, data)
	if err != nil {
		return nil, corrupt("read", h, err)
	}
	return obj, nil
}

// ---------------------------------------------------------------------------
// Typed convenience methods
// ---------------------------------------------------------------------------

// WriteBlob serializes and stores a Blob.
func (s *Store) WriteBlob(b *Blob) (Hash, error) {
	return s.Write(TypeBlob, MarshalBlob(b))
}

// ReadBlob reads the object under h and requires it to be a Blob.
func (s *Store) ReadBlob(h Hash) (*Blob, error) {
	obj, err := s.ReadObject(h)
	if err != nil {
		return nil, err
	}
	b, ok := obj.(*Blob)
	if !ok {
		return nil, &TypeMismatchError{Hash: h, Want: TypeBlob, Got: obj.Type()}
	}
	return b, nil
}

// WriteTree validates, serializes and stores a Tree.
func (s *Store) WriteTree(tr *Tree) (Hash, error) {
	return s.WriteObject(tr)
}

// ReadTree reads the object under h and requires it to be a Tree.
func (s *Store) ReadTree(h Hash) (*Tree, error) {
	obj, err := s.ReadObject(h)
	if err != nil {
		return nil, err
	}
	tr, ok := obj.(*Tree)
	if !ok {
		return nil, &TypeMismatchError{Hash: h, Want: TypeTree, Got: obj.Type()}
	}
	return tr, nil
}

// WriteCommit validates, serializes and stores a Commit.
func (s *Store) WriteCommit(c *Commit) (Hash, error) {
	return s.WriteObject(c)
}

// ReadCommit reads the object under h and requires it to be a Commit.
func (s *Store) ReadCommit(h Hash) (*Commit, error) {
	obj, err := s.ReadObject(h)
	if err != nil {
		return nil, err
	}
	c, ok := obj.(*Commit)
	if !ok {
		return nil, &TypeMismatchError{Hash: h, Want: TypeCommit, Got: obj.Type()}
	}
	return c, nil
}
