package object

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"path/filepath"
)

// HashSize is the length in bytes of a raw object digest.
const HashSize = sha1.Size

// Hash is a 20-byte SHA-1 object digest. Its text form is 40 lowercase hex
// characters.
type Hash [HashSize]byte

// ZeroHash is the all-zero hash. No stored object has it.
var ZeroHash Hash

// ParseHash decodes a 40-character hex string into a Hash.
func ParseHash(text string) (Hash, error) {
	raw, err := hex.DecodeString(text)
	if err != nil {
		return ZeroHash, &HashError{Text: text, Kind: ErrInvalidHash, Err: err}
	}
	return HashFromBytes(raw)
}

// HashFromBytes copies a raw 20-byte digest into a Hash.
func HashFromBytes(raw []byte) (Hash, error) {
	var h Hash
	if len(raw) != HashSize {
		return h, &HashError{
			Text: hex.EncodeToString(raw),
			Kind: ErrHashSize,
			Err:  fmt.Errorf("got %d bytes, want %d", len(raw), HashSize),
		}
	}
	copy(h[:], raw)
	return h, nil
}

// HashBytes computes the raw SHA-1 of data.
func HashBytes(data []byte) Hash {
	return Hash(sha1.Sum(data))
}

// HashObject computes the hash of the envelope "type len\0content". This is
// the canonical, uncompressed form that identifies an object.
func HashObject(objType ObjectType, data []byte) Hash {
	h := sha1.New()
	h.Write(envelope(objType, len(data)))
	h.Write(data)
	var out Hash
	copy(out[:], h.Sum(nil))
	return out
}

func envelope(objType ObjectType, n int) []byte {
	return []byte(fmt.Sprintf("%s %d\x00", objType, n))
}

// String returns the 40-character hex form.
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// IsZero reports whether h is the all-zero hash.
func (h Hash) IsZero() bool {
	return h == ZeroHash
}

// Path returns the fan-out storage path "ab/cdef..." relative to the store
// root: the first two hex characters name the directory, the remaining 38
// name the file.
func (h Hash) Path() string {
	s := h.String()
	return filepath.Join(s[:2], s[2:])
}

// MarshalText implements encoding.TextMarshaler.
func (h Hash) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (h *Hash) UnmarshalText(text []byte) error {
	parsed, err := ParseHash(string(text))
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}
