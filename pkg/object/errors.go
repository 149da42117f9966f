package object

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound reports that no object file exists for a hash.
	ErrNotFound = errors.New("object not found")
	// ErrCorruptObject reports stored bytes that fail to decompress, parse,
	// or hash back to their name.
	ErrCorruptObject = errors.New("corrupt object")
	// ErrTypeMismatch reports that an object is not of the requested kind.
	ErrTypeMismatch = errors.New("object type mismatch")
	// ErrInvalidHash reports hash text that is not valid hex.
	ErrInvalidHash = errors.New("invalid hash")
	// ErrHashSize reports a decoded hash that is not exactly HashSize bytes.
	ErrHashSize = errors.New("hash size mismatch")
	// ErrInvalidObject reports a tree or commit value that cannot be
	// encoded in a form that decodes back to it.
	ErrInvalidObject = errors.New("invalid object")
	// ErrStoreExists reports that Initialize found an existing store root.
	ErrStoreExists = errors.New("object store already exists")
)

// Error describes a failed store operation on a single object. Kind is one
// of the package sentinels, or nil for plain I/O failures; Err is the
// underlying cause.
type Error struct {
	Op   string
	Hash Hash
	Kind error
	Err  error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	switch {
	case e.Kind != nil && e.Err != nil:
		return fmt.Sprintf("object %s %s: %v: %v", e.Op, e.Hash, e.Kind, e.Err)
	case e.Kind != nil:
		return fmt.Sprintf("object %s %s: %v", e.Op, e.Hash, e.Kind)
	default:
		return fmt.Sprintf("object %s %s: %v", e.Op, e.Hash, e.Err)
	}
}

func (e *Error) Unwrap() []error {
	if e == nil {
		return nil
	}
	var errs []error
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// TypeMismatchError is returned by the typed read accessors when the stored
// object is a different variant than requested.
type TypeMismatchError struct {
	Hash Hash
	Want ObjectType
	Got  ObjectType
}

func (e *TypeMismatchError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("object %s: %s: got %q, want %q", e.Hash, ErrTypeMismatch, e.Got, e.Want)
}

func (e *TypeMismatchError) Is(target error) bool {
	return target == ErrTypeMismatch
}

// HashError describes hash text or bytes that could not be decoded.
type HashError struct {
	Text string
	Kind error
	Err  error
}

func (e *HashError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("parse hash %q: %v: %v", e.Text, e.Kind, e.Err)
}

func (e *HashError) Unwrap() []error {
	if e == nil {
		return nil
	}
	return []error{e.Kind, e.Err}
}

func corrupt(op string, h Hash, err error) error {
	return &Error{Op: op, Hash: h, Kind: ErrCorruptObject, Err: err}
}
