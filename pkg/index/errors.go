package index

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound reports that the index file does not exist.
	ErrNotFound = errors.New("index not found")
	// ErrCorruptIndex reports an index file that fails to decode or
	// validate.
	ErrCorruptIndex = errors.New("corrupt index")
	// ErrConcurrentModification reports that the index lock file is
	// already held by another writer.
	ErrConcurrentModification = errors.New("index is locked by another writer")
)

// Error describes a failed index operation. Kind is one of the package
// sentinels, or nil for plain I/O failures.
type Error struct {
	Op   string
	Path string
	Kind error
	Err  error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	switch {
	case e.Kind != nil && e.Err != nil:
		return fmt.Sprintf("index %s %s: %v: %v", e.Op, e.Path, e.Kind, e.Err)
	case e.Kind != nil:
		return fmt.Sprintf("index %s %s: %v", e.Op, e.Path, e.Kind)
	default:
		return fmt.Sprintf("index %s %s: %v", e.Op, e.Path, e.Err)
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
