package repo

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrRepoExists      = errors.New("repository already exists")
	ErrNotRepo         = errors.New("not a dircache repository")
	ErrOutsideRepo     = errors.New("path is outside the repository")
	ErrInvalidPath     = errors.New("invalid path")
	ErrNotRegular      = errors.New("not a regular file")
	ErrInvalidIdentity = errors.New("invalid identity line")
)

// SkippedPath is a path an update batch could not record, with the reason.
type SkippedPath struct {
	Path string
	Err  error
}

func (s SkippedPath) String() string {
	return fmt.Sprintf("%s: %v", s.Path, s.Err)
}

// PartialUpdateError reports a batch where some paths were skipped. The
// index was still saved with the paths that succeeded.
type PartialUpdateError struct {
	Skipped []SkippedPath
}

func (e *PartialUpdateError) Error() string {
	if e == nil {
		return "<nil>"
	}
	parts := make([]string, len(e.Skipped))
	for i, s := range e.Skipped {
		parts[i] = s.String()
	}
	return fmt.Sprintf("update cache: skipped %d path(s): %s", len(e.Skipped), strings.Join(parts, "; "))
}

func (e *PartialUpdateError) Unwrap() []error {
	if e == nil {
		return nil
	}
	errs := make([]error, len(e.Skipped))
	for i, s := range e.Skipped {
		errs[i] = s.Err
	}
	return errs
}
