package classify

import (
	"errors"
	"fmt"
)

// Sentinel errors for identifier table validation.
var (
	ErrEmptyIdentifier     = errors.New("empty image identifier")
	ErrDuplicateIdentifier = errors.New("duplicate image identifier")
)

// ErrIdentifierFileNotExist indicates the identifier file does not exist.
type ErrIdentifierFileNotExist struct {
	Path string
	Err  error
}

func (e *ErrIdentifierFileNotExist) Error() string {
	return fmt.Sprintf("identifier file does not exist: %s (%v)", e.Path, e.Err)
}

func (e *ErrIdentifierFileNotExist) Unwrap() error {
	return e.Err
}

// ErrIdentifierFileParse indicates the identifier file could not be decoded.
type ErrIdentifierFileParse struct {
	Path string
	Err  error
}

func (e *ErrIdentifierFileParse) Error() string {
	return fmt.Sprintf("failed to parse identifier file '%s': %v", e.Path, e.Err)
}

func (e *ErrIdentifierFileParse) Unwrap() error {
	return e.Err
}
