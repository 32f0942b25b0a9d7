package kuju

import (
	"errors"
	"fmt"
)

var (
	// ErrEndOfBlock is returned by reads past the end of a block.
	ErrEndOfBlock = errors.New("read past end of block")
	// ErrTruncated is returned when a binary record declares more bytes than remain.
	ErrTruncated = errors.New("truncated block record")
	// ErrNotABlock is returned when a textual sub-block read finds no "name ( ... )" form.
	ErrNotABlock = errors.New("no sub-block at cursor")
)

// FormatError reports a structural violation of the container: a bad
// magic header or sub-header, a truncated root record, or a directory
// layout the loader cannot work with. It is fatal for the file being read.
type FormatError struct {
	Path   string
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	msg := e.Reason
	if e.Path != "" {
		msg = fmt.Sprintf("%s: %s", e.Path, e.Reason)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// IsFormatError reports whether err carries a *FormatError.
func IsFormatError(err error) bool {
	var fe *FormatError
	return errors.As(err, &fe)
}

// UnexpectedTokenError is returned by a restricted sub-block read when the
// next sibling's token is not in the allowed set. The sibling is consumed.
type UnexpectedTokenError struct {
	Got     Token
	Allowed []Token
}

func (e *UnexpectedTokenError) Error() string {
	return fmt.Sprintf("unexpected token %s, expected one of %v", e.Got, e.Allowed)
}
