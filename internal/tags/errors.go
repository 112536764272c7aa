package tags

import (
	"errors"
	"fmt"
)

// FormatError reports a malformed $$ ... $$ region.
type FormatError struct {
	// Input is the comment text being parsed.
	Input string

	// Offset is the byte offset in Input where parsing failed.
	Offset int

	// Message describes what was expected.
	Message string
}

// Error implements the error interface.
func (e *FormatError) Error() string {
	return fmt.Sprintf("malformed tag at offset %d in %q: %s", e.Offset, e.Input, e.Message)
}

// UnknownTagError is returned by strict accessors for an absent key.
type UnknownTagError struct {
	Tag string
}

// Error implements the error interface.
func (e *UnknownTagError) Error() string {
	return fmt.Sprintf("unknown tag %q", e.Tag)
}

// IsFormatError returns true if err is, or wraps, a *FormatError.
func IsFormatError(err error) bool {
	var fe *FormatError
	return errors.As(err, &fe)
}

// IsUnknownTagError returns true if err is, or wraps, an *UnknownTagError.
func IsUnknownTagError(err error) bool {
	var ue *UnknownTagError
	return errors.As(err, &ue)
}
