package dut

import (
	"errors"
	"fmt"
)

// MissingTagError reports that a structurally required tag is absent,
// e.g. freq on a clock port or clk on a reset port.
type MissingTagError struct {
	// Kind is "port" or "generic".
	Kind string

	// Object is the declaration name.
	Object string

	// Tag is the missing tag name.
	Tag string
}

// Error implements the error interface.
func (e *MissingTagError) Error() string {
	return fmt.Sprintf("%s %s has no %s tag", e.Kind, e.Object, e.Tag)
}

// UnknownTypeError reports a port whose base type has no known literal
// for active and inactive levels.
type UnknownTypeError struct {
	Port string
	Type string
}

// Error implements the error interface.
func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("port %s: unknown VHDL type %s", e.Port, e.Type)
}

// IsMissingTagError returns true if err is, or wraps, a *MissingTagError.
func IsMissingTagError(err error) bool {
	var me *MissingTagError
	return errors.As(err, &me)
}

// IsUnknownTypeError returns true if err is, or wraps, an *UnknownTypeError.
func IsUnknownTypeError(err error) bool {
	var ue *UnknownTypeError
	return errors.As(err, &ue)
}
