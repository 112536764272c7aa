package tags

import "strings"

// Value is a sealed interface for tag values.
// Only Scalar and List implement it.
type Value interface {
	tagValue()

	// Strings returns the value as a list. A scalar becomes a one-element list.
	Strings() []string

	// String renders the value as it appeared in the comment.
	String() string
}

// Scalar is a single trimmed value, e.g. freq=100e6.
type Scalar string

func (Scalar) tagValue() {}

// Strings implements Value.
func (s Scalar) Strings() []string { return []string{string(s)} }

func (s Scalar) String() string { return string(s) }

// List is a comma-separated value with at least two entries, e.g. A,B,C.
type List []string

func (List) tagValue() {}

// Strings implements Value. The returned slice is a copy.
func (l List) Strings() []string {
	out := make([]string, len(l))
	copy(out, l)
	return out
}

func (l List) String() string { return strings.Join(l, ",") }
