package vhdl

import (
	"fmt"

	"github.com/alecthomas/participle/v2/lexer"
	"github.com/pkg/errors"
)

// SyntaxError reports that the declaration text contains no well-formed
// entity, or that the lexer hit a character it cannot tokenize.
type SyntaxError struct {
	// Message is a human-readable description.
	Message string

	// Pos is the position of the offending token. Zero when unknown.
	Pos lexer.Position
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	if e.Pos.Line > 0 {
		name := e.Pos.Filename
		if name == "" {
			name = "<input>"
		}
		return fmt.Sprintf("%s:%d:%d: syntax error: %s", name, e.Pos.Line, e.Pos.Column, e.Message)
	}
	return "syntax error: " + e.Message
}

// IsSyntaxError returns true if err is, or wraps, a *SyntaxError.
func IsSyntaxError(err error) bool {
	var se *SyntaxError
	return errors.As(err, &se)
}

func syntaxErrorf(t token, format string, args ...any) *SyntaxError {
	return &SyntaxError{Message: fmt.Sprintf(format, args...), Pos: t.pos}
}

func newSyntaxErrorFromLexer(err error) error {
	var le *lexer.Error
	if errors.As(err, &le) {
		return &SyntaxError{Message: le.Msg, Pos: le.Pos}
	}
	return errors.Wrap(&SyntaxError{Message: err.Error()}, "tokenizing")
}
