package writer

import (
	"fmt"
	"strings"
)

// DefaultIndent is one indentation level.
const DefaultIndent = "    "

// Buffer accumulates the lines of one output file. Methods return the
// buffer so calls can be chained.
type Buffer struct {
	lines  []string
	indent string
	level  int
}

// NewBuffer returns an empty buffer indenting with indent, or DefaultIndent
// when indent is empty.
func NewBuffer(indent string) *Buffer {
	if indent == "" {
		indent = DefaultIndent
	}
	return &Buffer{indent: indent}
}

// Line appends s at the current indentation. An empty s appends a blank
// line without indentation.
func (b *Buffer) Line(s string) *Buffer {
	if s == "" {
		b.lines = append(b.lines, "")
		return b
	}
	b.lines = append(b.lines, strings.Repeat(b.indent, b.level)+s)
	return b
}

// Linef appends a formatted line.
func (b *Buffer) Linef(format string, args ...any) *Buffer {
	return b.Line(fmt.Sprintf(format, args...))
}

// Blank appends an empty line.
func (b *Buffer) Blank() *Buffer {
	return b.Line("")
}

// Indent increases the indentation level.
func (b *Buffer) Indent() *Buffer {
	b.level++
	return b
}

// Dedent decreases the indentation level. It stops at zero.
func (b *Buffer) Dedent() *Buffer {
	if b.level > 0 {
		b.level--
	}
	return b
}

// TrimLast removes the last n characters of the most recent line, typically
// a dangling list separator.
func (b *Buffer) TrimLast(n int) *Buffer {
	if len(b.lines) == 0 {
		return b
	}
	last := b.lines[len(b.lines)-1]
	if n > len(last) {
		n = len(last)
	}
	b.lines[len(b.lines)-1] = last[:len(last)-n]
	return b
}

// TrimSuffix removes suffix from the most recent line if present.
func (b *Buffer) TrimSuffix(suffix string) *Buffer {
	if len(b.lines) == 0 {
		return b
	}
	i := len(b.lines) - 1
	b.lines[i] = strings.TrimSuffix(b.lines[i], suffix)
	return b
}

// AppendLast appends s to the most recent line.
func (b *Buffer) AppendLast(s string) *Buffer {
	if len(b.lines) == 0 {
		return b.Line(s)
	}
	b.lines[len(b.lines)-1] += s
	return b
}

// Bytes returns the buffered text, every line terminated by a newline.
func (b *Buffer) Bytes() []byte {
	var sb strings.Builder
	for _, l := range b.lines {
		sb.WriteString(l)
		sb.WriteByte('\n')
	}
	return []byte(sb.String())
}

// String returns the buffered text.
func (b *Buffer) String() string {
	return string(b.Bytes())
}
