package tags

import (
	"strings"
)

// Marker opens and closes a tag region.
const Marker = "$$"

// Parse extracts every $$ ... $$ region of comment into one Map.
//
// A region holds one or more groups "tag = value [;]". A value is a list
// when it is two or more comma-separated tokens of [A-Za-z0-9_.]; anything
// else is a scalar: the characters up to the next ';' or '$', trimmed.
// Regions are merged in order and a repeated key keeps the last value.
//
// A comment without a marker yields an empty map. *FormatError is returned
// for an unterminated region, an empty region or an unparsable group.
func Parse(comment string) (*Map, error) {
	m := NewMap()
	s := &scanner{src: comment}
	for {
		idx := strings.Index(s.src[s.pos:], Marker)
		if idx < 0 {
			return m, nil
		}
		s.pos += idx + len(Marker)
		if err := s.region(m); err != nil {
			return nil, err
		}
	}
}

type scanner struct {
	src string
	pos int
}

func (s *scanner) errorf(offset int, msg string) *FormatError {
	return &FormatError{Input: s.src, Offset: offset, Message: msg}
}

// region parses groups after an opening marker up to and including the
// closing marker.
func (s *scanner) region(m *Map) error {
	open := s.pos - len(Marker)
	if !strings.Contains(s.src[s.pos:], Marker) {
		return s.errorf(open, "unterminated "+Marker+" region")
	}

	groups := 0
	for {
		s.skipSpace()
		if strings.HasPrefix(s.src[s.pos:], Marker) {
			if groups == 0 {
				return s.errorf(open, "empty "+Marker+" region")
			}
			s.pos += len(Marker)
			return nil
		}

		keyAt := s.pos
		key := s.take(isAlpha)
		if key == "" {
			return s.errorf(keyAt, "expected tag name")
		}
		s.skipSpace()
		if !s.consume('=') {
			return s.errorf(s.pos, "expected '=' after tag "+key)
		}
		v, err := s.value()
		if err != nil {
			return err
		}
		m.Set(key, v)
		groups++

		s.skipSpace()
		s.consume(';')
	}
}

func (s *scanner) value() (Value, error) {
	start := s.pos
	if l, ok := s.list(); ok {
		return l, nil
	}
	s.pos = start

	end := strings.IndexAny(s.src[s.pos:], ";$")
	if end < 0 {
		end = len(s.src) - s.pos
	}
	raw := strings.TrimSpace(s.src[s.pos : s.pos+end])
	if raw == "" {
		return nil, s.errorf(start, "empty tag value")
	}
	s.pos += end
	return Scalar(raw), nil
}

// list parses two or more comma-separated list tokens. It only succeeds
// when the list is followed by ';', the closing marker or another group.
func (s *scanner) list() (List, bool) {
	var items []string
	for {
		s.skipSpace()
		item := s.take(isListChar)
		if item == "" {
			return nil, false
		}
		items = append(items, item)

		save := s.pos
		s.skipSpace()
		if !s.consume(',') {
			s.pos = save
			break
		}
	}
	if len(items) < 2 {
		return nil, false
	}

	save := s.pos
	s.skipSpace()
	rest := s.src[s.pos:]
	s.pos = save
	if strings.HasPrefix(rest, ";") || strings.HasPrefix(rest, Marker) || startsGroup(rest) {
		return List(items), true
	}
	return nil, false
}

// startsGroup reports whether rest begins with "word =".
func startsGroup(rest string) bool {
	i := 0
	for i < len(rest) && isAlpha(rest[i]) {
		i++
	}
	if i == 0 {
		return false
	}
	return strings.HasPrefix(strings.TrimLeft(rest[i:], " \t"), "=")
}

func (s *scanner) take(accept func(byte) bool) string {
	start := s.pos
	for s.pos < len(s.src) && accept(s.src[s.pos]) {
		s.pos++
	}
	return s.src[start:s.pos]
}

func (s *scanner) consume(c byte) bool {
	if s.pos < len(s.src) && s.src[s.pos] == c {
		s.pos++
		return true
	}
	return false
}

func (s *scanner) skipSpace() {
	for s.pos < len(s.src) && isSpace(s.src[s.pos]) {
		s.pos++
	}
}

func isAlpha(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isListChar(c byte) bool {
	return isAlpha(c) || ('0' <= c && c <= '9') || c == '_' || c == '.'
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}
