package tags

import (
	"golang.org/x/text/cases"
)

// Map is an ordered tag map with case-insensitive keys.
// Keys are stored lower-cased; iteration follows first insertion.
// The zero value is an empty map ready to use.
type Map struct {
	keys   []string
	values map[string]Value
}

// NewMap returns an empty map.
func NewMap() *Map {
	return &Map{values: make(map[string]Value)}
}

// Set stores v under tag. An existing key keeps its position and takes the
// new value.
func (m *Map) Set(tag string, v Value) {
	key := normalizeKey(tag)
	if m.values == nil {
		m.values = make(map[string]Value)
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = v
}

// Merge copies every entry of other into m, in other's order. Later wins.
func (m *Map) Merge(other *Map) {
	if other == nil {
		return
	}
	for _, k := range other.keys {
		m.Set(k, other.values[k])
	}
}

// Lookup returns the value for tag and whether it exists.
func (m *Map) Lookup(tag string) (Value, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m.values[normalizeKey(tag)]
	return v, ok
}

// Get returns the value for tag or an *UnknownTagError.
func (m *Map) Get(tag string) (Value, error) {
	v, ok := m.Lookup(tag)
	if !ok {
		return nil, &UnknownTagError{Tag: normalizeKey(tag)}
	}
	return v, nil
}

// Keys returns the lower-cased keys in insertion order.
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Len returns the number of entries.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// normalizeKey case-folds a tag name.
func normalizeKey(tag string) string {
	return cases.Fold().String(tag)
}

// foldEqual compares two strings case-insensitively using Unicode case folding.
func foldEqual(a, b string) bool {
	c := cases.Fold()
	return c.String(a) == c.String(b)
}
