package tags

// Tagged is anything carrying a parsed tag map, typically a generic or port
// declaration.
type Tagged interface {
	Tags() *Map
}

// Has reports whether tag is present.
func (m *Map) Has(tag string) bool {
	_, ok := m.Lookup(tag)
	return ok
}

// Equals reports whether tag holds the scalar value. Comparison is
// case-insensitive unless caseSensitive is set. List values never match.
func (m *Map) Equals(tag, value string, caseSensitive bool) bool {
	v, ok := m.Lookup(tag)
	if !ok {
		return false
	}
	s, ok := v.(Scalar)
	if !ok {
		return false
	}
	if caseSensitive {
		return string(s) == value
	}
	return foldEqual(string(s), value)
}

// List returns tag as a list, wrapping a scalar in a one-element list.
// It fails with *UnknownTagError when tag is absent.
func (m *Map) List(tag string) ([]string, error) {
	v, err := m.Get(tag)
	if err != nil {
		return nil, err
	}
	return v.Strings(), nil
}

// Contains reports whether value is one of the entries of tag.
func (m *Map) Contains(tag, value string, caseSensitive bool) bool {
	v, ok := m.Lookup(tag)
	if !ok {
		return false
	}
	for _, s := range v.Strings() {
		if caseSensitive && s == value {
			return true
		}
		if !caseSensitive && foldEqual(s, value) {
			return true
		}
	}
	return false
}

// Filter returns the items whose tags contain tag, in input order.
func Filter[T Tagged](items []T, tag string) []T {
	var out []T
	for _, it := range items {
		if it.Tags().Has(tag) {
			out = append(out, it)
		}
	}
	return out
}

// FilterValue returns the items whose tag contains value (scalar equal, or
// one list entry equal), in input order.
func FilterValue[T Tagged](items []T, tag, value string, caseSensitive bool) []T {
	var out []T
	for _, it := range items {
		if it.Tags().Contains(tag, value, caseSensitive) {
			out = append(out, it)
		}
	}
	return out
}
