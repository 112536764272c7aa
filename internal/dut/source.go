package dut

import (
	"fmt"

	"golang.org/x/text/cases"

	"github.com/roach88/tbgen/internal/tags"
	"github.com/roach88/tbgen/internal/vhdl"
)

// Generic and port tags.
const (
	TagExport    = "export"
	TagConstant  = "constant"
	TagLowActive = "lowactive"
	TagType      = "type"
	TagClk       = "clk"
	TagFreq      = "freq"
	TagProc      = "proc"
)

// File scope tags.
const (
	TagProcesses = "processes"
	TagTestCases = "testcases"
	TagDUTLib    = "dutlib"
	TagTBPkg     = "tbpkg"
	TagTBLib     = "tblib"
)

// Values of the type tag.
const (
	TypeClock  = "clk"
	TypeReset  = "rst"
	TypeSignal = "sig"
)

// DefaultLibrary is the VHDL self-library name.
const DefaultLibrary = "work"

// Generic is a generic declaration with its parsed tags.
type Generic struct {
	vhdl.Generic
	tags *tags.Map
}

// Tags implements tags.Tagged.
func (g Generic) Tags() *tags.Map { return g.tags }

// Exported reports export=true.
func (g Generic) Exported() bool { return g.tags.Equals(TagExport, "true", false) }

// Constant reports whether the generic carries a constant tag.
func (g Generic) Constant() bool { return g.tags.Has(TagConstant) }

// Port is a port declaration with its parsed tags.
type Port struct {
	vhdl.Port
	tags *tags.Map
}

// Tags implements tags.Tagged.
func (p Port) Tags() *tags.Map { return p.tags }

// IsClock reports type=clk.
func (p Port) IsClock() bool { return p.tags.Equals(TagType, TypeClock, false) }

// IsReset reports type=rst.
func (p Port) IsReset() bool { return p.tags.Equals(TagType, TypeReset, false) }

// LowActive reports lowactive=true.
func (p Port) LowActive() bool { return p.tags.Equals(TagLowActive, "true", false) }

// LibraryGroup is the use statements of one library in source order.
type LibraryGroup struct {
	Library string
	Uses    []vhdl.UseStatement
}

// Source is the tagged model of one parsed source file.
// It is built once and not modified afterwards.
type Source struct {
	Name      string // entity name
	File      string // source file name, informational
	Generics  []Generic
	Ports     []Port
	Libraries []LibraryGroup
	FileTags  *tags.Map
}

// Read parses text and builds its Source.
func Read(name, text string) (*Source, error) {
	f, err := vhdl.ParseFile(name, text)
	if err != nil {
		return nil, err
	}
	return New(f)
}

// New builds a Source from a parsed file: it parses the tags of every
// declaration and merges the tags of every comment line into FileTags.
func New(f *vhdl.File) (*Source, error) {
	s := &Source{
		Name:     f.Entity.Name,
		File:     f.Name,
		FileTags: tags.NewMap(),
	}

	for _, g := range f.Entity.Generics {
		m, err := tags.Parse(g.Comment)
		if err != nil {
			return nil, fmt.Errorf("generic %s: %w", g.Name, err)
		}
		s.Generics = append(s.Generics, Generic{Generic: g, tags: m})
	}
	for _, p := range f.Entity.Ports {
		m, err := tags.Parse(p.Comment)
		if err != nil {
			return nil, fmt.Errorf("port %s: %w", p.Name, err)
		}
		s.Ports = append(s.Ports, Port{Port: p, tags: m})
	}

	s.Libraries = groupUses(f.Uses)

	for _, c := range f.Comments {
		m, err := tags.Parse(c.Text)
		if err != nil {
			return nil, fmt.Errorf("comment line %d: %w", c.Line, err)
		}
		s.FileTags.Merge(m)
	}
	return s, nil
}

// groupUses groups use statements by library in order of first appearance.
func groupUses(uses []vhdl.UseStatement) []LibraryGroup {
	var groups []LibraryGroup
	index := make(map[string]int)
	for _, u := range uses {
		i, ok := index[u.Library]
		if !ok {
			i = len(groups)
			index[u.Library] = i
			groups = append(groups, LibraryGroup{Library: u.Library})
		}
		groups[i].Uses = append(groups[i].Uses, u)
	}
	return groups
}

// DUTLibrary returns the dutlib file tag, or "work".
func (s *Source) DUTLibrary() string {
	return s.libraryTag(TagDUTLib)
}

// TBLibrary returns the tblib file tag, or "work". The generated testbench
// packages are referenced through this library.
func (s *Source) TBLibrary() string {
	return s.libraryTag(TagTBLib)
}

func (s *Source) libraryTag(tag string) string {
	if v, ok := s.FileTags.Lookup(tag); ok {
		return v.String()
	}
	return DefaultLibrary
}

// Clocks returns the ports tagged type=clk in declaration order.
func (s *Source) Clocks() []Port {
	return tags.FilterValue(s.Ports, TagType, TypeClock, false)
}

// Resets returns the ports tagged type=rst in declaration order.
func (s *Source) Resets() []Port {
	return tags.FilterValue(s.Ports, TagType, TypeReset, false)
}

// Exported returns the generics tagged export=true.
func (s *Source) Exported() []Generic {
	var out []Generic
	for _, g := range s.Generics {
		if g.Exported() {
			out = append(out, g)
		}
	}
	return out
}

// Constants returns the generics fixed by a constant tag. An exported
// generic is never a constant.
func (s *Source) Constants() []Generic {
	var out []Generic
	for _, g := range s.Generics {
		if g.Constant() && !g.Exported() {
			out = append(out, g)
		}
	}
	return out
}

// Defaulted returns the generics that are neither exported nor constant
// but carry a default value.
func (s *Source) Defaulted() []Generic {
	var out []Generic
	for _, g := range s.Generics {
		if g.Default != nil && !g.Exported() && !g.Constant() {
			out = append(out, g)
		}
	}
	return out
}

// Bound returns the generics mapped on the DUT instance: exported or
// constant, in declaration order.
func (s *Source) Bound() []Generic {
	var out []Generic
	for _, g := range s.Generics {
		if g.Exported() || g.Constant() {
			out = append(out, g)
		}
	}
	return out
}

// ConstantValue returns the value a non-exported generic takes in the
// testbench: its constant tag, else its declared default. ok is false when
// it has neither.
func ConstantValue(g Generic) (value string, ok bool) {
	if v, found := g.tags.Lookup(TagConstant); found {
		return v.String(), true
	}
	if g.Default != nil {
		return g.Default.String(), true
	}
	return "", false
}

// RequireTag returns the value of tag on a port or fails with
// *MissingTagError.
func RequireTag(p Port, tag string) (string, error) {
	v, ok := p.tags.Lookup(tag)
	if !ok {
		return "", &MissingTagError{Kind: "port", Object: p.Name, Tag: tag}
	}
	return v.String(), nil
}

// sameName compares VHDL identifiers case-insensitively.
func sameName(a, b string) bool {
	c := cases.Fold()
	return c.String(a) == c.String(b)
}
