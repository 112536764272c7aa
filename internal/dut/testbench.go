package dut

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/roach88/tbgen/internal/tags"
	"github.com/roach88/tbgen/internal/vhdl"
)

// DefaultProcess is the process list used when no processes tag is given.
const DefaultProcess = "Stimuli"

// PackageGroup is the user packages of one library in first-seen order.
type PackageGroup struct {
	Library  string
	Packages []string
}

// Testbench is the descriptor derived from a Source for testbench
// generation.
type Testbench struct {
	Source *Source

	// Name is the testbench entity name, <entity>_tb.
	Name string

	MultiCase    bool
	Cases        []string
	Processes    []string
	UserPackages []PackageGroup
}

// NewTestbench derives the testbench descriptor of s.
func NewTestbench(s *Source) (*Testbench, error) {
	tb := &Testbench{
		Source:    s,
		Name:      s.Name + "_tb",
		Processes: []string{DefaultProcess},
	}

	if s.FileTags.Has(TagTestCases) {
		cases, err := s.FileTags.List(TagTestCases)
		if err != nil {
			return nil, err
		}
		tb.MultiCase = true
		tb.Cases = cases
	}

	if s.FileTags.Has(TagProcesses) {
		procs, err := s.FileTags.List(TagProcesses)
		if err != nil {
			return nil, err
		}
		tb.Processes = procs
	}

	if err := checkNames("process", tb.Processes); err != nil {
		return nil, err
	}
	if err := checkNames("test case", tb.Cases); err != nil {
		return nil, err
	}

	if s.FileTags.Has(TagTBPkg) {
		entries, err := s.FileTags.List(TagTBPkg)
		if err != nil {
			return nil, err
		}
		groups, err := groupPackages(entries)
		if err != nil {
			return nil, err
		}
		tb.UserPackages = groups
	}
	return tb, nil
}

// identRe matches the names usable in generated identifiers and file names.
var identRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// checkNames requires distinct VHDL identifiers. Case and process names
// end up in entity, procedure and file names.
func checkNames(what string, names []string) error {
	for i, a := range names {
		if !identRe.MatchString(a) {
			return &tags.FormatError{Input: a, Message: fmt.Sprintf("%s name %q is not a VHDL identifier", what, a)}
		}
		for _, b := range names[:i] {
			if sameName(a, b) {
				return &tags.FormatError{Input: a, Message: fmt.Sprintf("duplicate %s %s", what, a)}
			}
		}
	}
	return nil
}

func groupPackages(entries []string) ([]PackageGroup, error) {
	var groups []PackageGroup
	index := make(map[string]int)
	for _, e := range entries {
		lib, pkg, ok := strings.Cut(e, ".")
		if !ok || lib == "" || pkg == "" || strings.Contains(pkg, ".") {
			return nil, &tags.FormatError{Input: e, Message: "tbpkg entry must be library.package"}
		}
		i, seen := index[lib]
		if !seen {
			i = len(groups)
			index[lib] = i
			groups = append(groups, PackageGroup{Library: lib})
		}
		groups[i].Packages = append(groups[i].Packages, pkg)
	}
	return groups, nil
}

// PackageName is the shared package of a multi-case testbench.
func (tb *Testbench) PackageName() string {
	return tb.Name + "_pkg"
}

// CaseName is the package holding the procedures of test case c.
func (tb *Testbench) CaseName(c string) string {
	return tb.Name + "_case_" + c
}

// PortsForProcess returns the ports whose proc tag names proc.
func (tb *Testbench) PortsForProcess(proc string) []Port {
	return tags.FilterValue(tb.Source.Ports, TagProc, proc, false)
}

// ProcedureMode is the direction p is passed with into the case procedure
// of proc: writable only for in/inout ports whose first proc owner is proc,
// and never for clocks.
func ProcedureMode(proc string, p Port) vhdl.PortMode {
	if p.Mode == vhdl.ModeOut || p.Mode == vhdl.ModeBuffer || p.IsClock() {
		return vhdl.ModeIn
	}
	owners, err := p.tags.List(TagProc)
	if err != nil || len(owners) == 0 {
		return vhdl.ModeIn
	}
	if sameName(owners[0], proc) {
		return vhdl.ModeInOut
	}
	return vhdl.ModeIn
}
