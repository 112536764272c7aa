package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/tbgen/internal/config"
	"github.com/roach88/tbgen/internal/dut"
	"github.com/roach88/tbgen/internal/protocol"
	"github.com/roach88/tbgen/internal/tbgen"
)

// InspectResult describes what generate would produce for a source.
type InspectResult struct {
	Entity     string        `json:"entity"`
	Testbench  string        `json:"testbench"`
	MultiCase  bool          `json:"multi_case"`
	DUTLibrary string        `json:"dut_library"`
	Generics   []GenericInfo `json:"generics"`
	Ports      []PortInfo    `json:"ports"`
	Cases      []string      `json:"cases,omitempty"`
	Processes  []ProcessInfo `json:"processes"`
	Clocks     []ClockInfo   `json:"clocks,omitempty"`
	Files      []string      `json:"files"`
}

// GenericInfo is one generic and how the testbench binds it.
type GenericInfo struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Role  string `json:"role"` // exported | constant | default | unbound
	Value string `json:"value,omitempty"`
}

// PortInfo is one port and its role in the testbench.
type PortInfo struct {
	Name      string   `json:"name"`
	Mode      string   `json:"mode"`
	Type      string   `json:"type"`
	Role      string   `json:"role"` // clock | reset | signal
	Initial   string   `json:"initial,omitempty"`
	Processes []string `json:"processes,omitempty"`
}

// ProcessInfo is one generated process and the phases it goes through.
type ProcessInfo struct {
	Name   string   `json:"name"`
	Index  int      `json:"index"`
	States []string `json:"states"`
}

// ClockInfo is a generated clock driver.
type ClockInfo struct {
	Port       string `json:"port"`
	Freq       string `json:"freq"`
	HalfPeriod string `json:"half_period,omitempty"`
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <src>",
		Short: "Show the parsed entity and the testbench it yields",
		Long: `Parse an annotated VHDL source and print the entity model, the
classification of generics and ports, the generated processes and the
files generate would write. Nothing is written.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runInspect(opts *RootOptions, path string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	cfg, err := config.Load(opts.Config)
	if err != nil {
		return f.Fail(err)
	}
	text, err := os.ReadFile(path)
	if err != nil {
		return f.Fail(fmt.Errorf("reading source: %w", err))
	}
	src, err := dut.Read(path, string(text))
	if err != nil {
		return f.Fail(err)
	}
	tb, err := dut.NewTestbench(src)
	if err != nil {
		return f.Fail(err)
	}
	plan, err := protocol.Build(tb)
	if err != nil {
		return f.Fail(err)
	}
	if err := plan.Validate(); err != nil {
		return f.Fail(err)
	}
	f.VerboseLog("Parsed %s: %d generic(s), %d port(s)", src.Name, len(src.Generics), len(src.Ports))

	result := describe(tb, plan, tbgen.Options{Extension: cfg.Extension}.FileExtension())

	if f.Format == "json" {
		return f.Success(result)
	}
	printInspect(f, result)
	return nil
}

func describe(tb *dut.Testbench, plan *protocol.Plan, ext string) *InspectResult {
	src := tb.Source
	r := &InspectResult{
		Entity:     src.Name,
		Testbench:  tb.Name,
		MultiCase:  tb.MultiCase,
		DUTLibrary: src.DUTLibrary(),
		Cases:      tb.Cases,
		Files:      tbgen.FileNames(tb, ext),
	}

	for _, g := range src.Generics {
		info := GenericInfo{Name: g.Name, Type: g.Type.String(), Role: "unbound"}
		switch {
		case g.Exported():
			info.Role = "exported"
		case g.Constant():
			info.Role = "constant"
		case g.Default != nil:
			info.Role = "default"
		}
		if v, ok := dut.ConstantValue(g); ok {
			info.Value = v
		}
		r.Generics = append(r.Generics, info)
	}

	owners := map[string][]string{}
	for _, proc := range tb.Processes {
		for _, p := range tb.PortsForProcess(proc) {
			owners[p.Name] = append(owners[p.Name], proc)
		}
	}
	for _, p := range src.Ports {
		info := PortInfo{
			Name:      p.Name,
			Mode:      string(p.Mode),
			Type:      p.Type.String(),
			Role:      "signal",
			Processes: owners[p.Name],
		}
		switch {
		case p.IsClock():
			info.Role = "clock"
		case p.IsReset():
			info.Role = "reset"
		}
		if v, err := dut.InitialValue(p); err == nil {
			info.Initial = v
		}
		r.Ports = append(r.Ports, info)
	}

	for _, p := range append([]protocol.Process{plan.Control}, plan.Processes...) {
		info := ProcessInfo{Name: p.Name, Index: p.Index}
		for _, st := range p.States() {
			info.States = append(info.States, st.String())
		}
		r.Processes = append(r.Processes, info)
	}
	for _, c := range plan.Clocks {
		info := ClockInfo{Port: c.Port, Freq: c.Freq}
		if c.HalfPeriod > 0 {
			info.HalfPeriod = c.HalfPeriod.String()
		}
		r.Clocks = append(r.Clocks, info)
	}
	return r
}

func printInspect(f *OutputFormatter, r *InspectResult) {
	kind := "single-case"
	if r.MultiCase {
		kind = "multi-case (" + strings.Join(r.Cases, ", ") + ")"
	}
	f.Textf("Entity %s (library %s)", r.Entity, r.DUTLibrary)
	f.Textf("Testbench %s, %s", r.Testbench, kind)

	if len(r.Generics) > 0 {
		f.Textf("\nGenerics:")
		for _, g := range r.Generics {
			line := fmt.Sprintf("  %s : %s [%s]", g.Name, g.Type, g.Role)
			if g.Value != "" {
				line += " = " + g.Value
			}
			f.Textf("%s", line)
		}
	}

	if len(r.Ports) > 0 {
		f.Textf("\nPorts:")
		for _, p := range r.Ports {
			line := fmt.Sprintf("  %s : %s %s [%s]", p.Name, p.Mode, p.Type, p.Role)
			if len(p.Processes) > 0 {
				line += " -> " + strings.Join(p.Processes, ", ")
			}
			f.Textf("%s", line)
		}
	}

	if len(r.Clocks) > 0 {
		f.Textf("\nClocks:")
		for _, c := range r.Clocks {
			line := fmt.Sprintf("  %s freq=%s", c.Port, c.Freq)
			if c.HalfPeriod != "" {
				line += " (half period " + c.HalfPeriod + ")"
			}
			f.Textf("%s", line)
		}
	}

	f.Textf("\nProcesses:")
	for _, p := range r.Processes {
		f.Textf("  %s: %s", p.Name, strings.Join(p.States, " -> "))
	}

	f.Textf("\nFiles:")
	for _, name := range r.Files {
		f.Textf("  %s", name)
	}
}
