package tbgen

import (
	"fmt"
	"strings"

	"github.com/roach88/tbgen/internal/dut"
	"github.com/roach88/tbgen/internal/protocol"
	"github.com/roach88/tbgen/internal/writer"
)

// Names of the generated control objects.
const (
	runFlag      = "TbRunning"
	caseIndex    = "NextCase"
	doneVector   = "ProcessDone"
	allDone      = "AllProcessesDone_c"
	genericsRec  = "Generics_t"
	genericsVal  = "Generics_c"
	placeholder  = "Dummy"
	noCaseMarker = -1
)

func procNr(process string) string {
	return "TbProcNr_" + process + "_c"
}

func (r *renderer) top() (*writer.Buffer, error) {
	tb, src := r.tb, r.src
	b := r.buffer()

	title(b, "Testbench generated by tbgen")
	b.Blank()
	libraries(b, src.Libraries, src.DUTLibrary())
	userPackages(b, tb.UserPackages)
	if tb.MultiCase {
		tbLib := r.tbLibrary()
		useClause(b, tbLib, tb.PackageName())
		units := make([]string, len(tb.Cases))
		for i, c := range tb.Cases {
			units[i] = tb.CaseName(c)
		}
		useClause(b, tbLib, units...)
	}

	r.entity(b)

	title(b, "Architecture")
	b.Linef("architecture sim of %s is", tb.Name).Indent()
	r.genericConstants(b)
	b.Blank()
	r.controlSignals(b)
	b.Blank()
	if err := r.dutSignals(b); err != nil {
		return nil, err
	}
	b.Blank()
	b.Dedent().Line("begin").Indent()

	r.instance(b, src.DUTLibrary())
	b.Blank()
	r.control(b)
	b.Blank()
	r.clocks(b)
	r.resets(b)
	r.processes(b)
	b.Dedent().Line("end;")
	return b, nil
}

func (r *renderer) entity(b *writer.Buffer) {
	title(b, "Entity Declaration")
	b.Linef("entity %s is", r.tb.Name).Indent()
	if exported := r.src.Exported(); len(exported) > 0 {
		b.Line("generic (").Indent()
		for _, g := range exported {
			line := fmt.Sprintf("%s : %s", g.Name, g.Type)
			if g.Default != nil {
				line += " := " + g.Default.String()
			}
			b.Line(line + ";")
		}
		b.TrimSuffix(";")
		b.Dedent().Line(");")
	}
	b.Dedent().Line("end entity;").Blank()
}

func (r *renderer) genericConstants(b *writer.Buffer) {
	subtitle(b, "Fixed Generics")
	for _, g := range r.src.Constants() {
		v, _ := dut.ConstantValue(g)
		b.Linef("constant %s : %s := %s;", g.Name, g.Type, v)
	}
	b.Blank()
	subtitle(b, "Not Assigned Generics (default values)")
	for _, g := range r.src.Defaulted() {
		b.Linef("constant %s : %s := %s;", g.Name, g.Type, g.Default)
	}

	if !r.tb.MultiCase {
		return
	}
	b.Blank()
	subtitle(b, "Exported Generics")
	b.Linef("constant %s : %s := (", genericsVal, genericsRec).Indent()
	exported := r.src.Exported()
	for _, g := range exported {
		b.Line(assoc(g.Name) + ",")
	}
	if len(exported) == 0 {
		b.Line(placeholder + " => true,")
	}
	b.TrimLast(1).AppendLast(");")
	b.Dedent()
}

func (r *renderer) controlSignals(b *writer.Buffer) {
	n := len(r.tb.Processes)
	subtitle(b, "TB Control")
	b.Linef("signal %s : boolean := True;", runFlag)
	b.Linef("signal %s : integer := %d;", caseIndex, noCaseMarker)
	b.Linef("signal %s : std_logic_vector(0 to %d) := (others => '0');", doneVector, n-1)
	b.Linef("constant %s : std_logic_vector(0 to %d) := (others => '1');", allDone, n-1)
	for _, p := range r.plan.Processes {
		b.Linef("constant %s : integer := %d;", procNr(p.Name), p.Index)
	}
}

func (r *renderer) dutSignals(b *writer.Buffer) error {
	subtitle(b, "DUT Signals")
	for _, p := range r.src.Ports {
		init, err := dut.InitialValue(p)
		switch {
		case err == nil:
			b.Linef("signal %s : %s := %s;", p.Name, p.Type, init)
		case dut.IsUnknownTypeError(err):
			b.Linef("signal %s : %s;", p.Name, p.Type)
		default:
			return err
		}
	}
	return nil
}

func (r *renderer) instance(b *writer.Buffer, dutLib string) {
	title(b, "DUT Instantiation")
	b.Linef("i_dut : entity %s.%s", dutLib, r.src.Name).Indent()

	var generics []string
	for _, g := range r.src.Bound() {
		generics = append(generics, assoc(g.Name))
	}
	if len(generics) > 0 {
		b.Line("generic map (").Indent()
		list(b, generics)
		b.Dedent().Line(")")
	}

	var ports []string
	for _, p := range r.src.Ports {
		ports = append(ports, assoc(p.Name))
	}
	if len(ports) > 0 {
		b.Line("port map (").Indent()
		list(b, ports)
		b.Dedent().Line(");")
	} else {
		b.AppendLast(";")
	}
	b.Dedent()
}

// resetsReleased is the condition of every reset at its inactive level.
func (r *renderer) resetsReleased() string {
	terms := make([]string, len(r.plan.Resets))
	for i, rst := range r.plan.Resets {
		terms[i] = rst.Port + " = " + rst.Inactive
	}
	return strings.Join(terms, " and ")
}

func (r *renderer) control(b *writer.Buffer) {
	title(b, "Testbench Control !DO NOT EDIT!")
	b.Line("p_tb_control : process")
	b.Line("begin").Indent()
	for _, st := range r.plan.Control.Steps {
		switch st.Kind {
		case protocol.AwaitResets:
			b.Linef("wait until %s;", r.resetsReleased())
		case protocol.AnnounceCase:
			b.Line("-- " + r.tb.Cases[st.Case])
			b.Linef("%s <= %d;", caseIndex, st.Case)
		case protocol.AwaitBarrier:
			b.Linef("wait until %s = %s;", doneVector, allDone)
		case protocol.StopClocks:
			b.Linef("%s <= false;", runFlag)
		case protocol.Suspend:
			b.Line("wait;")
		}
	}
	b.Dedent().Line("end process;")
}

func (r *renderer) clocks(b *writer.Buffer) {
	title(b, "Clocks !DO NOT EDIT!")
	for _, c := range r.plan.Clocks {
		b.Linef("p_clock_%s : process", c.Port).Indent()
		b.Linef("constant Frequency_c : real := real(%s);", c.Freq)
		if c.HalfPeriod > 0 {
			b.AppendLast(" -- half period " + c.HalfPeriod.String())
		}
		b.Dedent().Line("begin").Indent()
		b.Linef("while %s loop", runFlag).Indent()
		b.Line("wait for 0.5*(1 sec)/Frequency_c;")
		b.Linef("%s <= not %s;", c.Port, c.Port)
		b.Dedent().Line("end loop;")
		b.Line("wait;")
		b.Dedent().Line("end process;").Blank()
	}
	if len(r.plan.Clocks) == 0 {
		b.Blank()
	}
}

func (r *renderer) resets(b *writer.Buffer) {
	title(b, "Resets")
	for _, rst := range r.plan.Resets {
		b.Linef("p_rst_%s : process", rst.Port)
		b.Line("begin").Indent()
		b.Linef("wait for %s;", protocol.ResetDelay)
		b.Linef("-- hold the reset for %d rising edges of %s", protocol.ResetEdges, rst.Clock)
		for i := 0; i < protocol.ResetEdges; i++ {
			b.Linef("wait until rising_edge(%s);", rst.Clock)
		}
		b.Linef("%s <= %s;", rst.Port, rst.Inactive)
		b.Line("wait;")
		b.Dedent().Line("end process;").Blank()
	}
	if len(r.plan.Resets) == 0 {
		b.Blank()
	}
}

func (r *renderer) processes(b *writer.Buffer) {
	if r.tb.MultiCase {
		title(b, "Processes !DO NOT EDIT!")
	} else {
		title(b, "Processes")
	}
	for _, p := range r.plan.Processes {
		subtitle(b, p.Name)
		b.Linef("p_%s : process", p.Name)
		b.Line("begin").Indent()
		for _, st := range p.Steps {
			r.processStep(b, p, st)
		}
		b.Dedent().Line("end process;").Blank()
	}
}

func (r *renderer) processStep(b *writer.Buffer, p protocol.Process, st protocol.Step) {
	switch st.Kind {
	case protocol.AwaitResets:
		b.Line("-- start of process !DO NOT EDIT")
		b.Linef("wait until %s;", r.resetsReleased())
	case protocol.UserCode:
		b.Blank()
		b.Line("-- User Code")
		b.Line(`assert False report "Insert your code here!" severity note;`)
		b.Blank()
		b.Line("-- end of process !DO NOT EDIT!")
	case protocol.AwaitCase:
		b.Line("-- " + r.tb.Cases[st.Case])
		b.Linef("wait until %s = %d;", caseIndex, st.Case)
	case protocol.ClearDone:
		b.Linef("%s(%s) <= '0';", doneVector, procNr(p.Name))
	case protocol.Invoke:
		c := r.tb.Cases[st.Case]
		var args []string
		for _, port := range r.tb.PortsForProcess(p.Name) {
			args = append(args, port.Name)
		}
		args = append(args, genericsVal)
		b.Linef("%s.%s.%s(%s);", r.tbLibrary(), r.tb.CaseName(c), p.Name, strings.Join(args, ", "))
	case protocol.Settle:
		b.Linef("wait for %s;", protocol.SettleTime)
	case protocol.SetDone:
		b.Linef("%s(%s) <= '1';", doneVector, procNr(p.Name))
	case protocol.Suspend:
		b.Line("wait;")
	}
}
