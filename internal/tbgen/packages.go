package tbgen

import (
	"strings"

	"github.com/roach88/tbgen/internal/dut"
	"github.com/roach88/tbgen/internal/writer"
)

// sharedPackage renders <tb>_pkg: the generics record and the constants of
// every generic that is not exported.
func (r *renderer) sharedPackage() *writer.Buffer {
	tb, src := r.tb, r.src
	name := tb.PackageName()
	b := r.buffer()

	libraries(b, src.Libraries, src.DUTLibrary())
	userPackages(b, tb.UserPackages)

	title(b, "Package Header")
	b.Linef("package %s is", name).Indent()
	b.Blank()
	subtitle(b, "Generics Record")
	b.Linef("type %s is record", genericsRec).Indent()
	exported := src.Exported()
	for _, g := range exported {
		b.Linef("%s : %s;", g.Name, g.Type)
	}
	if len(exported) == 0 {
		b.Line(placeholder + " : boolean; -- empty records are not allowed")
	}
	b.Dedent().Line("end record;")
	b.Blank()

	title(b, "Not exported Generics")
	for _, g := range src.Generics {
		if g.Exported() {
			continue
		}
		if v, ok := dut.ConstantValue(g); ok {
			b.Linef("constant %s : %s := %s;", g.Name, g.Type, v)
		}
	}
	b.Blank()
	b.Dedent().Line("end package;")
	b.Blank()

	title(b, "Package Body")
	b.Linef("package body %s is", name)
	b.Line("end;")
	return b
}

// casePackage renders <tb>_case_<c>: one procedure stub per process.
func (r *renderer) casePackage(c string) *writer.Buffer {
	tb, src := r.tb, r.src
	name := tb.CaseName(c)
	b := r.buffer()

	libraries(b, src.Libraries, src.DUTLibrary())
	useClause(b, r.tbLibrary(), tb.PackageName())
	userPackages(b, tb.UserPackages)

	title(b, "Package Header")
	b.Linef("package %s is", name).Indent()
	b.Blank()
	for _, p := range tb.Processes {
		r.signature(b, p)
		b.AppendLast(";")
		b.Blank()
	}
	b.Dedent().Line("end package;")
	b.Blank()

	title(b, "Package Body")
	b.Linef("package body %s is", name).Indent()
	for _, p := range tb.Processes {
		r.signature(b, p)
		b.AppendLast(" is")
		b.Line("begin").Indent()
		b.Linef(`assert false report "Case %s Procedure %s: No Content added yet!" severity warning;`,
			strings.ToUpper(c), strings.ToUpper(p))
		b.Dedent().Line("end procedure;")
		b.Blank()
	}
	b.Dedent().Line("end;")
	return b
}

// signature writes the parameter list of the case procedure of process,
// ending with the closing parenthesis.
func (r *renderer) signature(b *writer.Buffer, process string) {
	b.Linef("procedure %s (", process).Indent()
	for _, port := range r.tb.PortsForProcess(process) {
		b.Linef("signal %s : %s %s;", port.Name, dut.ProcedureMode(process, port), port.Type.Name)
	}
	b.Linef("constant %s : %s)", genericsVal, genericsRec)
	b.Dedent()
}
