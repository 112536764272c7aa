// Package vhdl parses the constrained subset of VHDL that tbgen understands.
//
// Only four constructs are recognized:
//
//   - entity declarations (name, generic clause, port clause)
//   - use statements (use lib.element.object), scanned anywhere in the file
//   - comment lines (a line whose first token is "--"), scanned anywhere
//   - trailing comments on generic and port declarations
//
// Everything else in the file is ignored. Default values and range bounds
// are captured as opaque token trees (Expr) and are never evaluated.
//
// # Expressions
//
// An expression is one or more runs of non-space characters or
// parenthesized groups. Groups nest without limit and may contain the
// reserved words (to, downto, entity, port, generic, end, is), which are
// otherwise excluded from expressions. This lets defaults such as
//
//	(others => (0 to 3 => '0'))
//
// be reproduced exactly as written.
//
// # Usage
//
//	f, err := vhdl.ParseFile("fifo.vhd", text)
//	if err != nil {
//	    return err // *vhdl.SyntaxError when no well-formed entity exists
//	}
//	for _, p := range f.Entity.Ports {
//	    fmt.Println(p.Name, p.Mode, p.Type)
//	}
package vhdl
