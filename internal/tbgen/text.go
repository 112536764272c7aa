package tbgen

import (
	"fmt"
	"strings"

	"github.com/roach88/tbgen/internal/dut"
	"github.com/roach88/tbgen/internal/writer"
)

var rule = strings.Repeat("-", 60)

// title writes a section banner.
func title(b *writer.Buffer, text string) {
	b.Line(rule).Line("-- " + text).Line(rule)
}

// subtitle writes a level-2 section title.
func subtitle(b *writer.Buffer, text string) {
	b.Line("-- *** " + text + " ***")
}

// Copyright is the notice at the top of every generated file. No notice is
// written when Holder is empty.
type Copyright struct {
	Holder string
	Year   int
}

func copyright(b *writer.Buffer, c Copyright) {
	if c.Holder == "" {
		return
	}
	b.Line(rule)
	if c.Year > 0 {
		b.Linef("-- Copyright (c) %d by %s", c.Year, c.Holder)
	} else {
		b.Linef("-- Copyright (c) by %s", c.Holder)
	}
	b.Line("-- All rights reserved.").Line(rule).Blank()
}

// libraries writes the library clauses of the source, replacing the self
// library with dutLib.
func libraries(b *writer.Buffer, groups []dut.LibraryGroup, dutLib string) {
	title(b, "Libraries")
	for _, g := range groups {
		lib := selfLibrary(g.Library, dutLib)
		b.Linef("library %s;", lib).Indent()
		for _, u := range g.Uses {
			b.Linef("use %s.%s.%s;", selfLibrary(u.Library, dutLib), u.Element, u.Object)
		}
		b.Dedent().Blank()
	}
}

func selfLibrary(lib, dutLib string) string {
	if strings.EqualFold(lib, dut.DefaultLibrary) {
		return dutLib
	}
	return lib
}

// userPackages writes the tbpkg imports.
func userPackages(b *writer.Buffer, groups []dut.PackageGroup) {
	for _, g := range groups {
		b.Linef("library %s;", g.Library).Indent()
		for _, p := range g.Packages {
			b.Linef("use %s.%s.all;", g.Library, p)
		}
		b.Dedent().Blank()
	}
}

// useClause writes "library lib;" followed by "use lib.<unit>.all;" for
// every unit.
func useClause(b *writer.Buffer, lib string, units ...string) {
	b.Linef("library %s;", lib).Indent()
	for _, u := range units {
		b.Linef("use %s.%s.all;", lib, u)
	}
	b.Dedent().Blank()
}

// list writes items one per line, comma separated.
func list(b *writer.Buffer, items []string) {
	for _, it := range items {
		b.Line(it + ",")
	}
	b.TrimSuffix(",")
}

func assoc(name string) string {
	return fmt.Sprintf("%s => %s", name, name)
}
