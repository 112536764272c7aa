package vhdl

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanUseStatements(t *testing.T) {
	uses, err := ScanUseStatements(fifoSource)
	require.NoError(t, err)

	assert.Equal(t, []UseStatement{
		{Library: "ieee", Element: "std_logic_1164", Object: "all"},
		{Library: "ieee", Element: "numeric_std", Object: "all"},
		{Library: "work", Element: "fifo_pkg", Object: "all"},
	}, uses)
}

func TestScanUseStatementsIgnoresComments(t *testing.T) {
	src := "-- use fake.lib.all;\nuse a.b.c;\nuse only.two;\nreuse x.y.z;\nUSE Lib.Pkg.Obj ;"
	uses, err := ScanUseStatements(src)
	require.NoError(t, err)

	assert.Equal(t, []UseStatement{
		{Library: "a", Element: "b", Object: "c"},
		{Library: "Lib", Element: "Pkg", Object: "Obj"},
	}, uses)
}

func TestScanCommentLines(t *testing.T) {
	comments, err := ScanCommentLines(fifoSource)
	require.NoError(t, err)

	texts := make([]string, len(comments))
	for i, c := range comments {
		texts[i] = c.Text
	}
	assert.Equal(t, []string{
		strings.Repeat("-", 58),
		" $$ processes=Stimuli,Checker; testcases=Reset,Data $$",
		strings.Repeat("-", 58),
		" Control Signals",
		" Data",
	}, texts)
	assert.Equal(t, 2, comments[1].Line)
}

func TestScanCommentLinesSkipsTrailing(t *testing.T) {
	comments, err := ScanCommentLines("a : in bit; -- trailing\n   -- indented\n--first column\r\n")
	require.NoError(t, err)

	require.Len(t, comments, 2)
	assert.Equal(t, " indented", comments[0].Text)
	assert.Equal(t, "first column", comments[1].Text)
}

func TestParseFile(t *testing.T) {
	f, err := ParseFile("fifo.vhd", fifoSource)
	require.NoError(t, err)

	assert.Equal(t, "fifo.vhd", f.Name)
	assert.Equal(t, "fifo", f.Entity.Name)
	assert.Len(t, f.Uses, 3)
	assert.Len(t, f.Comments, 5)
}

func TestParseFileNoEntity(t *testing.T) {
	_, err := ParseFile("empty.vhd", "library ieee;\n")
	require.Error(t, err)
	assert.True(t, IsSyntaxError(err))
	assert.Contains(t, err.Error(), "empty.vhd")
}
