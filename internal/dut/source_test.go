package dut

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tbgen/internal/tags"
	"github.com/roach88/tbgen/internal/vhdl"
)

const fifoSource = `------------------------------------------------------------
-- $$ processes=Stimuli,Checker; testcases=Reset,Data $$
-- $$ tbpkg=work.fifo_tb_util,psi_tb.txt_util,work.other $$
------------------------------------------------------------
library ieee;
    use ieee.std_logic_1164.all;
    use ieee.numeric_std.all;

library work;
    use work.fifo_pkg.all;

use ieee.math_real.all;

entity fifo is
    generic (
        Width_g : positive := 8;                       -- $$ export=true $$
        Depth_g : natural := 2**4;                     -- $$ constant=32 $$
        Init_g  : std_logic_vector(7 downto 0) := (others => '0');
        Mode_g  : string                               -- $$ export=true; constant="fast" $$
    );
    port (
        Clk     : in  std_logic;                       -- $$ type=clk; freq=100e6 $$
        Rst_n   : in  std_logic;                       -- $$ type=rst; clk=Clk; lowactive=true $$
        InData  : in  std_logic_vector(Width_g-1 downto 0); -- $$ proc=Stimuli $$
        Ack     : inout std_logic;                     -- $$ proc=Checker,Stimuli $$
        OutData : out unsigned(Width_g-1 downto 0);    -- $$ proc=Checker,Stimuli $$
        Count   : out integer                          -- $$ proc=checker $$
    );
end entity;
`

func mustRead(t *testing.T, text string) *Source {
	t.Helper()
	s, err := Read("fifo.vhd", text)
	require.NoError(t, err)
	return s
}

func names[T interface{ Tags() *tags.Map }](items []T, name func(T) string) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = name(it)
	}
	return out
}

func portNames(ps []Port) []string {
	return names(ps, func(p Port) string { return p.Name })
}

func genericNames(gs []Generic) []string {
	return names(gs, func(g Generic) string { return g.Name })
}

func TestReadSource(t *testing.T) {
	s := mustRead(t, fifoSource)

	assert.Equal(t, "fifo", s.Name)
	assert.Equal(t, "fifo.vhd", s.File)
	assert.Len(t, s.Generics, 4)
	assert.Len(t, s.Ports, 6)

	assert.True(t, s.FileTags.Has(TagProcesses))
	assert.True(t, s.FileTags.Has(TagTestCases))
	assert.True(t, s.FileTags.Has(TagTBPkg))
}

func TestLibraryGroups(t *testing.T) {
	s := mustRead(t, fifoSource)

	require.Len(t, s.Libraries, 2)
	assert.Equal(t, "ieee", s.Libraries[0].Library)
	require.Len(t, s.Libraries[0].Uses, 3)
	assert.Equal(t, "std_logic_1164", s.Libraries[0].Uses[0].Element)
	assert.Equal(t, "numeric_std", s.Libraries[0].Uses[1].Element)
	assert.Equal(t, "math_real", s.Libraries[0].Uses[2].Element)
	assert.Equal(t, "work", s.Libraries[1].Library)
}

func TestGenericClassification(t *testing.T) {
	s := mustRead(t, fifoSource)

	assert.Equal(t, []string{"Width_g", "Mode_g"}, genericNames(s.Exported()))
	assert.Equal(t, []string{"Depth_g"}, genericNames(s.Constants()))
	assert.Equal(t, []string{"Init_g"}, genericNames(s.Defaulted()))
	assert.Equal(t, []string{"Width_g", "Depth_g", "Mode_g"}, genericNames(s.Bound()))

	v, ok := ConstantValue(s.Generics[1])
	assert.True(t, ok)
	assert.Equal(t, "32", v)

	v, ok = ConstantValue(s.Generics[2])
	assert.True(t, ok)
	assert.Equal(t, "(others => '0')", v)
}

func TestConstantValueMissing(t *testing.T) {
	s := mustRead(t, `entity e is generic ( A : integer ); end;`)
	_, ok := ConstantValue(s.Generics[0])
	assert.False(t, ok)
}

func TestClocksAndResets(t *testing.T) {
	s := mustRead(t, fifoSource)

	require.Equal(t, []string{"Clk"}, portNames(s.Clocks()))
	require.Equal(t, []string{"Rst_n"}, portNames(s.Resets()))
	assert.True(t, s.Clocks()[0].IsClock())
	assert.True(t, s.Resets()[0].IsReset())
	assert.True(t, s.Resets()[0].LowActive())
	assert.False(t, s.Clocks()[0].LowActive())

	freq, err := RequireTag(s.Clocks()[0], TagFreq)
	require.NoError(t, err)
	assert.Equal(t, "100e6", freq)

	_, err = RequireTag(s.Clocks()[0], TagClk)
	require.Error(t, err)
	assert.True(t, IsMissingTagError(err))
	assert.Equal(t, "port Clk has no clk tag", err.Error())
}

func TestLibraries(t *testing.T) {
	s := mustRead(t, fifoSource)
	assert.Equal(t, "work", s.DUTLibrary())
	assert.Equal(t, "work", s.TBLibrary())

	s = mustRead(t, "-- $$ dutlib=fifo_lib; tblib=fifo_tb $$\n"+fifoSource)
	assert.Equal(t, "fifo_lib", s.DUTLibrary())
	assert.Equal(t, "fifo_tb", s.TBLibrary())
}

func TestFileTagsLaterWins(t *testing.T) {
	s := mustRead(t, "-- $$ dutlib=a $$\n-- $$ dutlib=b $$\nentity e is end;")
	assert.Equal(t, "b", s.DUTLibrary())
}

func TestReadTagErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"generic", "entity e is generic ( A : integer -- $$ x\n ); end;", "generic A"},
		{"port", "entity e is port ( A : in bit -- $$ x=1\n ); end;", "port A"},
		{"file", "-- $$ broken\nentity e is end;", "comment line 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read("e.vhd", tt.text)
			require.Error(t, err)
			assert.True(t, tags.IsFormatError(err))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestReadSyntaxError(t *testing.T) {
	_, err := Read("e.vhd", "architecture rtl of e is begin end;")
	require.Error(t, err)
	assert.True(t, vhdl.IsSyntaxError(err))
}
