package dut

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tbgen/internal/tags"
	"github.com/roach88/tbgen/internal/vhdl"
)

func port(t *testing.T, decl string) Port {
	t.Helper()
	s := mustRead(t, "entity e is port (\n"+decl+"\n); end;")
	require.Len(t, s.Ports, 1)
	return s.Ports[0]
}

func TestPortValue(t *testing.T) {
	tests := []struct {
		name   string
		decl   string
		active bool
		want   string
	}{
		{"high active bit asserted", "A : in std_logic", true, "'1'"},
		{"high active bit released", "A : in std_logic", false, "'0'"},
		{"low active bit asserted", "A : in std_logic -- $$ lowactive=true $$", true, "'0'"},
		{"low active bit released", "A : in std_logic -- $$ lowactive=true $$", false, "'1'"},
		{"vector asserted", "A : in std_logic_vector(7 downto 0)", true, "(others => '1')"},
		{"low active vector", "A : in std_ulogic_vector(0 to 3) -- $$ lowactive=TRUE $$", true, "(others => '0')"},
		{"unsigned", "A : out unsigned(3 downto 0)", false, "(others => '0')"},
		{"uppercase type", "A : in STD_LOGIC", true, "'1'"},
		{"selected name", "A : in ieee.std_logic_1164.std_ulogic", true, "'1'"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PortValue(port(t, tt.decl), tt.active)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPortValueUnknownType(t *testing.T) {
	_, err := PortValue(port(t, "Count : out integer"), true)
	require.Error(t, err)
	assert.True(t, IsUnknownTypeError(err))
	assert.Equal(t, "port Count: unknown VHDL type integer", err.Error())
}

func TestInitialValue(t *testing.T) {
	s := mustRead(t, fifoSource)

	v, err := InitialValue(s.Ports[0]) // Clk
	require.NoError(t, err)
	assert.Equal(t, "'1'", v)

	v, err = InitialValue(s.Ports[1]) // Rst_n, low active
	require.NoError(t, err)
	assert.Equal(t, "'0'", v)

	v, err = InitialValue(s.Ports[2]) // InData
	require.NoError(t, err)
	assert.Equal(t, "(others => '0')", v)
}

func TestTestbenchDescriptor(t *testing.T) {
	tb, err := NewTestbench(mustRead(t, fifoSource))
	require.NoError(t, err)

	assert.Equal(t, "fifo_tb", tb.Name)
	assert.True(t, tb.MultiCase)
	assert.Equal(t, []string{"Reset", "Data"}, tb.Cases)
	assert.Equal(t, []string{"Stimuli", "Checker"}, tb.Processes)
	assert.Equal(t, "fifo_tb_pkg", tb.PackageName())
	assert.Equal(t, "fifo_tb_case_Data", tb.CaseName("Data"))

	assert.Equal(t, []PackageGroup{
		{Library: "work", Packages: []string{"fifo_tb_util", "other"}},
		{Library: "psi_tb", Packages: []string{"txt_util"}},
	}, tb.UserPackages)
}

func TestTestbenchDefaults(t *testing.T) {
	tb, err := NewTestbench(mustRead(t, "entity e is port ( A : in std_logic ); end;"))
	require.NoError(t, err)

	assert.False(t, tb.MultiCase)
	assert.Empty(t, tb.Cases)
	assert.Equal(t, []string{DefaultProcess}, tb.Processes)
	assert.Empty(t, tb.UserPackages)
}

func TestTestbenchSingleCaseTag(t *testing.T) {
	tb, err := NewTestbench(mustRead(t, "-- $$ testcases=Only; processes=Main $$\nentity e is end;"))
	require.NoError(t, err)

	assert.True(t, tb.MultiCase)
	assert.Equal(t, []string{"Only"}, tb.Cases)
	assert.Equal(t, []string{"Main"}, tb.Processes)
}

func TestTestbenchErrors(t *testing.T) {
	tests := []struct {
		name string
		tag  string
		want string
	}{
		{"bad tbpkg", "tbpkg=nodot", "library.package"},
		{"nested tbpkg", "tbpkg=a.b.c", "library.package"},
		{"duplicate process", "processes=A,a", "duplicate process"},
		{"duplicate case", "testcases=X,Y,X", "duplicate test case"},
		{"case path", "testcases=../../escape", "not a VHDL identifier"},
		{"case leading digit", "testcases=A,1st", "not a VHDL identifier"},
		{"process with space", "processes=Stim uli", "not a VHDL identifier"},
		{"process path", "processes=a/b", "not a VHDL identifier"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTestbench(mustRead(t, "-- $$ "+tt.tag+" $$\nentity e is end;"))
			require.Error(t, err)
			assert.True(t, tags.IsFormatError(err))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestPortsForProcess(t *testing.T) {
	tb, err := NewTestbench(mustRead(t, fifoSource))
	require.NoError(t, err)

	assert.Equal(t, []string{"InData", "Ack", "OutData"}, portNames(tb.PortsForProcess("Stimuli")))
	assert.Equal(t, []string{"Ack", "OutData", "Count"}, portNames(tb.PortsForProcess("Checker")))
	assert.Empty(t, tb.PortsForProcess("Nobody"))
}

func TestProcedureMode(t *testing.T) {
	s := mustRead(t, fifoSource)
	byName := map[string]Port{}
	for _, p := range s.Ports {
		byName[p.Name] = p
	}

	tests := []struct {
		proc string
		port string
		want vhdl.PortMode
	}{
		{"Stimuli", "InData", vhdl.ModeInOut},
		{"stimuli", "InData", vhdl.ModeInOut},
		{"Checker", "Ack", vhdl.ModeInOut},
		{"Stimuli", "Ack", vhdl.ModeIn},
		{"Checker", "OutData", vhdl.ModeIn},
		{"Checker", "Count", vhdl.ModeIn},
		{"Stimuli", "Clk", vhdl.ModeIn},
	}
	for _, tt := range tests {
		t.Run(tt.proc+"/"+tt.port, func(t *testing.T) {
			assert.Equal(t, tt.want, ProcedureMode(tt.proc, byName[tt.port]))
		})
	}
}

func TestProcedureModeClockOwner(t *testing.T) {
	p := port(t, "Clk : in std_logic -- $$ type=clk; freq=1e6; proc=Stimuli $$")
	assert.Equal(t, vhdl.ModeIn, ProcedureMode("Stimuli", p))
}
