package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSingleCase(t *testing.T) {
	dir := workspace(t, map[string]string{"counter.vhd": counterVHDL})

	r := execute(t, "", "generate", "--src", "counter.vhd", "--dst", "tb")
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, "✓ Generated 1 file(s)")
	assert.Contains(t, r.stdout, "  counter_tb.vhd\n")

	data, err := os.ReadFile(filepath.Join(dir, "tb", "counter_tb.vhd"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "entity counter_tb is")
}

func TestGenerateRefusesExistingFiles(t *testing.T) {
	dir := workspace(t, map[string]string{"counter.vhd": counterVHDL})
	target := filepath.Join(dir, "tb", "counter_tb.vhd")

	require.NoError(t, execute(t, "", "generate", "-s", "counter.vhd", "-d", "tb").err)
	require.NoError(t, os.WriteFile(target, []byte("-- edited"), 0o644))

	r := execute(t, "", "generate", "-s", "counter.vhd", "-d", "tb")
	require.Error(t, r.err)
	assert.Equal(t, ExitCommandError, r.code())
	assert.Contains(t, r.stdout, "Error [E007]")
	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "-- edited", string(data))

	require.NoError(t, execute(t, "", "generate", "-s", "counter.vhd", "-d", "tb", "--overwrite").err)
	data, err = os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(data), "entity counter_tb is")
}

func TestGenerateMergeFiles(t *testing.T) {
	dir := workspace(t, map[string]string{"fifo.vhd": fifoVHDL})

	for i := 0; i < 2; i++ {
		r := execute(t, "", "generate", "-s", "fifo.vhd", "-d", "tb", "--mrg")
		require.NoError(t, r.err, "run %d", i)
	}
	for _, name := range []string{"fifo_tb.mrg", "fifo_tb_pkg.mrg", "fifo_tb_case_A.mrg", "fifo_tb_case_B.mrg"} {
		assert.FileExists(t, filepath.Join(dir, "tb", name))
	}
	assert.NoFileExists(t, filepath.Join(dir, "tb", "fifo_tb.vhd"))
}

func TestGenerateClear(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		stdin     string
		aborted   bool
		wantStray bool
	}{
		{"declined", nil, "n\n", true, true},
		{"no answer", nil, "", true, true},
		{"confirmed", nil, "Y\n", false, false},
		{"confirmed lower case", nil, "y\n", false, false},
		{"forced", []string{"--force"}, "", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := workspace(t, map[string]string{
				"counter.vhd":      counterVHDL,
				"tb/stray.vhd":     "-- old",
				"tb/keep/file.vhd": "-- nested",
			})

			args := append([]string{"generate", "-s", "counter.vhd", "-d", "tb", "--clear"}, tt.args...)
			r := execute(t, tt.stdin, args...)
			require.NoError(t, r.err)
			assert.Equal(t, ExitSuccess, r.code())

			if len(tt.args) == 0 {
				assert.Contains(t, r.stderr, "Clear all files in ")
			} else {
				assert.NotContains(t, r.stderr, "Clear all files")
			}
			if tt.aborted {
				assert.Contains(t, r.stdout, "Aborted by user")
				assert.NoFileExists(t, filepath.Join(dir, "tb", "counter_tb.vhd"))
			} else {
				assert.FileExists(t, filepath.Join(dir, "tb", "counter_tb.vhd"))
			}
			if tt.wantStray {
				assert.FileExists(t, filepath.Join(dir, "tb", "stray.vhd"))
			} else {
				assert.NoFileExists(t, filepath.Join(dir, "tb", "stray.vhd"))
			}
			assert.FileExists(t, filepath.Join(dir, "tb", "keep", "file.vhd"))
		})
	}
}

func TestGenerateClearMissingDestination(t *testing.T) {
	dir := workspace(t, map[string]string{"counter.vhd": counterVHDL})

	r := execute(t, "", "generate", "-s", "counter.vhd", "-d", "new/tb", "--clear")
	require.NoError(t, r.err)
	assert.NotContains(t, r.stderr, "Clear all files")
	assert.NotContains(t, r.stdout, "Aborted by user")
	assert.FileExists(t, filepath.Join(dir, "new", "tb", "counter_tb.vhd"))
}

func TestGenerateJSON(t *testing.T) {
	dir := workspace(t, map[string]string{"fifo.vhd": fifoVHDL})

	r := execute(t, "", "generate", "-s", "fifo.vhd", "-d", "tb", "--format", "json", "-v")
	require.NoError(t, r.err)

	var resp struct {
		Status string         `json:"status"`
		Data   GenerateResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Len(t, resp.Data.Files, 4)
	assert.Equal(t, filepath.Join(dir, "tb", "fifo_tb.vhd"), resp.Data.Files[0])
	assert.Empty(t, resp.Data.RunID)
	assert.Contains(t, r.stderr, "Rendered fifo_tb_pkg.vhd")
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		code   string
	}{
		{"no entity", "package p is\nend package;\n", ErrCodeSyntax},
		{"malformed tag", "entity e is port ( A : in std_logic -- $$ type $$\n); end;", ErrCodeTagFormat},
		{"clock without freq", "entity e is port ( Clk : in std_logic -- $$ type=clk $$\n); end;", ErrCodeMissingTag},
		{"reset of unknown type", "entity e is port ( R : in boolean -- $$ type=rst; clk=Clk $$\n); end;", ErrCodeUnknownType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := workspace(t, map[string]string{"e.vhd": tt.source})

			r := execute(t, "", "generate", "-s", "e.vhd", "-d", "tb", "--format", "json")
			require.Error(t, r.err)
			assert.Equal(t, ExitCommandError, r.code())
			assert.True(t, Reported(r.err))

			var resp CLIResponse
			require.NoError(t, json.Unmarshal([]byte(r.stdout), &resp))
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
			assert.NoDirExists(t, filepath.Join(dir, "tb"))
		})
	}
}

func TestGenerateMissingSource(t *testing.T) {
	workspace(t, nil)

	r := execute(t, "", "generate", "-s", "nope.vhd", "-d", "tb")
	require.Error(t, r.err)
	assert.Equal(t, ExitCommandError, r.code())
	assert.Contains(t, r.stdout, "Error [E002]")
}

func TestGenerateRequiresFlags(t *testing.T) {
	workspace(t, nil)

	r := execute(t, "", "generate", "-s", "a.vhd")
	require.Error(t, r.err)
	assert.False(t, Reported(r.err))
}

func TestGenerateUsesConfiguration(t *testing.T) {
	dir := workspace(t, map[string]string{
		"counter.vhd": counterVHDL,
		"tbgen.yaml":  "extension: vhdl\nindent: \"  \"\ncopyright:\n  holder: ACME Corp\n  year: 2026\n",
	})

	r := execute(t, "", "generate", "-s", "counter.vhd", "-d", "tb", "-v")
	require.NoError(t, r.err)
	assert.Contains(t, r.stderr, "Using configuration tbgen.yaml")

	data, err := os.ReadFile(filepath.Join(dir, "tb", "counter_tb.vhdl"))
	require.NoError(t, err)
	text := string(data)
	assert.True(t, strings.HasPrefix(text, strings.Repeat("-", 60)+"\n-- Copyright (c) 2026 by ACME Corp\n"))
	assert.Contains(t, text, "\n  i_dut : entity work.counter\n")

	// the flag wins over the file
	require.NoError(t, execute(t, "", "generate", "-s", "counter.vhd", "-d", "tb", "--ext", ".vhd").err)
	assert.FileExists(t, filepath.Join(dir, "tb", "counter_tb.vhd"))
}

func TestGenerateInvalidConfiguration(t *testing.T) {
	workspace(t, map[string]string{
		"counter.vhd": counterVHDL,
		"other.yaml":  "indent: tabs\n",
	})

	r := execute(t, "", "generate", "-s", "counter.vhd", "-d", "tb", "--config", "other.yaml")
	require.Error(t, r.err)
	assert.Contains(t, r.stdout, "Error [E009]")
	assert.Contains(t, r.stdout, "other.yaml")
}
