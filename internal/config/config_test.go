package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFullFile(t *testing.T) {
	cfg, err := Load(filepath.Join("testdata", "full.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ".vhdl", cfg.Extension)
	assert.Equal(t, "  ", cfg.Indent)
	assert.True(t, cfg.Overwrite)
	assert.Equal(t, "build/tbgen.db", cfg.Manifest)
	assert.Equal(t, "fifo_tb_lib", cfg.TBLib)
	assert.Equal(t, Copyright{Holder: "ACME Corp", Year: 2026}, cfg.Copyright)
	assert.Equal(t, filepath.Join("testdata", "full.yaml"), cfg.Path)
}

func TestLoadDefaultFileMissing(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, &Config{}, cfg)
}

func TestLoadDefaultFilePresent(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultFile), []byte("extension: mrg\n"), 0o644))
	t.Chdir(dir)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "mrg", cfg.Extension)
	assert.Equal(t, DefaultFile, cfg.Path)
}

func TestLoadNamedFileMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.False(t, IsInvalidError(err))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseEmpty(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, &Config{}, cfg)
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown key", "colour: red\n"},
		{"wrong type", "overwrite: sometimes\n"},
		{"bad extension", "extension: .v h d\n"},
		{"indent not whitespace", "indent: xx\n"},
		{"library not an identifier", "tblib: 1lib\n"},
		{"year out of range", "copyright:\n  year: 20\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.True(t, IsInvalidError(err), "got %v", err)
		})
	}
}

func TestLoadInvalidNamesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("indent: xx\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration "+path)
}

func TestMerge(t *testing.T) {
	base := Config{Extension: ".vhd", Manifest: "a.db", TBLib: "lib"}
	ext, yes := ".mrg", true

	got := base.Merge(Overrides{Extension: &ext, Overwrite: &yes})
	assert.Equal(t, Config{Extension: ".mrg", Overwrite: true, Manifest: "a.db", TBLib: "lib"}, got)
	assert.Equal(t, ".vhd", base.Extension)

	assert.Equal(t, base, base.Merge(Overrides{}))
}
