package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/tbgen/internal/config"
	"github.com/roach88/tbgen/internal/store"
	"github.com/roach88/tbgen/internal/tbgen"
	"github.com/roach88/tbgen/internal/writer"
)

// GenerateOptions holds flags for the generate command.
type GenerateOptions struct {
	*RootOptions
	Source      string
	Destination string
	Clear       bool
	Force       bool
	Merge       bool
	Extension   string
	Overwrite   bool
	Manifest    string
}

// GenerateResult is the outcome of a generate run.
type GenerateResult struct {
	Source      string   `json:"source"`
	Destination string   `json:"destination"`
	Files       []string `json:"files,omitempty"`
	Cleared     []string `json:"cleared,omitempty"`
	RunID       string   `json:"run_id,omitempty"`
	Aborted     bool     `json:"aborted,omitempty"`
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GenerateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a testbench from an annotated VHDL entity",
		Long: `Generate the testbench of the entity declared in --src into --dst.

A single-case testbench is one file. With a testcases tag, the shared
package and one package per test case are generated as well. Existing
files are never replaced unless --overwrite (or --mrg) is given.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Source, "src", "s", "", "VHDL file containing the entity declaration")
	cmd.Flags().StringVarP(&opts.Destination, "dst", "d", "", "destination directory")
	cmd.Flags().BoolVar(&opts.Clear, "clear", false, "remove all files in the destination directory first")
	cmd.Flags().BoolVarP(&opts.Force, "force", "f", false, "clear without asking")
	cmd.Flags().BoolVar(&opts.Merge, "mrg", false, "write .mrg files for merging, replacing previous ones")
	cmd.Flags().StringVar(&opts.Extension, "ext", "", "extension of generated files (default .vhd)")
	cmd.Flags().BoolVar(&opts.Overwrite, "overwrite", false, "replace existing files")
	cmd.Flags().StringVar(&opts.Manifest, "manifest", "", "record generated files in this manifest database")
	_ = cmd.MarkFlagRequired("src")
	_ = cmd.MarkFlagRequired("dst")

	return cmd
}

func (o *GenerateOptions) overrides(cmd *cobra.Command) config.Overrides {
	var ov config.Overrides
	if cmd.Flags().Changed("ext") {
		ov.Extension = &o.Extension
	}
	if cmd.Flags().Changed("overwrite") {
		ov.Overwrite = &o.Overwrite
	}
	if cmd.Flags().Changed("manifest") {
		ov.Manifest = &o.Manifest
	}
	return ov
}

func runGenerate(opts *GenerateOptions, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	cfg, err := config.Load(opts.Config)
	if err != nil {
		return f.Fail(err)
	}
	if cfg.Path != "" {
		f.VerboseLog("Using configuration %s", cfg.Path)
	}
	settings := cfg.Merge(opts.overrides(cmd))
	if opts.Merge {
		settings.Extension = tbgen.MergeExtension
		settings.Overwrite = true
	}

	dst, err := filepath.Abs(opts.Destination)
	if err != nil {
		return f.Fail(err)
	}
	result := &GenerateResult{Source: opts.Source, Destination: dst}

	text, err := os.ReadFile(opts.Source)
	if err != nil {
		return f.Fail(fmt.Errorf("reading source: %w", err))
	}
	files, err := tbgen.Generate(opts.Source, string(text), tbgen.Options{
		Extension: settings.Extension,
		Indent:    settings.Indent,
		TBLibrary: settings.TBLib,
		Copyright: tbgen.Copyright{
			Holder: settings.Copyright.Holder,
			Year:   settings.Copyright.Year,
		},
	})
	if err != nil {
		return f.Fail(err)
	}
	for _, file := range files {
		f.VerboseLog("Rendered %s (%d bytes)", file.Name, len(file.Data))
	}

	clearDst := opts.Clear
	if clearDst {
		if _, err := os.Stat(dst); errors.Is(err, os.ErrNotExist) {
			f.VerboseLog("Nothing to clear, %s does not exist", dst)
			clearDst = false
		}
	}
	if clearDst {
		if !opts.Force {
			ok, err := confirm(cmd.InOrStdin(), f.GetErrWriter(),
				fmt.Sprintf("Clear all files in %s? [Y/N] ", dst))
			if err != nil {
				return f.Fail(err)
			}
			if !ok {
				result.Aborted = true
				if f.Format == "json" {
					return f.Success(result)
				}
				f.Textf("Aborted by user")
				return nil
			}
		}
		result.Cleared, err = writer.ClearDir(dst)
		if err != nil {
			return f.FailCode(ErrCodeWriteFailed, ExitCommandError, err)
		}
		f.VerboseLog("Removed %d file(s) from %s", len(result.Cleared), dst)
	}

	result.Files, err = tbgen.Write(dst, files, settings.Overwrite)
	if err != nil {
		if writer.IsExistsError(err) {
			return f.Fail(err)
		}
		return f.FailCode(ErrCodeWriteFailed, ExitCommandError, err)
	}

	if settings.Manifest != "" {
		if result.RunID, err = recordRun(cmd, opts.Source, dst, settings.Manifest, result.Files); err != nil {
			return f.FailCode(ErrCodeManifest, ExitCommandError, err)
		}
		f.VerboseLog("Recorded run %s in %s", result.RunID, settings.Manifest)
	}

	if f.Format == "json" {
		return f.Success(result)
	}
	f.Textf("✓ Generated %d file(s) in %s", len(result.Files), dst)
	for _, p := range result.Files {
		f.Textf("  %s", filepath.Base(p))
	}
	return nil
}

func recordRun(cmd *cobra.Command, source, dst, manifest string, paths []string) (string, error) {
	src, err := filepath.Abs(source)
	if err != nil {
		return "", err
	}
	s, err := store.Open(manifest)
	if err != nil {
		return "", err
	}
	defer s.Close()

	run, err := s.RecordRun(cmd.Context(), src, dst, paths)
	if err != nil {
		return "", err
	}
	return run.ID, nil
}

// confirm asks question on out and reads one answer line from in. Only
// "y" or "Y" confirms.
func confirm(in io.Reader, out io.Writer, question string) (bool, error) {
	fmt.Fprint(out, question)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	return strings.EqualFold(strings.TrimSpace(line), "y"), nil
}
