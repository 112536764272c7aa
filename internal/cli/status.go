package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/tbgen/internal/config"
	"github.com/roach88/tbgen/internal/store"
)

// StatusOptions holds flags for the status command.
type StatusOptions struct {
	*RootOptions
	Destination string
	Manifest    string
}

// StatusResult lists the files of the latest run into a destination.
type StatusResult struct {
	RunID       string             `json:"run_id"`
	Source      string             `json:"source"`
	Destination string             `json:"destination"`
	Generated   string             `json:"generated"`
	Files       []store.FileStatus `json:"files"`
	Clean       bool               `json:"clean"`
}

// NewStatusCommand creates the status command.
func NewStatusCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StatusOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Report generated files changed since generation",
		Long: `Compare the files of the latest generate run into --dst with the
hashes recorded in the manifest. Exits with 1 when a file was modified or
removed.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Destination, "dst", "d", "", "destination directory")
	cmd.Flags().StringVar(&opts.Manifest, "manifest", "", "manifest database (default from configuration)")
	_ = cmd.MarkFlagRequired("dst")

	return cmd
}

func runStatus(opts *StatusOptions, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	cfg, err := config.Load(opts.Config)
	if err != nil {
		return f.Fail(err)
	}
	manifest := opts.Manifest
	if manifest == "" {
		manifest = cfg.Manifest
	}
	if manifest == "" {
		return f.FailCode(ErrCodeManifest, ExitCommandError,
			errors.New("no manifest configured (use --manifest or set manifest in the configuration)"))
	}

	dst, err := filepath.Abs(opts.Destination)
	if err != nil {
		return f.Fail(err)
	}

	s, err := store.Open(manifest)
	if err != nil {
		return f.FailCode(ErrCodeManifest, ExitCommandError, err)
	}
	defer s.Close()

	run, statuses, err := s.Status(cmd.Context(), dst)
	if errors.Is(err, store.ErrNoRuns) {
		return f.Fail(fmt.Errorf("%s: %w", dst, err))
	}
	if err != nil {
		return f.FailCode(ErrCodeManifest, ExitCommandError, err)
	}

	result := &StatusResult{
		RunID:       run.ID,
		Source:      run.Source,
		Destination: dst,
		Generated:   run.CreatedAt.Format("2006-01-02 15:04:05 MST"),
		Files:       statuses,
	}
	changed := 0
	for _, st := range statuses {
		if st.State != store.Unchanged {
			changed++
		}
	}
	result.Clean = changed == 0
	f.VerboseLog("Run %s, %d file(s)", run.ID, len(statuses))

	if f.Format == "json" {
		if err := f.Success(result); err != nil {
			return err
		}
	} else {
		f.Textf("Generated from %s at %s", run.Source, result.Generated)
		for _, st := range statuses {
			f.Textf("  %-9s %s", st.State, filepath.Base(st.Path))
		}
	}

	if !result.Clean {
		return NewExitError(ExitFailure, fmt.Sprintf("%s: %d generated file(s) modified or missing", ErrCodeDrift, changed))
	}
	return nil
}
