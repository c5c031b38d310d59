package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/bindgen/internal/manifest"
)

// ManifestOptions holds the flag shared by manifest commands.
type ManifestOptions struct {
	*RootOptions
	Manifest string
}

// openManifest opens an existing manifest database. A missing file is a
// command error rather than an empty manifest.
func openManifest(path string) (*manifest.Manifest, error) {
	if path == "" {
		return nil, errors.New("--manifest is required")
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("manifest not found: %s", path)
	}
	return manifest.Open(path)
}

// NewVerifyCommand creates the verify command.
func NewVerifyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ManifestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "verify <output-dir>",
		Short: "Check generated files against the last recorded run",
		Long: `Re-hash every artifact of the latest run recorded in the manifest and
compare it with the files under <output-dir>. Files that changed are
reported as drifted, deleted files as missing.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(cmd.Context(), opts, args[0], cmd)
		},
	}
	cmd.Flags().StringVar(&opts.Manifest, "manifest", "", "manifest database path (required)")
	_ = cmd.MarkFlagRequired("manifest")
	return cmd
}

func runVerify(ctx context.Context, opts *ManifestOptions, outDir string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := newFormatter(opts.RootOptions, cmd)

	m, err := openManifest(opts.Manifest)
	if err != nil {
		return outputCommandError(formatter, ErrCodeManifest, err.Error())
	}
	defer m.Close()

	report, err := m.Verify(ctx, outDir)
	if err != nil {
		return outputCommandError(formatter, ErrCodeManifest, err.Error())
	}

	formatter.VerboseLog("Verifying %d artifact(s) of run %s", len(report.Checks), report.RunID)

	summary := fmt.Sprintf("%d artifact(s) drifted, %d missing",
		report.Count(manifest.StatusDrifted), report.Count(manifest.StatusMissing))

	if formatter.Format == "json" {
		if report.Clean() {
			return formatter.SuccessWithRun(report, report.RunID)
		}
		if err := formatter.respond(CLIResponse{
			Status: "error",
			Data:   report,
			Error:  &CLIError{Code: ErrCodeDrift, Message: summary},
			RunID:  report.RunID,
		}); err != nil {
			return err
		}
		return NewExitError(ExitFailure, summary)
	}

	if report.Clean() {
		fmt.Fprintf(formatter.Writer, "✓ %d artifact(s) match run %s\n", len(report.Checks), report.RunID)
		return nil
	}

	fmt.Fprintf(formatter.Writer, "✗ Output differs from run %s\n\n", report.RunID)
	for _, c := range report.Checks {
		if c.Status != manifest.StatusOK {
			fmt.Fprintf(formatter.Writer, "  %-8s %s/%s\n", c.Status, c.Backend, c.Path)
		}
	}
	return NewExitError(ExitFailure, summary)
}

// HistoryEntry is one run as shown by the history command.
type HistoryEntry struct {
	manifest.Run
	CreatedAt string `json:"created_at,omitempty"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ManifestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "history",
		Short:         "List recorded generation runs",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd.Context(), opts, cmd)
		},
	}
	cmd.Flags().StringVar(&opts.Manifest, "manifest", "", "manifest database path (required)")
	_ = cmd.MarkFlagRequired("manifest")
	return cmd
}

func runHistory(ctx context.Context, opts *ManifestOptions, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := newFormatter(opts.RootOptions, cmd)

	m, err := openManifest(opts.Manifest)
	if err != nil {
		return outputCommandError(formatter, ErrCodeManifest, err.Error())
	}
	defer m.Close()

	runs, err := m.Runs(ctx)
	if err != nil {
		return outputCommandError(formatter, ErrCodeManifest, err.Error())
	}

	entries := make([]HistoryEntry, len(runs))
	for i, r := range runs {
		entries[i] = HistoryEntry{Run: r}
		if at, ok := manifest.RunTime(r.ID); ok {
			entries[i].CreatedAt = at.Format("2006-01-02T15:04:05.000Z")
		}
	}

	if formatter.Format == "json" {
		return formatter.Success(entries)
	}

	if len(entries) == 0 {
		fmt.Fprintln(formatter.Writer, "No runs recorded")
		return nil
	}
	for _, e := range entries {
		created := e.CreatedAt
		if created == "" {
			created = "-"
		}
		fmt.Fprintf(formatter.Writer, "#%d  %s  %s  %s  %d file(s)  ir %s\n",
			e.Seq, e.ID, created, strings.Join(e.Backends, ","), e.Artifacts, shortHash(e.Fingerprint))
	}
	return nil
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
