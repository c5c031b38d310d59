package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/bindgen/internal/backend"
	"github.com/roach88/bindgen/internal/compiler"
	"github.com/roach88/bindgen/internal/driver"
	"github.com/roach88/bindgen/internal/ir"
	"github.com/roach88/bindgen/internal/manifest"
)

// GenerateOptions holds flags for the generate command.
type GenerateOptions struct {
	*RootOptions
	Output      string   // output root; each backend writes to <output>/<backend>
	Backends    []string // backends to run
	Manifest    string   // optional manifest database path
	Library     string
	JavaPackage string
	GoPackage   string
}

// GenerateResult is the JSON payload of a successful generate.
type GenerateResult struct {
	RunID       string           `json:"run_id,omitempty"`
	Fingerprint string           `json:"ir_fingerprint"`
	Classes     int              `json:"classes"`
	Backends    []BackendSummary `json:"backends"`
}

// BackendSummary describes one backend's output.
type BackendSummary struct {
	Name  string `json:"name"`
	Dir   string `json:"dir"`
	Files int    `json:"files"`
	Error string `json:"error,omitempty"`
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GenerateOptions{RootOptions: rootOpts}
	defaults := backend.DefaultOptions()

	cmd := &cobra.Command{
		Use:   "generate <ir-dir>",
		Short: "Generate bindings from class descriptions",
		Long: `Generate bindings for every class described in <ir-dir>.

The descriptions are validated first; any IR defect aborts generation.
Each backend writes to <output>/<backend>. A failing backend does not
stop the others. With --manifest the run and the hash of every artifact
are recorded so that "bindgen verify" can detect hand edits.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd.Context(), opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output directory (required)")
	cmd.Flags().StringSliceVarP(&opts.Backends, "backend", "b", []string{"java", "typescript", "go"}, "backends to run")
	cmd.Flags().StringVar(&opts.Manifest, "manifest", "", "record the run in this manifest database")
	cmd.Flags().StringVar(&opts.Library, "library", defaults.Library, "native library base name")
	cmd.Flags().StringVar(&opts.JavaPackage, "java-package", defaults.JavaPackage, "package of generated Java sources")
	cmd.Flags().StringVar(&opts.GoPackage, "go-package", defaults.GoPackage, "package name of generated Go sources")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func runGenerate(ctx context.Context, opts *GenerateOptions, irDir string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := newFormatter(opts.RootOptions, cmd)

	known := backend.Names()
	for _, name := range opts.Backends {
		if !slices.Contains(known, name) {
			return outputCommandError(formatter, ErrCodeBadFlag,
				fmt.Sprintf("unknown backend %q (available: %s)", name, strings.Join(known, ", ")))
		}
	}

	loadResult, loadErrors := LoadIR(irDir, LoadModeCollectAll)
	if loadResult == nil && len(loadErrors) > 0 {
		var loadErr *LoadError
		if errors.As(loadErrors[0], &loadErr) {
			return outputCommandError(formatter, loadErr.Code, loadErr.Message)
		}
		return outputCommandError(formatter, ErrCodeGeneric, loadErrors[0].Error())
	}
	if len(loadErrors) > 0 {
		return outputLoadErrors(formatter, loadErrors)
	}

	formatter.VerboseLog("Loaded %d class(es) from %d file(s) in %s", len(loadResult.Classes), loadResult.FileCount(), irDir)

	if errs := compiler.Validate(loadResult.Classes); len(errs) > 0 {
		return outputValidationErrors(formatter, errs)
	}

	fingerprint, err := ir.Fingerprint(loadResult.Classes)
	if err != nil {
		return outputCommandError(formatter, ErrCodeGeneric, err.Error())
	}

	res, runErr := driver.New().Run(ctx, driver.Request{
		Classes:  loadResult.Classes,
		OutDir:   opts.Output,
		Backends: opts.Backends,
		Options: backend.Options{
			Library:     opts.Library,
			JavaPackage: opts.JavaPackage,
			GoPackage:   opts.GoPackage,
		},
	})
	if res == nil {
		return outputCommandError(formatter, ErrCodeGeneric, runErr.Error())
	}

	result := GenerateResult{Fingerprint: fingerprint, Classes: len(loadResult.Classes)}
	for _, b := range res.Backends {
		s := BackendSummary{Name: b.Name, Dir: b.Dir, Files: len(b.Artifacts)}
		if b.Err != nil {
			s.Error = b.Err.Error()
		}
		result.Backends = append(result.Backends, s)
	}

	if opts.Manifest != "" && len(res.Succeeded()) > 0 {
		run, err := recordRun(ctx, opts.Manifest, fingerprint, res)
		if err != nil {
			return outputCommandError(formatter, ErrCodeManifest, err.Error())
		}
		result.RunID = run.ID
		formatter.VerboseLog("Recorded run %s in %s", run.ID, opts.Manifest)
	}

	if runErr != nil {
		return outputGenerateFailure(formatter, result, runErr)
	}
	return outputGenerateSuccess(formatter, result)
}

func recordRun(ctx context.Context, path, fingerprint string, res *driver.Result) (manifest.Run, error) {
	m, err := manifest.Open(path)
	if err != nil {
		return manifest.Run{}, err
	}
	defer m.Close()

	var artifacts []manifest.Artifact
	for _, a := range res.Artifacts() {
		artifacts = append(artifacts, manifest.NewArtifact(a.Backend, a.Path, a.Content))
	}
	return m.RecordRun(ctx, manifest.RunRecord{
		Fingerprint: fingerprint,
		Backends:    res.Succeeded(),
		Artifacts:   artifacts,
	})
}

// outputGenerateSuccess outputs successful generation results.
func outputGenerateSuccess(formatter *OutputFormatter, result GenerateResult) error {
	if formatter.Format == "json" {
		return formatter.SuccessWithRun(result, result.RunID)
	}

	total := 0
	for _, b := range result.Backends {
		total += b.Files
	}
	fmt.Fprintf(formatter.Writer, "✓ Generated %d file(s) for %d class(es)\n\n", total, result.Classes)
	for _, b := range result.Backends {
		fmt.Fprintf(formatter.Writer, "  %s: %d file(s) in %s\n", b.Name, b.Files, b.Dir)
	}
	if result.RunID != "" {
		fmt.Fprintf(formatter.Writer, "\nRecorded run %s\n", result.RunID)
	}
	return nil
}

// outputGenerateFailure reports backends that failed. Artifacts of the
// backends that succeeded are already on disk.
func outputGenerateFailure(formatter *OutputFormatter, result GenerateResult, runErr error) error {
	if formatter.Format == "json" {
		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(CLIResponse{
			Status: "error",
			Data:   result,
			Error:  &CLIError{Code: ErrCodeWriteFailed, Message: runErr.Error()},
		}); err != nil {
			return err
		}
		return WrapExitError(ExitCommandError, "generation failed", runErr)
	}

	fmt.Fprintln(formatter.Writer, "✗ Generation failed")
	fmt.Fprintln(formatter.Writer)
	for _, b := range result.Backends {
		if b.Error != "" {
			fmt.Fprintf(formatter.Writer, "  %s: %s\n", ErrCodeWriteFailed, b.Error)
		} else {
			fmt.Fprintf(formatter.Writer, "  %s: %d file(s) in %s\n", b.Name, b.Files, b.Dir)
		}
	}
	return WrapExitError(ExitCommandError, "generation failed", runErr)
}

// outputCommandError outputs a single command-level error (exit code 2).
func outputCommandError(formatter *OutputFormatter, code, message string) error {
	_ = formatter.Error(code, message, nil)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}

// outputLoadErrors outputs every description compile error (exit code 2).
func outputLoadErrors(formatter *OutputFormatter, errs []error) error {
	cliErrors := make([]CLIError, len(errs))
	for i, err := range errs {
		cliErrors[i] = toCLIError(err)
	}

	if formatter.Format == "json" {
		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(CLIResponse{
			Status: "error",
			Error:  &cliErrors[0],
			Data:   cliErrors, // Include all errors in data
		}); err != nil {
			return err
		}
		return NewExitError(ExitCommandError, fmt.Sprintf("loading failed with %d error(s)", len(errs)))
	}

	fmt.Fprintln(formatter.Writer, "✗ Loading failed")
	fmt.Fprintln(formatter.Writer)
	for i, err := range errs {
		var loadErr *LoadError
		if errors.As(err, &loadErr) && loadErr.File != "" && loadErr.Line > 0 {
			fmt.Fprintf(formatter.Writer, "%s:%d\n", loadErr.File, loadErr.Line)
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s\n\n", cliErrors[i].Code, cliErrors[i].Message)
	}
	return NewExitError(ExitCommandError, fmt.Sprintf("loading failed with %d error(s)", len(errs)))
}

func toCLIError(err error) CLIError {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		return CLIError{Code: loadErr.Code, Message: loadErr.Message}
	}
	return CLIError{Code: ErrCodeGeneric, Message: err.Error()}
}
