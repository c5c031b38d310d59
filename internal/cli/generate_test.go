package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/bindgen/internal/manifest"
)

// execute runs the root command with args and returns stdout and the error.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	stdout := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(stdout)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), err
}

func decodeGenerate(t *testing.T, out string) (CLIResponse, GenerateResult) {
	t.Helper()
	var resp struct {
		CLIResponse
		Data GenerateResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	return resp.CLIResponse, resp.Data
}

func TestGenerateWidget(t *testing.T) {
	outDir := t.TempDir()

	out, err := execute(t, "generate", widgetDir, "-o", outDir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Generated 14 file(s) for 1 class(es)")
	assert.Contains(t, out, "java: 4 file(s)")
	assert.Contains(t, out, "typescript: 6 file(s)")
	assert.Contains(t, out, "go: 4 file(s)")
	assert.NotContains(t, out, "Recorded run")

	for _, rel := range []string{
		"java/WidgetRef.java",
		"java/WidgetRefMut.java",
		"java/Widget.java",
		"typescript/types.ts",
		"go/module.go",
		"go/widget_ref.go",
		"go/widget_ref_mut.go",
		"go/widget.go",
	} {
		assert.FileExists(t, filepath.Join(outDir, filepath.FromSlash(rel)))
	}
}

func TestGenerateSelectedBackendJSON(t *testing.T) {
	outDir := t.TempDir()

	out, err := execute(t, "--format", "json", "generate", timerDir, "-o", outDir, "-b", "go", "--go-package", "timer")
	require.NoError(t, err)

	resp, result := decodeGenerate(t, out)
	assert.Equal(t, "ok", resp.Status)
	assert.Empty(t, resp.RunID)
	assert.Equal(t, 8, result.Classes)
	assert.Len(t, result.Fingerprint, 64)
	require.Len(t, result.Backends, 1)
	assert.Equal(t, "go", result.Backends[0].Name)
	assert.Equal(t, 1+3*8, result.Backends[0].Files)
	assert.Empty(t, result.Backends[0].Error)

	src, err := os.ReadFile(filepath.Join(outDir, "go", "module.go"))
	require.NoError(t, err)
	assert.Contains(t, string(src), "package timer")

	assert.NoDirExists(t, filepath.Join(outDir, "java"))
}

func TestGenerateUnknownBackend(t *testing.T) {
	out, err := execute(t, "generate", widgetDir, "-o", t.TempDir(), "-b", "rust")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), ErrCodeBadFlag)
	assert.Contains(t, out, `unknown backend "rust"`)
}

func TestGenerateRequiresOutput(t *testing.T) {
	_, err := execute(t, "generate", widgetDir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "output")
}

func TestGenerateInvalidIRWritesNothing(t *testing.T) {
	dir := writeIR(t, map[string]string{"gauge.cue": unknownHandleCUE})
	outDir := filepath.Join(t.TempDir(), "out")

	out, err := execute(t, "generate", dir, "-o", outDir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ Validation failed")
	assert.NoDirExists(t, outDir)
}

func TestGenerateCompileErrors(t *testing.T) {
	dir := writeIR(t, map[string]string{"bad.yaml": "class:\n  Meter:\n    shraed: []\n"})

	out, err := execute(t, "generate", dir, "-o", t.TempDir())
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "✗ Loading failed")
	assert.Contains(t, out, ErrCodeCompile)
}

func TestGenerateIsDeterministic(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()

	out1, err := execute(t, "--format", "json", "generate", timerDir, "-o", first)
	require.NoError(t, err)
	out2, err := execute(t, "--format", "json", "generate", timerDir, "-o", second)
	require.NoError(t, err)

	_, r1 := decodeGenerate(t, out1)
	_, r2 := decodeGenerate(t, out2)
	assert.Equal(t, r1.Fingerprint, r2.Fingerprint)

	for _, rel := range []string{"typescript/Run.ts", "java/TimerRef.java", "go/shared_timer.go"} {
		a, err := os.ReadFile(filepath.Join(first, filepath.FromSlash(rel)))
		require.NoError(t, err)
		b, err := os.ReadFile(filepath.Join(second, filepath.FromSlash(rel)))
		require.NoError(t, err)
		assert.Equal(t, a, b, rel)
	}
}

func TestGenerateRecordsManifest(t *testing.T) {
	outDir := t.TempDir()
	db := filepath.Join(t.TempDir(), "bindgen.db")

	out, err := execute(t, "--format", "json", "generate", widgetDir, "-o", outDir, "--manifest", db)
	require.NoError(t, err)
	resp, result := decodeGenerate(t, out)
	require.NotEmpty(t, resp.RunID)
	assert.Equal(t, resp.RunID, result.RunID)

	m, err := manifest.Open(db)
	require.NoError(t, err)
	defer m.Close()

	run, err := m.LatestRun(t.Context())
	require.NoError(t, err)
	assert.Equal(t, result.RunID, run.ID)
	assert.Equal(t, result.Fingerprint, run.Fingerprint)
	assert.Equal(t, []string{"java", "typescript", "go"}, run.Backends)
	assert.Equal(t, 14, run.Artifacts)
}

func TestVerifyAfterGenerate(t *testing.T) {
	outDir := t.TempDir()
	db := filepath.Join(t.TempDir(), "bindgen.db")

	_, err := execute(t, "generate", widgetDir, "-o", outDir, "--manifest", db)
	require.NoError(t, err)

	out, err := execute(t, "verify", outDir, "--manifest", db)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ 14 artifact(s) match run")

	// Hand edits and deletions are both reported.
	require.NoError(t, os.WriteFile(filepath.Join(outDir, "go", "widget.go"), []byte("package edited\n"), 0644))
	require.NoError(t, os.Remove(filepath.Join(outDir, "java", "WidgetRef.java")))

	out, err = execute(t, "verify", outDir, "--manifest", db)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "1 artifact(s) drifted, 1 missing")
	assert.Contains(t, out, "✗ Output differs from run")
	assert.Contains(t, out, "drifted  go/widget.go")
	assert.Contains(t, out, "missing  java/WidgetRef.java")
}

func TestVerifyJSON(t *testing.T) {
	outDir := t.TempDir()
	db := filepath.Join(t.TempDir(), "bindgen.db")

	_, err := execute(t, "generate", widgetDir, "-o", outDir, "-b", "go", "--manifest", db)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(outDir, "go", "module.go"), []byte("// changed\n"), 0644))

	out, err := execute(t, "--format", "json", "verify", outDir, "--manifest", db)
	require.Error(t, err)

	var resp struct {
		Status string          `json:"status"`
		Data   manifest.Report `json:"data"`
		Error  *CLIError       `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeDrift, resp.Error.Code)
	assert.Equal(t, 1, resp.Data.Count(manifest.StatusDrifted))
	assert.Equal(t, 3, resp.Data.Count(manifest.StatusOK))
}

func TestVerifyMissingManifest(t *testing.T) {
	out, err := execute(t, "verify", t.TempDir(), "--manifest", filepath.Join(t.TempDir(), "none.db"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), ErrCodeManifest)
	assert.Contains(t, out, "manifest not found")
}

func TestVerifyEmptyManifest(t *testing.T) {
	db := filepath.Join(t.TempDir(), "bindgen.db")
	m, err := manifest.Open(db)
	require.NoError(t, err)
	require.NoError(t, m.Close())

	_, err = execute(t, "verify", t.TempDir(), "--manifest", db)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), manifest.ErrNoRuns.Error())
}

func TestHistory(t *testing.T) {
	db := filepath.Join(t.TempDir(), "bindgen.db")

	_, err := execute(t, "generate", widgetDir, "-o", t.TempDir(), "--manifest", db)
	require.NoError(t, err)
	_, err = execute(t, "generate", timerDir, "-o", t.TempDir(), "-b", "typescript", "--manifest", db)
	require.NoError(t, err)

	out, err := execute(t, "history", "--manifest", db)
	require.NoError(t, err)
	assert.Contains(t, out, "#1  ")
	assert.Contains(t, out, "java,typescript,go  14 file(s)")
	assert.Contains(t, out, "#2  ")
	assert.Contains(t, out, "typescript  27 file(s)")

	out, err = execute(t, "--format", "json", "history", "--manifest", db)
	require.NoError(t, err)
	var resp struct {
		Data []HistoryEntry `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data, 2)
	assert.Equal(t, int64(1), resp.Data[0].Seq)
	assert.Equal(t, int64(2), resp.Data[1].Seq)
	assert.NotEmpty(t, resp.Data[0].CreatedAt)
	assert.NotEqual(t, resp.Data[0].Fingerprint, resp.Data[1].Fingerprint)
}

func TestHistoryEmpty(t *testing.T) {
	db := filepath.Join(t.TempDir(), "bindgen.db")
	m, err := manifest.Open(db)
	require.NoError(t, err)
	require.NoError(t, m.Close())

	out, err := execute(t, "history", "--manifest", db)
	require.NoError(t, err)
	assert.Contains(t, out, "No runs recorded")
}
