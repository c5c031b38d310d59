package manifest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/roach88/bindgen/internal/ir"
)

// Status classifies one artifact during verification.
type Status string

const (
	StatusOK      Status = "ok"
	StatusDrifted Status = "drifted" // file exists but its bytes changed
	StatusMissing Status = "missing"
)

// Check is the verification outcome for one artifact.
type Check struct {
	Artifact
	Status Status `json:"status"`
	Actual string `json:"actual_hash,omitempty"`
}

// Report summarizes verification of an output tree against a run.
type Report struct {
	RunID  string  `json:"run_id"`
	Checks []Check `json:"checks"`
}

// Clean reports whether every artifact matched.
func (r *Report) Clean() bool {
	for _, c := range r.Checks {
		if c.Status != StatusOK {
			return false
		}
	}
	return true
}

// Count returns the number of checks with the given status.
func (r *Report) Count(s Status) int {
	n := 0
	for _, c := range r.Checks {
		if c.Status == s {
			n++
		}
	}
	return n
}

// Verify compares the files under outDir with the artifacts of the latest
// run. Each artifact is expected at outDir/<backend>/<path>.
func (m *Manifest) Verify(ctx context.Context, outDir string) (*Report, error) {
	run, err := m.LatestRun(ctx)
	if err != nil {
		return nil, err
	}
	artifacts, err := m.Artifacts(ctx, run.ID)
	if err != nil {
		return nil, err
	}

	report := &Report{RunID: run.ID, Checks: make([]Check, 0, len(artifacts))}
	for _, a := range artifacts {
		check, err := verifyArtifact(outDir, a)
		if err != nil {
			return nil, err
		}
		report.Checks = append(report.Checks, check)
	}
	return report, nil
}

func verifyArtifact(outDir string, a Artifact) (Check, error) {
	path := filepath.Join(outDir, a.Backend, filepath.FromSlash(a.Path))
	content, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Check{Artifact: a, Status: StatusMissing}, nil
	}
	if err != nil {
		return Check{}, fmt.Errorf("verify %s: %w", path, err)
	}

	actual := ir.ArtifactHash(content)
	if actual != a.Hash {
		return Check{Artifact: a, Status: StatusDrifted, Actual: actual}, nil
	}
	return Check{Artifact: a, Status: StatusOK}, nil
}
