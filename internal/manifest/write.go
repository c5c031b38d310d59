package manifest

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/roach88/bindgen/internal/ir"
)

// Artifact is one generated file, addressed relative to its backend's
// output directory.
type Artifact struct {
	Backend string `json:"backend"`
	Path    string `json:"path"`
	Hash    string `json:"hash"`
	Size    int64  `json:"size"`
}

// NewArtifact builds an Artifact from generated content.
func NewArtifact(backend, path string, content []byte) Artifact {
	return Artifact{
		Backend: backend,
		Path:    path,
		Hash:    ir.ArtifactHash(content),
		Size:    int64(len(content)),
	}
}

// RunRecord is the input to RecordRun.
type RunRecord struct {
	Fingerprint string
	Backends    []string
	Artifacts   []Artifact
}

// RecordRun stores a completed generation run and its artifacts in one
// transaction and returns the stored run.
func (m *Manifest) RecordRun(ctx context.Context, rec RunRecord) (Run, error) {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return Run{}, fmt.Errorf("record run: %w", err)
	}
	defer tx.Rollback()

	var seq int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM runs`).Scan(&seq); err != nil {
		return Run{}, fmt.Errorf("record run: next seq: %w", err)
	}

	backends := rec.Backends
	if backends == nil {
		backends = []string{}
	}

	run := Run{
		ID:               m.ids.Generate(),
		Seq:              seq,
		Fingerprint:      rec.Fingerprint,
		IRVersion:        ir.IRVersion,
		GeneratorVersion: ir.GeneratorVersion,
		Backends:         backends,
		Artifacts:        len(rec.Artifacts),
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, seq, ir_fingerprint, ir_version, generator_version, backends)
		VALUES (?, ?, ?, ?, ?, ?)
	`, run.ID, run.Seq, run.Fingerprint, run.IRVersion, run.GeneratorVersion, strings.Join(run.Backends, ","))
	if err != nil {
		return Run{}, fmt.Errorf("record run: %w", err)
	}

	if err := insertArtifacts(ctx, tx, run.ID, rec.Artifacts); err != nil {
		return Run{}, err
	}

	if err := tx.Commit(); err != nil {
		return Run{}, fmt.Errorf("record run: commit: %w", err)
	}
	return run, nil
}

func insertArtifacts(ctx context.Context, tx *sql.Tx, runID string, artifacts []Artifact) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO artifacts (run_id, backend, path, hash, size)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("record artifacts: %w", err)
	}
	defer stmt.Close()

	for _, a := range artifacts {
		if _, err := stmt.ExecContext(ctx, runID, a.Backend, a.Path, a.Hash, a.Size); err != nil {
			return fmt.Errorf("record artifact %s/%s: %w", a.Backend, a.Path, err)
		}
	}
	return nil
}
