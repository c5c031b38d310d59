package manifest

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// ErrNoRuns is returned when the manifest holds no runs.
var ErrNoRuns = errors.New("manifest has no recorded runs")

// Run is one recorded generation run.
type Run struct {
	ID               string   `json:"id"`
	Seq              int64    `json:"seq"`
	Fingerprint      string   `json:"ir_fingerprint"`
	IRVersion        string   `json:"ir_version"`
	GeneratorVersion string   `json:"generator_version"`
	Backends         []string `json:"backends"`
	Artifacts        int      `json:"artifacts"`
}

const runColumns = `
	r.id, r.seq, r.ir_fingerprint, r.ir_version, r.generator_version, r.backends,
	(SELECT COUNT(*) FROM artifacts a WHERE a.run_id = r.id)`

// Runs returns every recorded run, oldest first.
// Returns an empty slice (not nil) when nothing has been recorded.
func (m *Manifest) Runs(ctx context.Context) ([]Run, error) {
	rows, err := m.db.QueryContext(ctx, `SELECT `+runColumns+` FROM runs r ORDER BY r.seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// LatestRun returns the most recent run, or ErrNoRuns.
func (m *Manifest) LatestRun(ctx context.Context) (Run, error) {
	row := m.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs r ORDER BY r.seq DESC LIMIT 1`)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, ErrNoRuns
	}
	return run, err
}

// Artifacts returns a run's artifacts ordered by backend then path.
func (m *Manifest) Artifacts(ctx context.Context, runID string) ([]Artifact, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT backend, path, hash, size
		FROM artifacts
		WHERE run_id = ?
		ORDER BY backend COLLATE BINARY ASC, path COLLATE BINARY ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query artifacts: %w", err)
	}
	defer rows.Close()

	artifacts := []Artifact{}
	for rows.Next() {
		var a Artifact
		if err := rows.Scan(&a.Backend, &a.Path, &a.Hash, &a.Size); err != nil {
			return nil, fmt.Errorf("scan artifact: %w", err)
		}
		artifacts = append(artifacts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate artifacts: %w", err)
	}
	return artifacts, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (Run, error) {
	var run Run
	var backends string
	err := s.Scan(&run.ID, &run.Seq, &run.Fingerprint, &run.IRVersion, &run.GeneratorVersion, &backends, &run.Artifacts)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, err
	}
	if err != nil {
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	run.Backends = []string{}
	if backends != "" {
		run.Backends = strings.Split(backends, ",")
	}
	return run, nil
}
