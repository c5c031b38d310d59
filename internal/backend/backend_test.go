package backend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/bindgen/internal/ir"
)

type stubGenerator struct{ opts Options }

func (stubGenerator) Name() string { return "stub" }

func (stubGenerator) Runtime(ir.Classes) ([]*OutputFile, error) { return nil, nil }

func (stubGenerator) Class(*ir.Class, ir.Classes) ([]*OutputFile, error) { return nil, nil }

func TestRegistry(t *testing.T) {
	Register("stub-registry", func(opts Options) Generator { return stubGenerator{opts: opts} })

	assert.Contains(t, Names(), "stub-registry")

	g, err := New("stub-registry", DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "LiveSplitCore", g.(stubGenerator).opts.Library)

	_, err = New("cobol", DefaultOptions())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown backend")
}

func TestRegisterDuplicatePanics(t *testing.T) {
	Register("stub-dup", func(Options) Generator { return stubGenerator{} })
	assert.Panics(t, func() {
		Register("stub-dup", func(Options) Generator { return stubGenerator{} })
	})
}
