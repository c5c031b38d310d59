// Package backend defines the contract every binding backend implements and
// the registry the driver resolves backend names through.
package backend

import (
	"fmt"
	"sort"
	"sync"

	"github.com/roach88/bindgen/internal/ir"
)

// OutputFile is one generated artifact, addressed relative to the backend's
// output directory.
type OutputFile struct {
	Path    string
	Content []byte
}

// Generator is implemented by each target ecosystem.
type Generator interface {
	// Name returns the backend name (e.g., "java", "typescript", "go").
	Name() string
	// Runtime produces the artifacts emitted once per run: the marshalling
	// bridge and any static declarations.
	Runtime(classes ir.Classes) ([]*OutputFile, error)
	// Class produces the Ref, RefMut and owned artifacts for one class.
	// classes is the full read-only set, for resolving handle types.
	Class(class *ir.Class, classes ir.Classes) ([]*OutputFile, error)
}

// Options configures naming shared by the generated artifacts.
type Options struct {
	// Library is the base name of the bound native library ("LiveSplitCore").
	Library string
	// JavaPackage is the package of generated Java sources.
	JavaPackage string
	// GoPackage is the package name of generated Go sources.
	GoPackage string
}

// DefaultOptions returns the options used when no flags override them.
func DefaultOptions() Options {
	return Options{
		Library:     "LiveSplitCore",
		JavaPackage: "org.livesplit",
		GoPackage:   "livesplit",
	}
}

// Factory creates a Generator.
type Factory func(opts Options) Generator

var (
	mu       sync.RWMutex
	registry = map[string]Factory{}
)

// Register makes a backend available by name. It panics on duplicates.
func Register(name string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	if _, dup := registry[name]; dup {
		panic(fmt.Sprintf("backend %q registered twice", name))
	}
	registry[name] = f
}

// New creates the named backend.
func New(name string, opts Options) (Generator, error) {
	mu.RLock()
	f, ok := registry[name]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown backend %q (available: %v)", name, Names())
	}
	return f(opts), nil
}

// Names returns the registered backend names, sorted.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
