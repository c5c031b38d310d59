// Package driver runs binding backends over a class set and writes their
// artifacts to disk.
//
// For each requested backend the driver creates <out>/<backend>, emits the
// runtime bridge once, then emits every class in name order. A failing
// class aborts its backend only; the other backends still run and all
// failures are reported together.
package driver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/roach88/bindgen/internal/backend"
	"github.com/roach88/bindgen/internal/compiler"
	"github.com/roach88/bindgen/internal/ir"
)

// FileSystem is the subset of file operations the driver needs.
type FileSystem interface {
	MkdirAll(path string, perm os.FileMode) error
	WriteFile(name string, data []byte, perm os.FileMode) error
}

type osFS struct{}

func (osFS) MkdirAll(path string, perm os.FileMode) error { return os.MkdirAll(path, perm) }

func (osFS) WriteFile(name string, data []byte, perm os.FileMode) error {
	return os.WriteFile(name, data, perm)
}

// Request describes one generation run.
type Request struct {
	Classes  ir.Classes
	OutDir   string
	Backends []string
	Options  backend.Options
}

// Artifact is one file written by a backend. Path is relative to the
// backend's directory and uses forward slashes.
type Artifact struct {
	Backend string
	Path    string
	Content []byte
}

// BackendResult is the outcome of one backend.
type BackendResult struct {
	Name      string
	Dir       string
	Artifacts []Artifact
	Err       error
}

// Result collects every backend's outcome in request order.
type Result struct {
	Backends []BackendResult
}

// Artifacts returns the artifacts of every backend that succeeded.
func (r *Result) Artifacts() []Artifact {
	var out []Artifact
	for _, b := range r.Backends {
		if b.Err == nil {
			out = append(out, b.Artifacts...)
		}
	}
	return out
}

// Succeeded returns the names of the backends that completed.
func (r *Result) Succeeded() []string {
	var out []string
	for _, b := range r.Backends {
		if b.Err == nil {
			out = append(out, b.Name)
		}
	}
	return out
}

// BackendError reports a backend that could not complete. Class is empty
// when the failure was not tied to a class (unknown backend, runtime
// bridge, output directory).
type BackendError struct {
	Backend string
	Class   string
	Err     error
}

func (e *BackendError) Error() string {
	if e.Class != "" {
		return fmt.Sprintf("backend %s: class %s: %v", e.Backend, e.Class, e.Err)
	}
	return fmt.Sprintf("backend %s: %v", e.Backend, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }

// InvalidIRError wraps validation failures found before any backend ran.
type InvalidIRError struct {
	Errors []compiler.ValidationError
}

func (e *InvalidIRError) Error() string {
	return fmt.Sprintf("invalid IR: %d error(s), first: %v", len(e.Errors), e.Errors[0])
}

// Driver runs backends.
type Driver struct {
	fs FileSystem
}

// Option configures a Driver.
type Option func(*Driver)

// WithFileSystem replaces the OS file system.
func WithFileSystem(fs FileSystem) Option {
	return func(d *Driver) { d.fs = fs }
}

// New creates a Driver.
func New(opts ...Option) *Driver {
	d := &Driver{fs: osFS{}}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run validates the class set and runs every requested backend. Duplicate
// backend names run once. The returned error joins every BackendError; the
// Result is non-nil whenever validation passed, so callers can still record
// the backends that succeeded.
func (d *Driver) Run(ctx context.Context, req Request) (*Result, error) {
	if errs := compiler.Validate(req.Classes); len(errs) > 0 {
		return nil, &InvalidIRError{Errors: errs}
	}

	classes := req.Classes.Sorted()
	result := &Result{}
	var errs []error
	seen := make(map[string]bool)

	for _, name := range req.Backends {
		if seen[name] {
			continue
		}
		seen[name] = true

		if err := ctx.Err(); err != nil {
			return result, errors.Join(append(errs, err)...)
		}

		br := d.runBackend(ctx, name, filepath.Join(req.OutDir, name), classes, req.Options)
		if br.Err != nil {
			Logger().Warn("backend failed", zap.String("backend", name), zap.Error(br.Err))
			errs = append(errs, br.Err)
		} else {
			Logger().Info("backend generated",
				zap.String("backend", name),
				zap.String("dir", br.Dir),
				zap.Int("files", len(br.Artifacts)))
		}
		result.Backends = append(result.Backends, br)
	}

	return result, errors.Join(errs...)
}

func (d *Driver) runBackend(ctx context.Context, name, dir string, classes ir.Classes, opts backend.Options) BackendResult {
	br := BackendResult{Name: name, Dir: dir}
	fail := func(class string, err error) BackendResult {
		br.Artifacts = nil
		br.Err = &BackendError{Backend: name, Class: class, Err: err}
		return br
	}

	gen, err := backend.New(name, opts)
	if err != nil {
		return fail("", err)
	}
	if err := d.fs.MkdirAll(dir, 0o755); err != nil {
		return fail("", fmt.Errorf("create output directory: %w", err))
	}

	files, err := gen.Runtime(classes)
	if err != nil {
		return fail("", fmt.Errorf("runtime: %w", err))
	}
	if err := d.write(&br, files); err != nil {
		return fail("", err)
	}

	for _, c := range classes {
		if err := ctx.Err(); err != nil {
			return fail(c.Name, err)
		}
		files, err := gen.Class(c, classes)
		if err != nil {
			return fail(c.Name, err)
		}
		if err := d.write(&br, files); err != nil {
			return fail(c.Name, err)
		}
		Logger().Debug("class generated", zap.String("backend", name), zap.String("class", c.Name))
	}
	return br
}

func (d *Driver) write(br *BackendResult, files []*backend.OutputFile) error {
	for _, f := range files {
		path := filepath.Join(br.Dir, filepath.FromSlash(f.Path))
		if dir := filepath.Dir(path); dir != br.Dir {
			if err := d.fs.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create %s: %w", dir, err)
			}
		}
		if err := d.fs.WriteFile(path, f.Content, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", f.Path, err)
		}
		br.Artifacts = append(br.Artifacts, Artifact{Backend: br.Name, Path: f.Path, Content: f.Content})
	}
	return nil
}
