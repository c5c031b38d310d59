package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"

	"github.com/roach88/bindgen/internal/compiler"
	"github.com/roach88/bindgen/internal/ir"
)

// LoadMode controls how errors are handled during IR loading.
type LoadMode int

const (
	// LoadModeFailFast stops on the first error encountered.
	LoadModeFailFast LoadMode = iota
	// LoadModeCollectAll collects all errors before returning.
	LoadModeCollectAll
)

// LoadResult contains the classes described in a directory.
type LoadResult struct {
	Classes   ir.Classes
	CUEFiles  []string
	YAMLFiles []string
}

// FileCount returns the number of description files found.
func (r *LoadResult) FileCount() int {
	return len(r.CUEFiles) + len(r.YAMLFiles)
}

// LoadError represents an error that occurred during IR loading.
type LoadError struct {
	Code    string
	Message string
	File    string
	Line    int
}

func (e *LoadError) Error() string {
	if e.File != "" && e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s: %s", e.File, e.Line, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadIR loads class descriptions from the .cue and .yaml/.yml files
// directly inside dir. The CUE files form one instance; each YAML file is
// read on its own.
func LoadIR(dir string, mode LoadMode) (*LoadResult, []error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("IR directory not found: %s", dir)}}
	}
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing IR directory: %v", err)}}
	}
	if !info.IsDir() {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}}
	}

	cueFiles, yamlFiles, err := FindIRFiles(dir)
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}}
	}
	if len(cueFiles) == 0 && len(yamlFiles) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE or YAML files found in %s", dir)}}
	}

	result := &LoadResult{CUEFiles: cueFiles, YAMLFiles: yamlFiles}
	var errs []error

	if len(cueFiles) > 0 {
		instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
		if len(instances) == 0 {
			return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}}
		}
		inst := instances[0]
		if inst.Err != nil {
			return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}}
		}
		value := cuecontext.New().BuildInstance(inst)
		if err := value.Err(); err != nil {
			return nil, []error{&LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err)}}
		}

		classes, err := compiler.CompileClasses(value)
		result.Classes = append(result.Classes, classes...)
		if err != nil {
			errs = append(errs, splitCompileErrors(err)...)
			if mode == LoadModeFailFast {
				return result, errs[:1]
			}
		}
	}

	for _, path := range yamlFiles {
		data, err := os.ReadFile(path)
		if err != nil {
			errs = append(errs, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("reading %s: %v", path, err)})
		} else {
			classes, err := compiler.CompileYAML(path, data)
			result.Classes = append(result.Classes, classes...)
			if err != nil {
				errs = append(errs, splitCompileErrors(err)...)
			}
		}
		if len(errs) > 0 && mode == LoadModeFailFast {
			return result, errs[:1]
		}
	}

	if len(result.Classes) == 0 && len(errs) == 0 {
		errs = append(errs, &LoadError{Code: ErrCodeGeneric, Message: "no classes found in IR descriptions"})
	}

	return result, errs
}

// FindIRFiles returns the description files directly inside dir, sorted.
func FindIRFiles(dir string) (cueFiles, yamlFiles []string, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, err
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		path := filepath.Join(dir, e.Name())
		switch filepath.Ext(e.Name()) {
		case ".cue":
			cueFiles = append(cueFiles, path)
		case ".yaml", ".yml":
			yamlFiles = append(yamlFiles, path)
		}
	}
	sort.Strings(cueFiles)
	sort.Strings(yamlFiles)
	return cueFiles, yamlFiles, nil
}

// splitCompileErrors unpacks a joined compiler error into LoadErrors.
func splitCompileErrors(err error) []error {
	var parts []error
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		parts = joined.Unwrap()
	} else {
		parts = []error{err}
	}
	out := make([]error, len(parts))
	for i, p := range parts {
		out[i] = convertCompileError(p)
	}
	return out
}

// convertCompileError converts a compiler error to a LoadError with position info.
func convertCompileError(err error) *LoadError {
	var compileErr *compiler.CompileError
	if errors.As(err, &compileErr) {
		le := &LoadError{
			Code:    ErrCodeCompile,
			Message: fmt.Sprintf("%s: %s", compileErr.Field, compileErr.Message),
			File:    compileErr.Filename,
			Line:    compileErr.LineNumber(),
		}
		if compileErr.Pos.IsValid() {
			le.File = compileErr.Pos.Filename()
		}
		return le
	}
	return &LoadError{Code: ErrCodeGeneric, Message: err.Error()}
}

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Directory scan error
	ErrCodeNoFiles     = "E003" // No description files found
	ErrCodeLoadFailed  = "E004" // CUE/YAML load failed
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeBuildFailed = "E006" // CUE build failed
	ErrCodeWriteFailed = "E007" // Artifact write or backend error
	ErrCodeCompile     = "E008" // Description does not compile to IR
	ErrCodeManifest    = "E009" // Manifest open/read/write error
	ErrCodeBadFlag     = "E010" // Invalid flag value
	ErrCodeDrift       = "E011" // Generated output differs from the manifest
)
