package compiler

import (
	"fmt"
	"regexp"

	"github.com/roach88/bindgen/internal/ir"
)

// Validation error codes (E100-E199)
const (
	ErrNoClasses          = "E100" // description set is empty
	ErrDuplicateClass     = "E101" // two classes share a name
	ErrDuplicateSymbol    = "E102" // native symbol bound twice
	ErrDuplicateMethod    = "E103" // logical method name repeated within a class
	ErrReceiverMismatch   = "E104" // receiver does not match the bucket
	ErrInvalidDisposer    = "E105" // drop has the wrong shape or location
	ErrUnknownPrimitive   = "E106" // primitive name outside the closed set
	ErrUnknownClass       = "E107" // custom type names no class in the set
	ErrInvalidConstructor = "E108" // new is not a static factory for its class
	ErrInvalidIdentifier  = "E109" // name is not a valid identifier
	ErrInvalidNullable    = "E110" // nullable on a non-handle type
	ErrMisplacedReceiver  = "E111" // receiver name used past the first input
)

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidationError represents a schema validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Line    int    `json:"line,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] line %d: %s: %s", e.Code, e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// bucketReceiver is the receiver kind each instance bucket requires.
var bucketReceiver = map[ir.Bucket]ir.TypeKind{
	ir.BucketShared: ir.Ref,
	ir.BucketMut:    ir.RefMut,
	ir.BucketOwn:    ir.Value,
}

// Validate checks a class set for IR defects.
// Returns all errors found (does not fail-fast).
func Validate(classes ir.Classes) []ValidationError {
	var errs []ValidationError

	if len(classes) == 0 {
		return []ValidationError{{
			Field:   "class",
			Message: "no classes described",
			Code:    ErrNoClasses,
		}}
	}

	known := make(map[string]bool, len(classes))
	for _, c := range classes {
		if known[c.Name] {
			errs = append(errs, ValidationError{
				Field:   c.Name,
				Message: fmt.Sprintf("class %q is described more than once", c.Name),
				Code:    ErrDuplicateClass,
			})
		}
		known[c.Name] = true
	}

	symbols := make(map[string]string)
	for _, c := range classes {
		errs = append(errs, validateClass(c, known, symbols)...)
	}
	return errs
}

func validateClass(c *ir.Class, known map[string]bool, symbols map[string]string) []ValidationError {
	var errs []ValidationError
	add := func(field, code, format string, args ...any) {
		errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf(format, args...), Code: code})
	}

	if !identPattern.MatchString(c.Name) {
		add(c.Name, ErrInvalidIdentifier, "class name %q is not an identifier", c.Name)
	}

	methods := make(map[string]string)
	drops := 0

	for _, b := range ir.Buckets() {
		for i := range c.Bucket(b) {
			fn := &c.Bucket(b)[i]
			field := fmt.Sprintf("%s.%s[%d]", c.Name, b, i)

			if !identPattern.MatchString(fn.Name) {
				add(field, ErrInvalidIdentifier, "native symbol %q is not an identifier", fn.Name)
			}
			if !identPattern.MatchString(fn.Method) {
				add(field, ErrInvalidIdentifier, "method name %q is not an identifier", fn.Method)
			}
			if prev, dup := symbols[fn.Name]; dup {
				add(field, ErrDuplicateSymbol, "native symbol %q is already bound at %s", fn.Name, prev)
			} else {
				symbols[fn.Name] = field
			}
			if prev, dup := methods[fn.Method]; dup {
				add(field, ErrDuplicateMethod, "method %q is already defined at %s", fn.Method, prev)
			} else {
				methods[fn.Method] = field
			}

			errs = append(errs, validateReceiver(c.Name, b, fn, field)...)

			for j, p := range fn.Inputs {
				pf := fmt.Sprintf("%s.inputs[%d]", field, j)
				if !identPattern.MatchString(p.Name) {
					add(pf, ErrInvalidIdentifier, "parameter name %q is not an identifier", p.Name)
				}
				if j > 0 && p.Name == ir.ReceiverName {
					add(pf, ErrMisplacedReceiver, "%q may only name the first input", ir.ReceiverName)
				}
				if !p.Type.IsCustom && p.Type.IsUnit() {
					add(pf, ErrUnknownPrimitive, "%q cannot be a parameter type", p.Type.Name)
					continue
				}
				errs = append(errs, validateType(p.Type, pf, known)...)
			}
			errs = append(errs, validateType(fn.Output, field+".output", known)...)

			if fn.IsDisposer() {
				drops++
				if b != ir.BucketOwn {
					add(field, ErrInvalidDisposer, "drop must be in the own bucket, found in %s", b)
				}
				if len(fn.Inputs) != 1 || fn.IsStatic() {
					add(field, ErrInvalidDisposer, "drop must take exactly the receiver")
				}
				if fn.HasReturnType() {
					add(field, ErrInvalidDisposer, "drop must not return a value")
				}
			}

			if fn.Method == ir.MethodNew {
				want := fn.Output.IsCustom && fn.Output.Name == c.Name && fn.Output.Kind == ir.Value
				if b != ir.BucketStatic || !want {
					add(field, ErrInvalidConstructor, "new must be a static function returning an owned %s", c.Name)
				}
			}
		}
	}

	if drops > 1 {
		add(c.Name, ErrInvalidDisposer, "class has %d drop functions, at most one is allowed", drops)
	}
	return errs
}

func validateReceiver(class string, b ir.Bucket, fn *ir.Function, field string) []ValidationError {
	if b == ir.BucketStatic {
		if !fn.IsStatic() {
			return []ValidationError{{
				Field:   field,
				Message: fmt.Sprintf("static function %q takes a receiver", fn.Name),
				Code:    ErrReceiverMismatch,
			}}
		}
		return nil
	}

	want := bucketReceiver[b]
	if fn.IsStatic() {
		return []ValidationError{{
			Field:   field,
			Message: fmt.Sprintf("%s function %q has no receiver", b, fn.Name),
			Code:    ErrReceiverMismatch,
		}}
	}
	recv := fn.Inputs[0].Type
	if !recv.IsCustom || recv.Name != class || recv.Kind != want || recv.IsNullable {
		return []ValidationError{{
			Field: field + ".inputs[0]",
			Message: fmt.Sprintf("%s function %q needs receiver %s, got %s",
				b, fn.Name, FormatTypeExpr(ir.Handle(class, want)), FormatTypeExpr(recv)),
			Code: ErrReceiverMismatch,
		}}
	}
	return nil
}

func validateType(t ir.Type, field string, known map[string]bool) []ValidationError {
	if t.IsCustom {
		if !known[t.Name] {
			return []ValidationError{{
				Field:   field,
				Message: fmt.Sprintf("type %q names no described class", t.Name),
				Code:    ErrUnknownClass,
			}}
		}
		return nil
	}
	var errs []ValidationError
	if _, err := t.Primitive(); err != nil {
		errs = append(errs, ValidationError{Field: field, Message: err.Error(), Code: ErrUnknownPrimitive})
	}
	// Kind carries no meaning for primitives: text is recorded as a borrowed
	// c_char by some frontends.
	if t.IsNullable {
		errs = append(errs, ValidationError{
			Field:   field,
			Message: fmt.Sprintf("primitive %q cannot be nullable", t.Name),
			Code:    ErrInvalidNullable,
		})
	}
	return errs
}

// FirstError returns the first validation error as an error, or nil.
func FirstError(errs []ValidationError) error {
	if len(errs) == 0 {
		return nil
	}
	return errs[0]
}
