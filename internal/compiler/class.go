package compiler

import (
	"errors"
	"fmt"

	"cuelang.org/go/cue"
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/bindgen/internal/ir"
)

// bucketFields maps description field names to buckets, in emission order.
var bucketFields = []struct {
	Field  string
	Bucket ir.Bucket
}{
	{"static", ir.BucketStatic},
	{"shared", ir.BucketShared},
	{"mut", ir.BucketMut},
	{"own", ir.BucketOwn},
}

// CompileClasses compiles every class under the top-level "class" field.
// Errors from individual classes are joined; classes that compiled cleanly
// are still returned.
func CompileClasses(v cue.Value) (ir.Classes, error) {
	if err := v.Validate(); err != nil {
		return nil, formatCUEError(err)
	}

	classesVal := v.LookupPath(cue.ParsePath("class"))
	if !classesVal.Exists() {
		return nil, nil
	}
	iter, err := classesVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var classes ir.Classes
	var errs []error
	for iter.Next() {
		c, err := CompileClass(iter.Value())
		if err != nil {
			errs = append(errs, err)
			continue
		}
		classes = append(classes, c)
	}
	return classes, errors.Join(errs...)
}

// CompileClass parses a CUE value into a Class.
//
// The CUE value should be the class struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`class: Widget: { ... }`)
//	c, err := CompileClass(v.LookupPath(cue.ParsePath("class.Widget")))
func CompileClass(v cue.Value) (*ir.Class, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	c := &ir.Class{}

	// Class name comes from the struct label
	labels := v.Path().Selectors()
	if len(labels) > 0 {
		c.Name = labels[len(labels)-1].Unquoted()
	}
	if c.Name == "" {
		return nil, &CompileError{Field: "class", Message: "class name is required", Pos: v.Pos()}
	}

	comments, err := compileStrings(v, "comments")
	if err != nil {
		return nil, err
	}
	c.Comments = normalizeComments(comments)

	for _, bf := range bucketFields {
		fnsVal := v.LookupPath(cue.ParsePath(bf.Field))
		if !fnsVal.Exists() {
			continue
		}
		fnIter, err := fnsVal.List()
		if err != nil {
			return nil, formatCUEError(err)
		}
		var fns []ir.Function
		for i := 0; fnIter.Next(); i++ {
			field := fmt.Sprintf("%s.%s[%d]", c.Name, bf.Field, i)
			fn, err := compileFunction(fnIter.Value(), c.Name, field)
			if err != nil {
				return nil, err
			}
			fns = append(fns, *fn)
		}
		setBucket(c, bf.Bucket, fns)
	}

	return c, nil
}

func compileFunction(v cue.Value, class, field string) (*ir.Function, error) {
	fn := &ir.Function{}

	nameVal := v.LookupPath(cue.ParsePath("name"))
	if !nameVal.Exists() {
		return nil, &CompileError{Field: field + ".name", Message: "native symbol name is required", Pos: v.Pos()}
	}
	name, err := nameVal.String()
	if err != nil {
		return nil, formatCUEError(err)
	}
	fn.Name = name

	methodVal := v.LookupPath(cue.ParsePath("method"))
	if methodVal.Exists() {
		method, err := methodVal.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		fn.Method = method
	} else {
		method, ok := defaultMethod(class, name)
		if !ok {
			return nil, &CompileError{
				Field:   field + ".method",
				Message: fmt.Sprintf("method is required when %q does not start with %q", name, class+"_"),
				Pos:     nameVal.Pos(),
			}
		}
		fn.Method = method
	}

	comments, err := compileStrings(v, "comments")
	if err != nil {
		return nil, err
	}
	fn.Comments = normalizeComments(comments)

	inputsVal := v.LookupPath(cue.ParsePath("inputs"))
	if inputsVal.Exists() {
		inputs, err := inputsVal.List()
		if err != nil {
			return nil, formatCUEError(err)
		}
		for i := 0; inputs.Next(); i++ {
			param, err := compileParam(inputs.Value(), fmt.Sprintf("%s.inputs[%d]", field, i))
			if err != nil {
				return nil, err
			}
			fn.Inputs = append(fn.Inputs, param)
		}
	}

	fn.Output = ir.UnitType()
	outputVal := v.LookupPath(cue.ParsePath("output"))
	if outputVal.Exists() {
		fn.Output, err = compileType(outputVal, field+".output")
		if err != nil {
			return nil, err
		}
	}

	return fn, nil
}

func compileParam(v cue.Value, field string) (ir.Param, error) {
	nameVal := v.LookupPath(cue.ParsePath("name"))
	if !nameVal.Exists() {
		return ir.Param{}, &CompileError{Field: field + ".name", Message: "parameter name is required", Pos: v.Pos()}
	}
	name, err := nameVal.String()
	if err != nil {
		return ir.Param{}, formatCUEError(err)
	}

	typeVal := v.LookupPath(cue.ParsePath("type"))
	if !typeVal.Exists() {
		return ir.Param{}, &CompileError{Field: field + ".type", Message: "parameter type is required", Pos: v.Pos()}
	}
	t, err := compileType(typeVal, field+".type")
	if err != nil {
		return ir.Param{}, err
	}
	return ir.Param{Name: name, Type: t}, nil
}

// compileType accepts either the shorthand string notation or the long
// form {name, kind, custom, nullable}.
func compileType(v cue.Value, field string) (ir.Type, error) {
	switch v.IncompleteKind() {
	case cue.StringKind:
		s, err := v.String()
		if err != nil {
			return ir.Type{}, formatCUEError(err)
		}
		t, err := ParseTypeExpr(s)
		if err != nil {
			return ir.Type{}, &CompileError{Field: field, Message: err.Error(), Pos: v.Pos()}
		}
		return t, nil

	case cue.StructKind:
		t := ir.Type{}
		nameVal := v.LookupPath(cue.ParsePath("name"))
		if !nameVal.Exists() {
			return ir.Type{}, &CompileError{Field: field + ".name", Message: "type name is required", Pos: v.Pos()}
		}
		name, err := nameVal.String()
		if err != nil {
			return ir.Type{}, formatCUEError(err)
		}
		t.Name = name

		if kindVal := v.LookupPath(cue.ParsePath("kind")); kindVal.Exists() {
			s, err := kindVal.String()
			if err != nil {
				return ir.Type{}, formatCUEError(err)
			}
			t.Kind, err = ir.ParseTypeKind(s)
			if err != nil {
				return ir.Type{}, &CompileError{Field: field + ".kind", Message: err.Error(), Pos: kindVal.Pos()}
			}
		}
		if t.IsCustom, err = compileBool(v, "custom"); err != nil {
			return ir.Type{}, err
		}
		if t.IsNullable, err = compileBool(v, "nullable"); err != nil {
			return ir.Type{}, err
		}
		return t, nil

	default:
		return ir.Type{}, &CompileError{
			Field:   field,
			Message: "type must be a string or a struct",
			Pos:     v.Pos(),
		}
	}
}

func compileBool(v cue.Value, path string) (bool, error) {
	bv := v.LookupPath(cue.ParsePath(path))
	if !bv.Exists() {
		return false, nil
	}
	b, err := bv.Bool()
	if err != nil {
		return false, formatCUEError(err)
	}
	return b, nil
}

func compileStrings(v cue.Value, path string) ([]string, error) {
	lv := v.LookupPath(cue.ParsePath(path))
	if !lv.Exists() {
		return nil, nil
	}
	// A single string is accepted as a one-line list.
	if s, err := lv.String(); err == nil {
		return []string{s}, nil
	}
	iter, err := lv.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	var out []string
	for iter.Next() {
		s, err := iter.Value().String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		out = append(out, s)
	}
	return out, nil
}

// normalizeComments applies NFC so that equivalent text hashes and renders
// identically regardless of how the description file was encoded.
func normalizeComments(lines []string) []string {
	if len(lines) == 0 {
		return nil
	}
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = norm.NFC.String(l)
	}
	return out
}
