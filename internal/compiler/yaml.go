package compiler

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/roach88/bindgen/internal/ir"
)

// yamlFile is the YAML form of a class description set. It mirrors the CUE
// layout: a top-level "class" map keyed by class name.
type yamlFile struct {
	Class map[string]yamlClass `yaml:"class"`
}

type yamlClass struct {
	Comments yamlLines      `yaml:"comments"`
	Static   []yamlFunction `yaml:"static"`
	Shared   []yamlFunction `yaml:"shared"`
	Mut      []yamlFunction `yaml:"mut"`
	Own      []yamlFunction `yaml:"own"`
}

func (c *yamlClass) bucket(b ir.Bucket) []yamlFunction {
	switch b {
	case ir.BucketStatic:
		return c.Static
	case ir.BucketShared:
		return c.Shared
	case ir.BucketMut:
		return c.Mut
	default:
		return c.Own
	}
}

type yamlFunction struct {
	Name     string      `yaml:"name"`
	Method   string      `yaml:"method"`
	Comments yamlLines   `yaml:"comments"`
	Inputs   []yamlParam `yaml:"inputs"`
	Output   *yamlType   `yaml:"output"`

	line int
}

func (f *yamlFunction) UnmarshalYAML(n *yaml.Node) error {
	type plain yamlFunction
	var p plain
	if err := n.Decode(&p); err != nil {
		return err
	}
	*f = yamlFunction(p)
	f.line = n.Line
	return nil
}

type yamlParam struct {
	Name string    `yaml:"name"`
	Type *yamlType `yaml:"type"`
}

// yamlLines accepts a single string or a list of strings.
type yamlLines []string

func (l *yamlLines) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode {
		*l = yamlLines{n.Value}
		return nil
	}
	var lines []string
	if err := n.Decode(&lines); err != nil {
		return err
	}
	*l = lines
	return nil
}

// yamlType accepts the shorthand string notation or the long form.
type yamlType struct {
	ir.Type
	line int
	err  error
}

func (t *yamlType) UnmarshalYAML(n *yaml.Node) error {
	t.line = n.Line
	switch n.Kind {
	case yaml.ScalarNode:
		t.Type, t.err = ParseTypeExpr(n.Value)
		return nil
	case yaml.MappingNode:
		var long struct {
			Name     string `yaml:"name"`
			Kind     string `yaml:"kind"`
			Custom   bool   `yaml:"custom"`
			Nullable bool   `yaml:"nullable"`
		}
		if err := n.Decode(&long); err != nil {
			return err
		}
		kind, err := ir.ParseTypeKind(long.Kind)
		if err != nil {
			t.err = err
			return nil
		}
		if long.Name == "" {
			t.err = errors.New("type name is required")
			return nil
		}
		t.Type = ir.Type{Name: long.Name, Kind: kind, IsCustom: long.Custom, IsNullable: long.Nullable}
		return nil
	default:
		return fmt.Errorf("line %d: type must be a string or a mapping", n.Line)
	}
}

// CompileYAML parses a YAML class description file. Unknown fields are
// rejected so that a misspelled bucket does not silently drop functions.
func CompileYAML(filename string, data []byte) (ir.Classes, error) {
	var doc yamlFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, &CompileError{Field: "yaml", Message: err.Error(), Filename: filename}
	}

	names := make([]string, 0, len(doc.Class))
	for name := range doc.Class {
		names = append(names, name)
	}
	sort.Strings(names)

	var classes ir.Classes
	var errs []error
	for _, name := range names {
		yc := doc.Class[name]
		c, err := compileYAMLClass(filename, name, &yc)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		classes = append(classes, c)
	}
	return classes, errors.Join(errs...)
}

func compileYAMLClass(filename, name string, yc *yamlClass) (*ir.Class, error) {
	c := &ir.Class{Name: name, Comments: normalizeComments(yc.Comments)}

	for _, bf := range bucketFields {
		var fns []ir.Function
		for i, yf := range yc.bucket(bf.Bucket) {
			field := fmt.Sprintf("%s.%s[%d]", name, bf.Field, i)
			fn, err := compileYAMLFunction(filename, name, field, &yf)
			if err != nil {
				return nil, err
			}
			fns = append(fns, *fn)
		}
		setBucket(c, bf.Bucket, fns)
	}
	return c, nil
}

func compileYAMLFunction(filename, class, field string, yf *yamlFunction) (*ir.Function, error) {
	fail := func(sub, msg string, line int) error {
		return &CompileError{Field: field + sub, Message: msg, Filename: filename, Line: line}
	}

	if yf.Name == "" {
		return nil, fail(".name", "native symbol name is required", yf.line)
	}
	fn := &ir.Function{
		Name:     yf.Name,
		Method:   yf.Method,
		Comments: normalizeComments(yf.Comments),
		Output:   ir.UnitType(),
	}
	if fn.Method == "" {
		method, ok := defaultMethod(class, yf.Name)
		if !ok {
			return nil, fail(".method", fmt.Sprintf("method is required when %q does not start with %q", yf.Name, class+"_"), yf.line)
		}
		fn.Method = method
	}

	for i, p := range yf.Inputs {
		sub := fmt.Sprintf(".inputs[%d]", i)
		if p.Name == "" {
			return nil, fail(sub+".name", "parameter name is required", yf.line)
		}
		if p.Type == nil {
			return nil, fail(sub+".type", "parameter type is required", yf.line)
		}
		if p.Type.err != nil {
			return nil, fail(sub+".type", p.Type.err.Error(), p.Type.line)
		}
		fn.Inputs = append(fn.Inputs, ir.Param{Name: p.Name, Type: p.Type.Type})
	}

	if yf.Output != nil {
		if yf.Output.err != nil {
			return nil, fail(".output", yf.Output.err.Error(), yf.Output.line)
		}
		fn.Output = yf.Output.Type
	}
	return fn, nil
}
