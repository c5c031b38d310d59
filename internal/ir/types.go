package ir

import (
	"fmt"
	"sort"
)

// ReceiverName is the input name that marks an instance method's implicit receiver.
const ReceiverName = "this"

// Well-known logical method names.
const (
	MethodNew     = "new"
	MethodDrop    = "drop"
	MethodClone   = "clone"
	MethodClose   = "close"
	MethodDefault = "default"
)

// TypeKind records the access level a handle was obtained at.
type TypeKind int

const (
	// Ref is a borrowed, read-only handle. It carries no disposal obligation.
	Ref TypeKind = iota
	// RefMut is a borrowed, mutable handle.
	RefMut
	// Value is an owned handle. The holder must dispose it or move it on.
	Value
)

// String returns the text form used in IR descriptions.
func (k TypeKind) String() string {
	switch k {
	case Ref:
		return "ref"
	case RefMut:
		return "ref_mut"
	case Value:
		return "value"
	default:
		return fmt.Sprintf("TypeKind(%d)", int(k))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k TypeKind) MarshalText() ([]byte, error) {
	switch k {
	case Ref, RefMut, Value:
		return []byte(k.String()), nil
	default:
		return nil, fmt.Errorf("invalid type kind %d", int(k))
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *TypeKind) UnmarshalText(text []byte) error {
	parsed, err := ParseTypeKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseTypeKind parses "ref", "ref_mut" or "value". Empty text means value.
func ParseTypeKind(s string) (TypeKind, error) {
	switch s {
	case "ref":
		return Ref, nil
	case "ref_mut":
		return RefMut, nil
	case "value", "":
		return Value, nil
	default:
		return Value, fmt.Errorf("unknown type kind %q (want ref, ref_mut or value)", s)
	}
}

// Type is a parameter or return type.
type Type struct {
	Name       string   `json:"name"`
	Kind       TypeKind `json:"kind"`
	IsCustom   bool     `json:"is_custom"`   // opaque handle to another Class
	IsNullable bool     `json:"is_nullable"` // handle may be the null sentinel
}

// UnitType is the "no value" type.
func UnitType() Type {
	return Type{Name: "()", Kind: Value}
}

// Handle returns a custom type naming class at the given access level.
func Handle(class string, kind TypeKind) Type {
	return Type{Name: class, Kind: kind, IsCustom: true}
}

// Prim returns a primitive type by name.
func Prim(name string) Type {
	return Type{Name: name, Kind: Value}
}

// Primitive classifies a non-custom type.
func (t Type) Primitive() (Primitive, error) {
	if t.IsCustom {
		return 0, fmt.Errorf("type %q is a custom handle, not a primitive", t.Name)
	}
	p, ok := ParsePrimitive(t.Name)
	if !ok {
		return 0, &UnknownPrimitiveError{Name: t.Name}
	}
	return p, nil
}

func (t Type) is(p Primitive) bool {
	if t.IsCustom {
		return false
	}
	got, ok := ParsePrimitive(t.Name)
	return ok && got == p
}

// IsUnit reports whether t is the "no value" type.
func (t Type) IsUnit() bool { return t.is(Unit) }

// IsBool reports whether t is the boolean primitive.
func (t Type) IsBool() bool { return t.is(Bool) }

// IsText reports whether t crosses the boundary as zero-terminated text
// (UTF-8 strings and raw JSON).
func (t Type) IsText() bool { return t.is(Text) || t.is(JSON) }

// IsOwnedHandle reports whether passing t moves ownership into the callee.
func (t Type) IsOwnedHandle() bool { return t.IsCustom && t.Kind == Value }

// Param is a named function input.
type Param struct {
	Name string `json:"name"`
	Type Type   `json:"type"`
}

// Function is one exported native function.
type Function struct {
	Name     string   `json:"name"`   // native symbol
	Method   string   `json:"method"` // logical method name
	Comments []string `json:"comments,omitempty"`
	Inputs   []Param  `json:"inputs"`
	Output   Type     `json:"output"`
}

// IsStatic reports whether f has no implicit receiver.
func (f *Function) IsStatic() bool {
	return len(f.Inputs) == 0 || f.Inputs[0].Name != ReceiverName
}

// HasReturnType reports whether f returns a value.
func (f *Function) HasReturnType() bool {
	return !f.Output.IsUnit()
}

// IsConstructor reports whether f is the canonical non-nullable factory.
func (f *Function) IsConstructor() bool {
	return f.Method == MethodNew && !f.Output.IsNullable
}

// IsDisposer reports whether f is the class disposer.
func (f *Function) IsDisposer() bool {
	return f.Method == MethodDrop
}

// Params returns the surface parameters, skipping the receiver.
func (f *Function) Params() []Param {
	if f.IsStatic() {
		return f.Inputs
	}
	return f.Inputs[1:]
}

// Bucket names the access level a Function requires.
type Bucket int

const (
	BucketStatic Bucket = iota
	BucketShared
	BucketMut
	BucketOwn
)

func (b Bucket) String() string {
	switch b {
	case BucketStatic:
		return "static"
	case BucketShared:
		return "shared"
	case BucketMut:
		return "mut"
	case BucketOwn:
		return "own"
	default:
		return fmt.Sprintf("Bucket(%d)", int(b))
	}
}

// Class is one opaque native type and the functions bound to it.
type Class struct {
	Name      string     `json:"name"`
	Comments  []string   `json:"comments,omitempty"`
	SharedFns []Function `json:"shared_fns"`
	MutFns    []Function `json:"mut_fns"`
	StaticFns []Function `json:"static_fns"`
	OwnFns    []Function `json:"own_fns"`
}

// Bucket returns the functions in bucket b.
func (c *Class) Bucket(b Bucket) []Function {
	switch b {
	case BucketStatic:
		return c.StaticFns
	case BucketShared:
		return c.SharedFns
	case BucketMut:
		return c.MutFns
	case BucketOwn:
		return c.OwnFns
	default:
		return nil
	}
}

// Buckets lists every bucket in emission order.
func Buckets() []Bucket {
	return []Bucket{BucketStatic, BucketShared, BucketMut, BucketOwn}
}

// Each calls fn for every Function in every bucket.
func (c *Class) Each(fn func(b Bucket, f *Function)) {
	for _, b := range Buckets() {
		fns := c.Bucket(b)
		for i := range fns {
			fn(b, &fns[i])
		}
	}
}

// Disposer returns the class's drop function, if it has one.
func (c *Class) Disposer() (*Function, bool) {
	for i := range c.OwnFns {
		if c.OwnFns[i].IsDisposer() {
			return &c.OwnFns[i], true
		}
	}
	return nil, false
}

// OwnedMethods returns the static and own functions surfaced on the owned
// type, excluding the disposer.
func (c *Class) OwnedMethods() []*Function {
	var out []*Function
	for _, fns := range [][]Function{c.StaticFns, c.OwnFns} {
		for i := range fns {
			if !fns[i].IsDisposer() {
				out = append(out, &fns[i])
			}
		}
	}
	return out
}

// Classes is the set of classes in one generation run.
type Classes []*Class

// Sorted returns a copy ordered by class name.
func (cs Classes) Sorted() Classes {
	out := make(Classes, len(cs))
	copy(out, cs)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Lookup finds a class by name.
func (cs Classes) Lookup(name string) (*Class, bool) {
	for _, c := range cs {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// Names returns class names in their current order.
func (cs Classes) Names() []string {
	names := make([]string, len(cs))
	for i, c := range cs {
		names[i] = c.Name
	}
	return names
}
