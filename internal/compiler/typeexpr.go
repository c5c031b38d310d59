package compiler

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/roach88/bindgen/internal/ir"
)

// ParseTypeExpr parses the shorthand type notation used in class
// descriptions:
//
//	()            unit
//	u32, c_char   primitives
//	Run           owned handle
//	&Run          shared borrow
//	&mut Run      mutable borrow
//	Run?          handle that may be null
//
// A borrow of a primitive (&c_char) is accepted and recorded as the plain
// primitive.
//
// A bare name that is not a known primitive and starts with an upper-case
// letter names a class. Lower-case unknown names stay primitives so that
// validation can report them.
func ParseTypeExpr(expr string) (ir.Type, error) {
	s := strings.TrimSpace(expr)
	if s == "" {
		return ir.Type{}, fmt.Errorf("empty type expression")
	}

	t := ir.Type{Kind: ir.Value}
	explicitHandle := false

	if rest, ok := strings.CutSuffix(s, "?"); ok {
		t.IsNullable = true
		explicitHandle = true
		s = strings.TrimSpace(rest)
	}
	switch {
	case strings.HasPrefix(s, "&mut "):
		t.Kind = ir.RefMut
		s = strings.TrimSpace(strings.TrimPrefix(s, "&mut "))
		explicitHandle = true
	case strings.HasPrefix(s, "&"):
		t.Kind = ir.Ref
		s = strings.TrimSpace(strings.TrimPrefix(s, "&"))
		explicitHandle = true
	}
	if s == "" {
		return ir.Type{}, fmt.Errorf("type expression %q names no type", expr)
	}
	t.Name = s

	if _, isPrim := ir.ParsePrimitive(s); isPrim {
		if t.IsNullable {
			return ir.Type{}, fmt.Errorf("type expression %q: primitive %q cannot be nullable", expr, s)
		}
		t.Kind = ir.Value
		return t, nil
	}

	r, _ := utf8.DecodeRuneInString(s)
	if unicode.IsUpper(r) {
		t.IsCustom = true
		return t, nil
	}
	if explicitHandle {
		return ir.Type{}, fmt.Errorf("type expression %q: %q is not a class name", expr, s)
	}
	return t, nil
}

// FormatTypeExpr renders t in the notation ParseTypeExpr accepts.
func FormatTypeExpr(t ir.Type) string {
	if !t.IsCustom {
		return t.Name
	}
	var b strings.Builder
	switch t.Kind {
	case ir.Ref:
		b.WriteString("&")
	case ir.RefMut:
		b.WriteString("&mut ")
	}
	b.WriteString(t.Name)
	if t.IsNullable {
		b.WriteString("?")
	}
	return b.String()
}

// defaultMethod derives the logical method name from a native symbol
// following the Class_method naming convention.
func defaultMethod(class, symbol string) (string, bool) {
	method, ok := strings.CutPrefix(symbol, class+"_")
	if !ok || method == "" {
		return "", false
	}
	return method, true
}

func setBucket(c *ir.Class, b ir.Bucket, fns []ir.Function) {
	switch b {
	case ir.BucketStatic:
		c.StaticFns = fns
	case ir.BucketShared:
		c.SharedFns = fns
	case ir.BucketMut:
		c.MutFns = fns
	case ir.BucketOwn:
		c.OwnFns = fns
	}
}
