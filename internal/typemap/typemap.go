// Package typemap maps IR types to a target ecosystem's wire and surface types.
//
// The rules shared by every backend live in Engine; each backend supplies a
// Table that switches exhaustively over ir.Primitive.
package typemap

import (
	"errors"
	"fmt"

	"github.com/roach88/bindgen/internal/ir"
)

// ErrUnmapped is returned for a primitive a backend has no mapping for.
// It indicates an IR defect and must abort generation.
var ErrUnmapped = errors.New("unmapped primitive")

// Table is a backend's primitive mapping.
type Table interface {
	// WirePrimitive returns the type crossing the native boundary.
	// Text primitives never reach this method.
	WirePrimitive(p ir.Primitive) (string, bool)
	// SurfacePrimitive returns the type shown to the caller.
	SurfacePrimitive(p ir.Primitive) (string, bool)
	// WireHandle is the wire type of an opaque handle address.
	WireHandle() string
	// WirePointer is the wire type of a text address.
	WirePointer() string

	// Encode converts expr, a surface value of p, to its wire form.
	// Unit and text primitives never reach this method.
	Encode(p ir.Primitive, expr string) (string, bool)
	// Decode converts expr, a wire value, to the surface type of p.
	Decode(p ir.Primitive, expr string) (string, bool)
	// EncodeAddress and DecodeAddress convert handle and text addresses.
	EncodeAddress(expr string) string
	DecodeAddress(expr string) string
}

// Mapper is the contract every backend's type mapping satisfies.
type Mapper interface {
	Wire(t ir.Type) (string, error)
	Surface(t ir.Type) (string, error)
}

// Engine applies the shared mapping rules over a backend Table.
type Engine struct {
	table Table
}

// New creates an Engine for table.
func New(table Table) *Engine {
	return &Engine{table: table}
}

// Wire returns the wire type for t.
func (e *Engine) Wire(t ir.Type) (string, error) {
	if t.IsCustom {
		return e.table.WireHandle(), nil
	}
	p, err := primitive(t)
	if err != nil {
		return "", err
	}
	if p.IsText() {
		return e.table.WirePointer(), nil
	}
	s, ok := e.table.WirePrimitive(p)
	if !ok {
		return "", fmt.Errorf("%w: wire type for %q", ErrUnmapped, t.Name)
	}
	return s, nil
}

// Surface returns the surface type for t.
func (e *Engine) Surface(t ir.Type) (string, error) {
	if t.IsCustom {
		return SurfaceName(t), nil
	}
	p, err := primitive(t)
	if err != nil {
		return "", err
	}
	s, ok := e.table.SurfacePrimitive(p)
	if !ok {
		return "", fmt.Errorf("%w: surface type for %q", ErrUnmapped, t.Name)
	}
	return s, nil
}

// Encode returns the expression passing expr, a value of type t, to the
// native side. For handles and text expr must already be the address.
func (e *Engine) Encode(t ir.Type, expr string) (string, error) {
	return e.convert(t, expr, e.table.Encode, e.table.EncodeAddress)
}

// Decode returns the expression converting expr, as returned by the native
// side, to the surface type of t. Handles and text decode to their address.
func (e *Engine) Decode(t ir.Type, expr string) (string, error) {
	return e.convert(t, expr, e.table.Decode, e.table.DecodeAddress)
}

func (e *Engine) convert(t ir.Type, expr string, prim func(ir.Primitive, string) (string, bool), addr func(string) string) (string, error) {
	if t.IsCustom {
		return addr(expr), nil
	}
	p, err := primitive(t)
	if err != nil {
		return "", err
	}
	if p.IsText() {
		return addr(expr), nil
	}
	if p == ir.Unit {
		return "", fmt.Errorf("%w: %q has no value to convert", ErrUnmapped, t.Name)
	}
	s, ok := prim(p, expr)
	if !ok {
		return "", fmt.Errorf("%w: conversion for %q", ErrUnmapped, t.Name)
	}
	return s, nil
}

// SurfaceName returns the surface class name for a custom type, selected by
// the access level it was obtained at.
func SurfaceName(t ir.Type) string {
	switch t.Kind {
	case ir.Ref:
		return t.Name + "Ref"
	case ir.RefMut:
		return t.Name + "RefMut"
	default:
		return t.Name
	}
}

func primitive(t ir.Type) (ir.Primitive, error) {
	p, err := t.Primitive()
	if err != nil {
		var unknown *ir.UnknownPrimitiveError
		if errors.As(err, &unknown) {
			return 0, fmt.Errorf("%w: %q", ErrUnmapped, unknown.Name)
		}
		return 0, err
	}
	return p, nil
}
