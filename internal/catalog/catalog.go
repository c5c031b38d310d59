// Package catalog holds the hand-maintained structured-data declarations
// exchanged as JSON text with the native library (component states,
// settings values, accuracy and digits formats, editor states, colors).
//
// The declarations are reproduced verbatim. They are not derived from the
// IR: functions returning JSON carry no schema.
package catalog

import (
	_ "embed"
	"regexp"
)

// FileName is the artifact name the TypeScript backend writes the catalog to.
const FileName = "types.ts"

//go:embed types.ts
var source []byte

// Source returns the catalog as TypeScript declarations.
func Source() []byte {
	out := make([]byte, len(source))
	copy(out, source)
	return out
}

// Kind is the TypeScript declaration form.
type Kind string

const (
	KindType      Kind = "type"
	KindEnum      Kind = "enum"
	KindInterface Kind = "interface"
)

// Declaration is one top-level exported declaration.
type Declaration struct {
	Kind Kind   `json:"kind"`
	Name string `json:"name"`
	Line int    `json:"line"`
}

var exportRE = regexp.MustCompile(`(?m)^export (type|enum|interface) (\w+)`)

// Declarations lists the catalog's exported declarations in source order.
func Declarations() []Declaration {
	var out []Declaration
	line := 1
	last := 0
	for _, m := range exportRE.FindAllSubmatchIndex(source, -1) {
		for _, b := range source[last:m[0]] {
			if b == '\n' {
				line++
			}
		}
		last = m[0]
		out = append(out, Declaration{
			Kind: Kind(source[m[2]:m[3]]),
			Name: string(source[m[4]:m[5]]),
			Line: line,
		})
	}
	return out
}

// Lookup finds a declaration by name.
func Lookup(name string) (Declaration, bool) {
	for _, d := range Declarations() {
		if d.Name == name {
			return d, true
		}
	}
	return Declaration{}, false
}
