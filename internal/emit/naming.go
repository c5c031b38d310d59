package emit

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/roach88/bindgen/internal/ir"
)

// Reserved logical method names and their surface names.
var renames = map[string]string{
	ir.MethodClone:   "copy",
	ir.MethodClose:   "finish",
	ir.MethodNew:     "create",
	ir.MethodDefault: "createDefault",
}

// MethodName returns the surface name of a logical method in lowerCamelCase,
// after applying the reserved-name renames.
func MethodName(logical string) string {
	name := MixedCase(logical)
	if renamed, ok := renames[name]; ok {
		return renamed
	}
	return name
}

// ExportedMethodName is MethodName with the first letter upper-cased.
func ExportedMethodName(logical string) string {
	return upperFirst(MethodName(logical))
}

// MixedCase converts snake_case to lowerCamelCase.
func MixedCase(s string) string {
	parts := splitWords(s)
	if len(parts) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(strings.ToLower(parts[0]))
	title := cases.Title(language.Und, cases.NoLower)
	for _, p := range parts[1:] {
		b.WriteString(title.String(p))
	}
	return b.String()
}

// PascalCase converts snake_case to UpperCamelCase.
func PascalCase(s string) string {
	return upperFirst(MixedCase(s))
}

// SnakeCase converts an UpperCamelCase class name to snake_case.
func SnakeCase(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && (unicode.IsLower(runes[i-1]) || (i+1 < len(runes) && unicode.IsLower(runes[i+1]))) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func splitWords(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool { return r == '_' || r == '-' || r == ' ' })
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// Placeholders maps the IR comment placeholders to a target's literals.
type Placeholders struct {
	Null  string
	True  string
	False string
}

// Comment rewrites <NULL>, <TRUE> and <FALSE> in an IR doc comment.
func (p Placeholders) Comment(s string) string {
	return strings.NewReplacer(
		"<NULL>", p.Null,
		"<TRUE>", p.True,
		"<FALSE>", p.False,
	).Replace(s)
}
