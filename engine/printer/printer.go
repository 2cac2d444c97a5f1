package printer

import (
	"strings"

	"lispy/lib/value"
)

const indent = "  "

// Render writes v back as source text that reads back to the same value.
// Procedures render as #<...>, which does not read back.
func Render(v value.Value) string {
	var sb strings.Builder
	render(&sb, v)
	return sb.String()
}

func render(sb *strings.Builder, v value.Value) {
	switch x := v.(type) {
	case value.List:
		sb.WriteByte('(')
		for k, e := range x {
			if k > 0 {
				sb.WriteByte(' ')
			}
			render(sb, e)
		}
		sb.WriteByte(')')
	case value.String:
		sb.WriteString(quote(string(x)))
	default:
		sb.WriteString(v.String())
	}
}

func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}

// Display is Render except that strings, at any depth, are written without
// quotes. It is what print writes.
func Display(v value.Value) string {
	switch x := v.(type) {
	case value.String:
		return string(x)
	case value.List:
		parts := make([]string, len(x))
		for k, e := range x {
			parts[k] = Display(e)
		}
		return "(" + strings.Join(parts, " ") + ")"
	default:
		return v.String()
	}
}

// Pretty renders a list holding other non-empty lists across several lines:
// the first element stays on the line of the opening paren and every other
// element gets its own line, one indent level deeper. Flat lists and atoms
// render as in Render.
func Pretty(v value.Value) string {
	var sb strings.Builder
	pretty(&sb, v, 0)
	return sb.String()
}

func pretty(sb *strings.Builder, v value.Value, depth int) {
	l, ok := v.(value.List)
	if !ok || isFlat(l) {
		render(sb, v)
		return
	}
	sb.WriteByte('(')
	for k, e := range l {
		if k > 0 {
			sb.WriteByte('\n')
			sb.WriteString(strings.Repeat(indent, depth+1))
		}
		pretty(sb, e, depth+1)
	}
	sb.WriteByte(')')
}

func isFlat(l value.List) bool {
	for _, e := range l {
		if inner, ok := e.(value.List); ok && len(inner) > 0 {
			return false
		}
	}
	return true
}
