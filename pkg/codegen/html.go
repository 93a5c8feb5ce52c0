package codegen

import (
	"html"
	"strconv"
	"strings"
)

// booleanAttributes are HTML attributes that are boolean flags: the SSR
// backend serializes them by presence alone.
var booleanAttributes = map[string]bool{
	"checked":   true,
	"disabled":  true,
	"readonly":  true,
	"required":  true,
	"selected":  true,
	"defer":     true,
	"async":     true,
	"multiple":  true,
	"autofocus": true,
}

// escapeHTML escapes text content and attribute values for static
// markup.
func escapeHTML(s string) string {
	return html.EscapeString(s)
}

// escapeTemplate escapes s for embedding inside a JS template literal.
func escapeTemplate(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\\' || c == '`':
			b.WriteByte('\\')
			b.WriteByte(c)
		case c == '$' && i+1 < len(s) && s[i+1] == '{':
			b.WriteString("\\$")
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// quoteJS renders s as a double-quoted JS string literal.
func quoteJS(s string) string {
	return strconv.Quote(s)
}

func isJSIdentByte(c byte, first bool) bool {
	if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_' || c == '$' {
		return true
	}
	return !first && c >= '0' && c <= '9'
}

// isJSIdentifier reports whether s can appear unquoted as an object key
func isJSIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isJSIdentByte(s[i], i == 0) {
			return false
		}
	}
	return true
}

// propKey renders an object key, quoting names that are not plain
// identifiers (data-id, .innerHTML, ^width).
func propKey(name string) string {
	if isJSIdentifier(name) {
		return name
	}
	return quoteJS(name)
}

// isSimplePath reports whether src is a bare member path like a, a.b.c
// or a[0], which can be used directly as an event handler without an
// arrow wrapper.
func isSimplePath(src string) bool {
	if src == "" {
		return false
	}
	i := 0
	for i < len(src) {
		start := i
		for i < len(src) && isJSIdentByte(src[i], i == start) {
			i++
		}
		if i == start {
			return false
		}
		for i < len(src) && src[i] == '[' {
			depth := 1
			i++
			for i < len(src) && depth > 0 {
				switch src[i] {
				case '[':
					depth++
				case ']':
					depth--
				}
				i++
			}
			if depth != 0 {
				return false
			}
		}
		if i == len(src) {
			return true
		}
		if src[i] != '.' {
			return false
		}
		i++
	}
	return false
}

// isFunctionExpr reports whether src already evaluates to a function,
// so handler emission must not wrap it in another arrow.
func isFunctionExpr(src string) bool {
	return strings.Contains(src, "=>") || strings.HasPrefix(src, "function")
}

func quotedList(items []string) string {
	var b strings.Builder
	for i, s := range items {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(quoteJS(s))
	}
	return b.String()
}
