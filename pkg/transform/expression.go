package transform

import (
	"github.com/recera/vex/pkg/ast"
	"github.com/recera/vex/pkg/runtime"
)

// jsKeywords are words the identifier scanner never rewrites
var jsKeywords = map[string]bool{
	"true": true, "false": true, "null": true, "undefined": true,
	"this": true, "typeof": true, "instanceof": true, "in": true,
	"of": true, "new": true, "function": true, "return": true,
	"if": true, "else": true, "for": true, "while": true, "do": true,
	"break": true, "continue": true, "switch": true, "case": true,
	"default": true, "var": true, "let": true, "const": true,
	"class": true, "extends": true, "super": true, "import": true,
	"export": true, "void": true, "delete": true, "yield": true,
	"async": true, "await": true, "try": true, "catch": true,
	"finally": true, "throw": true,
}

// jsGlobals are whitelisted globals readable from template expressions,
// plus $event which the listener wrapper provides.
var jsGlobals = map[string]bool{
	"Infinity": true, "NaN": true, "isFinite": true, "isNaN": true,
	"parseFloat": true, "parseInt": true, "decodeURI": true,
	"decodeURIComponent": true, "encodeURI": true,
	"encodeURIComponent": true, "Math": true, "Number": true,
	"Date": true, "Array": true, "Object": true, "Boolean": true,
	"String": true, "Symbol": true, "RegExp": true, "Map": true,
	"Set": true, "JSON": true, "Intl": true, "BigInt": true,
	"console": true, "$event": true,
}

// rewriteExpression rewrites every free identifier in e to its binding
// access path and returns the result. Static expressions and
// expressions with nothing to rewrite come back unchanged; otherwise
// the result is a compound expression whose identifier fragments carry
// the rewritten access paths.
func rewriteExpression(ctx *Context, e ast.Expression) ast.Expression {
	if e == nil {
		return nil
	}
	switch e := e.(type) {
	case *ast.SimpleExpression:
		if e.IsStatic {
			return e
		}
		frags, changed := scanIdentifiers(ctx, e.Content, e.Span)
		if !changed {
			return e
		}
		c := ctx.Arena.NewCompoundExpression()
		c.Span = e.Span
		c.Fragments = frags
		return c
	case *ast.CompoundExpression:
		var out []ast.ExprFragment
		changed := false
		for _, f := range e.Fragments {
			if f.Kind == ast.FragmentIdentifier {
				frags, ch := scanIdentifiers(ctx, f.Text, f.Span)
				if ch {
					changed = true
					out = append(out, frags...)
					continue
				}
			}
			out = append(out, f)
		}
		if changed {
			e.Fragments = out
		}
		return e
	default:
		return e
	}
}

// scanIdentifiers walks src as loosely tokenized JavaScript and builds
// the fragment list with every free identifier replaced by its access
// path. The scan is heuristic, not a parser: string and template
// literals are skipped whole (identifiers inside template
// interpolations are not rewritten), object keys are recognized by a
// preceding brace or comma, shorthand properties are expanded to
// key-value form, and only single-identifier arrow parameters are
// recognized as locals.
func scanIdentifiers(ctx *Context, src string, span ast.Span) ([]ast.ExprFragment, bool) {
	var frags []ast.ExprFragment
	changed := false
	litStart := 0
	var prevSig byte
	locals := map[string]bool{}

	flushLit := func(end int) {
		if end > litStart {
			frags = append(frags, ast.ExprFragment{
				Kind: ast.FragmentLiteral,
				Text: src[litStart:end],
				Span: ast.Span{Start: span.Start + litStart, Length: end - litStart},
			})
		}
	}

	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case c == '\'' || c == '"' || c == '`':
			i = skipString(src, i)
			prevSig = c
		case isDigit(c):
			for i < len(src) && (isIdentByte(src[i]) || src[i] == '.') {
				i++
			}
			prevSig = src[i-1]
		case isIdentStart(c):
			start := i
			for i < len(src) && isIdentByte(src[i]) {
				i++
			}
			word := src[start:i]
			before := prevSig
			prevSig = src[i-1]
			after, afterIdx := nextSignificant(src, i)

			if after == '=' && afterIdx+1 < len(src) && src[afterIdx+1] == '>' {
				locals[word] = true
				continue
			}
			if jsKeywords[word] || jsGlobals[word] || before == '.' {
				continue
			}
			inObject := before == '{' || before == ','
			if inObject && after == ':' {
				continue
			}
			if ctx.InScope(word) || locals[word] {
				continue
			}
			access := accessPath(ctx, word)
			if access == word {
				continue
			}
			changed = true
			flushLit(start)
			if inObject && (after == ',' || after == '}') {
				// expand shorthand: { foo } reads as { foo: <access> }
				frags = append(frags, ast.ExprFragment{
					Kind: ast.FragmentLiteral,
					Text: word + ": ",
					Span: ast.Span{Start: span.Start + start, Length: len(word)},
				})
			}
			frags = append(frags, ast.ExprFragment{
				Kind: ast.FragmentIdentifier,
				Text: access,
				Span: ast.Span{Start: span.Start + start, Length: len(word)},
			})
			litStart = i
		default:
			if !isSpaceByte(c) {
				prevSig = c
			}
			i++
		}
	}
	flushLit(len(src))
	return frags, changed
}

// accessPath maps an identifier to the expression that reads it, based
// on the binding metadata for the compilation.
func accessPath(ctx *Context, name string) string {
	switch ctx.BindingFor(name) {
	case BindingSetupRef:
		return name + ".value"
	case BindingSetupConst:
		return name
	case BindingSetupLet:
		ctx.Helper(runtime.Unref)
		return "_unref(" + name + ")"
	case BindingProp:
		return "__props." + name
	default:
		return "_ctx." + name
	}
}

// patternIdentifiers collects the identifiers a binding pattern
// introduces. Destructuring renames contribute both sides, which only
// over-declares the loop scope.
func patternIdentifiers(src string) []string {
	var names []string
	seen := map[string]bool{}
	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case c == '\'' || c == '"' || c == '`':
			i = skipString(src, i)
		case isIdentStart(c):
			start := i
			for i < len(src) && isIdentByte(src[i]) {
				i++
			}
			word := src[start:i]
			if !jsKeywords[word] && !seen[word] {
				seen[word] = true
				names = append(names, word)
			}
		default:
			i++
		}
	}
	return names
}

// skipString advances past the string literal opening at src[i],
// honoring backslash escapes. Returns the index after the closing
// quote, or len(src) when unterminated.
func skipString(src string, i int) int {
	quote := src[i]
	i++
	for i < len(src) {
		switch src[i] {
		case '\\':
			i++
		case quote:
			return i + 1
		}
		i++
	}
	return i
}

// nextSignificant returns the first non-whitespace byte at or after i
func nextSignificant(src string, i int) (byte, int) {
	for i < len(src) {
		if !isSpaceByte(src[i]) {
			return src[i], i
		}
		i++
	}
	return 0, len(src)
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentByte(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isSpaceByte(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
