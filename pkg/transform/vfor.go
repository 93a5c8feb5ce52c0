package transform

import (
	"strings"

	"github.com/recera/vex/pkg/ast"
	"github.com/recera/vex/pkg/diag"
	"github.com/recera/vex/pkg/runtime"
)

// buildFor parses a v-for value of the form "alias in source" (or "of")
// into a For node wrapping el. The alias side accepts an optional
// parenthesized (value, key, index) list, and value may be a
// destructuring pattern. Returns nil after reporting when the
// expression cannot be parsed.
func buildFor(ctx *Context, d *ast.Directive, el *ast.Element) *ast.For {
	if d.Exp == nil {
		ctx.Diags.Errorf(diag.CodeInvalidDirectiveArgument, d.Span,
			"v-for requires an expression of the form \"item in items\"")
		return nil
	}
	src := d.Exp.Source()
	expStart := d.Exp.Loc().Start

	aliasEnd, sourceStart, found := splitForExpression(src)
	if !found {
		ctx.Diags.Errorf(diag.CodeInvalidDirectiveArgument, d.Exp.Loc(),
			"v-for expects an expression of the form \"item in items\"")
		return nil
	}
	alias := strings.TrimSpace(src[:aliasEnd])
	source := strings.TrimSpace(src[sourceStart:])
	if source == "" {
		ctx.Diags.Errorf(diag.CodeInvalidDirectiveArgument, d.Exp.Loc(),
			"v-for is missing its source expression")
		return nil
	}

	forNode := ctx.Arena.NewFor()
	forNode.Span = el.Loc()
	forNode.Children = []ast.Node{el}
	forNode.Keyed = ast.FindProp(el, "key") != nil

	lead := len(src[sourceStart:]) - len(strings.TrimLeft(src[sourceStart:], " \t\r\n"))
	sourceOff := expStart + sourceStart + lead
	forNode.Source = rewriteExpression(ctx, ctx.Arena.Simple(source, false,
		ast.Span{Start: sourceOff, Length: len(source)}))

	value, key, index := splitForAlias(ctx, alias, d.Exp.Loc())
	if value == "" && key == "" && index == "" {
		ctx.Diags.Errorf(diag.CodeInvalidDirectiveArgument, d.Exp.Loc(),
			"v-for is missing its item alias")
		return nil
	}
	forNode.Value = aliasExpression(ctx, value, expStart, src)
	forNode.Key = aliasExpression(ctx, key, expStart, src)
	forNode.Index = aliasExpression(ctx, index, expStart, src)
	return forNode
}

// splitForExpression finds the top-level "in" or "of" delimiter, outside
// any bracket nesting or string literal. It returns the end of the alias
// segment and the start of the source segment.
func splitForExpression(src string) (aliasEnd, sourceStart int, found bool) {
	depth := 0
	var quote byte
	for i := 0; i < len(src); i++ {
		c := src[i]
		if quote != 0 {
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"', '`':
			quote = c
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case 'i', 'o':
			if depth != 0 || i+2 > len(src) {
				continue
			}
			word := src[i : i+2]
			if word != "in" && word != "of" {
				continue
			}
			if i > 0 && isIdentByte(src[i-1]) {
				continue
			}
			if i+2 < len(src) && isIdentByte(src[i+2]) {
				continue
			}
			return i, i + 2, true
		}
	}
	return 0, 0, false
}

// splitForAlias breaks an optionally parenthesized alias list into its
// value, key and index segments. Empty segments come back as "".
func splitForAlias(ctx *Context, alias string, span ast.Span) (value, key, index string) {
	inner := alias
	if strings.HasPrefix(inner, "(") && strings.HasSuffix(inner, ")") {
		inner = inner[1 : len(inner)-1]
	}
	parts := splitTopLevel(inner, ',')
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	if len(parts) > 3 {
		ctx.Diags.Errorf(diag.CodeInvalidDirectiveArgument, span,
			"v-for accepts at most value, key and index aliases")
		parts = parts[:3]
	}
	value = parts[0]
	if len(parts) > 1 {
		key = parts[1]
	}
	if len(parts) > 2 {
		index = parts[2]
	}
	return value, key, index
}

// splitTopLevel splits s on sep occurrences outside brackets and strings
func splitTopLevel(s string, sep byte) []string {
	var parts []string
	depth := 0
	var quote byte
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"', '`':
			quote = c
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		default:
			if c == sep && depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}

// aliasExpression wraps a loop-binding segment as an expression with a
// span located inside the original v-for value.
func aliasExpression(ctx *Context, text string, expStart int, src string) ast.Expression {
	if text == "" {
		return nil
	}
	off := strings.Index(src, text)
	if off < 0 {
		off = 0
	}
	return ctx.Arena.Simple(text, false, ast.Span{Start: expStart + off, Length: len(text)})
}

// forScopeNames collects every identifier the loop aliases bind,
// including names introduced by destructuring patterns.
func forScopeNames(n *ast.For) []string {
	var names []string
	for _, e := range []ast.Expression{n.Value, n.Key, n.Index} {
		if e != nil {
			names = append(names, patternIdentifiers(e.Source())...)
		}
	}
	return names
}

// registerFor records the list-rendering helpers for the current mode
// and promotes the repeated element to a block root.
func registerFor(ctx *Context, n *ast.For, item *ast.Element) {
	switch {
	case ctx.DOM():
		ctx.Helper(runtime.OpenBlock)
		ctx.Helper(runtime.CreateElementBlock)
		ctx.Helper(runtime.Fragment)
		ctx.Helper(runtime.RenderList)
		promoteToBlock(ctx, item)
	case ctx.SSR():
		ctx.Helper(runtime.SSRRenderList)
	}
}
