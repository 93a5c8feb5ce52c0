// Package parse turns VEX template source into an untransformed tree.
// The parser is a recursive descent over the element/text/interpolation
// grammar; problems become diagnostics rather than hard stops, so a
// template with one bad construct still yields a tree for the rest.
package parse

import (
	"strings"
	"unicode"

	"github.com/recera/vex/pkg/ast"
	"github.com/recera/vex/pkg/diag"
)

// Parser is a recursive descent parser for VEX templates
type Parser struct {
	source   string
	filename string
	pos      int
	arena    *ast.Arena
	diags    *diag.List
}

// NewParser creates a parser over source, allocating all nodes from arena
func NewParser(filename, source string, arena *ast.Arena) *Parser {
	return &Parser{
		source:   source,
		filename: filename,
		arena:    arena,
		diags:    &diag.List{},
	}
}

// Parse parses source into tree form. The returned root holds whatever
// could be parsed; callers must consult the diagnostics before trusting
// it fully.
func Parse(filename, source string, arena *ast.Arena) (*ast.Root, *diag.List) {
	return NewParser(filename, source, arena).Parse()
}

// Parse runs the parser to the end of input
func (p *Parser) Parse() (*ast.Root, *diag.List) {
	root := p.arena.NewRoot()
	root.Span = ast.Span{Start: 0, Length: len(p.source)}
	for p.pos < len(p.source) {
		root.Children = append(root.Children, p.parseNodes()...)
		if p.pos < len(p.source) {
			// parseNodes only stops early at a closing tag, and at the
			// top level there is no element for it to close.
			start := p.pos
			p.consume("</")
			tag := p.parseTagName()
			p.consume(">")
			p.errorAt(diag.CodeUnclosedElement, ast.SpanBetween(start, p.pos),
				"closing </%s> has no matching opening tag", tag)
		}
	}
	p.diags.Clamp(len(p.source))
	p.diags.Sort()
	return root, p.diags
}

// parseNodes parses a sequence of sibling nodes, stopping at a closing
// tag or end of input.
func (p *Parser) parseNodes() []ast.Node {
	var nodes []ast.Node

	for p.pos < len(p.source) {
		if p.peek("<!--") {
			nodes = append(nodes, p.parseComment())
		} else if p.peek("</") {
			// Closing tag for the enclosing element.
			break
		} else if p.peekElementStart() {
			if el := p.parseElement(); el != nil {
				nodes = append(nodes, el)
			}
		} else if p.peek("{{") {
			nodes = append(nodes, p.parseInterpolation())
		} else {
			if text := p.parseText(); text != nil {
				nodes = append(nodes, text)
			}
		}
	}

	return nodes
}

// parseElement parses an element from "<" through its closing tag
func (p *Parser) parseElement() ast.Node {
	start := p.pos
	p.consume("<")

	tag := p.parseTagName()
	el := p.arena.NewElement()
	el.Tag = tag
	el.IsComponent = unicode.IsUpper(rune(tag[0]))

	p.parseAttributes(el)

	p.skipWhitespace()
	if p.consume("/>") {
		el.IsSelfClosing = true
		el.Span = ast.SpanBetween(start, p.pos)
		return el
	}
	if !p.consume(">") {
		p.errorHere(diag.CodeUnexpectedEOF, "unexpected end of template inside <%s>", tag)
		el.Span = ast.SpanBetween(start, p.pos)
		return el
	}

	// Void elements take no children and no closing tag.
	if !el.IsComponent && ast.IsVoidTag(tag) {
		el.IsSelfClosing = true
		el.Span = ast.SpanBetween(start, p.pos)
		return el
	}

	el.Children = p.parseNodes()

	if p.pos >= len(p.source) {
		p.errorAt(diag.CodeUnclosedElement, ast.SpanBetween(start, start+len(tag)+1),
			"<%s> is never closed", tag)
		el.Span = ast.SpanBetween(start, p.pos)
		return el
	}

	closeStart := p.pos
	p.consume("</")
	closing := p.parseTagName()
	p.skipWhitespace()
	if !p.consume(">") {
		p.errorHere(diag.CodeUnclosedElement, "malformed closing tag for <%s>", tag)
	}
	if closing != tag {
		p.errorAt(diag.CodeUnclosedElement, ast.SpanBetween(closeStart, p.pos),
			"mismatched closing tag: expected </%s>, found </%s>", tag, closing)
	}

	el.Span = ast.SpanBetween(start, p.pos)
	return el
}

// parseAttributes parses props up to the closing ">" or "/>"
func (p *Parser) parseAttributes(el *ast.Element) {
	seen := make(map[string]bool)

	for {
		p.skipWhitespace()
		if p.pos >= len(p.source) || p.peek(">") || p.peek("/>") {
			return
		}

		nameStart := p.pos
		name := p.parseAttributeName()
		if name == "" {
			p.errorHere(diag.CodeMalformedAttribute, "unexpected character %q in <%s>", p.source[p.pos], el.Tag)
			p.advance()
			continue
		}

		value, hasValue, valueSpan := p.parseAttributeValue()
		span := ast.SpanBetween(nameStart, p.pos)

		if isDirectiveName(name) {
			d := p.parseDirective(name, nameStart, span)
			if d == nil {
				continue
			}
			if hasValue {
				d.Exp = p.arena.Simple(strings.TrimSpace(value), false, valueSpan)
			}
			key := directiveKey(d)
			if seen[key] {
				p.errorAt(diag.CodeDuplicateDirective, span, "duplicate directive %q on <%s>", name, el.Tag)
				continue
			}
			seen[key] = true
			el.Props = append(el.Props, d)
			continue
		}

		attr := p.arena.NewAttribute()
		attr.Name = name
		attr.Value = value
		attr.HasValue = hasValue
		attr.Span = span
		el.Props = append(el.Props, attr)
	}
}

// parseDirective splits a raw directive attribute name into its
// canonical name, argument and modifiers. nameStart is the offset of the
// name's first byte; span covers the whole prop.
func (p *Parser) parseDirective(name string, nameStart int, span ast.Span) *ast.Directive {
	d := p.arena.NewDirective()
	d.Span = span

	rest := ""
	restStart := nameStart
	switch {
	case strings.HasPrefix(name, "v-"):
		rest = name[2:]
		restStart += 2
		// The canonical name runs up to the first ":" or modifier dot.
		end := strings.IndexAny(rest, ":.")
		if end == -1 {
			d.Name = rest
			rest = ""
		} else {
			d.Name = rest[:end]
			if rest[end] == ':' {
				rest = rest[end+1:]
				restStart += end + 1
			} else {
				rest = rest[end:]
				restStart += end
			}
		}
	case strings.HasPrefix(name, ":"):
		d.Name = "bind"
		rest = name[1:]
		restStart++
	case strings.HasPrefix(name, "@"):
		d.Name = "on"
		rest = name[1:]
		restStart++
	case strings.HasPrefix(name, "#"):
		d.Name = "slot"
		rest = name[1:]
		restStart++
	}

	if d.Name == "" {
		p.errorAt(diag.CodeMalformedAttribute, span, "directive %q has no name", name)
		return nil
	}

	// Split the argument from trailing modifiers. Dots inside a dynamic
	// [expr] argument belong to the expression, not to modifiers.
	arg, mods := rest, ""
	depth := 0
scan:
	for i := 0; i < len(rest); i++ {
		switch rest[i] {
		case '[':
			depth++
		case ']':
			depth--
		case '.':
			if depth == 0 {
				arg, mods = rest[:i], rest[i:]
				break scan
			}
		}
	}

	if arg != "" {
		argSpan := ast.Span{Start: restStart, Length: len(arg)}
		if strings.HasPrefix(arg, "[") && strings.HasSuffix(arg, "]") {
			inner := arg[1 : len(arg)-1]
			if inner == "" {
				p.errorAt(diag.CodeMalformedAttribute, argSpan, "empty dynamic argument on v-%s", d.Name)
			} else {
				c := p.arena.NewCompoundExpression()
				c.Span = argSpan
				c.Fragments = []ast.ExprFragment{{
					Kind: ast.FragmentIdentifier,
					Text: inner,
					Span: ast.Span{Start: argSpan.Start + 1, Length: len(inner)},
				}}
				d.Arg = c
			}
		} else {
			d.Arg = p.arena.Simple(arg, true, argSpan)
		}
	}

	for mods != "" {
		mods = mods[1:]
		end := strings.IndexByte(mods, '.')
		if end == -1 {
			end = len(mods)
		}
		if end > 0 {
			d.Modifiers = append(d.Modifiers, mods[:end])
		}
		mods = mods[end:]
	}

	return d
}

// parseAttributeValue parses an optional ="value" following an attribute
// name, accepting double, single, and unquoted forms.
func (p *Parser) parseAttributeValue() (value string, hasValue bool, span ast.Span) {
	save := p.pos
	p.skipWhitespace()
	if !p.consume("=") {
		p.pos = save
		return "", false, ast.Span{Start: p.pos}
	}
	p.skipWhitespace()

	if p.peek(`"`) || p.peek("'") {
		quote := p.source[p.pos]
		p.advance()
		start := p.pos
		for p.pos < len(p.source) && p.source[p.pos] != quote {
			p.advance()
		}
		span = ast.SpanBetween(start, p.pos)
		value = p.source[start:p.pos]
		if p.pos >= len(p.source) {
			p.errorAt(diag.CodeMalformedAttribute, ast.SpanBetween(start-1, p.pos), "unterminated attribute value")
		} else {
			p.advance()
		}
		return value, true, span
	}

	start := p.pos
	for p.pos < len(p.source) && !isSpace(p.source[p.pos]) && !p.peek(">") && !p.peek("/>") {
		p.advance()
	}
	span = ast.SpanBetween(start, p.pos)
	return p.source[start:p.pos], p.pos > start, span
}

// parseInterpolation parses a {{ expression }} site
func (p *Parser) parseInterpolation() ast.Node {
	start := p.pos
	p.consume("{{")

	exprStart := p.pos
	for p.pos < len(p.source) && !p.peek("}}") && !p.peekTagStart() {
		p.advance()
	}
	raw := p.source[exprStart:p.pos]

	if !p.consume("}}") {
		p.errorAt(diag.CodeUnterminatedInterpolation, ast.SpanBetween(start, p.pos),
			"interpolation is missing closing }}")
	}

	node := p.arena.NewInterpolation()
	node.Span = ast.SpanBetween(start, p.pos)

	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		p.diags.Warnf(diag.CodeEmptyInterpolation, node.Span, "interpolation has no expression")
	}
	leading := len(raw) - len(strings.TrimLeft(raw, " \t\r\n"))
	node.Content = p.arena.Simple(trimmed, false, ast.Span{Start: exprStart + leading, Length: len(trimmed)})
	return node
}

// parseComment parses an HTML comment
func (p *Parser) parseComment() ast.Node {
	start := p.pos
	p.consume("<!--")

	contentStart := p.pos
	for p.pos < len(p.source) && !p.peek("-->") {
		p.advance()
	}
	content := p.source[contentStart:p.pos]

	if !p.consume("-->") {
		p.errorAt(diag.CodeUnterminatedComment, ast.SpanBetween(start, p.pos), "comment is missing closing -->")
	}

	node := p.arena.NewComment()
	node.Content = content
	node.Span = ast.SpanBetween(start, p.pos)
	return node
}

// parseText parses plain text up to the next construct. Whitespace-only
// runs between tags are condensed: dropped when they contain a newline,
// collapsed to a single space otherwise.
func (p *Parser) parseText() ast.Node {
	start := p.pos
	for p.pos < len(p.source) && !p.peek("{{") && !p.peekTagStart() {
		p.advance()
	}
	if p.pos == start {
		// A lone "<" that opens nothing; consume it as text.
		p.advance()
	}

	content := p.source[start:p.pos]
	if strings.TrimSpace(content) == "" {
		if strings.ContainsRune(content, '\n') {
			return nil
		}
		content = " "
	}

	node := p.arena.NewText()
	node.Content = content
	node.Span = ast.SpanBetween(start, p.pos)
	return node
}

// Cursor helpers

func (p *Parser) peek(s string) bool {
	if p.pos+len(s) > len(p.source) {
		return false
	}
	return p.source[p.pos:p.pos+len(s)] == s
}

// peekElementStart reports whether the cursor is at "<" followed by a
// tag-name letter.
func (p *Parser) peekElementStart() bool {
	if !p.peek("<") || p.pos+1 >= len(p.source) {
		return false
	}
	return unicode.IsLetter(rune(p.source[p.pos+1]))
}

// peekTagStart reports whether the cursor is at any tag-like construct,
// including closing tags and comments.
func (p *Parser) peekTagStart() bool {
	if p.peek("<!--") || p.peek("</") {
		return true
	}
	return p.peekElementStart()
}

func (p *Parser) consume(s string) bool {
	if p.peek(s) {
		p.pos += len(s)
		return true
	}
	return false
}

func (p *Parser) advance() {
	if p.pos < len(p.source) {
		p.pos++
	}
}

func (p *Parser) skipWhitespace() {
	for p.pos < len(p.source) && isSpace(p.source[p.pos]) {
		p.advance()
	}
}

func (p *Parser) parseTagName() string {
	start := p.pos
	for p.pos < len(p.source) {
		ch := rune(p.source[p.pos])
		if !unicode.IsLetter(ch) && !unicode.IsDigit(ch) && ch != '-' {
			break
		}
		p.advance()
	}
	return p.source[start:p.pos]
}

func (p *Parser) parseAttributeName() string {
	start := p.pos
	for p.pos < len(p.source) {
		ch := p.source[p.pos]
		if isSpace(ch) || ch == '=' || ch == '>' || ch == '/' || ch == '"' || ch == '\'' {
			break
		}
		p.advance()
	}
	return p.source[start:p.pos]
}

func (p *Parser) errorHere(code diag.Code, format string, args ...any) {
	p.errorAt(code, ast.Span{Start: p.pos}, format, args...)
}

func (p *Parser) errorAt(code diag.Code, span ast.Span, format string, args ...any) {
	p.diags.Errorf(code, span, format, args...)
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}

// isDirectiveName reports whether a raw attribute name uses directive
// syntax: a v- prefix or one of the :, @, # shorthands.
func isDirectiveName(name string) bool {
	return strings.HasPrefix(name, "v-") ||
		strings.HasPrefix(name, ":") ||
		strings.HasPrefix(name, "@") ||
		strings.HasPrefix(name, "#")
}

// directiveKey identifies a directive for duplicate detection. Directives
// with arguments are keyed per argument, so :class and :style coexist
// while two :class bindings collide.
func directiveKey(d *ast.Directive) string {
	if d.Arg == nil {
		return d.Name
	}
	return d.Name + "\x00" + d.Arg.Source()
}
