// Package sfc splits a single-file component into its top-level blocks:
// one <template>, one <script>, and any number of <style> blocks. The
// splitter does not parse block contents; the template goes to the
// compiler as-is and script/style travel through untouched.
package sfc

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// Block is one top-level section of a component file. Offset is the
// position of Content in the original source, so diagnostics produced
// against block content can be remapped to file coordinates.
type Block struct {
	Content string
	Offset  int
	Attrs   map[string]string
}

// Attr returns the value of the named block attribute. Bare attributes
// like setup and scoped yield an empty string with ok=true.
func (b *Block) Attr(name string) (string, bool) {
	v, ok := b.Attrs[name]
	return v, ok
}

// File is a split component.
type File struct {
	Name     string
	Template *Block
	Script   *Block
	Styles   []*Block
}

// Setup reports whether the script block carries the setup attribute.
func (f *File) Setup() bool {
	if f.Script == nil {
		return false
	}
	_, ok := f.Script.Attr("setup")
	return ok
}

// Scoped reports whether any style block carries the scoped attribute.
func (f *File) Scoped() bool {
	for _, s := range f.Styles {
		if _, ok := s.Attr("scoped"); ok {
			return true
		}
	}
	return false
}

// ScopeID returns the scoped-style id for the file, or the empty string
// when no style block is scoped. The full element attribute emitted by
// codegen is data-v-<id>.
func (f *File) ScopeID() string {
	if !f.Scoped() {
		return ""
	}
	var css strings.Builder
	for _, s := range f.Styles {
		if _, ok := s.Attr("scoped"); ok {
			css.WriteString(s.Content)
		}
	}
	return HashScopeID(f.Name, css.String())
}

// HashScopeID derives a stable 8-hex-digit scope id from the component
// filename and its scoped style content. Renaming the file or editing
// scoped CSS changes the id; editing the template does not.
func HashScopeID(filename, css string) string {
	sum := sha256.Sum256([]byte(filename + css))
	return hex.EncodeToString(sum[:])[:8]
}

// Parse splits source into blocks. A file without any top-level block
// tags is treated as a bare template, so plain template fragments
// compile without SFC boilerplate. Unterminated and duplicate blocks
// are errors.
func Parse(filename, source string) (*File, error) {
	f := &File{Name: filename}
	sawBlock := false

	i := 0
	for i < len(source) {
		lt := strings.IndexByte(source[i:], '<')
		if lt < 0 {
			break
		}
		i += lt

		if strings.HasPrefix(source[i:], "<!--") {
			end := strings.Index(source[i:], "-->")
			if end < 0 {
				return nil, fmt.Errorf("%s: unterminated comment", filename)
			}
			i += end + len("-->")
			continue
		}

		tag, rest := blockTag(source[i:])
		if tag == "" {
			i++
			continue
		}
		sawBlock = true

		attrs, contentStart, selfClosed, err := openTag(source, i+rest)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filename, err)
		}
		var block *Block
		if selfClosed {
			block = &Block{Content: "", Offset: contentStart, Attrs: attrs}
			i = contentStart
		} else {
			contentEnd, next, err := blockEnd(source, contentStart, tag)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", filename, err)
			}
			block = &Block{
				Content: source[contentStart:contentEnd],
				Offset:  contentStart,
				Attrs:   attrs,
			}
			i = next
		}

		switch tag {
		case "template":
			if f.Template != nil {
				return nil, fmt.Errorf("%s: duplicate <template> block", filename)
			}
			f.Template = block
		case "script":
			if f.Script != nil {
				return nil, fmt.Errorf("%s: duplicate <script> block", filename)
			}
			f.Script = block
		case "style":
			f.Styles = append(f.Styles, block)
		}
	}

	if !sawBlock && strings.TrimSpace(source) != "" {
		f.Template = &Block{Content: source, Offset: 0, Attrs: map[string]string{}}
	}
	return f, nil
}

// blockTag matches a top-level block opening at s and returns the tag
// name plus the length consumed up to the end of the name. Anything
// else returns "".
func blockTag(s string) (string, int) {
	for _, tag := range [...]string{"template", "script", "style"} {
		rest := len("<") + len(tag)
		if len(s) < rest || s[1:rest] != tag {
			continue
		}
		if len(s) == rest {
			return "", 0
		}
		switch s[rest] {
		case ' ', '\t', '\n', '\r', '>', '/':
			return tag, rest
		}
	}
	return "", 0
}

// openTag scans the remainder of an opening tag starting at the byte
// after the tag name. It returns the parsed attributes, the offset just
// past '>', and whether the tag self-closed.
func openTag(source string, i int) (map[string]string, int, bool, error) {
	attrs := map[string]string{}
	for i < len(source) {
		switch c := source[i]; {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '>':
			return attrs, i + 1, false, nil
		case c == '/' && i+1 < len(source) && source[i+1] == '>':
			return attrs, i + 2, true, nil
		default:
			name, value, next := attribute(source, i)
			if next == i {
				i++
				continue
			}
			i = next
			if name != "" {
				attrs[name] = value
			}
		}
	}
	return nil, 0, false, fmt.Errorf("unterminated block tag")
}

// attribute scans one name or name="value" pair starting at i.
func attribute(source string, i int) (string, string, int) {
	start := i
	for i < len(source) {
		c := source[i]
		if c == '=' || c == '>' || c == '/' || c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			break
		}
		i++
	}
	name := source[start:i]
	if i >= len(source) || source[i] != '=' {
		return name, "", i
	}
	i++
	if i < len(source) && (source[i] == '"' || source[i] == '\'') {
		quote := source[i]
		i++
		vstart := i
		for i < len(source) && source[i] != quote {
			i++
		}
		value := source[vstart:i]
		if i < len(source) {
			i++
		}
		return name, value, i
	}
	vstart := i
	for i < len(source) {
		c := source[i]
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '>' {
			break
		}
		i++
	}
	return name, source[vstart:i], i
}

// blockEnd finds the close tag for a block opened at contentStart.
// Template blocks nest, so their scan balances inner template tags;
// script and style are raw text ending at the first close tag.
func blockEnd(source string, contentStart int, tag string) (contentEnd, next int, err error) {
	closing := "</" + tag + ">"

	if tag != "template" {
		end := strings.Index(source[contentStart:], closing)
		if end < 0 {
			return 0, 0, fmt.Errorf("unterminated <%s> block", tag)
		}
		return contentStart + end, contentStart + end + len(closing), nil
	}

	depth := 1
	i := contentStart
	for i < len(source) {
		lt := strings.IndexByte(source[i:], '<')
		if lt < 0 {
			break
		}
		i += lt
		if strings.HasPrefix(source[i:], closing) {
			depth--
			if depth == 0 {
				return i, i + len(closing), nil
			}
			i += len(closing)
			continue
		}
		if t, _ := blockTag(source[i:]); t == tag {
			depth++
		}
		i++
	}
	return 0, 0, fmt.Errorf("unterminated <%s> block", tag)
}
