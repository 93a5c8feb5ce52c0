package ast

// voidTags are the HTML elements that never have children or closing
// tags. The parser treats them as implicitly self-closing and the SSR
// backend emits them without a closing tag.
var voidTags = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"param":  true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// IsVoidTag reports whether tag is a void HTML element
func IsVoidTag(tag string) bool {
	return voidTags[tag]
}
