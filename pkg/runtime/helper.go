// Package runtime models the helper functions of the @vex/runtime
// JavaScript module that generated render code may import. The compiler
// tracks which helpers a template actually uses so the emitted module
// imports exactly those symbols.
package runtime

import "fmt"

// Helper identifies one runtime helper function
type Helper uint8

const (
	// OpenBlock begins dynamic-children tracking for a block
	OpenBlock Helper = iota
	// CreateBlock creates a block vnode for a component or SSR target
	CreateBlock
	// CreateElementBlock creates a block vnode for a plain client element
	CreateElementBlock
	// CreateVNode creates a vnode for a component or SSR target
	CreateVNode
	// CreateElementVNode creates a vnode for a plain client element
	CreateElementVNode
	// CreateCommentVNode creates a comment placeholder vnode
	CreateCommentVNode
	// CreateTextVNode creates a text vnode
	CreateTextVNode
	// Fragment is the synthetic tag for multi-root and v-for groups
	Fragment
	// ToDisplayString stringifies an interpolation value
	ToDisplayString
	// NormalizeClass flattens array/object class bindings
	NormalizeClass
	// NormalizeStyle flattens array/object style bindings
	NormalizeStyle
	// MergeProps merges a v-bind object spread with other props
	MergeProps
	// RenderList drives v-for iteration
	RenderList
	// WithMemo guards a subtree behind a memo dependency check
	WithMemo
	// IsMemoSame compares memo dependency arrays
	IsMemoSame
	// SetBlockTracking toggles reactivity tracking around v-once caching
	SetBlockTracking
	// WithDirectives attaches runtime directives to a vnode
	WithDirectives
	// WithModifiers wraps an event handler with modifier guards
	WithModifiers
	// ToHandlerKey turns a dynamic event name into its listener prop key
	ToHandlerKey
	// VShow is the runtime directive behind v-show
	VShow
	// Unref unwraps a maybe-ref binding
	Unref
	// ResolveComponent resolves a component by tag name at render time
	ResolveComponent

	// SSRRenderAttrs renders a merged props object as an attribute string
	SSRRenderAttrs
	// SSRRenderAttr renders one dynamic attribute with a static name
	SSRRenderAttr
	// SSRRenderClass renders a class binding as an attribute value
	SSRRenderClass
	// SSRRenderStyle renders a style binding as an attribute value
	SSRRenderStyle
	// SSRInterpolate stringifies and escapes an interpolation value
	SSRInterpolate
	// SSRRenderList drives v-for iteration on the server
	SSRRenderList
	// SSRRenderComponent renders a child component to the output stream
	SSRRenderComponent
	// SSRGetDirectiveProps extracts server-rendered props from a directive
	SSRGetDirectiveProps

	// VaporTemplate compiles a static HTML chunk into a cloneable template
	VaporTemplate
	// VaporChild walks to the nth child of a template clone
	VaporChild
	// VaporCreateIf mounts one of several branches behind a condition
	VaporCreateIf
	// VaporCreateFor mounts a repeated block per source item
	VaporCreateFor
	// VaporSetText writes a node's text content
	VaporSetText
	// VaporSetHTML writes a node's innerHTML
	VaporSetHTML
	// VaporSetClass writes a node's class attribute
	VaporSetClass
	// VaporSetStyle writes a node's style attribute
	VaporSetStyle
	// VaporSetAttr writes an arbitrary attribute
	VaporSetAttr
	// VaporOn attaches an event listener
	VaporOn
	// VaporRenderEffect re-runs a DOM write when its dependencies change
	VaporRenderEffect
	// VaporSetNodes replaces an element's children with rendered nodes
	VaporSetNodes
	// VaporCreateText creates a reactive text node from a getter
	VaporCreateText

	// HelperCount bounds the enum; every valid Helper is below it
	HelperCount
)

// helperNames maps each helper to its exported name in @vex/runtime.
var helperNames = [HelperCount]string{
	OpenBlock:            "openBlock",
	CreateBlock:          "createBlock",
	CreateElementBlock:   "createElementBlock",
	CreateVNode:          "createVNode",
	CreateElementVNode:   "createElementVNode",
	CreateCommentVNode:   "createCommentVNode",
	CreateTextVNode:      "createTextVNode",
	Fragment:             "Fragment",
	ToDisplayString:      "toDisplayString",
	NormalizeClass:       "normalizeClass",
	NormalizeStyle:       "normalizeStyle",
	MergeProps:           "mergeProps",
	RenderList:           "renderList",
	WithMemo:             "withMemo",
	IsMemoSame:           "isMemoSame",
	SetBlockTracking:     "setBlockTracking",
	WithDirectives:       "withDirectives",
	WithModifiers:        "withModifiers",
	ToHandlerKey:         "toHandlerKey",
	VShow:                "vShow",
	Unref:                "unref",
	ResolveComponent:     "resolveComponent",
	SSRRenderAttrs:       "ssrRenderAttrs",
	SSRRenderAttr:        "ssrRenderAttr",
	SSRRenderClass:       "ssrRenderClass",
	SSRRenderStyle:       "ssrRenderStyle",
	SSRInterpolate:       "ssrInterpolate",
	SSRRenderList:        "ssrRenderList",
	SSRRenderComponent:   "ssrRenderComponent",
	SSRGetDirectiveProps: "ssrGetDirectiveProps",
	VaporTemplate:        "template",
	VaporChild:           "child",
	VaporCreateIf:        "createIf",
	VaporCreateFor:       "createFor",
	VaporSetText:         "setText",
	VaporSetHTML:         "setHtml",
	VaporSetClass:        "setClass",
	VaporSetStyle:        "setStyle",
	VaporSetAttr:         "setAttr",
	VaporOn:              "on",
	VaporRenderEffect:    "renderEffect",
	VaporSetNodes:        "setNodes",
	VaporCreateText:      "createText",
}

// Valid reports whether h is a defined helper
func (h Helper) Valid() bool {
	return h < HelperCount
}

// Name returns the helper's exported name in the runtime module
func (h Helper) Name() string {
	if !h.Valid() {
		return fmt.Sprintf("helper(%d)", uint8(h))
	}
	return helperNames[h]
}

// Alias returns the local identifier generated code uses for the helper,
// the runtime name with a leading underscore ("_createElementVNode").
func (h Helper) Alias() string {
	return "_" + h.Name()
}

// String returns the runtime name, making helpers printable in
// diagnostics and test failures
func (h Helper) String() string {
	return h.Name()
}
