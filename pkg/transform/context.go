// Package transform rewrites a parsed template tree into its final,
// codegen-ready form: directive props are resolved, structural
// directives become If/For nodes, expressions are rewritten from binding
// metadata, static subtrees are hoisted, and every runtime helper the
// generated code will reference is registered along the way.
package transform

import (
	"github.com/recera/vex/pkg/ast"
	"github.com/recera/vex/pkg/diag"
	"github.com/recera/vex/pkg/runtime"
)

// Mode selects the codegen backend a compilation targets
type Mode uint8

const (
	// ModeDOM emits a block-optimized virtual-DOM render function
	ModeDOM Mode = iota
	// ModeVapor emits direct DOM-manipulation code without a virtual DOM
	ModeVapor
	// ModeSSR emits a server-side string-rendering function
	ModeSSR
)

// String returns the lowercase mode name used in CLI flags and filenames
func (m Mode) String() string {
	switch m {
	case ModeDOM:
		return "dom"
	case ModeVapor:
		return "vapor"
	case ModeSSR:
		return "ssr"
	default:
		return "unknown"
	}
}

// BindingKind describes how an identifier was declared in the component's
// script block, which decides the access path rewriting gives it.
type BindingKind uint8

const (
	// BindingUnknown is any identifier without metadata; it reads from _ctx
	BindingUnknown BindingKind = iota
	// BindingSetupRef is a ref declared in script setup; reads append .value
	BindingSetupRef
	// BindingSetupConst is a non-reactive setup constant; reads stay bare
	BindingSetupConst
	// BindingSetupLet is a setup let that may or may not hold a ref;
	// reads go through unref
	BindingSetupLet
	// BindingProp is a declared prop; reads go through __props
	BindingProp
	// BindingOptions is an options-API member; reads go through _ctx
	BindingOptions
)

// Bindings maps identifier names to their script-block binding kinds.
// Absence of an entry means the identifier is treated as BindingUnknown.
type Bindings map[string]BindingKind

// Config carries the per-compilation settings the transform phase needs
type Config struct {
	Mode            Mode
	IsComponentRoot bool
	Bindings        Bindings
}

// Context is the mutable per-compilation transform state. It is created
// once per compile call, written throughout the transform phase, read by
// codegen, and discarded afterwards.
type Context struct {
	Arena   *ast.Arena
	Source  string
	Config  Config
	Helpers *runtime.Registry
	Diags   *diag.List

	// InVOnce is sticky for the v-once subtree being transformed and
	// suppresses patch-flag bookkeeping below it; callers must restore
	// the prior value on exit so the flag never leaks into siblings.
	InVOnce bool

	// Hoists holds subtrees lifted out of the render path, in hoist
	// index order.
	Hoists []ast.Node

	scopes     []map[string]bool
	cacheCount int
}

// NewContext creates transform state for one compilation
func NewContext(arena *ast.Arena, source string, cfg Config, diags *diag.List) *Context {
	return &Context{
		Arena:   arena,
		Source:  source,
		Config:  cfg,
		Helpers: runtime.NewRegistry(),
		Diags:   diags,
	}
}

// SSR reports whether the compilation targets server string rendering
func (c *Context) SSR() bool { return c.Config.Mode == ModeSSR }

// Vapor reports whether the compilation targets direct DOM updates
func (c *Context) Vapor() bool { return c.Config.Mode == ModeVapor }

// DOM reports whether the compilation targets the virtual-DOM runtime
func (c *Context) DOM() bool { return c.Config.Mode == ModeDOM }

// Helper registers one use of h and returns it for inline call sites
func (c *Context) Helper(h runtime.Helper) runtime.Helper {
	c.Helpers.Use(h)
	return h
}

// Unhelper releases one use of h, for transforms that undo an earlier
// registration. Releasing below zero saturates.
func (c *Context) Unhelper(h runtime.Helper) {
	c.Helpers.Unuse(h)
}

// BindingFor looks up the binding kind recorded for name
func (c *Context) BindingFor(name string) BindingKind {
	if c.Config.Bindings == nil {
		return BindingUnknown
	}
	return c.Config.Bindings[name]
}

// PushScope enters a lexical scope declaring the given names, used for
// v-for loop variables so expression rewriting leaves them bare.
func (c *Context) PushScope(names ...string) {
	scope := make(map[string]bool, len(names))
	for _, n := range names {
		if n != "" {
			scope[n] = true
		}
	}
	c.scopes = append(c.scopes, scope)
}

// PopScope leaves the innermost scope
func (c *Context) PopScope() {
	if len(c.scopes) > 0 {
		c.scopes = c.scopes[:len(c.scopes)-1]
	}
}

// InScope reports whether name is declared by an enclosing scope
func (c *Context) InScope(name string) bool {
	for i := len(c.scopes) - 1; i >= 0; i-- {
		if c.scopes[i][name] {
			return true
		}
	}
	return false
}

// NextCacheSlot allocates the next render-function cache slot. Slots are
// unique per compilation; v-once and v-memo sites each take one.
func (c *Context) NextCacheSlot() int {
	slot := c.cacheCount
	c.cacheCount++
	return slot
}

// CacheCount returns the number of cache slots allocated so far
func (c *Context) CacheCount() int {
	return c.cacheCount
}

// AddHoist records a subtree computed once at module level and returns
// its 0-based hoist index.
func (c *Context) AddHoist(n ast.Node) int {
	c.Hoists = append(c.Hoists, n)
	return len(c.Hoists) - 1
}
