// Package compiler ties the template pipeline together: source text is
// parsed into an arena-backed tree, the tree is transformed for the
// requested output mode, and the codegen backend emits the render module.
// Compile problems come back as diagnostics in the result; the error
// return is reserved for caller misuse.
package compiler

import (
	"fmt"

	"github.com/recera/vex/pkg/ast"
	"github.com/recera/vex/pkg/codegen"
	"github.com/recera/vex/pkg/diag"
	"github.com/recera/vex/pkg/parse"
	"github.com/recera/vex/pkg/runtime"
	"github.com/recera/vex/pkg/transform"
)

// Options configure one compilation.
type Options struct {
	// Mode selects the output backend: DOM, Vapor or SSR.
	Mode transform.Mode
	// IsComponentRoot marks the template as a component's own root, which
	// changes vnode helper selection and attrs forwarding in SSR output.
	IsComponentRoot bool
	// ScopeID, when non-empty, stamps every element with a data-v-<id>
	// attribute so scoped style selectors can match.
	ScopeID string
	// Filename appears in diagnostics only.
	Filename string
	// RuntimeModule overrides the helper import path in the preamble.
	RuntimeModule string
	// Bindings carries script-block binding metadata for expression
	// rewriting. Missing entries are treated as unknown.
	Bindings transform.Bindings
}

// Result is the outcome of one compilation. Code and Preamble together
// form a complete JS module; Helpers lists the runtime imports the code
// references, in declaration order.
//
// Results from a Compiler share its arena: Ast is valid only until the
// next Compile call on that Compiler.
type Result struct {
	Code        string
	Preamble    string
	Helpers     []runtime.Helper
	Diagnostics diag.List
	Ast         *ast.Root
}

// Compile runs the full pipeline on source with a fresh arena. Error-
// severity parse diagnostics abort the transform and codegen phases; the
// partial result still carries the parse tree and all diagnostics.
func Compile(source string, opts Options) (*Result, error) {
	return compile(source, opts, ast.NewArena())
}

// Compiler reuses arena memory across compilations. It is not safe for
// concurrent use; compile each template on its own Compiler, or use the
// package-level Compile.
type Compiler struct {
	arena *ast.Arena
}

// New creates a Compiler with an empty arena.
func New() *Compiler {
	return &Compiler{arena: ast.NewArena()}
}

// Compile resets the arena and runs the full pipeline on source. Any
// Result from an earlier call on this Compiler must no longer be used.
func (c *Compiler) Compile(source string, opts Options) (*Result, error) {
	c.arena.Reset()
	return compile(source, opts, c.arena)
}

func compile(source string, opts Options, arena *ast.Arena) (res *Result, err error) {
	if opts.Mode > transform.ModeSSR {
		return nil, fmt.Errorf("compiler: unknown mode %d", opts.Mode)
	}

	res = &Result{}
	defer func() {
		if r := recover(); r != nil {
			b, ok := r.(*diag.Bug)
			if !ok {
				panic(r)
			}
			res.Diagnostics.Errorf(b.Code, ast.Span{}, "internal compiler error: %s", b.Message)
		}
		res.Diagnostics.Clamp(len(source))
		res.Diagnostics.Sort()
	}()

	root, parseDiags := parse.Parse(opts.Filename, source, arena)
	res.Ast = root
	res.Diagnostics.Merge(parseDiags)
	if res.Diagnostics.HasErrors() {
		return res, nil
	}

	ctx := transform.NewContext(arena, source, transform.Config{
		Mode:            opts.Mode,
		IsComponentRoot: opts.IsComponentRoot,
		Bindings:        opts.Bindings,
	}, &res.Diagnostics)
	transform.Transform(root, ctx)

	out := codegen.Generate(root, ctx, codegen.Options{
		ScopeID:       opts.ScopeID,
		RuntimeModule: opts.RuntimeModule,
	})
	res.Code = out.Code
	res.Preamble = out.Preamble
	res.Helpers = ctx.Helpers.Helpers()
	return res, nil
}
