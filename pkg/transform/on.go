package transform

import (
	"github.com/recera/vex/pkg/ast"
	"github.com/recera/vex/pkg/diag"
	"github.com/recera/vex/pkg/runtime"
)

// phaseModifiers fold into the listener key as a suffix instead of
// wrapping the handler, in this order.
var phaseModifiers = [...]string{"capture", "once", "passive"}

// transformOn resolves one v-on listener. The rewritten directive stays
// in the prop list for codegen; listeners never render on the server.
// Returns false when the directive is unusable and should be dropped.
func transformOn(ctx *Context, el *ast.Element, d *ast.Directive) bool {
	if d.Arg == nil {
		ctx.Diags.Errorf(diag.CodeInvalidDirectiveArgument, d.Span,
			"v-on requires an event argument")
		return false
	}
	if d.Exp != nil {
		d.Exp = rewriteExpression(ctx, d.Exp)
	}
	if ctx.SSR() {
		return true
	}

	if len(RuntimeModifiers(d)) > 0 {
		ctx.Helper(runtime.WithModifiers)
	}

	name, dynamic := BindName(d)
	if dynamic {
		d.Arg = rewriteExpression(ctx, d.Arg)
		if ctx.DOM() {
			ctx.Helper(runtime.ToHandlerKey)
			if !ctx.InVOnce {
				el.Flags |= ast.FlagFullProps
			}
		}
		return true
	}
	if ctx.DOM() && !ctx.InVOnce {
		el.Flags |= ast.FlagProps
		el.DynamicProps = append(el.DynamicProps, HandlerKey(name, d))
	}
	return true
}

// HandlerKey converts a static event name into its listener prop key,
// with phase modifiers appended as suffixes: @click.capture becomes
// onClickCapture.
func HandlerKey(event string, d *ast.Directive) string {
	key := "on" + capitalize(camelize(event))
	for _, m := range phaseModifiers {
		if d.HasModifier(m) {
			key += capitalize(m)
		}
	}
	return key
}

// RuntimeModifiers returns the modifiers that wrap the handler through
// WithModifiers at runtime, excluding phase modifiers.
func RuntimeModifiers(d *ast.Directive) []string {
	var mods []string
	for _, m := range d.Modifiers {
		phase := false
		for _, p := range phaseModifiers {
			if m == p {
				phase = true
				break
			}
		}
		if !phase {
			mods = append(mods, m)
		}
	}
	return mods
}
