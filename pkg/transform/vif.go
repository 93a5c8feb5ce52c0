package transform

import (
	"github.com/recera/vex/pkg/ast"
	"github.com/recera/vex/pkg/diag"
	"github.com/recera/vex/pkg/runtime"
)

// collapseIfChains scans a sibling list and folds every
// v-if / v-else-if / v-else run into a single If node. Comments between
// branches are absorbed; any other node breaks the chain. v-once and
// v-memo on the lead element lift onto the If node so they wrap the
// whole conditional. Orphaned else branches are reported and left in
// place as plain elements.
func collapseIfChains(ctx *Context, nodes []ast.Node) []ast.Node {
	out := make([]ast.Node, 0, len(nodes))
	for i := 0; i < len(nodes); i++ {
		lead, ok := nodes[i].(*ast.Element)
		if !ok {
			out = append(out, nodes[i])
			continue
		}

		ifDir := RemoveDirective(lead, "if")
		if ifDir == nil {
			if d := RemoveDirective(lead, "else-if"); d != nil {
				ctx.Diags.Errorf(diag.CodeUnsupportedDirectiveCombination, d.Span,
					"v-else-if has no preceding v-if")
				RemoveDirective(lead, "else")
			} else if d := RemoveDirective(lead, "else"); d != nil {
				ctx.Diags.Errorf(diag.CodeUnsupportedDirectiveCombination, d.Span,
					"v-else has no preceding v-if")
			}
			out = append(out, lead)
			continue
		}

		if d := ast.FindDirective(lead, "else"); d != nil {
			ctx.Diags.Errorf(diag.CodeUnsupportedDirectiveCombination, d.Span,
				"v-if and v-else cannot be combined on one element")
			RemoveDirective(lead, "else")
		}
		if d := ast.FindDirective(lead, "for"); d != nil {
			ctx.Diags.Warnf(diag.CodeUnsupportedDirectiveCombination, d.Span,
				"v-if takes priority over v-for on the same element")
		}

		ifNode := ctx.Arena.NewIf()
		ifNode.Span = lead.Loc()
		liftOnceMemo(ctx, lead, ifNode)
		ifNode.Branches = append(ifNode.Branches, newBranch(ctx, branchCondition(ctx, ifDir), lead))

		// absorb following else-if / else siblings, skipping comments
		j := i + 1
		for j < len(nodes) {
			pending := j
			for pending < len(nodes) {
				if _, isComment := nodes[pending].(*ast.Comment); !isComment {
					break
				}
				pending++
			}
			el, isEl := elementAt(nodes, pending)
			if !isEl {
				break
			}
			if d := RemoveDirective(el, "else-if"); d != nil {
				ifNode.Branches = append(ifNode.Branches, newBranch(ctx, branchCondition(ctx, d), el))
				j = pending + 1
				continue
			}
			if d := RemoveDirective(el, "else"); d != nil {
				ifNode.Branches = append(ifNode.Branches, newBranch(ctx, nil, el))
				j = pending + 1
			}
			break
		}
		i = j - 1
		out = append(out, ifNode)
	}
	return out
}

func elementAt(nodes []ast.Node, i int) (*ast.Element, bool) {
	if i >= len(nodes) {
		return nil, false
	}
	el, ok := nodes[i].(*ast.Element)
	return el, ok
}

func newBranch(ctx *Context, cond ast.Expression, el *ast.Element) *ast.IfBranch {
	br := ctx.Arena.NewIfBranch()
	br.Span = el.Loc()
	br.Condition = cond
	br.Children = []ast.Node{el}
	return br
}

// branchCondition yields the raw condition for a v-if or v-else-if
// directive, substituting a never-true literal when the expression is
// missing so the chain still compiles.
func branchCondition(ctx *Context, d *ast.Directive) ast.Expression {
	if d.Exp != nil {
		return d.Exp
	}
	ctx.Diags.Errorf(diag.CodeInvalidDirectiveArgument, d.Span,
		"v-%s requires a condition expression", d.Name)
	return ctx.Arena.Simple("false", false, d.Span)
}

// liftOnceMemo moves v-once and v-memo from the lead element onto the
// If node so caching wraps the entire conditional expression.
func liftOnceMemo(ctx *Context, lead *ast.Element, ifNode *ast.If) {
	if RemoveDirective(lead, "once") != nil {
		ifNode.Once = true
	}
	if d := RemoveDirective(lead, "memo"); d != nil {
		if ifNode.Once {
			ctx.Diags.Warnf(diag.CodeUnsupportedDirectiveCombination, d.Span,
				"v-memo has no effect together with v-once")
		} else if d.Exp == nil {
			ctx.Diags.Errorf(diag.CodeInvalidDirectiveArgument, d.Span,
				"v-memo requires a dependency array expression")
		} else {
			ifNode.MemoDeps = d.Exp
		}
	}
}

// transformIf rewrites branch conditions, transforms branch subtrees,
// and registers the helpers the conditional needs in the current mode.
func transformIf(ctx *Context, n *ast.If) {
	prevOnce := ctx.InVOnce
	if n.Once {
		ctx.InVOnce = true
		n.CacheIndex = ctx.NextCacheSlot()
		if ctx.DOM() {
			ctx.Helper(runtime.SetBlockTracking)
		}
	}
	if n.MemoDeps != nil {
		n.MemoDeps = rewriteExpression(ctx, n.MemoDeps)
		n.CacheIndex = ctx.NextCacheSlot()
		if ctx.DOM() {
			ctx.Helper(runtime.WithMemo)
		} else if ctx.Vapor() {
			ctx.Diags.Errorf(diag.CodeUnsupportedNodeInBackend, n.Span,
				"v-memo is not supported by the vapor backend")
		}
	}

	for _, br := range n.Branches {
		br.Condition = rewriteExpression(ctx, br.Condition)
		br.Children = transformChildren(ctx, br.Children)
		if ctx.DOM() && len(br.Children) == 1 {
			if el, ok := br.Children[0].(*ast.Element); ok {
				promoteToBlock(ctx, el)
			}
		}
	}
	ctx.InVOnce = prevOnce

	if ctx.DOM() && !n.HasElse() {
		// the missing alternative renders a placeholder comment
		ctx.Helper(runtime.CreateCommentVNode)
	}
}
