package transform

import (
	"github.com/recera/vex/pkg/ast"
	"github.com/recera/vex/pkg/runtime"
)

// transformOnce consumes v-once on el. The subtree renders once, is
// stored in a render-cache slot, and is reused verbatim on later
// renders, so patch-flag bookkeeping below it is suppressed. Server
// rendering produces each response fresh and ignores the cache.
func transformOnce(ctx *Context, el *ast.Element) {
	if RemoveDirective(el, "once") == nil {
		return
	}
	el.Once = true
	el.CacheIndex = ctx.NextCacheSlot()
	ctx.InVOnce = true
	if ctx.DOM() {
		ctx.Helper(runtime.SetBlockTracking)
	}
}
