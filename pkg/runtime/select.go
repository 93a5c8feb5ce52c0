package runtime

// Helper variant selection. Plain elements in client mode get the
// element-specialized creation helpers; components and all SSR nodes go
// through the generic ones, because component instantiation and server
// string rendering share a single runtime entry point.
//
//	ssr    is_component  vnode helper        block helper
//	false  false         CreateElementVNode  CreateElementBlock
//	false  true          CreateVNode         CreateBlock
//	true   false         CreateVNode         CreateBlock
//	true   true          CreateVNode         CreateBlock
//
// Every codegen backend must reproduce this table exactly.

// VNodeHelper selects the vnode-creation helper for a node
func VNodeHelper(ssr, isComponent bool) Helper {
	if !ssr && !isComponent {
		return CreateElementVNode
	}
	return CreateVNode
}

// BlockHelper selects the block-creation helper for a node
func BlockHelper(ssr, isComponent bool) Helper {
	if !ssr && !isComponent {
		return CreateElementBlock
	}
	return CreateBlock
}
