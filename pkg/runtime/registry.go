package runtime

// Registry is the reference-counted multiset of helpers one compilation
// requires. Directive transforms register usage while rewriting nodes;
// codegen reads the final set to assemble the module's import preamble.
//
// A helper is "used", and must be imported, iff its count is above zero.
// Counts never go negative: releasing a helper at zero is a no-op, and
// entries are pruned as they reach zero. Codegen correctness depends on
// this saturation, since an underflow could drop an import for a helper
// still referenced elsewhere in the output.
type Registry struct {
	counts map[Helper]int
}

// NewRegistry creates an empty helper registry
func NewRegistry() *Registry {
	return &Registry{counts: make(map[Helper]int)}
}

// Use increments the usage count for h
func (r *Registry) Use(h Helper) {
	r.counts[h]++
}

// Unuse decrements the usage count for h, removing the entry when it
// reaches zero. Releasing an unused helper saturates at zero.
func (r *Registry) Unuse(h Helper) {
	count, ok := r.counts[h]
	if !ok {
		return
	}
	if count <= 1 {
		delete(r.counts, h)
		return
	}
	r.counts[h] = count - 1
}

// Contains reports whether h is currently used
func (r *Registry) Contains(h Helper) bool {
	return r.counts[h] > 0
}

// Count returns the current usage count for h, zero when unused
func (r *Registry) Count(h Helper) int {
	return r.counts[h]
}

// Len returns the number of distinct helpers in use
func (r *Registry) Len() int {
	return len(r.counts)
}

// Helpers returns the used helpers in declaration order, so import lists
// are deterministic across compilations of the same template.
func (r *Registry) Helpers() []Helper {
	out := make([]Helper, 0, len(r.counts))
	for h := Helper(0); h < HelperCount; h++ {
		if r.counts[h] > 0 {
			out = append(out, h)
		}
	}
	return out
}

// Reset drops all usage counts
func (r *Registry) Reset() {
	clear(r.counts)
}
