package scope

import "github.com/whackengine/verifier/internal/entity"

// Chain is the stack of scopes currently open while verifying a
// directive tree. Entering pushes, exiting pops; callers are expected
// to pair every Push with an immediate `defer chain.Pop()`, which
// guarantees the pop runs on every exit path -- including a
// phase.Defer return -- per the scoped-acquisition guarantee in spec
// section 5.
type Chain struct {
	arena *entity.Arena
	stack []entity.Handle
}

// NewChain creates a scope chain rooted at top (typically the global/
// top-level scope).
func NewChain(arena *entity.Arena, top entity.Handle) *Chain {
	return &Chain{arena: arena, stack: []entity.Handle{top}}
}

// Current returns the innermost open scope.
func (c *Chain) Current() entity.Handle {
	return c.stack[len(c.stack)-1]
}

// Push opens a new scope of variant as a child of Current and returns
// its handle.
func (c *Chain) Push(variant Variant) entity.Handle {
	h := Enter(c.arena, c.Current(), variant)
	c.stack = append(c.stack, h)
	return h
}

// PushExisting pushes an already-allocated scope handle (used when a
// scope was created ahead of time, e.g. a class's fixture scope
// allocated at Alpha and re-entered at Beta/Omega).
func (c *Chain) PushExisting(h entity.Handle) {
	c.stack = append(c.stack, h)
}

// Pop closes the innermost scope. Popping the root scope is a no-op,
// so a stray extra Pop cannot corrupt the chain.
func (c *Chain) Pop() {
	if len(c.stack) > 1 {
		c.stack = c.stack[:len(c.stack)-1]
	}
}

// Depth reports how many scopes are currently open, including the root.
func (c *Chain) Depth() int {
	return len(c.stack)
}
