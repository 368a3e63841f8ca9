package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whackengine/verifier/internal/entity"
)

func TestLookupQualified_FoundAndAmbiguous(t *testing.T) {
	arena := entity.NewArena()
	top := New(arena, Plain, entity.Nil)
	s := Get(arena, top)

	nsA := arena.Alloc(&entity.Namespace{KindTag: entity.NSUser, URI: "a"})
	nsB := arena.Alloc(&entity.Namespace{KindTag: entity.NSUser, URI: "b"})

	fooInA := arena.Alloc(&entity.ClassType{QName: entity.QName{Ns: nsA, Local: "Foo"}})
	s.Properties[entity.QName{Ns: nsA, Local: "Foo"}] = fooInA

	open := entity.NewOpenNamespaceSet()
	open.Add(nsA)

	r := LookupQualified(arena, s, "Foo", open)
	require.Equal(t, Found, r.Status)
	assert.Equal(t, fooInA, r.Entity)

	// Add a second distinct hit under nsB and open both namespaces.
	fooInB := arena.Alloc(&entity.ClassType{QName: entity.QName{Ns: nsB, Local: "Foo"}})
	s.Properties[entity.QName{Ns: nsB, Local: "Foo"}] = fooInB
	open.Add(nsB)

	r2 := LookupQualified(arena, s, "Foo", open)
	assert.Equal(t, Ambiguous, r2.Status)
	assert.Equal(t, "Foo", r2.Name)
}

func TestLookupQualified_NoneWhenNamespaceNotOpen(t *testing.T) {
	arena := entity.NewArena()
	top := New(arena, Plain, entity.Nil)
	s := Get(arena, top)

	ns := arena.Alloc(&entity.Namespace{KindTag: entity.NSUser})
	s.Properties[entity.QName{Ns: ns, Local: "Foo"}] = arena.Alloc(&entity.ClassType{})

	r := LookupQualified(arena, s, "Foo", entity.NewOpenNamespaceSet())
	assert.Equal(t, None, r.Status)
}

func TestChain_PushPopMaintainsParent(t *testing.T) {
	arena := entity.NewArena()
	top := New(arena, Plain, entity.Nil)
	chain := NewChain(arena, top)

	child := chain.Push(Class)
	assert.Equal(t, 2, chain.Depth())
	assert.Equal(t, top, Get(arena, child).Parent)

	chain.Pop()
	assert.Equal(t, 1, chain.Depth())
	assert.Equal(t, top, chain.Current())

	// Extra pop is a no-op.
	chain.Pop()
	assert.Equal(t, 1, chain.Depth())
}

func TestSearchActivationAndHoistScope(t *testing.T) {
	arena := entity.NewArena()
	top := New(arena, Plain, entity.Nil)
	pkg := New(arena, Package, top)
	act := New(arena, Activation, pkg)
	block := New(arena, Plain, act)

	assert.Equal(t, act, SearchActivation(arena, block))
	assert.Equal(t, act, SearchHoistScope(arena, block))
	assert.Equal(t, pkg, SearchHoistScope(arena, pkg))
}

func TestScope_CaptureTracking(t *testing.T) {
	arena := entity.NewArena()
	actH := New(arena, Activation, entity.Nil)
	act := Get(arena, actH)

	prop := arena.Alloc(&entity.VariableSlot{})
	assert.False(t, act.HasCapture(prop))
	act.MarkCaptured(prop)
	assert.True(t, act.HasCapture(prop))
}
