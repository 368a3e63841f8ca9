package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArena_AllocAndGet(t *testing.T) {
	a := NewArena()
	h := a.Alloc(AnyType{})
	require.False(t, h.IsNil())
	assert.Equal(t, AnyType{}, a.Get(h))
	assert.True(t, Nil.IsNil())
	assert.Nil(t, a.Get(Nil))
}

func TestArena_InvalidateReplacesInPlace(t *testing.T) {
	a := NewArena()
	cls := a.Alloc(&ClassType{QName: QName{Local: "Foo"}})
	a.Invalidate(cls, "duplicate definition")
	assert.True(t, IsInvalidated(a.Get(cls)))
}

func TestArena_InternSubstitutionIsStable(t *testing.T) {
	a := NewArena()
	origin := a.Alloc(&ClassType{QName: QName{Local: "Vector"}})
	intType := a.Alloc(&ClassType{QName: QName{Local: "int"}})

	h1 := a.InternSubstitution(origin, []Handle{intType})
	h2 := a.InternSubstitution(origin, []Handle{intType})
	assert.Equal(t, h1, h2)

	strType := a.Alloc(&ClassType{QName: QName{Local: "String"}})
	h3 := a.InternSubstitution(origin, []Handle{strType})
	assert.NotEqual(t, h1, h3)
}

func TestIncludesNull(t *testing.T) {
	a := NewArena()
	anyT := a.Alloc(AnyType{})
	assert.True(t, IncludesNull(a, anyT))

	obj := a.Alloc(&ClassType{QName: QName{Local: "Object"}, PermitsNull: true})
	assert.True(t, IncludesNull(a, obj))

	intType := a.Alloc(&ClassType{QName: QName{Local: "int"}, PermitsNull: false})
	assert.False(t, IncludesNull(a, intType))

	nullableInt := Nullable(a, intType)
	assert.True(t, IncludesNull(a, nullableInt))
	assert.Equal(t, intType, Escape(a, nullableInt))

	nonNullObj := NonNullable(a, obj)
	assert.False(t, IncludesNull(a, nonNullObj))
	assert.Equal(t, obj, Escape(a, nonNullObj))
}

func TestConstant_WithTypeClones(t *testing.T) {
	a := NewArena()
	t1 := a.Alloc(&ClassType{QName: QName{Local: "int"}})
	t2 := a.Alloc(&ClassType{QName: QName{Local: "Number"}})

	c := &Constant{ConstKind: ConstNumber, StaticType: t1, NumberValue: "3"}
	c2 := c.WithType(t2)

	assert.Equal(t, t1, c.StaticType)
	assert.Equal(t, t2, c2.StaticType)
	assert.Equal(t, "3", c2.NumberValue)
}
