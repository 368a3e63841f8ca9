package conversion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whackengine/verifier/internal/entity"
)

func newSystemTypes(arena *entity.Arena) (numberH, intH, stringH, objectH, animalH, dogH entity.Handle) {
	objectH = arena.Alloc(&entity.ClassType{
		QName:       entity.QName{Local: "Object"},
		PermitsNull: true,
		Properties:  map[entity.QName]entity.Handle{},
	})
	numberH = arena.Alloc(&entity.ClassType{QName: entity.QName{Local: "Number"}, Extends: objectH, PermitsNull: false})
	intH = arena.Alloc(&entity.ClassType{QName: entity.QName{Local: "int"}, Extends: objectH, PermitsNull: false})
	stringH = arena.Alloc(&entity.ClassType{QName: entity.QName{Local: "String"}, Extends: objectH, PermitsNull: true})
	animalH = arena.Alloc(&entity.ClassType{QName: entity.QName{Local: "Animal"}, Extends: objectH, PermitsNull: true})
	dogH = arena.Alloc(&entity.ClassType{QName: entity.QName{Local: "Dog"}, Extends: animalH, PermitsNull: true})
	return
}

func TestConstant_IdentityReturnsSameHandle(t *testing.T) {
	arena := entity.NewArena()
	_, numberH, _, _, _, _ := newSystemTypes(arena)
	c := arena.Alloc(&entity.Constant{ConstKind: entity.ConstNumber, StaticType: numberH, NumberValue: "1"})

	r, ok, err := Constant(arena, c, numberH)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, c, r)
}

func TestConstant_NumberCoercionIsDeterministic(t *testing.T) {
	arena := entity.NewArena()
	numberH, intH, _, _, _, _ := newSystemTypes(arena)
	c := arena.Alloc(&entity.Constant{ConstKind: entity.ConstNumber, StaticType: numberH, NumberValue: "3.9"})

	r, ok, err := Constant(arena, c, intH)
	require.NoError(t, err)
	require.True(t, ok)
	folded := arena.Get(r).(*entity.Constant)
	assert.Equal(t, "3", folded.NumberValue)
}

func TestConstant_NullableCloneRule(t *testing.T) {
	arena := entity.NewArena()
	_, _, stringH, _, _, _ := newSystemTypes(arena)
	nonNull := entity.NonNullable(arena, stringH)
	c := arena.Alloc(&entity.Constant{ConstKind: entity.ConstString, StaticType: nonNull, StringValue: "hi"})

	nullable := entity.Nullable(arena, stringH)
	r, ok, err := Constant(arena, c, nullable)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, nullable, arena.Get(r).(*entity.Constant).StaticType)
}

func TestConstant_NotAConstantYieldsNoResult(t *testing.T) {
	arena := entity.NewArena()
	numberH, intH, _, _, _, _ := newSystemTypes(arena)
	ref := arena.Alloc(&entity.Reference{StaticType: numberH})

	// Different type than the reference's own, so step 1 (identity)
	// does not short-circuit and step 3 (not a Constant) applies.
	_, ok, err := Constant(arena, ref, intH)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestImplicit_SubtypeWidensAcrossExtendsChain(t *testing.T) {
	arena := entity.NewArena()
	_, _, _, objectH, animalH, dogH := newSystemTypes(arena)
	dogValue := arena.Alloc(&entity.Reference{StaticType: dogH})

	r, ok, err := Implicit(arena, dogValue, animalH)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, animalH, typeOf(arena, r))

	// Every implicit conversion is also an explicit one.
	r2, ok2, err2 := Explicit(arena, dogValue, animalH)
	require.NoError(t, err2)
	require.True(t, ok2)
	assert.Equal(t, animalH, typeOf(arena, r2))

	_ = objectH
}

func TestImplicit_RejectsUnrelatedNominalTypes(t *testing.T) {
	arena := entity.NewArena()
	_, _, stringH, _, animalH, _ := newSystemTypes(arena)
	animalValue := arena.Alloc(&entity.Reference{StaticType: animalH})

	_, ok, err := Implicit(arena, animalValue, stringH)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestExplicit_AllowsNarrowingDowncast(t *testing.T) {
	arena := entity.NewArena()
	_, _, _, _, animalH, dogH := newSystemTypes(arena)
	animalValue := arena.Alloc(&entity.Reference{StaticType: animalH})

	r, ok, err := Explicit(arena, animalValue, dogH)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, dogH, typeOf(arena, r))

	// Implicit must NOT allow the same narrowing -- explicit is a
	// strict superset, not an equal relation.
	_, okImplicit, errImplicit := Implicit(arena, animalValue, dogH)
	require.NoError(t, errImplicit)
	assert.False(t, okImplicit)
}

func TestNullPreservation_WideningToNonNullableTargetAddsNullable(t *testing.T) {
	arena := entity.NewArena()
	_, _, _, _, animalH, dogH := newSystemTypes(arena)
	dogValue := arena.Alloc(&entity.Reference{StaticType: dogH})

	nonNullAnimal := entity.NonNullable(arena, animalH)
	r, ok, err := Implicit(arena, dogValue, nonNullAnimal)
	require.NoError(t, err)
	require.True(t, ok)

	// Dog permits null (per newSystemTypes) so the result must be
	// re-widened to nullable rather than silently dropping nullability.
	resultType := typeOf(arena, r)
	_, isNullable := arena.Get(resultType).(*entity.NullableType)
	assert.True(t, isNullable)
}

func TestConvertType_WrapsIntTo32Bits(t *testing.T) {
	s, err := ConvertType("4294967296", IntName) // 2^32
	require.NoError(t, err)
	assert.Equal(t, "0", s)
}

func TestConvertType_TruncatesTowardZero(t *testing.T) {
	s, err := ConvertType("-3.7", IntName)
	require.NoError(t, err)
	assert.Equal(t, "-3", s)
}
