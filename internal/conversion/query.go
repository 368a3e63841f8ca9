package conversion

import "github.com/whackengine/verifier/internal/entity"

// TypeOf exposes typeOf to other packages: the static type of a
// value-shaped entity (Constant, ConversionValue, Reference), Nil for
// anything else.
func TypeOf(arena *entity.Arena, value entity.Handle) entity.Handle {
	return typeOf(arena, value)
}

// IsAnyLikeType reports whether h is the dynamic `*` type, the type
// every other check treats as "no further narrowing possible".
func IsAnyLikeType(arena *entity.Arena, h entity.Handle) bool {
	return isAnyType(arena, h)
}

// IsStringType reports whether h (after unwrapping nullability) is
// the system String class.
func IsStringType(arena *entity.Arena, h entity.Handle) bool {
	name, ok := classLocalName(arena, unwrap(arena, h))
	return ok && name == "String"
}

// Unwrap exposes unwrap: peel Nullable/NonNullable wrappers to reveal
// the underlying nominal type.
func Unwrap(arena *entity.Arena, h entity.Handle) entity.Handle {
	return unwrap(arena, h)
}

// ClassOf exposes classOf: h as a *ClassType after unwrapping
// nullability, or nil if h doesn't name one.
func ClassOf(arena *entity.Arena, h entity.Handle) *entity.ClassType {
	return classOf(arena, h)
}

// InterfaceOf exposes interfaceOf: h as a *InterfaceType after
// unwrapping nullability, or nil if h doesn't name one.
func InterfaceOf(arena *entity.Arena, h entity.Handle) *entity.InterfaceType {
	return interfaceOf(arena, h)
}

// DisplayName renders a type handle the way a diagnostic message
// names it: a nominal type's unqualified name, "*"/"void" for the two
// unnamed system types, a wrapper's base name suffixed "?"/"!", a type
// parameter's declared name, and a parameterized application's origin
// name (its type arguments are not spelled out, matching the
// unqualified-name granularity every other diagnostic arg in this core
// uses). Falls back to "*" for Nil/unresolved/invalidated handles, the
// same "no further narrowing possible" reading IsAnyLikeType gives
// them elsewhere.
func DisplayName(arena *entity.Arena, h entity.Handle) string {
	switch v := arena.Get(h).(type) {
	case *entity.ClassType:
		return v.QName.Local
	case *entity.InterfaceType:
		return v.QName.Local
	case *entity.EnumType:
		return v.QName.Local
	case entity.AnyType:
		return "*"
	case entity.VoidType:
		return "void"
	case *entity.NullableType:
		return DisplayName(arena, v.Base) + "?"
	case *entity.NonNullableType:
		return DisplayName(arena, v.Base) + "!"
	case *entity.TypeParameterType:
		return v.Name
	case *entity.TypeAfterSubstitution:
		return DisplayName(arena, v.Origin)
	default:
		return "*"
	}
}
