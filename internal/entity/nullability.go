package entity

// IncludesNull implements the spec section 3 definition: a type
// includes null iff it is AnyType, a NullableType, or a nominal type
// (class/interface/enum) whose definition permits null. NonNullableType
// always excludes null regardless of its base. Unresolved/invalidated
// handles conservatively report true so that callers deferring on them
// are not also forced to diagnose a spurious null-preservation failure.
func IncludesNull(arena *Arena, h Handle) bool {
	e := arena.Get(h)
	switch v := e.(type) {
	case nil:
		return true
	case AnyType:
		return true
	case *NullableType:
		return true
	case *NonNullableType:
		return false
	case *ClassType:
		return v.PermitsNull
	case *InterfaceType:
		return true
	case *EnumType:
		return true
	case *TypeAfterSubstitution:
		return IncludesNull(arena, v.Origin)
	case UnresolvedEntity, InvalidationEntity:
		return true
	default:
		return false
	}
}

// Escape strips exactly one wrapping of `?` or `!` from h, revealing
// the base type. Non-wrapped types are returned unchanged.
func Escape(arena *Arena, h Handle) Handle {
	switch v := arena.Get(h).(type) {
	case *NullableType:
		return v.Base
	case *NonNullableType:
		return v.Base
	default:
		return h
	}
}

// Nullable wraps h in a NullableType, interning nothing (NullableType
// is cheap enough to allocate fresh; only parameterized-type
// application is cached).
func Nullable(arena *Arena, h Handle) Handle {
	if _, ok := arena.Get(h).(*NullableType); ok {
		return h
	}
	return arena.Alloc(&NullableType{Base: h})
}

// NonNullable wraps h in a NonNullableType.
func NonNullable(arena *Arena, h Handle) Handle {
	if _, ok := arena.Get(h).(*NonNullableType); ok {
		return h
	}
	return arena.Alloc(&NonNullableType{Base: h})
}
