package conversion

import "github.com/whackengine/verifier/internal/entity"

// typeOf returns the static type of a value-shaped entity (Constant,
// ConversionValue, Reference). Anything else yields Nil.
func typeOf(arena *entity.Arena, value entity.Handle) entity.Handle {
	switch v := arena.Get(value).(type) {
	case *entity.Constant:
		return v.StaticType
	case *entity.ConversionValue:
		return v.StaticType
	case *entity.Reference:
		return v.StaticType
	default:
		return entity.Nil
	}
}

func isAnyType(arena *entity.Arena, h entity.Handle) bool {
	_, ok := arena.Get(h).(entity.AnyType)
	return ok
}

func isVoidType(arena *entity.Arena, h entity.Handle) bool {
	_, ok := arena.Get(h).(entity.VoidType)
	return ok
}

// includesUndefined reports whether a value of type h may legitimately
// hold `undefined`. Only the dynamic `*` type does; every nominal and
// nullable type excludes it.
func includesUndefined(arena *entity.Arena, h entity.Handle) bool {
	return isAnyType(arena, h)
}

func isObject(arena *entity.Arena, h entity.Handle) bool {
	name, ok := classLocalName(arena, entity.Escape(arena, h))
	return ok && name == "Object"
}

func isJSVal(arena *entity.Arena, h entity.Handle) bool {
	name, ok := classLocalName(arena, entity.Escape(arena, h))
	return ok && name == "JSVal"
}

// unwrap peels both Nullable and NonNullable wrappers, for comparisons
// that only care about the underlying nominal type.
func unwrap(arena *entity.Arena, h entity.Handle) entity.Handle {
	for {
		switch arena.Get(h).(type) {
		case *entity.NullableType, *entity.NonNullableType:
			h = entity.Escape(arena, h)
		default:
			return h
		}
	}
}

// sameOrigin reports whether two handles are applications (or bare
// mentions) of the same generic origin -- `Vector.<int>` and
// `Vector.<String>` share an origin, `Array` does not share an origin
// with either.
func sameOrigin(arena *entity.Arena, a, b entity.Handle) bool {
	originOf := func(h entity.Handle) entity.Handle {
		if ta, ok := arena.Get(h).(*entity.TypeAfterSubstitution); ok {
			return ta.Origin
		}
		return h
	}
	return originOf(unwrap(arena, a)) == originOf(unwrap(arena, b))
}

// classOf returns a *ClassType if h (after unwrapping nullability)
// names one, else nil.
func classOf(arena *entity.Arena, h entity.Handle) *entity.ClassType {
	c, _ := arena.Get(unwrap(arena, h)).(*entity.ClassType)
	return c
}

func interfaceOf(arena *entity.Arena, h entity.Handle) *entity.InterfaceType {
	i, _ := arena.Get(unwrap(arena, h)).(*entity.InterfaceType)
	return i
}

// isClassDescendant reports whether sub's extends chain reaches base
// (base included).
func isClassDescendant(arena *entity.Arena, sub, base entity.Handle) bool {
	h := unwrap(arena, sub)
	baseU := unwrap(arena, base)
	for !h.IsNil() {
		if h == baseU {
			return true
		}
		c := classOf(arena, h)
		if c == nil {
			return false
		}
		h = c.Extends
	}
	return false
}

// implementsInterface reports whether class (or one of its ancestors)
// lists iface in Implements, or iface's own extends chain is reached
// transitively through another implemented interface.
func implementsInterface(arena *entity.Arena, classH, ifaceH entity.Handle) bool {
	ifaceU := unwrap(arena, ifaceH)
	h := unwrap(arena, classH)
	for !h.IsNil() {
		c := classOf(arena, h)
		if c == nil {
			return false
		}
		for _, impl := range c.Implements {
			if interfaceReaches(arena, impl, ifaceU) {
				return true
			}
		}
		h = c.Extends
	}
	return false
}

func interfaceReaches(arena *entity.Arena, from, to entity.Handle) bool {
	from = unwrap(arena, from)
	if from == to {
		return true
	}
	i := interfaceOf(arena, from)
	if i == nil {
		return false
	}
	for _, ext := range i.Extends {
		if interfaceReaches(arena, ext, to) {
			return true
		}
	}
	return false
}

// IsSubtype reports whether sub is sub's-value-assignable-to base
// purely on nominal inheritance, ignoring nullability wrappers (the
// caller applies the null-preservation rule separately). AnyType is a
// supertype of everything and a subtype of nothing but itself.
func IsSubtype(arena *entity.Arena, sub, base entity.Handle) bool {
	subU, baseU := unwrap(arena, sub), unwrap(arena, base)
	if subU == baseU {
		return true
	}
	if isAnyType(arena, baseU) {
		return true
	}
	if isClassDescendant(arena, subU, baseU) {
		return true
	}
	if _, isIface := arena.Get(baseU).(*entity.InterfaceType); isIface {
		return implementsInterface(arena, subU, baseU)
	}
	return false
}
