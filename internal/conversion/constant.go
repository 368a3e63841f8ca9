package conversion

import (
	"github.com/whackengine/verifier/internal/entity"
	"github.com/whackengine/verifier/internal/phase"
)

// Constant implements spec section 4.2's eight-step `constant(value, T)`
// algorithm: folding a compile-time constant directly to a target type
// without going through the general implicit/explicit machinery.
//
// The bool result reports whether a conversion rule applied; a false
// result with a nil error means "no result" (step 3: try implicit/
// explicit instead). A non-nil error is always phase.Defer, propagated
// when value or target names an entity still waiting on a later phase.
func Constant(arena *entity.Arena, value, target entity.Handle) (entity.Handle, bool, error) {
	valEnt, tgtEnt := arena.Get(value), arena.Get(target)

	// Step 2: invalidation propagation. A poisoned operand silently
	// fails conversion; the definition that poisoned it already raised
	// its own diagnostic.
	if entity.IsInvalidated(valEnt) || entity.IsInvalidated(tgtEnt) {
		return entity.Nil, false, nil
	}
	if entity.IsUnresolved(valEnt) || entity.IsUnresolved(tgtEnt) {
		return entity.Nil, false, phase.NewDefer()
	}

	// Step 1: identity.
	if typeOf(arena, value) == target {
		return value, true, nil
	}

	c, isConst := valEnt.(*entity.Constant)
	if !isConst {
		// Step 3: not a constant, no result from this algorithm.
		return entity.Nil, false, nil
	}
	if entity.IsUnresolved(arena.Get(c.StaticType)) {
		return entity.Nil, false, phase.NewDefer()
	}

	// Step 4: undefined -> T.
	if c.ConstKind == entity.ConstUndefined {
		if includesUndefined(arena, target) {
			return cloneConstant(arena, c, target), true, nil
		}
		if entity.IncludesNull(arena, target) {
			null := *c
			null.ConstKind = entity.ConstNull
			return cloneConstant(arena, &null, target), true, nil
		}
		return entity.Nil, false, nil
	}

	// Step 5: null -> T.
	if c.ConstKind == entity.ConstNull {
		if includesUndefined(arena, target) || entity.IncludesNull(arena, target) {
			return cloneConstant(arena, c, target), true, nil
		}
		return entity.Nil, false, nil
	}

	// Step 6: primitive constants may be retyped to `*`, Object, or
	// JSVal -- a representation-preserving widening, not a value
	// change.
	switch c.ConstKind {
	case entity.ConstNumber, entity.ConstString, entity.ConstBoolean, entity.ConstNamespace, entity.ConstType:
		if isAnyType(arena, target) || isObject(arena, target) || isJSVal(arena, target) {
			return cloneConstant(arena, c, target), true, nil
		}
	}

	// Step 7: Number constant may be coerced to any other numeric type
	// via the deterministic convert_type truncation.
	if c.ConstKind == entity.ConstNumber && IsNumericType(arena, unwrap(arena, target)) {
		fromName, _ := classLocalName(arena, unwrap(arena, c.StaticType))
		toName, _ := classLocalName(arena, unwrap(arena, target))
		if fromName != toName {
			converted, err := ConvertType(c.NumberValue, toName)
			if err != nil {
				return entity.Nil, false, nil
			}
			n := *c
			n.NumberValue = converted
			return cloneConstant(arena, &n, target), true, nil
		}
	}

	// Step 8: T / T! constant -> T?, and T / T? constant -> T!, by
	// cloning the constant with the new static type -- the underlying
	// value is untouched, only its nullability annotation changes.
	if entity.Escape(arena, target) == entity.Escape(arena, c.StaticType) {
		return cloneConstant(arena, c, target), true, nil
	}

	return entity.Nil, false, nil
}

func cloneConstant(arena *entity.Arena, c *entity.Constant, target entity.Handle) entity.Handle {
	clone := c.WithType(target)
	return arena.Alloc(clone)
}
