package conversion

import (
	"github.com/whackengine/verifier/internal/entity"
	"github.com/whackengine/verifier/internal/phase"
)

// Implicit implements spec section 4.2's `implicit(value, T)` relation:
// the conversions the verifier inserts silently (assignment, argument
// passing, return). It always tries Constant first -- constant() is a
// subset of implicit() -- then falls through to the structural/nominal
// rules. Result shape mirrors Constant: (result, applied, error), with
// error always a phase.Defer.
func Implicit(arena *entity.Arena, value, target entity.Handle) (entity.Handle, bool, error) {
	if r, ok, err := Constant(arena, value, target); ok || err != nil {
		return r, ok, err
	}

	valEnt, tgtEnt := arena.Get(value), arena.Get(target)
	if entity.IsInvalidated(valEnt) || entity.IsInvalidated(tgtEnt) {
		return entity.Nil, false, nil
	}
	if entity.IsUnresolved(valEnt) || entity.IsUnresolved(tgtEnt) {
		return entity.Nil, false, phase.NewDefer()
	}

	fromType := typeOf(arena, value)
	if fromType.IsNil() {
		return entity.Nil, false, nil
	}
	if entity.IsUnresolved(arena.Get(fromType)) {
		return entity.Nil, false, phase.NewDefer()
	}

	// `* -> T` and `T -> *`: the dynamic type accepts and produces
	// anything.
	if isAnyType(arena, fromType) || isAnyType(arena, target) {
		return conversionResult(arena, target), true, nil
	}

	// BetweenNumber: Number/int/uint/float implicitly convert among
	// themselves (narrowing included -- overflow is a runtime concern,
	// not a verify-time error).
	if IsNumericType(arena, unwrap(arena, fromType)) && IsNumericType(arena, unwrap(arena, target)) {
		return nullPreservingResult(arena, fromType, target), true, nil
	}

	// JSVal converts freely to/from anything, mirroring `*`.
	if isJSVal(arena, fromType) || isJSVal(arena, target) {
		return conversionResult(arena, target), true, nil
	}

	// ToCovariant: nominal subtype -> supertype (class extends chain,
	// interface implementation), preserving the null-preservation rule.
	if IsSubtype(arena, fromType, target) {
		return nullPreservingResult(arena, fromType, target), true, nil
	}

	// InterfaceToObject: any interface type implicitly widens to Object.
	if _, isIface := arena.Get(unwrap(arena, fromType)).(*entity.InterfaceType); isIface && isObject(arena, target) {
		return nullPreservingResult(arena, fromType, target), true, nil
	}

	// NonNullable <-> Nullable of the same base convert implicitly in
	// the safe direction only: T! -> T? always; T? -> T! never (that
	// direction is explicit-only, since it can fail at runtime).
	if entity.Escape(arena, fromType) == entity.Escape(arena, target) {
		if _, fromNonNull := arena.Get(fromType).(*entity.NonNullableType); fromNonNull {
			if _, targetNullable := arena.Get(target).(*entity.NullableType); targetNullable {
				return conversionResult(arena, target), true, nil
			}
		}
		// AsIs <-> Nullable: T -> T? always holds for a plain nominal T.
		if _, targetNullable := arena.Get(target).(*entity.NullableType); targetNullable {
			return conversionResult(arena, target), true, nil
		}
	}

	// Function -> structural function type: a method/function reference
	// implicitly converts to a FunctionType with a compatible signature.
	if ft, ok := arena.Get(unwrap(arena, target)).(*entity.FunctionType); ok {
		if srcFt, isFn := arena.Get(unwrap(arena, fromType)).(*entity.FunctionType); isFn {
			if functionTypesCompatible(arena, srcFt, ft) {
				return conversionResult(arena, target), true, nil
			}
		}
	}

	return entity.Nil, false, nil
}

// conversionResult wraps target in a ConversionValue, the uniform
// non-constant result shape for a successful but non-folded conversion.
func conversionResult(arena *entity.Arena, target entity.Handle) entity.Handle {
	return arena.Alloc(&entity.ConversionValue{StaticType: target})
}

// nullPreservingResult applies the threading rule from spec section 3:
// a conversion must not silently drop the source's nullability. If
// fromType includes null but target does not, the result is widened to
// Nullable(target) rather than failing the conversion outright (the
// caller -- typically the expression subverifier -- still separately
// diagnoses an incompatible null assignment when a literal `null` meets
// a non-nullable target; this helper only governs fold/convert shape).
func nullPreservingResult(arena *entity.Arena, fromType, target entity.Handle) entity.Handle {
	if entity.IncludesNull(arena, fromType) && !entity.IncludesNull(arena, target) {
		return conversionResult(arena, entity.Nullable(arena, target))
	}
	return conversionResult(arena, target)
}

// functionTypesCompatible checks arity/kind/parameter-type/result-type
// agreement between two structural function types.
func functionTypesCompatible(arena *entity.Arena, from, to *entity.FunctionType) bool {
	if len(from.Params) != len(to.Params) {
		return false
	}
	for i := range from.Params {
		if from.Params[i].ParamKind != to.Params[i].ParamKind {
			return false
		}
		if from.Params[i].StaticType != to.Params[i].StaticType {
			return false
		}
	}
	return from.ResultType == to.ResultType
}
