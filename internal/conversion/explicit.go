package conversion

import (
	"strconv"

	"github.com/whackengine/verifier/internal/entity"
	"github.com/whackengine/verifier/internal/phase"
)

// Explicit implements spec section 4.2's `explicit(value, T)` relation:
// every conversion a cast expression (`T(value)` / `value as T`) may
// perform, a strict superset of Implicit. It tries Implicit first --
// implicit() is a subset of explicit() -- then the cast-only rules:
// narrowing downcasts, contravariant conversions, array/vector
// covariance, enum<->String/Number, and generic parameter operations.
func Explicit(arena *entity.Arena, value, target entity.Handle) (entity.Handle, bool, error) {
	if r, ok, err := Implicit(arena, value, target); ok || err != nil {
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
	if fromType.IsNil() || entity.IsUnresolved(arena.Get(fromType)) {
		return entity.Nil, false, phase.NewDefer()
	}

	// ObjectToItrfc / ToContravariant: a narrowing cast down a class or
	// interface hierarchy is allowed at verify time (it may fail at
	// runtime, which is exactly what `as`/cast expressions are for).
	if isObject(arena, fromType) {
		if _, isClass := arena.Get(unwrap(arena, target)).(*entity.ClassType); isClass {
			return nullPreservingResult(arena, fromType, target), true, nil
		}
		if _, isIface := arena.Get(unwrap(arena, target)).(*entity.InterfaceType); isIface {
			return nullPreservingResult(arena, fromType, target), true, nil
		}
	}
	if IsSubtype(arena, target, fromType) {
		// Downcast: target is a (possibly proper) subtype of the
		// source's static type.
		return nullPreservingResult(arena, fromType, target), true, nil
	}
	// Interface <-> unrelated interface/class: a cast may always be
	// attempted when the source is an interface type, deferring the
	// real check to runtime.
	if _, fromIface := arena.Get(unwrap(arena, fromType)).(*entity.InterfaceType); fromIface {
		switch arena.Get(unwrap(arena, target)).(type) {
		case *entity.ClassType, *entity.InterfaceType:
			return nullPreservingResult(arena, fromType, target), true, nil
		}
	}

	// ToCovariantArray / ToCovariantVector: Array.<A> explicitly
	// converts to Array.<B> when A converts to B (and symmetrically for
	// Vector.<T>), i.e. the two share the same generic origin and their
	// type arguments are mutually convertible.
	if sameOrigin(arena, fromType, target) {
		fromArgs := typeArgsOf(arena, fromType)
		toArgs := typeArgsOf(arena, target)
		if len(fromArgs) == len(toArgs) {
			allConvert := true
			for i := range fromArgs {
				if fromArgs[i] == toArgs[i] {
					continue
				}
				_, ok, err := Explicit(arena, placeholderOfType(arena, fromArgs[i]), toArgs[i])
				if err != nil {
					return entity.Nil, false, err
				}
				if !ok {
					allConvert = false
					break
				}
			}
			if allConvert {
				return conversionResult(arena, target), true, nil
			}
		}
	}

	// StringToEnum / NumberToEnum: a String or numeric constant
	// explicitly converts to an enum type when it names one of the
	// enum's members.
	if c, isConst := valEnt.(*entity.Constant); isConst {
		if enumT, isEnum := arena.Get(unwrap(arena, target)).(*entity.EnumType); isEnum {
			switch c.ConstKind {
			case entity.ConstString:
				if _, ok := enumT.MemberSlotMapping[c.StringValue]; ok {
					return conversionResult(arena, target), true, nil
				}
			case entity.ConstNumber:
				for _, n := range enumT.MemberNumberMapping {
					if numbersEqual(c.NumberValue, n) {
						return conversionResult(arena, target), true, nil
					}
				}
			}
		}
		// The reverse direction: an enum-typed constant explicitly
		// converts to String or a numeric type.
		if _, isEnum := arena.Get(unwrap(arena, fromType)).(*entity.EnumType); isEnum {
			if isStringType(arena, target) || IsNumericType(arena, unwrap(arena, target)) {
				return conversionResult(arena, target), true, nil
			}
		}
	}

	// Explicit numeric and Boolean conversions: any numeric type
	// explicitly converts to Boolean, and Boolean explicitly converts to
	// any numeric type (`0`/`1`), beyond the implicit BetweenNumber set.
	if (IsNumericType(arena, unwrap(arena, fromType)) && isBooleanType(arena, target)) ||
		(isBooleanType(arena, fromType) && IsNumericType(arena, unwrap(arena, target))) {
		return conversionResult(arena, target), true, nil
	}

	// FromTypeParameter: a value statically typed as a generic type
	// parameter may be explicitly cast to any other type; the real
	// check is deferred to runtime once the parameter is substituted.
	if _, isTypeParam := arena.Get(unwrap(arena, fromType)).(*entity.TypeParameterType); isTypeParam {
		return conversionResult(arena, target), true, nil
	}

	// ParameterizedTypeAlter: `Origin.<Args...>` explicitly converts to
	// `Origin.<OtherArgs...>` for the same generic origin, with no
	// further constraint on the arguments themselves (a blunt but
	// sound-at-runtime cast, matching the teacher's conservative cast
	// handling elsewhere).
	if ta, ok := arena.Get(unwrap(arena, target)).(*entity.TypeAfterSubstitution); ok {
		if fromTa, ok2 := arena.Get(unwrap(arena, fromType)).(*entity.TypeAfterSubstitution); ok2 && fromTa.Origin == ta.Origin {
			return conversionResult(arena, target), true, nil
		}
	}

	return entity.Nil, false, nil
}

func typeArgsOf(arena *entity.Arena, h entity.Handle) []entity.Handle {
	if ta, ok := arena.Get(unwrap(arena, h)).(*entity.TypeAfterSubstitution); ok {
		return ta.Args
	}
	return nil
}

// placeholderOfType fabricates a throwaway ConversionValue of type t,
// used only to probe Explicit recursively for type-argument
// convertibility without needing an actual value entity.
func placeholderOfType(arena *entity.Arena, t entity.Handle) entity.Handle {
	return arena.Alloc(&entity.ConversionValue{StaticType: t})
}

func isStringType(arena *entity.Arena, h entity.Handle) bool {
	name, ok := classLocalName(arena, unwrap(arena, h))
	return ok && name == "String"
}

func isBooleanType(arena *entity.Arena, h entity.Handle) bool {
	name, ok := classLocalName(arena, unwrap(arena, h))
	return ok && name == "Boolean"
}

// numbersEqual compares a decimal-text constant against a float64 enum
// member value for equality, at the precision ConvertType itself uses.
func numbersEqual(decText string, f float64) bool {
	converted, err := ConvertType(decText, NumberName)
	if err != nil {
		return false
	}
	other, err := ConvertType(strconv.FormatFloat(f, 'f', -1, 64), NumberName)
	if err != nil {
		return false
	}
	return converted == other
}
