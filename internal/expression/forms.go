package expression

import (
	"github.com/whackengine/verifier/internal/ast"
	"github.com/whackengine/verifier/internal/conversion"
	"github.com/whackengine/verifier/internal/diag"
	"github.com/whackengine/verifier/internal/entity"
	"github.com/whackengine/verifier/internal/phase"
)

// anyValue allocates a ConversionValue of the dynamic `*` type, the
// fallback result for a form whose real type cannot be determined
// (an operation on an already-diagnosed operand, a construct the
// core doesn't narrow further).
func anyValue(env *Env) entity.Handle {
	return env.DB.Arena.Alloc(&entity.ConversionValue{StaticType: env.DB.System.AnyType})
}

// evaluateMember resolves `base.name`, looking `name` up in base's
// static type -- its own fixture plus (for a class) every ancestor's,
// restricted to the namespaces open at this program point, mirroring
// scope.LookupQualified but over a type's Properties table rather than
// a lexical scope's.
func evaluateMember(env *Env, n *ast.Node, mode Mode) (entity.Handle, error) {
	if len(n.Kids) == 0 {
		return anyValue(env), nil
	}
	baseVal, err := Evaluate(env, n.Kids[0], Read)
	if err != nil {
		return entity.Nil, err
	}
	baseType := conversion.TypeOf(env.DB.Arena, baseVal)
	if baseType.IsNil() {
		return anyValue(env), nil
	}
	if entity.IsUnresolved(env.DB.Arena.Get(baseType)) {
		return entity.Nil, phase.NewDefer()
	}
	if conversion.IsAnyLikeType(env.DB.Arena, baseType) {
		return anyValue(env), nil
	}

	prop, status := lookupMember(env, baseType, n.Name)
	switch status {
	case scopeAmbiguous:
		env.DB.Sink.Add(diag.KindAmbiguousReference, n.Loc, n.Name)
		return anyValue(env), nil
	case scopeNotFound:
		if mode == Write {
			return anyValue(env), nil
		}
		env.DB.Sink.Add(diag.KindNoSuchProperty, n.Loc, n.Name)
		return anyValue(env), nil
	}
	if entity.IsUnresolved(env.DB.Arena.Get(prop)) {
		return entity.Nil, phase.NewDefer()
	}
	markCaptureIfCrossesActivation(env, prop)
	ref, err := referenceTo(env, prop)
	if err != nil {
		return entity.Nil, err
	}
	if r, ok := env.DB.Arena.Get(ref).(*entity.Reference); ok {
		r.Base = baseVal
		r.RefKind = entity.RefFixture
	}
	return ref, nil
}

// evaluateCall resolves a call expression's callee and arguments,
// coercing each argument implicitly to the callee's declared
// parameter type when the callee's FunctionType is known. A callee
// whose static type isn't a FunctionType (a value statically typed
// `*`, or a cast-call on a type name) produces CannotCallValue only
// when the callee is a concrete, non-dynamic value -- a cast-call
// (`int(x)`) is handled by evaluateCastOrFunctionCall below.
func evaluateCall(env *Env, n *ast.Node) (entity.Handle, error) {
	if len(n.Kids) == 0 {
		return anyValue(env), nil
	}
	callee, err := Evaluate(env, n.Kids[0], Read)
	if err != nil {
		return entity.Nil, err
	}
	args := n.Kids[1:]
	argVals := make([]entity.Handle, 0, len(args))
	for _, a := range args {
		v, err := Evaluate(env, a, Read)
		if err != nil {
			return entity.Nil, err
		}
		argVals = append(argVals, v)
	}

	if c, ok := env.DB.Arena.Get(callee).(*entity.Constant); ok && c.ConstKind == entity.ConstType {
		return evaluateCastOrFunctionCall(env, n, c.TypeValue, argVals)
	}

	ft := functionTypeOf(env, callee)
	if ft == nil {
		if conversion.IsAnyLikeType(env.DB.Arena, conversion.TypeOf(env.DB.Arena, callee)) {
			return anyValue(env), nil
		}
		env.DB.Sink.Add(diag.KindCannotCallValue, n.Loc)
		return anyValue(env), nil
	}
	checkCallArguments(env, n, ft, argVals)
	if ft.ResultType.IsNil() {
		return anyValue(env), nil
	}
	return env.DB.Arena.Alloc(&entity.ConversionValue{StaticType: ft.ResultType}), nil
}

// evaluateCastOrFunctionCall implements `T(x)` used either as an
// explicit cast (when T names a class/interface/enum) or as a call to
// a user-defined function named the same as a type (not reachable once
// evaluateIdentifier resolves a MethodSlot before a type -- retained
// for the rare shadowed case where only the type resolved).
func evaluateCastOrFunctionCall(env *Env, n *ast.Node, target entity.Handle, args []entity.Handle) (entity.Handle, error) {
	if len(args) != 1 {
		env.DB.Sink.Add(diag.KindIncorrectNumArguments, n.Loc)
		return env.DB.Arena.Alloc(&entity.ConversionValue{StaticType: target}), nil
	}
	_, ok, err := conversion.Explicit(env.DB.Arena, args[0], target)
	if err != nil {
		return entity.Nil, err
	}
	if !ok {
		env.DB.Sink.Add(diag.KindImplicitCoercionToUnrelatedType, n.Loc)
	}
	return env.DB.Arena.Alloc(&entity.ConversionValue{StaticType: target}), nil
}

// evaluateNew resolves `new T(...)`, checking the constructor's
// parameter list the same way evaluateCall does for an ordinary call.
func evaluateNew(env *Env, n *ast.Node) (entity.Handle, error) {
	if len(n.Kids) == 0 {
		return anyValue(env), nil
	}
	typeVal, err := ResolveTypeExpression(env, n.Kids[0])
	if err != nil {
		return entity.Nil, err
	}
	args := n.Kids[1:]
	argVals := make([]entity.Handle, 0, len(args))
	for _, a := range args {
		v, err := Evaluate(env, a, Read)
		if err != nil {
			return entity.Nil, err
		}
		argVals = append(argVals, v)
	}
	cls, ok := env.DB.Arena.Get(entity.Escape(env.DB.Arena, typeVal)).(*entity.ClassType)
	if !ok {
		return env.DB.Arena.Alloc(&entity.ConversionValue{StaticType: typeVal}), nil
	}
	if cls.IsAbstract {
		env.DB.Sink.Add(diag.KindAbstractMethodMustBeOverriden, n.Loc, cls.QName.Local)
	}
	if !cls.Ctor.IsNil() {
		if ctor, ok := env.DB.Arena.Get(cls.Ctor).(*entity.MethodSlot); ok {
			if ft, ok := env.DB.Arena.Get(ctor.Signature).(*entity.FunctionType); ok {
				checkCallArguments(env, n, ft, argVals)
			}
		}
	}
	return env.DB.Arena.Alloc(&entity.ConversionValue{StaticType: entity.NonNullable(env.DB.Arena, typeVal)}), nil
}

// evaluateUnary resolves a unary operator; arithmetic/bitwise operators
// evaluate the operand implicitly as Number, `!` as Boolean, `typeof`/
// `delete` impose no coercion on their operand.
func evaluateUnary(env *Env, n *ast.Node) (entity.Handle, error) {
	mode := Read
	if n.Operator == "delete" {
		mode = Delete
	}
	var operand entity.Handle
	if len(n.Kids) > 0 {
		v, err := Evaluate(env, n.Kids[0], mode)
		if err != nil {
			return entity.Nil, err
		}
		operand = v
	}

	switch n.Operator {
	case "!":
		return env.DB.Arena.Alloc(&entity.Constant{ConstKind: entity.ConstBoolean, StaticType: entity.NonNullable(env.DB.Arena, env.DB.System.Boolean)}), nil
	case "typeof":
		return env.DB.Arena.Alloc(&entity.ConversionValue{StaticType: env.DB.System.String}), nil
	case "delete":
		return env.DB.Arena.Alloc(&entity.Constant{ConstKind: entity.ConstBoolean, StaticType: entity.NonNullable(env.DB.Arena, env.DB.System.Boolean)}), nil
	case "void":
		return env.DB.Arena.Alloc(&entity.ConversionValue{StaticType: env.DB.System.VoidType}), nil
	default: // unary +, -, ~, ++, --
		if !operand.IsNil() {
			numberT := entity.NonNullable(env.DB.Arena, env.DB.System.Number)
			if _, ok, err := conversion.Implicit(env.DB.Arena, operand, numberT); err != nil {
				return entity.Nil, err
			} else if !ok {
				env.DB.Sink.Add(diag.KindImplicitCoercionToUnrelatedType, n.Loc,
					conversion.DisplayName(env.DB.Arena, conversion.TypeOf(env.DB.Arena, operand)),
					conversion.DisplayName(env.DB.Arena, numberT))
			}
		}
		return env.DB.Arena.Alloc(&entity.ConversionValue{StaticType: entity.NonNullable(env.DB.Arena, env.DB.System.Number)}), nil
	}
}

// evaluateBinary resolves a binary operator. `&&`/`||`/`??` evaluate
// to the union-ish dynamic type (neither operand is coerced); relational
// and equality operators result in Boolean; every arithmetic operator
// results in Number and implicitly coerces both operands to it, except
// `+` which leaves its operands uncoerced when either is a String
// (string concatenation results in String).
func evaluateBinary(env *Env, n *ast.Node) (entity.Handle, error) {
	if len(n.Kids) < 2 {
		return anyValue(env), nil
	}
	lhs, err := Evaluate(env, n.Kids[0], Read)
	if err != nil {
		return entity.Nil, err
	}
	rhs, err := Evaluate(env, n.Kids[1], Read)
	if err != nil {
		return entity.Nil, err
	}

	switch n.Operator {
	case "&&", "||", "??":
		return env.DB.Arena.Alloc(&entity.ConversionValue{StaticType: env.DB.System.AnyType}), nil
	case "==", "!=", "===", "!==", "<", "<=", ">", ">=", "instanceof", "is":
		return env.DB.Arena.Alloc(&entity.Constant{ConstKind: entity.ConstBoolean, StaticType: entity.NonNullable(env.DB.Arena, env.DB.System.Boolean)}), nil
	case "as":
		typeVal := conversion.TypeOf(env.DB.Arena, rhs)
		if typeVal.IsNil() {
			typeVal = env.DB.System.AnyType
		}
		return env.DB.Arena.Alloc(&entity.ConversionValue{StaticType: entity.Nullable(env.DB.Arena, typeVal)}), nil
	case "+":
		lt, rt := conversion.TypeOf(env.DB.Arena, lhs), conversion.TypeOf(env.DB.Arena, rhs)
		if conversion.IsStringType(env.DB.Arena, lt) || conversion.IsStringType(env.DB.Arena, rt) {
			return env.DB.Arena.Alloc(&entity.ConversionValue{StaticType: env.DB.System.String}), nil
		}
		fallthrough
	default: // - * / % & | ^ << >> >>>
		numberT := entity.NonNullable(env.DB.Arena, env.DB.System.Number)
		if _, ok, err := conversion.Implicit(env.DB.Arena, lhs, numberT); err != nil {
			return entity.Nil, err
		} else if !ok {
			env.DB.Sink.Add(diag.KindImplicitCoercionToUnrelatedType, n.Loc,
				conversion.DisplayName(env.DB.Arena, conversion.TypeOf(env.DB.Arena, lhs)),
				conversion.DisplayName(env.DB.Arena, numberT))
		}
		if _, ok, err := conversion.Implicit(env.DB.Arena, rhs, numberT); err != nil {
			return entity.Nil, err
		} else if !ok {
			env.DB.Sink.Add(diag.KindImplicitCoercionToUnrelatedType, n.Loc,
				conversion.DisplayName(env.DB.Arena, conversion.TypeOf(env.DB.Arena, rhs)),
				conversion.DisplayName(env.DB.Arena, numberT))
		}
		return env.DB.Arena.Alloc(&entity.ConversionValue{StaticType: numberT}), nil
	}
}

// evaluateConditional resolves `cond ? a : b`, typing the result `*`
// unless both branches share the exact same static type.
func evaluateConditional(env *Env, n *ast.Node) (entity.Handle, error) {
	if len(n.Kids) < 3 {
		return anyValue(env), nil
	}
	if _, err := Evaluate(env, n.Kids[0], Read); err != nil {
		return entity.Nil, err
	}
	a, err := Evaluate(env, n.Kids[1], Read)
	if err != nil {
		return entity.Nil, err
	}
	b, err := Evaluate(env, n.Kids[2], Read)
	if err != nil {
		return entity.Nil, err
	}
	at, bt := conversion.TypeOf(env.DB.Arena, a), conversion.TypeOf(env.DB.Arena, b)
	if !at.IsNil() && at == bt {
		return env.DB.Arena.Alloc(&entity.ConversionValue{StaticType: at}), nil
	}
	return anyValue(env), nil
}

// evaluateAssignment resolves `target = value` (and compound forms),
// checking the value against the target's static type via Implicit
// conversion, matching spec section 4.5's assignment rule.
func evaluateAssignment(env *Env, n *ast.Node) (entity.Handle, error) {
	if len(n.Kids) < 2 {
		return anyValue(env), nil
	}
	target, err := Evaluate(env, n.Kids[0], Write)
	if err != nil {
		return entity.Nil, err
	}
	value, err := Evaluate(env, n.Kids[1], Read)
	if err != nil {
		return entity.Nil, err
	}

	targetType := conversion.TypeOf(env.DB.Arena, target)
	if ref, ok := env.DB.Arena.Get(target).(*entity.Reference); ok {
		if slot, ok := env.DB.Arena.Get(ref.Property).(*entity.VariableSlot); ok {
			if slot.ReadOnly {
				env.DB.Sink.Add(diag.KindEntityIsReadOnly, n.Loc, slot.QName.Local)
			}
		}
	}
	if !targetType.IsNil() && n.Operator == "=" {
		if _, ok, err := conversion.Implicit(env.DB.Arena, value, targetType); err != nil {
			return entity.Nil, err
		} else if !ok {
			env.DB.Sink.Add(diag.KindImplicitCoercionToUnrelatedType, n.Loc,
				conversion.DisplayName(env.DB.Arena, conversion.TypeOf(env.DB.Arena, value)),
				conversion.DisplayName(env.DB.Arena, targetType))
		}
	}
	if targetType.IsNil() {
		return anyValue(env), nil
	}
	return env.DB.Arena.Alloc(&entity.ConversionValue{StaticType: targetType}), nil
}

// functionTypeOf returns callee's FunctionType, looking through a
// Reference to a MethodSlot's Signature when present.
func functionTypeOf(env *Env, callee entity.Handle) *entity.FunctionType {
	if ref, ok := env.DB.Arena.Get(callee).(*entity.Reference); ok {
		if m, ok := env.DB.Arena.Get(ref.Property).(*entity.MethodSlot); ok {
			if ft, ok := env.DB.Arena.Get(m.Signature).(*entity.FunctionType); ok {
				return ft
			}
		}
	}
	t := conversion.TypeOf(env.DB.Arena, callee)
	if ft, ok := env.DB.Arena.Get(t).(*entity.FunctionType); ok {
		return ft
	}
	return nil
}

// checkCallArguments coerces each provided argument implicitly to its
// parameter's declared type and diagnoses an arity mismatch, honoring
// a trailing rest parameter as unbounded.
func checkCallArguments(env *Env, n *ast.Node, ft *entity.FunctionType, args []entity.Handle) {
	minRequired := 0
	hasRest := false
	for _, p := range ft.Params {
		if p.ParamKind == entity.ParamRequired {
			minRequired++
		}
		if p.ParamKind == entity.ParamRest {
			hasRest = true
		}
	}
	if len(args) < minRequired {
		env.DB.Sink.Add(diag.KindIncorrectNumArguments, n.Loc)
		return
	}
	if !hasRest && len(args) > len(ft.Params) {
		env.DB.Sink.Add(diag.KindIncorrectNumArgumentsNoMoreThan, n.Loc)
		return
	}
	for i, a := range args {
		var p entity.Param
		switch {
		case i < len(ft.Params):
			p = ft.Params[i]
		case hasRest:
			p = ft.Params[len(ft.Params)-1]
		default:
			continue
		}
		if p.StaticType.IsNil() {
			continue
		}
		if _, ok, err := conversion.Implicit(env.DB.Arena, a, p.StaticType); err == nil && !ok {
			env.DB.Sink.Add(diag.KindImplicitCoercionToUnrelatedType, n.Loc,
				conversion.DisplayName(env.DB.Arena, conversion.TypeOf(env.DB.Arena, a)),
				conversion.DisplayName(env.DB.Arena, p.StaticType))
		}
	}
}
