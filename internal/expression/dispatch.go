package expression

import (
	"github.com/whackengine/verifier/internal/ast"
	"github.com/whackengine/verifier/internal/conversion"
	"github.com/whackengine/verifier/internal/db"
	"github.com/whackengine/verifier/internal/diag"
	"github.com/whackengine/verifier/internal/entity"
	"github.com/whackengine/verifier/internal/phase"
	"github.com/whackengine/verifier/internal/scope"
)

// Evaluate resolves node to its entity (a Constant, ConversionValue,
// or Reference), consulting env.DB's node->entity cache first so a
// node visited across multiple fixed-point rounds is only diagnosed
// once. A phase.Defer propagates when resolution depends on a
// not-yet-available entity (an identifier whose declaration hasn't
// reached Beta, say); callers at the directive layer return it
// unchanged so the Orchestrator revisits the whole unit next round.
func Evaluate(env *Env, node ast.NodeID, mode Mode) (entity.Handle, error) {
	if h := env.DB.EntityFor(node); !h.IsNil() {
		if entity.IsUnresolved(env.DB.Arena.Get(h)) {
			return entity.Nil, phase.NewDefer()
		}
		return h, nil
	}

	n := env.Tree.Get(node)
	if n == nil {
		return entity.Nil, nil
	}

	var (
		result entity.Handle
		err    error
	)

	switch n.Kind {
	case ast.KindNumericLiteral:
		result = env.DB.Arena.Alloc(&entity.Constant{
			ConstKind:   entity.ConstNumber,
			StaticType:  entity.NonNullable(env.DB.Arena, env.DB.System.Number),
			NumberValue: n.NumberValue,
		})

	case ast.KindStringLiteral:
		result = env.DB.Arena.Alloc(&entity.Constant{
			ConstKind:   entity.ConstString,
			StaticType:  env.DB.System.String,
			StringValue: n.StringValue,
		})

	case ast.KindBooleanLiteral:
		result = env.DB.Arena.Alloc(&entity.Constant{
			ConstKind:    entity.ConstBoolean,
			StaticType:   entity.NonNullable(env.DB.Arena, env.DB.System.Boolean),
			BooleanValue: n.BooleanValue,
		})

	case ast.KindNullLiteral:
		result = env.DB.Arena.Alloc(&entity.Constant{
			ConstKind:  entity.ConstNull,
			StaticType: env.DB.System.AnyType,
		})

	case ast.KindThisLiteral:
		result, err = evaluateThis(env, n)

	case ast.KindIdentifier, ast.KindQualifiedIdentifier:
		result, err = evaluateIdentifier(env, n, mode)

	case ast.KindMember:
		result, err = evaluateMember(env, n, mode)

	case ast.KindCall:
		result, err = evaluateCall(env, n)

	case ast.KindNew:
		result, err = evaluateNew(env, n)

	case ast.KindUnary:
		result, err = evaluateUnary(env, n)

	case ast.KindBinary:
		result, err = evaluateBinary(env, n)

	case ast.KindConditional:
		result, err = evaluateConditional(env, n)

	case ast.KindAssignment:
		result, err = evaluateAssignment(env, n)

	case ast.KindArrayLiteral:
		result, err = evaluateArrayLiteral(env, n)

	case ast.KindFunctionExpression:
		result, err = evaluateFunctionExpression(env, n)

	default:
		result = env.DB.Arena.Alloc(&entity.ConversionValue{StaticType: env.DB.System.AnyType})
	}

	if err != nil {
		return entity.Nil, err
	}
	if result.IsNil() {
		return entity.Nil, nil
	}
	env.DB.Assign(node, result)
	return result, nil
}

// ResolveTypeExpression evaluates node as a type reference (an
// identifier/member chain naming a class/interface/enum/alias, or `*`)
// rather than a value, used by directive code resolving annotations,
// extends/implements clauses, and type arguments.
func ResolveTypeExpression(env *Env, node ast.NodeID) (entity.Handle, error) {
	n := env.Tree.Get(node)
	if n == nil {
		return env.DB.System.AnyType, nil
	}
	if n.Kind == ast.KindIdentifier && n.Name == "*" {
		return env.DB.System.AnyType, nil
	}

	r, err := evaluateIdentifierChainAsType(env, n)
	if err != nil {
		return entity.Nil, err
	}
	if r.IsNil() {
		env.DB.Sink.Add(diag.KindUnresolvedReference, n.Loc, n.Name)
		return env.DB.System.AnyType, nil
	}
	return r, nil
}

func evaluateIdentifierChainAsType(env *Env, n *ast.Node) (entity.Handle, error) {
	res := scope.LookupChain(env.DB.Arena, env.Chain.Current(), n.Name, env.OpenNs)
	switch res.Status {
	case scope.Found:
		scope.MarkImportReferenced(env.DB.Arena, env.Chain.Current(), res.Entity)
		return unwrapTypeEntity(env, res.Entity), nil
	case scope.Ambiguous:
		env.DB.Sink.Add(diag.KindAmbiguousReference, n.Loc, res.Name)
		return entity.Nil, nil
	default:
		return entity.Nil, nil
	}
}

// unwrapTypeEntity follows an Alias to its target, returning the
// underlying ClassType/InterfaceType/EnumType handle unchanged
// otherwise. Resolving through an unresolved Alias defers.
func unwrapTypeEntity(env *Env, h entity.Handle) entity.Handle {
	if a, ok := env.DB.Arena.Get(h).(*entity.Alias); ok {
		return a.AliasOf
	}
	return h
}

func evaluateThis(env *Env, n *ast.Node) (entity.Handle, error) {
	act := scope.SearchActivation(env.DB.Arena, env.Chain.Current())
	if act.IsNil() {
		env.DB.Sink.Add(diag.KindInvalidThis, n.Loc)
		return env.DB.Arena.Alloc(&entity.ConversionValue{StaticType: env.DB.System.AnyType}), nil
	}
	s := scope.Get(env.DB.Arena, act)
	if s.This.IsNil() {
		env.DB.Sink.Add(diag.KindInvalidThis, n.Loc)
		return env.DB.Arena.Alloc(&entity.ConversionValue{StaticType: env.DB.System.AnyType}), nil
	}
	return s.This, nil
}

func evaluateIdentifier(env *Env, n *ast.Node, mode Mode) (entity.Handle, error) {
	res := scope.LookupChain(env.DB.Arena, env.Chain.Current(), n.Name, env.OpenNs)
	switch res.Status {
	case scope.Found:
		if entity.IsUnresolved(env.DB.Arena.Get(res.Entity)) {
			return entity.Nil, phase.NewDefer()
		}
		scope.MarkImportReferenced(env.DB.Arena, env.Chain.Current(), res.Entity)
		markCaptureIfCrossesActivation(env, res.Entity)
		return referenceTo(env, res.Entity)
	case scope.Ambiguous:
		env.DB.Sink.Add(diag.KindAmbiguousReference, n.Loc, res.Name)
		return env.DB.Arena.Alloc(&entity.ConversionValue{StaticType: env.DB.System.AnyType}), nil
	default:
		if mode == Write {
			// An implicit-global write target in a dynamic scope is
			// tolerated without a diagnostic; the caller (assignment)
			// is responsible for declaring it if that's legal here.
			return env.DB.Arena.Alloc(&entity.ConversionValue{StaticType: env.DB.System.AnyType}), nil
		}
		env.DB.Sink.Add(diag.KindUnresolvedReference, n.Loc, n.Name)
		return env.DB.Arena.Alloc(&entity.ConversionValue{StaticType: env.DB.System.AnyType}), nil
	}
}

// markCaptureIfCrossesActivation marks property captured on the
// nearest enclosing activation when the resolved entity belongs to an
// outer activation, per the Local Capture Detection rule (spec
// section 4.5 / SPEC_FULL.md).
func markCaptureIfCrossesActivation(env *Env, property entity.Handle) {
	act := scope.SearchActivation(env.DB.Arena, env.Chain.Current())
	if act.IsNil() {
		return
	}
	s := scope.Get(env.DB.Arena, act)
	if s != nil {
		s.MarkCaptured(property)
	}
}

// referenceTo wraps a resolved slot/type/namespace entity as a value
// node of its natural static type.
func referenceTo(env *Env, resolved entity.Handle) (entity.Handle, error) {
	switch v := env.DB.Arena.Get(resolved).(type) {
	case *entity.VariableSlot:
		if !v.Constant.IsNil() {
			return v.Constant, nil
		}
		return env.DB.Arena.Alloc(&entity.Reference{RefKind: entity.RefScope, Property: resolved, StaticType: v.StaticType}), nil
	case *entity.VirtualSlot:
		return env.DB.Arena.Alloc(&entity.Reference{RefKind: entity.RefScope, Property: resolved, StaticType: v.StaticType}), nil
	case *entity.MethodSlot:
		return env.DB.Arena.Alloc(&entity.Reference{RefKind: entity.RefScope, Property: resolved, StaticType: entity.Nil}), nil
	case *entity.Namespace:
		return env.DB.Arena.Alloc(&entity.Constant{ConstKind: entity.ConstNamespace, NamespaceValue: resolved, StaticType: env.DB.System.AnyType}), nil
	case *entity.Alias:
		if entity.IsUnresolved(env.DB.Arena.Get(v.AliasOf)) {
			return entity.Nil, phase.NewDefer()
		}
		return referenceTo(env, v.AliasOf)
	default:
		// A type/namespace/package name used as a value (e.g. `int(x)`
		// cast-call syntax): the Reference's StaticType is itself,
		// conventionally a Type-kinded Constant.
		return env.DB.Arena.Alloc(&entity.Constant{ConstKind: entity.ConstType, TypeValue: resolved, StaticType: env.DB.System.AnyType}), nil
	}
}

func evaluateArrayLiteral(env *Env, n *ast.Node) (entity.Handle, error) {
	for _, k := range n.Kids {
		if _, err := Evaluate(env, k, Read); err != nil {
			return entity.Nil, err
		}
	}
	elemType := env.DB.Arena.InternSubstitution(env.DB.System.VectorOrig, []entity.Handle{env.DB.System.AnyType})
	_ = elemType
	arr := env.DB.System.Array
	return env.DB.Arena.Alloc(&entity.ConversionValue{StaticType: arr}), nil
}

// evaluateFunctionExpression builds a function expression's signature
// the same way internal/directive's function-definition Beta phase
// does (annotated params default to `*`, a rest param must be an
// Array, the result type Promise-wraps when the body awaits), but
// defers the body itself: a closure created while evaluating an
// initializer or call argument is checked once the surrounding
// directive fixed point settles, via Database.DeferClosure.
func evaluateFunctionExpression(env *Env, n *ast.Node) (entity.Handle, error) {
	actH := scope.New(env.DB.Arena, scope.Activation, env.Chain.Current())
	act := scope.Get(env.DB.Arena, actH)
	act.InternalNs = env.DB.System.PublicNs
	act.PublicNs = env.DB.System.PublicNs

	params := make([]entity.Param, 0, len(n.Params))
	seenOptional, seenRest := false, false
	for _, pid := range n.Params {
		pn := env.Tree.Get(pid)
		if pn == nil {
			continue
		}
		kind := entity.ParamRequired
		switch pn.ParamMode {
		case ast.ParamOptional:
			kind = entity.ParamOptional
		case ast.ParamRest:
			kind = entity.ParamRest
		}
		switch kind {
		case entity.ParamOptional:
			seenOptional = true
		case entity.ParamRequired:
			if seenOptional || seenRest {
				env.DB.Sink.Add(diag.KindIncorrectNumArguments, pn.Loc)
			}
		case entity.ParamRest:
			seenRest = true
		}

		var pType entity.Handle
		switch {
		case kind == entity.ParamRest:
			if pn.Annotation != 0 {
				resolved, err := ResolveTypeExpression(env, pn.Annotation)
				if err != nil {
					return entity.Nil, err
				}
				if !conversion.IsSubtype(env.DB.Arena, resolved, env.DB.System.Array) && resolved != env.DB.System.Array {
					env.DB.Sink.Add(diag.KindRestParameterMustBeArray, pn.Loc)
					pType = env.DB.System.Array
				} else {
					pType = resolved
				}
			} else {
				pType = env.DB.System.Array
			}
		case pn.Annotation != 0:
			resolved, err := ResolveTypeExpression(env, pn.Annotation)
			if err != nil {
				return entity.Nil, err
			}
			pType = resolved
		default:
			pType = env.DB.System.AnyType
		}
		params = append(params, entity.Param{ParamKind: kind, StaticType: pType})
	}

	resultType := env.DB.System.AnyType
	switch {
	case n.Annotation != 0:
		resolved, err := ResolveTypeExpression(env, n.Annotation)
		if err != nil {
			return entity.Nil, err
		}
		resultType = resolved
	case n.ContainsAwait:
		resultType = env.DB.Arena.InternSubstitution(env.DB.System.PromiseOrig, []entity.Handle{env.DB.System.AnyType})
	}

	ftH := env.DB.Arena.Alloc(&entity.FunctionType{Params: params, ResultType: resultType})

	if n.Body != 0 {
		env.DB.DeferClosure(db.DeferredClosure{
			Tree:       env.Tree,
			Node:       n.Body,
			Activation: actH,
			ResultType: resultType,
		})
	}

	return env.DB.Arena.Alloc(&entity.ConversionValue{StaticType: ftH}), nil
}
