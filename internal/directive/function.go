package directive

import (
	"github.com/whackengine/verifier/internal/ast"
	"github.com/whackengine/verifier/internal/conversion"
	"github.com/whackengine/verifier/internal/diag"
	"github.com/whackengine/verifier/internal/entity"
	"github.com/whackengine/verifier/internal/expression"
	"github.com/whackengine/verifier/internal/inheritance"
	"github.com/whackengine/verifier/internal/phase"
	"github.com/whackengine/verifier/internal/scope"
	"github.com/whackengine/verifier/internal/statement"
)

// FunctionOptions carries a function-definition node's resolved
// modifiers and its owning class, when it is a class member.
type FunctionOptions struct {
	Mods       Modifiers
	OwnerClass entity.Handle // Nil for a package-level function.
}

// VerifyFunction implements spec section 4.4's function-definition
// contract (normal / constructor / getter / setter) across its four
// phases.
//
//	Alpha: intern the method slot and its activation and, for a
//	       getter/setter, the shared VirtualSlot (pairing with an
//	       already-interned opposite accessor when present).
//	Beta:  build the signature -- each parameter typed from its
//	       annotation (defaulting to `*`), optional-parameter defaults
//	       coerced to the parameter type and required to be constant,
//	       a rest parameter typed as an Array (defaulting [*]), and
//	       parameter-kind ordering enforced (Required, Optional,
//	       Rest). The result type defaults to `*` (warning) or is
//	       Promise-wrapped when the body contains `await`. Getters
//	       take zero parameters; setters take exactly one, typed to
//	       the virtual slot's static type, and return Void.
//	Delta: override checking against the inheritance chain.
//	Omega: verify the body.
func VerifyFunction(ctx *Context, node ast.NodeID, opts FunctionOptions) error {
	n := ctx.Tree.Get(node)
	if n == nil {
		return nil
	}
	p := ctx.phaseOf(node)

	switch p {
	case phase.Alpha:
		return verifyFunctionAlpha(ctx, node, n, opts)
	case phase.Beta:
		return verifyFunctionBeta(ctx, node, n, opts)
	case phase.Delta:
		return verifyFunctionDelta(ctx, node, n, opts)
	case phase.Epsilon:
		ctx.advance(node)
		return phase.NewDefer()
	case phase.Omega:
		return verifyFunctionOmega(ctx, node, n)
	}
	return nil
}

func currentPropertiesMap(ctx *Context) map[entity.QName]entity.Handle {
	s := scope.Get(ctx.DB.Arena, ctx.Chain.Current())
	return s.Properties
}

func verifyFunctionAlpha(ctx *Context, node ast.NodeID, n *ast.Node, opts FunctionOptions) error {
	qn := entity.QName{Ns: opts.Mods.Ns, Local: n.Name}
	props := currentPropertiesMap(ctx)

	var flags entity.MethodFlags
	if opts.Mods.IsFinal {
		flags |= entity.FlagFinal
	}
	if opts.Mods.IsStatic {
		flags |= entity.FlagStatic
	}
	if opts.Mods.IsNative {
		flags |= entity.FlagNative
	}
	if opts.Mods.IsAbstract {
		flags |= entity.FlagAbstract
	}
	if opts.Mods.IsAsync {
		flags |= entity.FlagAsync
	}
	if n.IsConstructor {
		flags |= entity.FlagCtor
	}
	if opts.Mods.IsOverride {
		flags |= entity.FlagOverriding
	}

	methodH := ctx.DB.Arena.Alloc(&entity.MethodSlot{QName: qn, Flags: flags})
	method := ctx.DB.Arena.Get(methodH).(*entity.MethodSlot)

	if n.IsGetter || n.IsSetter {
		var virtualH entity.Handle
		if existing, ok := props[qn]; ok {
			if _, ok := ctx.DB.Arena.Get(existing).(*entity.VirtualSlot); ok {
				virtualH = existing
			}
		}
		if virtualH.IsNil() {
			virtualH = ctx.DB.Arena.Alloc(&entity.VirtualSlot{QName: qn})
			props[qn] = virtualH
		}
		vs := ctx.DB.Arena.Get(virtualH).(*entity.VirtualSlot)
		if n.IsGetter {
			vs.Getter = methodH
		} else {
			vs.Setter = methodH
		}
		method.OfVirtualSlot = virtualH
	} else if n.IsConstructor {
		if cls, ok := ctx.DB.Arena.Get(opts.OwnerClass).(*entity.ClassType); ok {
			if !cls.Ctor.IsNil() {
				ctx.DB.Sink.Add(diag.KindRedefiningConstructor, n.Loc)
			}
			cls.Ctor = methodH
		}
	} else {
		if existing, ok := props[qn]; ok {
			if _, isMethod := ctx.DB.Arena.Get(existing).(*entity.MethodSlot); isMethod {
				ctx.DB.Sink.Add(diag.KindDuplicateFunctionDefinition, n.Loc)
			} else {
				ctx.DB.Sink.Add(diag.KindAConflictExistsWithDefinition, n.Loc)
			}
		}
		props[qn] = methodH
	}
	method.Parent = opts.OwnerClass

	actH := scope.New(ctx.DB.Arena, scope.Activation, ctx.Chain.Current())
	act := scope.Get(ctx.DB.Arena, actH)
	act.OfMethod = methodH
	act.InternalNs = ctx.internalNamespace()
	act.PublicNs = ctx.DB.System.PublicNs
	if !opts.Mods.IsStatic && !opts.OwnerClass.IsNil() {
		act.This = ctx.DB.Arena.Alloc(&entity.ThisObject{Type: entity.NonNullable(ctx.DB.Arena, opts.OwnerClass)})
	}
	method.Activation = actH

	ctx.DB.Assign(node, methodH)
	ctx.advance(node)
	return phase.NewDefer()
}

func verifyFunctionBeta(ctx *Context, node ast.NodeID, n *ast.Node, opts FunctionOptions) error {
	methodH := ctx.DB.EntityFor(node)
	method := ctx.DB.Arena.Get(methodH).(*entity.MethodSlot)

	if n.IsGetter && len(n.Params) != 0 {
		ctx.DB.Sink.Add(diag.KindGetterMustTakeNoParameters, n.Loc)
	}
	if n.IsSetter && len(n.Params) != 1 {
		ctx.DB.Sink.Add(diag.KindSetterMustTakeOneParameter, n.Loc)
	}

	var virtual *entity.VirtualSlot
	if !method.OfVirtualSlot.IsNil() {
		virtual = ctx.DB.Arena.Get(method.OfVirtualSlot).(*entity.VirtualSlot)
	}

	params := make([]entity.Param, 0, len(n.Params))
	seenOptional, seenRest := false, false
	for _, pid := range n.Params {
		pn := ctx.Tree.Get(pid)
		if pn == nil {
			continue
		}
		kind := astParamKindToEntity(pn.ParamMode)
		switch kind {
		case entity.ParamOptional:
			seenOptional = true
		case entity.ParamRequired:
			if seenOptional || seenRest {
				ctx.DB.Sink.Add(diag.KindIncorrectNumArguments, pn.Loc)
			}
		case entity.ParamRest:
			seenRest = true
		}

		var pType entity.Handle
		switch {
		case kind == entity.ParamRest:
			if pn.Annotation != 0 {
				resolved, err := expression.ResolveTypeExpression(ctx.Env, pn.Annotation)
				if err != nil {
					return err
				}
				if !conversion.IsSubtype(ctx.DB.Arena, resolved, ctx.DB.System.Array) && resolved != ctx.DB.System.Array {
					ctx.DB.Sink.Add(diag.KindRestParameterMustBeArray, pn.Loc)
					pType = ctx.DB.System.Array
				} else {
					pType = resolved
				}
			} else {
				pType = ctx.DB.System.Array
			}
		case n.IsSetter && virtual != nil:
			pType = virtual.StaticType
			if pType.IsNil() {
				pType = ctx.DB.System.AnyType
			}
			if pn.Annotation != 0 {
				resolved, err := expression.ResolveTypeExpression(ctx.Env, pn.Annotation)
				if err != nil {
					return err
				}
				if resolved != pType {
					ctx.DB.Sink.Add(diag.KindSetterMustTakeDataType, pn.Loc)
				}
			}
		case pn.Annotation != 0:
			resolved, err := expression.ResolveTypeExpression(ctx.Env, pn.Annotation)
			if err != nil {
				return err
			}
			pType = resolved
		default:
			pType = ctx.DB.System.AnyType
		}

		if kind == entity.ParamOptional && len(pn.Kids) > 0 {
			def, err := expression.Evaluate(ctx.Env, pn.Kids[0], expression.Read)
			if err != nil {
				return err
			}
			if _, ok := ctx.DB.Arena.Get(def).(*entity.Constant); !ok {
				ctx.DB.Sink.Add(diag.KindEntityIsNotAConstant, pn.Loc)
			} else if _, ok, err := conversion.Implicit(ctx.DB.Arena, def, pType); err != nil {
				return err
			} else if !ok {
				ctx.DB.Sink.Add(diag.KindImplicitCoercionToUnrelatedType, pn.Loc,
					conversion.DisplayName(ctx.DB.Arena, conversion.TypeOf(ctx.DB.Arena, def)),
					conversion.DisplayName(ctx.DB.Arena, pType))
			}
		}

		params = append(params, entity.Param{ParamKind: kind, StaticType: pType})
	}

	resultType := ctx.DB.System.AnyType
	switch {
	case n.IsSetter:
		resultType = ctx.DB.System.VoidType
	case n.Annotation != 0:
		resolved, err := expression.ResolveTypeExpression(ctx.Env, n.Annotation)
		if err != nil {
			return err
		}
		if n.ContainsAwait {
			if _, ok := ctx.DB.Arena.Get(resolved).(*entity.TypeAfterSubstitution); !ok {
				ctx.DB.Sink.Add(diag.KindReturnTypeDeclarationMustBePromise, n.Loc)
			}
		}
		resultType = resolved
	case n.ContainsAwait:
		resultType = ctx.DB.Arena.InternSubstitution(ctx.DB.System.PromiseOrig, []entity.Handle{ctx.DB.System.AnyType})
	default:
		ctx.DB.Sink.AddWithSeverity(diag.KindReturnValueHasNoTypeDeclaration, diag.SeverityWarning, n.Loc)
	}

	ftH := ctx.DB.Arena.Alloc(&entity.FunctionType{Params: params, ResultType: resultType})
	method.Signature = ftH
	if virtual != nil && virtual.StaticType.IsNil() {
		if n.IsGetter {
			virtual.StaticType = resultType
		} else if len(params) > 0 {
			virtual.StaticType = params[0].StaticType
		}
	}

	ctx.advance(node)
	return phase.NewDefer()
}

func astParamKindToEntity(k ast.ParamKind) entity.ParamKind {
	switch k {
	case ast.ParamOptional:
		return entity.ParamOptional
	case ast.ParamRest:
		return entity.ParamRest
	default:
		return entity.ParamRequired
	}
}

func verifyFunctionDelta(ctx *Context, node ast.NodeID, n *ast.Node, opts FunctionOptions) error {
	methodH := ctx.DB.EntityFor(node)
	if !opts.OwnerClass.IsNil() {
		inheritance.CheckOverride(ctx.DB.Arena, ctx.DB.Sink, n.Loc, opts.OwnerClass, methodH, opts.Mods.IsOverride)
	}
	ctx.advance(node)
	return phase.NewDefer()
}

func verifyFunctionOmega(ctx *Context, node ast.NodeID, n *ast.Node) error {
	methodH := ctx.DB.EntityFor(node)
	method := ctx.DB.Arena.Get(methodH).(*entity.MethodSlot)

	if n.Body == 0 {
		if !method.Flags.Has(entity.FlagNative) && !method.Flags.Has(entity.FlagAbstract) {
			ctx.DB.Sink.Add(diag.KindExternalFunctionMustBeNativeOrAbstract, n.Loc)
		}
		ctx.Phases.Finish(node)
		return nil
	}

	ft := ctx.DB.Arena.Get(method.Signature).(*entity.FunctionType)
	ctx.Chain.PushExisting(method.Activation)
	err := statement.VerifyBlock(&statement.Context{Env: ctx.Env, ResultType: ft.ResultType}, n.Body)
	ctx.Chain.Pop()
	if err != nil {
		return err
	}
	ctx.Phases.Finish(node)
	return nil
}
