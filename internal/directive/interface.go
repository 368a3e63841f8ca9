package directive

import (
	"github.com/whackengine/verifier/internal/ast"
	"github.com/whackengine/verifier/internal/conversion"
	"github.com/whackengine/verifier/internal/diag"
	"github.com/whackengine/verifier/internal/entity"
	"github.com/whackengine/verifier/internal/expression"
	"github.com/whackengine/verifier/internal/phase"
	"github.com/whackengine/verifier/internal/scope"
)

// VerifyInterface implements spec section 4.4's interface-definition
// contract: analogous to VerifyClass but with only method/getter/setter
// declarations (no bodies, no storage, no modifiers besides the access
// namespace, which is always public) and no constructor.
//
//	Alpha: intern the InterfaceType, push its own scope, declare a
//	       MethodSlot/VirtualSlot for each declaration (signature-less).
//	Beta:  resolve `extends` (an interface may extend several others);
//	       build each declaration's signature.
//	Omega: no body to verify -- finish.
func VerifyInterface(ctx *Context, node ast.NodeID) error {
	n := ctx.Tree.Get(node)
	if n == nil {
		return nil
	}
	p := ctx.phaseOf(node)

	switch p {
	case phase.Alpha:
		return verifyInterfaceAlpha(ctx, node, n)
	case phase.Beta:
		return verifyInterfaceBeta(ctx, node, n)
	case phase.Delta, phase.Epsilon:
		ctx.advance(node)
		return phase.NewDefer()
	case phase.Omega:
		ctx.Phases.Finish(node)
		return nil
	}
	return nil
}

func verifyInterfaceAlpha(ctx *Context, node ast.NodeID, n *ast.Node) error {
	ifaceH := ctx.DB.Arena.Alloc(&entity.InterfaceType{
		QName:      entity.QName{Ns: ctx.DB.System.PublicNs, Local: n.Name},
		Properties: map[entity.QName]entity.Handle{},
		Events:     map[string]entity.EventInfo{},
	})
	iface := ctx.DB.Arena.Get(ifaceH).(*entity.InterfaceType)
	ctx.DB.Assign(node, ifaceH)

	for _, name := range n.TypeParamNames {
		iface.TypeParams = append(iface.TypeParams, ctx.DB.Arena.Alloc(&entity.TypeParameterType{Name: name}))
	}
	for _, m := range collectMetadata(ctx, n.Metadata) {
		if m.Name == "Event" {
			info := parseEventInfo(m)
			iface.Events[info.Name] = info
		}
	}

	own := scope.New(ctx.DB.Arena, scope.Interface, ctx.Chain.Current())
	os := scope.Get(ctx.DB.Arena, own)
	os.Of = ifaceH
	os.Properties = iface.Properties
	os.PublicNs = ctx.DB.System.PublicNs

	ctx.Chain.PushExisting(own)
	for _, id := range n.Kids {
		if verr := visitInterfaceMember(ctx, id, ifaceH, false); verr != nil && !phase.IsDefer(verr) {
			ctx.Chain.Pop()
			return verr
		}
	}
	ctx.Chain.Pop()

	s := ctx.Chain.Current()
	scope.Get(ctx.DB.Arena, s).Properties[iface.QName] = ifaceH
	ctx.advance(node)
	return phase.NewDefer()
}

func verifyInterfaceBeta(ctx *Context, node ast.NodeID, n *ast.Node) error {
	ifaceH := ctx.DB.EntityFor(node)
	iface := ctx.DB.Arena.Get(ifaceH).(*entity.InterfaceType)

	for _, extID := range n.Implements {
		resolved, err := expression.ResolveTypeExpression(ctx.Env, extID)
		if err != nil {
			return err
		}
		if resolved == ifaceH {
			ctx.DB.Sink.Add(diag.KindExtendingSelfReferentialInterface, n.Loc)
			continue
		}
		if _, ok := ctx.DB.Arena.Get(resolved).(*entity.InterfaceType); !ok {
			ctx.DB.Sink.Add(diag.KindNotAnInterface, ctx.Tree.Get(extID).Loc)
			continue
		}
		iface.Extends = append(iface.Extends, resolved)
		if ext, ok := ctx.DB.Arena.Get(resolved).(*entity.InterfaceType); ok {
			ext.KnownImplementors = append(ext.KnownImplementors, ifaceH)
		}
	}

	own := findInterfaceScope(ctx, ifaceH)
	if !own.IsNil() {
		ctx.Chain.PushExisting(own)
	}
	var firstErr error
	for _, id := range n.Kids {
		if verr := visitInterfaceMember(ctx, id, ifaceH, true); verr != nil && !phase.IsDefer(verr) && firstErr == nil {
			firstErr = verr
		}
	}
	if !own.IsNil() {
		ctx.Chain.Pop()
	}
	if firstErr != nil {
		return firstErr
	}

	ctx.advance(node)
	return phase.NewDefer()
}

// findInterfaceScope locates the Interface-variant scope declared for
// ifaceH among the current scope chain's ancestors, walking up from
// the chain's current position the same way a class looks up its
// cached Fixture scope -- an interface has no dedicated field to cache
// it on, so the search walks Parent links instead.
func findInterfaceScope(ctx *Context, ifaceH entity.Handle) entity.Handle {
	for h := ctx.Chain.Current(); !h.IsNil(); {
		s := scope.Get(ctx.DB.Arena, h)
		if s.Variant == scope.Interface && s.Of == ifaceH {
			return h
		}
		h = s.Parent
	}
	return entity.Nil
}

// visitInterfaceMember builds the MethodSlot/VirtualSlot for one
// method/getter/setter declaration. buildingSignature is false for the
// Alpha pass, which declares the slot, and true for the Beta pass,
// which builds the signature. Both callers ignore a Defer returned
// here, so the interface's Alpha and Beta each finish in a single
// round.
func visitInterfaceMember(ctx *Context, id ast.NodeID, ifaceH entity.Handle, buildingSignature bool) error {
	n := ctx.Tree.Get(id)
	if n == nil || n.Kind != ast.KindFunctionDef {
		return nil
	}
	iface := ctx.DB.Arena.Get(ifaceH).(*entity.InterfaceType)

	if !buildingSignature {
		return verifyInterfaceMethodAlpha(ctx, id, n, iface)
	}
	return verifyInterfaceMethodBeta(ctx, id, n, iface)
}

func verifyInterfaceMethodAlpha(ctx *Context, id ast.NodeID, n *ast.Node, iface *entity.InterfaceType) error {
	qn := entity.QName{Ns: ctx.DB.System.PublicNs, Local: n.Name}

	methodH := ctx.DB.Arena.Alloc(&entity.MethodSlot{QName: qn})
	method := ctx.DB.Arena.Get(methodH).(*entity.MethodSlot)

	if n.IsGetter || n.IsSetter {
		var virtualH entity.Handle
		if existing, ok := iface.Properties[qn]; ok {
			if _, ok := ctx.DB.Arena.Get(existing).(*entity.VirtualSlot); ok {
				virtualH = existing
			}
		}
		if virtualH.IsNil() {
			virtualH = ctx.DB.Arena.Alloc(&entity.VirtualSlot{QName: qn})
			iface.Properties[qn] = virtualH
		}
		vs := ctx.DB.Arena.Get(virtualH).(*entity.VirtualSlot)
		if n.IsGetter {
			vs.Getter = methodH
		} else {
			vs.Setter = methodH
		}
		method.OfVirtualSlot = virtualH
	} else {
		if _, ok := iface.Properties[qn]; ok {
			ctx.DB.Sink.Add(diag.KindDuplicateFunctionDefinition, n.Loc)
		}
		iface.Properties[qn] = methodH
	}

	ctx.DB.Assign(id, methodH)
	return nil
}

func verifyInterfaceMethodBeta(ctx *Context, id ast.NodeID, n *ast.Node, iface *entity.InterfaceType) error {
	methodH := ctx.DB.EntityFor(id)
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
	for _, pid := range n.Params {
		pn := ctx.Tree.Get(pid)
		if pn == nil {
			continue
		}
		kind := astParamKindToEntity(pn.ParamMode)

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
		case n.IsSetter:
			if pn.Annotation != 0 {
				resolved, err := expression.ResolveTypeExpression(ctx.Env, pn.Annotation)
				if err != nil {
					return err
				}
				pType = resolved
			} else {
				pType = ctx.DB.System.AnyType
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
		resultType = resolved
	default:
		ctx.DB.Sink.AddWithSeverity(diag.KindReturnValueHasNoTypeDeclaration, diag.SeverityWarning, n.Loc)
	}

	method.Signature = ctx.DB.Arena.Alloc(&entity.FunctionType{Params: params, ResultType: resultType})
	if virtual != nil && virtual.StaticType.IsNil() {
		if n.IsGetter {
			virtual.StaticType = resultType
		} else if len(params) > 0 {
			virtual.StaticType = params[0].StaticType
		}
	}
	return nil
}
