package directive

import (
	"github.com/whackengine/verifier/internal/ast"
	"github.com/whackengine/verifier/internal/diag"
	"github.com/whackengine/verifier/internal/entity"
	"github.com/whackengine/verifier/internal/expression"
	"github.com/whackengine/verifier/internal/inheritance"
	"github.com/whackengine/verifier/internal/phase"
	"github.com/whackengine/verifier/internal/scope"
)

// ClassOptions carries the modifiers a class-definition node's
// attributes resolve to, computed by VerifyClass itself from the
// node's Attributes (unlike VariableOptions, a class definition's
// namespace and flags are fully determined by its own attribute list,
// with no enclosing-fixture context the caller needs to supply).
type ClassOptions struct {
	Ns entity.Handle
}

// VerifyClass implements spec section 4.4's class-definition contract.
//
//	Alpha: intern the ClassType (Object is the unique class with no
//	       Extends); apply [RecordLike]/[whack_external]/[Event] flags
//	       and metadata; create the fixture scope, push the private
//	       namespace, declare type parameters; visit the body once,
//	       non-deferring.
//	Beta:  resolve extends (reject self-cycles and a final base),
//	       contribute to the base's KnownSubclasses; resolve implements.
//	       Event metadata types are not resolved and no protected
//	       namespaces are opened in this phase.
//	Omega: re-visit the body, deferring; check abstract-member
//	       coverage; require a constructor when the base requires
//	       arguments; check the RecordLike ctor-empty constraint; run
//	       interface-implementation verification.
func VerifyClass(ctx *Context, node ast.NodeID) error {
	n := ctx.Tree.Get(node)
	if n == nil {
		return nil
	}
	p := ctx.phaseOf(node)

	switch p {
	case phase.Alpha:
		return verifyClassAlpha(ctx, node, n)
	case phase.Beta:
		return verifyClassBeta(ctx, node, n)
	case phase.Delta, phase.Epsilon:
		ctx.advance(node)
		return phase.NewDefer()
	case phase.Omega:
		return verifyClassOmega(ctx, node, n)
	}
	return nil
}

func verifyClassAlpha(ctx *Context, node ast.NodeID, n *ast.Node) error {
	mods, err := parseModifiers(ctx, n.Attributes, nil)
	if err != nil {
		return err
	}

	isObject := n.Name == "Object" && ctx.Chain.Depth() == 1

	clsH := ctx.DB.Arena.Alloc(&entity.ClassType{
		QName:      entity.QName{Ns: mods.Ns, Local: n.Name},
		IsFinal:    mods.IsFinal,
		IsStatic:   mods.IsStatic,
		IsDynamic:  mods.IsDynamic,
		Properties: map[entity.QName]entity.Handle{},
	})
	cls := ctx.DB.Arena.Get(clsH).(*entity.ClassType)
	if !isObject {
		cls.Extends = ctx.DB.Arena.Alloc(entity.UnresolvedEntity{DebugName: "extends"})
	}
	ctx.DB.Assign(node, clsH)

	cls.Metadata = collectMetadata(ctx, n.Metadata)
	if _, ok := findMetadata(cls.Metadata, "RecordLike"); ok {
		cls.IsRecordLike = true
	}
	if ext, ok := findMetadata(cls.Metadata, "whack_external"); ok {
		cls.IsExternal = true
		cls.ExternalSlotCount, cls.ExternalLocal = parseExternalSlots(ext)
	}
	cls.Events = map[string]entity.EventInfo{}
	for _, m := range cls.Metadata {
		if m.Name == "Event" {
			info := parseEventInfo(m)
			cls.Events[info.Name] = info
		}
	}

	cls.PrivateNs = ctx.DB.Arena.Alloc(&entity.Namespace{KindTag: entity.NSPrivate, Of: clsH})
	cls.ProtectedNs = ctx.DB.Arena.Alloc(&entity.Namespace{KindTag: entity.NSProtected, Of: clsH})
	cls.StaticProtectedNs = ctx.DB.Arena.Alloc(&entity.Namespace{KindTag: entity.NSStaticProtected, Of: clsH})
	cls.PublicNs = ctx.DB.System.PublicNs

	for _, name := range n.TypeParamNames {
		cls.TypeParams = append(cls.TypeParams, ctx.DB.Arena.Alloc(&entity.TypeParameterType{Name: name}))
	}

	fixture := scope.New(ctx.DB.Arena, scope.Fixture, ctx.Chain.Current())
	fs := scope.Get(ctx.DB.Arena, fixture)
	fs.Of = clsH
	fs.Properties = cls.Properties
	fs.PublicNs = cls.PublicNs
	fs.InternalNs = ctx.internalNamespace()
	cls.Prototype = fixture

	savedOpenNs := ctx.OpenNs
	ctx.OpenNs = savedOpenNs.Clone()
	ctx.OpenNs.Add(cls.PrivateNs)
	ctx.Chain.PushExisting(fixture)
	for _, id := range n.Kids {
		if verr := visitMember(ctx, id, clsH, false); verr != nil && !phase.IsDefer(verr) {
			ctx.Chain.Pop()
			ctx.OpenNs = savedOpenNs
			return verr
		}
	}
	ctx.Chain.Pop()
	ctx.OpenNs = savedOpenNs

	s := ctx.Chain.Current()
	scope.Get(ctx.DB.Arena, s).Properties[cls.QName] = clsH
	ctx.advance(node)
	return phase.NewDefer()
}

func verifyClassBeta(ctx *Context, node ast.NodeID, n *ast.Node) error {
	cls := ctx.DB.Arena.Get(ctx.DB.EntityFor(node)).(*entity.ClassType)

	switch {
	case n.Extends != 0:
		resolved, err := expression.ResolveTypeExpression(ctx.Env, n.Extends)
		if err != nil {
			return err
		}
		if resolved == ctx.DB.EntityFor(node) {
			ctx.DB.Sink.Add(diag.KindExtendingSelfReferentialClass, n.Loc)
			cls.Extends = ctx.DB.System.Object
		} else if bc, ok := ctx.DB.Arena.Get(resolved).(*entity.ClassType); ok {
			if bc.IsFinal {
				ctx.DB.Sink.Add(diag.KindCannotExtendFinalClass, n.Loc)
			}
			bc.KnownSubclasses = append(bc.KnownSubclasses, ctx.DB.EntityFor(node))
			cls.Extends = resolved
		} else {
			ctx.DB.Sink.Add(diag.KindNotAClass, n.Loc)
			cls.Extends = ctx.DB.System.Object
		}
	case cls.Extends.IsNil():
		// Object itself: no base class.
	default:
		cls.Extends = ctx.DB.System.Object
	}

	for _, implID := range n.Implements {
		resolved, err := expression.ResolveTypeExpression(ctx.Env, implID)
		if err != nil {
			return err
		}
		if _, ok := ctx.DB.Arena.Get(resolved).(*entity.InterfaceType); !ok {
			ctx.DB.Sink.Add(diag.KindNotAnInterface, ctx.Tree.Get(implID).Loc)
			continue
		}
		cls.Implements = append(cls.Implements, resolved)
	}

	ctx.advance(node)
	return phase.NewDefer()
}

func verifyClassOmega(ctx *Context, node ast.NodeID, n *ast.Node) error {
	clsH := ctx.DB.EntityFor(node)
	cls := ctx.DB.Arena.Get(clsH).(*entity.ClassType)

	if entity.IsUnresolved(ctx.DB.Arena.Get(cls.Extends)) {
		return phase.NewDefer()
	}

	fixture := findFixtureScope(ctx, clsH)
	savedOpenNs := ctx.OpenNs
	ctx.OpenNs = savedOpenNs.Clone()
	ctx.OpenNs.Add(cls.PrivateNs)
	if !fixture.IsNil() {
		ctx.Chain.PushExisting(fixture)
	}
	var firstErr error
	for _, id := range n.Kids {
		if verr := visitMember(ctx, id, clsH, true); verr != nil && !phase.IsDefer(verr) && firstErr == nil {
			firstErr = verr
		}
	}
	if !fixture.IsNil() {
		ctx.Chain.Pop()
	}
	ctx.OpenNs = savedOpenNs
	if firstErr != nil {
		return firstErr
	}

	if cls.IsRecordLike {
		if cls.Extends != ctx.DB.System.Object {
			ctx.DB.Sink.Add(diag.KindRecordLikeClassMustExtendObject, n.Loc)
		}
		if ctor, ok := ctx.DB.Arena.Get(cls.Ctor).(*entity.MethodSlot); ok {
			if ft, ok := ctx.DB.Arena.Get(ctor.Signature).(*entity.FunctionType); ok && len(ft.Params) > 0 {
				ctx.DB.Sink.Add(diag.KindRecordLikeClassMustHaveEmptyConstructor, n.Loc)
			}
		}
	}

	if baseRequiresCtorArgs(ctx, cls) && cls.Ctor.IsNil() {
		ctx.DB.Sink.Add(diag.KindClassMustDefineAConstructor, n.Loc)
	}

	inheritance.CheckAbstractCoverage(ctx.DB.Arena, ctx.DB.Sink, n.Loc, clsH)
	inheritance.CheckInterfaceImplementations(ctx.DB.Arena, ctx.DB.Sink, n.Loc, clsH)

	ctx.Phases.Finish(node)
	return nil
}

// baseRequiresCtorArgs reports whether cls's nearest ancestor with a
// constructor requires at least one argument, meaning cls must define
// its own constructor (to supply a super() call) rather than rely on
// an implicit no-arg one.
func baseRequiresCtorArgs(ctx *Context, cls *entity.ClassType) bool {
	h := cls.Extends
	for !h.IsNil() {
		base, ok := ctx.DB.Arena.Get(h).(*entity.ClassType)
		if !ok {
			return false
		}
		if !base.Ctor.IsNil() {
			ctor, ok := ctx.DB.Arena.Get(base.Ctor).(*entity.MethodSlot)
			if !ok {
				return false
			}
			ft, ok := ctx.DB.Arena.Get(ctor.Signature).(*entity.FunctionType)
			if !ok {
				return false
			}
			for _, p := range ft.Params {
				if p.ParamKind == entity.ParamRequired {
					return true
				}
			}
			return false
		}
		h = base.Extends
	}
	return false
}

// findFixtureScope returns the Fixture scope allocated for a class at
// Alpha, cached on ClassType.Prototype (this core has no separate
// prototype-object representation, so the field is repurposed to hold
// the fixture scope handle instead).
func findFixtureScope(ctx *Context, typeH entity.Handle) entity.Handle {
	if cls, ok := ctx.DB.Arena.Get(typeH).(*entity.ClassType); ok {
		return cls.Prototype
	}
	return entity.Nil
}
