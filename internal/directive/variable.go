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

// VariableOptions carries the modifiers a variable-definition node's
// attributes resolve to, computed once by the caller (directive
// dispatch) before VerifyVariable is invoked.
type VariableOptions struct {
	ReadOnly     bool // `const` vs `var`
	IsExternal   bool
	HasEmbed     bool
	InFixture    bool // declared directly in a class/interface/package fixture
	Ns           entity.Handle
}

// VerifyVariable implements spec section 4.4's variable-definition
// contract across its five phases. A destructuring pattern is
// rejected (invalidated) up front when InFixture or IsExternal holds,
// since neither context can give every bound name a slot the way a
// local `var` can.
//
// Phase responsibilities:
//
//	Alpha:   reject destructuring in a disallowed context; otherwise
//	         no-op (the slot itself is created in Beta so the
//	         annotation, which may reference a not-yet-declared
//	         sibling type, has a chance to resolve).
//	Beta:    resolve the type annotation (deferring if unresolved),
//	         warning when there is none; intern the VariableSlot,
//	         reporting AConflictExistsWithDefinition when the name is
//	         already defined in the scope.
//	Delta:   (reserved for destructuring sub-pattern expansion; the
//	         single-identifier path used here has nothing to do).
//	Epsilon: (reserved; mirrors Delta).
//	Omega:   implicitly coerce the initializer to the annotation;
//	         enforce the const/extern/initializer rules.
func VerifyVariable(ctx *Context, node ast.NodeID, opts VariableOptions) error {
	n := ctx.Tree.Get(node)
	if n == nil {
		return nil
	}
	p := ctx.phaseOf(node)

	switch p {
	case phase.Alpha:
		if n.Kind == ast.KindDestructuringPattern && (opts.InFixture || opts.IsExternal) {
			ctx.DB.Arena.Invalidate(ctx.DB.EntityFor(node), "destructuring forbidden in this context")
			ctx.DB.Sink.Add(diag.KindCannotUseDestructuringHere, n.Loc)
			ctx.Phases.Finish(node)
			return nil
		}
		ctx.advance(node)
		return phase.NewDefer()

	case phase.Beta:
		staticType := ctx.DB.System.AnyType
		if n.Annotation != 0 {
			resolved, err := expression.ResolveTypeExpression(ctx.Env, n.Annotation)
			if err != nil {
				return err
			}
			staticType = resolved
		} else {
			ctx.DB.Sink.AddWithSeverity(diag.KindVariableHasNoTypeAnnotation, diag.SeverityWarning, n.Loc)
		}

		slot := ctx.DB.Arena.Alloc(&entity.VariableSlot{
			QName:      entity.QName{Ns: opts.Ns, Local: n.Name},
			ReadOnly:   opts.ReadOnly,
			StaticType: staticType,
			Location:   n.Loc,
		})
		ctx.DB.Assign(node, slot)
		s := ctx.Chain.Current()
		scopeOf := scope.Get(ctx.DB.Arena, s)
		if scopeOf != nil {
			qn := entity.QName{Ns: opts.Ns, Local: n.Name}
			if _, exists := scopeOf.Properties[qn]; exists {
				ctx.DB.Sink.Add(diag.KindAConflictExistsWithDefinition, n.Loc)
			}
			scopeOf.Properties[qn] = slot
		}
		ctx.advance(node)
		return phase.NewDefer()

	case phase.Delta, phase.Epsilon:
		ctx.advance(node)
		return phase.NewDefer()

	case phase.Omega:
		return verifyVariableOmega(ctx, node, n, opts)
	}
	return nil
}

func verifyVariableOmega(ctx *Context, node ast.NodeID, n *ast.Node, opts VariableOptions) error {
	slotH := ctx.DB.EntityFor(node)
	slot, ok := ctx.DB.Arena.Get(slotH).(*entity.VariableSlot)
	if !ok {
		ctx.Phases.Finish(node)
		return nil
	}

	hasInitializer := len(n.Kids) > 0
	var initNode ast.NodeID
	if hasInitializer {
		initNode = n.Kids[0]
	}

	if opts.IsExternal {
		if !hasInitializer {
			ctx.DB.Sink.Add(diag.KindExternalInitializerMustBeConstant, n.Loc)
			ctx.Phases.Finish(node)
			return nil
		}
		initVal, err := expression.Evaluate(ctx.Env, initNode, expression.Read)
		if err != nil {
			return err
		}
		if _, isConst := ctx.DB.Arena.Get(initVal).(*entity.Constant); !isConst {
			ctx.DB.Sink.Add(diag.KindExternalInitializerMustBeConstant, n.Loc)
		}
		ctx.Phases.Finish(node)
		return nil
	}

	if opts.ReadOnly && !opts.HasEmbed && !hasInitializer {
		ctx.DB.Sink.Add(diag.KindConstantMustContainInitializer, n.Loc)
		ctx.Phases.Finish(node)
		return nil
	}

	if hasInitializer {
		initVal, err := expression.Evaluate(ctx.Env, initNode, expression.Read)
		if err != nil {
			return err
		}
		coerced, ok, err := conversion.Implicit(ctx.DB.Arena, initVal, slot.StaticType)
		if err != nil {
			return err
		}
		if !ok {
			ctx.DB.Sink.Add(diag.KindImplicitCoercionToUnrelatedType, n.Loc,
				conversion.DisplayName(ctx.DB.Arena, conversion.TypeOf(ctx.DB.Arena, initVal)),
				conversion.DisplayName(ctx.DB.Arena, slot.StaticType))
		} else if opts.ReadOnly {
			if c, isConst := ctx.DB.Arena.Get(coerced).(*entity.Constant); isConst {
				slot.Constant = ctx.DB.Arena.Alloc(c)
			}
		}
	} else if n.Annotation == 0 {
		// Both annotation and initializer absent: already warned about
		// the missing annotation in Beta; nothing further to add here.
	}

	ctx.Phases.Finish(node)
	return nil
}
