package directive

import (
	"github.com/whackengine/verifier/internal/ast"
	"github.com/whackengine/verifier/internal/entity"
	"github.com/whackengine/verifier/internal/phase"
)

// visitMember dispatches one class/interface/package body member to
// its definition-kind subverifier. deferring controls whether the
// caller wants this visit to request another round immediately (the
// Alpha "visit once, non-deferring" pass) or let the member's own
// phase state drive further revisits (the Omega "re-visit, deferring"
// pass) -- in both cases the subverifier itself decides whether to
// request a Defer; deferring only suppresses propagating a Defer
// upward from an Alpha-only first pass so a class's own Alpha can
// finish in one round when every member also finishes its Alpha in
// one round.
func visitMember(ctx *Context, id ast.NodeID, ownerH entity.Handle, deferring bool) error {
	n := ctx.Tree.Get(id)
	if n == nil {
		return nil
	}
	owner, _ := ctx.DB.Arena.Get(ownerH).(*entity.ClassType)

	switch n.Kind {
	case ast.KindVariableDef:
		mods, err := parseModifiers(ctx, n.Attributes, owner)
		if err != nil {
			return err
		}
		_, hasEmbed := findMetadata(collectMetadata(ctx, n.Metadata), "Embed")
		opts := VariableOptions{
			ReadOnly:   mods.IsFinal,
			IsExternal: owner != nil && owner.IsExternal,
			HasEmbed:   hasEmbed,
			InFixture:  true,
			Ns:         mods.Ns,
		}
		err = VerifyVariable(ctx, id, opts)
		if !deferring && phase.IsDefer(err) {
			return nil
		}
		return err

	case ast.KindFunctionDef:
		mods, err := parseModifiers(ctx, n.Attributes, owner)
		if err != nil {
			return err
		}
		opts := FunctionOptions{Mods: mods, OwnerClass: ownerH}
		err = VerifyFunction(ctx, id, opts)
		if !deferring && phase.IsDefer(err) {
			return nil
		}
		return err

	case ast.KindClassDef, ast.KindInterfaceDef, ast.KindEnumDef,
		ast.KindTypeAliasDef, ast.KindNamespaceAliasDef, ast.KindUseNamespaceDirective:
		// Nested definitions are not modeled by this core; a package's
		// top-level definitions are visited directly by the
		// Orchestrator instead.
		return nil

	default:
		return nil
	}
}
