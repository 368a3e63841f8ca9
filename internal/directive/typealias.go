package directive

import (
	"github.com/whackengine/verifier/internal/ast"
	"github.com/whackengine/verifier/internal/entity"
	"github.com/whackengine/verifier/internal/expression"
	"github.com/whackengine/verifier/internal/phase"
	"github.com/whackengine/verifier/internal/scope"
)

// VerifyTypeAlias implements spec section 4.4's type-alias contract:
// Alpha interns a forwarding Alias entity so other definitions in the
// same unit can reference the alias name before its RHS is resolved;
// Omega resolves the RHS type expression into AliasOf. There is no
// Beta/Delta/Epsilon work.
func VerifyTypeAlias(ctx *Context, node ast.NodeID) error {
	n := ctx.Tree.Get(node)
	if n == nil {
		return nil
	}
	p := ctx.phaseOf(node)

	switch p {
	case phase.Alpha:
		aliasH := ctx.DB.Arena.Alloc(&entity.Alias{
			QName:   entity.QName{Ns: ctx.DB.System.PublicNs, Local: n.Name},
			AliasOf: ctx.DB.Arena.Alloc(entity.UnresolvedEntity{DebugName: "type alias"}),
		})
		ctx.DB.Assign(node, aliasH)
		s := ctx.Chain.Current()
		scope.Get(ctx.DB.Arena, s).Properties[ctx.DB.Arena.Get(aliasH).(*entity.Alias).QName] = aliasH
		ctx.advance(node)
		return phase.NewDefer()

	case phase.Beta, phase.Delta, phase.Epsilon:
		ctx.advance(node)
		return phase.NewDefer()

	case phase.Omega:
		aliasH := ctx.DB.EntityFor(node)
		alias := ctx.DB.Arena.Get(aliasH).(*entity.Alias)
		if n.Annotation == 0 {
			ctx.Phases.Finish(node)
			return nil
		}
		resolved, err := expression.ResolveTypeExpression(ctx.Env, n.Annotation)
		if err != nil {
			return err
		}
		alias.AliasOf = resolved
		ctx.Phases.Finish(node)
		return nil
	}
	return nil
}
