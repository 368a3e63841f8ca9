package directive

import (
	"github.com/whackengine/verifier/internal/ast"
	"github.com/whackengine/verifier/internal/diag"
	"github.com/whackengine/verifier/internal/entity"
	"github.com/whackengine/verifier/internal/expression"
	"github.com/whackengine/verifier/internal/phase"
)

// VerifyUseNamespace implements spec section 4.4's `use namespace N1,
// N2, ...` contract across its two phases: Beta resolves each operand
// to a namespace constant and pushes it into the current scope's
// open-namespace set, which every subsequent lookup in the same scope
// (expression member access, type annotation resolution) already
// consults via Env.OpenNs.
func VerifyUseNamespace(ctx *Context, node ast.NodeID) error {
	n := ctx.Tree.Get(node)
	if n == nil {
		return nil
	}
	p := ctx.phaseOf(node)

	switch p {
	case phase.Alpha:
		ctx.advance(node)
		return phase.NewDefer()

	case phase.Beta:
		for _, id := range n.Kids {
			opn := ctx.Tree.Get(id)
			if opn == nil {
				continue
			}
			val, err := expression.Evaluate(ctx.Env, id, expression.Read)
			if err != nil {
				return err
			}
			c, ok := ctx.DB.Arena.Get(val).(*entity.Constant)
			if !ok || c.ConstKind != entity.ConstNamespace {
				ctx.DB.Sink.Add(diag.KindNotANamespaceConstant, opn.Loc)
				continue
			}
			ctx.OpenNs.Add(c.NamespaceValue)
		}
		ctx.Phases.Finish(node)
		return nil
	}
	return nil
}
