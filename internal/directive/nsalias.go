package directive

import (
	"strings"

	"github.com/whackengine/verifier/internal/ast"
	"github.com/whackengine/verifier/internal/diag"
	"github.com/whackengine/verifier/internal/entity"
	"github.com/whackengine/verifier/internal/expression"
	"github.com/whackengine/verifier/internal/phase"
	"github.com/whackengine/verifier/internal/scope"
)

// VerifyNamespaceAlias implements spec section 4.4's namespace-alias
// contract. A literal string RHS ("uri") resolves immediately at
// Alpha, since nothing about it can change across a fixed-point round;
// any other RHS shape (an expression naming another namespace
// constant) or an omitted RHS needs Omega, either to resolve the
// expression or to synthesize a fresh internal namespace once every
// other definition in the unit has had a chance to declare.
func VerifyNamespaceAlias(ctx *Context, node ast.NodeID) error {
	n := ctx.Tree.Get(node)
	if n == nil {
		return nil
	}
	p := ctx.phaseOf(node)

	switch p {
	case phase.Alpha:
		return verifyNamespaceAliasAlpha(ctx, node, n)
	case phase.Beta, phase.Delta, phase.Epsilon:
		ctx.advance(node)
		return phase.NewDefer()
	case phase.Omega:
		return verifyNamespaceAliasOmega(ctx, node, n)
	}
	return nil
}

func verifyNamespaceAliasAlpha(ctx *Context, node ast.NodeID, n *ast.Node) error {
	if configNamespacePrefixes(ctx)[n.Name] {
		ctx.DB.Sink.Add(diag.KindNamespaceConflictsWithConfigurationNs, n.Loc, n.Name)
	}

	qn := entity.QName{Ns: ctx.DB.System.PublicNs, Local: n.Name}
	aliasOf := ctx.DB.Arena.Alloc(entity.UnresolvedEntity{DebugName: "namespace alias"})

	if len(n.Kids) > 0 {
		if rhs := ctx.Tree.Get(n.Kids[0]); rhs != nil && rhs.Kind == ast.KindStringLiteral {
			aliasOf = ctx.DB.Arena.Alloc(&entity.Namespace{KindTag: entity.NSUser, URI: rhs.StringValue})
		}
	}

	aliasH := ctx.DB.Arena.Alloc(&entity.Alias{QName: qn, AliasOf: aliasOf})
	ctx.DB.Assign(node, aliasH)
	s := ctx.Chain.Current()
	scope.Get(ctx.DB.Arena, s).Properties[qn] = aliasH

	ctx.advance(node)
	return phase.NewDefer()
}

func verifyNamespaceAliasOmega(ctx *Context, node ast.NodeID, n *ast.Node) error {
	aliasH := ctx.DB.EntityFor(node)
	alias := ctx.DB.Arena.Get(aliasH).(*entity.Alias)

	if !entity.IsUnresolved(ctx.DB.Arena.Get(alias.AliasOf)) {
		ctx.Phases.Finish(node)
		return nil
	}

	if len(n.Kids) == 0 {
		alias.AliasOf = ctx.DB.Arena.Alloc(&entity.Namespace{KindTag: entity.NSUser, URI: ctx.Tree.CompilationUnit + "#" + n.Name})
		ctx.Phases.Finish(node)
		return nil
	}

	val, err := expression.Evaluate(ctx.Env, n.Kids[0], expression.Read)
	if err != nil {
		return err
	}
	c, ok := ctx.DB.Arena.Get(val).(*entity.Constant)
	if !ok || c.ConstKind != entity.ConstNamespace {
		ctx.DB.Sink.Add(diag.KindNotANamespaceConstant, n.Loc)
		alias.AliasOf = ctx.DB.Arena.Alloc(&entity.Namespace{KindTag: entity.NSUser, URI: ctx.Tree.CompilationUnit + "#" + n.Name})
		ctx.Phases.Finish(node)
		return nil
	}
	alias.AliasOf = c.NamespaceValue
	ctx.Phases.Finish(node)
	return nil
}

// configNamespacePrefixes returns the set of namespace names used as
// the "NAMESPACE" half of a "NAMESPACE::NAME" configuration define,
// against which a namespace alias's own name is checked for collision.
func configNamespacePrefixes(ctx *Context) map[string]bool {
	prefixes := make(map[string]bool, len(ctx.DB.Config.Defines))
	for key := range ctx.DB.Config.Defines {
		if ns, _, ok := strings.Cut(key, "::"); ok {
			prefixes[ns] = true
		}
	}
	return prefixes
}
