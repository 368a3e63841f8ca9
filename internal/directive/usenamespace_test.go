package directive

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/whackengine/verifier/internal/ast"
	"github.com/whackengine/verifier/internal/entity"
)

func TestVerifyUseNamespace_OpensResolvedNamespace(t *testing.T) {
	ctx, tree := newInterfaceTestCtx(t)

	lit := tree.Add(&ast.Node{Kind: ast.KindStringLiteral, StringValue: "http://example.com/ns"})
	aliasNode := tree.Add(&ast.Node{Kind: ast.KindNamespaceAliasDef, Name: "ExampleNs", Kids: []ast.NodeID{lit}})
	runToFinish(t, ctx, aliasNode, func() error { return VerifyNamespaceAlias(ctx, aliasNode) })

	aliasH := ctx.DB.EntityFor(aliasNode)
	alias := ctx.DB.Arena.Get(aliasH).(*entity.Alias)

	ref := tree.Add(&ast.Node{Kind: ast.KindIdentifier, Name: "ExampleNs"})
	useNode := tree.Add(&ast.Node{Kind: ast.KindUseNamespaceDirective, Kids: []ast.NodeID{ref}})

	runToFinish(t, ctx, useNode, func() error { return VerifyUseNamespace(ctx, useNode) })

	assert.True(t, ctx.OpenNs.Contains(alias.AliasOf))
	assert.Empty(t, ctx.DB.Sink.All())
}

func TestVerifyUseNamespace_NonNamespaceOperandIsDiagnosed(t *testing.T) {
	ctx, tree := newInterfaceTestCtx(t)

	num := tree.Add(&ast.Node{Kind: ast.KindNumericLiteral, NumberValue: "1"})
	useNode := tree.Add(&ast.Node{Kind: ast.KindUseNamespaceDirective, Kids: []ast.NodeID{num}})

	runToFinish(t, ctx, useNode, func() error { return VerifyUseNamespace(ctx, useNode) })

	assert.NotEmpty(t, ctx.DB.Sink.All())
}
