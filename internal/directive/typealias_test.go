package directive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whackengine/verifier/internal/ast"
	"github.com/whackengine/verifier/internal/entity"
)

func TestVerifyTypeAlias_ResolvesAnnotationToTarget(t *testing.T) {
	ctx, tree := newInterfaceTestCtx(t)

	ifaceNode := tree.Add(&ast.Node{Kind: ast.KindInterfaceDef, Name: "Runnable"})
	runToFinish(t, ctx, ifaceNode, func() error { return VerifyInterface(ctx, ifaceNode) })

	annot := tree.Add(&ast.Node{Kind: ast.KindIdentifier, Name: "Runnable"})
	aliasNode := tree.Add(&ast.Node{Kind: ast.KindTypeAliasDef, Name: "Task", Annotation: annot})

	runToFinish(t, ctx, aliasNode, func() error { return VerifyTypeAlias(ctx, aliasNode) })

	aliasH := ctx.DB.EntityFor(aliasNode)
	alias, ok := ctx.DB.Arena.Get(aliasH).(*entity.Alias)
	require.True(t, ok)

	ifaceH := ctx.DB.EntityFor(ifaceNode)
	assert.Equal(t, ifaceH, alias.AliasOf)
}

func TestVerifyTypeAlias_NoAnnotationFinishesUnresolved(t *testing.T) {
	ctx, tree := newInterfaceTestCtx(t)

	aliasNode := tree.Add(&ast.Node{Kind: ast.KindTypeAliasDef, Name: "Opaque"})

	runToFinish(t, ctx, aliasNode, func() error { return VerifyTypeAlias(ctx, aliasNode) })

	aliasH := ctx.DB.EntityFor(aliasNode)
	alias := ctx.DB.Arena.Get(aliasH).(*entity.Alias)
	assert.True(t, entity.IsUnresolved(ctx.DB.Arena.Get(alias.AliasOf)))
}
