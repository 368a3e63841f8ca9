package directive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whackengine/verifier/internal/ast"
	"github.com/whackengine/verifier/internal/config"
	"github.com/whackengine/verifier/internal/diag"
	"github.com/whackengine/verifier/internal/entity"
)

func TestVerifyNamespaceAlias_StringLiteralResolvesAtAlpha(t *testing.T) {
	ctx, tree := newInterfaceTestCtx(t)

	lit := tree.Add(&ast.Node{Kind: ast.KindStringLiteral, StringValue: "http://example.com/ns"})
	aliasNode := tree.Add(&ast.Node{Kind: ast.KindNamespaceAliasDef, Name: "ExampleNs", Kids: []ast.NodeID{lit}})

	runToFinish(t, ctx, aliasNode, func() error { return VerifyNamespaceAlias(ctx, aliasNode) })

	aliasH := ctx.DB.EntityFor(aliasNode)
	alias := ctx.DB.Arena.Get(aliasH).(*entity.Alias)
	ns, ok := ctx.DB.Arena.Get(alias.AliasOf).(*entity.Namespace)
	require.True(t, ok)
	assert.Equal(t, "http://example.com/ns", ns.URI)
}

func TestVerifyNamespaceAlias_NoRhsSynthesizesUniqueNamespace(t *testing.T) {
	ctx, tree := newInterfaceTestCtx(t)

	aliasNode := tree.Add(&ast.Node{Kind: ast.KindNamespaceAliasDef, Name: "Internal2"})

	runToFinish(t, ctx, aliasNode, func() error { return VerifyNamespaceAlias(ctx, aliasNode) })

	aliasH := ctx.DB.EntityFor(aliasNode)
	alias := ctx.DB.Arena.Get(aliasH).(*entity.Alias)
	ns, ok := ctx.DB.Arena.Get(alias.AliasOf).(*entity.Namespace)
	require.True(t, ok)
	assert.Equal(t, "Main.as#Internal2", ns.URI)
}

func TestVerifyNamespaceAlias_ConflictsWithConfigurationNs(t *testing.T) {
	d, tree := newInterfaceTestCtx(t)
	d.DB.Config = &config.CompilerOptions{Defines: map[string]string{"CONFIG::debug": "true"}}

	aliasNode := tree.Add(&ast.Node{Kind: ast.KindNamespaceAliasDef, Name: "CONFIG"})

	runToFinish(t, d, aliasNode, func() error { return VerifyNamespaceAlias(d, aliasNode) })

	var kinds []diag.Kind
	for _, dd := range d.DB.Sink.All() {
		kinds = append(kinds, dd.Kind)
	}
	assert.Contains(t, kinds, diag.KindNamespaceConflictsWithConfigurationNs)
}
