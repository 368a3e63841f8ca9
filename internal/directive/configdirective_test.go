package directive

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/whackengine/verifier/internal/ast"
	"github.com/whackengine/verifier/internal/config"
	"github.com/whackengine/verifier/internal/diag"
)

func TestVerifyConfigDirective_FalseDropsNestedDirective(t *testing.T) {
	ctx, tree := newInterfaceTestCtx(t)
	ctx.DB.Config = &config.CompilerOptions{Defines: map[string]string{"CONFIG::debug": "false"}}

	importNode := tree.Add(&ast.Node{Kind: ast.KindImportDirective, Name: "nonexistent.pkg.Thing"})
	configNode := tree.Add(&ast.Node{Kind: ast.KindConfigDirective, Name: "CONFIG::debug", Kids: []ast.NodeID{importNode}})

	runToFinish(t, ctx, configNode, func() error { return VerifyConfigDirective(ctx, configNode) })

	assert.Empty(t, ctx.DB.Sink.All())
	assert.False(t, ctx.Phases.IsFinished(importNode))
}

func TestVerifyConfigDirective_TrueInlinesBlock(t *testing.T) {
	ctx, tree := newInterfaceTestCtx(t)
	ctx.DB.Config = &config.CompilerOptions{Defines: map[string]string{"CONFIG::debug": "true"}}

	lit := tree.Add(&ast.Node{Kind: ast.KindStringLiteral, StringValue: "dbg"})
	nsAlias := tree.Add(&ast.Node{Kind: ast.KindNamespaceAliasDef, Name: "DebugNs", Kids: []ast.NodeID{lit}})
	block := tree.Add(&ast.Node{Kind: ast.KindBlock, Kids: []ast.NodeID{nsAlias}})
	configNode := tree.Add(&ast.Node{Kind: ast.KindConfigDirective, Name: "CONFIG::debug", Kids: []ast.NodeID{block}})

	runToFinish(t, ctx, configNode, func() error { return VerifyConfigDirective(ctx, configNode) })

	assert.True(t, ctx.Phases.IsFinished(nsAlias))
}

func TestVerifyConfigDirective_UndefinedConstantIsDiagnosed(t *testing.T) {
	ctx, tree := newInterfaceTestCtx(t)

	configNode := tree.Add(&ast.Node{Kind: ast.KindConfigDirective, Name: "CONFIG::missing"})
	runToFinish(t, ctx, configNode, func() error { return VerifyConfigDirective(ctx, configNode) })

	var kinds []diag.Kind
	for _, d := range ctx.DB.Sink.All() {
		kinds = append(kinds, d.Kind)
	}
	assert.Contains(t, kinds, diag.KindCannotResolveConfigConstant)
}
