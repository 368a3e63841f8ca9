package directive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whackengine/verifier/internal/ast"
	"github.com/whackengine/verifier/internal/diag"
	"github.com/whackengine/verifier/internal/entity"
	"github.com/whackengine/verifier/internal/scope"
)

func pushTestPackageScope(t *testing.T, ctx *Context, dotted string) (entity.Handle, *entity.Package) {
	t.Helper()
	pkg := &entity.Package{
		PublicNs:   ctx.DB.System.PublicNs,
		InternalNs: ctx.internalNamespace(),
		Properties: map[entity.QName]entity.Handle{},
	}
	pkgH := ctx.DB.Arena.Alloc(pkg)
	top := scope.Get(ctx.DB.Arena, ctx.DB.TopScope)
	top.Properties[entity.QName{Ns: ctx.DB.System.PublicNs, Local: dotted}] = pkgH

	own := scope.New(ctx.DB.Arena, scope.Package, ctx.Chain.Current())
	os := scope.Get(ctx.DB.Arena, own)
	os.Of = pkgH
	os.PublicNs = pkg.PublicNs
	os.InternalNs = pkg.InternalNs
	ctx.Chain.PushExisting(own)
	return pkgH, pkg
}

func TestVerifyPackageConcat_WildcardAppendsConcat(t *testing.T) {
	ctx, tree := newInterfaceTestCtx(t)
	_, pkg := pushTestPackageScope(t, ctx, "app")
	declareTestPackage(t, ctx, "lib", map[string]entity.Handle{})

	node := tree.Add(&ast.Node{Kind: ast.KindPackageConcatDirective, Name: "lib.*"})
	runToFinish(t, ctx, node, func() error { return VerifyPackageConcat(ctx, node) })

	assert.Len(t, pkg.PackageConcats, 1)
	assert.Empty(t, ctx.DB.Sink.All())
}

func TestVerifyPackageConcat_RecursiveSelfReferenceIsDiagnosed(t *testing.T) {
	ctx, tree := newInterfaceTestCtx(t)
	pkgH, _ := pushTestPackageScope(t, ctx, "app")
	_ = pkgH

	node := tree.Add(&ast.Node{Kind: ast.KindPackageConcatDirective, Name: "app.**"})
	runToFinish(t, ctx, node, func() error { return VerifyPackageConcat(ctx, node) })

	var kinds []diag.Kind
	for _, d := range ctx.DB.Sink.All() {
		kinds = append(kinds, d.Kind)
	}
	assert.Contains(t, kinds, diag.KindRecursivePackageConcatSelfReference)
}

func TestVerifyPackageConcat_IdentifierFormDefinesAlias(t *testing.T) {
	ctx, tree := newInterfaceTestCtx(t)
	_, pkg := pushTestPackageScope(t, ctx, "app")

	classH := ctx.DB.Arena.Alloc(&entity.ClassType{QName: entity.QName{Ns: ctx.DB.System.PublicNs, Local: "Helper"}, Properties: map[entity.QName]entity.Handle{}})
	declareTestPackage(t, ctx, "lib", map[string]entity.Handle{"Helper": classH})

	node := tree.Add(&ast.Node{Kind: ast.KindPackageConcatDirective, Name: "lib.Helper"})
	runToFinish(t, ctx, node, func() error { return VerifyPackageConcat(ctx, node) })

	qn := entity.QName{Ns: pkg.PublicNs, Local: "Helper"}
	aliasH, ok := pkg.Properties[qn]
	require.True(t, ok)
	alias, ok := ctx.DB.Arena.Get(aliasH).(*entity.Alias)
	require.True(t, ok)
	assert.Equal(t, classH, alias.AliasOf)
}
