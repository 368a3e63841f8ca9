package verifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/whackengine/verifier/internal/ast"
	"github.com/whackengine/verifier/internal/config"
	"github.com/whackengine/verifier/internal/diag"
	"github.com/whackengine/verifier/internal/entity"
	"github.com/whackengine/verifier/internal/scope"
)

func hasKind(ds []diag.Diagnostic, k diag.Kind) bool {
	for _, d := range ds {
		if d.Kind == k {
			return true
		}
	}
	return false
}

func TestOrchestrator_ClassInPackageResolvesWithNoDiagnostics(t *testing.T) {
	o := New(config.Default(), zaptest.NewLogger(t))
	tree := ast.NewTree("Foo.as")

	// Tree.Root() always returns NodeID 1, so the Program node must be
	// the first one Add'd; its Kids are wired in after its children
	// exist, by mutating the already-added *ast.Node in place.
	prog := &ast.Node{Kind: ast.KindProgram}
	tree.Add(prog)

	classNode := tree.Add(&ast.Node{Kind: ast.KindClassDef, Name: "Foo"})
	pkgNode := tree.Add(&ast.Node{Kind: ast.KindPackageDirective, Name: "app", Kids: []ast.NodeID{classNode}})
	prog.Kids = []ast.NodeID{pkgNode}

	o.AddUnit(tree)
	diags, err := o.Run()
	require.NoError(t, err)
	assert.Empty(t, diags)

	top := o.pkgScopes["app"]
	require.False(t, top.IsNil())
}

func TestOrchestrator_ImportAliasAcrossUnitsResolvesToTarget(t *testing.T) {
	o := New(config.Default(), zaptest.NewLogger(t))

	libTree := ast.NewTree("Lib.as")
	libProg := &ast.Node{Kind: ast.KindProgram}
	libTree.Add(libProg)
	helperClass := libTree.Add(&ast.Node{Kind: ast.KindClassDef, Name: "Helper"})
	libPkg := libTree.Add(&ast.Node{Kind: ast.KindPackageDirective, Name: "lib", Kids: []ast.NodeID{helperClass}})
	libProg.Kids = []ast.NodeID{libPkg}

	appTree := ast.NewTree("App.as")
	appProg := &ast.Node{Kind: ast.KindProgram}
	appTree.Add(appProg)
	alias := appTree.Add(&ast.Node{Kind: ast.KindIdentifier, Name: "H"})
	importNode := appTree.Add(&ast.Node{Kind: ast.KindImportDirective, Name: "lib.Helper", Kids: []ast.NodeID{alias}})
	appPkg := appTree.Add(&ast.Node{Kind: ast.KindPackageDirective, Name: "app", Kids: []ast.NodeID{importNode}})
	appProg.Kids = []ast.NodeID{appPkg}

	o.AddUnit(libTree)
	o.AddUnit(appTree)

	diags, err := o.Run()
	require.NoError(t, err)
	assert.False(t, hasKind(diags, diag.KindImportOfUndefined))

	helperH := o.DB.EntityFor(helperClass)
	require.False(t, helperH.IsNil())

	appPkgScopeH := o.pkgScopes["app"]
	require.False(t, appPkgScopeH.IsNil())
	appScope := scope.Get(o.DB.Arena, appPkgScopeH)
	appPkg, ok := o.DB.Arena.Get(appScope.Of).(*entity.Package)
	require.True(t, ok)

	aliasH, ok := appPkg.Properties[entity.QName{Ns: appPkg.InternalNs, Local: "H"}]
	require.True(t, ok)
	alias, ok := o.DB.Arena.Get(aliasH).(*entity.Alias)
	require.True(t, ok)
	assert.Equal(t, helperH, alias.AliasOf)
}

func TestOrchestrator_ReachedMaximumCyclesUnreachableForAcyclicInput(t *testing.T) {
	o := New(config.Default(), zaptest.NewLogger(t))
	tree := ast.NewTree("Cyclic.as")
	prog := &ast.Node{Kind: ast.KindProgram}
	tree.Add(prog)

	classA := tree.Add(&ast.Node{Kind: ast.KindClassDef, Name: "A"})
	classB := tree.Add(&ast.Node{Kind: ast.KindClassDef, Name: "B"})
	pkgNode := tree.Add(&ast.Node{Kind: ast.KindPackageDirective, Name: "app", Kids: []ast.NodeID{classA, classB}})
	prog.Kids = []ast.NodeID{pkgNode}

	o.AddUnit(tree)
	diags, err := o.Run()
	require.NoError(t, err)
	assert.False(t, hasKind(diags, diag.KindReachedMaximumCycles))
}

func TestOrchestrator_DeferredClosureBodyIsVerified(t *testing.T) {
	o := New(config.Default(), zaptest.NewLogger(t))
	tree := ast.NewTree("Main.as")
	prog := &ast.Node{Kind: ast.KindProgram}
	tree.Add(prog)

	returnStmt := tree.Add(&ast.Node{Kind: ast.KindReturnStatement})
	body := tree.Add(&ast.Node{Kind: ast.KindBlock, Kids: []ast.NodeID{returnStmt}})
	resultAnn := tree.Add(&ast.Node{Kind: ast.KindIdentifier, Name: "Number"})
	funcExpr := tree.Add(&ast.Node{Kind: ast.KindFunctionExpression, Annotation: resultAnn, Body: body})
	varNode := tree.Add(&ast.Node{Kind: ast.KindVariableDef, Name: "f", Kids: []ast.NodeID{funcExpr}})
	pkgNode := tree.Add(&ast.Node{Kind: ast.KindPackageDirective, Name: "app", Kids: []ast.NodeID{varNode}})
	prog.Kids = []ast.NodeID{pkgNode}

	o.AddUnit(tree)
	diags, err := o.Run()
	require.NoError(t, err)
	assert.True(t, hasKind(diags, diag.KindReturnValueMustBeSpecified))
}

func TestOrchestrator_DefaultPackageBareTopLevelContentIsVisited(t *testing.T) {
	o := New(config.Default(), zaptest.NewLogger(t))
	tree := ast.NewTree("Script.as")
	prog := &ast.Node{Kind: ast.KindProgram}
	tree.Add(prog)

	classNode := tree.Add(&ast.Node{Kind: ast.KindClassDef, Name: "Loose"})
	prog.Kids = []ast.NodeID{classNode}

	o.AddUnit(tree)
	diags, err := o.Run()
	require.NoError(t, err)
	assert.Empty(t, diags)

	clsH := o.DB.EntityFor(classNode)
	require.False(t, clsH.IsNil())
	_, ok := o.DB.Arena.Get(clsH).(*entity.ClassType)
	assert.True(t, ok)
}
