package directive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/whackengine/verifier/internal/ast"
	"github.com/whackengine/verifier/internal/config"
	"github.com/whackengine/verifier/internal/db"
	"github.com/whackengine/verifier/internal/diag"
	"github.com/whackengine/verifier/internal/entity"
	"github.com/whackengine/verifier/internal/phase"
)

func newInterfaceTestCtx(t *testing.T) (*Context, *ast.Tree) {
	t.Helper()
	d := db.New(config.Default(), zaptest.NewLogger(t))
	tree := ast.NewTree("Main.as")
	d.AddTree(tree)
	return NewContext(d, tree), tree
}

func runToFinish(t *testing.T, ctx *Context, node ast.NodeID, verify func() error) {
	t.Helper()
	_, reachedMax, err := phase.Fixpoint(phase.DefaultMaxCycles, verify)
	require.NoError(t, err)
	require.False(t, reachedMax)
	require.True(t, ctx.Phases.IsFinished(node))
}

func TestVerifyInterface_DeclaresMethodSignature(t *testing.T) {
	ctx, tree := newInterfaceTestCtx(t)

	param := tree.Add(&ast.Node{Kind: ast.KindParam, Name: "x", Annotation: 0})
	method := tree.Add(&ast.Node{Kind: ast.KindFunctionDef, Name: "run", Params: []ast.NodeID{param}})
	ifaceNode := tree.Add(&ast.Node{Kind: ast.KindInterfaceDef, Name: "Runnable", Kids: []ast.NodeID{method}})

	runToFinish(t, ctx, ifaceNode, func() error { return VerifyInterface(ctx, ifaceNode) })

	ifaceH := ctx.DB.EntityFor(ifaceNode)
	iface, ok := ctx.DB.Arena.Get(ifaceH).(*entity.InterfaceType)
	require.True(t, ok)

	qn := entity.QName{Ns: ctx.DB.System.PublicNs, Local: "run"}
	methodH, ok := iface.Properties[qn]
	require.True(t, ok)
	m, ok := ctx.DB.Arena.Get(methodH).(*entity.MethodSlot)
	require.True(t, ok)
	ft, ok := ctx.DB.Arena.Get(m.Signature).(*entity.FunctionType)
	require.True(t, ok)
	assert.Len(t, ft.Params, 1)
	assert.Equal(t, ctx.DB.System.AnyType, ft.Params[0].StaticType)
}

func TestVerifyInterface_DuplicateMethodIsDiagnosed(t *testing.T) {
	ctx, tree := newInterfaceTestCtx(t)

	m1 := tree.Add(&ast.Node{Kind: ast.KindFunctionDef, Name: "run"})
	m2 := tree.Add(&ast.Node{Kind: ast.KindFunctionDef, Name: "run"})
	ifaceNode := tree.Add(&ast.Node{Kind: ast.KindInterfaceDef, Name: "Runnable", Kids: []ast.NodeID{m1, m2}})

	runToFinish(t, ctx, ifaceNode, func() error { return VerifyInterface(ctx, ifaceNode) })

	var kinds []diag.Kind
	for _, d := range ctx.DB.Sink.All() {
		kinds = append(kinds, d.Kind)
	}
	assert.Contains(t, kinds, diag.KindDuplicateFunctionDefinition)
}

func TestVerifyInterface_GetterSetterPairShareVirtualSlot(t *testing.T) {
	ctx, tree := newInterfaceTestCtx(t)

	ret := tree.Add(&ast.Node{Kind: ast.KindIdentifier, Name: "String"})
	getter := tree.Add(&ast.Node{Kind: ast.KindFunctionDef, Name: "value", IsGetter: true, Annotation: ret})
	param := tree.Add(&ast.Node{Kind: ast.KindParam, Name: "v"})
	setter := tree.Add(&ast.Node{Kind: ast.KindFunctionDef, Name: "value", IsSetter: true, Params: []ast.NodeID{param}})
	ifaceNode := tree.Add(&ast.Node{Kind: ast.KindInterfaceDef, Name: "Boxed", Kids: []ast.NodeID{getter, setter}})

	runToFinish(t, ctx, ifaceNode, func() error { return VerifyInterface(ctx, ifaceNode) })

	ifaceH := ctx.DB.EntityFor(ifaceNode)
	iface := ctx.DB.Arena.Get(ifaceH).(*entity.InterfaceType)
	qn := entity.QName{Ns: ctx.DB.System.PublicNs, Local: "value"}
	vsH, ok := iface.Properties[qn]
	require.True(t, ok)
	vs, ok := ctx.DB.Arena.Get(vsH).(*entity.VirtualSlot)
	require.True(t, ok)
	assert.False(t, vs.Getter.IsNil())
	assert.False(t, vs.Setter.IsNil())

	assert.Empty(t, ctx.DB.Sink.All())
}

func TestVerifyInterface_ExtendsSelfIsDiagnosed(t *testing.T) {
	ctx, tree := newInterfaceTestCtx(t)

	var selfRef ast.NodeID
	ifaceNode := tree.Add(&ast.Node{Kind: ast.KindInterfaceDef, Name: "Self"})
	selfRef = tree.Add(&ast.Node{Kind: ast.KindIdentifier, Name: "Self"})
	tree.Get(ifaceNode).Implements = []ast.NodeID{selfRef}

	runToFinish(t, ctx, ifaceNode, func() error { return VerifyInterface(ctx, ifaceNode) })

	var kinds []diag.Kind
	for _, d := range ctx.DB.Sink.All() {
		kinds = append(kinds, d.Kind)
	}
	assert.Contains(t, kinds, diag.KindExtendingSelfReferentialInterface)
}
