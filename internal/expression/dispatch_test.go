package expression

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/whackengine/verifier/internal/ast"
	"github.com/whackengine/verifier/internal/config"
	"github.com/whackengine/verifier/internal/db"
	"github.com/whackengine/verifier/internal/entity"
	"github.com/whackengine/verifier/internal/phase"
)

func newTestEnv(t *testing.T) (*Env, *ast.Tree) {
	t.Helper()
	d := db.New(config.Default(), zaptest.NewLogger(t))
	tree := ast.NewTree("Main.as")
	d.AddTree(tree)
	return NewEnv(d, tree), tree
}

func TestEvaluate_NumericLiteralProducesNumberConstant(t *testing.T) {
	env, tree := newTestEnv(t)
	node := tree.Add(&ast.Node{Kind: ast.KindNumericLiteral, NumberValue: "3"})

	h, err := Evaluate(env, node, Read)
	require.NoError(t, err)

	c, ok := env.DB.Arena.Get(h).(*entity.Constant)
	require.True(t, ok)
	assert.Equal(t, entity.ConstNumber, c.ConstKind)
	assert.Equal(t, "3", c.NumberValue)
}

func TestEvaluate_CachesResultAcrossCalls(t *testing.T) {
	env, tree := newTestEnv(t)
	node := tree.Add(&ast.Node{Kind: ast.KindStringLiteral, StringValue: "hi"})

	first, err := Evaluate(env, node, Read)
	require.NoError(t, err)
	second, err := Evaluate(env, node, Read)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestEvaluate_UnresolvedCachedEntityDefers(t *testing.T) {
	env, tree := newTestEnv(t)
	node := tree.Add(&ast.Node{Kind: ast.KindIdentifier, Name: "Foo"})
	env.DB.Assign(node, env.DB.Arena.Alloc(entity.UnresolvedEntity{}))

	_, err := Evaluate(env, node, Read)
	assert.True(t, phase.IsDefer(err))
}

func TestEvaluateIdentifier_UnresolvedNameEmitsDiagnostic(t *testing.T) {
	env, tree := newTestEnv(t)
	node := tree.Add(&ast.Node{Kind: ast.KindIdentifier, Name: "doesNotExist"})

	h, err := Evaluate(env, node, Read)
	require.NoError(t, err)
	assert.False(t, h.IsNil())
	assert.Equal(t, 1, env.DB.Sink.Count("Main.as"))
}

func TestEvaluateIdentifier_WriteModeToleratesUnresolvedImplicitGlobal(t *testing.T) {
	env, tree := newTestEnv(t)
	node := tree.Add(&ast.Node{Kind: ast.KindIdentifier, Name: "notYetDeclared"})

	h, err := Evaluate(env, node, Write)
	require.NoError(t, err)
	assert.False(t, h.IsNil())
	assert.Equal(t, 0, env.DB.Sink.Count("Main.as"))
}

func TestResolveTypeExpression_StarIsAnyType(t *testing.T) {
	env, tree := newTestEnv(t)
	node := tree.Add(&ast.Node{Kind: ast.KindIdentifier, Name: "*"})

	h, err := ResolveTypeExpression(env, node)
	require.NoError(t, err)
	assert.Equal(t, env.DB.System.AnyType, h)
}

func TestResolveTypeExpression_ResolvesSystemClassByName(t *testing.T) {
	env, tree := newTestEnv(t)
	node := tree.Add(&ast.Node{Kind: ast.KindIdentifier, Name: "String"})

	h, err := ResolveTypeExpression(env, node)
	require.NoError(t, err)
	assert.Equal(t, env.DB.System.String, h)
}

func TestEvaluateBinary_ArithmeticResultsInNumber(t *testing.T) {
	env, tree := newTestEnv(t)
	lhs := tree.Add(&ast.Node{Kind: ast.KindNumericLiteral, NumberValue: "1"})
	rhs := tree.Add(&ast.Node{Kind: ast.KindNumericLiteral, NumberValue: "2"})
	node := tree.Add(&ast.Node{Kind: ast.KindBinary, Operator: "+", Kids: []ast.NodeID{lhs, rhs}})

	h, err := Evaluate(env, node, Read)
	require.NoError(t, err)
	typ := env.DB.Arena.Get(h)
	cv, ok := typ.(*entity.ConversionValue)
	require.True(t, ok)
	nn, ok := env.DB.Arena.Get(cv.StaticType).(*entity.NonNullableType)
	require.True(t, ok)
	assert.Equal(t, env.DB.System.Number, nn.Base)
}

func TestEvaluateBinary_StringConcatenationResultsInString(t *testing.T) {
	env, tree := newTestEnv(t)
	lhs := tree.Add(&ast.Node{Kind: ast.KindStringLiteral, StringValue: "a"})
	rhs := tree.Add(&ast.Node{Kind: ast.KindStringLiteral, StringValue: "b"})
	node := tree.Add(&ast.Node{Kind: ast.KindBinary, Operator: "+", Kids: []ast.NodeID{lhs, rhs}})

	h, err := Evaluate(env, node, Read)
	require.NoError(t, err)
	cv, ok := env.DB.Arena.Get(h).(*entity.ConversionValue)
	require.True(t, ok)
	assert.Equal(t, env.DB.System.String, cv.StaticType)
}

func TestEvaluateUnary_LogicalNotResultsInBoolean(t *testing.T) {
	env, tree := newTestEnv(t)
	operand := tree.Add(&ast.Node{Kind: ast.KindBooleanLiteral, BooleanValue: true})
	node := tree.Add(&ast.Node{Kind: ast.KindUnary, Operator: "!", Kids: []ast.NodeID{operand}})

	h, err := Evaluate(env, node, Read)
	require.NoError(t, err)
	c, ok := env.DB.Arena.Get(h).(*entity.Constant)
	require.True(t, ok)
	assert.Equal(t, entity.ConstBoolean, c.ConstKind)
}

func TestEvaluateThis_OutsideActivationEmitsInvalidThis(t *testing.T) {
	env, tree := newTestEnv(t)
	node := tree.Add(&ast.Node{Kind: ast.KindThisLiteral})

	_, err := Evaluate(env, node, Read)
	require.NoError(t, err)
	assert.Equal(t, 1, env.DB.Sink.Count("Main.as"))
}
