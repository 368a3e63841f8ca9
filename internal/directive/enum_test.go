package directive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whackengine/verifier/internal/ast"
	"github.com/whackengine/verifier/internal/diag"
	"github.com/whackengine/verifier/internal/entity"
)

func TestVerifyEnum_AutoIncrementAndDerivedName(t *testing.T) {
	ctx, tree := newInterfaceTestCtx(t)

	red := tree.Add(&ast.Node{Kind: ast.KindVariableDef, Name: "LIGHT_RED"})
	green := tree.Add(&ast.Node{Kind: ast.KindVariableDef, Name: "LIGHT_GREEN"})
	enumNode := tree.Add(&ast.Node{Kind: ast.KindEnumDef, Name: "Signal", Kids: []ast.NodeID{red, green}})

	runToFinish(t, ctx, enumNode, func() error { return VerifyEnum(ctx, enumNode) })

	enumH := ctx.DB.EntityFor(enumNode)
	enm, ok := ctx.DB.Arena.Get(enumH).(*entity.EnumType)
	require.True(t, ok)

	assert.Equal(t, 0.0, enm.MemberNumberMapping["lightRed"])
	assert.Equal(t, 1.0, enm.MemberNumberMapping["lightGreen"])
	assert.Empty(t, ctx.DB.Sink.All())
}

func TestVerifyEnum_StringInitializerOverridesDerivedName(t *testing.T) {
	ctx, tree := newInterfaceTestCtx(t)

	lit := tree.Add(&ast.Node{Kind: ast.KindStringLiteral, StringValue: "crimson"})
	red := tree.Add(&ast.Node{Kind: ast.KindVariableDef, Name: "RED", Kids: []ast.NodeID{lit}})
	enumNode := tree.Add(&ast.Node{Kind: ast.KindEnumDef, Name: "Color", Kids: []ast.NodeID{red}})

	runToFinish(t, ctx, enumNode, func() error { return VerifyEnum(ctx, enumNode) })

	enumH := ctx.DB.EntityFor(enumNode)
	enm := ctx.DB.Arena.Get(enumH).(*entity.EnumType)
	_, hasDerived := enm.MemberNumberMapping["red"]
	assert.False(t, hasDerived)
	assert.Contains(t, enm.MemberNumberMapping, "crimson")
}

func TestVerifyEnum_ArrayLiteralPairsStringAndNumber(t *testing.T) {
	ctx, tree := newInterfaceTestCtx(t)

	s := tree.Add(&ast.Node{Kind: ast.KindStringLiteral, StringValue: "north"})
	num := tree.Add(&ast.Node{Kind: ast.KindNumericLiteral, NumberValue: "90"})
	arr := tree.Add(&ast.Node{Kind: ast.KindArrayLiteral, Kids: []ast.NodeID{s, num}})
	member := tree.Add(&ast.Node{Kind: ast.KindVariableDef, Name: "NORTH", Kids: []ast.NodeID{arr}})
	enumNode := tree.Add(&ast.Node{Kind: ast.KindEnumDef, Name: "Heading", Kids: []ast.NodeID{member}})

	runToFinish(t, ctx, enumNode, func() error { return VerifyEnum(ctx, enumNode) })

	enumH := ctx.DB.EntityFor(enumNode)
	enm := ctx.DB.Arena.Get(enumH).(*entity.EnumType)
	assert.Equal(t, 90.0, enm.MemberNumberMapping["north"])
}

func TestVerifyEnum_DuplicateConstantNameIsDiagnosed(t *testing.T) {
	ctx, tree := newInterfaceTestCtx(t)

	m1 := tree.Add(&ast.Node{Kind: ast.KindVariableDef, Name: "RED"})
	m2 := tree.Add(&ast.Node{Kind: ast.KindVariableDef, Name: "RED"})
	enumNode := tree.Add(&ast.Node{Kind: ast.KindEnumDef, Name: "Color", Kids: []ast.NodeID{m1, m2}})

	runToFinish(t, ctx, enumNode, func() error { return VerifyEnum(ctx, enumNode) })

	var kinds []diag.Kind
	for _, d := range ctx.DB.Sink.All() {
		kinds = append(kinds, d.Kind)
	}
	assert.Contains(t, kinds, diag.KindDuplicateEnumConstant)
}

func TestVerifyEnum_StaticMemberIsSkipped(t *testing.T) {
	ctx, tree := newInterfaceTestCtx(t)

	staticAttr := tree.Add(&ast.Node{Kind: ast.KindAttribute, Name: "static"})
	m := tree.Add(&ast.Node{Kind: ast.KindVariableDef, Name: "HELPER", Attributes: []ast.NodeID{staticAttr}})
	enumNode := tree.Add(&ast.Node{Kind: ast.KindEnumDef, Name: "WithHelper", Kids: []ast.NodeID{m}})

	runToFinish(t, ctx, enumNode, func() error { return VerifyEnum(ctx, enumNode) })

	enumH := ctx.DB.EntityFor(enumNode)
	enm := ctx.DB.Arena.Get(enumH).(*entity.EnumType)
	assert.Empty(t, enm.Properties)
}
