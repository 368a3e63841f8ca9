package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTree_AddAssignsSequentialIDsAndRootIsFirstNode(t *testing.T) {
	tree := NewTree("Main.as")

	program := tree.Add(&Node{Kind: KindProgram})
	require.Equal(t, NodeID(1), program)
	assert.Equal(t, program, tree.Root())

	pkg := tree.Add(&Node{Kind: KindPackageDirective, Name: "com.example"})
	assert.Equal(t, NodeID(2), pkg)
	assert.Equal(t, "com.example", tree.Get(pkg).Name)
}

func TestTree_GetOutOfRangeReturnsNil(t *testing.T) {
	tree := NewTree("Main.as")
	assert.Nil(t, tree.Get(0))
	assert.Nil(t, tree.Get(99))
}

func TestTree_RootIsZeroWhenEmpty(t *testing.T) {
	tree := NewTree("Main.as")
	assert.Equal(t, NodeID(0), tree.Root())
}
