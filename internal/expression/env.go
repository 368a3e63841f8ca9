// Package expression implements the expression subverifier of spec
// section 4.5: a node->entity cache guarding against duplicate
// diagnostics, dispatch across literal/member/call/new/unary/binary/
// assignment forms, and the same conversion machinery (package
// conversion) used to check every operand against its expected type.
package expression

import (
	"github.com/whackengine/verifier/internal/ast"
	"github.com/whackengine/verifier/internal/db"
	"github.com/whackengine/verifier/internal/entity"
	"github.com/whackengine/verifier/internal/phase"
	"github.com/whackengine/verifier/internal/scope"
)

// Env bundles the resources expression evaluation shares with the
// directive subverifier that invokes it: the Database, the open scope
// chain, the open-namespace set active at the current program point,
// and the phase tracker. internal/directive embeds an *Env in its own
// Context so both packages share one phase map per compilation unit
// without internal/expression needing to import internal/directive
// (which would cycle, since directive calls into expression for
// initializers and type annotations).
type Env struct {
	DB     *db.Database
	Tree   *ast.Tree
	Chain  *scope.Chain
	OpenNs *entity.OpenNamespaceSet
	Phases *phase.Map[ast.NodeID]
}

// NewEnv creates an Env over tree, rooted at d's top scope.
func NewEnv(d *db.Database, tree *ast.Tree) *Env {
	ns := entity.NewOpenNamespaceSet()
	ns.Add(d.System.PublicNs)
	return &Env{
		DB:     d,
		Tree:   tree,
		Chain:  scope.NewChain(d.Arena, d.TopScope),
		OpenNs: ns,
		Phases: phase.NewMap[ast.NodeID](),
	}
}

// Mode distinguishes how an expression node is being used -- plain
// read, assignment target (write), or `delete` operand -- per spec
// section 4.5's Read/Write/Delete dispatch modes.
type Mode int

const (
	Read Mode = iota
	Write
	Delete
)
