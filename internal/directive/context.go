// Package directive implements the per-definition-kind subverifiers of
// spec section 4.4: class, interface, enum, variable, function, type
// alias, namespace alias, import, package concatenation, use
// namespace and configuration directive (control constructs are
// verified by internal/statement). Each VerifyXxx function is phased against the shared
// phase.Map the Orchestrator (internal/verifier) drives to a fixed
// point.
package directive

import (
	"github.com/whackengine/verifier/internal/ast"
	"github.com/whackengine/verifier/internal/db"
	"github.com/whackengine/verifier/internal/entity"
	"github.com/whackengine/verifier/internal/expression"
	"github.com/whackengine/verifier/internal/phase"
	"github.com/whackengine/verifier/internal/scope"
)

// Context bundles everything a directive subverifier needs beyond the
// node it is visiting. It embeds *expression.Env so DB, Tree, Chain,
// OpenNs, and Phases are shared with expression evaluation over the
// same compilation unit -- an identifier resolved while checking an
// initializer and later re-resolved while checking a type annotation
// hits the same phase map and node->entity cache. A fresh Context is
// not created per node -- one Context threads through an entire
// compilation unit's worth of directives, with Chain mutated
// (pushed/popped) as nested scopes are entered.
type Context struct {
	*expression.Env

	// internalNs caches this compilation unit's internal namespace,
	// allocated lazily on first use (the default access level, and the
	// target of an explicit `internal` attribute).
	internalNs entity.Handle

	// imports tracks each import directive's scope.Import record across
	// phases. Unlike every other directive kind, an Import isn't itself
	// Arena-allocated (it has no Kind() method to satisfy entity.Entity)
	// -- it lives only on its owning Scope's Imports slice -- so Alpha
	// stashes the pointer here for Beta to fill in once the target
	// resolves.
	imports map[ast.NodeID]*scope.Import
}

func (c *Context) importRecord(id ast.NodeID) *scope.Import {
	return c.imports[id]
}

func (c *Context) setImportRecord(id ast.NodeID, imp *scope.Import) {
	if c.imports == nil {
		c.imports = make(map[ast.NodeID]*scope.Import)
	}
	c.imports[id] = imp
}

// NewContext creates a Context over tree, rooted at d's top scope.
func NewContext(d *db.Database, tree *ast.Tree) *Context {
	return &Context{Env: expression.NewEnv(d, tree)}
}

// internalNamespace returns this unit's internal namespace, allocating
// it on first use.
func (c *Context) internalNamespace() entity.Handle {
	if c.internalNs.IsNil() {
		c.internalNs = c.DB.Arena.Alloc(&entity.Namespace{KindTag: entity.NSInternal, URI: c.Tree.CompilationUnit})
	}
	return c.internalNs
}

// phaseOf returns the phase a node is currently at, defaulting every
// unseen node to phase.Alpha.
func (c *Context) phaseOf(id ast.NodeID) phase.Phase {
	return c.Phases.Get(id)
}

// advance moves node to the next phase in sequence.
func (c *Context) advance(id ast.NodeID) {
	c.Phases.Advance(id)
}
