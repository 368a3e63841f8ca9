// Package db owns the resources a verification run shares across
// every package, file, and subverifier: the entity arena, the
// diagnostic sink, the resolved configuration, the structured logger,
// and the run's identity. It is kept separate from internal/verifier
// (the Orchestrator) so that internal/directive, internal/expression,
// internal/statement, and internal/inheritance can depend on the
// resources here without importing the top-level orchestration loop
// that in turn depends on them -- an import cycle the teacher's own
// internal/context (pure resource registry) vs internal/commands
// (orchestration) split avoids the same way.
package db

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/whackengine/verifier/internal/ast"
	"github.com/whackengine/verifier/internal/config"
	"github.com/whackengine/verifier/internal/diag"
	"github.com/whackengine/verifier/internal/entity"
	"github.com/whackengine/verifier/internal/scope"
)

// Database is the run-scoped bag of resources threaded through every
// subverifier call. Nothing here is safe for concurrent use without
// external synchronization; a run is a single cooperative fixed-point
// loop, not a worker pool (see spec section 5 / SPEC_FULL.md's
// concurrency section).
type Database struct {
	RunID uuid.UUID

	Arena  *entity.Arena
	Sink   *diag.Sink
	Config *config.CompilerOptions
	Logger *zap.Logger

	// Trees holds one parsed ast.Tree per compilation unit, keyed by
	// unit name (matching diag.Loc.CompilationUnit).
	Trees map[string]*ast.Tree

	// NodeEntities is the node->entity cache: once a node has been
	// assigned an entity (a ClassType for a class definition, a
	// Reference for an identifier expression, ...) subsequent visits
	// within the same or a later phase reuse it instead of
	// re-resolving, per spec section 4's general phase discipline.
	NodeEntities map[ast.NodeID]entity.Handle

	// TopScope is the root of the scope chain every package scope is a
	// child of.
	TopScope entity.Handle

	// System holds handles to the bootstrapped system types/namespaces
	// (Object, Function, Number, ..., and the public namespace) that
	// every other package implicitly imports.
	System *SystemTypes

	// Closures queues function-expression bodies discovered while
	// evaluating an initializer, argument, or other expression context.
	// A closure's signature is fixed the moment its expression is
	// evaluated, but its body is not checked until the directive fixed
	// point over every unit has reached a steady state, so a closure
	// referencing a forward-declared class doesn't force its enclosing
	// declaration to resolve out of order.
	Closures []DeferredClosure
}

// DeferredClosure is one function-expression body awaiting statement
// verification, queued by internal/expression and drained by the
// Orchestrator's second fixed-point loop.
type DeferredClosure struct {
	Tree       *ast.Tree
	Node       ast.NodeID
	Activation entity.Handle
	ResultType entity.Handle
}

// DeferClosure records a function-expression body for later draining.
func (d *Database) DeferClosure(c DeferredClosure) {
	d.Closures = append(d.Closures, c)
}

// New creates a Database with a fresh arena, sink, and bootstrapped
// system type graph, ready for a verification run under opts.
func New(opts *config.CompilerOptions, logger *zap.Logger) *Database {
	arena := entity.NewArena()
	top := scope.New(arena, scope.Plain, entity.Nil)

	d := &Database{
		RunID:        uuid.New(),
		Arena:        arena,
		Sink:         diag.NewSink(),
		Config:       opts,
		Logger:       logger,
		Trees:        make(map[string]*ast.Tree),
		NodeEntities: make(map[ast.NodeID]entity.Handle),
		TopScope:     top,
	}
	d.System = bootstrapSystemTypes(arena, scope.Get(arena, top))
	return d
}

// EntityFor returns the entity already assigned to node, or
// entity.Nil if none has been assigned yet.
func (d *Database) EntityFor(node ast.NodeID) entity.Handle {
	return d.NodeEntities[node]
}

// Assign records h as node's entity. Subverifiers call this exactly
// once per node per run (re-assignment across fixed-point cycles
// re-validates but does not allocate a new entity).
func (d *Database) Assign(node ast.NodeID, h entity.Handle) {
	d.NodeEntities[node] = h
}

// AddTree registers a parsed compilation unit for the run.
func (d *Database) AddTree(t *ast.Tree) {
	d.Trees[t.CompilationUnit] = t
}
