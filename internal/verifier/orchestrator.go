// Package verifier implements the top-level Orchestrator of spec
// section 2: package discovery, the fixed-point round that drives
// every directive subverifier across every registered compilation
// unit, the deferred-closure drain that follows it, and the final
// diagnostics flush. internal/directive, internal/expression, and
// internal/statement each verify one node or one function body;
// this package is the only one that knows about "all of them,
// together, until nothing moves".
package verifier

import (
	"strings"

	"go.uber.org/zap"

	"github.com/whackengine/verifier/internal/ast"
	"github.com/whackengine/verifier/internal/config"
	"github.com/whackengine/verifier/internal/db"
	"github.com/whackengine/verifier/internal/diag"
	"github.com/whackengine/verifier/internal/directive"
	"github.com/whackengine/verifier/internal/entity"
	"github.com/whackengine/verifier/internal/phase"
	"github.com/whackengine/verifier/internal/scope"
	"github.com/whackengine/verifier/internal/statement"
)

// Orchestrator owns the resources and bookkeeping for one verification
// run over a set of compilation units.
type Orchestrator struct {
	DB *db.Database

	units []*ast.Tree
	ctxs  map[string]*directive.Context

	// pkgScopes shares one package-variant scope per distinct dotted
	// package path across every unit that contributes to it, so a
	// class declared in one file of a package is visible when a
	// sibling file in the same package is visited -- see DESIGN.md's
	// entry for this package: a package scope's Properties map is
	// aliased directly to its entity.Package's Properties map, the
	// same map import.go/packageconcat.go read from.
	pkgScopes map[string]entity.Handle

	groups []topLevelGroup
}

// topLevelGroup is one `package { ... }` block (or, for dotted == "",
// the bare top-level content of a unit that declares no package
// block at all -- the default package) awaiting dispatch.
type topLevelGroup struct {
	ctx    *directive.Context
	scopeH entity.Handle
	kids   []ast.NodeID
}

// New creates an Orchestrator backed by a fresh Database.
func New(opts *config.CompilerOptions, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		DB:        db.New(opts, logger),
		ctxs:      make(map[string]*directive.Context),
		pkgScopes: make(map[string]entity.Handle),
	}
}

// AddUnit registers a parsed compilation unit for the run. Units must
// all be added before Run is called.
func (o *Orchestrator) AddUnit(tree *ast.Tree) {
	o.DB.AddTree(tree)
	o.units = append(o.units, tree)
	o.ctxs[tree.CompilationUnit] = directive.NewContext(o.DB, tree)
}

// Run drives spec section 2's flow to completion: package discovery,
// the main directive fixed point, the deferred function-expression
// drain, and the final diagnostics flush. The returned diagnostics are
// also retrievable afterward via o.DB.Sink.
func (o *Orchestrator) Run() ([]diag.Diagnostic, error) {
	rm := phase.NewRunMachine()
	if err := rm.Fire(phase.EventBegin); err != nil {
		return nil, err
	}

	o.discoverPackages()

	if err := rm.Fire(phase.EventPackagesDeclared); err != nil {
		return nil, err
	}

	maxCycles := phase.DefaultMaxCycles
	if o.DB.Config != nil {
		maxCycles = o.DB.Config.MaxCycles
	}

	if _, reachedMax, err := phase.Fixpoint(maxCycles, o.runDirectiveRound); err != nil {
		return nil, err
	} else if reachedMax {
		o.reportUnfinished()
	}

	if err := rm.Fire(phase.EventDirectivesSettled); err != nil {
		return nil, err
	}

	if _, reachedMax, err := phase.Fixpoint(maxCycles, o.drainClosures); err != nil {
		return nil, err
	} else if reachedMax {
		o.reportUnfinishedClosures()
	}

	if err := rm.Fire(phase.EventFunctionBodiesDrained); err != nil {
		return nil, err
	}

	o.sweepUnusedImports()

	if err := rm.Fire(phase.EventFlush); err != nil {
		return nil, err
	}

	return o.DB.Sink.All(), nil
}

// sweepUnusedImports runs once the directive and closure fixed points
// have both settled, so every reference an import could possibly
// satisfy has already had its chance to mark it used (internal/
// expression's identifier resolution calls scope.MarkImportReferenced
// on every successful lookup). Anything still unmarked is diagnosed
// with diag.KindUnused, per spec section 8 scenario 7.
func (o *Orchestrator) sweepUnusedImports() {
	for _, scopeH := range o.pkgScopes {
		s := scope.Get(o.DB.Arena, scopeH)
		if s == nil {
			continue
		}
		for _, imp := range s.Imports {
			if imp.Used {
				continue
			}
			o.DB.Sink.Add(diag.KindUnused, imp.Loc, imp.Name)
		}
	}
}

// discoverPackages walks every unit's Program node, splitting its Kids
// into one group per KindPackageDirective plus (if present) one
// default-package group for any bare top-level content, and ensures
// every distinct dotted package path has a shared entity.Package and
// package scope before a single directive is dispatched -- a
// precondition import.go's and packageconcat.go's resolvePackage rely
// on.
func (o *Orchestrator) discoverPackages() {
	for _, tree := range o.units {
		ctx := o.ctxs[tree.CompilationUnit]
		root := tree.Root()
		prog := tree.Get(root)
		if prog == nil {
			continue
		}

		var defaultKids []ast.NodeID
		for _, kid := range prog.Kids {
			n := tree.Get(kid)
			if n == nil {
				continue
			}
			if n.Kind == ast.KindPackageDirective {
				scopeH := o.packageScope(n.Name)
				o.groups = append(o.groups, topLevelGroup{ctx: ctx, scopeH: scopeH, kids: n.Kids})
				continue
			}
			defaultKids = append(defaultKids, kid)
		}
		if len(defaultKids) > 0 {
			scopeH := o.packageScope("")
			o.groups = append(o.groups, topLevelGroup{ctx: ctx, scopeH: scopeH, kids: defaultKids})
		}
	}
}

// packageScope returns the shared package scope for dotted, allocating
// its entity.Package and scope on first request. A package's public
// namespace is the single system-wide public namespace (spec's
// `public` is not qualified per package, matching class/interface/enum
// definitions, which all declare into System.PublicNs too); its
// internal namespace is its own, one per distinct package so internal
// members stay visible across every file contributing to it but
// invisible to every other package.
func (o *Orchestrator) packageScope(dotted string) entity.Handle {
	if h, ok := o.pkgScopes[dotted]; ok {
		return h
	}

	arena := o.DB.Arena
	var segments []string
	if dotted != "" {
		segments = strings.Split(dotted, ".")
	}

	pkg := &entity.Package{
		Segments:   segments,
		PublicNs:   o.DB.System.PublicNs,
		InternalNs: arena.Alloc(&entity.Namespace{KindTag: entity.NSInternal, URI: dotted}),
		Properties: make(map[entity.QName]entity.Handle),
	}
	pkgH := arena.Alloc(pkg)

	top := scope.Get(arena, o.DB.TopScope)
	top.Properties[entity.QName{Ns: o.DB.System.PublicNs, Local: dotted}] = pkgH

	scopeH := scope.New(arena, scope.Package, o.DB.TopScope)
	s := scope.Get(arena, scopeH)
	s.Of = pkgH
	s.PublicNs = pkg.PublicNs
	s.InternalNs = pkg.InternalNs
	s.IsPackageInit = true
	// Alias, not copy: every class/interface/enum/variable/function
	// definition visited in this package's scope declares itself into
	// s.Properties (see currentPropertiesMap in function.go and its
	// siblings), and that must be the very map import.go/
	// packageconcat.go read as pkg.Properties.
	s.Properties = pkg.Properties

	o.pkgScopes[dotted] = scopeH
	return scopeH
}

// runDirectiveRound is one phase.Fixpoint callback: every group's Kids
// are visited once, in source order, all siblings visited even if some
// defer (maximizing forward progress per spec section 4.1's ordering
// guarantee), and the round's verdict is the conjunction of every
// node's outcome -- Defer if any deferred, the first hard error if any
// occurred (reported only once every sibling has had its turn), nil
// once every group's Kids report nil/Finished.
func (o *Orchestrator) runDirectiveRound() error {
	deferred := false
	var firstErr error

	for _, g := range o.groups {
		g.ctx.Chain.PushExisting(g.scopeH)
		for _, kid := range g.kids {
			verr := directive.VerifyPackageMember(g.ctx, kid)
			switch {
			case verr == nil:
			case phase.IsDefer(verr):
				deferred = true
			case firstErr == nil:
				firstErr = verr
			}
		}
		g.ctx.Chain.Pop()
	}

	if firstErr != nil {
		return firstErr
	}
	if deferred {
		return phase.NewDefer()
	}
	return nil
}

// reportUnfinished attaches ReachedMaximumCycles to every top-level
// node that never reached Finished, per spec section 4.1's "If a
// directive remains non-Finished after the cap" line.
func (o *Orchestrator) reportUnfinished() {
	for _, g := range o.groups {
		for _, kid := range g.kids {
			if g.ctx.Phases.IsFinished(kid) {
				continue
			}
			if n := g.ctx.Tree.Get(kid); n != nil {
				o.DB.Sink.Add(diag.KindReachedMaximumCycles, n.Loc)
			}
		}
	}
}

// drainClosures is the second fixed point's callback: every body
// queued onto Database.Closures (by internal/expression's function-
// expression evaluation) is statement-verified against its own
// activation scope and result type, the same statement.VerifyBlock
// call internal/directive's function.go makes for a top-level
// function's Omega phase.
func (o *Orchestrator) drainClosures() error {
	deferred := false
	var firstErr error

	closures := o.DB.Closures
	for _, c := range closures {
		ctx := o.ctxs[c.Tree.CompilationUnit]
		if ctx == nil || ctx.Phases.IsFinished(c.Node) {
			continue
		}
		ctx.Chain.PushExisting(c.Activation)
		err := statement.VerifyBlock(&statement.Context{Env: ctx.Env, ResultType: c.ResultType}, c.Node)
		ctx.Chain.Pop()

		switch {
		case err == nil:
			ctx.Phases.Finish(c.Node)
		case phase.IsDefer(err):
			deferred = true
		case firstErr == nil:
			firstErr = err
		}
	}

	if firstErr != nil {
		return firstErr
	}
	if deferred {
		return phase.NewDefer()
	}
	return nil
}

// reportUnfinishedClosures mirrors reportUnfinished for the closure
// drain's own cycle cap.
func (o *Orchestrator) reportUnfinishedClosures() {
	for _, c := range o.DB.Closures {
		ctx := o.ctxs[c.Tree.CompilationUnit]
		if ctx == nil || ctx.Phases.IsFinished(c.Node) {
			continue
		}
		if n := c.Tree.Get(c.Node); n != nil {
			o.DB.Sink.Add(diag.KindReachedMaximumCycles, n.Loc)
		}
	}
}
