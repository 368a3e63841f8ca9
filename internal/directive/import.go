package directive

import (
	"strings"

	"github.com/whackengine/verifier/internal/ast"
	"github.com/whackengine/verifier/internal/diag"
	"github.com/whackengine/verifier/internal/entity"
	"github.com/whackengine/verifier/internal/phase"
	"github.com/whackengine/verifier/internal/scope"
)

// VerifyImport implements spec section 4.4's import-directive
// contract across its two phases:
//
//	Alpha: classify the directive (property / wildcard / recursive,
//	       per its trailing ".*"/".**" path segment) and contribute an
//	       unresolved scope.Import record to the current scope's import
//	       list, marked unused until referenced.
//	Beta:  resolve the named property, or confirm the named package is
//	       non-empty for a wildcard/recursive import. An import alias
//	       additionally defines an Alias entity in the hoist scope's
//	       internal namespace.
func VerifyImport(ctx *Context, node ast.NodeID) error {
	n := ctx.Tree.Get(node)
	if n == nil {
		return nil
	}
	p := ctx.phaseOf(node)

	switch p {
	case phase.Alpha:
		return verifyImportAlpha(ctx, node, n)
	case phase.Beta:
		return verifyImportBeta(ctx, node, n)
	case phase.Delta, phase.Epsilon:
		ctx.advance(node)
		return phase.NewDefer()
	case phase.Omega:
		ctx.Phases.Finish(node)
		return nil
	}
	return nil
}

func verifyImportAlpha(ctx *Context, node ast.NodeID, n *ast.Node) error {
	_, wildcard, recursive := parseImportPath(n.Name)

	imp := &scope.Import{Wildcard: wildcard, Recursive: recursive, Loc: n.Loc, Name: n.Name}
	s := scope.Get(ctx.DB.Arena, ctx.Chain.Current())
	s.Imports = append(s.Imports, imp)
	ctx.setImportRecord(node, imp)

	ctx.advance(node)
	return phase.NewDefer()
}

func verifyImportBeta(ctx *Context, node ast.NodeID, n *ast.Node) error {
	imp := ctx.importRecord(node)
	segments, wildcard, recursive := parseImportPath(n.Name)

	var aliasName string
	if len(n.Kids) > 0 {
		if a := ctx.Tree.Get(n.Kids[0]); a != nil {
			aliasName = a.Name
		}
	}

	if wildcard || recursive {
		pkgH, ok := resolvePackage(ctx, segments)
		if !ok {
			ctx.DB.Sink.Add(diag.KindImportOfUndefined, n.Loc, n.Name)
			ctx.Phases.Finish(node)
			return nil
		}
		pkg := ctx.DB.Arena.Get(pkgH).(*entity.Package)
		if len(pkg.Properties) == 0 && len(pkg.PackageConcats) == 0 {
			ctx.DB.Sink.Add(diag.KindEmptyPackage, n.Loc, n.Name)
		}
		imp.Target = pkgH
		ctx.Phases.Finish(node)
		return nil
	}

	if len(segments) == 0 {
		ctx.Phases.Finish(node)
		return nil
	}
	pkgPath, local := segments[:len(segments)-1], segments[len(segments)-1]
	pkgH, ok := resolvePackage(ctx, pkgPath)
	if !ok {
		ctx.DB.Sink.Add(diag.KindImportOfUndefined, n.Loc, n.Name)
		ctx.Phases.Finish(node)
		return nil
	}
	pkg := ctx.DB.Arena.Get(pkgH).(*entity.Package)

	propH, ok := pkg.Properties[entity.QName{Ns: pkg.PublicNs, Local: local}]
	if !ok {
		propH, ok = pkg.Properties[entity.QName{Ns: pkg.InternalNs, Local: local}]
	}
	if !ok {
		ctx.DB.Sink.Add(diag.KindImportOfUndefined, n.Loc, n.Name)
		ctx.Phases.Finish(node)
		return nil
	}
	imp.Target = propH

	if aliasName != "" {
		hoist := scope.SearchHoistScope(ctx.DB.Arena, ctx.Chain.Current())
		hoistScope := scope.Get(ctx.DB.Arena, hoist)
		qn := entity.QName{Ns: hoistScope.InternalNs, Local: aliasName}
		aliasH := ctx.DB.Arena.Alloc(&entity.Alias{QName: qn, AliasOf: propH})
		hoistScope.Properties[qn] = aliasH
		imp.Alias = aliasH
	}

	ctx.Phases.Finish(node)
	return nil
}

// parseImportPath splits a directive's dotted Name into its package
// segments, stripping and classifying a trailing ".*" (wildcard) or
// ".**" (recursive) marker. A plain property import ("p.q.X") returns
// every segment including the property's own local name; the caller
// splits off the last one.
func parseImportPath(name string) (segments []string, wildcard, recursive bool) {
	switch {
	case strings.HasSuffix(name, ".**"):
		recursive = true
		name = strings.TrimSuffix(name, ".**")
	case strings.HasSuffix(name, ".*"):
		wildcard = true
		name = strings.TrimSuffix(name, ".*")
	}
	if name == "" {
		return nil, wildcard, recursive
	}
	return strings.Split(name, "."), wildcard, recursive
}

// resolvePackage looks up the entity.Package declared for the given
// dotted segment path. Packages are declared into the top scope's
// property table by the Orchestrator's package-discovery pass, keyed
// by a QName over their full dotted name under the public namespace --
// the same convention every other top-level definition kind uses to
// declare itself into its enclosing scope.
func resolvePackage(ctx *Context, segments []string) (entity.Handle, bool) {
	if len(segments) == 0 {
		return entity.Nil, false
	}
	qualified := strings.Join(segments, ".")
	top := scope.Get(ctx.DB.Arena, ctx.DB.TopScope)
	h, ok := top.Properties[entity.QName{Ns: ctx.DB.System.PublicNs, Local: qualified}]
	if !ok {
		return entity.Nil, false
	}
	if _, isPkg := ctx.DB.Arena.Get(h).(*entity.Package); !isPkg {
		return entity.Nil, false
	}
	return h, true
}
