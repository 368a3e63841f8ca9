package directive

import (
	"github.com/whackengine/verifier/internal/ast"
	"github.com/whackengine/verifier/internal/diag"
	"github.com/whackengine/verifier/internal/entity"
	"github.com/whackengine/verifier/internal/phase"
	"github.com/whackengine/verifier/internal/scope"
)

// VerifyPackageConcat implements spec section 4.4's package
// concatenation directive: a `package p extends q.*;` / `q.**;`
// wildcard/recursive form appends q's handle to the enclosing
// package's PackageConcats list (recursive rejects a self-reference),
// while a plain identifier form (`package p extends q.X;`) defines a
// public-namespace alias in the enclosing package referencing the
// named property. Resolution needs a discoverable q, so all the work
// happens at Beta, reusing import.go's path-parsing/package-resolution
// helpers since the two directives share the same dotted-path-with-
// optional-wildcard-marker shape.
func VerifyPackageConcat(ctx *Context, node ast.NodeID) error {
	n := ctx.Tree.Get(node)
	if n == nil {
		return nil
	}
	p := ctx.phaseOf(node)

	switch p {
	case phase.Alpha:
		ctx.advance(node)
		return phase.NewDefer()
	case phase.Beta:
		return verifyPackageConcatBeta(ctx, node, n)
	case phase.Delta, phase.Epsilon:
		ctx.advance(node)
		return phase.NewDefer()
	case phase.Omega:
		ctx.Phases.Finish(node)
		return nil
	}
	return nil
}

func verifyPackageConcatBeta(ctx *Context, node ast.NodeID, n *ast.Node) error {
	pkgH, pkg, ok := findEnclosingPackage(ctx)
	if !ok {
		ctx.Phases.Finish(node)
		return nil
	}

	segments, wildcard, recursive := parseImportPath(n.Name)

	if wildcard || recursive {
		targetH, ok := resolvePackage(ctx, segments)
		if !ok {
			ctx.DB.Sink.Add(diag.KindImportOfUndefined, n.Loc, n.Name)
			ctx.Phases.Finish(node)
			return nil
		}
		if recursive && targetH == pkgH {
			ctx.DB.Sink.Add(diag.KindRecursivePackageConcatSelfReference, n.Loc, n.Name)
			ctx.Phases.Finish(node)
			return nil
		}
		pkg.PackageConcats = append(pkg.PackageConcats, targetH)
		ctx.Phases.Finish(node)
		return nil
	}

	if len(segments) == 0 {
		ctx.Phases.Finish(node)
		return nil
	}
	pkgPath, local := segments[:len(segments)-1], segments[len(segments)-1]
	targetPkgH, ok := resolvePackage(ctx, pkgPath)
	if !ok {
		ctx.DB.Sink.Add(diag.KindImportOfUndefined, n.Loc, n.Name)
		ctx.Phases.Finish(node)
		return nil
	}
	targetPkg := ctx.DB.Arena.Get(targetPkgH).(*entity.Package)
	propH, ok := targetPkg.Properties[entity.QName{Ns: targetPkg.PublicNs, Local: local}]
	if !ok {
		ctx.DB.Sink.Add(diag.KindImportOfUndefined, n.Loc, n.Name)
		ctx.Phases.Finish(node)
		return nil
	}

	qn := entity.QName{Ns: pkg.PublicNs, Local: local}
	aliasH := ctx.DB.Arena.Alloc(&entity.Alias{QName: qn, AliasOf: propH})
	pkg.Properties[qn] = aliasH

	ctx.Phases.Finish(node)
	return nil
}

// findEnclosingPackage walks up the scope chain for the nearest
// Package-variant scope, the same Parent-link search findInterfaceScope
// uses for an interface's cached scope.
func findEnclosingPackage(ctx *Context) (entity.Handle, *entity.Package, bool) {
	for h := ctx.Chain.Current(); !h.IsNil(); {
		s := scope.Get(ctx.DB.Arena, h)
		if s.Variant == scope.Package && !s.Of.IsNil() {
			if pkg, ok := ctx.DB.Arena.Get(s.Of).(*entity.Package); ok {
				return s.Of, pkg, true
			}
		}
		h = s.Parent
	}
	return entity.Nil, nil, false
}
