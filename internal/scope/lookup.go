package scope

import "github.com/whackengine/verifier/internal/entity"

// Status tags a qualified-lookup Result.
type Status int

const (
	Found Status = iota
	None
	Ambiguous
)

// Result is the outcome of a qualified lookup: found(entity), none, or
// ambiguous(name), per spec section 4.3.
type Result struct {
	Status Status
	Entity entity.Handle
	Name   string // populated when Status == Ambiguous
}

// LookupQualified searches s's own property table for local under
// every namespace in openNs, plus (for a Package- or Fixture-variant
// scope) the implicit fallback against the scope's own PublicNs and
// InternalNs. Two distinct entities found under different open
// namespaces is reported as Ambiguous, matching the testable property
// "lookup for n through an open-namespace set with two distinct hits
// emits AmbiguousReference(n) exactly once" (the caller is responsible
// for the "exactly once" half, via diag.Sink's de-dup).
func LookupQualified(arena *entity.Arena, s *Scope, local string, openNs *entity.OpenNamespaceSet) Result {
	var hits []entity.Handle
	seen := make(map[entity.Handle]bool)

	tryNs := func(ns entity.Handle) {
		if ns.IsNil() {
			return
		}
		h, ok := s.Properties[entity.QName{Ns: ns, Local: local}]
		if ok && !seen[h] {
			seen[h] = true
			hits = append(hits, h)
		}
	}

	for _, ns := range openNs.All() {
		tryNs(ns)
	}
	if s.Variant == Package || s.Variant == Fixture {
		tryNs(s.PublicNs)
		tryNs(s.InternalNs)
	}

	switch len(hits) {
	case 0:
		return Result{Status: None}
	case 1:
		return Result{Status: Found, Entity: hits[0]}
	default:
		return Result{Status: Ambiguous, Name: local}
	}
}

// LookupChain walks from leaf up through Parent handles, returning the
// first Found/Ambiguous result, or None if no scope in the chain has a
// match.
func LookupChain(arena *entity.Arena, leaf entity.Handle, local string, openNs *entity.OpenNamespaceSet) Result {
	h := leaf
	for !h.IsNil() {
		s := Get(arena, h)
		if s == nil {
			break
		}
		if r := LookupQualified(arena, s, local, openNs); r.Status != None {
			return r
		}
		h = s.Parent
	}
	return Result{Status: None}
}

// SearchActivation walks upward from h to the nearest Activation
// scope, returning Nil if none is found (a top-level/static context).
func SearchActivation(arena *entity.Arena, h entity.Handle) entity.Handle {
	for !h.IsNil() {
		s := Get(arena, h)
		if s == nil {
			return entity.Nil
		}
		if s.Variant == Activation {
			return h
		}
		h = s.Parent
	}
	return entity.Nil
}

// SearchHoistScope walks upward to the nearest scope that may contain
// hoisted declarations: a package scope, a function activation, or the
// top scope (a Plain scope with no parent).
func SearchHoistScope(arena *entity.Arena, h entity.Handle) entity.Handle {
	for !h.IsNil() {
		s := Get(arena, h)
		if s == nil {
			return entity.Nil
		}
		if s.Variant == Package || s.Variant == Activation || s.Parent.IsNil() {
			return h
		}
		h = s.Parent
	}
	return entity.Nil
}
