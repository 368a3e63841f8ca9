package expression

import (
	"github.com/whackengine/verifier/internal/conversion"
	"github.com/whackengine/verifier/internal/entity"
)

// memberStatus tags the outcome of looking up a property on a static
// type, mirroring scope.Status but over a type's fixture rather than
// a lexical scope.
type memberStatus int

const (
	scopeFound memberStatus = iota
	scopeNotFound
	scopeAmbiguous
)

// lookupMember searches baseType's own Properties table (and, for a
// ClassType, every ancestor's) for local under every namespace open in
// env.OpenNs, plus (for a class) its own PublicNs; an enum is searched
// under the system public namespace only. Two distinct hits
// under different open namespaces is Ambiguous, matching
// scope.LookupQualified's rule for ordinary scope lookup.
func lookupMember(env *Env, baseType entity.Handle, local string) (entity.Handle, memberStatus) {
	h := conversion.Unwrap(env.DB.Arena, baseType)
	for !h.IsNil() {
		if cls := conversion.ClassOf(env.DB.Arena, h); cls != nil {
			if hit, status, done := searchProperties(env, cls.Properties, cls.PublicNs, local); done {
				return hit, status
			}
			h = cls.Extends
			continue
		}
		if iface := conversion.InterfaceOf(env.DB.Arena, h); iface != nil {
			if hit, status, done := searchProperties(env, iface.Properties, entity.Nil, local); done {
				return hit, status
			}
			for _, ext := range iface.Extends {
				if hit, status := lookupMember(env, ext, local); status == scopeFound || status == scopeAmbiguous {
					return hit, status
				}
			}
			return entity.Nil, scopeNotFound
		}
		if enm, ok := env.DB.Arena.Get(h).(*entity.EnumType); ok {
			if hit, ok := enm.Properties[entity.QName{Ns: env.DB.System.PublicNs, Local: local}]; ok {
				return hit, scopeFound
			}
			return entity.Nil, scopeNotFound
		}
		return entity.Nil, scopeNotFound
	}
	return entity.Nil, scopeNotFound
}

func searchProperties(env *Env, props map[entity.QName]entity.Handle, publicNs entity.Handle, local string) (entity.Handle, memberStatus, bool) {
	var hits []entity.Handle
	seen := make(map[entity.Handle]bool)
	add := func(ns entity.Handle) {
		if ns.IsNil() {
			return
		}
		if h, ok := props[entity.QName{Ns: ns, Local: local}]; ok && !seen[h] {
			seen[h] = true
			hits = append(hits, h)
		}
	}
	for _, ns := range env.OpenNs.All() {
		add(ns)
	}
	add(publicNs)

	switch len(hits) {
	case 0:
		return entity.Nil, scopeNotFound, false
	case 1:
		return hits[0], scopeFound, true
	default:
		return entity.Nil, scopeAmbiguous, true
	}
}
