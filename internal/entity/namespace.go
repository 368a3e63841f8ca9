package entity

// NamespaceKind distinguishes the small enumeration of system
// namespaces from ordinary user/internal ones. System namespaces are
// allocated once by their owner (the public namespace at Database
// bootstrap, an internal namespace per package or unit, private and
// protected namespaces per class) and searched lexically up the scope
// chain, per spec section 4.3.
type NamespaceKind int

const (
	// NSPublic is the implicit "any public namespace" fallback kind
	// as well as every package's public namespace.
	NSPublic NamespaceKind = iota
	NSInternal
	NSPrivate
	NSProtected
	NSStaticProtected
	// NSUser is an explicit, user-declared namespace (`namespace N = "uri";`)
	// or a namespace-alias target synthesized when no RHS is given.
	NSUser
)

func (k NamespaceKind) String() string {
	switch k {
	case NSPublic:
		return "public"
	case NSInternal:
		return "internal"
	case NSPrivate:
		return "private"
	case NSProtected:
		return "protected"
	case NSStaticProtected:
		return "static-protected"
	case NSUser:
		return "user"
	default:
		return "unknown"
	}
}

// IsSystem reports whether k is one of the five system kinds,
// associated with a class/scope rather than given an explicit name by
// the user.
func (k NamespaceKind) IsSystem() bool {
	return k != NSUser
}

// Namespace is the entity backing a QName's namespace component. For
// system kinds, Of holds the owning ClassType (Private, Protected,
// StaticProtected) or is Nil (Public, Internal at the top level).
// For NSUser, URI holds the namespace's string value (from a literal
// RHS) or a synthesized unique name (for a namespace alias with no RHS).
type Namespace struct {
	KindTag NamespaceKind
	URI     string
	Of      Handle
}

func (*Namespace) Kind() Kind { return KindNamespace }

// QName is a qualified name: a namespace handle paired with a local
// name. A QName is a plain comparable struct, so identical
// (namespace, local) pairs compare equal as Go values and can key maps
// directly without interning.
type QName struct {
	Ns    Handle
	Local string
}

// OpenNamespaceSet is the set of namespaces active for unqualified
// lookup at a program point: explicit `use namespace` targets plus the
// always-implicit "any public namespace" fallback handled separately
// by callers (see package scope).
type OpenNamespaceSet struct {
	namespaces map[Handle]bool
}

// NewOpenNamespaceSet creates an empty set.
func NewOpenNamespaceSet() *OpenNamespaceSet {
	return &OpenNamespaceSet{namespaces: make(map[Handle]bool)}
}

// Add opens ns in the set.
func (s *OpenNamespaceSet) Add(ns Handle) {
	s.namespaces[ns] = true
}

// Contains reports whether ns is open in the set.
func (s *OpenNamespaceSet) Contains(ns Handle) bool {
	return s.namespaces[ns]
}

// Clone returns a new set containing the same members, used when a
// nested scope needs to extend its parent's open-namespace set without
// mutating it (e.g. a class body pushing its own private namespace).
func (s *OpenNamespaceSet) Clone() *OpenNamespaceSet {
	c := NewOpenNamespaceSet()
	for ns := range s.namespaces {
		c.namespaces[ns] = true
	}
	return c
}

// All returns every open namespace handle, in no particular order.
func (s *OpenNamespaceSet) All() []Handle {
	out := make([]Handle, 0, len(s.namespaces))
	for ns := range s.namespaces {
		out = append(out, ns)
	}
	return out
}
