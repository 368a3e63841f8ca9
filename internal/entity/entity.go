package entity

// Handle is a stable, arena-relative reference to an Entity. Handles
// are the "weak back-reference" the design notes call for: a Handle is
// a lookup key, never an owning pointer, so cyclic entity graphs (a
// class's known_subclasses pointing back at a base class that extends
// it) are representable without Go-level reference cycles across
// packages that would otherwise complicate garbage collection
// reasoning. Handles never outlive the Arena that issued them.
type Handle struct {
	index uint32
}

// Nil is the zero Handle; no entity is ever stored at this index.
var Nil = Handle{}

func (h Handle) IsNil() bool { return h == Nil }

// AnyType is the unique entity for the dynamic `*` type. It includes
// null per the definition in spec section 3.
type AnyType struct{}

func (AnyType) Kind() Kind { return KindAny }

// VoidType is the unique entity for `void`. It does not include null.
type VoidType struct{}

func (VoidType) Kind() Kind { return KindVoid }

// InvalidationEntity is the semantic "poison" that replaces a
// definition once a conflict or unrecoverable malformedness has been
// diagnosed. Every type predicate that receives an InvalidationEntity
// (directly, or as a handle resolving to one) must return its
// distinguished invalid result and MUST NOT emit further diagnostics
// about it; this is what lets one root cause produce one diagnostic
// instead of a cascade.
type InvalidationEntity struct {
	// Cause is retained for debugging/logging only; it is never
	// consulted by conversion or lookup logic.
	Cause string
}

func (InvalidationEntity) Kind() Kind { return KindInvalidation }

// UnresolvedEntity marks a reference (an extends clause, a type
// argument, the Object base type) whose target has not yet been
// determined. Any operation that needs a concrete result from an
// UnresolvedEntity must fail with phase.Defer rather than guess.
type UnresolvedEntity struct {
	// DebugName is a human-readable hint for diagnostics/logging only.
	DebugName string
}

func (UnresolvedEntity) Kind() Kind { return KindUnresolved }

// IsInvalidated reports whether e is an InvalidationEntity, looking
// through a nil-safe interface check. Most predicates in conversion,
// inheritance and lookup call this first and short-circuit.
func IsInvalidated(e Entity) bool {
	_, ok := e.(InvalidationEntity)
	return ok
}

// IsUnresolved reports whether e is still an UnresolvedEntity.
func IsUnresolved(e Entity) bool {
	_, ok := e.(UnresolvedEntity)
	return ok
}
