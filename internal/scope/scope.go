// Package scope implements name resolution: the Scope entity itself,
// the chain of scopes active at a program point, open-namespace sets,
// and qualified-name lookup with ambiguity detection (spec section
// 4.3).
package scope

import (
	"github.com/whackengine/verifier/internal/diag"
	"github.com/whackengine/verifier/internal/entity"
)

// Variant distinguishes the specialized Scope shapes spec section 3
// lists: plain, with, class, enum, interface, package, fixture and
// activation scopes.
type Variant int

const (
	Plain Variant = iota
	With
	Class
	Enum
	Interface
	Package
	Fixture
	Activation
)

// Scope is the entity backing every lexical environment the verifier
// opens: a local block, a class/interface/enum/package's fixture
// scope, or a function activation. Parent is a weak back-reference
// (an Arena Handle, not an owning pointer) so that cyclic scope graphs
// are representable without Go-level reference cycles, per the design
// notes in SPEC_FULL.md.
type Scope struct {
	Variant Variant
	Parent  entity.Handle

	Properties map[entity.QName]entity.Handle
	OpenNs     *entity.OpenNamespaceSet
	Imports    []*Import

	// Of holds the ClassType/InterfaceType/EnumType/Package handle for
	// Class/Interface/Enum/Package/Fixture scopes; Nil otherwise.
	Of entity.Handle

	// Activation fields; PublicNs, InternalNs and IsPackageInit are
	// also set on Package scopes.
	OfMethod       entity.Handle // the MethodSlot this activation belongs to
	This           entity.Handle // the ThisObject, Nil for static/global contexts
	InternalNs     entity.Handle
	PublicNs       entity.Handle
	IsPackageInit  bool
	IsGlobalInit   bool
	captured       map[entity.Handle]bool
}

func (*Scope) Kind() entity.Kind { return entity.KindScope }

// Import records one `import`/`import ... as` directive contributed to
// a scope, tracked so an unreferenced import can be diagnosed
// (`UnusedImport`).
type Import struct {
	// Wildcard is true for `import p.*;`, Recursive for `import p.**;`.
	Wildcard  bool
	Recursive bool
	// Target is the imported Package or property Handle; Alias is Nil
	// unless this is an aliased property import (`import p.X as Y;`).
	Target entity.Handle
	Alias  entity.Handle
	Used   bool
	Loc    diag.Loc
	// Name is the import directive's raw dotted path, the arg an
	// Unused diagnostic names.
	Name string
}

// New allocates a fresh Scope of the given variant with parent as its
// lexical enclosing scope and stores it in arena.
func New(arena *entity.Arena, variant Variant, parent entity.Handle) entity.Handle {
	s := &Scope{
		Variant:    variant,
		Parent:     parent,
		Properties: make(map[entity.QName]entity.Handle),
		OpenNs:     entity.NewOpenNamespaceSet(),
		captured:   make(map[entity.Handle]bool),
	}
	return arena.Alloc(s)
}

// Get dereferences h as a *Scope, or nil if h is not a scope.
func Get(arena *entity.Arena, h entity.Handle) *Scope {
	s, _ := arena.Get(h).(*Scope)
	return s
}

// Enter allocates a child scope of variant under current, inheriting
// current as parent when the caller does not already have a parent in
// mind. Callers push with Enter and MUST pop with Chain.Pop via defer
// immediately, so that scope exit is guaranteed on every path
// including a phase.Defer return.
func Enter(arena *entity.Arena, current entity.Handle, variant Variant) entity.Handle {
	return New(arena, variant, current)
}

// MarkCaptured records that property (a VariableSlot/VirtualSlot/
// MethodSlot handle resolved across an activation boundary) was
// captured by a nested closure, per the Local Capture Detection rule
// in spec section 4.5.
func (s *Scope) MarkCaptured(property entity.Handle) {
	if s.captured == nil {
		s.captured = make(map[entity.Handle]bool)
	}
	s.captured[property] = true
}

// HasCapture reports whether property was previously marked captured
// on this activation.
func (s *Scope) HasCapture(property entity.Handle) bool {
	return s.captured[property]
}

// MarkImportReferenced walks from leaf up through Parent handles,
// flagging as Used any Import whose Target or Alias is resolved,
// the bookkeeping a later unused-import sweep (spec section 8
// scenario 7's `Unused` warning) reads back.
func MarkImportReferenced(arena *entity.Arena, leaf entity.Handle, resolved entity.Handle) {
	if resolved.IsNil() {
		return
	}
	h := leaf
	for !h.IsNil() {
		s := Get(arena, h)
		if s == nil {
			break
		}
		for _, imp := range s.Imports {
			if imp.Target == resolved || imp.Alias == resolved {
				imp.Used = true
			}
		}
		h = s.Parent
	}
}
