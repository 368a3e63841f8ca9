package entity

import "github.com/whackengine/verifier/internal/diag"

// VariableSlot is a `var`/`const` binding. Constant is non-Nil only for
// compile-time-constant bindings (externs, enum members, `const` with
// a constant initializer); it holds a Handle to a Constant entity.
type VariableSlot struct {
	QName      QName
	ReadOnly   bool
	StaticType Handle
	Parent     Handle
	Constant   Handle
	Location   diag.Loc
	Metadata   []Metadata
}

func (*VariableSlot) Kind() Kind { return KindVariableSlot }

// VirtualSlot pairs a getter and/or setter MethodSlot under one
// property name. Per spec section 3, the getter/setter pair is one
// entity with two optional method children, not a getter subclass and
// a setter subclass; StaticType is derived from whichever accessor
// defines it (the getter's return type, else the setter's parameter
// type).
type VirtualSlot struct {
	QName      QName
	Getter     Handle
	Setter     Handle
	StaticType Handle
}

func (*VirtualSlot) Kind() Kind { return KindVirtualSlot }

// MethodFlags is a bitmask of MethodSlot modifiers.
type MethodFlags uint16

const (
	FlagFinal MethodFlags = 1 << iota
	FlagStatic
	FlagNative
	FlagAbstract
	FlagAsync
	FlagGenerator
	FlagCtor
	FlagOverriding
)

func (f MethodFlags) Has(flag MethodFlags) bool { return f&flag != 0 }

// MethodSlot is a function/method/getter/setter/constructor binding.
// Signature is a Handle to a FunctionType, built incrementally across
// Beta (parameter types) and Delta (override-checked).
type MethodSlot struct {
	QName      QName
	Signature  Handle
	Activation Handle // Handle to a scope.Activation entity.
	Flags      MethodFlags

	// OfVirtualSlot is Nil unless this method is a getter or setter,
	// in which case it points back at the VirtualSlot pairing it with
	// its (at most one) opposite accessor.
	OfVirtualSlot Handle

	Parent Handle
}

func (*MethodSlot) Kind() Kind { return KindMethodSlot }

// ThisObject is the entity bound to `this` inside an activation whose
// enclosing definition has an instance context (an instance method, a
// constructor).
type ThisObject struct {
	Type Handle
}

func (*ThisObject) Kind() Kind { return KindThisObject }
