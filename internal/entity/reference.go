package entity

// RefKind tags which lookup path produced a Reference value.
type RefKind int

const (
	// RefScope resolves through a lexical scope's property table.
	RefScope RefKind = iota
	// RefFixture resolves through a fixed, declared-member table (a
	// class, interface or package's fixture scope).
	RefFixture
	// RefStatic resolves a static (class-level) member.
	RefStatic
	// RefPackage resolves a package-qualified property.
	RefPackage
	// RefDynamic resolves a dynamic (bracket/computed) property access
	// whose base is AnyType, Object, or a `dynamic` class.
	RefDynamic
)

// Reference is the resolved-lvalue entity the expression subverifier
// produces for a name/member lookup before applying a Mode (read,
// write, delete). Base is Nil for RefScope/RefPackage lookups that are
// not a member access.
type Reference struct {
	RefKind    RefKind
	Base       Handle
	Property   Handle // the resolved VariableSlot/VirtualSlot/MethodSlot, when statically known
	QName      QName
	StaticType Handle
}

func (*Reference) Kind() Kind { return KindReference }
