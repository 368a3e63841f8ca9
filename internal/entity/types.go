package entity

// EventInfo records one `[Event(name=, bubbles=, type=)]` metadata
// entry attached to a class or interface. Type is left Nil (no phase
// resolves the `type=` argument), so the entry is recorded only by
// name and bubbles flag.
type EventInfo struct {
	Name    string
	Bubbles bool
	Type    Handle
}

// Metadata is a generic `[Name(k=v, ...)]` attribute attached to a
// definition. Well-known names (RecordLike, whack_external, Event,
// Bindable, Embed) are interpreted by the directive subverifier;
// anything else is retained verbatim for downstream consumers.
type Metadata struct {
	Name string
	Args map[string]string
}

// ClassType is a nominal class definition.
type ClassType struct {
	QName QName

	Extends    Handle // An UnresolvedEntity from Alpha until Beta resolves it; Object has no base (Nil).
	Implements []Handle

	IsFinal           bool
	IsAbstract        bool
	IsStatic          bool
	IsDynamic         bool
	IsExternal        bool
	ExternalSlotCount int // from `[whack_external(slots="N")]`
	ExternalLocal     bool
	IsRecordLike      bool

	// PermitsNull is false for the handful of value-like system types
	// (Number, int, uint, float, Boolean) the Database bootstraps with
	// null excluded;
	// every user-defined class defaults to true.
	PermitsNull bool

	PrivateNs        Handle
	ProtectedNs      Handle
	StaticProtectedNs Handle
	PublicNs         Handle

	TypeParams []Handle // Handles to TypeParameterType, nil if not generic.

	Properties map[QName]Handle
	Prototype  Handle
	Ctor       Handle

	Events map[string]EventInfo

	KnownSubclasses []Handle

	Metadata []Metadata
}

func (*ClassType) Kind() Kind { return KindClass }

// InterfaceType is a nominal interface definition.
type InterfaceType struct {
	QName   QName
	Extends []Handle

	TypeParams []Handle

	Properties map[QName]Handle
	Events     map[string]EventInfo

	KnownImplementors []Handle
}

func (*InterfaceType) Kind() Kind { return KindInterface }

// EnumType is a nominal enum definition. Member mappings are built and
// checked in Alpha (spec section 4.4's Enum algorithm), where the enum
// node also finishes.
type EnumType struct {
	QName      QName
	Properties map[QName]Handle

	MemberNumberMapping map[string]float64
	MemberSlotMapping   map[string]Handle
}

func (*EnumType) Kind() Kind { return KindEnum }

// ParamKind distinguishes a FunctionType parameter's binding form.
type ParamKind int

const (
	ParamRequired ParamKind = iota
	ParamOptional
	ParamRest
)

// Param is one parameter of a FunctionType's signature.
type Param struct {
	ParamKind  ParamKind
	StaticType Handle
}

// FunctionType is the structural type of a function value: an ordered
// parameter list plus a result type. Two FunctionTypes are compatible
// (for Function->structural-function-type conversion, spec 4.2) when
// their parameter kinds and static types line up and result types
// match; see package conversion.
type FunctionType struct {
	Params     []Param
	ResultType Handle
}

func (*FunctionType) Kind() Kind { return KindFunction }

// NullableType wraps a base type to explicitly include null (`T?`).
type NullableType struct {
	Base Handle
}

func (*NullableType) Kind() Kind { return KindNullable }

// NonNullableType wraps a base type to explicitly exclude null (`T!`).
type NonNullableType struct {
	Base Handle
}

func (*NonNullableType) Kind() Kind { return KindNonNullable }

// TypeParameterType is a generic type parameter (e.g. the `T` in
// `class Box.<T>`).
type TypeParameterType struct {
	Name string
}

func (*TypeParameterType) Kind() Kind { return KindTypeParameter }

// TypeAfterSubstitution is an applied parameterized type: Origin is
// the generic ClassType/InterfaceType/FunctionType, Args are the type
// arguments in declaration order. These are interned by Arena so that
// `Vector.<int>` always resolves to the same Handle.
type TypeAfterSubstitution struct {
	Origin Handle
	Args   []Handle
}

func (*TypeAfterSubstitution) Kind() Kind { return KindTypeAfterSubstitution }

// Alias is a type-alias entity. AliasOf may be Unresolved until Omega.
type Alias struct {
	QName   QName
	AliasOf Handle
}

func (*Alias) Kind() Kind { return KindAlias }
