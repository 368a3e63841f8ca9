package entity

// ConstKind tags the payload carried by a Constant entity.
type ConstKind int

const (
	ConstUndefined ConstKind = iota
	ConstNull
	ConstNumber
	ConstString
	ConstBoolean
	ConstNamespace
	ConstType
)

// Constant is a compile-time value with a static type, produced by
// constant folding (package conversion) and consumed wherever the spec
// requires "a compile-time constant initializer" (externs, enum
// members, optional-parameter defaults, `const` without `[Embed]`).
//
// Number is held as a decimal string rather than a float64 so that
// package conversion can perform deterministic, non-lossy-by-accident
// truncation when folding between numeric types (see
// conversion.ConvertType); Go float64 arithmetic alone cannot give
// the reproducible rounding the spec's convert_type boundary requires.
type Constant struct {
	ConstKind  ConstKind
	StaticType Handle

	NumberValue    string // decimal text, valid when ConstKind == ConstNumber
	StringValue    string // valid when ConstKind == ConstString
	BooleanValue   bool   // valid when ConstKind == ConstBoolean
	NamespaceValue Handle // valid when ConstKind == ConstNamespace
	TypeValue      Handle // valid when ConstKind == ConstType
}

func (*Constant) Kind() Kind { return KindConstant }

// WithType returns a shallow copy of c retyped to t, used by the
// "T / T!" constant -> T? and "T / T?" constant -> T! constant rules
// (spec section 4.2, step 8) which clone a constant under a new
// static type rather than mutate the original.
func (c *Constant) WithType(t Handle) *Constant {
	clone := *c
	clone.StaticType = t
	return &clone
}

// ConversionValue wraps the result of a successful implicit/explicit
// conversion that is not itself a compile-time constant (an
// ObjectToItrfc downcast, a covariant array conversion, ...). It
// exists so conversion functions have a uniform non-constant result
// shape to return alongside Constant for the constant-folding path.
type ConversionValue struct {
	StaticType Handle
}

func (*ConversionValue) Kind() Kind { return KindConversionValue }
