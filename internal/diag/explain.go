package diag

import "fmt"

// explanations holds a one-line, human-readable gloss for each Kind,
// the text a front end or CLI shows a user asking "what does
// MustOverrideAMethod mean". Indexed in Kind declaration order,
// mirroring names.
var explanations = [...]string{
	"a declaration is never referenced anywhere in its enclosing scope",
	"an imported name is never referenced in the importing compilation unit",
	"a reference resolves to more than one property under an open namespace set",
	"an import names a package member that does not exist",
	"a package directive contributes no members at all",
	"a namespace attribute expression did not evaluate to a namespace constant",
	"a name used as a base class or type does not resolve to a class",
	"a name used in an implements/extends-interfaces list does not resolve to an interface",
	"a CONFIG:: constant's configured value is not a literal true/false",
	"a class's extends clause names itself, directly or through a cycle",
	"an interface's extends list names itself, directly or through a cycle",
	"a class attempts to extend a base class marked final",
	"an external class declares a slot with no accompanying native binding",
	"a class marked [RecordLike] does not satisfy the record-like base/constructor constraints",
	"a [RecordLike] class declares a constructor that takes arguments or contains a body",
	"an [Event] metadata annotation is missing a required argument or has the wrong shape",
	"a concrete subclass fails to override an inherited abstract method",
	"a concrete subclass fails to override an inherited abstract getter",
	"a concrete subclass fails to override an inherited abstract setter",
	"a class requiring an explicit constructor (its base's constructor takes required arguments) has none",
	"an interface method has no implementation anywhere in the implementing class hierarchy",
	"an interface getter has no implementation anywhere in the implementing class hierarchy",
	"an interface setter has no implementation anywhere in the implementing class hierarchy",
	"an implementing method's signature is incompatible with the interface method it implements",
	"an implementing getter's signature is incompatible with the interface getter it implements",
	"an implementing setter's signature is incompatible with the interface setter it implements",
	"an interface member expected to be a method instead resolves to a field-like property",
	"an interface member expected to be a getter/setter pair instead resolves to a plain method",
	"an override's signature is incompatible with the method it overrides",
	"a member marked override does not actually override an inherited member",
	"a member attempts to override a base member marked final",
	"a variable or parameter definition carries no type annotation",
	"a const definition has no initializer expression",
	"an entity used where a compile-time constant is required is not one",
	"an entity used where a type is required does not denote a type",
	"an assignment target resolves to a read-only entity",
	"a read of an entity resolves to a write-only entity",
	"a delete expression targets an entity that may not be deleted",
	"an external function is neither native nor declared abstract",
	"a class redeclares its constructor after one was already defined",
	"a subclass constructor's body does not contain a required super(...) statement",
	"a rest parameter's annotated type is not Array or an Array subtype",
	"a getter definition declares one or more parameters",
	"a getter definition's declared return type is not a concrete data type",
	"a setter definition does not declare exactly one parameter",
	"a setter's single parameter has no concrete data type",
	"a setter's declared return type is not void",
	"a function containing await must declare a Promise-family return type, or none",
	"a function's return value has no declared type (informational, mirrors missing variable annotations)",
	"a non-void, non-any-like function's return statement supplies no value",
	"a return statement appears outside of any function body",
	"a default xml namespace statement is not supported by this target",
	"an implicit coercion occurs between two types with no subtype relationship",
	"a for-in/for-each loop's iterated expression is not an iterable type",
	"a for-in/for-each loop expected to iterate a specific type iterates something else",
	"a namespace alias's name collides with a configuration constant's namespace prefix",
	"a CONFIG:: constant reference does not resolve to a defined configuration value",
	"a derived class member shadows a same-named, non-overridden member in a base class",
	"a destructuring pattern appears where this definition kind does not allow one",
	"two class definitions in the same scope declare the same qualified name",
	"two interface definitions in the same scope declare the same qualified name",
	"two function/method definitions in the same scope declare the same qualified name",
	"a new definition conflicts with an existing definition under the same name that no more specific Duplicate* kind covers",
	"two enum members share the same string representation",
	"two enum members share the same underlying value",
	"two enum members declare the same constant name",
	"an enum member's initializer is not a legal compile-time constant for its enum's base type",
	"an access-control namespace (private/protected/static-protected) is used outside a class body",
	"a call supplies fewer required arguments than its target's signature declares",
	"a call supplies more arguments than its target's signature allows",
	"a directive did not reach a steady state within the configured fixed-point cycle cap",
	"an identifier does not resolve to any visible entity",
	"a `this` reference appears where no enclosing activation binds one",
	"an external (native/abstract) definition's initializer is not a compile-time constant",
	"a member access names a property that does not exist on its base type",
	"a call expression's callee is not a callable entity",
	"a generic reference supplies the wrong number of type arguments",
	"a for-in/for-each loop declares both a key and a value binding, which this form does not support",
	"a break/continue statement names a label with no enclosing labeled statement",
	"a package concatenation directive names its own package, directly or through a cycle",
}

// Explain returns a one-line, user-facing description of what k means.
// Returns "<Kind name>: no explanation recorded" if the vocabulary has
// grown past the explanations table (a programmer-visible signal to
// update it).
func (k Kind) Explain() string {
	if int(k) < 0 || int(k) >= len(explanations) {
		return fmt.Sprintf("%s: no explanation recorded", k)
	}
	return explanations[k]
}

// AllKinds returns every Kind the core currently enumerates, in
// declaration order, the listing a CLI's `diagnostics` subcommand
// walks.
func AllKinds() []Kind {
	kinds := make([]Kind, len(names))
	for i := range names {
		kinds[i] = Kind(i)
	}
	return kinds
}

// ParseKind resolves a Kind's display name (as produced by String())
// back to its value, the lookup a CLI's `explain <name>` subcommand
// needs. The second result is false for an unrecognized name.
func ParseKind(name string) (Kind, bool) {
	for i, n := range names {
		if n == name {
			return Kind(i), true
		}
	}
	return 0, false
}
