package directive

import (
	"github.com/whackengine/verifier/internal/ast"
	"github.com/whackengine/verifier/internal/diag"
	"github.com/whackengine/verifier/internal/entity"
	"github.com/whackengine/verifier/internal/expression"
)

// Modifiers is the parsed-out attribute list shared by class,
// interface, enum, and function definitions: the access namespace a
// member/type is declared under, plus the handful of boolean
// modifiers (`static`, `final`, `override`, `abstract`, `native`,
// `dynamic`, `async`) spec section 4.4 checks per definition kind.
type Modifiers struct {
	Ns entity.Handle

	IsStatic   bool
	IsFinal    bool
	IsOverride bool
	IsAbstract bool
	IsNative   bool
	IsDynamic  bool
	IsAsync    bool
}

// parseModifiers reads n's Attributes into a Modifiers value. ownerClass
// is the enclosing ClassType (for `private`/`protected`/
// `static-protected` resolution); it is Nil outside a class body, in
// which case those three access kinds are rejected with
// AccessControlNamespaceNotAllowedHere. An attribute that isn't one of
// the reserved keywords is evaluated as a user namespace expression,
// which may defer.
func parseModifiers(ctx *Context, attrs []ast.NodeID, ownerClass *entity.ClassType) (Modifiers, error) {
	var m Modifiers
	sawAccess := false

	for _, id := range attrs {
		n := ctx.Tree.Get(id)
		if n == nil {
			continue
		}
		switch n.Name {
		case "static":
			m.IsStatic = true
		case "final":
			m.IsFinal = true
		case "override":
			m.IsOverride = true
		case "abstract":
			m.IsAbstract = true
		case "native":
			m.IsNative = true
		case "dynamic":
			m.IsDynamic = true
		case "async":
			m.IsAsync = true
		case "public":
			m.Ns = ctx.DB.System.PublicNs
			sawAccess = true
		case "internal":
			m.Ns = ctx.internalNamespace()
			sawAccess = true
		case "private":
			if ownerClass == nil {
				ctx.DB.Sink.Add(diag.KindAccessControlNamespaceNotAllowedHere, n.Loc)
				m.Ns = ctx.internalNamespace()
			} else {
				m.Ns = ownerClass.PrivateNs
			}
			sawAccess = true
		case "protected":
			if ownerClass == nil {
				ctx.DB.Sink.Add(diag.KindAccessControlNamespaceNotAllowedHere, n.Loc)
				m.Ns = ctx.internalNamespace()
			} else if m.IsStatic {
				m.Ns = ownerClass.StaticProtectedNs
			} else {
				m.Ns = ownerClass.ProtectedNs
			}
			sawAccess = true
		default:
			val, err := expression.Evaluate(ctx.Env, id, expression.Read)
			if err != nil {
				return m, err
			}
			if c, ok := ctx.DB.Arena.Get(val).(*entity.Constant); ok && c.ConstKind == entity.ConstNamespace {
				m.Ns = c.NamespaceValue
				sawAccess = true
			} else {
				ctx.DB.Sink.Add(diag.KindNotANamespaceConstant, n.Loc)
			}
		}
	}

	if !sawAccess {
		m.Ns = ctx.internalNamespace()
	}
	return m, nil
}
