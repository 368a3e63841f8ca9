package directive

import (
	"github.com/whackengine/verifier/internal/ast"
)

// VerifyPackageMember dispatches one node at package/top-level
// position to its definition-kind subverifier, the package-scope
// counterpart of visitMember's class/interface-body dispatch: a
// variable or function definition here has no owning ClassType, and
// every kind visitMember defers to "the Orchestrator instead" --
// class, interface, enum, type alias, namespace alias, use namespace,
// plus the directives only legal at this position (import, package
// concatenation, configuration) -- is handled directly.
func VerifyPackageMember(ctx *Context, id ast.NodeID) error {
	n := ctx.Tree.Get(id)
	if n == nil {
		return nil
	}

	switch n.Kind {
	case ast.KindClassDef:
		return VerifyClass(ctx, id)
	case ast.KindInterfaceDef:
		return VerifyInterface(ctx, id)
	case ast.KindEnumDef:
		return VerifyEnum(ctx, id)
	case ast.KindTypeAliasDef:
		return VerifyTypeAlias(ctx, id)
	case ast.KindNamespaceAliasDef:
		return VerifyNamespaceAlias(ctx, id)
	case ast.KindUseNamespaceDirective:
		return VerifyUseNamespace(ctx, id)
	case ast.KindImportDirective:
		return VerifyImport(ctx, id)
	case ast.KindPackageConcatDirective:
		return VerifyPackageConcat(ctx, id)
	case ast.KindConfigDirective:
		return VerifyConfigDirective(ctx, id)

	case ast.KindVariableDef:
		mods, err := parseModifiers(ctx, n.Attributes, nil)
		if err != nil {
			return err
		}
		_, hasEmbed := findMetadata(collectMetadata(ctx, n.Metadata), "Embed")
		opts := VariableOptions{
			ReadOnly:  mods.IsFinal,
			HasEmbed:  hasEmbed,
			InFixture: true,
			Ns:        mods.Ns,
		}
		return VerifyVariable(ctx, id, opts)

	case ast.KindFunctionDef:
		mods, err := parseModifiers(ctx, n.Attributes, nil)
		if err != nil {
			return err
		}
		return VerifyFunction(ctx, id, FunctionOptions{Mods: mods})

	default:
		return nil
	}
}
