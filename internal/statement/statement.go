package statement

import (
	"github.com/whackengine/verifier/internal/ast"
	"github.com/whackengine/verifier/internal/conversion"
	"github.com/whackengine/verifier/internal/diag"
	"github.com/whackengine/verifier/internal/entity"
	"github.com/whackengine/verifier/internal/expression"
	"github.com/whackengine/verifier/internal/scope"
)

// VerifyBlock verifies every statement of a block node in source
// order, inside a fresh Plain scope pushed onto ctx.Chain.
func VerifyBlock(ctx *Context, node ast.NodeID) error {
	n := ctx.Tree.Get(node)
	if n == nil {
		return nil
	}
	ctx.Chain.Push(scope.Plain)
	defer ctx.Chain.Pop()

	for _, id := range n.Kids {
		if err := verifyStatement(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

func verifyStatement(ctx *Context, id ast.NodeID) error {
	n := ctx.Tree.Get(id)
	if n == nil {
		return nil
	}

	switch n.Kind {
	case ast.KindBlock:
		return VerifyBlock(ctx, id)

	case ast.KindExpressionStatement:
		if len(n.Kids) == 0 {
			return nil
		}
		_, err := expression.Evaluate(ctx.Env, n.Kids[0], expression.Read)
		return err

	case ast.KindVariableDef:
		return verifyLocalVariable(ctx, id, n)

	case ast.KindIfStatement:
		return verifyIf(ctx, n)

	case ast.KindWhileStatement:
		return verifyWhile(ctx, n)

	case ast.KindDoWhileStatement:
		return verifyDoWhile(ctx, n)

	case ast.KindForStatement:
		return verifyFor(ctx, n)

	case ast.KindForInStatement, ast.KindForEachStatement:
		return verifyForIn(ctx, n)

	case ast.KindSwitchStatement:
		return verifySwitch(ctx, n)

	case ast.KindTryStatement:
		return verifyTry(ctx, n)

	case ast.KindReturnStatement:
		return verifyReturn(ctx, n)

	case ast.KindThrowStatement:
		if len(n.Kids) == 0 {
			return nil
		}
		_, err := expression.Evaluate(ctx.Env, n.Kids[0], expression.Read)
		return err

	case ast.KindSuperStatement:
		for _, argID := range n.Kids {
			if _, err := expression.Evaluate(ctx.Env, argID, expression.Read); err != nil {
				return err
			}
		}
		return nil

	case ast.KindBreakStatement, ast.KindContinueStatement:
		if n.Name != "" && !ctx.hasLabel(n.Name) {
			ctx.DB.Sink.Add(diag.KindUndefinedLabel, n.Loc, n.Name)
		}
		return nil

	case ast.KindLabeledStatement:
		ctx.labels = append(ctx.labels, n.Name)
		defer func() { ctx.labels = ctx.labels[:len(ctx.labels)-1] }()
		if len(n.Kids) == 0 {
			return nil
		}
		return verifyStatement(ctx, n.Kids[0])

	case ast.KindDefaultXMLNamespaceStatement:
		ctx.DB.Sink.Add(diag.KindDxnsStatementIsNotSupported, n.Loc)
		return nil

	case ast.KindImportDirective, ast.KindUseNamespaceDirective, ast.KindConfigDirective,
		ast.KindIncludeDirective, ast.KindPackageConcatDirective:
		// Directives nested inside a block are skipped: the statement
		// subverifier does not verify them, and the Orchestrator
		// dispatches only a unit's top-level directives.
		return nil

	default:
		return nil
	}
}

func (c *Context) hasLabel(name string) bool {
	for _, l := range c.labels {
		if l == name {
			return true
		}
	}
	return false
}

func verifyLocalVariable(ctx *Context, id ast.NodeID, n *ast.Node) error {
	staticType := ctx.DB.System.AnyType
	if n.Annotation != 0 {
		resolved, err := expression.ResolveTypeExpression(ctx.Env, n.Annotation)
		if err != nil {
			return err
		}
		staticType = resolved
	} else {
		ctx.DB.Sink.AddWithSeverity(diag.KindVariableHasNoTypeAnnotation, diag.SeverityWarning, n.Loc)
	}

	slotH := ctx.DB.Arena.Alloc(&entity.VariableSlot{
		QName:      entity.QName{Ns: ctx.DB.System.PublicNs, Local: n.Name},
		StaticType: staticType,
		Location:   n.Loc,
	})
	ctx.DB.Assign(id, slotH)
	scope.Get(ctx.DB.Arena, ctx.Chain.Current()).Properties[entity.QName{Ns: ctx.DB.System.PublicNs, Local: n.Name}] = slotH

	if len(n.Kids) > 0 {
		initVal, err := expression.Evaluate(ctx.Env, n.Kids[0], expression.Read)
		if err != nil {
			return err
		}
		_, ok, err := conversion.Implicit(ctx.DB.Arena, initVal, staticType)
		if err != nil {
			return err
		}
		if !ok {
			ctx.DB.Sink.Add(diag.KindImplicitCoercionToUnrelatedType, n.Loc,
				conversion.DisplayName(ctx.DB.Arena, conversion.TypeOf(ctx.DB.Arena, initVal)),
				conversion.DisplayName(ctx.DB.Arena, staticType))
		}
	}
	return nil
}

func verifyIf(ctx *Context, n *ast.Node) error {
	if len(n.Kids) < 2 {
		return nil
	}
	if _, err := expression.Evaluate(ctx.Env, n.Kids[0], expression.Read); err != nil {
		return err
	}
	if err := verifyStatement(ctx, n.Kids[1]); err != nil {
		return err
	}
	if len(n.Kids) > 2 && n.Kids[2] != 0 {
		return verifyStatement(ctx, n.Kids[2])
	}
	return nil
}

func verifyWhile(ctx *Context, n *ast.Node) error {
	if len(n.Kids) < 2 {
		return nil
	}
	if _, err := expression.Evaluate(ctx.Env, n.Kids[0], expression.Read); err != nil {
		return err
	}
	return verifyStatement(ctx, n.Kids[1])
}

func verifyDoWhile(ctx *Context, n *ast.Node) error {
	if len(n.Kids) < 2 {
		return nil
	}
	if err := verifyStatement(ctx, n.Kids[0]); err != nil {
		return err
	}
	_, err := expression.Evaluate(ctx.Env, n.Kids[1], expression.Read)
	return err
}

func verifyFor(ctx *Context, n *ast.Node) error {
	ctx.Chain.Push(scope.Plain)
	defer ctx.Chain.Pop()

	if len(n.Kids) != 4 {
		return nil
	}
	init, cond, update, body := n.Kids[0], n.Kids[1], n.Kids[2], n.Kids[3]
	if init != 0 {
		if err := verifyStatement(ctx, init); err != nil {
			return err
		}
	}
	if cond != 0 {
		if _, err := expression.Evaluate(ctx.Env, cond, expression.Read); err != nil {
			return err
		}
	}
	if update != 0 {
		if _, err := expression.Evaluate(ctx.Env, update, expression.Read); err != nil {
			return err
		}
	}
	return verifyStatement(ctx, body)
}

// verifyForIn handles both `for (x in obj)` (keys) and
// `for each (x in obj)` (values), per n.IsForEach / n.Kind ==
// KindForEachStatement.
func verifyForIn(ctx *Context, n *ast.Node) error {
	if len(n.Kids) != 3 {
		return nil
	}
	binding, objID, body := n.Kids[0], n.Kids[1], n.Kids[2]
	isEach := n.IsForEach || n.Kind == ast.KindForEachStatement

	objVal, err := expression.Evaluate(ctx.Env, objID, expression.Read)
	if err != nil {
		return err
	}
	objType := conversion.TypeOf(ctx.DB.Arena, objVal)
	if objType.IsNil() || !conversion.IsAnyLikeType(ctx.DB.Arena, objType) {
		if !iterableType(ctx, objType) {
			ctx.DB.Sink.Add(diag.KindCannotIterateType, n.Loc)
		}
	}

	h := ctx.Chain.Push(scope.Plain)
	defer ctx.Chain.Pop()

	bindingType := forInBindingType(ctx, objType, isEach)
	bindingNode := ctx.Tree.Get(binding)
	if bindingNode != nil && bindingNode.Kind == ast.KindVariableDef {
		if bindingNode.Annotation == 0 {
			slotH := ctx.DB.Arena.Alloc(&entity.VariableSlot{
				QName:      entity.QName{Ns: ctx.DB.System.PublicNs, Local: bindingNode.Name},
				StaticType: bindingType,
				Location:   bindingNode.Loc,
			})
			ctx.DB.Assign(binding, slotH)
			scope.Get(ctx.DB.Arena, h).Properties[entity.QName{Ns: ctx.DB.System.PublicNs, Local: bindingNode.Name}] = slotH
		} else if err := verifyLocalVariable(ctx, binding, bindingNode); err != nil {
			return err
		}
	} else {
		if _, err := expression.Evaluate(ctx.Env, binding, expression.Write); err != nil {
			return err
		}
	}

	return verifyStatement(ctx, body)
}

// forInKeyValueKind classifies objType against spec section 4.7's
// iterable table, returning ok == false for its "otherwise" row.
func forInKeyValueKind(ctx *Context, objType entity.Handle) (key, value entity.Handle, ok bool) {
	sys := ctx.DB.System
	arena := ctx.DB.Arena

	if objType.IsNil() || conversion.IsAnyLikeType(arena, objType) || objType == sys.Object {
		return sys.AnyType, sys.AnyType, true
	}
	if sub, isSub := arena.Get(objType).(*entity.TypeAfterSubstitution); isSub {
		if sub.Origin == sys.Array || sub.Origin == sys.VectorOrig {
			elem := sys.AnyType
			if len(sub.Args) > 0 {
				elem = sub.Args[len(sub.Args)-1]
			}
			return sys.Number, elem, true
		}
	}
	switch objType {
	case sys.Array:
		return sys.Number, sys.AnyType, true
	case sys.ByteArray:
		return sys.Number, sys.Number, true
	case sys.Dictionary:
		return sys.AnyType, sys.AnyType, true
	case sys.XML, sys.XMLList:
		return sys.Number, sys.XML, true
	}
	if conversion.IsSubtype(arena, objType, sys.Proxy) {
		return sys.String, sys.AnyType, true
	}
	if cls := conversion.ClassOf(arena, objType); cls != nil && cls.IsDynamic {
		return sys.AnyType, sys.AnyType, true
	}
	return entity.Nil, entity.Nil, false
}

// iterableType reports whether t supports `for`/`for each` iteration,
// per forInKeyValueKind.
func iterableType(ctx *Context, t entity.Handle) bool {
	_, _, ok := forInKeyValueKind(ctx, t)
	return ok
}

// forInBindingType determines the static type of the loop-bound
// variable per spec section 4.7's iterator key/value table: a plain
// `for..in` yields the iterable's key type, `for each..in` its value
// type. An iterable the table doesn't recognize (already diagnosed
// CannotIterateType by the caller) falls back to `*`.
func forInBindingType(ctx *Context, objType entity.Handle, isEach bool) entity.Handle {
	key, value, ok := forInKeyValueKind(ctx, objType)
	if !ok {
		return ctx.DB.System.AnyType
	}
	if isEach {
		return value
	}
	return key
}

func verifySwitch(ctx *Context, n *ast.Node) error {
	if len(n.Kids) == 0 {
		return nil
	}
	if _, err := expression.Evaluate(ctx.Env, n.Kids[0], expression.Read); err != nil {
		return err
	}
	ctx.Chain.Push(scope.Plain)
	defer ctx.Chain.Pop()

	for _, caseID := range n.Kids[1:] {
		cn := ctx.Tree.Get(caseID)
		if cn == nil {
			continue
		}
		if cn.Annotation != 0 {
			if _, err := expression.Evaluate(ctx.Env, cn.Annotation, expression.Read); err != nil {
				return err
			}
		}
		for _, stmtID := range cn.Kids {
			if err := verifyStatement(ctx, stmtID); err != nil {
				return err
			}
		}
	}
	return nil
}

func verifyTry(ctx *Context, n *ast.Node) error {
	if n.Body != 0 {
		if err := verifyStatement(ctx, n.Body); err != nil {
			return err
		}
	}
	for _, catchID := range n.Kids {
		cn := ctx.Tree.Get(catchID)
		if cn == nil {
			continue
		}
		h := ctx.Chain.Push(scope.Plain)
		sc := scope.Get(ctx.DB.Arena, h)

		paramType := ctx.DB.System.AnyType
		if cn.Annotation != 0 {
			resolved, err := expression.ResolveTypeExpression(ctx.Env, cn.Annotation)
			if err != nil {
				ctx.Chain.Pop()
				return err
			}
			paramType = resolved
		}
		if cn.Name != "" {
			slotH := ctx.DB.Arena.Alloc(&entity.VariableSlot{
				QName:      entity.QName{Ns: ctx.DB.System.PublicNs, Local: cn.Name},
				StaticType: paramType,
				Location:   cn.Loc,
			})
			ctx.DB.Assign(catchID, slotH)
			sc.Properties[entity.QName{Ns: ctx.DB.System.PublicNs, Local: cn.Name}] = slotH
		}

		err := func() error {
			if cn.Body == 0 {
				return nil
			}
			return verifyStatement(ctx, cn.Body)
		}()
		ctx.Chain.Pop()
		if err != nil {
			return err
		}
	}
	if n.Finally != 0 {
		return verifyStatement(ctx, n.Finally)
	}
	return nil
}

func verifyReturn(ctx *Context, n *ast.Node) error {
	if len(n.Kids) == 0 {
		if !ctx.ResultType.IsNil() && ctx.ResultType != ctx.DB.System.VoidType && !conversion.IsAnyLikeType(ctx.DB.Arena, ctx.ResultType) {
			ctx.DB.Sink.Add(diag.KindReturnValueMustBeSpecified, n.Loc)
		}
		return nil
	}
	val, err := expression.Evaluate(ctx.Env, n.Kids[0], expression.Read)
	if err != nil {
		return err
	}
	if ctx.ResultType.IsNil() {
		return nil
	}
	_, ok, err := conversion.Implicit(ctx.DB.Arena, val, ctx.ResultType)
	if err != nil {
		return err
	}
	if !ok {
		ctx.DB.Sink.Add(diag.KindImplicitCoercionToUnrelatedType, n.Loc,
			conversion.DisplayName(ctx.DB.Arena, conversion.TypeOf(ctx.DB.Arena, val)),
			conversion.DisplayName(ctx.DB.Arena, ctx.ResultType))
	}
	return nil
}
