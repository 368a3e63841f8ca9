// Package statement implements the statement subverifier: the
// control-construct bodies (block, if, while, do-while, for, for-in,
// for-each, switch, try/catch/finally, return, throw, break, continue,
// labeled) that a function or directive body's block evaluates
// top-level expressions and nested directives within.
package statement

import (
	"github.com/whackengine/verifier/internal/entity"
	"github.com/whackengine/verifier/internal/expression"
)

// Context bundles an expression.Env with the enclosing function's
// declared result type, needed to check a return statement's operand.
// It embeds *expression.Env for the same reason internal/directive's
// Context does: DB, Tree, Chain, OpenNs, and Phases are shared with
// expression evaluation over the same compilation unit.
type Context struct {
	*expression.Env

	// ResultType is the enclosing function's declared (or inferred)
	// return type; entity.Nil when verifying a top-level package
	// initializer block, which has no enclosing function.
	ResultType entity.Handle

	// labels tracks the labeled statements lexically enclosing the
	// statement currently being verified, for break/continue label
	// resolution.
	labels []string
}
