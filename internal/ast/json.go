package ast

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/whackengine/verifier/internal/diag"
)

// jsonNode mirrors Node with JSON tags, the wire shape a front-end
// (outside this module's scope) emits for one parsed compilation
// unit. Kept as a private decode target rather than tagging Node
// itself, so the core's hot-path struct carries no encoding/json
// dependency beyond this one file.
type jsonNode struct {
	ID             NodeID    `json:"id"`
	Kind           string    `json:"kind"`
	Line           int       `json:"line"`
	Column         int       `json:"column"`
	Offset         int       `json:"offset"`
	Name           string    `json:"name,omitempty"`
	Kids           []NodeID  `json:"kids,omitempty"`
	Operator       string    `json:"operator,omitempty"`
	Annotation     NodeID    `json:"annotation,omitempty"`
	Attributes     []NodeID  `json:"attributes,omitempty"`
	Metadata       []NodeID  `json:"metadata,omitempty"`
	StringValue    string    `json:"stringValue,omitempty"`
	NumberValue    string    `json:"numberValue,omitempty"`
	BooleanValue   bool      `json:"booleanValue,omitempty"`
	Extends        NodeID    `json:"extends,omitempty"`
	Implements     []NodeID  `json:"implements,omitempty"`
	Params         []NodeID  `json:"params,omitempty"`
	Body           NodeID    `json:"body,omitempty"`
	ParamMode      ParamKind `json:"paramMode,omitempty"`
	TypeParamNames []string  `json:"typeParamNames,omitempty"`
	ContainsAwait  bool      `json:"containsAwait,omitempty"`
	IsGetter       bool      `json:"isGetter,omitempty"`
	IsSetter       bool      `json:"isSetter,omitempty"`
	IsConstructor  bool      `json:"isConstructor,omitempty"`
	Finally        NodeID    `json:"finally,omitempty"`
	IsForEach      bool      `json:"isForEach,omitempty"`
}

// jsonUnit is one compilation unit's wire shape: its name plus every
// node it owns, in ascending ID order starting at 1 (NodeID 0 is
// reserved and never appears).
type jsonUnit struct {
	CompilationUnit string     `json:"compilationUnit"`
	Nodes           []jsonNode `json:"nodes"`
}

// kindNames is the reverse of NodeKind's String-free declaration list,
// the names a front-end is expected to spell in its "kind" field.
var kindNames = map[string]NodeKind{
	"Program": KindProgram, "PackageDirective": KindPackageDirective, "Block": KindBlock,
	"ClassDef": KindClassDef, "InterfaceDef": KindInterfaceDef, "EnumDef": KindEnumDef,
	"VariableDef": KindVariableDef, "FunctionDef": KindFunctionDef, "TypeAliasDef": KindTypeAliasDef,
	"NamespaceAliasDef": KindNamespaceAliasDef, "ImportDirective": KindImportDirective,
	"PackageConcatDirective": KindPackageConcatDirective, "UseNamespaceDirective": KindUseNamespaceDirective,
	"ConfigDirective": KindConfigDirective, "IncludeDirective": KindIncludeDirective,
	"ExpressionStatement": KindExpressionStatement, "IfStatement": KindIfStatement,
	"ForStatement": KindForStatement, "ForInStatement": KindForInStatement,
	"ForEachStatement": KindForEachStatement, "WhileStatement": KindWhileStatement,
	"DoWhileStatement": KindDoWhileStatement, "SwitchStatement": KindSwitchStatement,
	"TryStatement": KindTryStatement, "ReturnStatement": KindReturnStatement,
	"ThrowStatement": KindThrowStatement, "BreakStatement": KindBreakStatement,
	"ContinueStatement": KindContinueStatement, "SuperStatement": KindSuperStatement,
	"DefaultXMLNamespaceStatement": KindDefaultXMLNamespaceStatement,
	"LabeledStatement":             KindLabeledStatement,
	"Identifier":                   KindIdentifier, "QualifiedIdentifier": KindQualifiedIdentifier,
	"Member": KindMember, "Call": KindCall, "New": KindNew, "Unary": KindUnary,
	"Binary": KindBinary, "Conditional": KindConditional, "Assignment": KindAssignment,
	"ArrayLiteral": KindArrayLiteral, "ObjectLiteral": KindObjectLiteral,
	"FunctionExpression": KindFunctionExpression, "NumericLiteral": KindNumericLiteral,
	"StringLiteral": KindStringLiteral, "BooleanLiteral": KindBooleanLiteral,
	"NullLiteral": KindNullLiteral, "ThisLiteral": KindThisLiteral,
	"RegExpLiteral": KindRegExpLiteral, "XMLLiteral": KindXMLLiteral,
	"TypeAnnotation": KindTypeAnnotation, "RestParam": KindRestParam,
	"DestructuringPattern": KindDestructuringPattern, "EmbedExpression": KindEmbedExpression,
	"Attribute": KindAttribute, "MetadataAnnotation": KindMetadataAnnotation,
	"Param": KindParam, "CaseClause": KindCaseClause, "CatchClause": KindCatchClause,
}

// DecodeTree reads one jsonUnit document from r and replays it into a
// fresh Tree. Node IDs in the document must already be dense from 1
// (a front-end's own node-ID assignment is preserved verbatim, rather
// than renumbered, so diagnostics and external tooling can cross-
// reference the same IDs).
func DecodeTree(r io.Reader) (*Tree, error) {
	var doc jsonUnit
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("ast: decoding compilation unit: %w", err)
	}

	tree := NewTree(doc.CompilationUnit)
	for _, jn := range doc.Nodes {
		kind, ok := kindNames[jn.Kind]
		if !ok {
			return nil, fmt.Errorf("ast: %s: node %d: unknown kind %q", doc.CompilationUnit, jn.ID, jn.Kind)
		}
		n := &Node{
			Kind: kind,
			Loc: diag.Loc{
				CompilationUnit: doc.CompilationUnit,
				Offset:          jn.Offset,
				Line:            jn.Line,
				Column:          jn.Column,
			},
			Name:           jn.Name,
			Kids:           jn.Kids,
			Operator:       jn.Operator,
			Annotation:     jn.Annotation,
			Attributes:     jn.Attributes,
			Metadata:       jn.Metadata,
			StringValue:    jn.StringValue,
			NumberValue:    jn.NumberValue,
			BooleanValue:   jn.BooleanValue,
			Extends:        jn.Extends,
			Implements:     jn.Implements,
			Params:         jn.Params,
			Body:           jn.Body,
			ParamMode:      jn.ParamMode,
			TypeParamNames: jn.TypeParamNames,
			ContainsAwait:  jn.ContainsAwait,
			IsGetter:       jn.IsGetter,
			IsSetter:       jn.IsSetter,
			IsConstructor:  jn.IsConstructor,
			Finally:        jn.Finally,
			IsForEach:      jn.IsForEach,
		}
		id := tree.Add(n)
		if id != jn.ID {
			return nil, fmt.Errorf("ast: %s: node IDs must be dense from 1 in document order (expected %d, got %d)", doc.CompilationUnit, id, jn.ID)
		}
	}

	return tree, nil
}
