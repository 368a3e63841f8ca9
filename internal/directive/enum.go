package directive

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/apd/v3"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/whackengine/verifier/internal/ast"
	"github.com/whackengine/verifier/internal/diag"
	"github.com/whackengine/verifier/internal/entity"
	"github.com/whackengine/verifier/internal/phase"
	"github.com/whackengine/verifier/internal/scope"
)

// titleCaser renders one SCREAMING_SNAKE word segment's leading letter
// uppercase for the lowerCamelCase member-name derivation below --
// Title-casing "apple" gives "Apple", which is exactly the shape a
// camel-case join needs for every word after the first.
var titleCaser = cases.Title(language.Und)

// VerifyEnum implements spec section 4.4's enum-definition contract:
// every non-static, simple-identifier variable binding in the body
// becomes a read-only constant whose string member name and numeric
// value are computed up front, rather than coerced against a declared
// type the way an ordinary variable definition is. Member initializers
// are restricted to literal forms, so the whole body resolves in one
// Alpha pass; there is no Beta/Delta/Epsilon work to do.
func VerifyEnum(ctx *Context, node ast.NodeID) error {
	n := ctx.Tree.Get(node)
	if n == nil {
		return nil
	}
	p := ctx.phaseOf(node)

	switch p {
	case phase.Alpha:
		return verifyEnumAlpha(ctx, node, n)
	case phase.Beta, phase.Delta, phase.Epsilon:
		ctx.advance(node)
		return phase.NewDefer()
	case phase.Omega:
		ctx.Phases.Finish(node)
		return nil
	}
	return nil
}

func verifyEnumAlpha(ctx *Context, node ast.NodeID, n *ast.Node) error {
	enumH := ctx.DB.Arena.Alloc(&entity.EnumType{
		QName:               entity.QName{Ns: ctx.DB.System.PublicNs, Local: n.Name},
		Properties:          map[entity.QName]entity.Handle{},
		MemberNumberMapping: map[string]float64{},
		MemberSlotMapping:   map[string]entity.Handle{},
	})
	enm := ctx.DB.Arena.Get(enumH).(*entity.EnumType)
	ctx.DB.Assign(node, enumH)

	own := scope.New(ctx.DB.Arena, scope.Enum, ctx.Chain.Current())
	os := scope.Get(ctx.DB.Arena, own)
	os.Of = enumH
	os.Properties = enm.Properties
	os.PublicNs = ctx.DB.System.PublicNs

	ctx.Chain.PushExisting(own)
	counter := 0.0
	seenStrings := map[string]bool{}
	seenNumbers := map[float64]bool{}
	for _, id := range n.Kids {
		mn := ctx.Tree.Get(id)
		if mn == nil || mn.Kind != ast.KindVariableDef {
			continue
		}

		mods, err := parseModifiers(ctx, mn.Attributes, nil)
		if err != nil {
			ctx.Chain.Pop()
			return err
		}
		if mods.IsStatic {
			continue
		}

		name, value := enumMemberNameAndValue(ctx, mn, counter)
		counter = value + 1

		qn := entity.QName{Ns: ctx.DB.System.PublicNs, Local: mn.Name}
		if _, ok := enm.Properties[qn]; ok {
			ctx.DB.Sink.Add(diag.KindDuplicateEnumConstant, mn.Loc, mn.Name)
		}
		if seenStrings[name] {
			ctx.DB.Sink.Add(diag.KindDuplicateEnumString, mn.Loc, name)
		}
		seenStrings[name] = true
		if seenNumbers[value] {
			ctx.DB.Sink.Add(diag.KindDuplicateEnumValue, mn.Loc, name)
		}
		seenNumbers[value] = true

		slotH := ctx.DB.Arena.Alloc(&entity.VariableSlot{
			QName:      qn,
			ReadOnly:   true,
			StaticType: enumH,
			Location:   mn.Loc,
		})
		slot := ctx.DB.Arena.Get(slotH).(*entity.VariableSlot)
		slot.Constant = ctx.DB.Arena.Alloc(&entity.Constant{
			ConstKind:   entity.ConstNumber,
			StaticType:  enumH,
			NumberValue: formatEnumValue(value),
		})

		enm.Properties[qn] = slotH
		enm.MemberNumberMapping[name] = value
		enm.MemberSlotMapping[name] = slotH
		ctx.DB.Assign(id, slotH)
		ctx.Phases.Finish(id)
	}
	ctx.Chain.Pop()

	s := ctx.Chain.Current()
	scope.Get(ctx.DB.Arena, s).Properties[enm.QName] = enumH
	ctx.Phases.Finish(node)
	return nil
}

// enumMemberNameAndValue computes spec section 4.4's Enum string/numeric
// pair for one member: name and value default to the lowerCamelCase
// identifier and the running auto-increment counter, overridden by
// whatever a literal initializer supplies.
func enumMemberNameAndValue(ctx *Context, mn *ast.Node, counter float64) (string, float64) {
	name, value, hasName, hasValue := "", 0.0, false, false
	if len(mn.Kids) > 0 {
		name, value, hasName, hasValue = inspectEnumInitializer(ctx, mn.Kids[0])
	}
	if !hasName {
		name = screamingSnakeToLowerCamel(mn.Name)
	}
	if !hasValue {
		value = counter
	}
	return name, value
}

// inspectEnumInitializer reads one of the three literal forms an enum
// member's initializer may take: a bare string literal ("s"), a bare
// numeric literal or its negation (n / -n), or a two-element array
// literal pairing both ([s, n]). Any other expression shape yields
// neither a name nor a value, falling back to the identifier-derived
// name and the auto-increment counter.
func inspectEnumInitializer(ctx *Context, init ast.NodeID) (name string, value float64, hasName, hasValue bool) {
	n := ctx.Tree.Get(init)
	if n == nil {
		return "", 0, false, false
	}

	switch n.Kind {
	case ast.KindStringLiteral:
		return n.StringValue, 0, true, false

	case ast.KindNumericLiteral:
		if f, ok := parseEnumNumberLiteral(n.NumberValue); ok {
			return "", f, false, true
		}
		return "", 0, false, false

	case ast.KindUnary:
		if n.Operator == "-" && len(n.Kids) == 1 {
			operand := ctx.Tree.Get(n.Kids[0])
			if operand != nil && operand.Kind == ast.KindNumericLiteral {
				if f, ok := parseEnumNumberLiteral(operand.NumberValue); ok {
					return "", -f, false, true
				}
			}
		}
		return "", 0, false, false

	case ast.KindArrayLiteral:
		if len(n.Kids) != 2 {
			return "", 0, false, false
		}
		sn, _, hn, _ := inspectEnumInitializer(ctx, n.Kids[0])
		_, vv, _, hv := inspectEnumInitializer(ctx, n.Kids[1])
		return sn, vv, hn, hv

	default:
		return "", 0, false, false
	}
}

func screamingSnakeToLowerCamel(screaming string) string {
	words := strings.Split(strings.ToLower(screaming), "_")
	var b strings.Builder
	for i, w := range words {
		if w == "" {
			continue
		}
		if i == 0 {
			b.WriteString(w)
			continue
		}
		b.WriteString(titleCaser.String(w))
	}
	return b.String()
}

func parseEnumNumberLiteral(text string) (float64, bool) {
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func formatEnumValue(v float64) string {
	d := new(apd.Decimal)
	d.SetFloat64(v)
	return d.Text('f')
}
