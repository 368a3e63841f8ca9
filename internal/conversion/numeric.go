// Package conversion implements the constant-folding and
// implicit/explicit conversion predicates of spec section 4.2: the
// two-level relation (implicit subset of explicit) computed by a
// shared predicate family, plus the null-preservation rule that
// threads through every admitted conversion.
package conversion

import (
	"github.com/cockroachdb/apd/v3"

	"github.com/whackengine/verifier/internal/entity"
)

// numericKinds names the system numeric classes recognized by
// ConvertType. Values are the QName.Local the Database bootstraps
// these system types under (see internal/db).
const (
	NumberName = "Number"
	IntName    = "int"
	UintName   = "uint"
	FloatName  = "float"
)

// numericNames is used by IsNumericType to recognize any of the four.
var numericNames = map[string]bool{
	NumberName: true,
	IntName:    true,
	UintName:   true,
	FloatName:  true,
}

// classLocalName returns a ClassType/EnumType handle's unqualified
// name, used to recognize the small set of system types (Number, int,
// uint, float, String, Boolean, Object, Array, Vector, Map, Promise,
// Proxy, XML, XMLList, ByteArray, Dictionary, JSVal, Event) the
// conversion rules name explicitly. Returns "", false for anything
// else (including unresolved/invalidated handles).
func classLocalName(arena *entity.Arena, h entity.Handle) (string, bool) {
	switch v := arena.Get(h).(type) {
	case *entity.ClassType:
		return v.QName.Local, true
	case *entity.InterfaceType:
		return v.QName.Local, true
	case *entity.EnumType:
		return v.QName.Local, true
	default:
		return "", false
	}
}

// IsNumericType reports whether h names one of Number/int/uint/float.
func IsNumericType(arena *entity.Arena, h entity.Handle) bool {
	name, ok := classLocalName(arena, h)
	return ok && numericNames[name]
}

// apdContext is shared by every decimal operation; 34 digits of
// precision matches apd's recommended "decimal128"-equivalent context
// and comfortably exceeds float64's ~17 significant digits, so no
// legitimate Number literal loses precision before the deliberate
// truncation step below.
var apdContext = func() *apd.Context {
	c := apd.BaseContext.WithPrecision(34)
	c.Rounding = apd.RoundDown // truncate toward zero, matching AS3 int/uint conversion
	return c
}()

// ConvertType performs the deterministic, non-lossy-by-accident
// numeric conversion described by spec section 4.2 step 7 and section
// 9's "Number constant folding" design note: int/uint truncate toward
// zero and wrap to a 32-bit range; float and Number both return the
// value's exact decimal text unchanged (no single-precision rounding
// is applied for float).
func ConvertType(value string, target string) (string, error) {
	d, _, err := apd.NewFromString(value)
	if err != nil {
		return "", err
	}

	switch target {
	case NumberName, FloatName:
		return d.Text('f'), nil

	case IntName, UintName:
		truncated := new(apd.Decimal)
		_, err := apdContext.RoundToIntegralValue(truncated, d)
		if err != nil {
			return "", err
		}
		// Wrap into the 32-bit signed/unsigned range the way a
		// runtime numeric conversion would.
		i, err := truncated.Int64()
		if err != nil {
			// Out of int64 range entirely; fall back to the
			// truncated decimal text rather than fail verification.
			return truncated.Text('f'), nil
		}
		if target == IntName {
			return wrapInt32(i), nil
		}
		return wrapUint32(i), nil

	default:
		return d.Text('f'), nil
	}
}

func wrapInt32(i int64) string {
	v := int32(uint32(i))
	return itoa(int64(v))
}

func wrapUint32(i int64) string {
	v := uint32(i)
	return utoa(uint64(v))
}

func itoa(i int64) string {
	return apd.New(i, 0).Text('f')
}

func utoa(u uint64) string {
	return apd.New(int64(u), 0).Text('f')
}
