package inheritance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"

	"github.com/whackengine/verifier/internal/config"
	"github.com/whackengine/verifier/internal/db"
	"github.com/whackengine/verifier/internal/diag"
	"github.com/whackengine/verifier/internal/entity"
)

func newTestDB(t *testing.T) *db.Database {
	t.Helper()
	return db.New(config.Default(), zaptest.NewLogger(t))
}

func newClass(d *db.Database, name string, extends entity.Handle) entity.Handle {
	h := d.Arena.Alloc(&entity.ClassType{
		QName:      entity.QName{Ns: d.System.PublicNs, Local: name},
		PublicNs:   d.System.PublicNs,
		Extends:    extends,
		Properties: map[entity.QName]entity.Handle{},
	})
	if extends.IsNil() {
		return h
	}
	if base, ok := d.Arena.Get(extends).(*entity.ClassType); ok {
		base.KnownSubclasses = append(base.KnownSubclasses, h)
	}
	return h
}

func newMethod(d *db.Database, owner entity.Handle, name string, flags entity.MethodFlags, resultType entity.Handle) entity.Handle {
	ft := d.Arena.Alloc(&entity.FunctionType{ResultType: resultType})
	m := d.Arena.Alloc(&entity.MethodSlot{
		QName:     entity.QName{Ns: d.System.PublicNs, Local: name},
		Signature: ft,
		Flags:     flags,
		Parent:    owner,
	})
	if cls, ok := d.Arena.Get(owner).(*entity.ClassType); ok {
		cls.Properties[entity.QName{Ns: d.System.PublicNs, Local: name}] = m
	}
	return m
}

func TestCheckOverride_MissingOverrideKeywordIsDiagnosed(t *testing.T) {
	d := newTestDB(t)
	base := newClass(d, "Base", d.System.Object)
	newMethod(d, base, "speak", 0, d.System.VoidType)
	derived := newClass(d, "Derived", base)
	override := newMethod(d, derived, "speak", 0, d.System.VoidType)

	CheckOverride(d.Arena, d.Sink, diag.Loc{}, derived, override, false)

	kinds := collectKinds(d.Sink)
	assert.Contains(t, kinds, diag.KindIncompatibleOverride)
}

func TestCheckOverride_DeclaredOverrideWithNoBaseMemberIsDiagnosed(t *testing.T) {
	d := newTestDB(t)
	base := newClass(d, "Base", d.System.Object)
	derived := newClass(d, "Derived", base)
	override := newMethod(d, derived, "speak", 0, d.System.VoidType)

	CheckOverride(d.Arena, d.Sink, diag.Loc{}, derived, override, true)

	kinds := collectKinds(d.Sink)
	assert.Contains(t, kinds, diag.KindMustOverrideAMethod)
}

func TestCheckOverride_OverridingFinalMethodIsDiagnosed(t *testing.T) {
	d := newTestDB(t)
	base := newClass(d, "Base", d.System.Object)
	newMethod(d, base, "speak", entity.FlagFinal, d.System.VoidType)
	derived := newClass(d, "Derived", base)
	override := newMethod(d, derived, "speak", 0, d.System.VoidType)

	CheckOverride(d.Arena, d.Sink, diag.Loc{}, derived, override, true)

	kinds := collectKinds(d.Sink)
	assert.Contains(t, kinds, diag.KindOverridingFinalMethod)
}

func TestCheckOverride_CompatibleSignatureProducesNoDiagnostic(t *testing.T) {
	d := newTestDB(t)
	base := newClass(d, "Base", d.System.Object)
	newMethod(d, base, "speak", 0, d.System.VoidType)
	derived := newClass(d, "Derived", base)
	override := newMethod(d, derived, "speak", 0, d.System.VoidType)

	CheckOverride(d.Arena, d.Sink, diag.Loc{}, derived, override, true)

	assert.Empty(t, d.Sink.All())
}

func TestCheckAbstractCoverage_UnoverriddenAbstractMethodIsDiagnosed(t *testing.T) {
	d := newTestDB(t)
	base := newClass(d, "Base", d.System.Object)
	baseCls := d.Arena.Get(base).(*entity.ClassType)
	baseCls.IsAbstract = true
	newMethod(d, base, "speak", entity.FlagAbstract, d.System.VoidType)
	derived := newClass(d, "Derived", base)

	CheckAbstractCoverage(d.Arena, d.Sink, diag.Loc{}, derived)

	kinds := collectKinds(d.Sink)
	assert.Contains(t, kinds, diag.KindAbstractMethodMustBeOverriden)
}

func TestCheckAbstractCoverage_OverriddenAbstractMethodProducesNoDiagnostic(t *testing.T) {
	d := newTestDB(t)
	base := newClass(d, "Base", d.System.Object)
	baseCls := d.Arena.Get(base).(*entity.ClassType)
	baseCls.IsAbstract = true
	newMethod(d, base, "speak", entity.FlagAbstract, d.System.VoidType)
	derived := newClass(d, "Derived", base)
	newMethod(d, derived, "speak", 0, d.System.VoidType)

	CheckAbstractCoverage(d.Arena, d.Sink, diag.Loc{}, derived)

	assert.Empty(t, d.Sink.All())
}

func TestCheckInterfaceImplementations_UnimplementedMethodIsDiagnosed(t *testing.T) {
	d := newTestDB(t)
	iface := d.Arena.Alloc(&entity.InterfaceType{
		QName:      entity.QName{Ns: d.System.PublicNs, Local: "Runnable"},
		Properties: map[entity.QName]entity.Handle{},
	})
	ifaceType := d.Arena.Get(iface).(*entity.InterfaceType)
	ft := d.Arena.Alloc(&entity.FunctionType{ResultType: d.System.VoidType})
	ifaceType.Properties[entity.QName{Ns: d.System.PublicNs, Local: "run"}] = d.Arena.Alloc(&entity.MethodSlot{
		QName:     entity.QName{Ns: d.System.PublicNs, Local: "run"},
		Signature: ft,
	})

	cls := newClass(d, "Runner", d.System.Object)
	clsType := d.Arena.Get(cls).(*entity.ClassType)
	clsType.Implements = append(clsType.Implements, iface)

	CheckInterfaceImplementations(d.Arena, d.Sink, diag.Loc{}, cls)

	kinds := collectKinds(d.Sink)
	assert.Contains(t, kinds, diag.KindMethodNotImplemented)
}

func TestCheckInterfaceImplementations_ImplementedMethodProducesNoDiagnostic(t *testing.T) {
	d := newTestDB(t)
	iface := d.Arena.Alloc(&entity.InterfaceType{
		QName:      entity.QName{Ns: d.System.PublicNs, Local: "Runnable"},
		Properties: map[entity.QName]entity.Handle{},
	})
	ifaceType := d.Arena.Get(iface).(*entity.InterfaceType)
	ft := d.Arena.Alloc(&entity.FunctionType{ResultType: d.System.VoidType})
	ifaceType.Properties[entity.QName{Ns: d.System.PublicNs, Local: "run"}] = d.Arena.Alloc(&entity.MethodSlot{
		QName:     entity.QName{Ns: d.System.PublicNs, Local: "run"},
		Signature: ft,
	})

	cls := newClass(d, "Runner", d.System.Object)
	clsType := d.Arena.Get(cls).(*entity.ClassType)
	clsType.Implements = append(clsType.Implements, iface)
	newMethod(d, cls, "run", 0, d.System.VoidType)

	CheckInterfaceImplementations(d.Arena, d.Sink, diag.Loc{}, cls)

	assert.Empty(t, d.Sink.All())
}

func collectKinds(sink *diag.Sink) []diag.Kind {
	var kinds []diag.Kind
	for _, diagnostic := range sink.All() {
		kinds = append(kinds, diagnostic.Kind)
	}
	return kinds
}
