// Package inheritance implements spec section 4.6: override
// compatibility, abstract-member coverage, and interface-implementation
// checking over the class/interface graph internal/directive builds.
package inheritance

import (
	"github.com/whackengine/verifier/internal/diag"
	"github.com/whackengine/verifier/internal/entity"
)

// CheckOverride verifies a newly-built method against whatever a base
// class already declares under the same qualified name. It is called
// from the method's own Delta phase, after Beta has built its
// FunctionType.
func CheckOverride(arena *entity.Arena, sink *diag.Sink, loc diag.Loc, classH entity.Handle, methodH entity.Handle, declaredOverride bool) {
	cls, ok := arena.Get(classH).(*entity.ClassType)
	if !ok {
		return
	}
	method, ok := arena.Get(methodH).(*entity.MethodSlot)
	if !ok {
		return
	}

	baseMember := findInBases(arena, cls.Extends, method.QName)
	if baseMember.IsNil() {
		if declaredOverride {
			sink.Add(diag.KindMustOverrideAMethod, loc)
		}
		return
	}
	if !declaredOverride {
		sink.Add(diag.KindIncompatibleOverride, loc)
		return
	}

	switch base := arena.Get(baseMember).(type) {
	case *entity.MethodSlot:
		if base.Flags.Has(entity.FlagFinal) {
			sink.Add(diag.KindOverridingFinalMethod, loc)
			return
		}
		if !signaturesCompatible(arena, method.Signature, base.Signature) {
			sink.Add(diag.KindIncompatibleMethodSignature, loc)
		}
	case *entity.VirtualSlot:
		var baseAccessor entity.Handle
		if !method.OfVirtualSlot.IsNil() {
			if vs, ok := arena.Get(method.OfVirtualSlot).(*entity.VirtualSlot); ok {
				if vs.Getter == methodH {
					baseAccessor = base.Getter
				} else {
					baseAccessor = base.Setter
				}
			}
		}
		if baseAccessor.IsNil() {
			sink.Add(diag.KindIncompatibleOverride, loc)
			return
		}
		if bm, ok := arena.Get(baseAccessor).(*entity.MethodSlot); ok {
			if bm.Flags.Has(entity.FlagFinal) {
				sink.Add(diag.KindOverridingFinalMethod, loc)
				return
			}
			if !signaturesCompatible(arena, method.Signature, bm.Signature) {
				sink.Add(diag.KindIncompatibleGetterSignature, loc)
			}
		}
	default:
		sink.Add(diag.KindPropertyMustBeMethod, loc)
	}
}

func signaturesCompatible(arena *entity.Arena, a, b entity.Handle) bool {
	af, aok := arena.Get(a).(*entity.FunctionType)
	bf, bok := arena.Get(b).(*entity.FunctionType)
	if !aok || !bok {
		return false
	}
	if af.ResultType != bf.ResultType {
		return false
	}
	if len(af.Params) != len(bf.Params) {
		return false
	}
	for i := range af.Params {
		if af.Params[i].ParamKind != bf.Params[i].ParamKind {
			return false
		}
		if af.Params[i].StaticType != bf.Params[i].StaticType {
			return false
		}
	}
	return true
}

// findInBases searches a class's ancestor chain (starting at base, not
// including the class itself) for a member declared under qn, stopping
// at the first hit.
func findInBases(arena *entity.Arena, base entity.Handle, qn entity.QName) entity.Handle {
	h := base
	for !h.IsNil() {
		cls, ok := arena.Get(h).(*entity.ClassType)
		if !ok {
			return entity.Nil
		}
		if member, ok := cls.Properties[qn]; ok {
			return member
		}
		h = cls.Extends
	}
	return entity.Nil
}

// CheckAbstractCoverage reports every abstract method/getter/setter
// inherited from cls's base chain that cls itself (a concrete, i.e.
// non-abstract, class) fails to override.
func CheckAbstractCoverage(arena *entity.Arena, sink *diag.Sink, loc diag.Loc, classH entity.Handle) {
	cls, ok := arena.Get(classH).(*entity.ClassType)
	if !ok || cls.IsAbstract {
		return
	}

	for h := cls.Extends; !h.IsNil(); {
		base, ok := arena.Get(h).(*entity.ClassType)
		if !ok {
			break
		}
		for qn, member := range base.Properties {
			if m, ok := arena.Get(member).(*entity.MethodSlot); ok && m.Flags.Has(entity.FlagAbstract) {
				if !hasConcreteOverride(arena, classH, qn) {
					sink.Add(diag.KindAbstractMethodMustBeOverriden, loc, qn.Local)
				}
				continue
			}
			if vs, ok := arena.Get(member).(*entity.VirtualSlot); ok {
				if gm, ok := arena.Get(vs.Getter).(*entity.MethodSlot); ok && gm.Flags.Has(entity.FlagAbstract) {
					if !hasConcreteOverride(arena, classH, qn) {
						sink.Add(diag.KindAbstractGetterMustBeOverriden, loc, qn.Local)
					}
				}
				if sm, ok := arena.Get(vs.Setter).(*entity.MethodSlot); ok && sm.Flags.Has(entity.FlagAbstract) {
					if !hasConcreteOverride(arena, classH, qn) {
						sink.Add(diag.KindAbstractSetterMustBeOverriden, loc, qn.Local)
					}
				}
			}
		}
		h = base.Extends
	}
}

func hasConcreteOverride(arena *entity.Arena, classH entity.Handle, qn entity.QName) bool {
	for h := classH; !h.IsNil(); {
		cls, ok := arena.Get(h).(*entity.ClassType)
		if !ok {
			return false
		}
		if member, ok := cls.Properties[qn]; ok {
			switch m := arena.Get(member).(type) {
			case *entity.MethodSlot:
				if !m.Flags.Has(entity.FlagAbstract) {
					return true
				}
			case *entity.VirtualSlot:
				getterOk := true
				if gm, ok := arena.Get(m.Getter).(*entity.MethodSlot); ok {
					getterOk = !gm.Flags.Has(entity.FlagAbstract)
				}
				setterOk := true
				if sm, ok := arena.Get(m.Setter).(*entity.MethodSlot); ok {
					setterOk = !sm.Flags.Has(entity.FlagAbstract)
				}
				if getterOk && setterOk {
					return true
				}
			}
		}
		h = cls.Extends
	}
	return false
}

// CheckInterfaceImplementations verifies that cls (and its base chain)
// provides a compatible member for every method/virtual slot every
// interface in cls.Implements (transitively, through interface
// extends) declares.
func CheckInterfaceImplementations(arena *entity.Arena, sink *diag.Sink, loc diag.Loc, classH entity.Handle) {
	cls, ok := arena.Get(classH).(*entity.ClassType)
	if !ok {
		return
	}

	seen := make(map[entity.Handle]bool)
	var walk func(ifaceH entity.Handle)
	walk = func(ifaceH entity.Handle) {
		if ifaceH.IsNil() || seen[ifaceH] {
			return
		}
		seen[ifaceH] = true
		iface, ok := arena.Get(ifaceH).(*entity.InterfaceType)
		if !ok {
			return
		}
		for qn, member := range iface.Properties {
			checkInterfaceMember(arena, sink, loc, classH, qn, member)
		}
		for _, ext := range iface.Extends {
			walk(ext)
		}
	}
	for _, ifaceH := range cls.Implements {
		walk(ifaceH)
	}
}

func checkInterfaceMember(arena *entity.Arena, sink *diag.Sink, loc diag.Loc, classH entity.Handle, qn entity.QName, ifaceMember entity.Handle) {
	impl := findPublicMember(arena, classH, qn)
	if impl.IsNil() {
		switch arena.Get(ifaceMember).(type) {
		case *entity.VirtualSlot:
			sink.Add(diag.KindGetterNotImplemented, loc, qn.Local)
		default:
			sink.Add(diag.KindMethodNotImplemented, loc, qn.Local)
		}
		return
	}

	switch ifm := arena.Get(ifaceMember).(type) {
	case *entity.MethodSlot:
		cm, ok := arena.Get(impl).(*entity.MethodSlot)
		if !ok {
			sink.Add(diag.KindPropertyMustBeMethod, loc, qn.Local)
			return
		}
		if !signaturesCompatible(arena, cm.Signature, ifm.Signature) {
			sink.Add(diag.KindIncompatibleMethodSignature, loc, qn.Local)
		}
	case *entity.VirtualSlot:
		cvs, ok := arena.Get(impl).(*entity.VirtualSlot)
		if !ok {
			sink.Add(diag.KindPropertyMustBeVirtual, loc, qn.Local)
			return
		}
		if !ifm.Getter.IsNil() {
			if cvs.Getter.IsNil() {
				sink.Add(diag.KindGetterNotImplemented, loc, qn.Local)
			}
		}
		if !ifm.Setter.IsNil() {
			if cvs.Setter.IsNil() {
				sink.Add(diag.KindSetterNotImplemented, loc, qn.Local)
			}
		}
	}
}

// findPublicMember walks classH's own chain (itself and its bases)
// looking for qn under any namespace sharing qn's local name -- an
// interface member is always public, but the implementing class's
// property map is keyed by the class's own (possibly differently
// namespaced) QName, so this matches by local name plus public
// namespace membership recorded on the class.
func findPublicMember(arena *entity.Arena, classH entity.Handle, qn entity.QName) entity.Handle {
	for h := classH; !h.IsNil(); {
		cls, ok := arena.Get(h).(*entity.ClassType)
		if !ok {
			return entity.Nil
		}
		if member, ok := cls.Properties[entity.QName{Ns: cls.PublicNs, Local: qn.Local}]; ok {
			return member
		}
		h = cls.Extends
	}
	return entity.Nil
}
