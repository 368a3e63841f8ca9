package db

import (
	"github.com/whackengine/verifier/internal/entity"
	"github.com/whackengine/verifier/internal/scope"
)

// SystemTypes holds handles to every system-provided type and
// namespace a compilation unit may reference without an explicit
// import. Built once per Database by bootstrapSystemTypes.
type SystemTypes struct {
	PublicNs Handle

	AnyType  entity.Handle // `*`
	VoidType entity.Handle

	Object  entity.Handle
	Function entity.Handle

	Number entity.Handle
	Int    entity.Handle
	Uint   entity.Handle
	Float  entity.Handle
	String entity.Handle
	Boolean entity.Handle

	Array      entity.Handle
	VectorOrig entity.Handle // generic origin for Vector.<T>
	MapOrig    entity.Handle // generic origin for Map.<K,V>
	PromiseOrig entity.Handle // generic origin for Promise.<T>

	Proxy      entity.Handle
	XML        entity.Handle
	XMLList    entity.Handle
	ByteArray  entity.Handle
	Dictionary entity.Handle
	JSVal      entity.Handle
	Event      entity.Handle
}

// Handle is a local alias so this file reads naturally; it is exactly
// entity.Handle.
type Handle = entity.Handle

// bootstrapSystemTypes allocates every system class and the public
// namespace they live in, wiring Extends to Object for every class
// that has one (Object itself has none). Classes with PermitsNull
// false (Number, int, uint, float, Boolean) model the handful of value-like system
// types the spec's null-inclusion rule excludes by construction.
func bootstrapSystemTypes(arena *entity.Arena, top *scope.Scope) *SystemTypes {
	publicNs := arena.Alloc(&entity.Namespace{KindTag: entity.NSPublic, URI: ""})

	s := &SystemTypes{PublicNs: publicNs}

	s.AnyType = arena.Alloc(entity.AnyType{})
	s.VoidType = arena.Alloc(entity.VoidType{})

	s.Object = newSystemClass(arena, publicNs, "Object", entity.Nil, true)
	s.Function = newSystemClass(arena, publicNs, "Function", s.Object, true)

	s.Number = newSystemClass(arena, publicNs, "Number", s.Object, false)
	s.Int = newSystemClass(arena, publicNs, "int", s.Object, false)
	s.Uint = newSystemClass(arena, publicNs, "uint", s.Object, false)
	s.Float = newSystemClass(arena, publicNs, "float", s.Object, false)
	s.String = newSystemClass(arena, publicNs, "String", s.Object, true)
	s.Boolean = newSystemClass(arena, publicNs, "Boolean", s.Object, false)

	s.Array = newSystemClass(arena, publicNs, "Array", s.Object, true)
	s.VectorOrig = newGenericSystemClass(arena, publicNs, "Vector", s.Object, 1)
	s.MapOrig = newGenericSystemClass(arena, publicNs, "Map", s.Object, 2)
	s.PromiseOrig = newGenericSystemClass(arena, publicNs, "Promise", s.Object, 1)

	s.Proxy = newSystemClass(arena, publicNs, "Proxy", s.Object, true)
	s.XML = newSystemClass(arena, publicNs, "XML", s.Object, true)
	s.XMLList = newSystemClass(arena, publicNs, "XMLList", s.Object, true)
	s.ByteArray = newSystemClass(arena, publicNs, "ByteArray", s.Object, true)
	s.Dictionary = newSystemClass(arena, publicNs, "Dictionary", s.Object, true)
	s.JSVal = newSystemClass(arena, publicNs, "JSVal", s.Object, true)
	s.Event = newSystemClass(arena, publicNs, "Event", s.Object, true)

	for _, h := range []entity.Handle{
		s.Object, s.Function, s.Number, s.Int, s.Uint, s.Float, s.String, s.Boolean,
		s.Array, s.VectorOrig, s.MapOrig, s.PromiseOrig,
		s.Proxy, s.XML, s.XMLList, s.ByteArray, s.Dictionary, s.JSVal, s.Event,
	} {
		c := arena.Get(h).(*entity.ClassType)
		top.Properties[entity.QName{Ns: publicNs, Local: c.QName.Local}] = h
	}

	return s
}

func newSystemClass(arena *entity.Arena, publicNs entity.Handle, name string, extends entity.Handle, permitsNull bool) entity.Handle {
	return arena.Alloc(&entity.ClassType{
		QName:       entity.QName{Ns: publicNs, Local: name},
		Extends:     extends,
		PermitsNull: permitsNull,
		IsDynamic:   name == "Object" || name == "Array" || name == "Dictionary",
		PublicNs:    publicNs,
		Properties:  map[entity.QName]entity.Handle{},
	})
}

func newGenericSystemClass(arena *entity.Arena, publicNs entity.Handle, name string, extends entity.Handle, arity int) entity.Handle {
	params := make([]entity.Handle, arity)
	for i := range params {
		params[i] = arena.Alloc(&entity.TypeParameterType{Name: genericParamName(i)})
	}
	return arena.Alloc(&entity.ClassType{
		QName:       entity.QName{Ns: publicNs, Local: name},
		Extends:     extends,
		PermitsNull: true,
		PublicNs:    publicNs,
		TypeParams:  params,
		Properties:  map[entity.QName]entity.Handle{},
	})
}

func genericParamName(i int) string {
	names := []string{"T", "K", "V"}
	if i < len(names) {
		return names[i]
	}
	return "T"
}
