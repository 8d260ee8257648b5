// Package reflector derives stable type names used as log and metric labels.
package reflector

import (
	"reflect"
	"sync"
)

var cache sync.Map // reflect.Type -> TypeInfo

type TypeInfo struct {
	Name string
	Type reflect.Type
}

func TypeInfoOf(x any) TypeInfo {
	return TypeInfoForType(reflect.TypeOf(x))
}

func TypeInfoFor[T any]() TypeInfo {
	return TypeInfoForType(reflect.TypeFor[T]())
}

// TypeInfoForType names t as "<pkg path>.<name>". Pointers are named after
// their element. Predeclared and unnamed types use their Go syntax, e.g.
// "string" or "[]uint8".
func TypeInfoForType(t reflect.Type) TypeInfo {
	if t == nil {
		return TypeInfo{}
	}
	if ti, ok := cache.Load(t); ok {
		return ti.(TypeInfo)
	}

	et := t
	if et.Kind() == reflect.Pointer {
		et = et.Elem()
	}

	name := et.String()
	if et.PkgPath() != "" && et.Name() != "" {
		name = et.PkgPath() + "." + et.Name()
	}

	ti := TypeInfo{Name: name, Type: et}
	cache.Store(t, ti)
	return ti
}
