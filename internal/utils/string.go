package utils

import (
	"reflect"
	"strings"
)

// TrimAllStringFields returns a copy of input with surrounding whitespace
// removed from every reachable string. Struct fields, pointer targets, slice
// elements and map keys and values are all visited; unexported struct fields
// are left zero in the copy.
//
// Input: any value, typically a request struct or a pointer to one.
// Output: a value of the same dynamic type, so callers assert it back:
//
//	req = utils.TrimAllStringFields(req).(models.CreateFarmerInput)
func TrimAllStringFields(input any) any {
	if input == nil {
		return nil
	}

	return trimValue(reflect.ValueOf(input)).Interface()
}

// trimValue recursively rebuilds v with trimmed strings.
func trimValue(v reflect.Value) reflect.Value {
	switch v.Kind() {
	case reflect.Ptr:
		if v.IsNil() {
			return v
		}
		newElem := trimValue(v.Elem())
		newPtr := reflect.New(v.Elem().Type())
		newPtr.Elem().Set(newElem)
		return newPtr

	case reflect.Struct:
		newStruct := reflect.New(v.Type()).Elem()
		for i := 0; i < v.NumField(); i++ {
			if !v.Type().Field(i).IsExported() {
				continue
			}
			if newStruct.Field(i).CanSet() {
				newStruct.Field(i).Set(trimValue(v.Field(i)))
			}
		}
		return newStruct

	case reflect.Slice:
		if v.IsNil() {
			return v
		}
		newSlice := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		for i := 0; i < v.Len(); i++ {
			newSlice.Index(i).Set(trimValue(v.Index(i)))
		}
		return newSlice

	case reflect.Map:
		if v.IsNil() {
			return v
		}
		newMap := reflect.MakeMapWithSize(v.Type(), v.Len())
		iter := v.MapRange()
		for iter.Next() {
			newMap.SetMapIndex(trimValue(iter.Key()), trimValue(iter.Value()))
		}
		return newMap

	case reflect.String:
		// Convert keeps named string types (e.g. models.RiskLevel) intact.
		return reflect.ValueOf(strings.TrimSpace(v.String())).Convert(v.Type())
	}

	return v
}
