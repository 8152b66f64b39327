package config

import "reflect"

// mergeFiles composes files ordered from strongest to weakest. Set pointers
// and map entries in a stronger file win; anything it leaves unset falls
// through to the next file.
func mergeFiles(files ...*File) *File {
	merged := reflect.ValueOf(&File{})
	for i := len(files) - 1; i >= 0; i-- {
		if files[i] == nil {
			continue
		}
		merged = mergeValue(reflect.ValueOf(files[i]), merged)
	}
	return merged.Interface().(*File)
}

func mergeValue(strong, weak reflect.Value) reflect.Value {
	if !strong.IsValid() {
		return cloneValue(weak)
	}
	switch strong.Kind() {
	case reflect.Pointer:
		if strong.IsNil() {
			return cloneValue(weak)
		}
		var weakElem reflect.Value
		if weak.IsValid() && !weak.IsNil() {
			weakElem = weak.Elem()
		}
		result := reflect.New(strong.Type().Elem())
		result.Elem().Set(mergeValue(strong.Elem(), weakElem))
		return result
	case reflect.Struct:
		result := reflect.New(strong.Type()).Elem()
		for i := 0; i < strong.NumField(); i++ {
			var weakField reflect.Value
			if weak.IsValid() {
				weakField = weak.Field(i)
			}
			result.Field(i).Set(mergeValue(strong.Field(i), weakField))
		}
		return result
	case reflect.Map:
		if strong.IsNil() {
			return cloneValue(weak)
		}
		result := cloneValue(weak)
		if !result.IsValid() || result.IsNil() {
			result = reflect.MakeMapWithSize(strong.Type(), strong.Len())
		}
		iter := strong.MapRange()
		for iter.Next() {
			merged := mergeValue(iter.Value(), result.MapIndex(iter.Key()))
			if !merged.IsValid() {
				merged = reflect.Zero(strong.Type().Elem())
			}
			result.SetMapIndex(iter.Key(), merged)
		}
		return result
	default:
		return cloneValue(strong)
	}
}

func cloneValue(v reflect.Value) reflect.Value {
	if !v.IsValid() {
		return v
	}
	switch v.Kind() {
	case reflect.Pointer:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		clone := reflect.New(v.Type().Elem())
		clone.Elem().Set(cloneValue(v.Elem()))
		return clone
	case reflect.Struct:
		clone := reflect.New(v.Type()).Elem()
		for i := 0; i < v.NumField(); i++ {
			clone.Field(i).Set(cloneValue(v.Field(i)))
		}
		return clone
	case reflect.Map:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		clone := reflect.MakeMapWithSize(v.Type(), v.Len())
		iter := v.MapRange()
		for iter.Next() {
			clone.SetMapIndex(iter.Key(), cloneValue(iter.Value()))
		}
		return clone
	default:
		return v
	}
}
