package config

import "reflect"

// Binding ties a name used under `types:` to a Go type.
type Binding struct {
	Name string
	Type reflect.Type
}

// Bind binds name to T.
func Bind[T any](name string) Binding {
	return Binding{Name: name, Type: reflect.TypeOf((*T)(nil)).Elem()}
}

// BindType binds name to t.
func BindType(name string, t reflect.Type) Binding {
	return Binding{Name: name, Type: t}
}
