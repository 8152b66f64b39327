package infer

import (
	"reflect"
	"strings"
)

// Member describes a named member reached while compiling a field chain.
// Field is the zero StructField and Found is false when the owner is not a
// struct or has no member with that name.
type Member struct {
	Owner     reflect.Type
	Declaring reflect.Type
	Name      string
	Field     reflect.StructField
	Found     bool
}

// Type returns the member's value type, or nil when the member is unknown.
func (m Member) Type() reflect.Type {
	if !m.Found {
		return nil
	}
	return m.Field.Type
}

// MetadataLookup reports a rename declared on the member itself.
type MetadataLookup interface {
	DeclaredRename(m Member) (string, bool)
}

// SerializerOpinion reports the name a value serializer would write for the
// member, if it has an opinion.
type SerializerOpinion interface {
	VerbatimName(m Member) (string, bool)
}

// MetadataLookupFunc adapts a function to MetadataLookup.
type MetadataLookupFunc func(Member) (string, bool)

// DeclaredRename implements MetadataLookup.
func (f MetadataLookupFunc) DeclaredRename(m Member) (string, bool) {
	if f == nil {
		return "", false
	}
	return f(m)
}

// SerializerOpinionFunc adapts a function to SerializerOpinion.
type SerializerOpinionFunc func(Member) (string, bool)

// VerbatimName implements SerializerOpinion.
func (f SerializerOpinionFunc) VerbatimName(m Member) (string, bool) {
	if f == nil {
		return "", false
	}
	return f(m)
}

// StructTagMetadata reads declared renames from a struct tag, `infer` unless
// Tag is set.
type StructTagMetadata struct {
	Tag string
}

// DeclaredRename implements MetadataLookup.
func (l StructTagMetadata) DeclaredRename(m Member) (string, bool) {
	key := l.Tag
	if key == "" {
		key = "infer"
	}
	return tagName(m, key)
}

// JSONTagSerializer takes the serializer's opinion from the `json` tag.
type JSONTagSerializer struct{}

// VerbatimName implements SerializerOpinion.
func (JSONTagSerializer) VerbatimName(m Member) (string, bool) {
	return tagName(m, "json")
}

func tagName(m Member, key string) (string, bool) {
	if !m.Found {
		return "", false
	}
	tag, ok := m.Field.Tag.Lookup(key)
	if !ok {
		return "", false
	}
	name, _, _ := strings.Cut(tag, ",")
	name = strings.TrimSpace(name)
	if name == "" || name == "-" {
		return "", false
	}
	return name, true
}

// WithMetadataLookup replaces the declared rename source. Passing nil keeps
// the struct tag default.
func WithMetadataLookup(lookup MetadataLookup) Option {
	return func(cfg *settingsConfig) {
		cfg.metadata = lookup
	}
}

// WithSerializerOpinion replaces the serializer opinion source. Passing nil
// keeps the json tag default; use SerializerOpinionFunc(nil) to disable it.
func WithSerializerOpinion(opinion SerializerOpinion) Option {
	return func(cfg *settingsConfig) {
		cfg.serializer = opinion
	}
}

// lookupMember finds name on owner after unwrapping pointers and containers.
// Promoted fields report the embedded struct as their declaring type.
func lookupMember(owner reflect.Type, name string) Member {
	owner = unwrapContainer(owner)
	m := Member{Owner: owner, Declaring: owner, Name: name}
	if owner == nil || owner.Kind() != reflect.Struct {
		return m
	}
	field, ok := owner.FieldByName(name)
	if !ok {
		return m
	}
	m.Field = field
	m.Found = true
	if len(field.Index) > 1 {
		declaring := owner
		for _, idx := range field.Index[:len(field.Index)-1] {
			declaring = derefType(declaring.Field(idx).Type)
		}
		m.Declaring = declaring
	}
	return m
}

func derefType(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

// unwrapContainer strips pointers, slices, arrays and maps down to the
// element type.
func unwrapContainer(t reflect.Type) reflect.Type {
	t = derefType(t)
	for t != nil {
		switch t.Kind() {
		case reflect.Slice, reflect.Array, reflect.Map:
			t = derefType(t.Elem())
		default:
			return t
		}
	}
	return nil
}

func elementType(t reflect.Type) reflect.Type {
	t = derefType(t)
	if t == nil {
		return nil
	}
	switch t.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return t.Elem()
	default:
		return t
	}
}

func typeName(t reflect.Type) string {
	t = derefType(t)
	if t == nil {
		return ""
	}
	return t.Name()
}
