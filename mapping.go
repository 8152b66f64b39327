package infer

import (
	"reflect"
	"sort"
)

// TypeMapping collects per-type configuration: the index documents of the
// type live in and hard renames for its members.
type TypeMapping struct {
	typ     reflect.Type
	index   string
	renames map[string]string
}

// MapType starts a mapping for T. Pointer types map their element.
func MapType[T any]() *TypeMapping {
	return MapTypeOf(reflect.TypeOf((*T)(nil)).Elem())
}

// MapTypeOf starts a mapping for t.
func MapTypeOf(t reflect.Type) *TypeMapping {
	return &TypeMapping{typ: derefType(t), renames: map[string]string{}}
}

// Index sets the index name used when resolving IndexNameOf the mapped type.
func (m *TypeMapping) Index(name string) *TypeMapping {
	m.index = name
	return m
}

// Rename registers the wire name for the member. It wins over struct tags,
// serializer opinions and the default inferrer.
func (m *TypeMapping) Rename(member, name string) *TypeMapping {
	if m.renames == nil {
		m.renames = map[string]string{}
	}
	m.renames[member] = name
	return m
}

// Type returns the mapped type.
func (m *TypeMapping) Type() reflect.Type {
	return m.typ
}

// Renames returns the registered member renames sorted by member name.
func (m *TypeMapping) Renames() [][2]string {
	out := make([][2]string, 0, len(m.renames))
	for member, name := range m.renames {
		out = append(out, [2]string{member, name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i][0] < out[j][0] })
	return out
}

func (m *TypeMapping) clone() *TypeMapping {
	out := &TypeMapping{typ: m.typ, index: m.index, renames: make(map[string]string, len(m.renames))}
	for member, name := range m.renames {
		out.renames[member] = name
	}
	return out
}

func (m *TypeMapping) merge(other *TypeMapping) {
	if other.index != "" {
		m.index = other.index
	}
	for member, name := range other.renames {
		m.renames[member] = name
	}
}

// WithTypeMapping registers type mappings. Mappings are copied, so later
// changes to a TypeMapping do not affect settings already built from it.
// Several mappings for the same type merge, later ones winning.
func WithTypeMapping(mappings ...*TypeMapping) Option {
	copies := make([]*TypeMapping, 0, len(mappings))
	for _, mapping := range mappings {
		if mapping == nil || mapping.typ == nil {
			continue
		}
		copies = append(copies, mapping.clone())
	}
	return func(cfg *settingsConfig) {
		if cfg.mappings == nil {
			cfg.mappings = map[reflect.Type]*TypeMapping{}
		}
		for _, mapping := range copies {
			if existing, ok := cfg.mappings[mapping.typ]; ok {
				existing.merge(mapping)
				continue
			}
			cfg.mappings[mapping.typ] = mapping.clone()
		}
	}
}
