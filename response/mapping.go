package response

import (
	"sort"

	jsoniter "github.com/json-iterator/go"
)

// Mapping is an insertion ordered string keyed map of Values. Setting an
// existing key replaces its value in place.
type Mapping struct {
	keys   []string
	values []Value
	index  map[string]int
}

// NewMapping returns an empty mapping.
func NewMapping() *Mapping {
	return &Mapping{index: map[string]int{}}
}

// Set stores value under key.
func (m *Mapping) Set(key string, value Value) {
	if m.index == nil {
		m.index = map[string]int{}
	}
	if pos, ok := m.index[key]; ok {
		m.values[pos] = value
		return
	}
	m.index[key] = len(m.keys)
	m.keys = append(m.keys, key)
	m.values = append(m.values, value)
}

// Get returns the value stored under key.
func (m *Mapping) Get(key string) (Value, bool) {
	if m == nil {
		return Value{}, false
	}
	pos, ok := m.index[key]
	if !ok {
		return Value{}, false
	}
	return m.values[pos], true
}

// Has reports whether key is present.
func (m *Mapping) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Len returns the number of keys.
func (m *Mapping) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns the keys in insertion order.
func (m *Mapping) Keys() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.keys...)
}

// Range calls fn for each entry in insertion order until fn returns false.
func (m *Mapping) Range(fn func(key string, value Value) bool) {
	if m == nil {
		return
	}
	for i, key := range m.keys {
		if !fn(key, m.values[i]) {
			return
		}
	}
}

// Interface converts the mapping into a map[string]any.
func (m *Mapping) Interface() map[string]any {
	out := make(map[string]any, m.Len())
	m.Range(func(key string, value Value) bool {
		out[key] = value.Interface()
		return true
	})
	return out
}

// MarshalJSON writes the mapping keeping key order.
func (m *Mapping) MarshalJSON() ([]byte, error) {
	return Object(m).MarshalJSON()
}

func writeMapping(stream *jsoniter.Stream, m *Mapping) {
	stream.WriteObjectStart()
	first := true
	m.Range(func(key string, value Value) bool {
		if !first {
			stream.WriteMore()
		}
		first = false
		stream.WriteObjectField(key)
		writeValue(stream, value)
		return true
	})
	stream.WriteObjectEnd()
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
