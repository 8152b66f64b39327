package response

import (
	"encoding/json"
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

// Kind is the variant held by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindSequence
	KindMapping
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Value is a loosely typed decoded JSON value. Numbers keep their source text
// so no precision is lost before a typed read. The zero Value is null.
type Value struct {
	kind    Kind
	boolean bool
	text    string
	items   []Value
	mapping *Mapping
}

// Null returns the null value.
func Null() Value { return Value{} }

// Bool wraps b.
func Bool(b bool) Value { return Value{kind: KindBool, boolean: b} }

// Number wraps n.
func Number(n json.Number) Value { return Value{kind: KindNumber, text: string(n)} }

// String wraps s.
func String(s string) Value { return Value{kind: KindString, text: s} }

// Sequence wraps items.
func Sequence(items ...Value) Value {
	return Value{kind: KindSequence, items: items}
}

// Object wraps m. A nil mapping becomes an empty one.
func Object(m *Mapping) Value {
	if m == nil {
		m = NewMapping()
	}
	return Value{kind: KindMapping, mapping: m}
}

// Kind returns the variant.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsBool returns the boolean when v is one.
func (v Value) AsBool() (bool, bool) {
	return v.boolean, v.kind == KindBool
}

// AsNumber returns the number when v is one.
func (v Value) AsNumber() (json.Number, bool) {
	return json.Number(v.text), v.kind == KindNumber
}

// AsString returns the string when v is one.
func (v Value) AsString() (string, bool) {
	return v.text, v.kind == KindString
}

// AsSequence returns the items when v is a sequence.
func (v Value) AsSequence() ([]Value, bool) {
	return v.items, v.kind == KindSequence
}

// AsMapping returns the mapping when v is one.
func (v Value) AsMapping() (*Mapping, bool) {
	return v.mapping, v.kind == KindMapping
}

// Interface converts v to plain Go values: nil, bool, json.Number, string,
// []any and map[string]any.
func (v Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.boolean
	case KindNumber:
		return json.Number(v.text)
	case KindString:
		return v.text
	case KindSequence:
		out := make([]any, len(v.items))
		for i, item := range v.items {
			out[i] = item.Interface()
		}
		return out
	case KindMapping:
		return v.mapping.Interface()
	default:
		return nil
	}
}

// MarshalJSON writes v keeping mapping key order.
func (v Value) MarshalJSON() ([]byte, error) {
	stream := jsoniter.ConfigCompatibleWithStandardLibrary.BorrowStream(nil)
	defer jsoniter.ConfigCompatibleWithStandardLibrary.ReturnStream(stream)
	writeValue(stream, v)
	if stream.Error != nil {
		return nil, stream.Error
	}
	return append([]byte(nil), stream.Buffer()...), nil
}

// FromInterface converts plain Go values produced by JSON decoding into a
// Value. Unsupported types are re-encoded through JSON first.
func FromInterface(in any) Value {
	switch t := in.(type) {
	case nil:
		return Null()
	case Value:
		return t
	case bool:
		return Bool(t)
	case json.Number:
		return Number(t)
	case string:
		return String(t)
	case float64, float32, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return Number(json.Number(fmt.Sprint(t)))
	case []any:
		items := make([]Value, len(t))
		for i, item := range t {
			items[i] = FromInterface(item)
		}
		return Sequence(items...)
	case map[string]any:
		m := NewMapping()
		for _, key := range sortedKeys(t) {
			m.Set(key, FromInterface(t[key]))
		}
		return Object(m)
	case *Mapping:
		return Object(t)
	}
	data, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(in)
	if err != nil {
		return Null()
	}
	iter := jsoniter.ConfigCompatibleWithStandardLibrary.BorrowIterator(data)
	defer jsoniter.ConfigCompatibleWithStandardLibrary.ReturnIterator(iter)
	value := readValue(iter)
	if iter.Error != nil {
		return Null()
	}
	return value
}

func writeValue(stream *jsoniter.Stream, v Value) {
	switch v.kind {
	case KindBool:
		stream.WriteBool(v.boolean)
	case KindNumber:
		stream.WriteRaw(v.text)
	case KindString:
		stream.WriteString(v.text)
	case KindSequence:
		stream.WriteArrayStart()
		for i, item := range v.items {
			if i > 0 {
				stream.WriteMore()
			}
			writeValue(stream, item)
		}
		stream.WriteArrayEnd()
	case KindMapping:
		writeMapping(stream, v.mapping)
	default:
		stream.WriteNil()
	}
}
