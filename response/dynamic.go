package response

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/goliatone/go-infer/internal/coerce"
	jsoniter "github.com/json-iterator/go"
)

// PathSource is anything addressable by dotted path.
type PathSource interface {
	Lookup(path string) (Value, bool)
}

// DynamicDictionary is a read only view over a decoded payload.
type DynamicDictionary struct {
	root *Mapping
}

// NewDynamicDictionary wraps m. A nil mapping behaves as empty.
func NewDynamicDictionary(m *Mapping) DynamicDictionary {
	if m == nil {
		m = NewMapping()
	}
	return DynamicDictionary{root: m}
}

// Lookup splits path on "." and descends through mappings. A numeric
// segment indexes into a sequence. Missing segments report false.
func (d DynamicDictionary) Lookup(path string) (Value, bool) {
	if path == "" || d.root == nil {
		return Value{}, false
	}
	current := Object(d.root)
	for _, segment := range strings.Split(path, ".") {
		next, ok := child(current, segment)
		if !ok {
			return Value{}, false
		}
		current = next
	}
	return current, true
}

func child(v Value, segment string) (Value, bool) {
	switch v.kind {
	case KindMapping:
		return v.mapping.Get(segment)
	case KindSequence:
		idx, err := strconv.Atoi(segment)
		if err != nil || idx < 0 || idx >= len(v.items) {
			return Value{}, false
		}
		return v.items[idx], true
	default:
		return Value{}, false
	}
}

// Keys returns the top level keys in document order.
func (d DynamicDictionary) Keys() []string { return d.root.Keys() }

// Len returns the number of top level keys.
func (d DynamicDictionary) Len() int { return d.root.Len() }

// Mapping returns the underlying mapping.
func (d DynamicDictionary) Mapping() *Mapping { return d.root }

// MarshalJSON writes the payload keeping key order.
func (d DynamicDictionary) MarshalJSON() ([]byte, error) {
	return Object(d.root).MarshalJSON()
}

// DynamicResponse is an envelope with an open ended payload.
type DynamicResponse struct {
	Envelope
	Body DynamicDictionary
}

// Lookup delegates to Body.
func (r *DynamicResponse) Lookup(path string) (Value, bool) {
	if r == nil {
		return Value{}, false
	}
	return r.Body.Lookup(path)
}

// Get reads path from src as T. A missing path or a value that cannot be
// converted yields the zero T.
func Get[T any](src PathSource, path string) T {
	value, _ := TryGet[T](src, path)
	return value
}

// GetOr reads path from src as T, returning fallback when absent or not
// convertible.
func GetOr[T any](src PathSource, path string, fallback T) T {
	if value, ok := TryGet[T](src, path); ok {
		return value
	}
	return fallback
}

// TryGet reads path from src as T and reports whether it succeeded.
func TryGet[T any](src PathSource, path string) (T, bool) {
	var zero T
	if src == nil {
		return zero, false
	}
	value, ok := src.Lookup(path)
	if !ok {
		return zero, false
	}
	return Convert[T](value)
}

// Convert performs the best effort conversion used by Get: numeric
// widening and narrowing within range, string and primitive conversions,
// and pass through for Value, Mapping and sequences. Other types are decoded
// from the value's JSON form.
func Convert[T any](value Value) (T, bool) {
	var out T
	switch target := any(&out).(type) {
	case *Value:
		*target = value
		return out, true
	case *any:
		*target = value.Interface()
		return out, true
	case *string:
		s, ok := coerce.String(value.Interface())
		*target = s
		return out, ok
	case *bool:
		b, ok := coerce.Bool(value.Interface())
		*target = b
		return out, ok
	case *int:
		return out, setInt(target, value, strconv.IntSize)
	case *int8:
		return out, setInt(target, value, 8)
	case *int16:
		return out, setInt(target, value, 16)
	case *int32:
		return out, setInt(target, value, 32)
	case *int64:
		return out, setInt(target, value, 64)
	case *uint:
		return out, setUint(target, value, strconv.IntSize)
	case *uint8:
		return out, setUint(target, value, 8)
	case *uint16:
		return out, setUint(target, value, 16)
	case *uint32:
		return out, setUint(target, value, 32)
	case *uint64:
		return out, setUint(target, value, 64)
	case *float64:
		f, ok := coerce.Float64(value.Interface())
		*target = f
		return out, ok
	case *float32:
		f, ok := coerce.Float64(value.Interface())
		if !ok || math.Abs(f) > math.MaxFloat32 {
			return out, false
		}
		*target = float32(f)
		return out, true
	case *json.Number:
		n, ok := value.AsNumber()
		if !ok {
			if s, isString := value.AsString(); isString {
				if _, err := strconv.ParseFloat(s, 64); err == nil {
					n, ok = json.Number(s), true
				}
			}
		}
		*target = n
		return out, ok
	case *[]Value:
		items, ok := value.AsSequence()
		*target = items
		return out, ok
	case *[]any:
		if _, ok := value.AsSequence(); !ok {
			return out, false
		}
		*target = value.Interface().([]any)
		return out, true
	case *map[string]any:
		m, ok := value.AsMapping()
		if !ok {
			return out, false
		}
		*target = m.Interface()
		return out, true
	case **Mapping:
		m, ok := value.AsMapping()
		*target = m
		return out, ok
	case *DynamicDictionary:
		m, ok := value.AsMapping()
		if !ok {
			return out, false
		}
		*target = NewDynamicDictionary(m)
		return out, true
	}
	if value.IsNull() {
		return out, false
	}
	data, err := value.MarshalJSON()
	if err != nil {
		return out, false
	}
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(data, &out); err != nil {
		var zero T
		return zero, false
	}
	return out, true
}

type signed interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

type unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

func setInt[I signed](target *I, value Value, bits int) bool {
	i, ok := coerce.Int64(value.Interface())
	if !ok || !coerce.FitsInt(i, bits) {
		return false
	}
	*target = I(i)
	return true
}

func setUint[U unsigned](target *U, value Value, bits int) bool {
	u, ok := coerce.Uint64(value.Interface())
	if !ok || !coerce.FitsUint(u, bits) {
		return false
	}
	*target = U(u)
	return true
}
