// Package coerce converts loosely typed decoded values into Go primitives.
// Every function reports whether the conversion was exact enough to use;
// callers decide what a failure means.
package coerce

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// String renders primitives as strings. Containers and nil do not convert.
func String(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	case bool:
		return strconv.FormatBool(t), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case uint64:
		return strconv.FormatUint(t, 10), true
	}
	return "", false
}

// Int64 converts numbers and numeric strings. Fractional values only convert
// when they are whole.
func Int64(v any) (int64, bool) {
	switch t := v.(type) {
	case int:
		return int64(t), true
	case int64:
		return t, true
	case int32:
		return int64(t), true
	case uint64:
		if t > math.MaxInt64 {
			return 0, false
		}
		return int64(t), true
	case float64:
		return wholeFloat(t)
	case json.Number:
		return parseInt(t.String())
	case string:
		return parseInt(strings.TrimSpace(t))
	case bool:
		if t {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

// Uint64 converts non-negative numbers and numeric strings.
func Uint64(v any) (uint64, bool) {
	switch t := v.(type) {
	case uint64:
		return t, true
	case json.Number:
		if u, err := strconv.ParseUint(t.String(), 10, 64); err == nil {
			return u, true
		}
	case string:
		if u, err := strconv.ParseUint(strings.TrimSpace(t), 10, 64); err == nil {
			return u, true
		}
	}
	i, ok := Int64(v)
	if !ok || i < 0 {
		return 0, false
	}
	return uint64(i), true
}

// Float64 converts numbers and numeric strings.
func Float64(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case int32:
		return float64(t), true
	case uint64:
		return float64(t), true
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return f, true
		}
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(t), 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

// Bool converts booleans, "true"/"false" style strings and 0/1 numbers.
func Bool(v any) (bool, bool) {
	switch t := v.(type) {
	case bool:
		return t, true
	case string:
		if b, err := strconv.ParseBool(strings.TrimSpace(t)); err == nil {
			return b, true
		}
		return false, false
	}
	i, ok := Int64(v)
	if !ok || (i != 0 && i != 1) {
		return false, false
	}
	return i == 1, true
}

// FitsInt reports whether i fits in a signed integer of the given bit size.
func FitsInt(i int64, bits int) bool {
	if bits >= 64 {
		return true
	}
	limit := int64(1) << (bits - 1)
	return i >= -limit && i < limit
}

// FitsUint reports whether u fits in an unsigned integer of the given bit
// size.
func FitsUint(u uint64, bits int) bool {
	if bits >= 64 {
		return true
	}
	return u < uint64(1)<<bits
}

func parseInt(s string) (int64, bool) {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return wholeFloat(f)
}

func wholeFloat(f float64) (int64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}
