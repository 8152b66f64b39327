package response

import (
	"fmt"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

// Reserved top level keys. Every other key is payload.
const (
	ErrorField  = "error"
	StatusField = "status"
)

// Envelope holds the well known fields of a response body.
type Envelope struct {
	Error      *ServerError
	StatusCode *int
}

// Status returns the status code when the body carried an integer one.
func (e Envelope) Status() (int, bool) {
	if e.StatusCode == nil {
		return 0, false
	}
	return *e.StatusCode, true
}

// HasError reports whether the body carried an error field.
func (e Envelope) HasError() bool {
	return e.Error != nil
}

// ErrorCause is one level of a structured server error.
type ErrorCause struct {
	Type       string         `json:"type,omitempty"`
	Reason     string         `json:"reason,omitempty"`
	Index      string         `json:"index,omitempty"`
	ResourceID string         `json:"resource.id,omitempty"`
	StackTrace string         `json:"stack_trace,omitempty"`
	CausedBy   *ErrorCause    `json:"caused_by,omitempty"`
	Metadata   map[string]any `json:"-"`
}

// ServerError is the value of the error field. A bare string body becomes a
// ServerError with only Reason set.
type ServerError struct {
	ErrorCause
	RootCause []ErrorCause      `json:"root_cause,omitempty"`
	Headers   map[string]string `json:"header,omitempty"`
}

func (e *ServerError) Error() string {
	if e == nil {
		return "<nil>"
	}
	var b strings.Builder
	b.WriteString("response: server error")
	if e.Type != "" {
		fmt.Fprintf(&b, " [%s]", e.Type)
	}
	if e.Reason != "" {
		b.WriteString(": ")
		b.WriteString(e.Reason)
	}
	return b.String()
}

// readServerError decodes the error field: string, object or null. Other
// shapes are a DecodeError.
func readServerError(iter *jsoniter.Iterator) (*ServerError, error) {
	switch next := iter.WhatIsNext(); next {
	case jsoniter.NilValue:
		iter.ReadNil()
		return nil, nil
	case jsoniter.StringValue:
		return &ServerError{ErrorCause: ErrorCause{Reason: iter.ReadString()}}, iterError(iter, ErrorField)
	case jsoniter.ObjectValue:
		serverErr := &ServerError{}
		readCause(iter, &serverErr.ErrorCause, func(it *jsoniter.Iterator, key string) bool {
			switch key {
			case "root_cause":
				it.ReadArrayCB(func(it *jsoniter.Iterator) bool {
					var cause ErrorCause
					readCause(it, &cause, nil)
					serverErr.RootCause = append(serverErr.RootCause, cause)
					return it.Error == nil
				})
				return true
			case "header":
				it.ReadVal(&serverErr.Headers)
				return true
			}
			return false
		})
		return serverErr, iterError(iter, ErrorField)
	default:
		iter.Skip()
		if err := iterError(iter, ErrorField); err != nil {
			return nil, err
		}
		return nil, decodeError("error", ErrorField, fmt.Errorf("unexpected %s value", valueTypeName(next)))
	}
}

// readCause fills cause from an object. extra gets first pick of each key and
// reports whether it consumed the value.
func readCause(iter *jsoniter.Iterator, cause *ErrorCause, extra func(*jsoniter.Iterator, string) bool) {
	if iter.WhatIsNext() != jsoniter.ObjectValue {
		iter.Skip()
		return
	}
	iter.ReadObjectCB(func(it *jsoniter.Iterator, key string) bool {
		if extra != nil && extra(it, key) {
			return it.Error == nil
		}
		switch key {
		case "type":
			cause.Type = readText(it)
		case "reason":
			cause.Reason = readText(it)
		case "index":
			cause.Index = readText(it)
		case "resource.id":
			cause.ResourceID = readText(it)
		case "stack_trace":
			cause.StackTrace = readText(it)
		case "caused_by":
			nested := &ErrorCause{}
			readCause(it, nested, nil)
			cause.CausedBy = nested
		default:
			if cause.Metadata == nil {
				cause.Metadata = map[string]any{}
			}
			cause.Metadata[key] = readValue(it).Interface()
		}
		return it.Error == nil
	})
}

// readText reads strings as is and renders other scalars; containers are
// skipped.
func readText(iter *jsoniter.Iterator) string {
	switch iter.WhatIsNext() {
	case jsoniter.StringValue:
		return iter.ReadString()
	case jsoniter.NumberValue:
		return string(iter.ReadNumber())
	case jsoniter.BoolValue:
		return strconv.FormatBool(iter.ReadBool())
	default:
		iter.Skip()
		return ""
	}
}

// readStatus keeps integer status values in int32 range. Anything else is
// consumed and ignored.
func readStatus(iter *jsoniter.Iterator) *int {
	if iter.WhatIsNext() != jsoniter.NumberValue {
		iter.Skip()
		return nil
	}
	number := iter.ReadNumber()
	status, err := strconv.ParseInt(string(number), 10, 32)
	if err != nil {
		return nil
	}
	code := int(status)
	return &code
}

func iterError(iter *jsoniter.Iterator, key string) error {
	if iter.Error == nil {
		return nil
	}
	return decodeError("syntax", key, iter.Error)
}

func valueTypeName(t jsoniter.ValueType) string {
	switch t {
	case jsoniter.StringValue:
		return "string"
	case jsoniter.NumberValue:
		return "number"
	case jsoniter.NilValue:
		return "null"
	case jsoniter.BoolValue:
		return "bool"
	case jsoniter.ArrayValue:
		return "array"
	case jsoniter.ObjectValue:
		return "object"
	default:
		return "invalid"
	}
}
