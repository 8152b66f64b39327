package response

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/goliatone/go-infer/pkg/activity"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
)

const activityObjectEnvelope = "response.envelope"

// ValueDecoder reads one payload value from the iterator. Errors are returned
// to the caller of the decode unchanged.
type ValueDecoder interface {
	DecodeValue(iter *jsoniter.Iterator) (Value, error)
}

// ValueDecoderFunc adapts a function to ValueDecoder.
type ValueDecoderFunc func(iter *jsoniter.Iterator) (Value, error)

// DecodeValue implements ValueDecoder.
func (f ValueDecoderFunc) DecodeValue(iter *jsoniter.Iterator) (Value, error) {
	return f(iter)
}

// DefaultValueDecoder reads any JSON value into a Value, keeping object key
// order and number text.
var DefaultValueDecoder ValueDecoder = ValueDecoderFunc(func(iter *jsoniter.Iterator) (Value, error) {
	value := readValue(iter)
	if iter.Error != nil {
		return Value{}, decodeError("syntax", "", iter.Error)
	}
	return value, nil
})

func readValue(iter *jsoniter.Iterator) Value {
	switch next := iter.WhatIsNext(); next {
	case jsoniter.NilValue:
		iter.ReadNil()
		return Null()
	case jsoniter.BoolValue:
		return Bool(iter.ReadBool())
	case jsoniter.NumberValue:
		return Number(iter.ReadNumber())
	case jsoniter.StringValue:
		return String(iter.ReadString())
	case jsoniter.ArrayValue:
		items := []Value{}
		iter.ReadArrayCB(func(it *jsoniter.Iterator) bool {
			items = append(items, readValue(it))
			return it.Error == nil
		})
		return Sequence(items...)
	case jsoniter.ObjectValue:
		m := NewMapping()
		iter.ReadObjectCB(func(it *jsoniter.Iterator, key string) bool {
			m.Set(key, readValue(it))
			return it.Error == nil
		})
		return Object(m)
	default:
		iter.ReportError("readValue", "unexpected "+valueTypeName(next)+" token")
		return Null()
	}
}

// Option configures a Decoder.
type Option func(*Decoder)

// WithValueDecoder replaces the payload value decoder.
func WithValueDecoder(values ValueDecoder) Option {
	return func(d *Decoder) {
		if values != nil {
			d.values = values
		}
	}
}

// WithDecodeLogger attaches a decode logger.
func WithDecodeLogger(logger DecodeLogger) Option {
	return func(d *Decoder) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithActivityHooks notifies hooks when a decode fails.
func WithActivityHooks(hooks activity.Hooks) Option {
	return func(d *Decoder) {
		d.hooks = append(activity.Hooks(nil), hooks...)
	}
}

// WithJSONConfig selects the json-iterator configuration used for scanning
// and for typed value reads.
func WithJSONConfig(api jsoniter.API) Option {
	return func(d *Decoder) {
		if api != nil {
			d.api = api
		}
	}
}

// Decoder splits response bodies into an Envelope and a payload in a single
// pass over the body's tokens. It is safe for concurrent use.
type Decoder struct {
	values ValueDecoder
	logger DecodeLogger
	hooks  activity.Hooks
	api    jsoniter.API
}

// NewDecoder builds a Decoder.
func NewDecoder(opts ...Option) *Decoder {
	d := &Decoder{
		values: DefaultValueDecoder,
		logger: noopDecodeLogger{},
		api:    jsoniter.ConfigCompatibleWithStandardLibrary,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// DecodeDynamic decodes data into a DynamicResponse.
func (d *Decoder) DecodeDynamic(data []byte) (*DynamicResponse, error) {
	start := time.Now()
	payload := NewMapping()
	env, err := d.scan(data, func(iter *jsoniter.Iterator, key string) error {
		value, err := d.values.DecodeValue(iter)
		if err != nil {
			return err
		}
		payload.Set(key, value)
		return nil
	})
	d.finish("dynamic", data, payload.Len(), env, start, err)
	if err != nil {
		return nil, err
	}
	return &DynamicResponse{Envelope: env, Body: NewDynamicDictionary(payload)}, nil
}

// ReadDynamic reads r to the end and decodes it with DecodeDynamic.
func (d *Decoder) ReadDynamic(r io.Reader) (*DynamicResponse, error) {
	data, err := readAll(r)
	if err != nil {
		return nil, err
	}
	return d.DecodeDynamic(data)
}

// scan walks the top level object once. Reserved keys fill the envelope;
// every other key goes to payload in document order. The first error stops
// the scan and no envelope is returned.
func (d *Decoder) scan(data []byte, payload func(*jsoniter.Iterator, string) error) (Envelope, error) {
	iter := d.api.BorrowIterator(data)
	defer d.api.ReturnIterator(iter)

	if next := iter.WhatIsNext(); next != jsoniter.ObjectValue {
		if err := iterError(iter, ""); err != nil && len(bytes.TrimSpace(data)) > 0 {
			return Envelope{}, err
		}
		return Envelope{}, decodeError("envelope", "", fmt.Errorf("top level value is %s, want object", valueTypeName(next)))
	}

	// Reserved keys match on the bytes as written. Without a backslash in
	// the body no key can be escaped, so the decoded key is the raw key.
	var raw [][]byte
	if bytes.IndexByte(data, '\\') >= 0 {
		raw = d.rawKeys(data)
	}
	var env Envelope
	var scanErr error
	position := 0
	iter.ReadObjectCB(func(it *jsoniter.Iterator, key string) bool {
		reserved := key
		if raw != nil {
			reserved = ""
			if position < len(raw) {
				reserved = reservedKey(raw[position])
			}
		}
		position++
		switch reserved {
		case ErrorField:
			serverErr, err := readServerError(it)
			if err != nil {
				scanErr = err
				return false
			}
			env.Error = serverErr
		case StatusField:
			if status := readStatus(it); status != nil {
				env.StatusCode = status
			}
		default:
			if err := payload(it, key); err != nil {
				scanErr = err
				return false
			}
		}
		return it.Error == nil
	})
	if scanErr != nil {
		return Envelope{}, scanErr
	}
	if err := iterError(iter, ""); err != nil {
		return Envelope{}, err
	}
	// A clean end of input leaves io.EOF on the iterator; anything else is
	// trailing data.
	if next := iter.WhatIsNext(); next != jsoniter.InvalidValue || iter.Error == nil {
		return Envelope{}, decodeError("syntax", "", fmt.Errorf("unexpected %s after top level object", valueTypeName(next)))
	}
	return env, nil
}

// rawKeys lists the top level keys of data exactly as written, quotes
// included. It stops at the first malformed entry; the main scan reports it.
func (d *Decoder) rawKeys(data []byte) [][]byte {
	iter := d.api.BorrowIterator(nil)
	defer d.api.ReturnIterator(iter)

	// token returns the raw bytes of the JSON value starting at pos.
	token := func(pos int) []byte {
		iter.Error = nil
		out := iter.ResetBytes(data[pos:]).SkipAndReturnBytes()
		if iter.Error != nil && iter.Error != io.EOF {
			return nil
		}
		return out
	}

	pos := skipSpace(data, 0)
	if pos >= len(data) || data[pos] != '{' {
		return nil
	}
	keys := [][]byte{}
	pos = skipSpace(data, pos+1)
	if pos < len(data) && data[pos] == '}' {
		return keys
	}
	for pos < len(data) {
		key := token(pos)
		if len(key) == 0 || key[0] != '"' {
			return keys
		}
		keys = append(keys, key)
		pos = skipSpace(data, pos+len(key))
		if pos >= len(data) || data[pos] != ':' {
			return keys
		}
		pos = skipSpace(data, pos+1)
		value := token(pos)
		if len(value) == 0 {
			return keys
		}
		pos = skipSpace(data, pos+len(value))
		if pos >= len(data) || data[pos] != ',' {
			return keys
		}
		pos = skipSpace(data, pos+1)
	}
	return keys
}

// reservedKey returns the envelope field named by an unescaped raw key, or
// "" for payload keys.
func reservedKey(raw []byte) string {
	switch string(raw) {
	case `"` + ErrorField + `"`:
		return ErrorField
	case `"` + StatusField + `"`:
		return StatusField
	}
	return ""
}

func skipSpace(data []byte, pos int) int {
	for pos < len(data) {
		switch data[pos] {
		case ' ', '\t', '\n', '\r':
			pos++
		default:
			return pos
		}
	}
	return pos
}

func (d *Decoder) finish(variant string, data []byte, keys int, env Envelope, start time.Time, err error) {
	event := DecodeEvent{
		Variant:  variant,
		Bytes:    len(data),
		Keys:     keys,
		HasError: env.HasError(),
		Duration: time.Since(start),
		Err:      err,
	}
	if status, ok := env.Status(); ok {
		event.Status = status
	}
	d.logger.LogDecode(event)
	if err == nil || len(d.hooks) == 0 {
		return
	}
	_ = d.hooks.Notify(context.Background(), activity.BuildDecodeFailedEvent(activity.DecodeEventInput{
		ObjectType: activityObjectEnvelope,
		ObjectID:   uuid.NewString(),
		Variant:    variant,
		Bytes:      len(data),
		Err:        err,
	}))
}

func readAll(r io.Reader) ([]byte, error) {
	if r == nil {
		return nil, decodeError("syntax", "", fmt.Errorf("nil reader"))
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("response: read body: %w", err)
	}
	return data, nil
}
