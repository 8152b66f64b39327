package response_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/goliatone/go-infer/pkg/activity"
	"github.com/goliatone/go-infer/response"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeDynamicSplitsEnvelopeAndPayload(t *testing.T) {
	body := []byte(`{"took": 5, "error": "index missing", "status": 404, "hits": {"total": 2}}`)

	resp, err := response.NewDecoder().DecodeDynamic(body)
	require.NoError(t, err)

	require.NotNil(t, resp.Error)
	assert.Equal(t, "index missing", resp.Error.Reason)
	status, ok := resp.Status()
	require.True(t, ok)
	assert.Equal(t, 404, status)
	assert.True(t, resp.HasError())

	assert.Equal(t, []string{"took", "hits"}, resp.Body.Keys())
	assert.Equal(t, 2, resp.Body.Len())
	assert.False(t, resp.Body.Mapping().Has("status"))
	assert.False(t, resp.Body.Mapping().Has("error"))
}

func TestDecodeDynamicEscapedReservedKeysArePayload(t *testing.T) {
	resp, err := response.NewDecoder().DecodeDynamic([]byte(`{"\u0065rror":"boom","status":500,"x":1}`))
	require.NoError(t, err)
	assert.False(t, resp.HasError())
	status, ok := resp.Status()
	require.True(t, ok)
	assert.Equal(t, 500, status)
	assert.Equal(t, []string{"error", "x"}, resp.Body.Keys())
	assert.Equal(t, "boom", response.Get[string](resp, "error"))

	resp, err = response.NewDecoder().DecodeDynamic([]byte(`{"a\"b": 1, "\u0073tatus": 500, "status": 201, "x": [1, {"y": "\\"}]}`))
	require.NoError(t, err)
	status, ok = resp.Status()
	require.True(t, ok)
	assert.Equal(t, 201, status)
	assert.Equal(t, []string{`a"b`, "status", "x"}, resp.Body.Keys())
	assert.Equal(t, 500, response.Get[int](resp, "status"))
}

func TestDecodeDynamicIgnoresNonIntegerStatus(t *testing.T) {
	for _, body := range []string{
		`{"status": 200.5}`,
		`{"status": "200"}`,
		`{"status": 3000000000}`,
		`{"status": null}`,
		`{"status": {"code": 200}}`,
	} {
		t.Run(body, func(t *testing.T) {
			resp, err := response.NewDecoder().DecodeDynamic([]byte(body))
			require.NoError(t, err)
			_, ok := resp.Status()
			assert.False(t, ok)
			assert.Equal(t, 0, resp.Body.Len())
		})
	}
}

func TestDecodeDynamicStructuredError(t *testing.T) {
	body := []byte(`{
		"error": {
			"type": "index_not_found_exception",
			"reason": "no such index [logs]",
			"index": "logs",
			"resource.id": "logs",
			"shard": 3,
			"root_cause": [{"type": "index_not_found_exception", "reason": "no such index"}],
			"caused_by": {"type": "inner", "reason": "deeper"},
			"header": {"WWW-Authenticate": "Basic"}
		},
		"status": 404
	}`)

	resp, err := response.NewDecoder().DecodeDynamic(body)
	require.NoError(t, err)
	require.NotNil(t, resp.Error)

	assert.Equal(t, "index_not_found_exception", resp.Error.Type)
	assert.Equal(t, "logs", resp.Error.Index)
	assert.Equal(t, "logs", resp.Error.ResourceID)
	require.Len(t, resp.Error.RootCause, 1)
	assert.Equal(t, "no such index", resp.Error.RootCause[0].Reason)
	require.NotNil(t, resp.Error.CausedBy)
	assert.Equal(t, "deeper", resp.Error.CausedBy.Reason)
	assert.Equal(t, "Basic", resp.Error.Headers["WWW-Authenticate"])
	assert.Contains(t, resp.Error.Metadata, "shard")
	assert.Contains(t, resp.Error.Error(), "[index_not_found_exception]")
}

func TestDecodeDynamicNullErrorLeavesEnvelopeClean(t *testing.T) {
	resp, err := response.NewDecoder().DecodeDynamic([]byte(`{"error": null, "acknowledged": true}`))
	require.NoError(t, err)
	assert.False(t, resp.HasError())
	assert.True(t, response.Get[bool](resp, "acknowledged"))
}

func TestDecodeDynamicRejectsMalformedBodies(t *testing.T) {
	cases := map[string]struct {
		body string
		kind string
	}{
		"array top level":  {body: `[1, 2]`, kind: "envelope"},
		"string top level": {body: `"ok"`, kind: "envelope"},
		"empty body":       {body: ``, kind: "envelope"},
		"truncated":        {body: `{"a": 1`, kind: "syntax"},
		"trailing object":  {body: `{"a": 1} {"b": 2}`, kind: "syntax"},
		"trailing garbage": {body: `{"a": 1} x`, kind: "syntax"},
		"numeric error":    {body: `{"error": 42}`, kind: "error"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			resp, err := response.NewDecoder().DecodeDynamic([]byte(tc.body))
			require.Error(t, err)
			assert.Nil(t, resp)
			assert.ErrorIs(t, err, response.ErrDecode)
			var decodeErr *response.DecodeError
			require.ErrorAs(t, err, &decodeErr)
			assert.Equal(t, tc.kind, decodeErr.Kind)
		})
	}
}

func TestDecodeDynamicAllowsSurroundingWhitespace(t *testing.T) {
	resp, err := response.NewDecoder().DecodeDynamic([]byte("  \n{\"a\": 1}\n\t "))
	require.NoError(t, err)
	assert.Equal(t, 1, response.Get[int](resp, "a"))
}

func TestDecodeDynamicPropagatesValueDecoderError(t *testing.T) {
	boom := errors.New("boom")
	decoder := response.NewDecoder(response.WithValueDecoder(response.ValueDecoderFunc(func(iter *jsoniter.Iterator) (response.Value, error) {
		iter.Skip()
		return response.Value{}, boom
	})))

	_, err := decoder.DecodeDynamic([]byte(`{"status": 200, "payload": 1}`))
	require.Error(t, err)
	assert.Same(t, boom, err)
}

func TestDecodeDynamicDuplicateKeysOverwriteInPlace(t *testing.T) {
	resp, err := response.NewDecoder().DecodeDynamic([]byte(`{"a": 1, "b": 2, "a": 3}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, resp.Body.Keys())
	assert.Equal(t, 3, response.Get[int](resp, "a"))
}

func TestReadDynamic(t *testing.T) {
	resp, err := response.NewDecoder().ReadDynamic(strings.NewReader(`{"count": 7}`))
	require.NoError(t, err)
	assert.Equal(t, int64(7), response.Get[int64](resp, "count"))

	_, err = response.NewDecoder().ReadDynamic(nil)
	assert.ErrorIs(t, err, response.ErrDecode)
}

func TestDecodeLoggerAndActivityHooks(t *testing.T) {
	var events []response.DecodeEvent
	capture := &activity.CaptureHook{}
	decoder := response.NewDecoder(
		response.WithDecodeLogger(response.DecodeLoggerFunc(func(event response.DecodeEvent) {
			events = append(events, event)
		})),
		response.WithActivityHooks(activity.Hooks{capture}),
	)

	_, err := decoder.DecodeDynamic([]byte(`{"status": 201, "a": 1}`))
	require.NoError(t, err)
	_, err = decoder.DecodeDynamic([]byte(`[`))
	require.Error(t, err)

	require.Len(t, events, 2)
	assert.Equal(t, "dynamic", events[0].Variant)
	assert.Equal(t, 201, events[0].Status)
	assert.Equal(t, 1, events[0].Keys)
	assert.NoError(t, events[0].Err)
	assert.Error(t, events[1].Err)

	require.Len(t, capture.Events, 1)
	last, ok := capture.Last()
	require.True(t, ok)
	assert.Equal(t, activity.VerbDecodeFailed, last.Verb)
	assert.Equal(t, "response.envelope", last.ObjectType)
	assert.Equal(t, "dynamic", last.Metadata["variant"])
	assert.NotEmpty(t, last.ObjectID)
}
