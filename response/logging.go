package response

import "time"

// DecodeEvent describes one decode call.
type DecodeEvent struct {
	Variant  string
	Bytes    int
	Keys     int
	Status   int
	HasError bool
	Duration time.Duration
	Err      error
}

// DecodeLogger records decode events.
type DecodeLogger interface {
	LogDecode(DecodeEvent)
}

// DecodeLoggerFunc adapts a function to DecodeLogger.
type DecodeLoggerFunc func(DecodeEvent)

// LogDecode implements DecodeLogger.
func (f DecodeLoggerFunc) LogDecode(event DecodeEvent) {
	if f != nil {
		f(event)
	}
}

type noopDecodeLogger struct{}

func (noopDecodeLogger) LogDecode(DecodeEvent) {}
