package infer

import "time"

// ResolutionEvent describes a single resolution attempt for logging.
type ResolutionEvent struct {
	Kind     string
	Type     string
	Target   string
	Result   string
	CacheHit bool
	Duration time.Duration
	Err      error
}

// Logger records resolution events.
type Logger interface {
	LogResolution(ResolutionEvent)
}

// LoggerFunc adapts a function to Logger.
type LoggerFunc func(ResolutionEvent)

// LogResolution implements Logger.
func (f LoggerFunc) LogResolution(event ResolutionEvent) {
	if f != nil {
		f(event)
	}
}

type noopLogger struct{}

func (noopLogger) LogResolution(ResolutionEvent) {}

// WithLogger attaches a resolution logger to the settings.
func WithLogger(logger Logger) Option {
	return func(cfg *settingsConfig) {
		if logger == nil {
			cfg.logger = noopLogger{}
			return
		}
		cfg.logger = logger
	}
}
