package infer

import (
	"fmt"
	"strings"
	"time"
)

// Name is a plain identifier such as an alias, pipeline or template name.
type Name string

// Resolve returns the name unchanged.
func (n Name) Resolve(s *Settings) (string, error) {
	if strings.TrimSpace(string(n)) == "" {
		return "", wrapResolutionError("name", "", fmt.Errorf("name is empty"))
	}
	if s == nil {
		return "", ErrConfigurationUnavailable
	}
	return string(n), nil
}

// TimeUnit is the unit suffix accepted by the server for durations.
type TimeUnit string

const (
	Nanoseconds  TimeUnit = "nanos"
	Microseconds TimeUnit = "micros"
	Milliseconds TimeUnit = "ms"
	Seconds      TimeUnit = "s"
	Minutes      TimeUnit = "m"
	Hours        TimeUnit = "h"
	Days         TimeUnit = "d"
)

var timeUnitDurations = map[TimeUnit]time.Duration{
	Nanoseconds:  time.Nanosecond,
	Microseconds: time.Microsecond,
	Milliseconds: time.Millisecond,
	Seconds:      time.Second,
	Minutes:      time.Minute,
	Hours:        time.Hour,
	Days:         24 * time.Hour,
}

// ParseTimeUnit accepts the wire values.
func ParseTimeUnit(s string) (TimeUnit, error) {
	unit := TimeUnit(strings.TrimSpace(s))
	if _, ok := timeUnitDurations[unit]; !ok {
		return "", fmt.Errorf("infer: unknown time unit %q", s)
	}
	return unit, nil
}

// Duration returns the length of one unit, or zero for unknown units.
func (u TimeUnit) Duration() time.Duration {
	return timeUnitDurations[u]
}

// Resolve returns the wire value.
func (u TimeUnit) Resolve(*Settings) (string, error) {
	if _, ok := timeUnitDurations[u]; !ok {
		return "", wrapResolutionError("time unit", string(u), fmt.Errorf("unknown time unit"))
	}
	return string(u), nil
}
