package activity

import (
	"strings"
	"time"
)

// Verbs emitted by this module.
const (
	VerbSettingsConfigured = "settings.configured"
	VerbDecodeFailed       = "response.decode_failed"
	VerbLayerApplied       = "config.layer.applied"
)

// SettingsEventInput describes a Settings instance that finished building.
type SettingsEventInput struct {
	ActorID      string
	TenantID     string
	Channel      string
	SettingsID   string
	DefaultIndex string
	TypeMappings int
	Renames      int
	Inferrer     string
	OccurredAt   time.Time
}

// BuildSettingsConfiguredEvent reports a new Settings instance.
func BuildSettingsConfiguredEvent(input SettingsEventInput) Event {
	metadata := map[string]any{
		"type_mappings": input.TypeMappings,
		"renames":       input.Renames,
	}
	if input.DefaultIndex != "" {
		metadata["default_index"] = input.DefaultIndex
	}
	if input.Inferrer != "" {
		metadata["inferrer"] = input.Inferrer
	}
	return Event{
		Verb:       VerbSettingsConfigured,
		ActorID:    strings.TrimSpace(input.ActorID),
		TenantID:   strings.TrimSpace(input.TenantID),
		ObjectType: "infer.settings",
		ObjectID:   fallbackID(input.SettingsID, "infer.settings"),
		Channel:    strings.TrimSpace(input.Channel),
		Metadata:   metadata,
		OccurredAt: input.OccurredAt,
	}
}

// DecodeEventInput describes a failed response decode.
type DecodeEventInput struct {
	ObjectType string
	ObjectID   string
	Channel    string
	Variant    string
	Bytes      int
	Err        error
	OccurredAt time.Time
}

// BuildDecodeFailedEvent reports a response body that could not be decoded.
func BuildDecodeFailedEvent(input DecodeEventInput) Event {
	objectType := strings.TrimSpace(input.ObjectType)
	if objectType == "" {
		objectType = "response"
	}
	metadata := map[string]any{"bytes": input.Bytes}
	if input.Variant != "" {
		metadata["variant"] = input.Variant
	}
	if input.Err != nil {
		metadata["error"] = input.Err.Error()
	}
	return Event{
		Verb:       VerbDecodeFailed,
		ObjectType: objectType,
		ObjectID:   fallbackID(input.ObjectID, objectType),
		Channel:    strings.TrimSpace(input.Channel),
		Metadata:   metadata,
		OccurredAt: input.OccurredAt,
	}
}

// LayerEventInput describes a configuration layer applied during a merge.
type LayerEventInput struct {
	Channel    string
	Layer      string
	Priority   int
	Source     string
	Bindings   []string
	OccurredAt time.Time
}

// BuildLayerAppliedEvent reports a configuration layer that contributed to a
// merged file.
func BuildLayerAppliedEvent(input LayerEventInput) Event {
	metadata := map[string]any{"priority": input.Priority}
	if input.Source != "" {
		metadata["source"] = input.Source
	}
	if len(input.Bindings) > 0 {
		metadata["bindings"] = append([]string{}, input.Bindings...)
	}
	return Event{
		Verb:       VerbLayerApplied,
		ObjectType: "config.layer",
		ObjectID:   fallbackID(input.Layer, "config.layer"),
		Channel:    strings.TrimSpace(input.Channel),
		Metadata:   metadata,
		OccurredAt: input.OccurredAt,
	}
}

func fallbackID(id, fallback string) string {
	if trimmed := strings.TrimSpace(id); trimmed != "" {
		return trimmed
	}
	return fallback
}
