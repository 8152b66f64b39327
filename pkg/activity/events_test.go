package activity

import (
	"errors"
	"testing"
)

func TestBuildSettingsConfiguredEvent(t *testing.T) {
	event := BuildSettingsConfiguredEvent(SettingsEventInput{
		SettingsID:   " 1234 ",
		DefaultIndex: "logs",
		TypeMappings: 2,
		Renames:      3,
		Inferrer:     "camel",
	})
	if event.Verb != VerbSettingsConfigured || event.ObjectType != "infer.settings" || event.ObjectID != "1234" {
		t.Fatalf("unexpected event: %+v", event)
	}
	if event.Metadata["default_index"] != "logs" || event.Metadata["renames"] != 3 || event.Metadata["inferrer"] != "camel" {
		t.Fatalf("unexpected metadata: %+v", event.Metadata)
	}
	if !event.Valid() {
		t.Fatalf("expected event to be valid")
	}
}

func TestBuildDecodeFailedEventFallbacks(t *testing.T) {
	event := BuildDecodeFailedEvent(DecodeEventInput{Bytes: 12, Err: errors.New("bad token")})
	if event.ObjectType != "response" || event.ObjectID != "response" {
		t.Fatalf("expected fallback object fields, got %+v", event)
	}
	if event.Metadata["error"] != "bad token" || event.Metadata["bytes"] != 12 {
		t.Fatalf("unexpected metadata: %+v", event.Metadata)
	}
	if _, ok := event.Metadata["variant"]; ok {
		t.Fatalf("expected empty variant omitted")
	}
}

func TestBuildLayerAppliedEvent(t *testing.T) {
	bindings := []string{"project"}
	event := BuildLayerAppliedEvent(LayerEventInput{Layer: "tenant", Priority: 20, Source: "tenant.yaml", Bindings: bindings})
	if event.Verb != VerbLayerApplied || event.ObjectID != "tenant" {
		t.Fatalf("unexpected event: %+v", event)
	}
	bindings[0] = "changed"
	if got := event.Metadata["bindings"].([]string); got[0] != "project" {
		t.Fatalf("expected bindings copied, got %v", got)
	}
}
