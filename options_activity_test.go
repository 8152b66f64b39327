package infer

import (
	"context"
	"testing"

	"github.com/goliatone/go-infer/pkg/activity"
)

func TestWithActivityHooksClonesAndFiltersNil(t *testing.T) {
	hook := activity.HookFunc(func(context.Context, activity.Event) error { return nil })

	s := mustSettings(t, WithActivityHooks(activity.Hooks{nil, hook}))
	hooks := s.ActivityHooks()
	if len(hooks) != 1 {
		t.Fatalf("expected 1 hook, got %d", len(hooks))
	}

	hooks[0] = nil
	again := s.ActivityHooks()
	if len(again) != 1 || again[0] == nil {
		t.Fatalf("expected cloned hooks unaffected by mutation, got %+v", again)
	}
}

func TestActivityHooksDefaultNil(t *testing.T) {
	if hooks := DefaultSettings().ActivityHooks(); hooks != nil {
		t.Fatalf("expected nil hooks by default, got %+v", hooks)
	}
}

func TestSettingsAnnounceConfiguration(t *testing.T) {
	capture := &activity.CaptureHook{}
	s := mustSettings(t,
		WithActivityHooks(activity.Hooks{capture}),
		WithDefaultIndex("default"),
		WithTypeMapping(
			MapType[project]().Index("projects").Rename("Name", "title"),
			MapType[developer]().Rename("FirstName", "given").Rename("LastName", "family"),
		),
	)

	if len(capture.Events) != 1 {
		t.Fatalf("expected one configured event, got %d", len(capture.Events))
	}
	event := capture.Events[0]
	if event.Verb != activity.VerbSettingsConfigured || event.ObjectType != "infer.settings" {
		t.Fatalf("unexpected event: %+v", event)
	}
	if event.ObjectID != s.ID().String() {
		t.Fatalf("expected settings id %s, got %s", s.ID(), event.ObjectID)
	}
	if event.Metadata["default_index"] != "default" || event.Metadata["type_mappings"] != 2 || event.Metadata["renames"] != 3 {
		t.Fatalf("unexpected metadata: %+v", event.Metadata)
	}
	if event.Metadata["inferrer"] != "camel" {
		t.Fatalf("expected camel inferrer label, got %v", event.Metadata["inferrer"])
	}
}
