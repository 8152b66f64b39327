package usersink_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-infer/pkg/activity"
	"github.com/goliatone/go-infer/pkg/activity/usersink"
	usertypes "github.com/goliatone/go-users/pkg/types"
	"github.com/google/uuid"
)

type recordingSink struct {
	records []usertypes.ActivityRecord
	err     error
}

func (s *recordingSink) Log(_ context.Context, record usertypes.ActivityRecord) error {
	s.records = append(s.records, record)
	return s.err
}

func TestHookNotifyMapsSettingsEvent(t *testing.T) {
	sink := &recordingSink{}
	hook := usersink.Hook{Sink: sink}

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	actorID := uuid.New()
	tenantID := uuid.New()
	settingsID := uuid.New().String()

	event := activity.BuildSettingsConfiguredEvent(activity.SettingsEventInput{
		ActorID:      actorID.String(),
		TenantID:     tenantID.String(),
		Channel:      "search",
		SettingsID:   settingsID,
		DefaultIndex: "logs",
		TypeMappings: 1,
		Inferrer:     "camel",
		OccurredAt:   now,
	})
	event.DefinitionCode = "settings:configured"
	event.Recipients = []string{"ops@example.com"}

	if err := hook.Notify(context.Background(), event); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if len(sink.records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(sink.records))
	}
	record := sink.records[0]
	if record.ActorID != actorID || record.TenantID != tenantID {
		t.Fatalf("unexpected ids: %+v", record)
	}
	if record.UserID != uuid.Nil {
		t.Fatalf("expected nil user id, got %s", record.UserID)
	}
	if record.Verb != activity.VerbSettingsConfigured || record.ObjectType != "infer.settings" || record.ObjectID != settingsID {
		t.Fatalf("unexpected record payload: %+v", record)
	}
	if record.Channel != "search" || !record.OccurredAt.Equal(now) {
		t.Fatalf("unexpected channel or time: %+v", record)
	}
	if record.Data["default_index"] != "logs" || record.Data["inferrer"] != "camel" {
		t.Fatalf("expected metadata copied, got %+v", record.Data)
	}
	if record.Data["definition_code"] != "settings:configured" {
		t.Fatalf("expected definition code, got %+v", record.Data)
	}
	if recipients, ok := record.Data["recipients"].([]string); !ok || len(recipients) != 1 {
		t.Fatalf("expected recipients, got %+v", record.Data["recipients"])
	}
}

func TestHookNotifyFiltersVerbs(t *testing.T) {
	sink := &recordingSink{}
	hook := usersink.Hook{Sink: sink, Verbs: []string{activity.VerbDecodeFailed}}

	settings := activity.BuildSettingsConfiguredEvent(activity.SettingsEventInput{SettingsID: "a"})
	decode := activity.BuildDecodeFailedEvent(activity.DecodeEventInput{ObjectID: "b", Err: errors.New("bad")})

	for _, event := range []activity.Event{settings, decode} {
		if err := hook.Notify(context.Background(), event); err != nil {
			t.Fatalf("notify: %v", err)
		}
	}
	if len(sink.records) != 1 || sink.records[0].Verb != activity.VerbDecodeFailed {
		t.Fatalf("expected only decode record, got %+v", sink.records)
	}
	if sink.records[0].Data["error"] != "bad" {
		t.Fatalf("expected error metadata, got %+v", sink.records[0].Data)
	}
}

func TestHookNotifySkipsInvalidEventsAndNilSink(t *testing.T) {
	sink := &recordingSink{}
	hook := usersink.Hook{Sink: sink}
	if err := hook.Notify(context.Background(), activity.Event{Verb: "settings.configured"}); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if len(sink.records) != 0 {
		t.Fatalf("expected invalid event skipped")
	}
	if err := (usersink.Hook{}).Notify(context.Background(), activity.Event{Verb: "x", ObjectType: "y", ObjectID: "z"}); err != nil {
		t.Fatalf("expected nil sink to be a no-op, got %v", err)
	}
}

func TestHookNotifyReturnsSinkError(t *testing.T) {
	boom := errors.New("sink down")
	hook := usersink.Hook{Sink: &recordingSink{err: boom}}
	err := hook.Notify(context.Background(), activity.BuildLayerAppliedEvent(activity.LayerEventInput{Layer: "tenant"}))
	if !errors.Is(err, boom) {
		t.Fatalf("expected sink error, got %v", err)
	}
}
