package infer

import (
	"context"
	"fmt"

	"github.com/goliatone/go-infer/pkg/activity"
)

// WithActivityHooks attaches activity hooks to the Settings configuration.
// Hooks are cloned and nil entries dropped.
func WithActivityHooks(hooks activity.Hooks) Option {
	normalized := hooks.Clone()
	return func(cfg *settingsConfig) {
		cfg.activityHooks = normalized
	}
}

// ActivityHooks returns a cloned slice of the activity hooks configured on the
// settings. The returned slice can be safely mutated by the caller.
func (s *Settings) ActivityHooks() activity.Hooks {
	if s == nil {
		return nil
	}
	return s.cfg.activityHooks.Clone()
}

func (s *Settings) announce() {
	if !s.cfg.activityHooks.Enabled() {
		return
	}
	renames := 0
	for _, mapping := range s.cfg.mappings {
		renames += len(mapping.renames)
	}
	_ = s.cfg.activityHooks.Notify(context.Background(), activity.BuildSettingsConfiguredEvent(activity.SettingsEventInput{
		SettingsID:   s.id.String(),
		DefaultIndex: s.cfg.defaultIndex,
		TypeMappings: len(s.cfg.mappings),
		Renames:      renames,
		Inferrer:     s.inferrerLabel(),
	}))
}

func (s *Settings) inferrerLabel() string {
	if s.cfg.expression != "" {
		return fmt.Sprintf("%s:%s", evaluatorEngineName(s.cfg.evaluator), s.cfg.expression)
	}
	if s.cfg.inferrerName != "" {
		return s.cfg.inferrerName
	}
	return "custom"
}
