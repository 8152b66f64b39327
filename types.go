package infer

import (
	"reflect"

	"github.com/goliatone/go-infer/pkg/activity"
)

// Resolvable is implemented by identifiers that render to a canonical wire
// string under a Settings instance.
type Resolvable interface {
	Resolve(settings *Settings) (string, error)
}

// InferContext carries the inputs available to a field name inferrer
// expression: the raw member name as `name`, the owning type name as `owner`
// and free form `metadata`.
type InferContext struct {
	Name     string
	Owner    string
	Metadata map[string]any
}

func (ctx InferContext) withDefaultMaps() InferContext {
	if ctx.Metadata == nil {
		ctx.Metadata = map[string]any{}
	}
	return ctx
}

func (ctx InferContext) binding() map[string]any {
	return map[string]any{
		"name":     ctx.Name,
		"owner":    ctx.Owner,
		"metadata": ctx.Metadata,
	}
}

// Evaluator executes field name inferrer expressions.
type Evaluator interface {
	Evaluate(ctx InferContext, expr string) (any, error)
	Compile(expr string) (CompiledRule, error)
}

// CompiledRule represents a reusable inferrer program.
type CompiledRule interface {
	Evaluate(ctx InferContext) (any, error)
}

// Option configures a Settings instance.
type Option func(*settingsConfig)

type settingsConfig struct {
	defaultIndex  string
	inferrer      func(string) string
	inferrerName  string
	expression    string
	evaluator     Evaluator
	programCache  ProgramCache
	functions     *FunctionRegistry
	mappings      map[reflect.Type]*TypeMapping
	metadata      MetadataLookup
	serializer    SerializerOpinion
	logger        Logger
	activityHooks activity.Hooks
}

func applyOptions(opts []Option) settingsConfig {
	cfg := settingsConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

func (cfg settingsConfig) withDefaults() settingsConfig {
	if cfg.inferrer == nil {
		cfg.inferrer = CamelCase
		cfg.inferrerName = "camel"
	}
	if cfg.functions == nil {
		cfg.functions = NewFunctionRegistry()
	}
	registerBuiltinFunctions(cfg.functions)
	if cfg.programCache == nil {
		cfg.programCache = NewMemoryProgramCache()
	}
	if cfg.metadata == nil {
		cfg.metadata = StructTagMetadata{}
	}
	if cfg.serializer == nil {
		cfg.serializer = JSONTagSerializer{}
	}
	if cfg.logger == nil {
		cfg.logger = noopLogger{}
	}
	if cfg.mappings == nil {
		cfg.mappings = map[reflect.Type]*TypeMapping{}
	}
	return cfg
}
