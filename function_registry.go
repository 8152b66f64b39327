package infer

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
)

// Function represents a callable exposed to inferrer expressions.
type Function func(args ...any) (any, error)

// FunctionRegistry stores custom functions keyed by name.
type FunctionRegistry struct {
	mu        sync.RWMutex
	functions map[string]Function
	id        atomic.Uint64
}

var registrySequence atomic.Uint64

// cacheScope identifies r in program cache keys. Programs bind the functions
// of the registry they were compiled against, so two registries never share
// an entry. Clones get their own scope.
func (r *FunctionRegistry) cacheScope() string {
	if r == nil {
		return "-"
	}
	if r.id.Load() == 0 {
		r.id.CompareAndSwap(0, registrySequence.Add(1))
	}
	return strconv.FormatUint(r.id.Load(), 10)
}

// NewFunctionRegistry constructs an empty registry.
func NewFunctionRegistry() *FunctionRegistry {
	return &FunctionRegistry{
		functions: make(map[string]Function),
	}
}

// Register stores fn under name guarding against duplicates.
func (r *FunctionRegistry) Register(name string, fn Function) error {
	if fn == nil {
		return fmt.Errorf("infer: function %q is nil", name)
	}
	if name == "" {
		return fmt.Errorf("infer: function name must not be empty")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.functions == nil {
		r.functions = make(map[string]Function)
	}
	key := strings.ToLower(name)
	if _, exists := r.functions[key]; exists {
		return fmt.Errorf("infer: function %q already registered", name)
	}
	r.functions[key] = fn
	return nil
}

// Has reports whether name is registered.
func (r *FunctionRegistry) Has(name string) bool {
	if r == nil {
		return false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.functions[strings.ToLower(name)]
	return ok
}

// Clone returns a shallow copy of the registry.
func (r *FunctionRegistry) Clone() *FunctionRegistry {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	clone := &FunctionRegistry{
		functions: make(map[string]Function, len(r.functions)),
	}
	for name, fn := range r.functions {
		clone.functions[name] = fn
	}
	return clone
}

// Call executes the function registered for name.
func (r *FunctionRegistry) Call(name string, args ...any) (any, error) {
	if r == nil {
		return nil, fmt.Errorf("infer: function registry is nil")
	}
	r.mu.RLock()
	fn := r.functions[strings.ToLower(name)]
	r.mu.RUnlock()
	if fn == nil {
		return nil, fmt.Errorf("infer: function %q not registered", name)
	}
	return fn(args...)
}

// Names returns registered function names sorted alphabetically.
func (r *FunctionRegistry) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.functions))
	for name := range r.functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// WithFunctionRegistry exposes the functions in registry to inferrer
// expressions.
func WithFunctionRegistry(registry *FunctionRegistry) Option {
	return func(cfg *settingsConfig) {
		if registry == nil {
			return
		}
		cfg.functions = registry.Clone()
	}
}

// WithCustomFunction registers fn under name for inferrer expressions.
func WithCustomFunction(name string, fn Function) Option {
	return func(cfg *settingsConfig) {
		if cfg.functions == nil {
			cfg.functions = NewFunctionRegistry()
		}
		_ = cfg.functions.Register(name, fn)
	}
}

// BuiltinFunctions returns a registry holding only the camel, snake and
// verbatim transforms. Pass it to an evaluator built outside Settings.
func BuiltinFunctions() *FunctionRegistry {
	registry := NewFunctionRegistry()
	registerBuiltinFunctions(registry)
	return registry
}

// registerBuiltinFunctions adds the string transforms every expression can
// call. Functions already registered under the same name are kept.
func registerBuiltinFunctions(registry *FunctionRegistry) {
	builtins := map[string]func(string) string{
		"camel":    CamelCase,
		"snake":    SnakeCase,
		"verbatim": Verbatim,
	}
	for name, transform := range builtins {
		if registry.Has(name) {
			continue
		}
		_ = registry.Register(name, stringFunction(name, transform))
	}
}

func stringFunction(name string, transform func(string) string) Function {
	return func(args ...any) (any, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("infer: %s expects 1 argument, got %d", name, len(args))
		}
		value, ok := args[0].(string)
		if !ok {
			return nil, fmt.Errorf("infer: %s expects a string argument, got %T", name, args[0])
		}
		return transform(value), nil
	}
}
