package infer

import "sync"

// ProgramCache stores compiled inferrer programs keyed by expression strings.
type ProgramCache interface {
	Get(key string) (any, bool)
	Set(key string, value any)
}

// WithProgramCache registers a program cache used when compiling inferrer
// expressions.
func WithProgramCache(cache ProgramCache) Option {
	return func(cfg *settingsConfig) {
		cfg.programCache = cache
	}
}

// MemoryProgramCache is a concurrency-safe ProgramCache. Entries are never
// evicted.
type MemoryProgramCache struct {
	programs sync.Map
}

// NewMemoryProgramCache constructs an empty MemoryProgramCache.
func NewMemoryProgramCache() *MemoryProgramCache {
	return &MemoryProgramCache{}
}

// Get returns the program stored for key.
func (c *MemoryProgramCache) Get(key string) (any, bool) {
	if c == nil {
		return nil, false
	}
	return c.programs.Load(key)
}

// Set stores value for key unless another program was stored first.
func (c *MemoryProgramCache) Set(key string, value any) {
	if c == nil {
		return
	}
	c.programs.LoadOrStore(key, value)
}

func programCacheKey(engine string, registry *FunctionRegistry, expression string) string {
	return engine + ":" + registry.cacheScope() + ":" + expression
}
