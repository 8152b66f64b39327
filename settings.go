package infer

import (
	"reflect"
	"strings"

	"github.com/google/uuid"
)

// Settings is one configuration instance: default index, type mappings,
// naming collaborators and the inferrer. It is immutable once built and owns
// the resolution caches for everything resolved through it. Two Settings
// never share cached results, even when built from identical options.
type Settings struct {
	id       uuid.UUID
	cfg      settingsConfig
	rule     CompiledRule
	resolver *FieldResolver
}

// NewSettings builds a Settings instance. It fails only when a field name
// expression is configured and does not compile.
func NewSettings(opts ...Option) (*Settings, error) {
	cfg := applyOptions(opts).withDefaults()
	rule, err := compileInferrerRule(&cfg)
	if err != nil {
		return nil, err
	}
	s := &Settings{
		id:   uuid.New(),
		cfg:  cfg,
		rule: rule,
	}
	s.resolver = NewFieldResolver(s)
	s.announce()
	return s, nil
}

// DefaultSettings returns Settings with the default collaborators: struct tag
// renames, json tag opinions and camelCase inference.
func DefaultSettings() *Settings {
	s, err := NewSettings()
	if err != nil {
		panic(err)
	}
	return s
}

// WithDefaultIndex sets the index used for types without a mapped index.
func WithDefaultIndex(name string) Option {
	return func(cfg *settingsConfig) {
		cfg.defaultIndex = strings.TrimSpace(name)
	}
}

// ID identifies the instance in logs and activity events.
func (s *Settings) ID() uuid.UUID {
	if s == nil {
		return uuid.Nil
	}
	return s.id
}

// DefaultIndex returns the configured default index, possibly empty.
func (s *Settings) DefaultIndex() string {
	if s == nil {
		return ""
	}
	return s.cfg.defaultIndex
}

// Resolver returns the field resolver owned by s.
func (s *Settings) Resolver() *FieldResolver {
	if s == nil {
		return nil
	}
	return s.resolver
}

// Renamed returns the hard rename registered for member on owner.
func (s *Settings) Renamed(owner reflect.Type, member string) (string, bool) {
	if s == nil {
		return "", false
	}
	mapping, ok := s.cfg.mappings[derefType(owner)]
	if !ok {
		return "", false
	}
	name, ok := mapping.renames[member]
	if !ok || name == "" {
		return "", false
	}
	return name, true
}

// IndexFor returns the index mapped for t, falling back to the default
// index.
func (s *Settings) IndexFor(t reflect.Type) (string, bool) {
	if s == nil {
		return "", false
	}
	if mapping, ok := s.cfg.mappings[derefType(t)]; ok && mapping.index != "" {
		return mapping.index, true
	}
	if s.cfg.defaultIndex != "" {
		return s.cfg.defaultIndex, true
	}
	return "", false
}

// TypeMappings returns copies of the registered type mappings.
func (s *Settings) TypeMappings() []*TypeMapping {
	if s == nil {
		return nil
	}
	out := make([]*TypeMapping, 0, len(s.cfg.mappings))
	for _, mapping := range s.cfg.mappings {
		out = append(out, mapping.clone())
	}
	return out
}

// InferFieldName applies the default inferrer to a raw member name.
func (s *Settings) InferFieldName(name string) (string, error) {
	if s == nil {
		return "", ErrConfigurationUnavailable
	}
	return s.inferName(name, "")
}

// Field resolves f to its dotted path without boost.
func (s *Settings) Field(f Field) (string, error) {
	if s == nil {
		return "", ErrConfigurationUnavailable
	}
	return s.resolver.Resolve(f)
}

// Resolve renders any resolvable identifier.
func (s *Settings) Resolve(r Resolvable) (string, error) {
	if s == nil {
		return "", ErrConfigurationUnavailable
	}
	if r == nil {
		return "", wrapResolutionError("identifier", "", ErrEmptyField)
	}
	return r.Resolve(s)
}

// memberName applies the naming precedence to a single member: hard rename,
// declared rename, serializer opinion, then the inferrer.
func (s *Settings) memberName(m Member) (string, error) {
	if name, ok := s.Renamed(m.Owner, m.Name); ok {
		return name, nil
	}
	if m.Declaring != nil && m.Declaring != m.Owner {
		if name, ok := s.Renamed(m.Declaring, m.Name); ok {
			return name, nil
		}
	}
	if name, ok := s.cfg.metadata.DeclaredRename(m); ok && name != "" {
		return name, nil
	}
	if name, ok := s.cfg.serializer.VerbatimName(m); ok && name != "" {
		return name, nil
	}
	return s.inferName(m.Name, typeName(m.Owner))
}

func (s *Settings) inferName(name, owner string) (string, error) {
	if s.rule != nil {
		return s.evaluateInferrer(name, owner)
	}
	return s.cfg.inferrer(name), nil
}
