package infer

import (
	"reflect"
	"strings"
	"sync"
	"time"
)

type pathKey struct {
	root  reflect.Type
	chain string
}

type memberKey struct {
	owner reflect.Type
	name  string
}

// FieldResolver turns field chains into dotted paths for one Settings
// instance. Results are cached per (root type, chain) and per (owner,
// member); the first stored value for a key wins. Caches only grow: they are
// keyed by the finite set of types and chains a program uses.
type FieldResolver struct {
	settings *Settings
	paths    sync.Map
	members  sync.Map
}

// NewFieldResolver returns a resolver with empty caches bound to s.
func NewFieldResolver(s *Settings) *FieldResolver {
	return &FieldResolver{settings: s}
}

// Resolve returns the dotted path for f, without boost.
func (r *FieldResolver) Resolve(f Field) (string, error) {
	if r == nil || r.settings == nil {
		return "", ErrConfigurationUnavailable
	}
	if f.IsZero() {
		return "", wrapResolutionError("field", f.String(), ErrEmptyField)
	}
	if f.root == nil {
		return f.name, nil
	}

	start := time.Now()
	key := pathKey{root: f.root, chain: f.chainKey()}
	if cached, ok := r.paths.Load(key); ok {
		r.log(f, cached.(string), true, start, nil)
		return cached.(string), nil
	}
	path, err := r.compile(f)
	if err != nil {
		err = wrapResolutionError("field", f.String(), err)
		r.log(f, "", false, start, err)
		return "", err
	}
	actual, _ := r.paths.LoadOrStore(key, path)
	r.log(f, actual.(string), false, start, nil)
	return actual.(string), nil
}

// ResolveMember resolves a single member of owner through the naming
// precedence.
func (r *FieldResolver) ResolveMember(owner reflect.Type, name string) (string, error) {
	if r == nil || r.settings == nil {
		return "", ErrConfigurationUnavailable
	}
	resolved, _, err := r.member(owner, name)
	if err != nil {
		return "", wrapResolutionError("member", name, err)
	}
	return resolved, nil
}

// CachedPaths reports the number of cached chain resolutions.
func (r *FieldResolver) CachedPaths() int {
	return countEntries(&r.paths)
}

// CachedMembers reports the number of cached member names.
func (r *FieldResolver) CachedMembers() int {
	return countEntries(&r.members)
}

func (r *FieldResolver) compile(f Field) (string, error) {
	receiver := f.root
	segments := make([]string, 0, len(f.steps))
	for _, step := range f.steps {
		switch step.Kind {
		case StepMember:
			name, next, err := r.member(receiver, step.Value)
			if err != nil {
				return "", err
			}
			segments = append(segments, name)
			receiver = next
		case StepFirst:
		case StepKey:
			segments = append(segments, step.Value)
			receiver = elementType(receiver)
		case StepSuffix:
			segments = append(segments, step.Value)
		}
	}
	return strings.Join(segments, "."), nil
}

func (r *FieldResolver) member(receiver reflect.Type, name string) (string, reflect.Type, error) {
	m := lookupMember(receiver, name)
	key := memberKey{owner: m.Owner, name: name}
	if cached, ok := r.members.Load(key); ok {
		return cached.(string), m.Type(), nil
	}
	resolved, err := r.settings.memberName(m)
	if err != nil {
		return "", nil, err
	}
	actual, _ := r.members.LoadOrStore(key, resolved)
	return actual.(string), m.Type(), nil
}

func (r *FieldResolver) log(f Field, result string, hit bool, start time.Time, err error) {
	r.settings.cfg.logger.LogResolution(ResolutionEvent{
		Kind:     "field",
		Type:     typeName(f.root),
		Target:   f.String(),
		Result:   result,
		CacheHit: hit,
		Duration: time.Since(start),
		Err:      err,
	})
}

func countEntries(m *sync.Map) int {
	n := 0
	m.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
