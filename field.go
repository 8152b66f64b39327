package infer

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// StepKind tags a step in a field chain.
type StepKind uint8

const (
	// StepMember names a struct member; it contributes the member's resolved
	// name.
	StepMember StepKind = iota + 1
	// StepFirst is a transparent element access into a collection. It adds
	// no segment and keeps the receiver.
	StepFirst
	// StepKey indexes a mapping with literal data; the key is written as is.
	StepKey
	// StepSuffix appends a verbatim segment such as "keyword".
	StepSuffix
)

func (k StepKind) String() string {
	switch k {
	case StepMember:
		return "member"
	case StepFirst:
		return "first"
	case StepKey:
		return "key"
	case StepSuffix:
		return "suffix"
	default:
		return "unknown"
	}
}

// Step is one element of a field chain.
type Step struct {
	Kind  StepKind
	Value string
}

// Field identifies a document field. It is either a raw name, used verbatim,
// or a root type plus a chain of steps resolved through Settings. Boost is
// decoration: it does not take part in equality or caching.
type Field struct {
	name     string
	root     reflect.Type
	steps    []Step
	boost    float64
	hasBoost bool
}

// FieldName builds a verbatim field. A trailing "^<number>" is parsed as the
// boost, so "title^2" names "title" with boost 2.
func FieldName(name string) Field {
	f := Field{name: name}
	if idx := strings.LastIndexByte(name, '^'); idx > 0 && idx < len(name)-1 {
		if boost, err := strconv.ParseFloat(name[idx+1:], 64); err == nil {
			f.name = name[:idx]
			f.boost = boost
			f.hasBoost = true
		}
	}
	return f
}

// FieldOf starts a chain rooted at T.
func FieldOf[T any]() Field {
	return FieldOfType(reflect.TypeOf((*T)(nil)).Elem())
}

// FieldOfType starts a chain rooted at t.
func FieldOfType(t reflect.Type) Field {
	return Field{root: derefType(t)}
}

func (f Field) with(step Step) Field {
	steps := make([]Step, len(f.steps), len(f.steps)+1)
	copy(steps, f.steps)
	f.steps = append(steps, step)
	return f
}

// Member appends a member access.
func (f Field) Member(name string) Field {
	return f.with(Step{Kind: StepMember, Value: name})
}

// Path appends one member access per dot separated segment.
func (f Field) Path(dotted string) Field {
	for _, segment := range strings.Split(dotted, ".") {
		if segment == "" {
			continue
		}
		f = f.Member(segment)
	}
	return f
}

// First appends a transparent collection access.
func (f Field) First() Field {
	return f.with(Step{Kind: StepFirst})
}

// Key appends a mapping index. The key's current value is captured.
func (f Field) Key(key any) Field {
	return f.with(Step{Kind: StepKey, Value: keyString(key)})
}

// Suffix appends a verbatim segment.
func (f Field) Suffix(suffix string) Field {
	return f.AppendSuffix(suffix)
}

// AppendSuffix returns a copy of f with suffix as an additional segment. On
// a verbatim field the suffix is joined to the name with a dot.
func (f Field) AppendSuffix(suffix string) Field {
	if suffix == "" {
		return f
	}
	if f.root == nil {
		if f.name == "" {
			return f
		}
		f.name = f.name + "." + suffix
		return f
	}
	return f.with(Step{Kind: StepSuffix, Value: suffix})
}

// WithBoost returns a copy of f carrying boost.
func (f Field) WithBoost(boost float64) Field {
	f.boost = boost
	f.hasBoost = true
	return f
}

// Boost returns the boost and whether one is set.
func (f Field) Boost() (float64, bool) {
	return f.boost, f.hasBoost
}

// Name returns the verbatim name; empty for chain fields.
func (f Field) Name() string {
	return f.name
}

// Root returns the chain's root type; nil for verbatim fields.
func (f Field) Root() reflect.Type {
	return f.root
}

// Steps returns a copy of the chain.
func (f Field) Steps() []Step {
	out := make([]Step, len(f.steps))
	copy(out, f.steps)
	return out
}

// IsZero reports whether f names nothing.
func (f Field) IsZero() bool {
	if f.root == nil {
		return f.name == ""
	}
	return len(f.steps) == 0
}

// Equal compares names or chains, ignoring boost.
func (f Field) Equal(other Field) bool {
	if f.root == nil || other.root == nil {
		return f.root == nil && other.root == nil && f.name == other.name
	}
	return f.root == other.root && f.chainKey() == other.chainKey()
}

// Resolve renders the dotted path. Implements Resolvable.
func (f Field) Resolve(s *Settings) (string, error) {
	if s == nil {
		return "", ErrConfigurationUnavailable
	}
	return s.resolver.Resolve(f)
}

// Render resolves the path and appends "^boost" when a boost is set.
func (f Field) Render(s *Settings) (string, error) {
	path, err := f.Resolve(s)
	if err != nil {
		return "", err
	}
	if !f.hasBoost {
		return path, nil
	}
	return path + "^" + strconv.FormatFloat(f.boost, 'f', -1, 64), nil
}

func (f Field) String() string {
	if f.root == nil {
		return f.name
	}
	var b strings.Builder
	b.WriteString(f.root.String())
	for _, step := range f.steps {
		switch step.Kind {
		case StepFirst:
			b.WriteString("[0]")
		case StepKey:
			fmt.Fprintf(&b, "[%q]", step.Value)
		default:
			b.WriteByte('.')
			b.WriteString(step.Value)
		}
	}
	return b.String()
}

// chainKey encodes the steps so that structurally equal chains produce the
// same key regardless of how they were built.
func (f Field) chainKey() string {
	var b strings.Builder
	for _, step := range f.steps {
		b.WriteByte(byte(step.Kind))
		b.WriteString(strconv.Itoa(len(step.Value)))
		b.WriteByte(':')
		b.WriteString(step.Value)
	}
	return b.String()
}

func keyString(key any) string {
	switch typed := key.(type) {
	case string:
		return typed
	case fmt.Stringer:
		return typed.String()
	default:
		return fmt.Sprint(key)
	}
}
