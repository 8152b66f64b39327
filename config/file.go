// Package config loads resolver settings from YAML and layers several files
// into one effective configuration.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	infer "github.com/goliatone/go-infer"
	"gopkg.in/yaml.v3"
)

// Engines accepted by field_inferrer.engine.
const (
	EngineExpr = "expr"
	EngineCEL  = "cel"
	EngineJS   = "js"
)

// ErrEngineUnavailable is returned when a file selects an engine that this
// binary was built without.
var ErrEngineUnavailable = errors.New("config: inferrer engine unavailable")

// File is one configuration document. Scalars are pointers so a layer can
// leave a value unset and let a weaker layer supply it.
type File struct {
	DefaultIndex  *string                `yaml:"default_index,omitempty"`
	FieldInferrer *Inferrer              `yaml:"field_inferrer,omitempty"`
	Types         map[string]*TypeConfig `yaml:"types,omitempty"`
}

// Inferrer selects how member names without an explicit rename are turned
// into wire names. Name picks a built-in transform; Expression is evaluated
// by Engine. The two are exclusive.
type Inferrer struct {
	Name       string `yaml:"name,omitempty"`
	Engine     string `yaml:"engine,omitempty"`
	Expression string `yaml:"expression,omitempty"`
}

// TypeConfig holds the per-type index and member renames for one binding.
type TypeConfig struct {
	Index   *string           `yaml:"index,omitempty"`
	Renames map[string]string `yaml:"renames,omitempty"`
}

// Parse decodes a YAML document. Unknown keys are rejected. An empty
// document yields an empty File.
func Parse(data []byte) (*File, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	file := &File{}
	if err := dec.Decode(file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	if err := file.Validate(); err != nil {
		return nil, err
	}
	return file, nil
}

// Load reads and parses the file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	file, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w (%s)", err, path)
	}
	return file, nil
}

// Marshal renders f as YAML.
func (f *File) Marshal() ([]byte, error) {
	if f == nil {
		f = &File{}
	}
	return yaml.Marshal(f)
}

// Validate checks the inferrer block and the type bindings.
func (f *File) Validate() error {
	if f == nil {
		return nil
	}
	if f.DefaultIndex != nil && strings.TrimSpace(*f.DefaultIndex) == "" {
		return fmt.Errorf("config: default_index must not be blank")
	}
	if err := f.FieldInferrer.validate(); err != nil {
		return err
	}
	for _, binding := range f.Bindings() {
		tc := f.Types[binding]
		if strings.TrimSpace(binding) == "" {
			return fmt.Errorf("config: type binding name must not be blank")
		}
		if tc == nil {
			continue
		}
		if tc.Index != nil && strings.TrimSpace(*tc.Index) == "" {
			return fmt.Errorf("config: types.%s.index must not be blank", binding)
		}
		for member, name := range tc.Renames {
			if strings.TrimSpace(member) == "" || strings.TrimSpace(name) == "" {
				return fmt.Errorf("config: types.%s.renames has a blank entry", binding)
			}
		}
	}
	return nil
}

func (i *Inferrer) validate() error {
	if i == nil {
		return nil
	}
	name := strings.TrimSpace(i.Name)
	expr := strings.TrimSpace(i.Expression)
	switch {
	case name != "" && expr != "":
		return fmt.Errorf("config: field_inferrer sets both name and expression")
	case name == "" && expr == "":
		return fmt.Errorf("config: field_inferrer needs a name or an expression")
	case name != "" && !infer.IsNamedInferrer(name):
		return fmt.Errorf("config: unknown field_inferrer name %q", i.Name)
	case name != "" && i.Engine != "":
		return fmt.Errorf("config: field_inferrer.engine only applies to expressions")
	}
	switch strings.ToLower(strings.TrimSpace(i.Engine)) {
	case "", EngineExpr, EngineCEL, EngineJS:
		return nil
	default:
		return fmt.Errorf("config: unknown field_inferrer engine %q", i.Engine)
	}
}

// Bindings lists the type binding names in sorted order.
func (f *File) Bindings() []string {
	if f == nil || len(f.Types) == 0 {
		return nil
	}
	out := make([]string, 0, len(f.Types))
	for name := range f.Types {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Options translates f into Settings options. Every type named in the file
// must have a matching binding so typos surface instead of being ignored.
func (f *File) Options(bindings ...Binding) ([]infer.Option, error) {
	if f == nil {
		return nil, nil
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	var opts []infer.Option
	if f.DefaultIndex != nil {
		opts = append(opts, infer.WithDefaultIndex(strings.TrimSpace(*f.DefaultIndex)))
	}
	if f.FieldInferrer != nil {
		inferrerOpts, err := f.FieldInferrer.options()
		if err != nil {
			return nil, err
		}
		opts = append(opts, inferrerOpts...)
	}

	byName := make(map[string]Binding, len(bindings))
	for _, b := range bindings {
		if b.Type == nil || b.Name == "" {
			return nil, fmt.Errorf("config: binding %q has no type", b.Name)
		}
		byName[b.Name] = b
	}
	var mappings []*infer.TypeMapping
	for _, name := range f.Bindings() {
		b, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("config: type %q has no binding", name)
		}
		mappings = append(mappings, f.Types[name].mapping(b))
	}
	if len(mappings) > 0 {
		opts = append(opts, infer.WithTypeMapping(mappings...))
	}
	return opts, nil
}

// Settings builds Settings from f, appending extra options after the ones
// taken from the file.
func (f *File) Settings(bindings []Binding, extra ...infer.Option) (*infer.Settings, error) {
	opts, err := f.Options(bindings...)
	if err != nil {
		return nil, err
	}
	return infer.NewSettings(append(opts, extra...)...)
}

func (tc *TypeConfig) mapping(b Binding) *infer.TypeMapping {
	mapping := infer.MapTypeOf(b.Type)
	if tc == nil {
		return mapping
	}
	if tc.Index != nil {
		mapping.Index(strings.TrimSpace(*tc.Index))
	}
	members := make([]string, 0, len(tc.Renames))
	for member := range tc.Renames {
		members = append(members, member)
	}
	sort.Strings(members)
	for _, member := range members {
		mapping.Rename(member, tc.Renames[member])
	}
	return mapping
}

func (i *Inferrer) options() ([]infer.Option, error) {
	if name := strings.TrimSpace(i.Name); name != "" {
		return []infer.Option{infer.WithNamedFieldNameInferrer(name)}, nil
	}
	evaluator, err := i.evaluator()
	if err != nil {
		return nil, err
	}
	return []infer.Option{
		infer.WithInferrerEvaluator(evaluator),
		infer.WithFieldNameExpression(i.Expression),
	}, nil
}

func (i *Inferrer) evaluator() (infer.Evaluator, error) {
	cache := infer.NewMemoryProgramCache()
	registry := infer.BuiltinFunctions()
	engine := strings.ToLower(strings.TrimSpace(i.Engine))
	switch engine {
	case "", EngineExpr:
		return infer.NewExprEvaluator(infer.ExprWithProgramCache(cache), infer.ExprWithFunctionRegistry(registry)), nil
	case EngineCEL:
		return infer.NewCELEvaluator(infer.CELWithProgramCache(cache), infer.CELWithFunctionRegistry(registry)), nil
	case EngineJS:
		evaluator := infer.NewJSEvaluator(infer.JSWithProgramCache(cache), infer.JSWithFunctionRegistry(registry))
		if evaluator == nil {
			return nil, fmt.Errorf("%w: %s (build with -tags js_eval)", ErrEngineUnavailable, engine)
		}
		return evaluator, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrEngineUnavailable, engine)
}
