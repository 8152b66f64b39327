package config

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/goliatone/go-infer/pkg/activity"
)

// Recommended priorities for common layering patterns. Higher numbers win.
const (
	PriorityDefaults    = 100
	PriorityEnvironment = 200
	PriorityService     = 300
	PriorityOverride    = 400
)

var (
	// ErrLayerNameRequired indicates a layer without a name.
	ErrLayerNameRequired = errors.New("config: layer name must be provided")
	// ErrDuplicateLayerName indicates two layers share a name.
	ErrDuplicateLayerName = errors.New("config: layer names must be unique")
	// ErrPriorityOrder indicates two layers share a priority.
	ErrPriorityOrder = errors.New("config: layer priorities must be strictly ordered")
	// ErrEmptyStack indicates Merge was called without layers.
	ErrEmptyStack = errors.New("config: stack must include at least one layer")
)

// Layer is one configuration file with its precedence. Higher priorities
// override lower ones.
type Layer struct {
	Name     string
	Priority int
	Source   string
	File     *File
}

// LoadLayer reads path into a layer named name.
func LoadLayer(name string, priority int, path string) (Layer, error) {
	file, err := Load(path)
	if err != nil {
		return Layer{}, err
	}
	return Layer{Name: name, Priority: priority, Source: path, File: file}, nil
}

func (l Layer) clone() Layer {
	out := l
	if l.File != nil {
		out.File = mergeFiles(l.File)
	}
	return out
}

// Stack is an immutable set of layers ordered strongest first.
type Stack struct {
	layers []Layer
}

// NewStack validates and sorts layers so the highest priority comes first.
// Layers are copied so later changes by the caller have no effect.
func NewStack(layers ...Layer) (*Stack, error) {
	seen := make(map[string]struct{}, len(layers))
	copied := make([]Layer, len(layers))
	for i, layer := range layers {
		layer.Name = strings.TrimSpace(layer.Name)
		if layer.Name == "" {
			return nil, ErrLayerNameRequired
		}
		if _, ok := seen[layer.Name]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateLayerName, layer.Name)
		}
		seen[layer.Name] = struct{}{}
		copied[i] = layer.clone()
	}

	sort.Slice(copied, func(i, j int) bool {
		if copied[i].Priority == copied[j].Priority {
			return copied[i].Name < copied[j].Name
		}
		return copied[i].Priority > copied[j].Priority
	})
	for i := 1; i < len(copied); i++ {
		if copied[i-1].Priority <= copied[i].Priority {
			return nil, fmt.Errorf("%w: %d", ErrPriorityOrder, copied[i].Priority)
		}
	}
	return &Stack{layers: copied}, nil
}

// Layers returns copies of the layers, strongest first.
func (s *Stack) Layers() []Layer {
	if s == nil || len(s.layers) == 0 {
		return nil
	}
	out := make([]Layer, len(s.layers))
	for i := range s.layers {
		out[i] = s.layers[i].clone()
	}
	return out
}

// Len returns the number of layers.
func (s *Stack) Len() int {
	if s == nil {
		return 0
	}
	return len(s.layers)
}

// MergeOption configures Merge.
type MergeOption func(*mergeConfig)

type mergeConfig struct {
	emitter *activity.Emitter
}

// WithEmitter reports every contributing layer through emitter.
func WithEmitter(emitter *activity.Emitter) MergeOption {
	return func(cfg *mergeConfig) {
		cfg.emitter = emitter
	}
}

// Merged is the effective configuration of a stack together with the layers
// that produced it.
type Merged struct {
	File   *File
	layers []Layer
}

// Merge folds the layers into one File. The result is validated.
func (s *Stack) Merge(ctx context.Context, opts ...MergeOption) (*Merged, error) {
	if s.Len() == 0 {
		return nil, ErrEmptyStack
	}
	cfg := mergeConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	files := make([]*File, len(s.layers))
	for i, layer := range s.layers {
		files[i] = layer.File
	}
	merged := mergeFiles(files...)
	if err := merged.Validate(); err != nil {
		return nil, fmt.Errorf("config: merged layers: %w", err)
	}

	for i := len(s.layers) - 1; i >= 0; i-- {
		layer := s.layers[i]
		err := cfg.emitter.Emit(ctx, activity.BuildLayerAppliedEvent(activity.LayerEventInput{
			Layer:    layer.Name,
			Priority: layer.Priority,
			Source:   layer.Source,
			Bindings: layer.File.Bindings(),
		}))
		if err != nil {
			return nil, err
		}
	}
	return &Merged{File: merged, layers: s.Layers()}, nil
}

// Layers returns the contributing layers, strongest first.
func (m *Merged) Layers() []Layer {
	if m == nil {
		return nil
	}
	return append([]Layer(nil), m.layers...)
}
