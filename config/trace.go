package config

import (
	"fmt"
	"strings"
)

// Trace reports which layers define a path and which one wins.
type Trace struct {
	Path   string       `yaml:"path"`
	Value  any          `yaml:"value,omitempty"`
	Winner string       `yaml:"winner,omitempty"`
	Layers []Provenance `yaml:"layers"`
}

// Provenance is one layer's contribution to a traced path.
type Provenance struct {
	Layer    string `yaml:"layer"`
	Priority int    `yaml:"priority"`
	Source   string `yaml:"source,omitempty"`
	Value    any    `yaml:"value,omitempty"`
	Found    bool   `yaml:"found"`
}

// Trace follows path through every layer, strongest first. Paths are
// default_index, field_inferrer, types.<binding>.index and
// types.<binding>.renames.<member>.
func (m *Merged) Trace(path string) (Trace, error) {
	if _, _, err := lookupPath(&File{}, path); err != nil {
		return Trace{}, err
	}
	trace := Trace{Path: path}
	for _, layer := range m.Layers() {
		value, found, _ := lookupPath(layer.File, path)
		trace.Layers = append(trace.Layers, Provenance{
			Layer:    layer.Name,
			Priority: layer.Priority,
			Source:   layer.Source,
			Value:    value,
			Found:    found,
		})
		if found && trace.Winner == "" {
			trace.Winner = layer.Name
			trace.Value = value
		}
	}
	return trace, nil
}

// TraceRename traces the rename of member under binding.
func (m *Merged) TraceRename(binding, member string) (Trace, error) {
	return m.Trace("types." + binding + ".renames." + member)
}

func lookupPath(f *File, path string) (any, bool, error) {
	segments := strings.Split(path, ".")
	if f == nil {
		f = &File{}
	}
	switch {
	case len(segments) == 1 && segments[0] == "default_index":
		if f.DefaultIndex == nil {
			return nil, false, nil
		}
		return *f.DefaultIndex, true, nil
	case len(segments) == 1 && segments[0] == "field_inferrer":
		if f.FieldInferrer == nil {
			return nil, false, nil
		}
		return *f.FieldInferrer, true, nil
	case len(segments) >= 3 && segments[0] == "types":
		// Member names never contain dots, binding names may.
		if segments[len(segments)-1] == "index" {
			tc := f.Types[strings.Join(segments[1:len(segments)-1], ".")]
			if tc == nil || tc.Index == nil {
				return nil, false, nil
			}
			return *tc.Index, true, nil
		}
		if len(segments) >= 4 && segments[len(segments)-2] == "renames" {
			tc := f.Types[strings.Join(segments[1:len(segments)-2], ".")]
			if tc == nil {
				return nil, false, nil
			}
			name, ok := tc.Renames[segments[len(segments)-1]]
			if !ok {
				return nil, false, nil
			}
			return name, true, nil
		}
	}
	return nil, false, fmt.Errorf("config: unsupported trace path %q", path)
}
