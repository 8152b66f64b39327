package infer

import "strings"

// AllIndicesName is the wire form addressing every index.
const AllIndicesName = "_all"

// Indices is either all indices or an ordered set of index names.
type Indices struct {
	all   bool
	names []IndexName
}

// AllIndices addresses every index.
func AllIndices() Indices {
	return Indices{all: true}
}

// IndicesOf builds an ordered set; duplicates by Equal are dropped.
func IndicesOf(names ...IndexName) Indices {
	return Indices{}.And(names...)
}

// ParseIndices splits a comma separated list. "_all" selects every index.
func ParseIndices(s string) Indices {
	var out Indices
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == AllIndicesName {
			return AllIndices()
		}
		if name, ok := ParseIndexName(part); ok {
			out = out.And(name)
		}
	}
	return out
}

// And returns a copy with names appended. Adding to AllIndices is a no-op.
func (i Indices) And(names ...IndexName) Indices {
	if i.all {
		return i
	}
	out := Indices{names: make([]IndexName, len(i.names), len(i.names)+len(names))}
	copy(out.names, i.names)
	for _, name := range names {
		if name.IsZero() || out.contains(name) {
			continue
		}
		out.names = append(out.names, name)
	}
	return out
}

// IsAll reports whether i addresses every index.
func (i Indices) IsAll() bool { return i.all }

// Names returns a copy of the member names.
func (i Indices) Names() []IndexName {
	out := make([]IndexName, len(i.names))
	copy(out, i.names)
	return out
}

// Len returns the number of names; zero for AllIndices.
func (i Indices) Len() int { return len(i.names) }

func (i Indices) contains(name IndexName) bool {
	for _, existing := range i.names {
		if existing.Equal(name) {
			return true
		}
	}
	return false
}

// Resolve joins the resolved member names with commas.
func (i Indices) Resolve(s *Settings) (string, error) {
	if s == nil {
		return "", ErrConfigurationUnavailable
	}
	if i.all {
		return AllIndicesName, nil
	}
	if len(i.names) == 0 {
		return "", wrapResolutionError("indices", "", ErrEmptyIndexName)
	}
	parts := make([]string, 0, len(i.names))
	for _, name := range i.names {
		resolved, err := name.Resolve(s)
		if err != nil {
			return "", err
		}
		parts = append(parts, resolved)
	}
	return strings.Join(parts, ","), nil
}

func (i Indices) String() string {
	if i.all {
		return AllIndicesName
	}
	parts := make([]string, 0, len(i.names))
	for _, name := range i.names {
		parts = append(parts, name.String())
	}
	return strings.Join(parts, ",")
}
