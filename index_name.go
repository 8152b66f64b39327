package infer

import (
	"hash/fnv"
	"reflect"
	"strings"
)

// ClusterDelimiter separates a cluster qualifier from an index name.
const ClusterDelimiter = ":"

const indexNameDiscriminant = "infer.IndexName"

// IndexName is a bare name, a cluster-qualified name, or a placeholder derived
// from a type and resolved through Settings. It never carries both a name
// and a type.
type IndexName struct {
	name    string
	cluster string
	typ     reflect.Type
}

// NewIndexName returns a bare index name. The string is not parsed; see
// ParseIndexName for cluster qualified input.
func NewIndexName(name string) IndexName {
	return IndexName{name: name}
}

// QualifiedIndexName returns name on cluster. An empty cluster yields a bare
// name.
func QualifiedIndexName(cluster, name string) IndexName {
	return IndexName{name: name, cluster: cluster}
}

// IndexNameOf returns the placeholder for T.
func IndexNameOf[T any]() IndexName {
	return IndexNameOfType(reflect.TypeOf((*T)(nil)).Elem())
}

// IndexNameOfType returns the placeholder for t.
func IndexNameOfType(t reflect.Type) IndexName {
	return IndexName{typ: derefType(t)}
}

// ParseIndexName splits s on the first ':' into cluster and name. Blank
// input returns false.
func ParseIndexName(s string) (IndexName, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return IndexName{}, false
	}
	cluster, name, found := strings.Cut(s, ClusterDelimiter)
	if !found || cluster == "" || name == "" {
		return NewIndexName(s), true
	}
	return QualifiedIndexName(cluster, name), true
}

// OnCluster returns a copy of n qualified by cluster.
func (n IndexName) OnCluster(cluster string) IndexName {
	n.cluster = cluster
	return n
}

// Name returns the bare name; empty for type placeholders.
func (n IndexName) Name() string { return n.name }

// Cluster returns the cluster qualifier, possibly empty.
func (n IndexName) Cluster() string { return n.cluster }

// Type returns the placeholder type; nil for named indices.
func (n IndexName) Type() reflect.Type { return n.typ }

// IsZero reports whether n names nothing.
func (n IndexName) IsZero() bool {
	return n.name == "" && n.typ == nil
}

// String renders "cluster:name" or "name". Type placeholders render the type
// name.
func (n IndexName) String() string {
	base := n.name
	if base == "" && n.typ != nil {
		base = n.typ.Name()
	}
	return qualify(n.cluster, base)
}

// Equal compares rendered strings when both sides are named, or type and
// cluster when both are type placeholders.
func (n IndexName) Equal(other IndexName) bool {
	if n.name != "" && other.name != "" {
		return n.String() == other.String()
	}
	if n.typ != nil && other.typ != nil {
		return n.typ == other.typ && n.cluster == other.cluster
	}
	return n.IsZero() && other.IsZero()
}

// EqualString compares a named index with a raw rendered string.
func (n IndexName) EqualString(s string) bool {
	return n.name != "" && n.String() == strings.TrimSpace(s)
}

// Hash is consistent with Equal.
func (n IndexName) Hash() uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(indexNameDiscriminant))
	switch {
	case n.name != "":
		_, _ = h.Write([]byte{'n'})
		_, _ = h.Write([]byte(n.String()))
	case n.typ != nil:
		_, _ = h.Write([]byte{'t'})
		_, _ = h.Write([]byte(n.typ.PkgPath() + "." + n.typ.String()))
		_, _ = h.Write([]byte{0})
		_, _ = h.Write([]byte(n.cluster))
	}
	return h.Sum64()
}

// Resolve renders the wire name. Type placeholders use the mapped index, the
// default index, then the lower-cased type name, so they never fail for lack
// of an explicit mapping. Every token needs Settings, named ones included.
func (n IndexName) Resolve(s *Settings) (string, error) {
	if n.IsZero() {
		return "", wrapResolutionError("index", "", ErrEmptyIndexName)
	}
	if s == nil {
		return "", ErrConfigurationUnavailable
	}
	if n.name != "" {
		return n.String(), nil
	}
	index, ok := s.IndexFor(n.typ)
	if !ok {
		index = strings.ToLower(n.typ.Name())
	}
	s.cfg.logger.LogResolution(ResolutionEvent{
		Kind:   "index",
		Type:   typeName(n.typ),
		Target: n.String(),
		Result: qualify(n.cluster, index),
	})
	return qualify(n.cluster, index), nil
}

func qualify(cluster, name string) string {
	if cluster == "" {
		return name
	}
	return cluster + ClusterDelimiter + name
}
