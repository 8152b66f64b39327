package response

import (
	"fmt"
	"io"
	"time"

	infer "github.com/goliatone/go-infer"
	jsoniter "github.com/json-iterator/go"
)

// Pair is a decoded typed key and its value.
type Pair[K infer.Resolvable, V any] struct {
	Key   K
	Value V
}

// Entry is a Pair together with the key's resolved string.
type Entry[K infer.Resolvable, V any] struct {
	Key      K
	Resolved string
	Value    V
}

// ResolvedDictionary indexes values by the wire string of their typed keys.
// Keys are resolved once, at construction, through Settings. Typed lookups
// resolve the probe key again and then use the string index, so distinct
// keys that resolve to the same string share one slot; the later pair wins.
type ResolvedDictionary[K infer.Resolvable, V any] struct {
	settings *infer.Settings
	pairs    []Entry[K, V]
	slots    []Entry[K, V]
	index    map[string]int
}

// NewResolvedDictionary resolves every key of pairs under settings.
func NewResolvedDictionary[K infer.Resolvable, V any](settings *infer.Settings, pairs []Pair[K, V]) (*ResolvedDictionary[K, V], error) {
	if settings == nil {
		return nil, infer.ErrConfigurationUnavailable
	}
	d := &ResolvedDictionary[K, V]{
		settings: settings,
		pairs:    make([]Entry[K, V], 0, len(pairs)),
		index:    make(map[string]int, len(pairs)),
	}
	for _, pair := range pairs {
		resolved, err := pair.Key.Resolve(settings)
		if err != nil {
			return nil, err
		}
		d.add(Entry[K, V]{Key: pair.Key, Resolved: resolved, Value: pair.Value})
	}
	return d, nil
}

func (d *ResolvedDictionary[K, V]) add(entry Entry[K, V]) {
	d.pairs = append(d.pairs, entry)
	if pos, ok := d.index[entry.Resolved]; ok {
		d.slots[pos] = entry
		return
	}
	d.index[entry.Resolved] = len(d.slots)
	d.slots = append(d.slots, entry)
}

// Get returns the value for key, or the zero V.
func (d *ResolvedDictionary[K, V]) Get(key K) V {
	value, _ := d.TryGet(key)
	return value
}

// TryGet resolves key and looks up the result. Keys that fail to resolve
// are reported as absent.
func (d *ResolvedDictionary[K, V]) TryGet(key K) (V, bool) {
	var zero V
	if d == nil {
		return zero, false
	}
	resolved, err := key.Resolve(d.settings)
	if err != nil {
		return zero, false
	}
	return d.TryGetString(resolved)
}

// ContainsKey reports whether key resolves to a stored string.
func (d *ResolvedDictionary[K, V]) ContainsKey(key K) bool {
	_, ok := d.TryGet(key)
	return ok
}

// GetString returns the value stored under an already resolved string.
func (d *ResolvedDictionary[K, V]) GetString(resolved string) V {
	value, _ := d.TryGetString(resolved)
	return value
}

// TryGetString looks up an already resolved string.
func (d *ResolvedDictionary[K, V]) TryGetString(resolved string) (V, bool) {
	var zero V
	if d == nil {
		return zero, false
	}
	pos, ok := d.index[resolved]
	if !ok {
		return zero, false
	}
	return d.slots[pos].Value, true
}

// ContainsString reports whether resolved is stored.
func (d *ResolvedDictionary[K, V]) ContainsString(resolved string) bool {
	_, ok := d.TryGetString(resolved)
	return ok
}

// Len returns the number of distinct resolved strings.
func (d *ResolvedDictionary[K, V]) Len() int {
	if d == nil {
		return 0
	}
	return len(d.slots)
}

// Keys returns every original key in construction order, including keys
// that collided.
func (d *ResolvedDictionary[K, V]) Keys() []K {
	if d == nil {
		return nil
	}
	out := make([]K, len(d.pairs))
	for i, entry := range d.pairs {
		out[i] = entry.Key
	}
	return out
}

// ResolvedKeys returns the distinct resolved strings in first insertion
// order.
func (d *ResolvedDictionary[K, V]) ResolvedKeys() []string {
	if d == nil {
		return nil
	}
	out := make([]string, len(d.slots))
	for i, entry := range d.slots {
		out[i] = entry.Resolved
	}
	return out
}

// Values returns the winning value of each slot in ResolvedKeys order.
func (d *ResolvedDictionary[K, V]) Values() []V {
	if d == nil {
		return nil
	}
	out := make([]V, len(d.slots))
	for i, entry := range d.slots {
		out[i] = entry.Value
	}
	return out
}

// Entries returns the winning entry of each slot in ResolvedKeys order.
func (d *ResolvedDictionary[K, V]) Entries() []Entry[K, V] {
	if d == nil {
		return nil
	}
	return append([]Entry[K, V](nil), d.slots...)
}

// KeyDecoder turns a payload key into a typed key.
type KeyDecoder[K any] func(key string) (K, error)

// ValueReader reads one typed payload value.
type ValueReader[V any] func(iter *jsoniter.Iterator) (V, error)

// IndexNameKeys parses payload keys as possibly cluster qualified index
// names.
func IndexNameKeys() KeyDecoder[infer.IndexName] {
	return func(key string) (infer.IndexName, error) {
		name, ok := infer.ParseIndexName(key)
		if !ok {
			return infer.IndexName{}, fmt.Errorf("blank index name")
		}
		return name, nil
	}
}

// FieldKeys reads payload keys as verbatim field names.
func FieldKeys() KeyDecoder[infer.Field] {
	return func(key string) (infer.Field, error) {
		return infer.FieldName(key), nil
	}
}

// NameKeys reads payload keys as plain names.
func NameKeys() KeyDecoder[infer.Name] {
	return func(key string) (infer.Name, error) {
		return infer.Name(key), nil
	}
}

// ReadInto decodes each value with the iterator's configuration.
func ReadInto[V any]() ValueReader[V] {
	return func(iter *jsoniter.Iterator) (V, error) {
		var value V
		iter.ReadVal(&value)
		if iter.Error != nil {
			var zero V
			return zero, decodeError("value", "", iter.Error)
		}
		return value, nil
	}
}

// DictionaryResponse is an envelope whose payload is keyed by typed keys.
type DictionaryResponse[K infer.Resolvable, V any] struct {
	Envelope
	Body *ResolvedDictionary[K, V]
}

// DecodeDictionary decodes data, turning each payload key into K with keys
// and each value into V with values, then resolves the keys under settings.
func DecodeDictionary[K infer.Resolvable, V any](d *Decoder, settings *infer.Settings, data []byte, keys KeyDecoder[K], values ValueReader[V]) (*DictionaryResponse[K, V], error) {
	if settings == nil {
		return nil, infer.ErrConfigurationUnavailable
	}
	if keys == nil {
		return nil, fmt.Errorf("response: key decoder is nil")
	}
	if d == nil {
		d = NewDecoder()
	}
	if values == nil {
		values = ReadInto[V]()
	}
	start := time.Now()
	var pairs []Pair[K, V]
	env, err := d.scan(data, func(iter *jsoniter.Iterator, key string) error {
		typedKey, err := keys(key)
		if err != nil {
			return decodeError("key", key, err)
		}
		value, err := values(iter)
		if err != nil {
			return err
		}
		pairs = append(pairs, Pair[K, V]{Key: typedKey, Value: value})
		return nil
	})
	var body *ResolvedDictionary[K, V]
	if err == nil {
		body, err = NewResolvedDictionary(settings, pairs)
	}
	d.finish("dictionary", data, len(pairs), env, start, err)
	if err != nil {
		return nil, err
	}
	return &DictionaryResponse[K, V]{Envelope: env, Body: body}, nil
}

// ReadDictionary reads r to the end and decodes it with DecodeDictionary.
func ReadDictionary[K infer.Resolvable, V any](d *Decoder, settings *infer.Settings, r io.Reader, keys KeyDecoder[K], values ValueReader[V]) (*DictionaryResponse[K, V], error) {
	data, err := readAll(r)
	if err != nil {
		return nil, err
	}
	return DecodeDictionary(d, settings, data, keys, values)
}
