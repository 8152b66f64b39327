package response_test

import (
	"errors"
	"testing"

	infer "github.com/goliatone/go-infer"
	"github.com/goliatone/go-infer/response"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type project struct {
	Name      string
	LeadOwner string
}

type commit struct {
	SHA string
}

func newSettings(t *testing.T, opts ...infer.Option) *infer.Settings {
	t.Helper()
	settings, err := infer.NewSettings(opts...)
	require.NoError(t, err)
	return settings
}

func TestResolvedDictionaryIndexCollisionLaterWins(t *testing.T) {
	settings := newSettings(t, infer.WithTypeMapping(
		infer.MapType[project]().Index("projects"),
		infer.MapType[commit]().Index("commits"),
	))

	dict, err := response.NewResolvedDictionary(settings, []response.Pair[infer.IndexName, int]{
		{Key: infer.IndexNameOf[project](), Value: 1},
		{Key: infer.NewIndexName("commits"), Value: 2},
		{Key: infer.NewIndexName("projects"), Value: 3},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, dict.Len())
	assert.Equal(t, []string{"projects", "commits"}, dict.ResolvedKeys())
	assert.Equal(t, []int{3, 2}, dict.Values())
	assert.Len(t, dict.Keys(), 3)

	assert.Equal(t, 3, dict.Get(infer.IndexNameOf[project]()))
	assert.Equal(t, 3, dict.Get(infer.NewIndexName("projects")))
	assert.True(t, dict.ContainsKey(infer.IndexNameOf[commit]()))
	assert.Equal(t, 2, dict.GetString("commits"))
	assert.False(t, dict.ContainsString("missing"))

	_, ok := dict.TryGet(infer.IndexName{})
	assert.False(t, ok, "unresolvable keys are absent")

	entries := dict.Entries()
	require.Len(t, entries, 2)
	assert.True(t, entries[0].Key.Equal(infer.NewIndexName("projects")))
}

func TestResolvedDictionaryFieldKeys(t *testing.T) {
	settings := newSettings(t)

	dict, err := response.NewResolvedDictionary(settings, []response.Pair[infer.Field, string]{
		{Key: infer.FieldOf[project]().Member("LeadOwner"), Value: "typed"},
		{Key: infer.FieldName("name"), Value: "verbatim"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"leadOwner", "name"}, dict.ResolvedKeys())
	assert.Equal(t, "typed", dict.GetString("leadOwner"))
	assert.Equal(t, "verbatim", dict.Get(infer.FieldOf[project]().Member("Name")))
}

func TestResolvedDictionaryRequiresSettings(t *testing.T) {
	_, err := response.NewResolvedDictionary[infer.Name, int](nil, nil)
	assert.ErrorIs(t, err, infer.ErrConfigurationUnavailable)

	settings := newSettings(t)
	_, err = response.NewResolvedDictionary(settings, []response.Pair[infer.Name, int]{{Key: infer.Name(" "), Value: 1}})
	assert.Error(t, err)
}

func TestNilResolvedDictionaryIsEmpty(t *testing.T) {
	var dict *response.ResolvedDictionary[infer.Name, int]
	assert.Equal(t, 0, dict.Len())
	assert.Nil(t, dict.Keys())
	_, ok := dict.TryGet(infer.Name("a"))
	assert.False(t, ok)
}

type indexStats struct {
	Docs    int `json:"docs"`
	Deleted int `json:"deleted"`
}

func TestDecodeDictionary(t *testing.T) {
	settings := newSettings(t, infer.WithTypeMapping(infer.MapType[project]().Index("projects")))
	body := []byte(`{
		"_shards": {"total": 2},
		"status": 200,
		"remote:projects": {"docs": 4, "deleted": 0},
		"projects": {"docs": 10, "deleted": 1}
	}`)

	resp, err := response.DecodeDictionary(nil, settings, body, response.IndexNameKeys(), response.ReadInto[indexStats]())
	require.NoError(t, err)

	status, ok := resp.Status()
	require.True(t, ok)
	assert.Equal(t, 200, status)

	assert.Equal(t, indexStats{Docs: 10, Deleted: 1}, resp.Body.Get(infer.IndexNameOf[project]()))
	assert.Equal(t, 4, resp.Body.Get(infer.IndexNameOf[project]().OnCluster("remote")).Docs)
	assert.Equal(t, indexStats{}, resp.Body.GetString("_shards"), "unknown fields are ignored")
}

func TestDecodeDictionaryErrors(t *testing.T) {
	settings := newSettings(t)

	_, err := response.DecodeDictionary[infer.Name, int](nil, nil, []byte(`{}`), response.NameKeys(), nil)
	assert.ErrorIs(t, err, infer.ErrConfigurationUnavailable)

	_, err = response.DecodeDictionary[infer.Name, int](nil, settings, []byte(`{}`), nil, nil)
	assert.Error(t, err)

	_, err = response.DecodeDictionary[infer.Name, int](nil, settings, []byte(`{"a": "x"}`), response.NameKeys(), nil)
	var decodeErr *response.DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, "value", decodeErr.Kind)

	boom := errors.New("bad key")
	_, err = response.DecodeDictionary[infer.Name, int](nil, settings, []byte(`{"a": 1}`), func(string) (infer.Name, error) {
		return "", boom
	}, nil)
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, "key", decodeErr.Kind)
	assert.Equal(t, "a", decodeErr.Key)
	assert.ErrorIs(t, err, boom)
}

func TestDecodeDictionaryCustomValueReader(t *testing.T) {
	settings := newSettings(t)
	counts := func(iter *jsoniter.Iterator) (int, error) {
		n := 0
		iter.ReadArrayCB(func(it *jsoniter.Iterator) bool {
			it.Skip()
			n++
			return true
		})
		return n, iter.Error
	}

	resp, err := response.DecodeDictionary(response.NewDecoder(), settings, []byte(`{"a": [1, 2, 3], "b": []}`), response.NameKeys(), counts)
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Body.Get(infer.Name("a")))
	assert.Equal(t, 0, resp.Body.Get(infer.Name("b")))
}
