package config_test

import (
	"os"
	"path/filepath"
	"testing"

	infer "github.com/goliatone/go-infer"
	"github.com/goliatone/go-infer/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type project struct {
	Name            string
	LeadOwner       string
	NumberOfCommits int
}

type commit struct {
	SHA     string
	Message string
}

var bindings = []config.Binding{
	config.Bind[project]("project"),
	config.Bind[commit]("commit"),
}

const baseYAML = `
default_index: default
field_inferrer:
  name: snake
types:
  project:
    index: projects
    renames:
      Name: title
`

func TestParseAndBuildSettings(t *testing.T) {
	file, err := config.Parse([]byte(baseYAML))
	require.NoError(t, err)
	assert.Equal(t, []string{"project"}, file.Bindings())

	settings, err := file.Settings(bindings)
	require.NoError(t, err)

	assert.Equal(t, "default", settings.DefaultIndex())
	name, err := infer.FieldOf[project]().Member("Name").Resolve(settings)
	require.NoError(t, err)
	assert.Equal(t, "title", name)

	lead, err := infer.FieldOf[project]().Member("LeadOwner").Resolve(settings)
	require.NoError(t, err)
	assert.Equal(t, "lead_owner", lead)

	index, err := infer.IndexNameOf[project]().Resolve(settings)
	require.NoError(t, err)
	assert.Equal(t, "projects", index)

	fallback, err := infer.IndexNameOf[commit]().Resolve(settings)
	require.NoError(t, err)
	assert.Equal(t, "default", fallback)
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := config.Parse([]byte("default_indx: x\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "default_indx")
}

func TestParseEmptyDocument(t *testing.T) {
	file, err := config.Parse(nil)
	require.NoError(t, err)
	opts, err := file.Options()
	require.NoError(t, err)
	assert.Empty(t, opts)
}

func TestValidateInferrer(t *testing.T) {
	cases := map[string]string{
		"both":         "field_inferrer:\n  name: camel\n  expression: snake(name)\n",
		"neither":      "field_inferrer:\n  engine: cel\n",
		"unknown name": "field_inferrer:\n  name: kebab\n",
		"engine+name":  "field_inferrer:\n  name: camel\n  engine: cel\n",
		"bad engine":   "field_inferrer:\n  engine: lua\n  expression: name\n",
		"blank index":  "types:\n  project:\n    index: \" \"\n",
		"blank rename": "types:\n  project:\n    renames:\n      Name: \"\"\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := config.Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestOptionsRequireBindings(t *testing.T) {
	file, err := config.Parse([]byte(baseYAML))
	require.NoError(t, err)

	_, err = file.Options(config.Bind[commit]("commit"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"project"`)

	_, err = file.Options(config.Binding{Name: "project"})
	assert.Error(t, err)
}

func TestExpressionInferrer(t *testing.T) {
	doc := `
field_inferrer:
  engine: cel
  expression: 'owner == "commit" ? snake(name) : camel(name)'
`
	file, err := config.Parse([]byte(doc))
	require.NoError(t, err)
	settings, err := file.Settings(bindings)
	require.NoError(t, err)

	got, err := infer.FieldOf[commit]().Member("Message").Resolve(settings)
	require.NoError(t, err)
	assert.Equal(t, "message", got)

	got, err = infer.FieldOf[project]().Member("NumberOfCommits").Resolve(settings)
	require.NoError(t, err)
	assert.Equal(t, "numberOfCommits", got)

	got, err = infer.FieldOf[commit]().Member("SHA").Resolve(settings)
	require.NoError(t, err)
	assert.Equal(t, "sha", got)
}

func TestLoadAndMarshal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "infer.yaml")
	require.NoError(t, os.WriteFile(path, []byte(baseYAML), 0o600))

	file, err := config.Load(path)
	require.NoError(t, err)

	out, err := file.Marshal()
	require.NoError(t, err)
	again, err := config.Parse(out)
	require.NoError(t, err)
	assert.Equal(t, file, again)

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
