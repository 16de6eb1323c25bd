package tadm

import (
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleModel = `id: tadm-1
transformationProcessId: proc-1
componentTypes:
  - id: base
    name: BaseType
  - id: db-type
    name: ComponentType-db
    properties:
      - key: port
        type: INTEGER
        required: true
        value: 5432
    operations:
      - name: deploy
components:
  - id: db
    name: database
    type: db-type
    artifacts:
      - type: docker_image
        name: registry/postgres:6.7.8-bla
        fileUri: "-"
  - id: nameless
    name: nameless
    type: db-type
    artifacts:
      - type: docker_image
`

func TestDecode(t *testing.T) {
	m, err := Decode([]byte(sampleModel))
	require.NoError(t, err)

	assert.Equal(t, "tadm-1", m.ID)
	assert.Equal(t, "proc-1", m.TransformationProcessID)
	require.Len(t, m.Types(), 2)
	require.Len(t, m.Components, 2)

	db, ok := m.ComponentByID("db")
	require.True(t, ok)
	a, ok := db.DockerImageArtifact()
	require.True(t, ok)
	require.NotNil(t, a.Name)
	assert.Equal(t, "registry/postgres:6.7.8-bla", *a.Name)
	assert.Equal(t, "-", a.FileURI)

	nameless, _ := m.ComponentByID("nameless")
	a, ok = nameless.DockerImageArtifact()
	require.True(t, ok)
	assert.Nil(t, a.Name)

	typ, _ := m.TypeByID("db-type")
	assert.Equal(t, 2, m.UsageCount(typ.ID))
	assert.Equal(t, float64(5432), typ.Properties[0].Value)
}

func TestDecodeAssignsMissingTypeIDs(t *testing.T) {
	m, err := Decode([]byte(`{"componentTypes":[{"name":"BaseType"}],"components":[]}`))
	require.NoError(t, err)
	base, ok := m.TypeByName("BaseType")
	require.True(t, ok)
	assert.NotEmpty(t, base.ID)
}

func TestDecodeRejectsDuplicateTypeIDs(t *testing.T) {
	_, err := Decode([]byte(`{"componentTypes":[{"id":"a","name":"x"},{"id":"a","name":"y"}]}`))
	assert.ErrorIs(t, err, ErrDuplicateTypeID)
}

func TestDecodeMalformed(t *testing.T) {
	_, err := Decode([]byte("componentTypes: {not: a list}"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "decode deployment model")
}

func TestSaveAndLoadPreserveModel(t *testing.T) {
	fs := afero.NewMemMapFs()
	original, err := Decode([]byte(sampleModel))
	require.NoError(t, err)

	for _, path := range []string{"out/model.yaml", "out/model.json"} {
		t.Run(path, func(t *testing.T) {
			require.NoError(t, Save(fs, path, original))

			loaded, err := Load(fs, path)
			require.NoError(t, err)
			assert.Equal(t, original.ID, loaded.ID)
			if diff := cmp.Diff(original.Types(), loaded.Types()); diff != "" {
				t.Errorf("component types differ (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(original.Components, loaded.Components); diff != "" {
				t.Errorf("components differ (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEncodeEmptyModel(t *testing.T) {
	data, err := Encode(NewModel(), FormatJSON)
	require.NoError(t, err)
	assert.JSONEq(t, `{"componentTypes":[],"components":[]}`, string(data))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(afero.NewMemMapFs(), "missing.yaml")
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFormatForPath(t *testing.T) {
	assert.Equal(t, FormatJSON, FormatForPath("a/model.JSON"))
	assert.Equal(t, FormatYAML, FormatForPath("model.yml"))
	assert.Equal(t, FormatYAML, FormatForPath("model"))
}
