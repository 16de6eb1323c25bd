package fileutil

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteAndReadFile(t *testing.T) {
	fs := afero.NewMemMapFs()

	require.NoError(t, WriteFile(fs, "models/nested/model.yaml", []byte("components: []\n")))

	info, err := fs.Stat("models/nested/model.yaml")
	require.NoError(t, err)
	assert.Equal(t, "-rw-r--r--", info.Mode().Perm().String())

	data, err := ReadFile(fs, "models/nested/model.yaml")
	require.NoError(t, err)
	assert.Equal(t, "components: []\n", string(data))

	ok, err := Exists(fs, "models/nested/model.yaml")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(afero.NewMemMapFs(), "missing.yaml")
	require.Error(t, err)
	assert.True(t, IsNotExist(err))
	assert.Contains(t, err.Error(), "missing.yaml")
}

func TestCheckDocumentExtension(t *testing.T) {
	for _, ok := range []string{"m.yaml", "m.yml", "dir/m.JSON"} {
		assert.NoError(t, CheckDocumentExtension(ok), ok)
	}
	for _, bad := range []string{"m.txt", "model", "m.yaml.bak"} {
		err := CheckDocumentExtension(bad)
		assert.ErrorIs(t, err, ErrUnsupportedExtension, bad)
	}
}
