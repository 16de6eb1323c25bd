// Package testutil provides helpers shared by the package tests: log capture and
// in-memory model fixtures.
package testutil

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/lucas-albers-lz4/imgtype/pkg/fileutil"
	"github.com/lucas-albers-lz4/imgtype/pkg/tadm"
)

// BaseTypeOnlyModel is a model whose only type is BaseType and whose single
// component runs a postgres image from a private registry path.
const BaseTypeOnlyModel = `id: tadm-1
transformationProcessId: proc-1
componentTypes:
  - id: base
    name: BaseType
components:
  - id: db
    name: database
    type: base
    artifacts:
      - type: docker_image
        name: registry/postgres:6.7.8-bla
        fileUri: "-"
`

// SharedTypeModel has two components on one shared type, both running postgres.
const SharedTypeModel = `id: tadm-2
transformationProcessId: proc-2
componentTypes:
  - id: base
    name: BaseType
  - id: shared
    name: container
    parentType: base
    properties:
      - key: port
        type: INTEGER
        value: 5432
components:
  - id: primary
    name: primary
    type: shared
    artifacts:
      - type: docker_image
        name: postgres:16
  - id: replica
    name: replica
    type: shared
    artifacts:
      - type: docker_image
        name: docker.io/library/postgres:16
`

// MustDecodeModel decodes a model document or fails the test.
func MustDecodeModel(t *testing.T, doc string) *tadm.DeploymentModel {
	t.Helper()
	m, err := tadm.Decode([]byte(doc))
	require.NoError(t, err)
	return m
}

// NewMemFS returns an in-memory filesystem populated with files (path -> content).
func NewMemFS(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for path, content := range files {
		require.NoError(t, fileutil.WriteFile(fs, path, []byte(content)), "writing fixture %s", path)
	}
	return fs
}
