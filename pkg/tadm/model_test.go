package tadm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestModel(t *testing.T) *DeploymentModel {
	t.Helper()
	m := NewModel()
	require.NoError(t, m.AddType(&ComponentType{ID: "base", Name: BaseTypeName}))
	require.NoError(t, m.AddType(&ComponentType{ID: "shared", Name: "shared-type", ParentType: "base"}))
	m.AddComponent(&Component{ID: "c1", Name: "one", Type: "shared"})
	m.AddComponent(&Component{ID: "c2", Name: "two", Type: "shared"})
	return m
}

func TestAddTypeUniqueness(t *testing.T) {
	m := newTestModel(t)

	err := m.AddType(&ComponentType{Name: "shared-type"})
	assert.ErrorIs(t, err, ErrDuplicateTypeName)

	err = m.AddType(&ComponentType{ID: "base", Name: "other"})
	assert.ErrorIs(t, err, ErrDuplicateTypeID)

	fresh := &ComponentType{Name: "fresh"}
	require.NoError(t, m.AddType(fresh))
	assert.NotEmpty(t, fresh.ID)

	got, ok := m.TypeByID(fresh.ID)
	require.True(t, ok)
	assert.Same(t, fresh, got)
	assert.Len(t, m.Types(), 3)
}

func TestTypeLookup(t *testing.T) {
	m := newTestModel(t)

	got, ok := m.TypeByName(BaseTypeName)
	require.True(t, ok)
	assert.Equal(t, "base", got.ID)

	_, ok = m.TypeByName("missing")
	assert.False(t, ok)

	names := []string{}
	for _, ct := range m.Types() {
		names = append(names, ct.Name)
	}
	assert.Equal(t, []string{BaseTypeName, "shared-type"}, names)
}

func TestRenameType(t *testing.T) {
	m := newTestModel(t)

	require.NoError(t, m.RenameType("shared", "renamed"))
	got, _ := m.TypeByID("shared")
	assert.Equal(t, "renamed", got.Name)

	require.NoError(t, m.RenameType("shared", "renamed"))
	assert.ErrorIs(t, m.RenameType("shared", BaseTypeName), ErrDuplicateTypeName)
	assert.ErrorIs(t, m.RenameType("nope", "x"), ErrTypeNotFound)
}

func TestUsageAndRemoval(t *testing.T) {
	m := newTestModel(t)
	assert.Equal(t, 2, m.UsageCount("shared"))
	assert.Len(t, m.ComponentsOfType("shared"), 2)

	assert.False(t, m.RemoveTypeIfUnused("shared"))
	assert.ErrorIs(t, m.RemoveType("shared"), ErrTypeInUse)

	m.Components[0].Type = "base"
	m.Components[1].Type = "base"
	assert.Equal(t, 0, m.UsageCount("shared"))
	assert.True(t, m.RemoveTypeIfUnused("shared"))
	assert.False(t, m.RemoveTypeIfUnused("shared"))

	_, ok := m.TypeByID("shared")
	assert.False(t, ok)
	assert.Len(t, m.Types(), 1)
	assert.ErrorIs(t, m.RemoveType("shared"), ErrTypeNotFound)
}

func TestRemovalKeepsParentTypes(t *testing.T) {
	m := newTestModel(t)
	require.NoError(t, m.AddType(&ComponentType{ID: "child", Name: "child-type", ParentType: "shared"}))
	m.Components[0].Type = "base"
	m.Components[1].Type = "base"

	assert.Equal(t, 1, m.ChildTypeCount("shared"))
	assert.False(t, m.RemoveTypeIfUnused("shared"))
	assert.ErrorIs(t, m.RemoveType("shared"), ErrTypeHasChildren)
	require.NoError(t, m.Validate())

	assert.True(t, m.RemoveTypeIfUnused("child"))
	assert.Equal(t, 0, m.ChildTypeCount("shared"))
	assert.True(t, m.RemoveTypeIfUnused("shared"))
	require.NoError(t, m.Validate())
}

func TestComponentByID(t *testing.T) {
	m := newTestModel(t)
	c, ok := m.ComponentByID("c2")
	require.True(t, ok)
	assert.Equal(t, "two", c.Name)

	_, ok = m.ComponentByID("c3")
	assert.False(t, ok)

	added := &Component{Name: "three", Type: "base"}
	m.AddComponent(added)
	assert.NotEmpty(t, added.ID)
}

func TestDockerImageArtifact(t *testing.T) {
	c := &Component{Artifacts: []Artifact{
		{Type: "helm_chart", Name: StringPtr("chart")},
		{Type: DockerImageArtifactType, Name: StringPtr("redis:7")},
		{Type: DockerImageArtifactType, Name: StringPtr("ignored")},
	}}

	a, ok := c.DockerImageArtifact()
	require.True(t, ok)
	assert.Equal(t, "redis:7", *a.Name)

	a.FileURI = "https://hub.docker.com/_/redis"
	assert.Equal(t, "https://hub.docker.com/_/redis", c.Artifacts[1].FileURI)

	_, ok = (&Component{}).DockerImageArtifact()
	assert.False(t, ok)
}

func TestMergePropertiesAndOperations(t *testing.T) {
	existing := &ComponentType{
		Properties: []Property{{Key: "port", Value: 5432}},
		Operations: []Operation{{Name: "deploy"}},
	}
	old := &ComponentType{
		Properties: []Property{{Key: "port", Value: 1}, {Key: "user", Value: "admin"}, {Key: "user", Value: "dup"}},
		Operations: []Operation{{Name: "deploy", Artifacts: []Artifact{{Type: "script"}}}, {Name: "backup"}},
	}

	existing.AddPropertiesIfNotPresent(old)
	existing.AddOperationsIfNotPresent(old)

	assert.Equal(t, []Property{{Key: "port", Value: 5432}, {Key: "user", Value: "admin"}}, existing.Properties)
	assert.Equal(t, []Operation{{Name: "deploy"}, {Name: "backup"}}, existing.Operations)
}

func TestCloneIsDeep(t *testing.T) {
	m := newTestModel(t)
	m.Components[0].Artifacts = []Artifact{{Type: DockerImageArtifactType, Name: StringPtr("postgres")}}
	typ, _ := m.TypeByID("shared")
	typ.Properties = []Property{{Key: "k"}}

	clone := m.Clone()
	require.NoError(t, clone.RenameType("shared", "changed"))
	clone.Components[0].Type = "base"
	*clone.Components[0].Artifacts[0].Name = "mysql"
	cloned, _ := clone.TypeByID("shared")
	cloned.Properties[0].Key = "changed"

	orig, _ := m.TypeByID("shared")
	assert.Equal(t, "shared-type", orig.Name)
	assert.Equal(t, "k", orig.Properties[0].Key)
	assert.Equal(t, "shared", m.Components[0].Type)
	assert.Equal(t, "postgres", *m.Components[0].Artifacts[0].Name)
}
