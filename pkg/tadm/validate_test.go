package tadm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func violationKinds(t *testing.T, err error) []ViolationKind {
	t.Helper()
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	kinds := make([]ViolationKind, len(verr.Violations))
	for i, v := range verr.Violations {
		kinds[i] = v.Kind
	}
	return kinds
}

func TestValidateValidModel(t *testing.T) {
	m := NewModel()
	require.NoError(t, m.AddType(&ComponentType{ID: "base", Name: BaseTypeName}))
	require.NoError(t, m.AddType(&ComponentType{ID: "app", Name: "SoftwareApplication", ParentType: "base"}))
	require.NoError(t, m.AddType(&ComponentType{ID: "loose", Name: "UnparentedType"}))
	m.AddComponent(&Component{ID: "c", Name: "c", Type: "app"})

	assert.NoError(t, m.Validate())
	typ, _ := m.TypeByID("app")
	assert.Equal(t, []string{"SoftwareApplication", BaseTypeName}, m.Ancestors(typ))
}

func TestValidateReportsEveryViolation(t *testing.T) {
	doc := `
componentTypes:
  - {id: base, name: BaseType}
  - {id: a, name: dup, parentType: base}
  - {id: b, name: dup, parentType: base}
  - {id: orphan, name: orphan, parentType: missing}
  - {id: x, name: x, parentType: y}
  - {id: y, name: y, parentType: x}
  - {id: root, name: OtherRoot}
  - {id: other, name: other, parentType: root}
  - id: props
    name: props
    properties: [{key: k}, {key: k}]
    operations: [{name: o}, {name: o}]
components:
  - {id: c1, name: broken, type: nowhere}
`
	m, err := Decode([]byte(doc))
	require.NoError(t, err)

	err = m.Validate()
	assert.Equal(t, []ViolationKind{
		DuplicateTypeName,
		UnknownParentType,
		ParentCycle,
		ParentCycle,
		UnanchoredParentChain,
		DuplicatePropertyKey,
		DuplicateOperationName,
		UnknownComponentType,
	}, violationKinds(t, err))
	assert.Contains(t, err.Error(), "model has 8 violation(s)")
}

func TestAncestorsStopsOnCycle(t *testing.T) {
	m := NewModel()
	require.NoError(t, m.AddType(&ComponentType{ID: "x", Name: "x", ParentType: "y"}))
	require.NoError(t, m.AddType(&ComponentType{ID: "y", Name: "y", ParentType: "x"}))
	x, _ := m.TypeByID("x")
	assert.Equal(t, []string{"x", "y"}, m.Ancestors(x))
}
