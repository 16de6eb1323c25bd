package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	c := NewClassifier(Identifiers{
		Database:      []string{"postgres", "mysql", "shared"},
		MessageBroker: []string{"kafka", "rabbitmq", "shared"},
	})

	tests := []struct {
		identifier string
		want       Category
	}{
		{identifier: "postgres", want: Database},
		{identifier: "mysql", want: Database},
		{identifier: "kafka", want: MessageBroker},
		{identifier: "rabbitmq", want: MessageBroker},
		{identifier: "shared", want: Database},
		{identifier: "minio", want: Generic},
		{identifier: "Postgres", want: Generic},
		{identifier: "postgres-exporter", want: Generic},
		{identifier: "", want: Generic},
	}

	for _, tt := range tests {
		t.Run(tt.identifier, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.identifier))
		})
	}
}

func TestClassifyWithEmptyTables(t *testing.T) {
	c := NewClassifier(Identifiers{})
	assert.Equal(t, Generic, c.Classify("postgres"))
}

func TestDefaultIdentifiersAreValid(t *testing.T) {
	ids := DefaultIdentifiers()
	assert.NoError(t, ids.Validate())

	c := NewClassifier(ids)
	assert.Equal(t, Database, c.Classify("postgres"))
	assert.Equal(t, MessageBroker, c.Classify("kafka"))
	assert.Equal(t, Generic, c.Classify("minio"))
}

func TestCategoryTypeNamesAndParents(t *testing.T) {
	assert.Equal(t, SoftwareApplicationName, Generic.TypeName())
	assert.Equal(t, DatabaseSystemName, Database.TypeName())
	assert.Equal(t, MessageBrokerName, MessageBroker.TypeName())

	parent, ok := Database.Parent()
	assert.True(t, ok)
	assert.Equal(t, Generic, parent)

	parent, ok = MessageBroker.Parent()
	assert.True(t, ok)
	assert.Equal(t, Generic, parent)

	_, ok = Generic.Parent()
	assert.False(t, ok)
}

func TestCategoryString(t *testing.T) {
	assert.Equal(t, "generic", Generic.String())
	assert.Equal(t, "database", Database.String())
	assert.Equal(t, "message-broker", MessageBroker.String())
	assert.Equal(t, "category(7)", Category(7).String())
}

func TestIsWellKnownTypeName(t *testing.T) {
	for _, name := range []string{BaseTypeName, SoftwareApplicationName, DatabaseSystemName, MessageBrokerName} {
		assert.True(t, IsWellKnownTypeName(name), name)
	}
	assert.False(t, IsWellKnownTypeName("postgres-DatabaseSystem"))
}
