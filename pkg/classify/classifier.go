package classify

// Identifiers holds the two lookup tables used for classification.
// The yaml/json tags match the configuration keys under "image-identifiers".
type Identifiers struct {
	Database      []string `json:"database" yaml:"database"`
	MessageBroker []string `json:"message-broker" yaml:"message-broker"`
}

// DefaultIdentifiers returns the built-in identifier tables used when no
// configuration overrides them.
func DefaultIdentifiers() Identifiers {
	return Identifiers{
		Database: []string{
			"postgres", "mysql", "mariadb", "mongo", "redis", "cassandra",
			"couchdb", "neo4j", "influxdb", "elasticsearch", "memcached", "mssql-server",
		},
		MessageBroker: []string{
			"rabbitmq", "kafka", "activemq", "nats", "mosquitto", "emqx", "pulsar",
		},
	}
}

// Classifier assigns a Category to image identifiers. It is immutable after
// construction and safe for concurrent use.
type Classifier struct {
	database      map[string]struct{}
	messageBroker map[string]struct{}
}

// NewClassifier builds a Classifier from the given identifier tables.
func NewClassifier(ids Identifiers) *Classifier {
	return &Classifier{
		database:      toSet(ids.Database),
		messageBroker: toSet(ids.MessageBroker),
	}
}

// Classify returns Database if identifier is in the database table, otherwise
// MessageBroker if it is in the broker table, otherwise Generic.
// Matching is exact and case-sensitive.
func (c *Classifier) Classify(identifier string) Category {
	if _, ok := c.database[identifier]; ok {
		return Database
	}
	if _, ok := c.messageBroker[identifier]; ok {
		return MessageBroker
	}
	return Generic
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
