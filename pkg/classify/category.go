// Package classify maps image identifiers to the category that decides where a
// component is attached in the type hierarchy.
package classify

import (
	"fmt"

	"github.com/lucas-albers-lz4/imgtype/pkg/tadm"
)

// Names of the well-known component types forming the category chain
// BaseType -> SoftwareApplication -> {DatabaseSystem, MessageBroker}.
const (
	BaseTypeName            = tadm.BaseTypeName
	SoftwareApplicationName = "SoftwareApplication"
	DatabaseSystemName      = "DatabaseSystem"
	MessageBrokerName       = "MessageBroker"
)

// Category is the outcome of classifying an image identifier.
type Category int

const (
	// Generic is any software application that is neither a database nor a broker.
	Generic Category = iota
	// Database marks database system images.
	Database
	// MessageBroker marks message broker images.
	MessageBroker
)

// Categories lists every category in declaration order.
var Categories = []Category{Generic, Database, MessageBroker}

// TypeName returns the name of the component type representing c.
func (c Category) TypeName() string {
	switch c {
	case Database:
		return DatabaseSystemName
	case MessageBroker:
		return MessageBrokerName
	default:
		return SoftwareApplicationName
	}
}

// Parent returns the category whose type is the parent of c's type.
// Generic has no parent category; its type hangs directly below BaseType,
// which is signalled by ok == false.
func (c Category) Parent() (parent Category, ok bool) {
	switch c {
	case Database, MessageBroker:
		return Generic, true
	default:
		return Generic, false
	}
}

func (c Category) String() string {
	switch c {
	case Generic:
		return "generic"
	case Database:
		return "database"
	case MessageBroker:
		return "message-broker"
	default:
		return fmt.Sprintf("category(%d)", int(c))
	}
}

// IsWellKnownTypeName reports whether name is BaseType or one of the category types.
func IsWellKnownTypeName(name string) bool {
	switch name {
	case BaseTypeName, SoftwareApplicationName, DatabaseSystemName, MessageBrokerName:
		return true
	}
	return false
}
