package tadm

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Sentinel errors for model mutation.
var (
	ErrDuplicateTypeName = errors.New("component type name already exists")
	ErrDuplicateTypeID   = errors.New("component type id already exists")
	ErrTypeNotFound      = errors.New("component type not found")
	ErrTypeInUse         = errors.New("component type is still referenced")
	ErrTypeHasChildren   = errors.New("component type is the parent of other types")
)

// DeploymentModel owns the component types and components of one deployment.
//
// The model itself is not synchronized. Callers that mutate one model from several
// goroutines serialize the mutation through Lock and Unlock.
type DeploymentModel struct {
	ID                      string
	TransformationProcessID string
	Components              []*Component

	mu    sync.Mutex
	types map[string]*ComponentType
	order []string
}

// NewModel returns an empty model.
func NewModel() *DeploymentModel {
	return &DeploymentModel{types: make(map[string]*ComponentType)}
}

// Lock acquires the model's mutation lock.
func (m *DeploymentModel) Lock() { m.mu.Lock() }

// Unlock releases the model's mutation lock.
func (m *DeploymentModel) Unlock() { m.mu.Unlock() }

// NewID returns a fresh identifier for model elements.
func NewID() string {
	return uuid.NewString()
}

// Types returns the component types in insertion order.
func (m *DeploymentModel) Types() []*ComponentType {
	out := make([]*ComponentType, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.types[id])
	}
	return out
}

// TypeByID returns the component type with the given id.
func (m *DeploymentModel) TypeByID(id string) (*ComponentType, bool) {
	t, ok := m.types[id]
	return t, ok
}

// TypeByName returns the first component type with the given name.
func (m *DeploymentModel) TypeByName(name string) (*ComponentType, bool) {
	for _, id := range m.order {
		if t := m.types[id]; t.Name == name {
			return t, true
		}
	}
	return nil, false
}

// AddType inserts t, assigning a fresh id when t.ID is empty.
// It fails if another type already has the same id or name.
func (m *DeploymentModel) AddType(t *ComponentType) error {
	if t.ID == "" {
		t.ID = NewID()
	}
	if _, ok := m.types[t.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateTypeID, t.ID)
	}
	if _, ok := m.TypeByName(t.Name); ok {
		return fmt.Errorf("%w: %s", ErrDuplicateTypeName, t.Name)
	}
	m.insertType(t)
	return nil
}

func (m *DeploymentModel) insertType(t *ComponentType) {
	if m.types == nil {
		m.types = make(map[string]*ComponentType)
	}
	m.types[t.ID] = t
	m.order = append(m.order, t.ID)
}

// RenameType changes the name of the type with the given id.
func (m *DeploymentModel) RenameType(id, name string) error {
	t, ok := m.types[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrTypeNotFound, id)
	}
	if t.Name == name {
		return nil
	}
	if _, ok := m.TypeByName(name); ok {
		return fmt.Errorf("%w: %s", ErrDuplicateTypeName, name)
	}
	t.Name = name
	return nil
}

// RemoveType deletes the type with the given id. Types referenced by a
// component or named as parent by another type are not removed.
func (m *DeploymentModel) RemoveType(id string) error {
	if _, ok := m.types[id]; !ok {
		return fmt.Errorf("%w: %s", ErrTypeNotFound, id)
	}
	if n := m.UsageCount(id); n > 0 {
		return fmt.Errorf("%w: %s is used by %d component(s)", ErrTypeInUse, id, n)
	}
	if n := m.ChildTypeCount(id); n > 0 {
		return fmt.Errorf("%w: %s has %d child type(s)", ErrTypeHasChildren, id, n)
	}
	delete(m.types, id)
	for i, o := range m.order {
		if o == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

// RemoveTypeIfUnused removes the type when no component references it and no
// other type names it as parent, and reports whether it was removed.
func (m *DeploymentModel) RemoveTypeIfUnused(id string) bool {
	if _, ok := m.types[id]; !ok || m.UsageCount(id) > 0 || m.ChildTypeCount(id) > 0 {
		return false
	}
	return m.RemoveType(id) == nil
}

// ChildTypeCount returns how many types name the type with the given id as parent.
func (m *DeploymentModel) ChildTypeCount(id string) int {
	n := 0
	for _, t := range m.types {
		if t.ParentType == id && t.ID != id {
			n++
		}
	}
	return n
}

// UsageCount returns how many components reference the type with the given id.
func (m *DeploymentModel) UsageCount(id string) int {
	n := 0
	for _, c := range m.Components {
		if c.Type == id {
			n++
		}
	}
	return n
}

// ComponentsOfType returns the components referencing the type with the given id.
func (m *DeploymentModel) ComponentsOfType(id string) []*Component {
	var out []*Component
	for _, c := range m.Components {
		if c.Type == id {
			out = append(out, c)
		}
	}
	return out
}

// ComponentByID returns the component with the given id.
func (m *DeploymentModel) ComponentByID(id string) (*Component, bool) {
	for _, c := range m.Components {
		if c.ID == id {
			return c, true
		}
	}
	return nil, false
}

// AddComponent appends c, assigning a fresh id when c.ID is empty.
func (m *DeploymentModel) AddComponent(c *Component) {
	if c.ID == "" {
		c.ID = NewID()
	}
	m.Components = append(m.Components, c)
}

// Clone returns a deep copy of m that shares no mutable state with it.
func (m *DeploymentModel) Clone() *DeploymentModel {
	out := NewModel()
	out.ID = m.ID
	out.TransformationProcessID = m.TransformationProcessID
	for _, id := range m.order {
		out.insertType(m.types[id].Copy())
	}
	for _, c := range m.Components {
		out.Components = append(out.Components, c.Copy())
	}
	return out
}
