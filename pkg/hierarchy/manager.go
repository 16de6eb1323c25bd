// Package hierarchy maintains the category and image specific component types of a
// deployment model.
//
// Category types form the fixed chain BaseType -> SoftwareApplication ->
// {DatabaseSystem, MessageBroker} and are created on demand. Image specific types
// are named "{identifier}-{category type}" and are merged, split or renamed so that
// at most one such type exists per identifier and category.
//
// None of the functions lock the model. Callers mutating a model from several
// goroutines hold tadm.DeploymentModel.Lock around them.
package hierarchy

import (
	"errors"
	"fmt"

	"github.com/lucas-albers-lz4/imgtype/pkg/classify"
	"github.com/lucas-albers-lz4/imgtype/pkg/log"
	"github.com/lucas-albers-lz4/imgtype/pkg/tadm"
)

// ErrMissingBaseType is returned when the model has no BaseType to anchor the
// category types to.
var ErrMissingBaseType = errors.New("model has no " + classify.BaseTypeName + " component type")

// ChangeKind names the mutation ApplySpecificType performed.
type ChangeKind string

// Possible outcomes of ApplySpecificType.
const (
	ChangeUnchanged ChangeKind = "unchanged"
	ChangeMerge     ChangeKind = "merge"
	ChangeSplit     ChangeKind = "split"
	ChangeRename    ChangeKind = "rename"
)

// Change records how a component's type was updated.
type Change struct {
	Kind ChangeKind `json:"kind" yaml:"kind"`
	// TypeID is the id of the component's type after the change.
	TypeID   string `json:"typeId" yaml:"typeId"`
	TypeName string `json:"typeName" yaml:"typeName"`
	// PreviousTypeID is the id the component referenced before the change.
	PreviousTypeID string `json:"previousTypeId,omitempty" yaml:"previousTypeId,omitempty"`
	// RemovedTypeID is set when the previous type was dropped from the model.
	RemovedTypeID string `json:"removedTypeId,omitempty" yaml:"removedTypeId,omitempty"`
}

// SpecificTypeName returns the name of the image specific type below categoryType.
func SpecificTypeName(identifier string, categoryType *tadm.ComponentType) string {
	return identifier + "-" + categoryType.Name
}

// GetOrCreateCategoryType returns the component type representing category,
// creating it and any missing parent category types. Creation fails with
// ErrMissingBaseType when the model has no BaseType.
func GetOrCreateCategoryType(m *tadm.DeploymentModel, category classify.Category) (*tadm.ComponentType, error) {
	name := category.TypeName()
	if t, ok := m.TypeByName(name); ok {
		return t, nil
	}

	var parentID string
	if parent, ok := category.Parent(); ok {
		pt, err := GetOrCreateCategoryType(m, parent)
		if err != nil {
			return nil, err
		}
		parentID = pt.ID
	} else {
		base, ok := m.TypeByName(classify.BaseTypeName)
		if !ok {
			return nil, fmt.Errorf("%w: cannot create %s", ErrMissingBaseType, name)
		}
		parentID = base.ID
	}

	t := &tadm.ComponentType{Name: name, ParentType: parentID}
	if err := m.AddType(t); err != nil {
		return nil, err
	}
	log.Debug("Created category type", "type", name, "id", t.ID)
	return t, nil
}

// ApplySpecificType moves component onto the type "{identifier}-{categoryType}".
//
// If that type exists, the component's previous type is merged into it: missing
// properties and operations are added and existing ones win. The previous type is
// removed once no component uses it and no type names it as parent. Well-known
// types are never removed. The existing type keeps its parent even if it differs
// from categoryType.
//
// Otherwise, if the previous type is shared with other components, is well-known
// or does not resolve, a new type is created below categoryType with a copy of
// the previous type's properties and operations. A previous type used by this
// component alone is renamed and re-parented.
func ApplySpecificType(m *tadm.DeploymentModel, component *tadm.Component, categoryType *tadm.ComponentType, identifier string) (Change, error) {
	name := SpecificTypeName(identifier, categoryType)
	prevID := component.Type
	prev, hasPrev := m.TypeByID(prevID)
	wellKnown := hasPrev && classify.IsWellKnownTypeName(prev.Name)

	if existing, ok := m.TypeByName(name); ok {
		if existing.ID == prevID {
			return Change{Kind: ChangeUnchanged, TypeID: existing.ID, TypeName: name, PreviousTypeID: prevID}, nil
		}
		if hasPrev {
			existing.AddPropertiesIfNotPresent(prev)
			existing.AddOperationsIfNotPresent(prev)
		}
		component.Type = existing.ID
		change := Change{Kind: ChangeMerge, TypeID: existing.ID, TypeName: name, PreviousTypeID: prevID}
		if hasPrev && !wellKnown {
			if m.RemoveTypeIfUnused(prevID) {
				change.RemovedTypeID = prevID
			} else if n := m.ChildTypeCount(prevID); n > 0 {
				log.Debug("Previous type kept for its child types", "type", prev.Name, "children", n)
			}
		}
		if existing.ParentType != categoryType.ID {
			log.Debug("Merged type keeps its parent", "type", name, "parent", existing.ParentType, "category", categoryType.Name)
		}
		return change, nil
	}

	if !hasPrev || wellKnown || m.UsageCount(prevID) > 1 {
		specific := &tadm.ComponentType{Name: name, ParentType: categoryType.ID}
		if hasPrev {
			cp := prev.Copy()
			specific.Properties = cp.Properties
			specific.Operations = cp.Operations
		}
		if err := m.AddType(specific); err != nil {
			return Change{}, err
		}
		component.Type = specific.ID
		return Change{Kind: ChangeSplit, TypeID: specific.ID, TypeName: name, PreviousTypeID: prevID}, nil
	}

	if err := m.RenameType(prevID, name); err != nil {
		return Change{}, err
	}
	prev.ParentType = categoryType.ID
	return Change{Kind: ChangeRename, TypeID: prevID, TypeName: name, PreviousTypeID: prevID}, nil
}
