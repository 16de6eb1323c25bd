package tadm

import (
	"fmt"
	"strings"
)

// BaseTypeName is the root every parented component type must resolve to.
const BaseTypeName = "BaseType"

// ViolationKind names a broken model invariant.
type ViolationKind string

// Violation kinds reported by Validate.
const (
	DuplicateTypeName      ViolationKind = "DuplicateTypeName"
	UnknownParentType      ViolationKind = "UnknownParentType"
	ParentCycle            ViolationKind = "ParentCycle"
	UnanchoredParentChain  ViolationKind = "UnanchoredParentChain"
	DuplicatePropertyKey   ViolationKind = "DuplicatePropertyKey"
	DuplicateOperationName ViolationKind = "DuplicateOperationName"
	UnknownComponentType   ViolationKind = "UnknownComponentType"
)

// Violation describes one broken invariant.
type Violation struct {
	Kind    ViolationKind `json:"kind" yaml:"kind"`
	Subject string        `json:"subject" yaml:"subject"`
	Detail  string        `json:"detail" yaml:"detail"`
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s: %s", v.Kind, v.Subject, v.Detail)
}

// ValidationError is returned by Validate when at least one invariant is broken.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = v.String()
	}
	return fmt.Sprintf("model has %d violation(s): %s", len(e.Violations), strings.Join(parts, "; "))
}

// Validate checks the structural invariants of the model and reports every
// violation it finds:
//   - component type names are unique
//   - parent ids resolve, parent chains are acyclic, and any chain that has a
//     parent ends in BaseType
//   - property keys and operation names are unique within a type
//   - every component references an existing type
func (m *DeploymentModel) Validate() error {
	var violations []Violation
	add := func(kind ViolationKind, subject, format string, args ...any) {
		violations = append(violations, Violation{Kind: kind, Subject: subject, Detail: fmt.Sprintf(format, args...)})
	}

	seen := make(map[string]string)
	for _, t := range m.Types() {
		if first, ok := seen[t.Name]; ok {
			add(DuplicateTypeName, t.Name, "types %s and %s share the name", first, t.ID)
		} else {
			seen[t.Name] = t.ID
		}

		if dup := firstDuplicate(len(t.Properties), func(i int) string { return t.Properties[i].Key }); dup != "" {
			add(DuplicatePropertyKey, t.Name, "property key %q appears more than once", dup)
		}
		if dup := firstDuplicate(len(t.Operations), func(i int) string { return t.Operations[i].Name }); dup != "" {
			add(DuplicateOperationName, t.Name, "operation %q appears more than once", dup)
		}

		if t.ParentType == "" {
			continue
		}
		root, kind, detail := m.resolveRoot(t)
		switch {
		case kind != "":
			add(kind, t.Name, "%s", detail)
		case root.Name != BaseTypeName:
			add(UnanchoredParentChain, t.Name, "parent chain ends in %q instead of %s", root.Name, BaseTypeName)
		}
	}

	for _, c := range m.Components {
		if _, ok := m.types[c.Type]; !ok {
			add(UnknownComponentType, c.Name, "component %s references unknown type %q", c.ID, c.Type)
		}
	}

	if len(violations) > 0 {
		return &ValidationError{Violations: violations}
	}
	return nil
}

// resolveRoot walks t's parent chain to its root.
func (m *DeploymentModel) resolveRoot(t *ComponentType) (*ComponentType, ViolationKind, string) {
	visited := map[string]bool{t.ID: true}
	cur := t
	for cur.ParentType != "" {
		parent, ok := m.types[cur.ParentType]
		if !ok {
			return nil, UnknownParentType, fmt.Sprintf("type %q has unknown parent %q", cur.Name, cur.ParentType)
		}
		if visited[parent.ID] {
			return nil, ParentCycle, fmt.Sprintf("parent chain revisits %q", parent.Name)
		}
		visited[parent.ID] = true
		cur = parent
	}
	return cur, "", ""
}

// Ancestors returns the names along t's parent chain, starting with t itself.
// The walk stops at an unknown parent or when a cycle is detected.
func (m *DeploymentModel) Ancestors(t *ComponentType) []string {
	names := []string{t.Name}
	visited := map[string]bool{t.ID: true}
	for cur := t; cur.ParentType != ""; {
		parent, ok := m.types[cur.ParentType]
		if !ok || visited[parent.ID] {
			break
		}
		visited[parent.ID] = true
		names = append(names, parent.Name)
		cur = parent
	}
	return names
}

func firstDuplicate(n int, key func(int) string) string {
	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		k := key(i)
		if _, ok := seen[k]; ok {
			return k
		}
		seen[k] = struct{}{}
	}
	return ""
}
