// Package tadm implements the technology-agnostic deployment model: component
// types, components and their artifacts.
//
// Component types live in an arena keyed by id. Components refer to their type by
// id, so a type shared by several components is a single arena entry and
// "remove if unused" is an explicit usage count over the components.
package tadm

// DockerImageArtifactType is the artifact type discriminator for container images.
const DockerImageArtifactType = "docker_image"

// Property is a typed key/value attached to a component or component type.
type Property struct {
	Key          string `json:"key"`
	Type         string `json:"type,omitempty"`
	Required     bool   `json:"required,omitempty"`
	DefaultValue any    `json:"defaultValue,omitempty"`
	Value        any    `json:"value,omitempty"`
}

// Operation is a named operation with the artifacts implementing it.
type Operation struct {
	Name      string     `json:"name"`
	Artifacts []Artifact `json:"artifacts,omitempty"`
}

// Artifact is a named, typed payload. Name is nil when the model carries no name.
type Artifact struct {
	Type    string  `json:"type"`
	Name    *string `json:"name,omitempty"`
	FileURI string  `json:"fileUri,omitempty"`
}

// ComponentType is a named, inheritable type definition. ParentType holds the id
// of the parent type, empty for a root.
type ComponentType struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	ParentType  string      `json:"parentType,omitempty"`
	Properties  []Property  `json:"properties,omitempty"`
	Operations  []Operation `json:"operations,omitempty"`
}

// Component is a deployable unit. Type holds the id of its component type.
type Component struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Type        string      `json:"type"`
	Properties  []Property  `json:"properties,omitempty"`
	Operations  []Operation `json:"operations,omitempty"`
	Artifacts   []Artifact  `json:"artifacts,omitempty"`
}

// StringPtr returns a pointer to s, for building artifacts.
func StringPtr(s string) *string {
	return &s
}

// DockerImageArtifact returns the first docker image artifact of c.
// The pointer refers into c.Artifacts and may be used to update the artifact.
func (c *Component) DockerImageArtifact() (*Artifact, bool) {
	for i := range c.Artifacts {
		if c.Artifacts[i].Type == DockerImageArtifactType {
			return &c.Artifacts[i], true
		}
	}
	return nil, false
}

// AddPropertiesIfNotPresent appends the properties of other whose keys are not yet
// present on t. Existing properties are never overwritten.
func (t *ComponentType) AddPropertiesIfNotPresent(other *ComponentType) {
	keys := make(map[string]struct{}, len(t.Properties))
	for _, p := range t.Properties {
		keys[p.Key] = struct{}{}
	}
	for _, p := range other.Properties {
		if _, ok := keys[p.Key]; ok {
			continue
		}
		t.Properties = append(t.Properties, p)
		keys[p.Key] = struct{}{}
	}
}

// AddOperationsIfNotPresent appends the operations of other whose names are not
// yet present on t. Existing operations are never overwritten.
func (t *ComponentType) AddOperationsIfNotPresent(other *ComponentType) {
	names := make(map[string]struct{}, len(t.Operations))
	for _, o := range t.Operations {
		names[o.Name] = struct{}{}
	}
	for _, o := range other.Operations {
		if _, ok := names[o.Name]; ok {
			continue
		}
		t.Operations = append(t.Operations, copyOperation(o))
		names[o.Name] = struct{}{}
	}
}

// Copy returns a deep copy of t.
func (t *ComponentType) Copy() *ComponentType {
	c := *t
	c.Properties = copyProperties(t.Properties)
	c.Operations = copyOperations(t.Operations)
	return &c
}

// Copy returns a deep copy of c.
func (c *Component) Copy() *Component {
	cp := *c
	cp.Properties = copyProperties(c.Properties)
	cp.Operations = copyOperations(c.Operations)
	cp.Artifacts = copyArtifacts(c.Artifacts)
	return &cp
}

func copyProperties(in []Property) []Property {
	if in == nil {
		return nil
	}
	out := make([]Property, len(in))
	copy(out, in)
	return out
}

func copyOperations(in []Operation) []Operation {
	if in == nil {
		return nil
	}
	out := make([]Operation, len(in))
	for i, o := range in {
		out[i] = copyOperation(o)
	}
	return out
}

func copyOperation(o Operation) Operation {
	o.Artifacts = copyArtifacts(o.Artifacts)
	return o
}

func copyArtifacts(in []Artifact) []Artifact {
	if in == nil {
		return nil
	}
	out := make([]Artifact, len(in))
	for i, a := range in {
		if a.Name != nil {
			a.Name = StringPtr(*a.Name)
		}
		out[i] = a
	}
	return out
}
