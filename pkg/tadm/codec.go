package tadm

import (
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"

	"github.com/lucas-albers-lz4/imgtype/pkg/fileutil"
)

// Format selects the serialization of a model document.
type Format string

// Supported document formats.
const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatForPath picks the format from a file extension; anything but .json is YAML.
func FormatForPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// document is the serialized layout of a DeploymentModel.
type document struct {
	ID                      string           `json:"id,omitempty"`
	TransformationProcessID string           `json:"transformationProcessId,omitempty"`
	ComponentTypes          []*ComponentType `json:"componentTypes"`
	Components              []*Component     `json:"components"`
}

// MarshalJSON encodes the model with its component types in insertion order.
func (m *DeploymentModel) MarshalJSON() ([]byte, error) {
	doc := document{
		ID:                      m.ID,
		TransformationProcessID: m.TransformationProcessID,
		ComponentTypes:          m.Types(),
		Components:              m.Components,
	}
	if doc.ComponentTypes == nil {
		doc.ComponentTypes = []*ComponentType{}
	}
	if doc.Components == nil {
		doc.Components = []*Component{}
	}
	return json.Marshal(doc)
}

// UnmarshalJSON decodes a model document. Types without an id receive a fresh one;
// two types with the same id are rejected. Duplicate names are kept so that
// Validate can report them.
func (m *DeploymentModel) UnmarshalJSON(data []byte) error {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	m.ID = doc.ID
	m.TransformationProcessID = doc.TransformationProcessID
	m.types = make(map[string]*ComponentType, len(doc.ComponentTypes))
	m.order = nil
	for _, t := range doc.ComponentTypes {
		if t == nil {
			continue
		}
		if t.ID == "" {
			t.ID = NewID()
		}
		if _, ok := m.types[t.ID]; ok {
			return errors.Wrapf(ErrDuplicateTypeID, "component type %s", t.ID)
		}
		m.insertType(t)
	}
	m.Components = m.Components[:0]
	for _, c := range doc.Components {
		if c != nil {
			m.Components = append(m.Components, c)
		}
	}
	return nil
}

// Decode parses a YAML or JSON model document.
func Decode(data []byte) (*DeploymentModel, error) {
	m := NewModel()
	if err := yaml.Unmarshal(data, m); err != nil {
		return nil, errors.Wrap(err, "decode deployment model")
	}
	return m, nil
}

// Encode serializes m in the given format.
func Encode(m *DeploymentModel, format Format) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	switch format {
	case FormatJSON:
		data, err = json.MarshalIndent(m, "", "  ")
		if err == nil {
			data = append(data, '\n')
		}
	default:
		data, err = yaml.Marshal(m)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "encode deployment model as %s", format)
	}
	return data, nil
}

// Load reads a model document from fs.
func Load(fs afero.Fs, path string) (*DeploymentModel, error) {
	data, err := fileutil.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Wrap(err, "load deployment model")
	}
	m, err := Decode(data)
	if err != nil {
		return nil, errors.Wrapf(err, "load deployment model from %s", path)
	}
	return m, nil
}

// Save writes m to path on fs, choosing the format from the extension.
func Save(fs afero.Fs, path string, m *DeploymentModel) error {
	data, err := Encode(m, FormatForPath(path))
	if err != nil {
		return err
	}
	return errors.Wrap(fileutil.WriteFile(fs, path, data), "save deployment model")
}
