// Package analysis classifies the docker images of deployment model components and
// moves each component onto the matching image specific type.
package analysis

import (
	"errors"
	"fmt"

	"github.com/lucas-albers-lz4/imgtype/pkg/hierarchy"
	"github.com/lucas-albers-lz4/imgtype/pkg/image"
)

// ErrNoComponentsRequested is returned when the list of component ids is empty.
var ErrNoComponentsRequested = errors.New("no components requested for analysis")

// Kind identifies the class of an analysis failure.
type Kind string

// Failure kinds. MissingImageReference and InvalidImageURI skip a single
// component; MissingBaseType and NoComponentsRequested end the batch.
const (
	KindMissingImageReference Kind = "MissingImageReference"
	KindInvalidImageURI       Kind = "InvalidImageURI"
	KindMissingBaseType       Kind = "MissingBaseType"
	KindNoComponentsRequested Kind = "NoComponentsRequested"
	KindInternal              Kind = "Internal"
)

// Error describes a failed component or batch.
type Error struct {
	Kind        Kind
	ComponentID string
	Identifier  string
	Err         error
}

func (e *Error) Error() string {
	msg := string(e.Kind) + ":"
	if e.ComponentID != "" {
		msg += " component " + e.ComponentID
		if e.Identifier != "" {
			msg += fmt.Sprintf(" (identifier %s)", e.Identifier)
		}
		msg += ":"
	}
	if e.Err != nil {
		msg += " " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf maps err to its failure kind using the package sentinels.
func KindOf(err error) Kind {
	var aerr *Error
	switch {
	case errors.As(err, &aerr):
		return aerr.Kind
	case errors.Is(err, image.ErrMissingImageReference):
		return KindMissingImageReference
	case errors.Is(err, image.ErrInvalidImageURI):
		return KindInvalidImageURI
	case errors.Is(err, hierarchy.ErrMissingBaseType):
		return KindMissingBaseType
	case errors.Is(err, ErrNoComponentsRequested):
		return KindNoComponentsRequested
	default:
		return KindInternal
	}
}

// ComponentResult describes the outcome for one classified component.
type ComponentResult struct {
	ComponentID string `json:"componentId" yaml:"componentId"`
	Image       string `json:"image" yaml:"image"`
	Identifier  string `json:"identifier" yaml:"identifier"`
	Category    string `json:"category" yaml:"category"`
	// FileURI is set when the artifact URI was derived in this batch.
	FileURI string           `json:"fileUri,omitempty" yaml:"fileUri,omitempty"`
	Change  hierarchy.Change `json:"change" yaml:"change"`
}

// Skip records a component that was left untouched.
type Skip struct {
	ComponentID string `json:"componentId" yaml:"componentId"`
	Identifier  string `json:"identifier,omitempty" yaml:"identifier,omitempty"`
	Kind        Kind   `json:"kind" yaml:"kind"`
	Reason      string `json:"reason" yaml:"reason"`
}

// Result summarizes one analysis batch.
type Result struct {
	Analyzed []ComponentResult `json:"analyzed" yaml:"analyzed"`
	Skipped  []Skip            `json:"skipped,omitempty" yaml:"skipped,omitempty"`
}

// Changed reports whether the batch modified the model.
func (r *Result) Changed() bool {
	for _, a := range r.Analyzed {
		if a.Change.Kind != hierarchy.ChangeUnchanged || a.FileURI != "" {
			return true
		}
	}
	return false
}

func newSkip(err *Error) Skip {
	reason := ""
	if err.Err != nil {
		reason = err.Err.Error()
	}
	return Skip{ComponentID: err.ComponentID, Identifier: err.Identifier, Kind: err.Kind, Reason: reason}
}
