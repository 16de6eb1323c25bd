// Package task runs analysis tasks: it decodes start requests, loads the model of
// the transformation process from a ModelStore, analyses the requested components
// and persists the result.
package task

import (
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// FormatStartRequest is the format indicator of an analysis task start request.
const FormatStartRequest = "AnalysisTaskStartRequest"

// ComponentEntitiesType names the entity list holding the component ids to analyse.
const ComponentEntitiesType = "Component"

// Failure messages for requests that cannot be dispatched.
const (
	MsgUnknownFormat         = "Could not process message: Unknown format of request message."
	MsgMissingFormat         = "Could not process message: Header with formatIndicator missing."
	MsgNoComponentsInRequest = "No components to analyze in request."
)

// Entities lists the ids of one kind of model entity.
type Entities struct {
	Type string   `json:"tadmEntitiesType" validate:"required"`
	IDs  []string `json:"tadmEntityIds"`
}

// StartRequest asks for the analysis of entities of a transformation process.
type StartRequest struct {
	TaskID                  uuid.UUID  `json:"taskId" validate:"required"`
	TransformationProcessID uuid.UUID  `json:"transformationProcessId" validate:"required"`
	Entities                []Entities `json:"tadmEntities" validate:"dive"`
}

var requestValidator = validator.New()

// Validate checks that both ids are set and every entity list names its type.
func (r StartRequest) Validate() error {
	return requestValidator.Struct(r)
}

// ComponentIDs returns the ids of the first "Component" entity list and whether
// such a list was present.
func (r StartRequest) ComponentIDs() ([]string, bool) {
	for _, e := range r.Entities {
		if e.Type == ComponentEntitiesType {
			return e.IDs, true
		}
	}
	return nil, false
}

// Response reports the outcome of a task. TaskID is nil when the request could
// not be decoded far enough to know it.
type Response struct {
	TaskID       *uuid.UUID `json:"taskId"`
	Success      bool       `json:"success"`
	ErrorMessage string     `json:"errorMessage,omitempty"`
}

// SuccessResponse builds a successful response for taskID.
func SuccessResponse(taskID uuid.UUID) Response {
	return Response{TaskID: &taskID, Success: true}
}

// FailureResponse builds a failed response. A nil taskID is kept as nil.
func FailureResponse(taskID *uuid.UUID, message string) Response {
	return Response{TaskID: taskID, Success: false, ErrorMessage: message}
}
