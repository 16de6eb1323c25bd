package task

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/lucas-albers-lz4/imgtype/pkg/log"
)

// Receiver dispatches incoming task messages by their format indicator.
type Receiver struct {
	service *Service
}

// NewReceiver creates a Receiver handing start requests to service.
func NewReceiver(service *Service) *Receiver {
	return &Receiver{service: service}
}

// Receive handles one message. An empty formatIndicator means the header was
// missing. Only FormatStartRequest is accepted; anything else yields a failure
// response without a task id.
func (r *Receiver) Receive(ctx context.Context, formatIndicator string, body []byte) Response {
	switch formatIndicator {
	case "":
		log.Warn("Rejecting message without format indicator")
		return FailureResponse(nil, MsgMissingFormat)
	case FormatStartRequest:
		var req StartRequest
		if err := json.Unmarshal(body, &req); err != nil {
			log.Warn("Rejecting malformed start request", "error", err)
			return FailureResponse(nil, fmt.Sprintf("Could not process message: %v", err))
		}
		if err := req.Validate(); err != nil {
			log.Warn("Rejecting invalid start request", "error", err)
			var taskID *uuid.UUID
			if req.TaskID != uuid.Nil {
				taskID = &req.TaskID
			}
			return FailureResponse(taskID, fmt.Sprintf("Could not process message: %v", err))
		}
		log.Info("Received analysis task", "task", req.TaskID.String(), "process", req.TransformationProcessID.String())
		return r.service.StartAnalysis(ctx, req)
	default:
		log.Warn("Rejecting message with unknown format", "formatIndicator", formatIndicator)
		return FailureResponse(nil, MsgUnknownFormat)
	}
}
