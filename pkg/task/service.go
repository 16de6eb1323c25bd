package task

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/lucas-albers-lz4/imgtype/pkg/analysis"
	"github.com/lucas-albers-lz4/imgtype/pkg/log"
)

// Failure kinds reported by the service besides the analysis kinds.
const (
	KindModelRetrieval analysis.Kind = "ModelRetrieval"
	KindModelUpdate    analysis.Kind = "ModelUpdate"
)

// Service runs analysis tasks against a ModelStore.
type Service struct {
	store    ModelStore
	analyzer *analysis.Analyzer
}

// NewService creates a Service.
func NewService(store ModelStore, analyzer *analysis.Analyzer) *Service {
	return &Service{store: store, analyzer: analyzer}
}

// StartAnalysis loads the model of the request's transformation process, analyses
// the requested components and stores the updated model. The analysis runs on a
// copy, so a failed task leaves the stored model untouched.
//
// Failures are reported in the response as "<kind>: <message>".
func (s *Service) StartAnalysis(ctx context.Context, req StartRequest) Response {
	logger := log.With("task", req.TaskID.String(), "process", req.TransformationProcessID.String())
	taskID := req.TaskID

	ids, ok := req.ComponentIDs()
	if !ok {
		logger.Warn("Analysis request has no component list")
		return failure(&taskID, analysis.KindNoComponentsRequested, errors.New(MsgNoComponentsInRequest))
	}

	stored, err := s.store.Get(ctx, req.TransformationProcessID)
	if err != nil {
		logger.Error("Failed to retrieve deployment model", "error", err)
		return failure(&taskID, KindModelRetrieval, err)
	}

	m := stored.Clone()
	result, err := s.analyzer.Analyze(ctx, m, ids)
	if err != nil {
		logger.Error("Analysis failed", "error", err)
		return failure(&taskID, analysis.KindOf(err), err)
	}

	if err := s.store.Update(ctx, req.TransformationProcessID, m); err != nil {
		logger.Error("Failed to update deployment model", "error", err)
		return failure(&taskID, KindModelUpdate, err)
	}

	logger.Info("Analysis task completed", "analyzed", len(result.Analyzed), "skipped", len(result.Skipped))
	return SuccessResponse(taskID)
}

// failure formats err as "<kind>: <message>". Analysis errors already render
// that way.
func failure(taskID *uuid.UUID, kind analysis.Kind, err error) Response {
	var aerr *analysis.Error
	if errors.As(err, &aerr) {
		return FailureResponse(taskID, aerr.Error())
	}
	return FailureResponse(taskID, fmt.Sprintf("%s: %s", kind, err))
}
