package service

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"seletivo_backend/internals/events"
	"seletivo_backend/internals/features/assessments/progress/dto"
	testService "seletivo_backend/internals/features/assessments/tests/service"
	candService "seletivo_backend/internals/features/candidates/candidates/service"
	helper "seletivo_backend/internals/helpers"
)

// FlowService chains detection, reconciliation and finalization after a
// candidate action.
type FlowService struct {
	DB         *gorm.DB
	Completion *CompletionService
	Reconciler *ReconcilerService
	Finalizer  *FinalizerService
}

func NewFlowService(db *gorm.DB, pub events.Publisher) *FlowService {
	return &FlowService{
		DB:         db,
		Completion: NewCompletionService(db),
		Reconciler: NewReconcilerService(db, pub),
		Finalizer:  NewFinalizerService(db, pub),
	}
}

type FlowOutcome struct {
	StageCompleted     bool
	CandidateCompleted bool
	Warning            string
}

// AfterSubmission runs once a response batch is stored. The responses are
// already committed, so nothing here fails the request: problems end up in
// the log and in Warning.
func (f *FlowService) AfterSubmission(ctx context.Context, candidateID uuid.UUID, ref helper.StageRefInput) FlowOutcome {
	var out FlowOutcome

	check, stage, err := f.Completion.Check(ctx, candidateID, ref)
	if err != nil {
		logFlowError(err, candidateID, ref.String(), "completion check after submission")
		out.Warning = "Não foi possível verificar a conclusão da etapa"
		return out
	}
	if !check.Completed {
		return out
	}
	out.StageCompleted = true

	res := f.Reconciler.Reconcile(ctx, candidateID, stage.StageID, stage.StageName)
	switch {
	case !res.Success:
		out.Warning = res.Message
	case res.Warning != "":
		out.Warning = res.Warning
	}

	done, err := f.Finalizer.FinalizeIfDone(ctx, candidateID)
	if err != nil {
		logFlowError(err, candidateID, ref.String(), "finalize after submission")
		return out
	}
	out.CandidateCompleted = done
	return out
}

// MarkCompleted is the explicit "stage done" call from the client. It always
// answers with a result body; reconciliation failures become Success=false.
func (f *FlowService) MarkCompleted(ctx context.Context, req *dto.MarkStageCompletedRequest) (*dto.MarkStageCompletedResponse, error) {
	candidateID, err := helper.ParseUUIDField(req.CandidateID, "candidateId")
	if err != nil {
		return nil, err
	}
	ref, err := helper.ParseStageRef(req.StageID)
	if err != nil {
		return nil, err
	}
	cand, err := candService.FindCandidate(ctx, f.DB, candidateID)
	if err != nil {
		return nil, err
	}

	stageID := ref.ID
	stageName := req.StageName
	stage, err := testService.ResolveStage(ctx, f.DB, cand, ref)
	switch {
	case err == nil:
		stageID = stage.StageID
		if stageName == "" {
			stageName = stage.StageName
		}
	case errors.Is(err, testService.ErrStageNotFound) && !ref.IsOrder:
		// may be a process stage id; the reconciler matches it directly
	default:
		return nil, err
	}

	res := f.Reconciler.Reconcile(ctx, candidateID, stageID, stageName)
	out := &dto.MarkStageCompletedResponse{
		Success: res.Success,
		Message: res.Message,
		Warning: res.Warning,
	}
	if res.Success {
		if _, err := f.Finalizer.FinalizeIfDone(ctx, candidateID); err != nil {
			logFlowError(err, candidateID, ref.String(), "finalize after mark completed")
		}
	}
	return out, nil
}

func logFlowError(err error, candidateID uuid.UUID, stage, msg string) {
	var fe *fiber.Error
	ev := log.Error()
	if errors.As(err, &fe) {
		ev = log.Warn()
	}
	ev.Err(err).
		Str("candidate_id", candidateID.String()).
		Str("stage", stage).
		Msg(msg)
}
