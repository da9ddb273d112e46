package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"seletivo_backend/internals/features/assessments/progress/dto"
	"seletivo_backend/internals/features/assessments/progress/model"
	testModel "seletivo_backend/internals/features/assessments/tests/model"
	testService "seletivo_backend/internals/features/assessments/tests/service"
	candModel "seletivo_backend/internals/features/candidates/candidates/model"
	candService "seletivo_backend/internals/features/candidates/candidates/service"
	helper "seletivo_backend/internals/helpers"
)

const (
	msgStageComplete    = "Etapa concluída"
	msgStageIncomplete  = "Etapa ainda não concluída"
	msgStageNoQuestions = "Esta etapa não possui perguntas"
)

type CompletionService struct {
	DB *gorm.DB
}

func NewCompletionService(db *gorm.DB) *CompletionService {
	return &CompletionService{DB: db}
}

// Check reports whether the candidate answered every question of the stage.
// A completed progress row short-circuits the count only when it was written
// for this stage through a strong match.
func (s *CompletionService) Check(ctx context.Context, candidateID uuid.UUID, ref helper.StageRefInput) (*dto.StageCompletionResponse, *testService.ResolvedStage, error) {
	cand, err := candService.FindCandidate(ctx, s.DB, candidateID)
	if err != nil {
		return nil, nil, err
	}
	stage, err := testService.ResolveStage(ctx, s.DB, cand, ref)
	if err != nil {
		return nil, nil, err
	}

	done, err := s.progressCompleted(ctx, cand, stage)
	if err != nil {
		return nil, nil, err
	}
	if done {
		return &dto.StageCompletionResponse{
			Completed: true,
			Message:   msgStageComplete,
			StageID:   stage.StageID.String(),
		}, stage, nil
	}

	answered, total, err := CountStage(ctx, s.DB, candidateID, stage.StageID)
	if err != nil {
		return nil, nil, err
	}

	out := &dto.StageCompletionResponse{
		AnsweredQuestions: &answered,
		TotalQuestions:    &total,
		StageID:           stage.StageID.String(),
	}
	switch {
	case total == 0:
		out.Message = msgStageNoQuestions
	case answered >= total:
		out.Completed = true
		out.Message = msgStageComplete
	default:
		out.Message = msgStageIncomplete
	}
	return out, stage, nil
}

// CountStage returns the distinct questions of the stage the candidate
// answered and the stage's question total. Soft-deleted questions count in
// neither.
func CountStage(ctx context.Context, db *gorm.DB, candidateID, stageID uuid.UUID) (answered, total int64, err error) {
	if err = db.WithContext(ctx).
		Model(&testModel.QuestionModel{}).
		Where("question_stage_id = ?", stageID).
		Count(&total).Error; err != nil {
		return 0, 0, fmt.Errorf("count stage questions: %w", err)
	}
	if total == 0 {
		return 0, 0, nil
	}

	if err = db.WithContext(ctx).Raw(`
		SELECT COUNT(DISTINCT r.response_question_id)
		FROM responses r
		JOIN questions q ON q.question_id = r.response_question_id
		WHERE r.response_candidate_id = ?
		  AND q.question_stage_id = ?
		  AND q.question_deleted_at IS NULL
	`, candidateID, stageID).Scan(&answered).Error; err != nil {
		return 0, 0, fmt.Errorf("count answered questions: %w", err)
	}
	return answered, total, nil
}

func (s *CompletionService) progressCompleted(ctx context.Context, cand *candModel.CandidateModel, stage *testService.ResolvedStage) (bool, error) {
	match, err := MatchProcessStage(ctx, s.DB, cand, stage.StageID, stage.StageName)
	if err != nil {
		return false, err
	}
	if match == nil || !match.Kind.Strong() {
		return false, nil
	}

	var row model.CandidateProgressModel
	err = s.DB.WithContext(ctx).
		Where("candidate_progress_candidate_id = ? AND candidate_progress_stage_id = ?", cand.CandidateID, match.Stage.ProcessStageID).
		Limit(1).
		Find(&row).Error
	if err != nil {
		return false, fmt.Errorf("load progress: %w", err)
	}
	if row.CandidateProgressID == uuid.Nil || !row.IsCompleted() {
		return false, nil
	}
	return progressVouchesFor(&row, stage.StageID), nil
}

// progressVouchesFor reports whether a completed row speaks for stageID: it
// was written for the process stage itself, or strongly matched from stageID.
func progressVouchesFor(row *model.CandidateProgressModel, stageID uuid.UUID) bool {
	kind := MatchKind(row.CandidateProgressMatchKind)
	if kind == MatchProcessStageID {
		return true
	}
	return kind.Strong() &&
		row.CandidateProgressSourceStageID != nil &&
		*row.CandidateProgressSourceStageID == stageID
}
