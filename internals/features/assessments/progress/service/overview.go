package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"seletivo_backend/internals/features/assessments/progress/dto"
	testService "seletivo_backend/internals/features/assessments/tests/service"
	candService "seletivo_backend/internals/features/candidates/candidates/service"
)

type progressJoinRow struct {
	StageID     uuid.UUID  `gorm:"column:candidate_progress_stage_id"`
	StageName   *string    `gorm:"column:process_stage_name"`
	Status      string     `gorm:"column:candidate_progress_status"`
	Completed   bool       `gorm:"column:candidate_progress_completed"`
	CompletedAt *time.Time `gorm:"column:candidate_progress_completed_at"`
}

// Overview is the admin view of one candidate: progress rows plus answered
// and total counts for every stage of the effective test.
func Overview(ctx context.Context, db *gorm.DB, companyID, candidateID uuid.UUID) (*dto.CandidateProgressResponse, error) {
	cand, err := candService.FindCompanyCandidate(ctx, db, companyID, candidateID)
	if err != nil {
		return nil, err
	}

	var rows []progressJoinRow
	if err := db.WithContext(ctx).Raw(`
		SELECT cp.candidate_progress_stage_id, ps.process_stage_name,
		       cp.candidate_progress_status, cp.candidate_progress_completed,
		       cp.candidate_progress_completed_at
		FROM candidate_progress cp
		LEFT JOIN process_stages ps ON ps.process_stage_id = cp.candidate_progress_stage_id
		WHERE cp.candidate_progress_candidate_id = ?
		ORDER BY ps.process_stage_order ASC
	`, candidateID).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}

	out := &dto.CandidateProgressResponse{
		CandidateID: cand.CandidateID.String(),
		Completed:   cand.IsCompleted(),
		Status:      string(cand.CandidateStatus),
		Progress:    make([]dto.ProgressRow, 0, len(rows)),
		Stages:      []dto.StageCount{},
	}
	for _, r := range rows {
		pr := dto.ProgressRow{
			ProcessStageID: r.StageID.String(),
			Status:         r.Status,
			Completed:      r.Completed,
			CompletedAt:    r.CompletedAt,
		}
		if r.StageName != nil {
			pr.ProcessStageName = *r.StageName
		}
		out.Progress = append(out.Progress, pr)
	}

	testID, err := testService.EffectiveTestID(ctx, db, cand, false)
	if err != nil || testID == nil {
		return out, err
	}
	stages, err := testService.TestStages(ctx, db, *testID)
	if err != nil {
		return nil, err
	}
	for _, st := range stages {
		answered, total, err := CountStage(ctx, db, candidateID, st.StageID)
		if err != nil {
			return nil, err
		}
		out.Stages = append(out.Stages, dto.StageCount{
			StageID:           st.StageID.String(),
			StageName:         st.StageName,
			Order:             st.Order,
			AnsweredQuestions: answered,
			TotalQuestions:    total,
			Completed:         total > 0 && answered >= total,
		})
	}
	return out, nil
}
