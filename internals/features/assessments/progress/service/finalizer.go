package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"seletivo_backend/internals/events"
	respService "seletivo_backend/internals/features/assessments/responses/service"
	testService "seletivo_backend/internals/features/assessments/tests/service"
	candModel "seletivo_backend/internals/features/candidates/candidates/model"
	candService "seletivo_backend/internals/features/candidates/candidates/service"
)

type FinalizerService struct {
	DB        *gorm.DB
	Publisher events.Publisher
	Now       func() time.Time
}

func NewFinalizerService(db *gorm.DB, pub events.Publisher) *FinalizerService {
	return &FinalizerService{DB: db, Publisher: pub, Now: time.Now}
}

// FinalizeIfDone marks the candidate completed once every stage of the
// effective test that has questions is fully answered, and stores the score.
// Returns true when the candidate is (now or already) completed.
func (s *FinalizerService) FinalizeIfDone(ctx context.Context, candidateID uuid.UUID) (bool, error) {
	cand, err := candService.FindCandidate(ctx, s.DB, candidateID)
	if err != nil {
		return false, err
	}
	if cand.IsCompleted() {
		return true, nil
	}

	testID, err := testService.EffectiveTestID(ctx, s.DB, cand, true)
	if err != nil || testID == nil {
		return false, err
	}
	stages, err := testService.TestStages(ctx, s.DB, *testID)
	if err != nil {
		return false, err
	}

	scored := 0
	for _, st := range stages {
		answered, total, err := CountStage(ctx, s.DB, candidateID, st.StageID)
		if err != nil {
			return false, err
		}
		if total == 0 {
			continue
		}
		if answered < total {
			return false, nil
		}
		scored++
	}
	if scored == 0 {
		return false, nil
	}

	results, err := respService.BuildResults(ctx, s.DB, candidateID)
	if err != nil {
		return false, err
	}

	now := s.Now().UTC()
	update := map[string]any{
		"candidate_completed":    true,
		"candidate_completed_at": now,
		"candidate_score":        results.Score,
	}
	if cand.CandidateStatus == candModel.CandidateStatusPending {
		update["candidate_status"] = candModel.CandidateStatusInProgress
	}
	if err := s.DB.WithContext(ctx).
		Model(&candModel.CandidateModel{}).
		Where("candidate_id = ?", candidateID).
		Updates(update).Error; err != nil {
		return false, fmt.Errorf("finalize candidate: %w", err)
	}

	var score float64
	if results.Score != nil {
		score = *results.Score
	}
	log.Info().
		Str("candidate_id", candidateID.String()).
		Float64("score", score).
		Msg("candidate completed assessment")

	if s.Publisher != nil {
		ev := &events.CandidateCompleted{
			CandidateID: candidateID.String(),
			TestID:      testID.String(),
			Score:       score,
			Timestamp:   now,
		}
		if cand.CandidateCompanyID != nil {
			ev.CompanyID = cand.CandidateCompanyID.String()
		}
		if err := s.Publisher.PublishCandidateCompleted(ctx, ev); err != nil {
			log.Warn().Err(err).Str("candidate_id", candidateID.String()).Msg("publish candidate.completed")
		}
	}
	return true, nil
}
