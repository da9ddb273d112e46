package service

import (
	"context"
	"strconv"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"seletivo_backend/internals/features/assessments/progress/dto"
	testService "seletivo_backend/internals/features/assessments/tests/service"
	candService "seletivo_backend/internals/features/candidates/candidates/service"
	helper "seletivo_backend/internals/helpers"
)

type NavigatorService struct {
	DB *gorm.DB
}

func NewNavigatorService(db *gorm.DB) *NavigatorService {
	return &NavigatorService{DB: db}
}

// Next returns the stage after currentStage in the candidate's test. A
// reference that cannot be parsed or is not part of the test yields
// HasNextStage=false, not an error.
func (s *NavigatorService) Next(ctx context.Context, candidateID uuid.UUID, currentStage string) (*dto.NextStageResponse, error) {
	cand, err := candService.FindCandidate(ctx, s.DB, candidateID)
	if err != nil {
		return nil, err
	}

	testID, err := testService.EffectiveTestID(ctx, s.DB, cand, true)
	if err != nil {
		return nil, err
	}
	if testID == nil {
		return &dto.NextStageResponse{HasNextStage: false}, nil
	}

	stages, err := testService.TestStages(ctx, s.DB, *testID)
	if err != nil {
		return nil, err
	}
	out := &dto.NextStageResponse{TotalStages: len(stages)}

	ref, err := helper.ParseStageRef(currentStage)
	if err != nil {
		log.Debug().Str("current_stage", currentStage).Msg("next stage: unparsable reference")
		return out, nil
	}

	idx := -1
	for i, ts := range stages {
		if (ref.IsOrder && ts.Order == ref.Order) || (!ref.IsOrder && ts.StageID == ref.ID) {
			idx = i
			break
		}
	}
	if idx < 0 {
		log.Debug().
			Str("candidate_id", candidateID.String()).
			Str("current_stage", currentStage).
			Msg("next stage: reference outside the test sequence")
		return out, nil
	}
	if idx+1 >= len(stages) {
		return out, nil
	}

	next := stages[idx+1]
	order := strconv.Itoa(next.Order)
	id := next.StageID.String()
	out.HasNextStage = true
	out.NextStageID = &order
	out.NextStageUUID = &id
	return out, nil
}
