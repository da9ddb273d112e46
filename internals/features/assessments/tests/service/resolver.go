// file: internals/features/assessments/tests/service/resolver.go
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	testModel "seletivo_backend/internals/features/assessments/tests/model"
	candModel "seletivo_backend/internals/features/candidates/candidates/model"
	procModel "seletivo_backend/internals/features/selection/processes/model"
	helper "seletivo_backend/internals/helpers"
)

var ErrStageNotFound = fiber.NewError(fiber.StatusNotFound, "Etapa não encontrada")

// TestStageRow is a test_stages row joined with its stage name.
type TestStageRow struct {
	TestStageID uuid.UUID `gorm:"column:test_stage_id"`
	TestID      uuid.UUID `gorm:"column:test_stage_test_id"`
	StageID     uuid.UUID `gorm:"column:test_stage_stage_id"`
	Order       int       `gorm:"column:test_stage_order"`
	StageName   string    `gorm:"column:stage_name"`
}

// ResolvedStage is a legacy stage located from a client reference.
type ResolvedStage struct {
	StageID   uuid.UUID
	StageName string
	// nil when the stage is not part of the candidate's effective test
	TestID *uuid.UUID
	Order  int
}

/* =========================================================
   Effective test
========================================================= */

// EffectiveTestID returns the candidate's direct test, or the first test
// referenced by a stage of the candidate's selection process. With backfill
// the resolved id is written back to candidates.candidate_test_id.
func EffectiveTestID(ctx context.Context, db *gorm.DB, cand *candModel.CandidateModel, backfill bool) (*uuid.UUID, error) {
	if cand.CandidateTestID != nil && *cand.CandidateTestID != uuid.Nil {
		return cand.CandidateTestID, nil
	}
	if cand.CandidateSelectionProcessID == nil {
		return nil, nil
	}

	var ps procModel.ProcessStageModel
	err := db.WithContext(ctx).
		Where("process_stage_process_id = ? AND process_stage_test_id IS NOT NULL", *cand.CandidateSelectionProcessID).
		Order("process_stage_order ASC").
		First(&ps).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("resolve process test: %w", err)
	}

	testID := *ps.ProcessStageTestID
	if backfill {
		if err := db.WithContext(ctx).
			Model(&candModel.CandidateModel{}).
			Where("candidate_id = ?", cand.CandidateID).
			Update("candidate_test_id", testID).Error; err != nil {
			return nil, fmt.Errorf("backfill candidate test: %w", err)
		}
		log.Info().
			Str("candidate_id", cand.CandidateID.String()).
			Str("test_id", testID.String()).
			Msg("candidate test resolved from selection process")
		cand.CandidateTestID = &testID
	}
	return &testID, nil
}

// TestStages lists the stages of a test ordered by test_stage_order.
func TestStages(ctx context.Context, db *gorm.DB, testID uuid.UUID) ([]TestStageRow, error) {
	var rows []TestStageRow
	if err := db.WithContext(ctx).Raw(`
		SELECT ts.test_stage_id, ts.test_stage_test_id, ts.test_stage_stage_id, ts.test_stage_order,
		       COALESCE(s.stage_name, '') AS stage_name
		FROM test_stages ts
		LEFT JOIN stages s ON s.stage_id = ts.test_stage_stage_id AND s.stage_deleted_at IS NULL
		WHERE ts.test_stage_test_id = ?
		ORDER BY ts.test_stage_order ASC
	`, testID).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("list test stages: %w", err)
	}
	return rows, nil
}

func CountTestStages(ctx context.Context, db *gorm.DB, testID uuid.UUID) (int64, error) {
	var n int64
	if err := db.WithContext(ctx).
		Model(&testModel.TestStageModel{}).
		Where("test_stage_test_id = ?", testID).
		Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count test stages: %w", err)
	}
	return n, nil
}

/* =========================================================
   Stage reference
========================================================= */

// ResolveStage locates a legacy stage from a UUID or a 1-based order number.
// Order numbers only make sense inside the candidate's effective test.
func ResolveStage(ctx context.Context, db *gorm.DB, cand *candModel.CandidateModel, ref helper.StageRefInput) (*ResolvedStage, error) {
	testID, err := EffectiveTestID(ctx, db, cand, false)
	if err != nil {
		return nil, err
	}

	var stages []TestStageRow
	if testID != nil {
		if stages, err = TestStages(ctx, db, *testID); err != nil {
			return nil, err
		}
	}

	if ref.IsOrder {
		for _, ts := range stages {
			if ts.Order == ref.Order {
				return &ResolvedStage{StageID: ts.StageID, StageName: ts.StageName, TestID: testID, Order: ts.Order}, nil
			}
		}
		return nil, ErrStageNotFound
	}

	for _, ts := range stages {
		if ts.StageID == ref.ID {
			return &ResolvedStage{StageID: ts.StageID, StageName: ts.StageName, TestID: testID, Order: ts.Order}, nil
		}
	}

	// not in the test sequence; still a valid stage if the row exists
	var st testModel.StageModel
	if err := db.WithContext(ctx).First(&st, "stage_id = ?", ref.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStageNotFound
		}
		return nil, fmt.Errorf("load stage: %w", err)
	}
	return &ResolvedStage{StageID: st.StageID, StageName: st.StageName}, nil
}
