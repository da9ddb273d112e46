package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"seletivo_backend/internals/features/assessments/progress/model"
	respDTO "seletivo_backend/internals/features/assessments/responses/dto"
	respService "seletivo_backend/internals/features/assessments/responses/service"
	testModel "seletivo_backend/internals/features/assessments/tests/model"
	helper "seletivo_backend/internals/helpers"
)

// answerAll records option index opt for every question given.
func answerAll(t *testing.T, db *gorm.DB, candidateID, stageID uuid.UUID, opt int, qs ...testModel.QuestionModel) {
	t.Helper()
	req := &respDTO.SubmitResponsesRequest{StageID: stageID.String()}
	for _, q := range qs {
		req.Responses = append(req.Responses, respDTO.SubmitResponseItem{
			QuestionID: q.QuestionID.String(),
			OptionID:   q.Options[opt].OptionID.String(),
		})
	}
	if _, err := respService.NewRecorderService(db).Record(context.Background(), candidateID, req); err != nil {
		t.Fatalf("record: %v", err)
	}
}

func mustRef(t *testing.T, raw string) helper.StageRefInput {
	t.Helper()
	ref, err := helper.ParseStageRef(raw)
	if err != nil {
		t.Fatalf("ParseStageRef(%q): %v", raw, err)
	}
	return ref
}

func progressRows(t *testing.T, db *gorm.DB, candidateID uuid.UUID) []model.CandidateProgressModel {
	t.Helper()
	var rows []model.CandidateProgressModel
	if err := db.Where("candidate_progress_candidate_id = ?", candidateID).Find(&rows).Error; err != nil {
		t.Fatalf("list progress: %v", err)
	}
	return rows
}
