package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"seletivo_backend/internals/databases/dbtest"
	"seletivo_backend/internals/features/assessments/responses/dto"
	"seletivo_backend/internals/features/assessments/responses/model"
	testModel "seletivo_backend/internals/features/assessments/tests/model"
	candModel "seletivo_backend/internals/features/candidates/candidates/model"
)

func intPtr(v int) *int { return &v }

func submit(stageID uuid.UUID, items ...dto.SubmitResponseItem) *dto.SubmitResponsesRequest {
	return &dto.SubmitResponsesRequest{StageID: stageID.String(), Responses: items}
}

func answer(q testModel.QuestionModel, opt int, secs int) dto.SubmitResponseItem {
	return dto.SubmitResponseItem{
		QuestionID: q.QuestionID.String(),
		OptionID:   q.Options[opt].OptionID.String(),
		TimeSpent:  intPtr(secs),
	}
}

func responsesOf(t *testing.T, db *gorm.DB, candidateID uuid.UUID) []model.ResponseModel {
	t.Helper()
	var rows []model.ResponseModel
	if err := db.Where("response_candidate_id = ?", candidateID).Find(&rows).Error; err != nil {
		t.Fatalf("list responses: %v", err)
	}
	return rows
}

func TestRecordUpsertsSamePair(t *testing.T) {
	db := dbtest.Open(t)
	company := uuid.New()
	a := dbtest.NewAssessment(t, db, company, 2)
	cand := dbtest.NewCandidate(t, db, company, dbtest.WithTest(a.Test.TestID))
	stage := a.Stages[0]
	q := a.Questions[stage.StageID][0]

	svc := NewRecorderService(db)
	ctx := context.Background()

	if _, err := svc.Record(ctx, cand.CandidateID, submit(stage.StageID, answer(q, 0, 10))); err != nil {
		t.Fatalf("first Record: %v", err)
	}
	res, err := svc.Record(ctx, cand.CandidateID, submit(stage.StageID, answer(q, 2, 7)))
	if err != nil {
		t.Fatalf("second Record: %v", err)
	}
	if res.Count != 1 || res.Skipped != 0 {
		t.Fatalf("result = %+v, want count 1", res)
	}

	rows := responsesOf(t, db, cand.CandidateID)
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want exactly one per candidate+question", len(rows))
	}
	r := rows[0]
	if r.ResponseOptionID != q.Options[2].OptionID {
		t.Error("second submission must win")
	}
	if r.ResponseIsCorrect {
		t.Error("option 3 is not correct")
	}
	if r.ResponseTimeSpent != 7 {
		t.Errorf("time spent = %d, want 7", r.ResponseTimeSpent)
	}

	var got candModel.CandidateModel
	if err := db.First(&got, "candidate_id = ?", cand.CandidateID).Error; err != nil {
		t.Fatalf("reload candidate: %v", err)
	}
	if got.CandidateTimeSpent != 17 {
		t.Errorf("candidate time = %d, want accumulated 17", got.CandidateTimeSpent)
	}
}

func TestRecordSkipsUnknownItems(t *testing.T) {
	db := dbtest.Open(t)
	company := uuid.New()
	a := dbtest.NewAssessment(t, db, company, 2)
	cand := dbtest.NewCandidate(t, db, company, dbtest.WithTest(a.Test.TestID))
	stage := a.Stages[0]
	q1 := a.Questions[stage.StageID][0]
	q2 := a.Questions[stage.StageID][1]

	req := submit(stage.StageID,
		dto.SubmitResponseItem{QuestionID: uuid.NewString(), OptionID: q1.Options[0].OptionID.String()},
		answer(q1, 0, 0),
		// option of another question
		dto.SubmitResponseItem{QuestionID: q2.QuestionID.String(), OptionID: q1.Options[1].OptionID.String()},
		dto.SubmitResponseItem{QuestionID: q2.QuestionID.String(), OptionID: uuid.NewString()},
	)

	res, err := NewRecorderService(db).Record(context.Background(), cand.CandidateID, req)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if res.Count != 1 || res.Skipped != 3 {
		t.Fatalf("result = %+v, want 1 recorded / 3 skipped", res)
	}
	if n := len(responsesOf(t, db, cand.CandidateID)); n != 1 {
		t.Fatalf("rows = %d, want 1", n)
	}
}

func TestRecordUnknownCandidate(t *testing.T) {
	db := dbtest.Open(t)
	_, err := NewRecorderService(db).Record(context.Background(), uuid.New(), submit(uuid.New()))
	if err == nil {
		t.Fatal("expected candidate not found")
	}
}

func TestRecordOpinionAlwaysCorrect(t *testing.T) {
	db := dbtest.Open(t)
	company := uuid.New()
	a := dbtest.NewAssessment(t, db, company, 0)
	stage := a.Stages[0]
	q := dbtest.NewOpinionQuestion(t, db, stage.StageID, "Como você trabalha?", 2, "Analítico", "Comunicador")
	cand := dbtest.NewCandidate(t, db, company, dbtest.WithTest(a.Test.TestID))

	if _, err := NewRecorderService(db).Record(context.Background(), cand.CandidateID, submit(stage.StageID, answer(q, 1, 3))); err != nil {
		t.Fatalf("Record: %v", err)
	}
	rows := responsesOf(t, db, cand.CandidateID)
	if len(rows) != 1 || !rows[0].ResponseIsCorrect {
		t.Fatalf("opinion answer must be stored as correct: %+v", rows)
	}
	if rows[0].ResponseOptionCharacteristic == nil || *rows[0].ResponseOptionCharacteristic != "Comunicador" {
		t.Errorf("characteristic = %v, want Comunicador", rows[0].ResponseOptionCharacteristic)
	}
}

func TestSnapshotSurvivesQuestionEdits(t *testing.T) {
	db := dbtest.Open(t)
	company := uuid.New()
	a := dbtest.NewAssessment(t, db, company, 1)
	cand := dbtest.NewCandidate(t, db, company, dbtest.WithTest(a.Test.TestID))
	stage := a.Stages[0]
	q := a.Questions[stage.StageID][0]
	original := q.QuestionText

	item := answer(q, 0, 5)
	// presented shuffled
	item.OptionsOrder = []string{
		q.Options[2].OptionID.String(),
		q.Options[0].OptionID.String(),
		q.Options[1].OptionID.String(),
	}
	if _, err := NewRecorderService(db).Record(context.Background(), cand.CandidateID, submit(stage.StageID, item)); err != nil {
		t.Fatalf("Record: %v", err)
	}

	if err := db.Model(&testModel.QuestionModel{}).
		Where("question_id = ?", q.QuestionID).
		Update("question_text", "texto editado").Error; err != nil {
		t.Fatalf("edit question: %v", err)
	}
	if err := db.Delete(&testModel.OptionModel{}, "option_id = ?", q.Options[0].OptionID).Error; err != nil {
		t.Fatalf("delete option: %v", err)
	}

	rows := responsesOf(t, db, cand.CandidateID)
	snap, err := rows[0].DecodeSnapshot()
	if err != nil || snap == nil {
		t.Fatalf("DecodeSnapshot: %v", err)
	}
	if snap.Text != original {
		t.Errorf("snapshot text = %q, want %q", snap.Text, original)
	}
	if len(snap.Options) != 3 {
		t.Errorf("snapshot options = %d, want 3", len(snap.Options))
	}
	if sel := snap.SelectedOption(q.Options[0].OptionID); sel == nil || !sel.IsCorrect {
		t.Error("selected option missing from snapshot")
	}
	if snap.StageName != stage.StageName {
		t.Errorf("snapshot stage = %q, want %q", snap.StageName, stage.StageName)
	}
	if rows[0].ResponseOptionOriginalOrder == nil || *rows[0].ResponseOptionOriginalOrder != 1 {
		t.Errorf("original order = %v, want 1", rows[0].ResponseOptionOriginalOrder)
	}
	want := `["` + q.Options[2].OptionID.String() + `","` + q.Options[0].OptionID.String() + `","` + q.Options[1].OptionID.String() + `"]`
	if string(rows[0].ResponseOptionsOrder) != want {
		t.Errorf("options order = %s, want %s", rows[0].ResponseOptionsOrder, want)
	}
}
