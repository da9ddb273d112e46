package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"seletivo_backend/internals/databases/dbtest"
	testModel "seletivo_backend/internals/features/assessments/tests/model"
	testService "seletivo_backend/internals/features/assessments/tests/service"
)

func TestCheckCounts(t *testing.T) {
	db := dbtest.Open(t)
	company := uuid.New()
	a := dbtest.NewAssessment(t, db, company, 3)
	cand := dbtest.NewCandidate(t, db, company, dbtest.WithTest(a.Test.TestID))
	stage := a.Stages[0]
	qs := a.Questions[stage.StageID]
	svc := NewCompletionService(db)
	ctx := context.Background()

	// 2 of 3
	answerAll(t, db, cand.CandidateID, stage.StageID, 0, qs[0], qs[1])
	out, _, err := svc.Check(ctx, cand.CandidateID, mustRef(t, stage.StageID.String()))
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if out.Completed || *out.AnsweredQuestions != 2 || *out.TotalQuestions != 3 {
		t.Fatalf("got completed=%v answered=%d total=%d, want false/2/3", out.Completed, *out.AnsweredQuestions, *out.TotalQuestions)
	}

	// resubmitting an answered question does not complete the stage
	answerAll(t, db, cand.CandidateID, stage.StageID, 1, qs[0])
	out, _, _ = svc.Check(ctx, cand.CandidateID, mustRef(t, "1"))
	if out.Completed || *out.AnsweredQuestions != 2 {
		t.Fatalf("duplicate inflated the count: %+v", out)
	}

	// all 3 plus a duplicate
	answerAll(t, db, cand.CandidateID, stage.StageID, 2, qs[2], qs[1])
	out, _, _ = svc.Check(ctx, cand.CandidateID, mustRef(t, "1"))
	if !out.Completed || *out.AnsweredQuestions != 3 {
		t.Fatalf("want completed with 3 answered, got %+v", out)
	}
}

func TestCheckIgnoresDeletedQuestions(t *testing.T) {
	db := dbtest.Open(t)
	company := uuid.New()
	a := dbtest.NewAssessment(t, db, company, 3)
	cand := dbtest.NewCandidate(t, db, company, dbtest.WithTest(a.Test.TestID))
	stage := a.Stages[0]
	qs := a.Questions[stage.StageID]

	answerAll(t, db, cand.CandidateID, stage.StageID, 0, qs[0], qs[1])
	if err := db.Delete(&testModel.QuestionModel{}, "question_id = ?", qs[2].QuestionID).Error; err != nil {
		t.Fatalf("soft delete: %v", err)
	}

	out, _, err := NewCompletionService(db).Check(context.Background(), cand.CandidateID, mustRef(t, stage.StageID.String()))
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if !out.Completed || *out.TotalQuestions != 2 {
		t.Fatalf("want completed over 2 live questions, got %+v", out)
	}
}

func TestCheckEmptyStageIsNotComplete(t *testing.T) {
	db := dbtest.Open(t)
	company := uuid.New()
	a := dbtest.NewAssessment(t, db, company, 0)
	cand := dbtest.NewCandidate(t, db, company, dbtest.WithTest(a.Test.TestID))

	out, _, err := NewCompletionService(db).Check(context.Background(), cand.CandidateID, mustRef(t, "1"))
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if out.Completed {
		t.Fatal("empty stage must not be reported complete")
	}
	if out.Message != msgStageNoQuestions {
		t.Errorf("message = %q", out.Message)
	}
}

func TestCheckFastPathFromProgress(t *testing.T) {
	db := dbtest.Open(t)
	company := uuid.New()
	a := dbtest.NewAssessment(t, db, company, 2)
	stage := a.Stages[0]
	proc, ps := dbtest.NewProcess(t, db, company, dbtest.ProcessStageSpec{Name: "Triagem", StageID: &stage.StageID})
	cand := dbtest.NewCandidate(t, db, company, dbtest.WithTest(a.Test.TestID), dbtest.WithProcess(proc.SelectionProcessID))

	res := NewReconcilerService(db, nil).Reconcile(context.Background(), cand.CandidateID, ps[0].ProcessStageID, "")
	if !res.Success {
		t.Fatalf("reconcile: %+v", res)
	}

	out, _, err := NewCompletionService(db).Check(context.Background(), cand.CandidateID, mustRef(t, stage.StageID.String()))
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if !out.Completed || out.AnsweredQuestions != nil {
		t.Fatalf("want short-circuit completion without counts, got %+v", out)
	}
}

func TestCheckUnknownStage(t *testing.T) {
	db := dbtest.Open(t)
	company := uuid.New()
	a := dbtest.NewAssessment(t, db, company, 1)
	cand := dbtest.NewCandidate(t, db, company, dbtest.WithTest(a.Test.TestID))
	svc := NewCompletionService(db)

	for _, raw := range []string{"9", uuid.NewString()} {
		_, _, err := svc.Check(context.Background(), cand.CandidateID, mustRef(t, raw))
		if !errors.Is(err, testService.ErrStageNotFound) {
			t.Errorf("ref %s: err = %v, want ErrStageNotFound", raw, err)
		}
	}
}

func TestCheckIgnoresProgressFromFallbackMatch(t *testing.T) {
	db := dbtest.Open(t)
	company := uuid.New()
	a := dbtest.NewAssessment(t, db, company, 2, 2)
	second := a.Stages[1]
	proc, ps := dbtest.NewProcess(t, db, company,
		dbtest.ProcessStageSpec{Name: "Etapa 1", TestID: &a.Test.TestID},
		dbtest.ProcessStageSpec{Name: "Entrevista"},
	)
	cand := dbtest.NewCandidate(t, db, company, dbtest.WithTest(a.Test.TestID), dbtest.WithProcess(proc.SelectionProcessID))
	ctx := context.Background()

	// only stage 2 answered; it lands on "Etapa 1" through the test fallback
	answerAll(t, db, cand.CandidateID, second.StageID, 0, a.Questions[second.StageID]...)
	res := NewReconcilerService(db, nil).Reconcile(ctx, cand.CandidateID, second.StageID, second.StageName)
	if !res.Success || res.Match != MatchTest || res.Stage.ID() != ps[0].ProcessStageID {
		t.Fatalf("reconcile = %+v, want test match on %s", res, ps[0].ProcessStageID)
	}

	out, _, err := NewCompletionService(db).Check(ctx, cand.CandidateID, mustRef(t, "1"))
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if out.Completed {
		t.Fatalf("stage 1 reported complete with no answers: %+v", out)
	}
	if out.AnsweredQuestions == nil || *out.AnsweredQuestions != 0 || *out.TotalQuestions != 2 {
		t.Fatalf("want counted 0/2, got %+v", out)
	}

	// stage 2 is complete through its own answers
	out, _, _ = NewCompletionService(db).Check(ctx, cand.CandidateID, mustRef(t, second.StageID.String()))
	if !out.Completed {
		t.Fatalf("stage 2 fully answered but not complete: %+v", out)
	}
}

func TestCheckFastPathNeedsSameSourceStage(t *testing.T) {
	db := dbtest.Open(t)
	company := uuid.New()
	a := dbtest.NewAssessment(t, db, company, 2, 2)
	first, second := a.Stages[0], a.Stages[1]
	// linked to stage 1, name-matched by stage 2
	proc, _ := dbtest.NewProcess(t, db, company, dbtest.ProcessStageSpec{Name: "Etapa 2", StageID: &first.StageID})
	cand := dbtest.NewCandidate(t, db, company, dbtest.WithTest(a.Test.TestID), dbtest.WithProcess(proc.SelectionProcessID))
	ctx := context.Background()

	res := NewReconcilerService(db, nil).Reconcile(ctx, cand.CandidateID, first.StageID, first.StageName)
	if !res.Success || res.Match != MatchStageLink {
		t.Fatalf("reconcile = %+v", res)
	}
	rows := progressRows(t, db, cand.CandidateID)
	if len(rows) != 1 || rows[0].CandidateProgressMatchKind != string(MatchStageLink) ||
		rows[0].CandidateProgressSourceStageID == nil || *rows[0].CandidateProgressSourceStageID != first.StageID {
		t.Fatalf("progress provenance = %+v", rows)
	}

	svc := NewCompletionService(db)
	out, _, _ := svc.Check(ctx, cand.CandidateID, mustRef(t, first.StageID.String()))
	if !out.Completed || out.AnsweredQuestions != nil {
		t.Fatalf("linked stage: want short-circuit, got %+v", out)
	}
	out, _, _ = svc.Check(ctx, cand.CandidateID, mustRef(t, second.StageID.String()))
	if out.Completed || out.AnsweredQuestions == nil || *out.AnsweredQuestions != 0 {
		t.Fatalf("other stage borrowed the progress row: %+v", out)
	}
}
