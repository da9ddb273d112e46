package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"seletivo_backend/internals/databases/dbtest"
	candService "seletivo_backend/internals/features/candidates/candidates/service"
)

func TestOverview(t *testing.T) {
	db := dbtest.Open(t)
	company := uuid.New()
	a := dbtest.NewAssessment(t, db, company, 2, 1)
	first, second := a.Stages[0], a.Stages[1]
	proc, ps := dbtest.NewProcess(t, db, company,
		dbtest.ProcessStageSpec{Name: "Triagem", StageID: &first.StageID},
		dbtest.ProcessStageSpec{Name: "Entrevista"},
	)
	cand := dbtest.NewCandidate(t, db, company, dbtest.WithTest(a.Test.TestID), dbtest.WithProcess(proc.SelectionProcessID))
	ctx := context.Background()

	answerAll(t, db, cand.CandidateID, first.StageID, 0, a.Questions[first.StageID]...)
	if res := NewReconcilerService(db, nil).Reconcile(ctx, cand.CandidateID, first.StageID, first.StageName); !res.Success {
		t.Fatalf("reconcile: %+v", res)
	}

	out, err := Overview(ctx, db, company, cand.CandidateID)
	if err != nil {
		t.Fatalf("Overview: %v", err)
	}
	if out.CandidateID != cand.CandidateID.String() || out.Completed {
		t.Errorf("header = %+v", out)
	}

	if len(out.Progress) != 1 {
		t.Fatalf("progress rows = %+v, want 1", out.Progress)
	}
	p := out.Progress[0]
	if p.ProcessStageID != ps[0].ProcessStageID.String() || p.ProcessStageName != "Triagem" {
		t.Errorf("progress row = %+v, want Triagem", p)
	}
	if !p.Completed || p.Status != "COMPLETED" || p.CompletedAt == nil {
		t.Errorf("progress row not completed: %+v", p)
	}

	if len(out.Stages) != 2 {
		t.Fatalf("stages = %+v, want 2", out.Stages)
	}
	want := []struct {
		id              uuid.UUID
		answered, total int64
		completed       bool
	}{
		{first.StageID, 2, 2, true},
		{second.StageID, 0, 1, false},
	}
	for i, w := range want {
		got := out.Stages[i]
		if got.StageID != w.id.String() || got.Order != i+1 {
			t.Errorf("stage %d = %+v, want %s at order %d", i, got, w.id, i+1)
		}
		if got.AnsweredQuestions != w.answered || got.TotalQuestions != w.total || got.Completed != w.completed {
			t.Errorf("stage %d counts = %d/%d completed=%v, want %d/%d completed=%v",
				i, got.AnsweredQuestions, got.TotalQuestions, got.Completed, w.answered, w.total, w.completed)
		}
	}
}

func TestOverviewScopedToCompany(t *testing.T) {
	db := dbtest.Open(t)
	company := uuid.New()
	a := dbtest.NewAssessment(t, db, company, 1)
	cand := dbtest.NewCandidate(t, db, company, dbtest.WithTest(a.Test.TestID))

	_, err := Overview(context.Background(), db, uuid.New(), cand.CandidateID)
	if !errors.Is(err, candService.ErrCandidateNotFound) {
		t.Fatalf("err = %v, want ErrCandidateNotFound", err)
	}

	// no process: stage counts only
	out, err := Overview(context.Background(), db, company, cand.CandidateID)
	if err != nil {
		t.Fatalf("Overview: %v", err)
	}
	if len(out.Progress) != 0 || len(out.Stages) != 1 || out.Stages[0].TotalQuestions != 1 {
		t.Errorf("out = %+v", out)
	}
}
