package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"seletivo_backend/internals/databases/dbtest"
	"seletivo_backend/internals/events"
	"seletivo_backend/internals/features/assessments/progress/model"
	testModel "seletivo_backend/internals/features/assessments/tests/model"
)

func TestReconcileIsIdempotent(t *testing.T) {
	db := dbtest.Open(t)
	company := uuid.New()
	a := dbtest.NewAssessment(t, db, company, 1)
	stage := a.Stages[0]
	proc, ps := dbtest.NewProcess(t, db, company, dbtest.ProcessStageSpec{Name: "Etapa 1 - Lógica"})
	cand := dbtest.NewCandidate(t, db, company, dbtest.WithTest(a.Test.TestID), dbtest.WithProcess(proc.SelectionProcessID))

	pub := &events.Recorder{}
	svc := NewReconcilerService(db, pub)
	first := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.Now = func() time.Time { return first }

	for i := 0; i < 2; i++ {
		res := svc.Reconcile(context.Background(), cand.CandidateID, stage.StageID, stage.StageName)
		if !res.Success || res.Warning != "" {
			t.Fatalf("call %d: %+v", i, res)
		}
		ref, ok := res.Stage.(model.ProcessStageRef)
		if !ok || ref.ProcessStageID != ps[0].ProcessStageID {
			t.Fatalf("call %d: stage = %#v", i, res.Stage)
		}
		if res.Match != MatchName {
			t.Errorf("match = %s, want name", res.Match)
		}
		svc.Now = func() time.Time { return first.Add(time.Hour) }
	}

	rows := progressRows(t, db, cand.CandidateID)
	if len(rows) != 1 {
		t.Fatalf("progress rows = %d, want 1", len(rows))
	}
	r := rows[0]
	if !r.CandidateProgressCompleted || r.CandidateProgressStatus != model.CandidateProgressCompleted {
		t.Errorf("row not completed: %+v", r)
	}
	if r.CandidateProgressCompanyID != company {
		t.Error("company not carried onto the progress row")
	}
	if r.CandidateProgressCompletedAt == nil || !r.CandidateProgressCompletedAt.Equal(first) {
		t.Errorf("completedAt = %v, want first completion %v", r.CandidateProgressCompletedAt, first)
	}
	if len(pub.Stages) != 2 || pub.Stages[0].Scheme != "process" {
		t.Errorf("events = %+v", pub.Stages)
	}
}

func TestReconcilePrefersDirectLink(t *testing.T) {
	db := dbtest.Open(t)
	company := uuid.New()
	a := dbtest.NewAssessment(t, db, company, 1, 1)
	second := a.Stages[1]
	proc, ps := dbtest.NewProcess(t, db, company,
		// name would match "Etapa 2" by containment
		dbtest.ProcessStageSpec{Name: "Etapa 2"},
		dbtest.ProcessStageSpec{Name: "Entrevista", StageID: &second.StageID},
	)
	cand := dbtest.NewCandidate(t, db, company, dbtest.WithTest(a.Test.TestID), dbtest.WithProcess(proc.SelectionProcessID))

	res := NewReconcilerService(db, nil).Reconcile(context.Background(), cand.CandidateID, second.StageID, second.StageName)
	if !res.Success || res.Match != MatchStageLink {
		t.Fatalf("res = %+v, want stage_link match", res)
	}
	if res.Stage.ID() != ps[1].ProcessStageID {
		t.Errorf("matched %s, want linked stage %s", res.Stage.ID(), ps[1].ProcessStageID)
	}
}

func TestReconcileFallsBackToProcessStage(t *testing.T) {
	db := dbtest.Open(t)
	company := uuid.New()
	a := dbtest.NewAssessment(t, db, company, 1)
	testID := a.Test.TestID
	proc, ps := dbtest.NewProcess(t, db, company,
		dbtest.ProcessStageSpec{Name: "Documentos"},
		dbtest.ProcessStageSpec{Name: "Prova online", TestID: &testID},
	)
	cand := dbtest.NewCandidate(t, db, company, dbtest.WithProcess(proc.SelectionProcessID))

	res := NewReconcilerService(db, nil).Reconcile(context.Background(), cand.CandidateID, a.Stages[0].StageID, "")
	if !res.Success || res.Match != MatchTest || res.Stage.ID() != ps[1].ProcessStageID {
		t.Fatalf("res = %+v, want test match on %s", res, ps[1].ProcessStageID)
	}

	other := dbtest.NewCandidate(t, db, company, dbtest.WithProcess(proc.SelectionProcessID), dbtest.WithTest(uuid.New()))
	res = NewReconcilerService(db, nil).Reconcile(context.Background(), other.CandidateID, uuid.New(), "sem correspondência")
	if !res.Success || res.Match != MatchFirst || res.Stage.ID() != ps[0].ProcessStageID {
		t.Fatalf("res = %+v, want first stage of the process", res)
	}
}

func TestReconcileWithoutProcessWarns(t *testing.T) {
	db := dbtest.Open(t)
	company := uuid.New()
	a := dbtest.NewAssessment(t, db, company, 1)
	stage := a.Stages[0]
	cand := dbtest.NewCandidate(t, db, company, dbtest.WithTest(a.Test.TestID))

	var before testModel.TestStageModel
	if err := db.First(&before, "test_stage_stage_id = ?", stage.StageID).Error; err != nil {
		t.Fatalf("load test stage: %v", err)
	}

	svc := NewReconcilerService(db, nil)
	svc.Now = func() time.Time { return before.TestStageUpdatedAt.Add(time.Hour) }
	res := svc.Reconcile(context.Background(), cand.CandidateID, stage.StageID, stage.StageName)
	if !res.Success || res.Warning == "" {
		t.Fatalf("want success with warning, got %+v", res)
	}
	if _, ok := res.Stage.(model.LegacyStage); !ok {
		t.Errorf("stage = %#v, want LegacyStage", res.Stage)
	}
	if n := len(progressRows(t, db, cand.CandidateID)); n != 0 {
		t.Errorf("progress rows = %d, want 0", n)
	}

	var after testModel.TestStageModel
	if err := db.First(&after, "test_stage_stage_id = ?", stage.StageID).Error; err != nil {
		t.Fatalf("reload test stage: %v", err)
	}
	if !after.TestStageUpdatedAt.After(before.TestStageUpdatedAt) {
		t.Error("test stage timestamp not touched")
	}
}

func TestReconcileCandidateWithoutCompany(t *testing.T) {
	db := dbtest.Open(t)
	cand := dbtest.NewCandidate(t, db, uuid.New(), dbtest.WithoutCompany())

	res := NewReconcilerService(db, nil).Reconcile(context.Background(), cand.CandidateID, uuid.New(), "")
	if res.Success {
		t.Fatal("want failure for candidate without company")
	}
	if res.Message != ErrCompanyMissing.Message {
		t.Errorf("message = %q", res.Message)
	}
}

func TestReconcileUnknownCandidate(t *testing.T) {
	db := dbtest.Open(t)
	res := NewReconcilerService(db, nil).Reconcile(context.Background(), uuid.New(), uuid.New(), "")
	if res.Success {
		t.Fatal("want failure result, not success")
	}
}

func TestMatchProcessStageNameIsLiteral(t *testing.T) {
	db := dbtest.Open(t)
	company := uuid.New()
	proc, ps := dbtest.NewProcess(t, db, company,
		dbtest.ProcessStageSpec{Name: "Etapa-1"},
		dbtest.ProcessStageSpec{Name: "Etapa_1 prova"},
	)
	cand := dbtest.NewCandidate(t, db, company, dbtest.WithProcess(proc.SelectionProcessID))

	for _, tc := range []struct {
		name string
		want uuid.UUID
		kind MatchKind
	}{
		{"Etapa_1", ps[1].ProcessStageID, MatchName},
		{"tapa%1", ps[0].ProcessStageID, MatchFirst},
		{`Etapa\1`, ps[0].ProcessStageID, MatchFirst},
	} {
		m, err := MatchProcessStage(context.Background(), db, cand, uuid.New(), tc.name)
		if err != nil {
			t.Fatalf("%q: %v", tc.name, err)
		}
		if m == nil || m.Kind != tc.kind || m.Stage.ProcessStageID != tc.want {
			t.Errorf("%q: match = %+v, want %s on %s", tc.name, m, tc.kind, tc.want)
		}
	}
}

func TestReconcileRecordsProvenance(t *testing.T) {
	db := dbtest.Open(t)
	company := uuid.New()
	a := dbtest.NewAssessment(t, db, company, 1, 1)
	first, second := a.Stages[0], a.Stages[1]
	proc, ps := dbtest.NewProcess(t, db, company, dbtest.ProcessStageSpec{Name: "Etapa 1", TestID: &a.Test.TestID})
	cand := dbtest.NewCandidate(t, db, company, dbtest.WithTest(a.Test.TestID), dbtest.WithProcess(proc.SelectionProcessID))
	svc := NewReconcilerService(db, nil)

	res := svc.Reconcile(context.Background(), cand.CandidateID, first.StageID, first.StageName)
	if res.Match != MatchName {
		t.Fatalf("first: %+v", res)
	}
	// stage 2 reaches the same process stage only through the test
	res = svc.Reconcile(context.Background(), cand.CandidateID, second.StageID, second.StageName)
	if res.Match != MatchTest || res.Stage.ID() != ps[0].ProcessStageID {
		t.Fatalf("second: %+v", res)
	}

	rows := progressRows(t, db, cand.CandidateID)
	if len(rows) != 1 {
		t.Fatalf("progress rows = %d, want 1", len(rows))
	}
	r := rows[0]
	if r.CandidateProgressMatchKind != string(MatchName) {
		t.Errorf("match kind = %q, want the strong name match kept", r.CandidateProgressMatchKind)
	}
	if r.CandidateProgressSourceStageID == nil || *r.CandidateProgressSourceStageID != first.StageID {
		t.Errorf("source stage = %v, want %s", r.CandidateProgressSourceStageID, first.StageID)
	}
}
