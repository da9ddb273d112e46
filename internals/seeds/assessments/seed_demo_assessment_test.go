package assessments

import (
	"context"
	"testing"

	"seletivo_backend/internals/configs"
	"seletivo_backend/internals/databases/dbtest"
	testModel "seletivo_backend/internals/features/assessments/tests/model"
	inviteService "seletivo_backend/internals/features/candidates/invites/service"
)

func TestSeedDemoAssessment(t *testing.T) {
	db := dbtest.Open(t)

	for i := 0; i < 2; i++ {
		if err := SeedDemoAssessmentFromJSON(db, "data_demo_assessment.json"); err != nil {
			t.Fatalf("run %d: %v", i+1, err)
		}
	}

	var tests, questions int64
	db.Model(&testModel.TestModel{}).Count(&tests)
	db.Model(&testModel.QuestionModel{}).Count(&questions)
	if tests != 1 || questions != 3 {
		t.Fatalf("tests=%d questions=%d, want 1 and 3 after a repeated run", tests, questions)
	}

	svc := inviteService.NewInviteService(db, configs.InviteConfig{TokenSecret: "seed-secret"})
	out, err := svc.Validate(context.Background(), "demo23")
	if err != nil {
		t.Fatalf("validate seeded invite: %v", err)
	}
	if out.Test == nil || out.Test.StageCount != 2 || !out.RequestCandidatePhoto {
		t.Errorf("seeded session = %+v", out)
	}
}

func TestSeedMissingFile(t *testing.T) {
	db := dbtest.Open(t)
	if err := SeedDemoAssessmentFromJSON(db, "nope.json"); err == nil {
		t.Fatal("want an error for a missing file")
	}
}
