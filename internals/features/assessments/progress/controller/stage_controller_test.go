package controller

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"seletivo_backend/internals/databases/dbtest"
)

func call(t *testing.T, app *fiber.App, method, target, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, target, err)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	out := map[string]any{}
	if err := sonic.Unmarshal(raw, &out); err != nil {
		t.Fatalf("decode %s: %v", raw, err)
	}
	return resp.StatusCode, out
}

func TestStageEndpoints(t *testing.T) {
	db := dbtest.Open(t)
	company := uuid.New()
	a := dbtest.NewAssessment(t, db, company, 2, 1)
	cand := dbtest.NewCandidate(t, db, company, dbtest.WithTest(a.Test.TestID))
	cid := cand.CandidateID.String()

	refreshed := 0
	ctrl := NewStageController(db, nil, func(context.Context) error {
		refreshed++
		return nil
	})
	app := fiber.New()
	app.Get("/stages/completed", ctrl.CheckCompleted)
	app.Post("/stages/completed", ctrl.MarkCompleted)
	app.Get("/stages/next", ctrl.Next)

	t.Run("check open stage", func(t *testing.T) {
		status, out := call(t, app, fiber.MethodGet, "/stages/completed?stageId=1&candidateId="+cid, "")
		if status != fiber.StatusOK || out["completed"] != false {
			t.Fatalf("got %d %v", status, out)
		}
		if out["answeredQuestions"] != float64(0) || out["totalQuestions"] != float64(2) {
			t.Errorf("counts = %v/%v, want 0/2", out["answeredQuestions"], out["totalQuestions"])
		}
		if refreshed != 1 {
			t.Errorf("refresh calls = %d, want 1", refreshed)
		}
	})

	t.Run("check bad reference", func(t *testing.T) {
		if status, _ := call(t, app, fiber.MethodGet, "/stages/completed?stageId=x&candidateId="+cid, ""); status != fiber.StatusBadRequest {
			t.Fatalf("status = %d, want 400", status)
		}
	})

	t.Run("check unknown stage", func(t *testing.T) {
		if status, _ := call(t, app, fiber.MethodGet, "/stages/completed?stageId=9&candidateId="+cid, ""); status != fiber.StatusNotFound {
			t.Fatalf("status = %d, want 404", status)
		}
	})

	t.Run("next", func(t *testing.T) {
		status, out := call(t, app, fiber.MethodGet, "/stages/next?currentStage=1&candidateId="+cid, "")
		if status != fiber.StatusOK || out["hasNextStage"] != true || out["nextStageId"] != "2" {
			t.Fatalf("got %d %v", status, out)
		}
		status, out = call(t, app, fiber.MethodGet, "/stages/next?currentStage=2&candidateId="+cid, "")
		if status != fiber.StatusOK || out["hasNextStage"] != false {
			t.Fatalf("last stage: %d %v", status, out)
		}
	})

	t.Run("mark without process warns", func(t *testing.T) {
		status, out := call(t, app, fiber.MethodPost, "/stages/completed", `{"candidateId":"`+cid+`","stageId":"1"}`)
		if status != fiber.StatusOK || out["success"] != true {
			t.Fatalf("got %d %v", status, out)
		}
		if w, _ := out["warning"].(string); w == "" {
			t.Error("want a warning when the candidate has no process")
		}
	})

	t.Run("mark needs candidate", func(t *testing.T) {
		if status, _ := call(t, app, fiber.MethodPost, "/stages/completed", `{"stageId":"1"}`); status != fiber.StatusUnprocessableEntity {
			t.Fatalf("status = %d, want 422", status)
		}
	})
}
