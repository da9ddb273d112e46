package routes

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	database "seletivo_backend/internals/databases"
	"seletivo_backend/internals/databases/dbtest"
	"seletivo_backend/internals/metrics"
	routeDetails "seletivo_backend/internals/route/details"
)

func TestBaseRoutes(t *testing.T) {
	db := database.Wrap(dbtest.Open(t))
	app := fiber.New()
	BaseRoutes(app, routeDetails.Deps{DB: db})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/health", nil), -1)
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("health status = %d, want 200", resp.StatusCode)
	}

	metrics.InviteValidations.WithLabelValues(metrics.OutcomeValid).Inc()
	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/metrics", nil), -1)
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "invite_validations_total") {
		t.Error("metrics output misses invite_validations_total")
	}
}

func TestHealthWithoutDatabase(t *testing.T) {
	app := fiber.New()
	BaseRoutes(app, routeDetails.Deps{})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/health", nil), -1)
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	if resp.StatusCode != fiber.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", resp.StatusCode)
	}
}
