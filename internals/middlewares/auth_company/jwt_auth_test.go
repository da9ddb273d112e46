package middleware

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	helper "seletivo_backend/internals/helpers"
)

const secret = "admin-secret"

func sign(t *testing.T, key string, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func TestAuthJWT(t *testing.T) {
	company := uuid.New()

	app := fiber.New()
	app.Get("/me", AuthJWT(AuthJWTOpts{Secret: secret}), RequireCompany(), func(c *fiber.Ctx) error {
		id, err := helper.GetCompanyIDFromToken(c)
		if err != nil {
			return helper.FromServiceError(c, err)
		}
		return c.SendString(id.String())
	})
	app.Get("/admin", AuthJWT(AuthJWTOpts{Secret: secret}), RequireRole("admin"), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	app.Post("/invite", AuthJWT(AuthJWTOpts{Secret: secret}), RequireInviteManager(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	tests := []struct {
		name   string
		path   string
		token  string
		status int
	}{
		{"no token", "/me", "", fiber.StatusUnauthorized},
		{"wrong key", "/me", sign(t, "other", jwt.MapClaims{"id": "u1", "company_id": company.String()}), fiber.StatusUnauthorized},
		{"no company", "/me", sign(t, secret, jwt.MapClaims{"id": "u1"}), fiber.StatusUnauthorized},
		{"bad company", "/me", sign(t, secret, jwt.MapClaims{"id": "u1", "company_id": "x"}), fiber.StatusUnauthorized},
		{"ok", "/me", sign(t, secret, jwt.MapClaims{"sub": "u1", "company_id": company.String()}), fiber.StatusOK},
		{"role from list", "/admin", sign(t, secret, jwt.MapClaims{"roles": []string{"viewer", "admin"}}), fiber.StatusNoContent},
		{"single role claim", "/admin", sign(t, secret, jwt.MapClaims{"role": "Admin"}), fiber.StatusNoContent},
		{"missing role", "/admin", sign(t, secret, jwt.MapClaims{"roles": []string{"viewer"}}), fiber.StatusForbidden},
		{"recruiter issues invites", "/invite", sign(t, secret, jwt.MapClaims{"role": "recruiter"}), fiber.StatusNoContent},
		{"viewer cannot issue invites", "/invite", sign(t, secret, jwt.MapClaims{"role": "viewer"}), fiber.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			method := fiber.MethodGet
			if tt.path == "/invite" {
				method = fiber.MethodPost
			}
			req := httptest.NewRequest(method, tt.path, nil)
			if tt.token != "" {
				req.Header.Set(fiber.HeaderAuthorization, "Bearer "+tt.token)
			}
			resp, err := app.Test(req, -1)
			if err != nil {
				t.Fatalf("request: %v", err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != tt.status {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			if tt.status == fiber.StatusOK {
				body, _ := io.ReadAll(resp.Body)
				if string(body) != company.String() {
					t.Errorf("company = %q, want %s", body, company)
				}
			}
		})
	}
}
