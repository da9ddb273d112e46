// file: internals/route/index.go
package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	companyMiddleware "seletivo_backend/internals/middlewares/auth_company"
	routeDetails "seletivo_backend/internals/route/details"
)

var startTime time.Time

func SetupRoutes(app *fiber.App, d routeDetails.Deps) {
	startTime = time.Now()

	log.Info().Msg("Setting up base routes...")
	BaseRoutes(app, d)

	// ===================== PUBLIC (candidate) =====================
	log.Info().Msg("Setting up PUBLIC group...")
	public := app.Group("/api/public")
	routeDetails.AssessmentPublicRoutes(public, d)

	// ===================== ADMIN (per company) =====================
	if d.JWTSecret == "" {
		log.Error().Msg("JWT_SECRET vazio: rotas de administração não montadas")
		return
	}
	log.Info().Msg("Setting up ADMIN group (Auth + company scope)...")
	admin := app.Group("/api/a",
		companyMiddleware.AuthJWT(companyMiddleware.AuthJWTOpts{
			Secret:              d.JWTSecret,
			AllowCookieFallback: true,
		}),
		companyMiddleware.RequireCompany(),
	)
	routeDetails.AssessmentAdminRoutes(admin, d)
}
