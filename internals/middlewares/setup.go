package middlewares

import (
	"github.com/gofiber/fiber/v2"

	"seletivo_backend/internals/middlewares/logger"
)

// SetupMiddlewares installs the global chain: recover, CORS, access log, limiter.
func SetupMiddlewares(app *fiber.App) {
	app.Use(RecoveryMiddleware())
	app.Use(CorsMiddleware())
	app.Use(logger.LoggerMiddleware())
	app.Use(GlobalRateLimiter())
}
