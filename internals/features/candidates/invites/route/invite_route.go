package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"seletivo_backend/internals/configs"
	inviteCtrl "seletivo_backend/internals/features/candidates/invites/controller"
	"seletivo_backend/internals/middlewares"
	companyMiddleware "seletivo_backend/internals/middlewares/auth_company"
)

func InvitePublicRoutes(r fiber.Router, db *gorm.DB, cfg configs.InviteConfig) {
	ctrl := inviteCtrl.NewInviteController(db, cfg)

	r.Post("/invites/validate", middlewares.InviteRateLimiter(), ctrl.Validate)
	r.Get("/candidates/:id/results", ctrl.Results)
}

func InviteAdminRoutes(r fiber.Router, db *gorm.DB, cfg configs.InviteConfig) {
	ctrl := inviteCtrl.NewInviteController(db, cfg)

	r.Post("/candidates/:id/invite", companyMiddleware.RequireInviteManager(), ctrl.Generate)
}
