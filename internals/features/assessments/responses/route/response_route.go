package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"seletivo_backend/internals/events"
	respCtrl "seletivo_backend/internals/features/assessments/responses/controller"
)

func ResponsePublicRoutes(r fiber.Router, db *gorm.DB, pub events.Publisher, tokenSecret string) {
	ctrl := respCtrl.NewResponseController(db, pub, tokenSecret)

	r.Post("/responses", ctrl.Submit)
}

func ResponseAdminRoutes(r fiber.Router, db *gorm.DB, pub events.Publisher, tokenSecret string) {
	ctrl := respCtrl.NewResponseController(db, pub, tokenSecret)

	r.Get("/candidates/:id/responses", ctrl.ListByCandidate)
}
