package route

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"seletivo_backend/internals/events"
	stageCtrl "seletivo_backend/internals/features/assessments/progress/controller"
)

func StagePublicRoutes(r fiber.Router, db *gorm.DB, pub events.Publisher, refresh func(ctx context.Context) error) {
	ctrl := stageCtrl.NewStageController(db, pub, refresh)

	g := r.Group("/stages")
	g.Get("/completed", ctrl.CheckCompleted)
	g.Post("/completed", ctrl.MarkCompleted)
	g.Get("/next", ctrl.Next)
}

func StageAdminRoutes(r fiber.Router, db *gorm.DB, pub events.Publisher, refresh func(ctx context.Context) error) {
	ctrl := stageCtrl.NewStageController(db, pub, refresh)

	r.Get("/candidates/:id/progress", ctrl.Overview)
}
