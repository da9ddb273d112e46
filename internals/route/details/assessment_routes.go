package details

import (
	"github.com/gofiber/fiber/v2"

	progressRoute "seletivo_backend/internals/features/assessments/progress/route"
	responseRoute "seletivo_backend/internals/features/assessments/responses/route"
	inviteRoute "seletivo_backend/internals/features/candidates/invites/route"
)

// AssessmentPublicRoutes mounts the candidate-facing flow (no auth).
func AssessmentPublicRoutes(r fiber.Router, d Deps) {
	g := r.Group("/assessment")
	db := d.DB.Gorm()

	inviteRoute.InvitePublicRoutes(g, db, d.Invite)
	responseRoute.ResponsePublicRoutes(g, db, d.Publisher, d.Invite.TokenSecret)
	progressRoute.StagePublicRoutes(g, db, d.Publisher, d.DB.Refresh)
}

// AssessmentAdminRoutes mounts the company panel endpoints.
func AssessmentAdminRoutes(r fiber.Router, d Deps) {
	db := d.DB.Gorm()

	inviteRoute.InviteAdminRoutes(r, db, d.Invite)
	responseRoute.ResponseAdminRoutes(r, db, d.Publisher, d.Invite.TokenSecret)
	progressRoute.StageAdminRoutes(r, db, d.Publisher, d.DB.Refresh)
}
