package controller

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"seletivo_backend/internals/configs"
	"seletivo_backend/internals/features/candidates/invites/dto"
	"seletivo_backend/internals/features/candidates/invites/service"
	helper "seletivo_backend/internals/helpers"
)

type InviteController struct {
	Svc *service.InviteService
	V   *validator.Validate
}

func NewInviteController(db *gorm.DB, cfg configs.InviteConfig) *InviteController {
	return &InviteController{
		Svc: service.NewInviteService(db, cfg),
		V:   validator.New(),
	}
}

// POST /api/public/assessment/invites/validate
func (ctrl *InviteController) Validate(c *fiber.Ctx) error {
	var req dto.ValidateInviteRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Corpo da requisição inválido")
	}
	if err := ctrl.V.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	out, err := ctrl.Svc.Validate(c.UserContext(), req.InviteCode)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(out)
}

// GET /api/public/assessment/candidates/:id/results
func (ctrl *InviteController) Results(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	out, err := ctrl.Svc.CompletedView(c.UserContext(), id)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(out)
}

// POST /api/a/candidates/:id/invite
func (ctrl *InviteController) Generate(c *fiber.Ctx) error {
	companyID, err := helper.GetCompanyIDFromToken(c)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	candidateID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromServiceError(c, err)
	}

	var req dto.GenerateInviteRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Corpo da requisição inválido")
		}
		if err := ctrl.V.Struct(&req); err != nil {
			return helper.ValidationError(c, err)
		}
	}

	out, err := ctrl.Svc.Generate(c.UserContext(), companyID, candidateID, time.Duration(req.TTLHours)*time.Hour)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonCreated(c, "Convite gerado", out)
}
