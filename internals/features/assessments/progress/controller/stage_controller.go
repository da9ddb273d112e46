package controller

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"seletivo_backend/internals/events"
	"seletivo_backend/internals/features/assessments/progress/dto"
	"seletivo_backend/internals/features/assessments/progress/service"
	helper "seletivo_backend/internals/helpers"
)

type StageController struct {
	DB         *gorm.DB
	Completion *service.CompletionService
	Navigator  *service.NavigatorService
	Flow       *service.FlowService
	V          *validator.Validate
	// Refresh runs before aggregate reads; nil skips it
	Refresh func(ctx context.Context) error
}

func NewStageController(db *gorm.DB, pub events.Publisher, refresh func(ctx context.Context) error) *StageController {
	flow := service.NewFlowService(db, pub)
	return &StageController{
		DB:         db,
		Completion: flow.Completion,
		Navigator:  service.NewNavigatorService(db),
		Flow:       flow,
		V:          validator.New(),
		Refresh:    refresh,
	}
}

func (ctrl *StageController) refresh(c *fiber.Ctx) {
	if ctrl.Refresh == nil {
		return
	}
	if err := ctrl.Refresh(c.UserContext()); err != nil {
		log.Warn().Err(err).Msg("db refresh before aggregate read failed")
	}
}

// GET /api/public/assessment/stages/completed?stageId=&candidateId=
func (ctrl *StageController) CheckCompleted(c *fiber.Ctx) error {
	var q dto.StageQuery
	if err := c.QueryParser(&q); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Parâmetros inválidos")
	}
	candidateID, err := helper.ParseUUIDField(q.CandidateID, "candidateId")
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	ref, err := helper.ParseStageRef(q.StageID)
	if err != nil {
		return helper.FromServiceError(c, err)
	}

	ctrl.refresh(c)
	out, _, err := ctrl.Completion.Check(c.UserContext(), candidateID, ref)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(out)
}

// POST /api/public/assessment/stages/completed
func (ctrl *StageController) MarkCompleted(c *fiber.Ctx) error {
	var req dto.MarkStageCompletedRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Corpo da requisição inválido")
	}
	if err := ctrl.V.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	out, err := ctrl.Flow.MarkCompleted(c.UserContext(), &req)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(out)
}

// GET /api/public/assessment/stages/next?currentStage=&candidateId=
func (ctrl *StageController) Next(c *fiber.Ctx) error {
	var q dto.StageQuery
	if err := c.QueryParser(&q); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Parâmetros inválidos")
	}
	candidateID, err := helper.ParseUUIDField(q.CandidateID, "candidateId")
	if err != nil {
		return helper.FromServiceError(c, err)
	}

	out, err := ctrl.Navigator.Next(c.UserContext(), candidateID, q.CurrentStage)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(out)
}

// GET /api/a/candidates/:id/progress
func (ctrl *StageController) Overview(c *fiber.Ctx) error {
	companyID, err := helper.GetCompanyIDFromToken(c)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	candidateID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromServiceError(c, err)
	}

	ctrl.refresh(c)
	out, err := service.Overview(c.UserContext(), ctrl.DB, companyID, candidateID)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonOK(c, "ok", out)
}
