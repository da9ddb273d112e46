package controller

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"seletivo_backend/internals/events"
	progressService "seletivo_backend/internals/features/assessments/progress/service"
	"seletivo_backend/internals/features/assessments/responses/dto"
	"seletivo_backend/internals/features/assessments/responses/service"
	candService "seletivo_backend/internals/features/candidates/candidates/service"
	inviteService "seletivo_backend/internals/features/candidates/invites/service"
	helper "seletivo_backend/internals/helpers"
)

const HeaderSecurityToken = "X-Security-Token"

type ResponseController struct {
	DB          *gorm.DB
	Recorder    *service.RecorderService
	Flow        *progressService.FlowService
	V           *validator.Validate
	TokenSecret string
}

func NewResponseController(db *gorm.DB, pub events.Publisher, tokenSecret string) *ResponseController {
	return &ResponseController{
		DB:          db,
		Recorder:    service.NewRecorderService(db),
		Flow:        progressService.NewFlowService(db, pub),
		V:           validator.New(),
		TokenSecret: tokenSecret,
	}
}

// POST /api/public/assessment/responses
func (ctrl *ResponseController) Submit(c *fiber.Ctx) error {
	var req dto.SubmitResponsesRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Corpo da requisição inválido")
	}
	if err := ctrl.V.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	candidateID, err := helper.ParseUUIDField(req.CandidateID, "candidateId")
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	ref, err := helper.ParseStageRef(req.StageID)
	if err != nil {
		return helper.FromServiceError(c, err)
	}

	// tamper check only when the client sends the token
	if tok := strings.TrimSpace(c.Get(HeaderSecurityToken)); tok != "" {
		if !inviteService.VerifySecurityToken(ctrl.TokenSecret, tok, candidateID) {
			return helper.JsonError(c, fiber.StatusForbidden, "Token de segurança inválido")
		}
	}

	res, err := ctrl.Recorder.Record(c.UserContext(), candidateID, &req)
	if err != nil {
		return helper.FromServiceError(c, err)
	}

	outcome := ctrl.Flow.AfterSubmission(c.UserContext(), candidateID, ref)
	return c.Status(fiber.StatusOK).JSON(dto.SubmitResponsesResponse{
		Success:            true,
		Count:              res.Count,
		Skipped:            res.Skipped,
		StageCompleted:     outcome.StageCompleted,
		CandidateCompleted: outcome.CandidateCompleted,
		Warning:            outcome.Warning,
	})
}

// GET /api/a/candidates/:id/responses
func (ctrl *ResponseController) ListByCandidate(c *fiber.Ctx) error {
	companyID, err := helper.GetCompanyIDFromToken(c)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	candidateID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	if _, err := candService.FindCompanyCandidate(c.UserContext(), ctrl.DB, companyID, candidateID); err != nil {
		return helper.FromServiceError(c, err)
	}

	p := helper.ResolvePaging(c, 50, 200)
	rows, total, err := service.ListForAdmin(c.UserContext(), ctrl.DB, candidateID, p)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonList(c, "ok", rows, helper.BuildPagination(total, p, len(rows)))
}
