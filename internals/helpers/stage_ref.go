package helper

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Stage references coming from clients are either a stage UUID or a small
// 1-based order number ("1", "2", ...). Every endpoint accepts both.
const maxStageOrder = 1000

var ErrInvalidStageRef = fiber.NewError(fiber.StatusBadRequest, "Identificador de etapa inválido")

type StageRefInput struct {
	Raw     string
	ID      uuid.UUID
	Order   int
	IsOrder bool
}

func ParseStageRef(raw string) (StageRefInput, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return StageRefInput{}, ErrInvalidStageRef
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n < 1 || n > maxStageOrder {
			return StageRefInput{}, ErrInvalidStageRef
		}
		return StageRefInput{Raw: s, Order: n, IsOrder: true}, nil
	}
	id, err := uuid.Parse(s)
	if err != nil || id == uuid.Nil {
		return StageRefInput{}, ErrInvalidStageRef
	}
	return StageRefInput{Raw: s, ID: id}, nil
}

func (r StageRefInput) String() string {
	if r.IsOrder {
		return strconv.Itoa(r.Order)
	}
	return r.ID.String()
}
