package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func ParseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	return ParseUUIDField(c.Params(name), name)
}

// ParseUUIDField parses a required UUID coming from a query/body field.
func ParseUUIDField(raw, field string) (uuid.UUID, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, field+" é obrigatório")
	}
	id, err := uuid.Parse(s)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, field+" inválido")
	}
	return id, nil
}
