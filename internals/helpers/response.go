package helper

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

const MsgInternalError = "Erro interno do servidor"

// ValidationError maps validator.v10 errors to a 422 body keyed by json field.
func ValidationError(c *fiber.Ctx, err error) error {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return JsonError(c, fiber.StatusBadRequest, "Requisição inválida")
	}

	fields := make(map[string][]string, len(ve))
	for _, fe := range ve {
		name := strings.TrimSpace(fe.Field())
		fields[name] = append(fields[name], fe.Tag())
	}
	return JsonValidationError(c, fields)
}
