package helper

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// FromServiceError turns a service error into the standard JSON error body.
// *fiber.Error values are domain errors and pass through with their code and
// message; anything else is infrastructure: logged in full, answered as a
// generic 500.
func FromServiceError(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return JsonError(c, fe.Code, fe.Message)
	}
	log.Error().
		Err(err).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Interface("reqid", c.Locals("reqid")).
		Msg("unhandled service error")
	return JsonError(c, fiber.StatusInternalServerError, MsgInternalError)
}
