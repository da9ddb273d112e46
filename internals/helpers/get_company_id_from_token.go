package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	LocUserID    = "user_id"
	LocCompanyID = "company_id"
	LocRoles     = "roles"
)

// GetCompanyIDFromToken reads the tenant resolved by the JWT middleware.
// 401 when missing, 400 when malformed.
func GetCompanyIDFromToken(c *fiber.Ctx) (uuid.UUID, error) {
	return localsUUID(c, LocCompanyID, "Empresa não definida no token", "ID de empresa inválido no token")
}

func localsUUID(c *fiber.Ctx, key, missingMsg, invalidMsg string) (uuid.UUID, error) {
	var s string
	switch t := c.Locals(key).(type) {
	case uuid.UUID:
		if t == uuid.Nil {
			return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, missingMsg)
		}
		return t, nil
	case string:
		s = strings.TrimSpace(t)
	case []byte:
		s = strings.TrimSpace(string(t))
	}
	if s == "" {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, missingMsg)
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, invalidMsg)
	}
	return id, nil
}

// HasRole checks the roles claim hydrated into locals.
func HasRole(c *fiber.Ctx, roles ...string) bool {
	have, _ := c.Locals(LocRoles).([]string)
	for _, h := range have {
		for _, r := range roles {
			if strings.EqualFold(strings.TrimSpace(h), r) {
				return true
			}
		}
	}
	return false
}
