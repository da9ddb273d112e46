package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"seletivo_backend/internals/constants"
	helper "seletivo_backend/internals/helpers"
)

type AuthJWTOpts struct {
	Secret              string
	AllowCookieFallback bool // access_token cookie when there is no Bearer header
}

// AuthJWT verifies an HS256 admin token and hydrates user_id, company_id and
// roles into locals.
func AuthJWT(o AuthJWTOpts) fiber.Handler {
	secret := strings.TrimSpace(o.Secret)
	if secret == "" {
		panic("AuthJWT: Secret é obrigatório")
	}

	return func(c *fiber.Ctx) error {
		// 1) token: Authorization: Bearer xxx (or cookie)
		raw := ""
		if authz := strings.TrimSpace(c.Get(fiber.HeaderAuthorization)); strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			raw = strings.TrimSpace(authz[7:])
		} else if o.AllowCookieFallback {
			raw = strings.TrimSpace(c.Cookies("access_token"))
		}
		if raw == "" {
			return helper.JsonError(c, fiber.StatusUnauthorized, "Token ausente")
		}

		// 2) parse + algorithm check
		tok, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
			}
			return []byte(secret), nil
		})
		if err != nil || !tok.Valid {
			return helper.JsonError(c, fiber.StatusUnauthorized, "Token inválido")
		}

		claims, ok := tok.Claims.(jwt.MapClaims)
		if !ok {
			return helper.JsonError(c, fiber.StatusUnauthorized, "Token inválido")
		}
		c.Locals("jwt_claims", claims)

		// 3) hydrate locals
		switch {
		case strClaim(claims, "id") != "":
			c.Locals(helper.LocUserID, strClaim(claims, "id"))
		case strClaim(claims, "sub") != "":
			c.Locals(helper.LocUserID, strClaim(claims, "sub"))
		case strClaim(claims, "user_id") != "":
			c.Locals(helper.LocUserID, strClaim(claims, "user_id"))
		}

		if cid := strClaim(claims, "company_id"); cid != "" {
			if _, err := uuid.Parse(cid); err != nil {
				return helper.JsonError(c, fiber.StatusUnauthorized, "company_id inválido no token")
			}
			c.Locals(helper.LocCompanyID, cid)
		}

		roles := readStringSlice(claims["roles"])
		if r := strClaim(claims, "role"); r != "" {
			roles = append(roles, r)
		}
		c.Locals(helper.LocRoles, roles)

		return c.Next()
	}
}

// RequireCompany rejects tokens without a tenant.
func RequireCompany() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := helper.GetCompanyIDFromToken(c); err != nil {
			return helper.FromServiceError(c, err)
		}
		return c.Next()
	}
}

// RequireRole passes when the token carries any of the given roles.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !helper.HasRole(c, roles...) {
			return helper.JsonError(c, fiber.StatusForbidden, "Acesso negado")
		}
		return c.Next()
	}
}

// RequireInviteManager guards invite issuing.
func RequireInviteManager() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !helper.HasRole(c, constants.InviteManagers...) {
			return helper.JsonError(c, fiber.StatusForbidden, constants.RoleErrorInviteManager("a geração de convites"))
		}
		return c.Next()
	}
}

func strClaim(m jwt.MapClaims, key string) string {
	if v, ok := m[key]; ok {
		if s, ok := v.(string); ok {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// readStringSlice accepts []string or []any from the decoded claims.
func readStringSlice(v any) []string {
	out := make([]string, 0)
	switch t := v.(type) {
	case []string:
		for _, s := range t {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	case []any:
		for _, it := range t {
			if s, ok := it.(string); ok {
				if s = strings.TrimSpace(s); s != "" {
					out = append(out, s)
				}
			}
		}
	}
	return out
}
