package auth

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/deskops/helpdesk/pkg/util"
)

// RequireAdmin ensures the principal may triage tickets.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("sign in required")
		}
		if !principal.IsAdmin() {
			return apperrors.NewForbidden("admin role required")
		}
		return c.Next()
	}
}
