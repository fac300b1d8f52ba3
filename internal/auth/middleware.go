package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/deskops/helpdesk/internal/domain"
	apperrors "github.com/deskops/helpdesk/pkg/util"
)

const principalKey = "auth_principal"

// SessionSource exposes the identity currently signed in to the profile.
type SessionSource interface {
	Current() (domain.Identity, bool)
}

// AuthMiddleware validates bearer tokens against the live profile session.
type AuthMiddleware struct {
	tokens   *TokenManager
	sessions SessionSource
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, sessions SessionSource) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, sessions: sessions}
}

// Handle enforces authentication for protected routes. A token is honoured only
// while the profile session holds the identity it was issued for.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	current, ok := m.sessions.Current()
	if !ok || current != claims.Identity() {
		return apperrors.NewUnauthorized("session ended")
	}

	c.Locals(principalKey, current)
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated identity.
func PrincipalFromContext(c *fiber.Ctx) (domain.Identity, bool) {
	principal, ok := c.Locals(principalKey).(domain.Identity)
	return principal, ok
}
