package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/deskops/helpdesk/internal/api/dto"
	"github.com/deskops/helpdesk/internal/domain"
	"github.com/deskops/helpdesk/internal/service"
	apperrors "github.com/deskops/helpdesk/pkg/util"
)

// SessionHandler exposes sign-in and sign-out for the profile.
type SessionHandler struct {
	auth *service.AuthService
}

// NewSessionHandler constructs handler.
func NewSessionHandler(authService *service.AuthService) *SessionHandler {
	return &SessionHandler{auth: authService}
}

// SignIn handles POST /auth/sign-in.
func (h *SessionHandler) SignIn(c *fiber.Ctx) error {
	var req dto.SignInRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}

	identity, token, exp, err := h.auth.SignIn(c.UserContext(), req.Email, req.Password)
	if err != nil && !errors.Is(err, domain.ErrPersistence) {
		return err
	}

	body := fiber.Map{"data": dto.SessionResponse{
		User: identity,
		Auth: &dto.AuthResponse{Token: token, ExpiresAt: exp},
	}}
	if err != nil {
		body["warning"] = persistenceWarning(err)
	}
	return c.Status(http.StatusOK).JSON(body)
}

// SignOut handles POST /auth/sign-out.
func (h *SessionHandler) SignOut(c *fiber.Ctx) error {
	if err := h.auth.SignOut(c.UserContext()); err != nil && !errors.Is(err, domain.ErrPersistence) {
		return err
	} else if err != nil {
		return c.Status(http.StatusOK).JSON(fiber.Map{"warning": persistenceWarning(err)})
	}
	return c.SendStatus(http.StatusNoContent)
}

// Session handles GET /auth/session.
func (h *SessionHandler) Session(c *fiber.Ctx) error {
	identity, err := h.auth.Session()
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.SessionResponse{User: identity}})
}

// persistenceWarning reports a write that only reached memory.
func persistenceWarning(err error) fiber.Map {
	domainErr := apperrors.ToDomainError(err)
	return fiber.Map{"code": domainErr.Code, "message": domainErr.Message}
}
