package dto

import (
	"time"

	"github.com/deskops/helpdesk/internal/domain"
)

// SignInRequest payload for POST /auth/sign-in.
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SessionResponse describes the signed-in profile.
type SessionResponse struct {
	User domain.Identity `json:"user"`
	Auth *AuthResponse   `json:"auth,omitempty"`
}
