package service

import (
	"context"
	"errors"
	"time"

	"github.com/deskops/helpdesk/internal/auth"
	"github.com/deskops/helpdesk/internal/domain"
)

// AuthService signs the profile in and out and issues API bearer tokens for
// the active session.
type AuthService struct {
	sessions *SessionStore
	tokenMgr *auth.TokenManager
}

// NewAuthService builds the service.
func NewAuthService(sessions *SessionStore, tokenMgr *auth.TokenManager) *AuthService {
	return &AuthService{sessions: sessions, tokenMgr: tokenMgr}
}

// SignIn authenticates and returns a token bound to the new session. A
// persistence failure still yields a usable token; the error is returned too.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (domain.Identity, string, time.Time, error) {
	identity, err := s.sessions.SignIn(ctx, email, password)
	if err != nil && !errors.Is(err, domain.ErrPersistence) {
		return domain.Identity{}, "", time.Time{}, err
	}
	token, exp, tokenErr := s.tokenMgr.GenerateToken(identity)
	if tokenErr != nil {
		return domain.Identity{}, "", time.Time{}, tokenErr
	}
	return identity, token, exp, err
}

// SignOut ends the session; outstanding tokens stop being accepted.
func (s *AuthService) SignOut(ctx context.Context) error {
	return s.sessions.SignOut(ctx)
}

// Session returns the signed-in identity.
func (s *AuthService) Session() (domain.Identity, error) {
	identity, ok := s.sessions.Current()
	if !ok {
		return domain.Identity{}, domain.ErrNotSignedIn
	}
	return identity, nil
}
