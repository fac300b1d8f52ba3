package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/deskops/helpdesk/internal/domain"
	"github.com/deskops/helpdesk/internal/events"
	"github.com/deskops/helpdesk/internal/observability"
	"github.com/deskops/helpdesk/internal/repository"
)

// IdentityProvider checks credentials. auth.Directory is the bundled implementation.
type IdentityProvider interface {
	Authenticate(ctx context.Context, email, secret string) (domain.Identity, error)
}

// SessionStore holds the identity signed in to the profile. It is not safe
// for concurrent use.
type SessionStore struct {
	repo       repository.SessionRepository
	identities IdentityProvider
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger

	current *domain.Identity
}

// SessionStoreDependencies bundles collaborators for the session store.
type SessionStoreDependencies struct {
	Repo       repository.SessionRepository
	Identities IdentityProvider
	Dispatcher events.Dispatcher
	Metrics    *observability.Metrics
	Logger     *zap.Logger
}

// NewSessionStore restores a persisted session as-is; credentials are not
// checked again. A malformed entry is ignored.
func NewSessionStore(ctx context.Context, deps SessionStoreDependencies) *SessionStore {
	s := &SessionStore{
		repo:       deps.Repo,
		identities: deps.Identities,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     deps.Logger,
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}

	identity, ok, err := s.repo.Load(ctx)
	switch {
	case err != nil:
		s.logger.Warn("stored session unusable, signed out", zap.Error(err))
	case ok:
		s.current = &identity
		s.logger.Info("session restored", zap.String("user_id", identity.ID))
	}
	return s
}

// SignIn authenticates and makes identity the current session. A rejected
// attempt leaves any existing session untouched. If only the persist step
// fails the session is still active and the identity is returned with the error.
func (s *SessionStore) SignIn(ctx context.Context, email, password string) (domain.Identity, error) {
	identity, err := s.identities.Authenticate(ctx, email, password)
	if err != nil {
		s.metrics.SignIn(false)
		s.logger.Info("sign-in rejected", zap.String("email", email))
		s.publish(ctx, events.Event{
			Type:    events.EventSignInRejected,
			Payload: events.SessionPayload{Email: email},
		})
		return domain.Identity{}, err
	}

	s.current = &identity
	s.metrics.SignIn(true)
	s.publish(ctx, events.Event{
		Type:    events.EventSessionStarted,
		Payload: events.SessionPayload{UserID: identity.ID, Email: identity.Email, Role: identity.Role},
	})

	if err := s.repo.Save(ctx, identity); err != nil {
		s.persistFailed(ctx, err)
		return identity, err
	}
	return identity, nil
}

// SignOut clears the session and removes the persisted entry.
func (s *SessionStore) SignOut(ctx context.Context) error {
	previous := s.current
	s.current = nil
	if previous != nil {
		s.publish(ctx, events.Event{
			Type:    events.EventSessionEnded,
			Payload: events.SessionPayload{UserID: previous.ID, Email: previous.Email, Role: previous.Role},
		})
	}

	if err := s.repo.Clear(ctx); err != nil {
		s.persistFailed(ctx, err)
		return err
	}
	return nil
}

// Current returns the signed-in identity.
func (s *SessionStore) Current() (domain.Identity, bool) {
	if s.current == nil {
		return domain.Identity{}, false
	}
	return *s.current, true
}

func (s *SessionStore) persistFailed(ctx context.Context, err error) {
	s.metrics.PersistFailed("session")
	s.logger.Error("persist session", zap.Error(err))
	s.publish(ctx, events.Event{
		Type:    events.EventPersistenceFailed,
		Payload: events.PersistenceFailedPayload{Entry: "session", Error: err.Error()},
	})
}

func (s *SessionStore) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}
