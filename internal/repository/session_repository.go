package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/deskops/helpdesk/internal/domain"
	"github.com/deskops/helpdesk/internal/persistence"
)

const sessionKey = "session"

// SessionRepository persists the signed-in identity of the profile.
type SessionRepository interface {
	// Load returns ok=false when no session is stored.
	Load(ctx context.Context) (domain.Identity, bool, error)
	Save(ctx context.Context, identity domain.Identity) error
	Clear(ctx context.Context) error
}

type sessionRepository struct {
	kv  persistence.KeyValueStore
	key string
}

// NewSessionRepository stores the session under <prefix>session.
func NewSessionRepository(kv persistence.KeyValueStore, prefix string) SessionRepository {
	return &sessionRepository{kv: kv, key: prefix + sessionKey}
}

func (r *sessionRepository) Load(ctx context.Context) (domain.Identity, bool, error) {
	data, err := r.kv.Get(ctx, r.key)
	if errors.Is(err, persistence.ErrKeyNotFound) {
		return domain.Identity{}, false, nil
	}
	if err != nil {
		return domain.Identity{}, false, fmt.Errorf("%w: read %s: %w", domain.ErrPersistence, r.key, err)
	}

	var identity domain.Identity
	if err := json.Unmarshal(data, &identity); err != nil {
		return domain.Identity{}, false, fmt.Errorf("%w: %s: %w", domain.ErrCorruptSnapshot, r.key, err)
	}
	if !identity.Valid() {
		return domain.Identity{}, false, fmt.Errorf("%w: %s: incomplete identity", domain.ErrCorruptSnapshot, r.key)
	}
	return identity, true, nil
}

func (r *sessionRepository) Save(ctx context.Context, identity domain.Identity) error {
	data, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %w", domain.ErrPersistence, r.key, err)
	}
	if err := r.kv.Set(ctx, r.key, data); err != nil {
		return fmt.Errorf("%w: write %s: %w", domain.ErrPersistence, r.key, err)
	}
	return nil
}

func (r *sessionRepository) Clear(ctx context.Context) error {
	if err := r.kv.Delete(ctx, r.key); err != nil {
		return fmt.Errorf("%w: delete %s: %w", domain.ErrPersistence, r.key, err)
	}
	return nil
}
