package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/deskops/helpdesk/internal/domain"
	"github.com/deskops/helpdesk/internal/persistence"
)

const ticketsKey = "tickets"

// TicketRepository persists the whole ticket collection as one snapshot.
type TicketRepository interface {
	// Load returns the stored collection; an absent snapshot yields an empty one.
	Load(ctx context.Context) ([]domain.Ticket, error)
	Save(ctx context.Context, tickets []domain.Ticket) error
}

type ticketRepository struct {
	kv  persistence.KeyValueStore
	key string
}

// NewTicketRepository stores the collection under <prefix>tickets.
func NewTicketRepository(kv persistence.KeyValueStore, prefix string) TicketRepository {
	return &ticketRepository{kv: kv, key: prefix + ticketsKey}
}

func (r *ticketRepository) Load(ctx context.Context) ([]domain.Ticket, error) {
	data, err := r.kv.Get(ctx, r.key)
	if errors.Is(err, persistence.ErrKeyNotFound) {
		return []domain.Ticket{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", domain.ErrPersistence, r.key, err)
	}

	var tickets []domain.Ticket
	if err := json.Unmarshal(data, &tickets); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrCorruptSnapshot, r.key, err)
	}
	if tickets == nil {
		tickets = []domain.Ticket{}
	}
	return tickets, nil
}

func (r *ticketRepository) Save(ctx context.Context, tickets []domain.Ticket) error {
	if tickets == nil {
		tickets = []domain.Ticket{}
	}
	data, err := json.Marshal(tickets)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %w", domain.ErrPersistence, r.key, err)
	}
	if err := r.kv.Set(ctx, r.key, data); err != nil {
		return fmt.Errorf("%w: write %s: %w", domain.ErrPersistence, r.key, err)
	}
	return nil
}
