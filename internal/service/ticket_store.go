package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/deskops/helpdesk/internal/domain"
	"github.com/deskops/helpdesk/internal/events"
	"github.com/deskops/helpdesk/internal/observability"
	"github.com/deskops/helpdesk/internal/repository"
)

// TicketStore owns the ticket collection of one profile. Every mutation is
// written through to the repository. It is not safe for concurrent use.
type TicketStore struct {
	repo       repository.TicketRepository
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
	now        func() time.Time
	enforce    bool

	tickets []domain.Ticket
	index   map[string]int
}

// TicketStoreDependencies bundles collaborators for the ticket store.
type TicketStoreDependencies struct {
	Repo       repository.TicketRepository
	Dispatcher events.Dispatcher
	Metrics    *observability.Metrics
	Logger     *zap.Logger
	// Now defaults to time.Now.
	Now func() time.Time
	// EnforceTransitions rejects status changes outside Pending -> InProgress -> Finished.
	EnforceTransitions bool
}

// NewTicketStore loads the persisted snapshot. An absent or unreadable snapshot
// leaves the store empty rather than failing.
func NewTicketStore(ctx context.Context, deps TicketStoreDependencies) *TicketStore {
	s := &TicketStore{
		repo:       deps.Repo,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     deps.Logger,
		now:        deps.Now,
		enforce:    deps.EnforceTransitions,
		index:      map[string]int{},
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}

	tickets, err := s.repo.Load(ctx)
	if err != nil {
		s.logger.Warn("ticket snapshot unavailable, starting empty", zap.Error(err))
		tickets = nil
	}
	for _, t := range tickets {
		if _, dup := s.index[t.ID]; dup {
			s.logger.Warn("duplicate ticket id in snapshot", zap.String("ticket_id", t.ID))
			continue
		}
		s.index[t.ID] = len(s.tickets)
		s.tickets = append(s.tickets, t)
	}
	s.logger.Info("ticket store ready", zap.Int("tickets", len(s.tickets)))
	return s
}

// Create opens a Pending ticket. Input is not validated here.
// On a persistence failure the ticket is kept and returned alongside the error.
func (s *TicketStore) Create(ctx context.Context, input domain.NewTicket) (*domain.Ticket, error) {
	now := s.clock()
	ticket := domain.Ticket{
		ID:          uuid.NewString(),
		Requester:   input.Requester,
		Sector:      input.Sector,
		ProblemType: input.ProblemType,
		Description: input.Description,
		Urgency:     input.Urgency,
		Status:      domain.TicketStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
		History:     []domain.HistoryEntry{domain.CreatedEntry(now)},
	}

	s.index[ticket.ID] = len(s.tickets)
	s.tickets = append(s.tickets, ticket)
	s.metrics.TicketCreated()

	s.publish(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Payload: events.TicketCreatedPayload{
			RequesterID: ticket.Requester.ID,
			Sector:      ticket.Sector,
			ProblemType: ticket.ProblemType,
			Urgency:     ticket.Urgency,
		},
	})

	out := ticket.Clone()
	return &out, s.persist(ctx)
}

// Update merges patch into the ticket, refreshes updatedAt and appends one
// history entry describing the resulting status. startTime is stamped on the
// first entry into InProgress, endTime on entry into Finished, unless the
// patch supplies them.
func (s *TicketStore) Update(ctx context.Context, id string, patch domain.TicketPatch) (*domain.Ticket, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	idx, ok := s.index[id]
	if !ok {
		s.logger.Warn("update of unknown ticket", zap.String("ticket_id", id))
		return nil, fmt.Errorf("%w: %s", domain.ErrTicketNotFound, id)
	}

	current := s.tickets[idx]
	if requested, ok := patch.RequestedStatus(); ok && s.enforce {
		if _, err := domain.Transition(current.Status, requested); err != nil {
			return nil, err
		}
	}

	next := current.Clone()
	patch.ApplyTo(&next)

	now := s.clock()
	if now.Before(current.UpdatedAt) {
		now = current.UpdatedAt
	}
	entering := next.Status != current.Status
	if next.Status == domain.TicketStatusInProgress && next.StartTime == nil {
		started := now
		next.StartTime = &started
	}
	if next.Status == domain.TicketStatusFinished && entering && !patch.EndTime.IsSet() {
		ended := now
		next.EndTime = &ended
	}
	next.UpdatedAt = now
	next.History = append(next.History, domain.StatusEntry(now, next.Status))

	s.tickets[idx] = next
	s.metrics.TicketUpdated(string(next.Status))

	s.publish(ctx, events.Event{Type: events.EventTicketUpdated, TicketID: id})
	if entering {
		s.publish(ctx, events.Event{
			Type:     events.EventTicketStatusChanged,
			TicketID: id,
			Payload: events.TicketStatusChangedPayload{
				OldStatus: current.Status,
				NewStatus: next.Status,
			},
		})
	}

	out := next.Clone()
	return &out, s.persist(ctx)
}

// Get returns a copy of the ticket.
func (s *TicketStore) Get(id string) (*domain.Ticket, error) {
	idx, ok := s.index[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrTicketNotFound, id)
	}
	out := s.tickets[idx].Clone()
	return &out, nil
}

// ListByUser returns the tickets opened by userID in creation order.
func (s *TicketStore) ListByUser(userID string) []domain.Ticket {
	out := []domain.Ticket{}
	for _, t := range s.tickets {
		if t.Requester.ID == userID {
			out = append(out, t.Clone())
		}
	}
	return out
}

// ListAll returns every ticket in creation order.
func (s *TicketStore) ListAll() []domain.Ticket {
	out := make([]domain.Ticket, 0, len(s.tickets))
	for _, t := range s.tickets {
		out = append(out, t.Clone())
	}
	return out
}

func (s *TicketStore) clock() time.Time {
	return s.now().UTC()
}

func (s *TicketStore) persist(ctx context.Context) error {
	if err := s.repo.Save(ctx, s.tickets); err != nil {
		s.metrics.PersistFailed("tickets")
		s.logger.Error("persist tickets", zap.Error(err))
		s.publish(ctx, events.Event{
			Type:    events.EventPersistenceFailed,
			Payload: events.PersistenceFailedPayload{Entry: "tickets", Error: err.Error()},
		})
		return err
	}
	return nil
}

func (s *TicketStore) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}
