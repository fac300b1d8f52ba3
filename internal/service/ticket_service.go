package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/deskops/helpdesk/internal/domain"
	apperrors "github.com/deskops/helpdesk/pkg/util"
)

// CurrentIdentity exposes the signed-in user. SessionStore implements it.
type CurrentIdentity interface {
	Current() (domain.Identity, bool)
}

// TicketService layers the requester and admin workflows on top of the store.
// Role checks here guard the presentation surfaces, not the data itself.
type TicketService struct {
	tickets  *TicketStore
	sessions CurrentIdentity
	logger   *zap.Logger
}

// NewTicketService constructs the service.
func NewTicketService(tickets *TicketStore, sessions CurrentIdentity, logger *zap.Logger) *TicketService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TicketService{tickets: tickets, sessions: sessions, logger: logger}
}

// OpenTicketInput describes ticket creation payload.
type OpenTicketInput struct {
	Sector      string
	ProblemType string
	Description string
	Urgency     string
}

// Validate checks the required creation fields.
func (in OpenTicketInput) Validate() (domain.TicketUrgency, error) {
	details := map[string]any{}
	if strings.TrimSpace(in.Sector) == "" {
		details["sector"] = "required"
	}
	if strings.TrimSpace(in.ProblemType) == "" {
		details["problemType"] = "required"
	}
	if strings.TrimSpace(in.Description) == "" {
		details["description"] = "required"
	}
	var urgency domain.TicketUrgency
	if strings.TrimSpace(in.Urgency) == "" {
		details["urgency"] = "required"
	} else if parsed, err := domain.ParseTicketUrgency(in.Urgency); err != nil {
		details["urgency"] = "must be one of Urgent, Medium, Moderate"
	} else {
		urgency = parsed
	}
	if len(details) > 0 {
		return "", apperrors.NewValidationError("missing or invalid ticket fields", details)
	}
	return urgency, nil
}

// Open creates a ticket on behalf of the signed-in user.
func (s *TicketService) Open(ctx context.Context, input OpenTicketInput) (*domain.Ticket, error) {
	identity, err := s.requireSession()
	if err != nil {
		return nil, err
	}
	urgency, err := input.Validate()
	if err != nil {
		return nil, err
	}
	return s.tickets.Create(ctx, domain.NewTicket{
		Requester:   identity.AsRequester(),
		Sector:      strings.TrimSpace(input.Sector),
		ProblemType: strings.TrimSpace(input.ProblemType),
		Description: strings.TrimSpace(input.Description),
		Urgency:     urgency,
	})
}

// StartService moves a ticket into InProgress and stamps its start time.
// A ticket that already has a start time is left unchanged.
func (s *TicketService) StartService(ctx context.Context, id string) (*domain.Ticket, error) {
	if _, err := s.requireAdmin(); err != nil {
		return nil, err
	}
	ticket, err := s.tickets.Get(id)
	if err != nil {
		return nil, err
	}
	if ticket.StartTime != nil {
		return nil, domain.ErrAlreadyStarted
	}
	return s.tickets.Update(ctx, id, domain.TicketPatch{
		Status:    domain.Set(domain.TicketStatusInProgress),
		StartTime: domain.Set(s.tickets.clock()),
	})
}

// FinishService closes a ticket with a solution and an optional cost.
// costText accepts "," as decimal separator; blank or unparseable text leaves
// the ticket without a cost.
func (s *TicketService) FinishService(ctx context.Context, id, solution, costText string) (*domain.Ticket, error) {
	if _, err := s.requireAdmin(); err != nil {
		return nil, err
	}
	solution = strings.TrimSpace(solution)
	if solution == "" {
		return nil, apperrors.NewValidationError("solution is required to finish a ticket", map[string]any{"solution": "required"})
	}
	if _, err := s.tickets.Get(id); err != nil {
		return nil, err
	}

	patch := domain.TicketPatch{
		Status:   domain.Set(domain.TicketStatusFinished),
		Solution: domain.Set(solution),
		EndTime:  domain.Set(s.tickets.clock()),
		Cost:     domain.Clear[domain.Money](),
	}
	if cost, ok := domain.ParseMoney(costText); ok {
		patch.Cost = domain.Set(cost)
	} else if strings.TrimSpace(costText) != "" {
		s.logger.Info("ignoring unparseable cost", zap.String("ticket_id", id), zap.String("cost", costText))
	}
	return s.tickets.Update(ctx, id, patch)
}

// Amend applies an arbitrary admin patch.
func (s *TicketService) Amend(ctx context.Context, id string, patch domain.TicketPatch) (*domain.Ticket, error) {
	if _, err := s.requireAdmin(); err != nil {
		return nil, err
	}
	return s.tickets.Update(ctx, id, patch)
}

// Visible lists every ticket for admins and the caller's own tickets otherwise.
func (s *TicketService) Visible(_ context.Context) ([]domain.Ticket, error) {
	identity, err := s.requireSession()
	if err != nil {
		return nil, err
	}
	if identity.IsAdmin() {
		return s.tickets.ListAll(), nil
	}
	return s.tickets.ListByUser(identity.ID), nil
}

// Ticket fetches one ticket. Standard users only see their own.
func (s *TicketService) Ticket(_ context.Context, id string) (*domain.Ticket, error) {
	identity, err := s.requireSession()
	if err != nil {
		return nil, err
	}
	ticket, err := s.tickets.Get(id)
	if err != nil {
		return nil, err
	}
	if !identity.IsAdmin() && ticket.Requester.ID != identity.ID {
		return nil, domain.ErrForbidden
	}
	return ticket, nil
}

func (s *TicketService) requireSession() (domain.Identity, error) {
	identity, ok := s.sessions.Current()
	if !ok {
		return domain.Identity{}, domain.ErrNotSignedIn
	}
	return identity, nil
}

func (s *TicketService) requireAdmin() (domain.Identity, error) {
	identity, err := s.requireSession()
	if err != nil {
		return identity, err
	}
	if !identity.IsAdmin() {
		return identity, domain.ErrForbidden
	}
	return identity, nil
}
