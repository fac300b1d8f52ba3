package events

import (
	"time"

	"github.com/deskops/helpdesk/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated       EventType = "ticket_created"
	EventTicketUpdated       EventType = "ticket_updated"
	EventTicketStatusChanged EventType = "ticket_status_changed"
	EventPersistenceFailed   EventType = "persistence_failed"
	EventSessionStarted      EventType = "session_started"
	EventSessionEnded        EventType = "session_ended"
	EventSignInRejected      EventType = "sign_in_rejected"
)

// Event represents a domain event emitted by the stores.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	RequesterID string               `json:"requester_id"`
	Sector      string               `json:"sector"`
	ProblemType string               `json:"problem_type"`
	Urgency     domain.TicketUrgency `json:"urgency"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
}

// PersistenceFailedPayload payload.
type PersistenceFailedPayload struct {
	Entry string `json:"entry"`
	Error string `json:"error"`
}

// SessionPayload payload.
type SessionPayload struct {
	UserID string      `json:"user_id,omitempty"`
	Email  string      `json:"email"`
	Role   domain.Role `json:"role,omitempty"`
}
