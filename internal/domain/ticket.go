package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusPending    TicketStatus = "Pending"
	TicketStatusInProgress TicketStatus = "InProgress"
	TicketStatusFinished   TicketStatus = "Finished"
)

// legacy labels written by the first browser release of the desk.
var legacyStatuses = map[string]TicketStatus{
	"Pendente":     TicketStatusPending,
	"Em Andamento": TicketStatusInProgress,
	"Finalizado":   TicketStatusFinished,
}

// ParseTicketStatus accepts canonical and legacy status labels.
func ParseTicketStatus(s string) (TicketStatus, error) {
	s = strings.TrimSpace(s)
	switch TicketStatus(s) {
	case TicketStatusPending, TicketStatusInProgress, TicketStatusFinished:
		return TicketStatus(s), nil
	}
	if status, ok := legacyStatuses[s]; ok {
		return status, nil
	}
	return "", fmt.Errorf("unknown ticket status %q", s)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *TicketStatus) UnmarshalText(text []byte) error {
	parsed, err := ParseTicketStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// TicketUrgency enumerates how pressing a request is.
type TicketUrgency string

const (
	TicketUrgencyUrgent   TicketUrgency = "Urgent"
	TicketUrgencyMedium   TicketUrgency = "Medium"
	TicketUrgencyModerate TicketUrgency = "Moderate"
)

var legacyUrgencies = map[string]TicketUrgency{
	"Urgente":  TicketUrgencyUrgent,
	"Médio":    TicketUrgencyMedium,
	"Moderado": TicketUrgencyModerate,
}

// ParseTicketUrgency accepts canonical and legacy urgency labels.
func ParseTicketUrgency(s string) (TicketUrgency, error) {
	s = strings.TrimSpace(s)
	switch TicketUrgency(s) {
	case TicketUrgencyUrgent, TicketUrgencyMedium, TicketUrgencyModerate:
		return TicketUrgency(s), nil
	}
	if urgency, ok := legacyUrgencies[s]; ok {
		return urgency, nil
	}
	return "", fmt.Errorf("unknown ticket urgency %q", s)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (u *TicketUrgency) UnmarshalText(text []byte) error {
	parsed, err := ParseTicketUrgency(string(text))
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}

// Requester identifies the user who opened a ticket.
type Requester struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Ticket is the aggregate for support requests.
type Ticket struct {
	ID          string         `json:"id"`
	Requester   Requester      `json:"requester"`
	Sector      string         `json:"sector"`
	ProblemType string         `json:"problemType"`
	Description string         `json:"description"`
	Urgency     TicketUrgency  `json:"urgency"`
	Status      TicketStatus   `json:"status"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	Solution    string         `json:"solution,omitempty"`
	Cost        *Money         `json:"cost,omitempty"`
	StartTime   *time.Time     `json:"startTime,omitempty"`
	EndTime     *time.Time     `json:"endTime,omitempty"`
	History     []HistoryEntry `json:"history"`
}

// UnmarshalJSON also accepts the flat userId/userName requester of the first release.
func (t *Ticket) UnmarshalJSON(data []byte) error {
	type ticketAlias Ticket
	aux := struct {
		*ticketAlias
		LegacyUserID   string `json:"userId"`
		LegacyUserName string `json:"userName"`
	}{ticketAlias: (*ticketAlias)(t)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if t.Requester.ID == "" {
		t.Requester.ID = aux.LegacyUserID
	}
	if t.Requester.Name == "" {
		t.Requester.Name = aux.LegacyUserName
	}
	return nil
}

// NewTicket carries the fields a requester supplies when opening a ticket.
type NewTicket struct {
	Requester   Requester
	Sector      string
	ProblemType string
	Description string
	Urgency     TicketUrgency
}

// Clone returns a deep copy so callers never alias store-owned state.
func (t Ticket) Clone() Ticket {
	out := t
	if t.Cost != nil {
		c := *t.Cost
		out.Cost = &c
	}
	if t.StartTime != nil {
		st := *t.StartTime
		out.StartTime = &st
	}
	if t.EndTime != nil {
		et := *t.EndTime
		out.EndTime = &et
	}
	out.History = append([]HistoryEntry(nil), t.History...)
	return out
}
