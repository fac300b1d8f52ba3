package domain

import "time"

const historyCreated = "Ticket created"

// HistoryEntry is an immutable audit trail entry.
type HistoryEntry struct {
	Timestamp   time.Time `json:"timestamp"`
	Description string    `json:"description"`
}

// CreatedEntry is the first history entry of every ticket.
func CreatedEntry(at time.Time) HistoryEntry {
	return HistoryEntry{Timestamp: at, Description: historyCreated}
}

// StatusEntry records the status a ticket holds after a mutation.
func StatusEntry(at time.Time, status TicketStatus) HistoryEntry {
	return HistoryEntry{Timestamp: at, Description: "Status updated to: " + string(status)}
}
