package domain

import "fmt"

var allowedTransitions = map[TicketStatus][]TicketStatus{
	TicketStatusPending:    {TicketStatusInProgress},
	TicketStatusInProgress: {TicketStatusFinished},
	TicketStatusFinished:   {},
}

// Transition checks a requested status against the forward-only lifecycle.
// Requesting the current status is always allowed.
func Transition(current, requested TicketStatus) (TicketStatus, error) {
	if current == requested {
		return requested, nil
	}
	for _, candidate := range allowedTransitions[current] {
		if candidate == requested {
			return requested, nil
		}
	}
	return current, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current, requested)
}
