package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTicketNotFound     = errors.New("ticket not found")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrInvalidPatch       = errors.New("invalid ticket patch")
	ErrAlreadyStarted     = errors.New("ticket service already started")
	ErrForbidden          = errors.New("access denied")
	ErrNotSignedIn        = errors.New("no active session")
	// ErrPersistence marks durable-storage failures. The in-memory state stays authoritative.
	ErrPersistence = errors.New("persistence failure")
	// ErrCorruptSnapshot marks persisted state that could not be decoded.
	ErrCorruptSnapshot = errors.New("corrupt snapshot")
)

func invalidPatch(field string) error {
	return fmt.Errorf("%w: %s cannot be cleared", ErrInvalidPatch, field)
}
