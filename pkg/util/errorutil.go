package util

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/deskops/helpdesk/internal/domain"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError("VALIDATION_FAILED", message, http.StatusBadRequest, details)
}

func NewUnauthorized(message string) error {
	return NewDomainError("UNAUTHORIZED", message, http.StatusUnauthorized, nil)
}

func NewForbidden(message string) error {
	return NewDomainError("FORBIDDEN", message, http.StatusForbidden, nil)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// IsValidation reports whether err is a caller-side validation failure.
func IsValidation(err error) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr) && domainErr.Code == "VALIDATION_FAILED"
}

type sentinelMapping struct {
	target  error
	code    string
	status  int
	message string
}

// sentinels maps domain errors onto API codes. An empty message reuses err.Error().
var sentinels = []sentinelMapping{
	{domain.ErrInvalidCredentials, "INVALID_CREDENTIALS", http.StatusUnauthorized, "invalid credentials"},
	{domain.ErrNotSignedIn, "UNAUTHORIZED", http.StatusUnauthorized, ""},
	{domain.ErrTicketNotFound, "NOT_FOUND", http.StatusNotFound, "ticket not found"},
	{domain.ErrForbidden, "FORBIDDEN", http.StatusForbidden, ""},
	{domain.ErrInvalidTransition, "INVALID_TRANSITION", http.StatusConflict, ""},
	{domain.ErrAlreadyStarted, "ALREADY_STARTED", http.StatusConflict, ""},
	{domain.ErrInvalidPatch, "VALIDATION_FAILED", http.StatusBadRequest, ""},
	{domain.ErrPersistence, "PERSISTENCE_FAILED", http.StatusInternalServerError, "changes were applied but could not be saved"},
}

// ToDomainError converts sentinel and unknown errors to a DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}

	for _, m := range sentinels {
		if !errors.Is(err, m.target) {
			continue
		}
		msg := m.message
		if msg == "" {
			msg = err.Error()
		}
		de := &DomainError{Code: m.code, Message: msg, HTTPStatus: m.status}
		if m.status >= http.StatusInternalServerError {
			de.Err = err
		}
		return de
	}

	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}
