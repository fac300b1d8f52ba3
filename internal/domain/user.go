package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Role separates administrators, who triage tickets, from standard requesters.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleStandard Role = "standard"
)

// ParseRole accepts "user" as a legacy spelling of the standard role.
func ParseRole(s string) (Role, error) {
	switch strings.TrimSpace(s) {
	case string(RoleAdmin):
		return RoleAdmin, nil
	case string(RoleStandard), "user":
		return RoleStandard, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Role) UnmarshalText(text []byte) error {
	parsed, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Identity is the authenticated user held by a session. It never carries a secret.
type Identity struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Role        Role   `json:"role"`
}

// UnmarshalJSON also accepts the first release's "name" key for the display name.
func (i *Identity) UnmarshalJSON(data []byte) error {
	type identityAlias Identity
	aux := struct {
		*identityAlias
		LegacyName string `json:"name"`
	}{identityAlias: (*identityAlias)(i)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if i.DisplayName == "" {
		i.DisplayName = aux.LegacyName
	}
	return nil
}

// IsAdmin reports whether the identity may triage tickets.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// Valid reports whether a decoded identity is complete enough to restore.
func (i Identity) Valid() bool {
	return i.ID != "" && i.Email != "" && i.DisplayName != "" && (i.Role == RoleAdmin || i.Role == RoleStandard)
}

// AsRequester projects the identity onto a ticket requester.
func (i Identity) AsRequester() Requester {
	return Requester{ID: i.ID, Name: i.DisplayName}
}
