package auth

import (
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	"github.com/deskops/helpdesk/internal/domain"
)

// DirectoryEntry is one user of the static directory.
type DirectoryEntry struct {
	ID           string `yaml:"id"`
	Email        string `yaml:"email"`
	DisplayName  string `yaml:"display_name"`
	Role         string `yaml:"role"`
	PasswordHash string `yaml:"password_hash"`
}

type directoryFile struct {
	Users []DirectoryEntry `yaml:"users"`
}

type directoryRecord struct {
	identity domain.Identity
	hash     string
}

// Directory authenticates against a fixed user table seeded at startup. It is a
// stand-in for a real identity provider: no revocation, no rotation.
type Directory struct {
	byEmail map[string]directoryRecord
	// compared against for unknown emails; hashed at the highest cost in the directory.
	dummyHash string
}

// NewDirectory validates entries and indexes them by email.
func NewDirectory(entries []DirectoryEntry) (*Directory, error) {
	dir := &Directory{byEmail: make(map[string]directoryRecord, len(entries))}
	maxCost := bcrypt.MinCost
	seenIDs := make(map[string]struct{}, len(entries))
	for i, entry := range entries {
		email := normalizeEmail(entry.Email)
		if entry.ID == "" || email == "" || entry.PasswordHash == "" {
			return nil, fmt.Errorf("directory entry %d: id, email and password_hash required", i)
		}
		cost, err := bcrypt.Cost([]byte(entry.PasswordHash))
		if err != nil {
			return nil, fmt.Errorf("directory entry %s: password_hash: %w", entry.Email, err)
		}
		maxCost = max(maxCost, cost)
		role, err := domain.ParseRole(entry.Role)
		if err != nil {
			return nil, fmt.Errorf("directory entry %s: %w", entry.Email, err)
		}
		if _, dup := dir.byEmail[email]; dup {
			return nil, fmt.Errorf("directory entry %s: duplicate email", entry.Email)
		}
		if _, dup := seenIDs[entry.ID]; dup {
			return nil, fmt.Errorf("directory entry %s: duplicate id %s", entry.Email, entry.ID)
		}
		seenIDs[entry.ID] = struct{}{}

		displayName := entry.DisplayName
		if displayName == "" {
			displayName = email
		}
		dir.byEmail[email] = directoryRecord{
			identity: domain.Identity{ID: entry.ID, Email: email, DisplayName: displayName, Role: role},
			hash:     entry.PasswordHash,
		}
	}

	dummy, err := bcrypt.GenerateFromPassword([]byte("helpdesk-unknown-user"), maxCost)
	if err != nil {
		return nil, err
	}
	dir.dummyHash = string(dummy)
	return dir, nil
}

// LoadDirectory reads a YAML directory file.
func LoadDirectory(path string) (*Directory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read directory: %w", err)
	}
	var file directoryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse directory %s: %w", path, err)
	}
	return NewDirectory(file.Users)
}

// Authenticate returns the identity for a matching email and password.
func (d *Directory) Authenticate(_ context.Context, email, secret string) (domain.Identity, error) {
	record, ok := d.byEmail[normalizeEmail(email)]
	if !ok {
		_ = ComparePassword(d.dummyHash, secret)
		return domain.Identity{}, domain.ErrInvalidCredentials
	}
	if err := ComparePassword(record.hash, secret); err != nil {
		return domain.Identity{}, domain.ErrInvalidCredentials
	}
	return record.identity, nil
}

// Len returns the number of users in the directory.
func (d *Directory) Len() int {
	return len(d.byEmail)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
