package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultDisplayName is shown when a user has neither a name nor an email.
const DefaultDisplayName = "Driver"

// User represents an authenticated application user.
type User struct {
	ID           uuid.UUID
	Email        string
	Name         string
	PasswordHash string
	Timezone     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DisplayName returns the name, falling back to the local part of the email
// and then to DefaultDisplayName.
func (u User) DisplayName() string {
	if name := strings.TrimSpace(u.Name); name != "" {
		return name
	}
	if local, _, ok := strings.Cut(u.Email, "@"); ok && local != "" {
		return local
	}
	return DefaultDisplayName
}

// RefreshToken represents a hashed refresh token stored in the database.
type RefreshToken struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
	RevokedAt *time.Time
}

// IsRevoked returns true if the token has been revoked.
func (t *RefreshToken) IsRevoked() bool {
	return t.RevokedAt != nil
}

// IsExpired returns true if the token has expired relative to now.
func (t *RefreshToken) IsExpired(now time.Time) bool {
	return t.ExpiresAt.Before(now)
}

// Consent is the user's acceptance of the terms of use.
type Consent struct {
	UserID     uuid.UUID
	Given      bool
	Version    string
	AcceptedAt time.Time
}

// CurrentConsentVersion is recorded when the user accepts the terms.
const CurrentConsentVersion = "1.0"
