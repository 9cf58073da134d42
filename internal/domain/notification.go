package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Recipient identifies a user by id, by email, or both.
type Recipient struct {
	UserID string
	Email  string
}

// IsZero reports whether neither identity is present.
func (r Recipient) IsZero() bool {
	return r.UserID == "" && r.Email == ""
}

// Key is the stable identity used for de-duplication and ownership:
// the user id when known, the normalized email otherwise.
func (r Recipient) Key() string {
	if r.UserID != "" {
		return r.UserID
	}
	return NormalizeEmail(r.Email)
}

// Matches reports whether two recipients denote the same user.
func (r Recipient) Matches(other Recipient) bool {
	if r.UserID != "" && r.UserID == other.UserID {
		return true
	}
	e := NormalizeEmail(r.Email)
	return e != "" && e == NormalizeEmail(other.Email)
}

// Normalized returns a copy with trimmed id and normalized email.
func (r Recipient) Normalized() Recipient {
	return Recipient{UserID: strings.TrimSpace(r.UserID), Email: NormalizeEmail(r.Email)}
}

// RecipientFromEmail is a shorthand for email-only recipients.
func RecipientFromEmail(email string) Recipient {
	return Recipient{Email: NormalizeEmail(email)}
}

// Notification is a durable in-app notification. Only IsRead changes after creation.
type Notification struct {
	ID                uuid.UUID
	Recipient         Recipient
	Title             string
	Body              string
	Category          NotificationCategory
	Priority          NotificationPriority
	Link              string
	RelatedEntityType string
	RelatedEntityID   string
	Metadata          map[string]any
	IsRead            bool
	CreatedAt         time.Time
}
