package domain

import (
	"time"

	"github.com/google/uuid"
)

// PushSubscription is one device registration. The endpoint is unique per owner.
type PushSubscription struct {
	ID         uuid.UUID
	Owner      Recipient
	Endpoint   string
	PublicKey  string
	AuthSecret string
	DeviceName string
	IsActive   bool
	LastUsedAt *time.Time
	CreatedAt  time.Time
}
