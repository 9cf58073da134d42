// Package push is the Push Delivery Engine: it resolves a recipient's
// device subscriptions, fans a signed payload out to each of them, and
// prunes subscriptions the push service reports as gone.
package push

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/notify-backend/internal/config"
	"github.com/heartmarshall/notify-backend/internal/domain"
)

type subscriptionRepo interface {
	Upsert(ctx context.Context, sub *domain.PushSubscription) (*domain.PushSubscription, error)
	ListActive(ctx context.Context, owner domain.Recipient) ([]domain.PushSubscription, error)
	Touch(ctx context.Context, id uuid.UUID, at time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
	Deactivate(ctx context.Context, id uuid.UUID) error
	DeleteByEndpoint(ctx context.Context, owner domain.Recipient, endpoint string) (int, error)
}

type sender interface {
	Configured() bool
	PublicKey() string
	Send(ctx context.Context, sub domain.PushSubscription, payload []byte, priority domain.NotificationPriority) error
}

// Service delivers push messages and manages device registrations.
type Service struct {
	subs   subscriptionRepo
	sender sender
	cfg    config.PushConfig
	log    *slog.Logger
	now    func() time.Time
}

// NewService creates a new push service.
func NewService(
	log *slog.Logger,
	subs subscriptionRepo,
	sender sender,
	cfg config.PushConfig,
) *Service {
	return &Service{
		subs:   subs,
		sender: sender,
		cfg:    cfg,
		log:    log.With("service", "push"),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// PublicKey returns the VAPID public key clients subscribe with.
func (s *Service) PublicKey() (string, error) {
	if !s.sender.Configured() {
		return "", domain.ErrConfiguration
	}
	return s.sender.PublicKey(), nil
}
