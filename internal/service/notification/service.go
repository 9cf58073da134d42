// Package notification persists in-app notifications and hands them to the
// push engine on a best-effort basis.
package notification

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/notify-backend/internal/domain"
	"github.com/heartmarshall/notify-backend/internal/service/push"
)

type notificationRepo interface {
	Create(ctx context.Context, n *domain.Notification) (*domain.Notification, error)
	MarkRead(ctx context.Context, id uuid.UUID, owner domain.Recipient) error
	MarkAllRead(ctx context.Context, owner domain.Recipient) (int, error)
	ListByRecipient(ctx context.Context, owner domain.Recipient, unreadOnly bool, limit, offset int) ([]domain.Notification, int, error)
	CountUnread(ctx context.Context, owner domain.Recipient) (int, error)
}

type pusher interface {
	Deliver(ctx context.Context, to domain.Recipient, m push.Message) (push.Result, error)
}

type emailDirectory interface {
	EmailByID(ctx context.Context, userID string) (string, error)
}

// Service implements notification business logic.
type Service struct {
	repo        notificationRepo
	push        pusher
	emails      emailDirectory
	pushTimeout time.Duration
	log         *slog.Logger
	now         func() time.Time

	inflight sync.WaitGroup
}

// NewService creates a new notification service. pushTimeout bounds one
// background delivery; emails resolves id-only recipients for push.
func NewService(
	log *slog.Logger,
	repo notificationRepo,
	engine pusher,
	emails emailDirectory,
	pushTimeout time.Duration,
) *Service {
	return &Service{
		repo:        repo,
		push:        engine,
		emails:      emails,
		pushTimeout: pushTimeout,
		log:         log.With("service", "notification"),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Wait blocks until every background push started by Create has finished.
func (s *Service) Wait() {
	s.inflight.Wait()
}
