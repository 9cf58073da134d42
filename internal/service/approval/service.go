// Package approval moves approvable records from pending to approved or
// rejected and announces each transition as a change event.
package approval

import (
	"context"
	"log/slog"
	"time"

	"github.com/heartmarshall/notify-backend/internal/domain"
)

type entityStore interface {
	GetForUpdate(ctx context.Context, entityType, id string) (*domain.Entity, error)
	Patch(ctx context.Context, entityType, id string, fields domain.Snapshot) (*domain.Entity, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type eventSink interface {
	Publish(ctx context.Context, ev domain.ChangeEvent) error
}

// Service implements the approval state machine.
type Service struct {
	entities entityStore
	tx       txManager
	events   eventSink
	elevated []string
	log      *slog.Logger
	now      func() time.Time
}

// NewService creates a new approval service. elevated lists the roles that
// may transition any record regardless of ownership.
func NewService(
	log *slog.Logger,
	entities entityStore,
	tx txManager,
	events eventSink,
	elevated []string,
) *Service {
	return &Service{
		entities: entities,
		tx:       tx,
		events:   events,
		elevated: elevated,
		log:      log.With("service", "approval"),
		now:      func() time.Time { return time.Now().UTC() },
	}
}
