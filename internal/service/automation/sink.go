package automation

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/heartmarshall/notify-backend/internal/domain"
)

type eventHandler interface {
	Handle(ctx context.Context, ev domain.ChangeEvent) error
}

// AsyncSink hands change events to a handler in the background so the
// producing mutation never waits on notification work.
type AsyncSink struct {
	handler eventHandler
	timeout time.Duration
	log     *slog.Logger
	wg      sync.WaitGroup
}

// NewAsyncSink creates an in-process event sink. timeout bounds one event.
func NewAsyncSink(log *slog.Logger, handler eventHandler, timeout time.Duration) *AsyncSink {
	return &AsyncSink{
		handler: handler,
		timeout: timeout,
		log:     log.With("component", "event_sink"),
	}
}

// Publish schedules the event and returns immediately.
func (s *AsyncSink) Publish(ctx context.Context, ev domain.ChangeEvent) error {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		bg := context.WithoutCancel(ctx)
		if s.timeout > 0 {
			var cancel context.CancelFunc
			bg, cancel = context.WithTimeout(bg, s.timeout)
			defer cancel()
		}

		if err := s.handler.Handle(bg, ev); err != nil {
			s.log.WarnContext(bg, "handle change event",
				slog.String("entity_type", ev.EntityType),
				slog.String("entity_id", ev.EntityID),
				slog.String("error", err.Error()),
			)
		}
	}()
	return nil
}

// Wait blocks until all published events have been handled.
func (s *AsyncSink) Wait() {
	s.wg.Wait()
}
