package push

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/notify-backend/internal/config"
	"github.com/heartmarshall/notify-backend/internal/domain"
)

// Result aggregates per-subscription outcomes of one delivery.
type Result struct {
	Sent   int
	Failed int
	Pruned int
}

// Deliver sends the message to every active subscription of the recipient.
// No subscriptions is not an error. Per-subscription failures are counted,
// never returned; only missing keys, a bad message or a failed lookup are errors.
func (s *Service) Deliver(ctx context.Context, to domain.Recipient, m Message) (Result, error) {
	if !s.sender.Configured() {
		return Result{}, domain.ErrConfiguration
	}
	if to.IsZero() {
		return Result{}, domain.NewValidationError("recipient", "recipient id or email is required")
	}
	if err := m.Validate(); err != nil {
		return Result{}, err
	}

	subs, err := s.subs.ListActive(ctx, to.Normalized())
	if err != nil {
		return Result{}, fmt.Errorf("list subscriptions: %w", err)
	}
	if len(subs) == 0 {
		s.log.DebugContext(ctx, "no push subscriptions", slog.String("recipient", to.Key()))
		return Result{}, nil
	}

	res, err := s.fanOut(ctx, subs, m)
	if err != nil {
		return Result{}, err
	}

	s.log.InfoContext(ctx, "push delivered",
		slog.String("recipient", to.Key()),
		slog.Int("sent", res.Sent),
		slog.Int("failed", res.Failed),
		slog.Int("pruned", res.Pruned),
	)
	return res, nil
}

// DeliverTo sends the message to an explicit list of subscriptions.
// Subscriptions without an id are not tracked in the store: success is not
// recorded and a gone answer is reported as pruned without a store write.
func (s *Service) DeliverTo(ctx context.Context, subs []domain.PushSubscription, m Message) (Result, error) {
	if !s.sender.Configured() {
		return Result{}, domain.ErrConfiguration
	}
	if err := m.Validate(); err != nil {
		return Result{}, err
	}
	if len(subs) == 0 {
		return Result{}, nil
	}

	res, err := s.fanOut(ctx, subs, m)
	if err != nil {
		return Result{}, err
	}

	s.log.InfoContext(ctx, "push delivered to explicit subscriptions",
		slog.Int("subscriptions", len(subs)),
		slog.Int("sent", res.Sent),
		slog.Int("failed", res.Failed),
		slog.Int("pruned", res.Pruned),
	)
	return res, nil
}

func (s *Service) fanOut(ctx context.Context, subs []domain.PushSubscription, m Message) (Result, error) {
	payload, err := s.buildPayload(m).encode()
	if err != nil {
		return Result{}, fmt.Errorf("encode push payload: %w", err)
	}

	if s.cfg.DeliveryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.DeliveryTimeout)
		defer cancel()
	}

	var sent, failed, pruned atomic.Int64

	// Plain Group, not WithContext: one failure must not cancel siblings.
	var g errgroup.Group
	g.SetLimit(max(s.cfg.MaxConcurrency, 1))

	for _, sub := range subs {
		g.Go(func() error {
			switch s.deliverOne(ctx, sub, payload, m.Priority) {
			case outcomeSent:
				sent.Add(1)
			case outcomePruned:
				pruned.Add(1)
			default:
				failed.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()

	return Result{
		Sent:   int(sent.Load()),
		Failed: int(failed.Load()),
		Pruned: int(pruned.Load()),
	}, nil
}

type outcome int

const (
	outcomeFailed outcome = iota
	outcomeSent
	outcomePruned
)

// storeTimeout bounds the bookkeeping write after a send. The write runs
// outside the delivery deadline.
const storeTimeout = 5 * time.Second

func (s *Service) deliverOne(ctx context.Context, sub domain.PushSubscription, payload []byte, priority domain.NotificationPriority) outcome {
	err := s.sender.Send(ctx, sub, payload, priority)

	storeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), storeTimeout)
	defer cancel()

	switch {
	case err == nil:
		if sub.ID != uuid.Nil {
			if err := s.subs.Touch(storeCtx, sub.ID, s.now()); err != nil {
				s.log.WarnContext(ctx, "record push success",
					slog.String("subscription_id", sub.ID.String()),
					slog.String("error", err.Error()),
				)
			}
		}
		return outcomeSent

	case errors.Is(err, domain.ErrGone):
		if sub.ID == uuid.Nil {
			return outcomePruned
		}
		if err := s.prune(storeCtx, sub.ID); err != nil {
			s.log.WarnContext(ctx, "prune gone subscription",
				slog.String("subscription_id", sub.ID.String()),
				slog.String("error", err.Error()),
			)
			return outcomeFailed
		}
		s.log.InfoContext(ctx, "pruned gone subscription", slog.String("subscription_id", sub.ID.String()))
		return outcomePruned

	default:
		s.log.WarnContext(ctx, "push send failed",
			slog.String("subscription_id", sub.ID.String()),
			slog.String("endpoint", sub.Endpoint),
			slog.String("error", err.Error()),
		)
		return outcomeFailed
	}
}

func (s *Service) prune(ctx context.Context, id uuid.UUID) error {
	if s.cfg.PruneMode == config.PruneDeactivate {
		return s.subs.Deactivate(ctx, id)
	}
	return s.subs.Delete(ctx, id)
}
