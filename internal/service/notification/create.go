package notification

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/notify-backend/internal/domain"
	"github.com/heartmarshall/notify-backend/internal/service/push"
)

// Create validates and persists a notification, then starts push delivery
// in the background. The returned id is final even if push later fails.
func (s *Service) Create(ctx context.Context, input CreateInput) (uuid.UUID, error) {
	if err := input.Validate(); err != nil {
		return uuid.Nil, err
	}

	n := &domain.Notification{
		ID:                uuid.New(),
		Recipient:         input.Recipient.Normalized(),
		Title:             strings.TrimSpace(input.Title),
		Body:              strings.TrimSpace(input.Body),
		Category:          input.Category,
		Priority:          input.Priority,
		Link:              strings.TrimSpace(input.Link),
		RelatedEntityType: input.RelatedEntityType,
		RelatedEntityID:   input.RelatedEntityID,
		Metadata:          input.Metadata,
		IsRead:            false,
		CreatedAt:         s.now(),
	}
	if n.Category == "" {
		n.Category = domain.CategoryGeneral
	}
	if n.Priority == "" {
		n.Priority = domain.PriorityNormal
	}
	if n.Metadata == nil {
		n.Metadata = map[string]any{}
	}

	created, err := s.repo.Create(ctx, n)
	if err != nil {
		return uuid.Nil, fmt.Errorf("create notification: %w", err)
	}

	s.log.InfoContext(ctx, "notification created",
		slog.String("notification_id", created.ID.String()),
		slog.String("recipient", created.Recipient.Key()),
		slog.String("category", string(created.Category)),
	)

	if !input.SkipPush && s.push != nil {
		s.startPush(ctx, *created)
	}

	return created.ID, nil
}

// startPush detaches delivery from the caller's cancellation so a finished
// request does not abort in-flight sends.
func (s *Service) startPush(ctx context.Context, n domain.Notification) {
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()

		bg := context.WithoutCancel(ctx)
		if s.pushTimeout > 0 {
			var cancel context.CancelFunc
			bg, cancel = context.WithTimeout(bg, s.pushTimeout)
			defer cancel()
		}
		s.deliver(bg, n)
	}()
}

func (s *Service) deliver(ctx context.Context, n domain.Notification) {
	log := s.log.With(slog.String("notification_id", n.ID.String()))

	to, ok := s.pushRecipient(ctx, n.Recipient)
	if !ok {
		log.DebugContext(ctx, "push skipped: recipient has no email")
		return
	}

	res, err := s.push.Deliver(ctx, to, push.Message{
		Title:    n.Title,
		Body:     n.Body,
		URL:      n.Link,
		Tag:      string(n.Category),
		Priority: n.Priority,
		Data: map[string]any{
			"notification_id":     n.ID.String(),
			"related_entity_type": n.RelatedEntityType,
			"related_entity_id":   n.RelatedEntityID,
		},
	})
	if err != nil {
		log.WarnContext(ctx, "push delivery failed", slog.String("error", err.Error()))
		return
	}

	log.DebugContext(ctx, "push delivery finished",
		slog.Int("sent", res.Sent),
		slog.Int("failed", res.Failed),
		slog.Int("pruned", res.Pruned),
	)
}

// pushRecipient returns a recipient with an email, looking it up by user id
// when only the id is known.
func (s *Service) pushRecipient(ctx context.Context, r domain.Recipient) (domain.Recipient, bool) {
	if r.Email != "" {
		return r, true
	}
	if r.UserID == "" || s.emails == nil {
		return r, false
	}

	email, err := s.emails.EmailByID(ctx, r.UserID)
	if err != nil {
		s.log.WarnContext(ctx, "resolve recipient email",
			slog.String("user_id", r.UserID),
			slog.String("error", err.Error()),
		)
		return r, false
	}
	r.Email = domain.NormalizeEmail(email)
	return r, r.Email != ""
}
