package notification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/notify-backend/internal/domain"
	"github.com/heartmarshall/notify-backend/pkg/ctxutil"
)

// Page is one page of the caller's notifications.
type Page struct {
	Items []domain.Notification
	Total int
}

func ownerFromCtx(ctx context.Context) (domain.Recipient, error) {
	p, ok := ctxutil.PrincipalFromCtx(ctx)
	if !ok {
		return domain.Recipient{}, domain.ErrUnauthorized
	}
	return p.Recipient(), nil
}

// List returns the caller's notifications, newest first.
func (s *Service) List(ctx context.Context, input ListInput) (*Page, error) {
	owner, err := ownerFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	limit := input.Limit
	if limit == 0 {
		limit = defaultLimit
	}

	items, total, err := s.repo.ListByRecipient(ctx, owner, input.UnreadOnly, limit, input.Offset)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return &Page{Items: items, Total: total}, nil
}

// UnreadCount returns how many of the caller's notifications are unread.
func (s *Service) UnreadCount(ctx context.Context) (int, error) {
	owner, err := ownerFromCtx(ctx)
	if err != nil {
		return 0, err
	}

	n, err := s.repo.CountUnread(ctx, owner)
	if err != nil {
		return 0, fmt.Errorf("count unread: %w", err)
	}
	return n, nil
}

// MarkRead flips is_read on one of the caller's notifications. A notification
// addressed to someone else reports ErrNotFound.
func (s *Service) MarkRead(ctx context.Context, input MarkReadInput) error {
	owner, err := ownerFromCtx(ctx)
	if err != nil {
		return err
	}
	if err := input.Validate(); err != nil {
		return err
	}

	if err := s.repo.MarkRead(ctx, input.ID, owner); err != nil {
		return fmt.Errorf("mark read: %w", err)
	}

	s.log.DebugContext(ctx, "notification read",
		slog.String("notification_id", input.ID.String()),
		slog.String("recipient", owner.Key()),
	)
	return nil
}

// MarkAllRead marks every unread notification of the caller read and returns
// how many changed.
func (s *Service) MarkAllRead(ctx context.Context) (int, error) {
	owner, err := ownerFromCtx(ctx)
	if err != nil {
		return 0, err
	}

	n, err := s.repo.MarkAllRead(ctx, owner)
	if err != nil {
		return 0, fmt.Errorf("mark all read: %w", err)
	}

	s.log.InfoContext(ctx, "notifications marked read",
		slog.String("recipient", owner.Key()),
		slog.Int("count", n),
	)
	return n, nil
}
