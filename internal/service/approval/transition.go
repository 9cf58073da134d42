package approval

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/heartmarshall/notify-backend/internal/domain"
	"github.com/heartmarshall/notify-backend/pkg/ctxutil"
)

// Approve moves a pending record to approved.
func (s *Service) Approve(ctx context.Context, input TransitionInput) (*domain.Entity, error) {
	return s.transition(ctx, input, domain.ApprovalApproved)
}

// Reject moves a pending record to rejected, keeping the optional reason.
func (s *Service) Reject(ctx context.Context, input TransitionInput) (*domain.Entity, error) {
	return s.transition(ctx, input, domain.ApprovalRejected)
}

func (s *Service) transition(ctx context.Context, input TransitionInput, target domain.ApprovalStatus) (*domain.Entity, error) {
	principal, ok := ctxutil.PrincipalFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	entityType := domain.NormalizeEntityType(input.EntityType)
	id := strings.TrimSpace(input.ID)

	var before, after *domain.Entity
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		before, err = s.entities.GetForUpdate(ctx, entityType, id)
		if err != nil {
			return fmt.Errorf("load %s: %w", entityType, err)
		}

		if !s.mayTransition(principal, before.Data) {
			return domain.ErrForbidden
		}

		if current := currentStatus(before.Data); current != domain.ApprovalPending {
			return fmt.Errorf("%s %s is already %s: %w", entityType, id, current, domain.ErrConflict)
		}

		after, err = s.entities.Patch(ctx, entityType, id, s.patch(entityType, principal, target, input.Reason))
		if err != nil {
			return fmt.Errorf("update %s: %w", entityType, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "approval status changed",
		slog.String("entity_type", entityType),
		slog.String("entity_id", id),
		slog.String("status", string(target)),
		slog.String("actor", principal.Recipient().Key()),
	)

	s.announce(ctx, domain.ChangeEvent{
		EntityType: entityType,
		Operation:  domain.OperationUpdate,
		EntityID:   id,
		Before:     before.Data,
		After:      after.Data,
	})

	return after, nil
}

// mayTransition allows the record's creator, its designated architect, and
// holders of an elevated role.
func (s *Service) mayTransition(p domain.Principal, data domain.Snapshot) bool {
	if p.HasRole(s.elevated) {
		return true
	}
	me := p.Recipient()
	for _, field := range []string{"created_by", "architect_email"} {
		v := data.String(field)
		if v == "" {
			continue
		}
		if me.Matches(domain.Recipient{UserID: v, Email: v}) {
			return true
		}
	}
	return false
}

// currentStatus treats a record that was never reviewed as pending.
func currentStatus(data domain.Snapshot) domain.ApprovalStatus {
	s := domain.ApprovalStatus(domain.NormalizeToken(data.String("approval_status")))
	if s == "" {
		return domain.ApprovalPending
	}
	return s
}

func (s *Service) patch(entityType string, p domain.Principal, target domain.ApprovalStatus, reason string) domain.Snapshot {
	actor := p.Recipient().Email
	if actor == "" {
		actor = p.UserID
	}

	fields := domain.Snapshot{
		"approval_status": string(target),
		"approved_by":     actor,
		"approved_date":   s.now().Format(time.RFC3339),
	}
	if target == domain.ApprovalRejected {
		if reason = strings.TrimSpace(reason); reason != "" {
			fields["rejection_reason"] = reason
		}
	}

	switch entityType {
	case "team_member":
		if target == domain.ApprovalApproved {
			fields["status"] = "active"
		} else {
			fields["status"] = "inactive"
		}
	case "proposal":
		fields["status"] = string(target)
	}
	return fields
}

// announce publishes the transition. The transition is already committed,
// so a publish failure is only logged.
func (s *Service) announce(ctx context.Context, ev domain.ChangeEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, ev); err != nil {
		s.log.WarnContext(ctx, "publish approval event",
			slog.String("entity_type", ev.EntityType),
			slog.String("entity_id", ev.EntityID),
			slog.String("error", err.Error()),
		)
	}
}
