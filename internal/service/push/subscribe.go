package push

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/notify-backend/internal/domain"
)

const (
	p256dhKeyLen  = 65
	authSecretLen = 16
)

// SubscribeInput is a browser PushSubscription registered for an owner.
type SubscribeInput struct {
	Owner      domain.Recipient
	Endpoint   string
	P256dh     string
	Auth       string
	DeviceName string
}

// Validate checks all fields and collects all errors.
func (i SubscribeInput) Validate() error {
	var errs []domain.FieldError

	if i.Owner.IsZero() {
		errs = append(errs, domain.FieldError{Field: "owner", Message: "user id or email is required"})
	}

	if endpoint := strings.TrimSpace(i.Endpoint); endpoint == "" {
		errs = append(errs, domain.FieldError{Field: "endpoint", Message: "required"})
	} else if u, err := url.Parse(endpoint); err != nil || (u.Scheme != "https" && u.Scheme != "http") || u.Host == "" {
		errs = append(errs, domain.FieldError{Field: "endpoint", Message: "must be an absolute http(s) URL"})
	}

	if n, ok := decodedLen(i.P256dh); !ok {
		errs = append(errs, domain.FieldError{Field: "keys.p256dh", Message: "must be base64url"})
	} else if n != p256dhKeyLen {
		errs = append(errs, domain.FieldError{Field: "keys.p256dh", Message: "must be an uncompressed P-256 point"})
	}

	if n, ok := decodedLen(i.Auth); !ok {
		errs = append(errs, domain.FieldError{Field: "keys.auth", Message: "must be base64url"})
	} else if n != authSecretLen {
		errs = append(errs, domain.FieldError{Field: "keys.auth", Message: "must be 16 bytes"})
	}

	if len(i.DeviceName) > 200 {
		errs = append(errs, domain.FieldError{Field: "device_name", Message: "too long (max 200)"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// decodedLen accepts both padded and raw base64url, as browsers differ.
func decodedLen(s string) (int, bool) {
	s = strings.TrimRight(strings.TrimSpace(s), "=")
	if s == "" {
		return 0, false
	}
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return 0, false
	}
	return len(b), true
}

// Subscribe registers or refreshes a device subscription.
func (s *Service) Subscribe(ctx context.Context, input SubscribeInput) (*domain.PushSubscription, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	sub := &domain.PushSubscription{
		ID:         uuid.New(),
		Owner:      input.Owner.Normalized(),
		Endpoint:   strings.TrimSpace(input.Endpoint),
		PublicKey:  strings.TrimSpace(input.P256dh),
		AuthSecret: strings.TrimSpace(input.Auth),
		DeviceName: strings.TrimSpace(input.DeviceName),
		IsActive:   true,
		CreatedAt:  s.now(),
	}

	saved, err := s.subs.Upsert(ctx, sub)
	if err != nil {
		return nil, fmt.Errorf("save subscription: %w", err)
	}

	s.log.InfoContext(ctx, "push subscription saved",
		slog.String("subscription_id", saved.ID.String()),
		slog.String("owner", saved.Owner.Key()),
	)
	return saved, nil
}

// Unsubscribe removes the owner's subscription for an endpoint. Removing an
// unknown endpoint succeeds.
func (s *Service) Unsubscribe(ctx context.Context, owner domain.Recipient, endpoint string) error {
	if owner.IsZero() {
		return domain.NewValidationError("owner", "user id or email is required")
	}
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return domain.NewValidationError("endpoint", "required")
	}

	n, err := s.subs.DeleteByEndpoint(ctx, owner.Normalized(), endpoint)
	if err != nil {
		return fmt.Errorf("delete subscription: %w", err)
	}

	s.log.InfoContext(ctx, "push subscription removed",
		slog.String("owner", owner.Key()),
		slog.Int("removed", n),
	)
	return nil
}
