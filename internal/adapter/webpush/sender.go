// Package webpush sends VAPID-signed, encrypted Web Push messages.
package webpush

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	webpush "github.com/SherClockHolmes/webpush-go"

	"github.com/heartmarshall/notify-backend/internal/config"
	"github.com/heartmarshall/notify-backend/internal/domain"
)

// Sender delivers one payload to one subscription per call.
type Sender struct {
	publicKey  string
	privateKey string
	subscriber string
	ttl        time.Duration
	timeout    time.Duration
	client     *http.Client
}

// NewSender creates a Sender. A nil client uses http.DefaultClient.
func NewSender(cfg config.PushConfig, client *http.Client) *Sender {
	if client == nil {
		client = http.DefaultClient
	}
	return &Sender{
		publicKey:  cfg.VAPIDPublicKey,
		privateKey: cfg.VAPIDPrivateKey,
		// webpush-go adds the mailto: scheme itself.
		subscriber: strings.TrimPrefix(cfg.Subject, "mailto:"),
		ttl:        cfg.TTL,
		timeout:    cfg.SendTimeout,
		client:     client,
	}
}

// Configured reports whether the VAPID key pair is present.
func (s *Sender) Configured() bool {
	return s.publicKey != "" && s.privateKey != ""
}

// PublicKey is the application server key browsers subscribe with.
func (s *Sender) PublicKey() string {
	return s.publicKey
}

// Send encrypts payload for the subscription and posts it to the push service.
//
// Errors:
//   - domain.ErrConfiguration when the VAPID keys are missing
//   - domain.ErrGone when the push service answers 404 or 410
//   - domain.ErrTransientDelivery for network errors, timeouts and other non-2xx answers
func (s *Sender) Send(ctx context.Context, sub domain.PushSubscription, payload []byte, priority domain.NotificationPriority) error {
	if !s.Configured() {
		return domain.ErrConfiguration
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	resp, err := webpush.SendNotificationWithContext(ctx, payload, &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			Auth:   sub.AuthSecret,
			P256dh: sub.PublicKey,
		},
	}, &webpush.Options{
		HTTPClient:      s.client,
		Subscriber:      s.subscriber,
		VAPIDPublicKey:  s.publicKey,
		VAPIDPrivateKey: s.privateKey,
		TTL:             int(s.ttl / time.Second),
		Urgency:         Urgency(priority),
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return fmt.Errorf("push %s: %w: %w", sub.ID, domain.ErrTransientDelivery, err)
		}
		return fmt.Errorf("push %s: %w: %v", sub.ID, domain.ErrTransientDelivery, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return fmt.Errorf("push %s: status %d: %w", sub.ID, resp.StatusCode, domain.ErrGone)
	default:
		return fmt.Errorf("push %s: status %d: %w", sub.ID, resp.StatusCode, domain.ErrTransientDelivery)
	}
}

// Urgency maps notification priority onto the Web Push Urgency header.
func Urgency(p domain.NotificationPriority) webpush.Urgency {
	switch p {
	case domain.PriorityLow:
		return webpush.UrgencyLow
	case domain.PriorityHigh, domain.PriorityUrgent:
		return webpush.UrgencyHigh
	default:
		return webpush.UrgencyNormal
	}
}

// GenerateKeys returns a new VAPID key pair, both base64url encoded.
func GenerateKeys() (publicKey, privateKey string, err error) {
	privateKey, publicKey, err = webpush.GenerateVAPIDKeys()
	if err != nil {
		return "", "", fmt.Errorf("generate vapid keys: %w", err)
	}
	return publicKey, privateKey, nil
}
