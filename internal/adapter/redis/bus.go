// Package redis carries change events between processes over Redis pub/sub.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/heartmarshall/notify-backend/internal/config"
	"github.com/heartmarshall/notify-backend/internal/domain"
)

// Bus publishes and consumes change events on a single channel.
type Bus struct {
	rdb     *goredis.Client
	channel string
	log     *slog.Logger
}

// NewBus connects to Redis and pings it.
func NewBus(ctx context.Context, cfg config.EventsConfig, log *slog.Logger) (*Bus, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        cfg.RedisAddr,
		DB:          cfg.RedisDB,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &Bus{
		rdb:     rdb,
		channel: cfg.RedisChannel,
		log:     log.With("service", "event_bus"),
	}, nil
}

// message is the wire shape, matching the automation endpoint's body.
type message struct {
	EntityType string         `json:"entity_type"`
	Operation  string         `json:"operation"`
	EntityID   string         `json:"entity_id"`
	Data       map[string]any `json:"data"`
	OldData    map[string]any `json:"old_data,omitempty"`
}

// Publish sends one change event.
func (b *Bus) Publish(ctx context.Context, ev domain.ChangeEvent) error {
	raw, err := json.Marshal(message{
		EntityType: ev.EntityType,
		Operation:  string(ev.Operation),
		EntityID:   ev.EntityID,
		Data:       ev.After,
		OldData:    ev.Before,
	})
	if err != nil {
		return fmt.Errorf("marshal change event: %w", err)
	}

	if err := b.rdb.Publish(ctx, b.channel, raw).Err(); err != nil {
		return fmt.Errorf("publish change event: %w", err)
	}
	return nil
}

// Run subscribes and calls handle for every event until ctx is done.
// Undecodable payloads and handler errors are logged and skipped.
// ready, if non-nil, is closed once the subscription is live.
func (b *Bus) Run(ctx context.Context, handle func(context.Context, domain.ChangeEvent) error, ready chan<- struct{}) error {
	sub := b.rdb.Subscribe(ctx, b.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("redis subscribe: %w", err)
	}
	if ready != nil {
		close(ready)
	}

	b.log.InfoContext(ctx, "event bus subscribed", slog.String("channel", b.channel))

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case m, ok := <-ch:
			if !ok {
				return nil
			}

			ev, err := decode(m.Payload)
			if err != nil {
				b.log.WarnContext(ctx, "bad change event payload", slog.String("error", err.Error()))
				continue
			}

			if err := handle(ctx, ev); err != nil {
				b.log.ErrorContext(ctx, "change event handling failed",
					slog.String("entity_type", ev.EntityType),
					slog.String("entity_id", ev.EntityID),
					slog.String("error", err.Error()),
				)
			}
		}
	}
}

// Ping checks the connection for health reporting.
func (b *Bus) Ping(ctx context.Context) error {
	return b.rdb.Ping(ctx).Err()
}

// Close releases the client.
func (b *Bus) Close() error {
	return b.rdb.Close()
}

func decode(payload string) (domain.ChangeEvent, error) {
	var m message
	if err := json.Unmarshal([]byte(payload), &m); err != nil {
		return domain.ChangeEvent{}, fmt.Errorf("unmarshal change event: %w", err)
	}
	return domain.ChangeEvent{
		EntityType: domain.NormalizeEntityType(m.EntityType),
		Operation:  domain.ChangeOperation(domain.NormalizeToken(m.Operation)),
		EntityID:   m.EntityID,
		After:      m.Data,
		Before:     m.OldData,
	}, nil
}
