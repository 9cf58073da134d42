// Package subscription implements the push Subscription Store using PostgreSQL.
package subscription

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	postgres "github.com/heartmarshall/notify-backend/internal/adapter/postgres"
	"github.com/heartmarshall/notify-backend/internal/domain"
)

const table = "push_subscriptions"

var columns = []string{
	"id",
	"coalesce(user_id, '') AS user_id",
	"coalesce(user_email, '') AS user_email",
	"endpoint",
	"p256dh",
	"auth",
	"coalesce(device_name, '') AS device_name",
	"is_active",
	"last_used_at",
	"created_at",
}

// Repo provides push subscription persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new subscription repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Upsert registers a device. Re-registering the same endpoint for the same
// owner refreshes its keys and reactivates it.
func (r *Repo) Upsert(ctx context.Context, sub *domain.PushSubscription) (*domain.PushSubscription, error) {
	owner := sub.Owner.Normalized()

	sql, args, err := postgres.Builder.
		Insert(table).
		Columns("id", "owner_key", "user_id", "user_email", "endpoint", "p256dh", "auth",
			"device_name", "is_active", "created_at").
		Values(
			sub.ID,
			owner.Key(),
			postgres.NullIfEmpty(owner.UserID),
			postgres.NullIfEmpty(owner.Email),
			sub.Endpoint,
			sub.PublicKey,
			sub.AuthSecret,
			postgres.NullIfEmpty(sub.DeviceName),
			true,
			sub.CreatedAt,
		).
		Suffix(`ON CONFLICT (owner_key, endpoint) DO UPDATE SET
			user_id = coalesce(EXCLUDED.user_id, push_subscriptions.user_id),
			user_email = coalesce(EXCLUDED.user_email, push_subscriptions.user_email),
			p256dh = EXCLUDED.p256dh,
			auth = EXCLUDED.auth,
			device_name = coalesce(EXCLUDED.device_name, push_subscriptions.device_name),
			is_active = true
			RETURNING ` + strings.Join(columns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build upsert subscription: %w", err)
	}

	var row subscriptionRow
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, sql, args...); err != nil {
		return nil, postgres.MapError(err, "push_subscription", sub.ID)
	}

	out := row.toDomain()
	return &out, nil
}

// Touch records a successful delivery.
func (r *Repo) Touch(ctx context.Context, id uuid.UUID, at time.Time) error {
	sql, args, err := postgres.Builder.
		Update(table).
		Set("last_used_at", at).
		Where(squirrel.Eq{"id": id.String()}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build touch subscription: %w", err)
	}

	if _, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, "push_subscription", id)
	}
	return nil
}

// Delete removes a subscription. Deleting a missing row is a no-op, so
// concurrent prunes of the same subscription are safe.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	sql, args, err := postgres.Builder.
		Delete(table).
		Where(squirrel.Eq{"id": id.String()}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete subscription: %w", err)
	}

	if _, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, "push_subscription", id)
	}
	return nil
}

// Deactivate marks a subscription inactive. Idempotent.
func (r *Repo) Deactivate(ctx context.Context, id uuid.UUID) error {
	sql, args, err := postgres.Builder.
		Update(table).
		Set("is_active", false).
		Where(squirrel.Eq{"id": id.String()}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build deactivate subscription: %w", err)
	}

	if _, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, "push_subscription", id)
	}
	return nil
}

// DeleteByEndpoint unregisters the owner's device and returns how many rows were removed.
func (r *Repo) DeleteByEndpoint(ctx context.Context, owner domain.Recipient, endpoint string) (int, error) {
	sql, args, err := postgres.Builder.
		Delete(table).
		Where(squirrel.Eq{"endpoint": endpoint}).
		Where(postgres.RecipientFilter("user_id", "user_email", owner)).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete subscription by endpoint: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("delete subscription by endpoint: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// PurgeInactive removes deactivated subscriptions not used since before.
func (r *Repo) PurgeInactive(ctx context.Context, before time.Time) (int, error) {
	sql, args, err := postgres.Builder.
		Delete(table).
		Where(squirrel.Eq{"is_active": false}).
		Where("COALESCE(last_used_at, created_at) < ?", before).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build purge inactive subscriptions: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("purge inactive subscriptions: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// ListActive returns the recipient's active subscriptions, matched by user id
// or case-insensitive email.
func (r *Repo) ListActive(ctx context.Context, owner domain.Recipient) ([]domain.PushSubscription, error) {
	sql, args, err := postgres.Builder.
		Select(columns...).
		From(table).
		Where(squirrel.Eq{"is_active": true}).
		Where(postgres.RecipientFilter("user_id", "user_email", owner)).
		OrderBy("created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list subscriptions: %w", err)
	}

	var rows []subscriptionRow
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}

	out := make([]domain.PushSubscription, len(rows))
	for i, row := range rows {
		out[i] = row.toDomain()
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Mapping helpers
// ---------------------------------------------------------------------------

type subscriptionRow struct {
	ID         uuid.UUID  `db:"id"`
	UserID     string     `db:"user_id"`
	UserEmail  string     `db:"user_email"`
	Endpoint   string     `db:"endpoint"`
	P256dh     string     `db:"p256dh"`
	Auth       string     `db:"auth"`
	DeviceName string     `db:"device_name"`
	IsActive   bool       `db:"is_active"`
	LastUsedAt *time.Time `db:"last_used_at"`
	CreatedAt  time.Time  `db:"created_at"`
}

func (row subscriptionRow) toDomain() domain.PushSubscription {
	return domain.PushSubscription{
		ID:         row.ID,
		Owner:      domain.Recipient{UserID: row.UserID, Email: row.UserEmail},
		Endpoint:   row.Endpoint,
		PublicKey:  row.P256dh,
		AuthSecret: row.Auth,
		DeviceName: row.DeviceName,
		IsActive:   row.IsActive,
		LastUsedAt: row.LastUsedAt,
		CreatedAt:  row.CreatedAt,
	}
}
