// Package notification implements the Notification Store using PostgreSQL.
package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	postgres "github.com/heartmarshall/notify-backend/internal/adapter/postgres"
	"github.com/heartmarshall/notify-backend/internal/domain"
)

const table = "notifications"

var columns = []string{
	"id",
	"coalesce(recipient_id, '') AS recipient_id",
	"coalesce(recipient_email, '') AS recipient_email",
	"title",
	"body",
	"category",
	"priority",
	"coalesce(link, '') AS link",
	"coalesce(related_entity_type, '') AS related_entity_type",
	"coalesce(related_entity_id, '') AS related_entity_id",
	"metadata",
	"is_read",
	"created_at",
}

// Repo provides notification persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new notification repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts a notification and returns the persisted record.
func (r *Repo) Create(ctx context.Context, n *domain.Notification) (*domain.Notification, error) {
	meta, err := marshalMetadata(n.Metadata)
	if err != nil {
		return nil, fmt.Errorf("marshal metadata: %w", err)
	}

	sql, args, err := postgres.Builder.
		Insert(table).
		Columns("id", "recipient_id", "recipient_email", "title", "body", "category", "priority",
			"link", "related_entity_type", "related_entity_id", "metadata", "is_read", "created_at").
		Values(
			n.ID,
			postgres.NullIfEmpty(n.Recipient.UserID),
			postgres.NullIfEmpty(domain.NormalizeEmail(n.Recipient.Email)),
			n.Title,
			n.Body,
			string(n.Category),
			string(n.Priority),
			postgres.NullIfEmpty(n.Link),
			postgres.NullIfEmpty(n.RelatedEntityType),
			postgres.NullIfEmpty(n.RelatedEntityID),
			meta,
			n.IsRead,
			n.CreatedAt,
		).
		Suffix("RETURNING " + returning()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert notification: %w", err)
	}

	var row notificationRow
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, sql, args...); err != nil {
		return nil, postgres.MapError(err, "notification", n.ID)
	}

	return row.toDomain()
}

// MarkRead flips is_read for one notification owned by the recipient.
// Marking an already-read notification succeeds.
// Returns domain.ErrNotFound if the notification does not exist or belongs to someone else.
func (r *Repo) MarkRead(ctx context.Context, id uuid.UUID, owner domain.Recipient) error {
	sql, args, err := postgres.Builder.
		Update(table).
		Set("is_read", true).
		Where(squirrel.Eq{"id": id.String()}).
		Where(postgres.RecipientFilter("recipient_id", "recipient_email", owner)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build mark read: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "notification", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("notification %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// MarkAllRead marks every unread notification of the recipient as read and
// returns how many changed.
func (r *Repo) MarkAllRead(ctx context.Context, owner domain.Recipient) (int, error) {
	sql, args, err := postgres.Builder.
		Update(table).
		Set("is_read", true).
		Where(squirrel.Eq{"is_read": false}).
		Where(postgres.RecipientFilter("recipient_id", "recipient_email", owner)).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build mark all read: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", err)
	}

	return int(tag.RowsAffected()), nil
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByID returns a notification by primary key.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Notification, error) {
	sql, args, err := postgres.Builder.
		Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id.String()}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get notification: %w", err)
	}

	var row notificationRow
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, sql, args...); err != nil {
		return nil, postgres.MapError(err, "notification", id)
	}

	return row.toDomain()
}

// ListByRecipient returns the recipient's notifications, newest first, and
// the total count matching the filter.
func (r *Repo) ListByRecipient(ctx context.Context, owner domain.Recipient, unreadOnly bool, limit, offset int) ([]domain.Notification, int, error) {
	where := squirrel.And{postgres.RecipientFilter("recipient_id", "recipient_email", owner)}
	if unreadOnly {
		where = append(where, squirrel.Eq{"is_read": false})
	}

	total, err := r.count(ctx, where)
	if err != nil {
		return nil, 0, err
	}

	sql, args, err := postgres.Builder.
		Select(columns...).
		From(table).
		Where(where).
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list notifications: %w", err)
	}

	var rows []notificationRow
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, sql, args...); err != nil {
		return nil, 0, fmt.Errorf("list notifications: %w", err)
	}

	out := make([]domain.Notification, 0, len(rows))
	for _, row := range rows {
		n, err := row.toDomain()
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *n)
	}

	return out, total, nil
}

// CountUnread returns the number of unread notifications for the recipient.
func (r *Repo) CountUnread(ctx context.Context, owner domain.Recipient) (int, error) {
	return r.count(ctx, squirrel.And{
		postgres.RecipientFilter("recipient_id", "recipient_email", owner),
		squirrel.Eq{"is_read": false},
	})
}

func (r *Repo) count(ctx context.Context, where squirrel.Sqlizer) (int, error) {
	sql, args, err := postgres.Builder.
		Select("count(*)").
		From(table).
		Where(where).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count notifications: %w", err)
	}

	var n int
	if err := postgres.QuerierFromCtx(ctx, r.db).QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count notifications: %w", err)
	}

	return n, nil
}

// ---------------------------------------------------------------------------
// Mapping helpers
// ---------------------------------------------------------------------------

type notificationRow struct {
	ID                uuid.UUID `db:"id"`
	RecipientID       string    `db:"recipient_id"`
	RecipientEmail    string    `db:"recipient_email"`
	Title             string    `db:"title"`
	Body              string    `db:"body"`
	Category          string    `db:"category"`
	Priority          string    `db:"priority"`
	Link              string    `db:"link"`
	RelatedEntityType string    `db:"related_entity_type"`
	RelatedEntityID   string    `db:"related_entity_id"`
	Metadata          []byte    `db:"metadata"`
	IsRead            bool      `db:"is_read"`
	CreatedAt         time.Time `db:"created_at"`
}

func (row notificationRow) toDomain() (*domain.Notification, error) {
	n := &domain.Notification{
		ID:                row.ID,
		Recipient:         domain.Recipient{UserID: row.RecipientID, Email: row.RecipientEmail},
		Title:             row.Title,
		Body:              row.Body,
		Category:          domain.NotificationCategory(row.Category),
		Priority:          domain.NotificationPriority(row.Priority),
		Link:              row.Link,
		RelatedEntityType: row.RelatedEntityType,
		RelatedEntityID:   row.RelatedEntityID,
		IsRead:            row.IsRead,
		CreatedAt:         row.CreatedAt,
	}

	if len(row.Metadata) > 0 {
		if err := json.Unmarshal(row.Metadata, &n.Metadata); err != nil {
			return nil, fmt.Errorf("notification %s: decode metadata: %w", row.ID, err)
		}
	}

	return n, nil
}

func marshalMetadata(m map[string]any) (string, error) {
	if len(m) == 0 {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func returning() string {
	return strings.Join(columns, ", ")
}
