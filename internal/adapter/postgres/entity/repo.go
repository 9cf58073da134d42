// Package entity gives the notification pipeline read access to the external
// entity store, plus the approval patch the approval workflow applies.
package entity

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"

	postgres "github.com/heartmarshall/notify-backend/internal/adapter/postgres"
	"github.com/heartmarshall/notify-backend/internal/domain"
)

const table = "entities"

// Repo reads and patches entity snapshots stored as jsonb.
type Repo struct {
	db postgres.Querier
}

// New creates a new entity repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// Get returns the current snapshot of an entity.
// Returns domain.ErrNotFound if it does not exist.
func (r *Repo) Get(ctx context.Context, entityType, id string) (*domain.Entity, error) {
	return r.get(ctx, entityType, id, false)
}

// GetForUpdate is Get with a row lock. Call it inside a transaction.
func (r *Repo) GetForUpdate(ctx context.Context, entityType, id string) (*domain.Entity, error) {
	return r.get(ctx, entityType, id, true)
}

func (r *Repo) get(ctx context.Context, entityType, id string, lock bool) (*domain.Entity, error) {
	q := postgres.Builder.
		Select("data").
		From(table).
		Where(squirrel.Eq{"entity_type": entityType, "id": id})
	if lock {
		q = q.Suffix("FOR UPDATE")
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get entity: %w", err)
	}

	var raw []byte
	if err := postgres.QuerierFromCtx(ctx, r.db).QueryRow(ctx, sql, args...).Scan(&raw); err != nil {
		return nil, postgres.MapError(err, entityType, id)
	}

	return decode(entityType, id, raw)
}

// Patch merges fields into the entity's snapshot and returns the result.
// Returns domain.ErrNotFound if the entity does not exist.
func (r *Repo) Patch(ctx context.Context, entityType, id string, fields domain.Snapshot) (*domain.Entity, error) {
	patch, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("marshal patch: %w", err)
	}

	sql, args, err := postgres.Builder.
		Update(table).
		Set("data", squirrel.Expr("data || ?::jsonb", string(patch))).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"entity_type": entityType, "id": id}).
		Suffix("RETURNING data").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build patch entity: %w", err)
	}

	var raw []byte
	if err := postgres.QuerierFromCtx(ctx, r.db).QueryRow(ctx, sql, args...).Scan(&raw); err != nil {
		return nil, postgres.MapError(err, entityType, id)
	}

	return decode(entityType, id, raw)
}

func decode(entityType, id string, raw []byte) (*domain.Entity, error) {
	data := domain.Snapshot{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &data); err != nil {
			return nil, fmt.Errorf("%s %s: decode data: %w", entityType, id, err)
		}
	}
	return &domain.Entity{Type: entityType, ID: id, Data: data}, nil
}
