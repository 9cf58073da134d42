// Package directory answers role and identity queries against the users table.
package directory

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"

	postgres "github.com/heartmarshall/notify-backend/internal/adapter/postgres"
)

const table = "users"

// Repo is the user directory. Only SetRole writes, for operator bootstrap.
type Repo struct {
	db postgres.Querier
}

// New creates a new directory repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// EmailsByRoles returns the distinct lower-cased emails of active users
// holding any of the roles, capped at limit.
func (r *Repo) EmailsByRoles(ctx context.Context, roles []string, limit int) ([]string, error) {
	if len(roles) == 0 {
		return nil, nil
	}

	sql, args, err := postgres.Builder.
		Select("DISTINCT lower(email) AS email").
		From(table).
		Where(squirrel.Eq{"role": roles}).
		Where(squirrel.NotEq{"status": "inactive"}).
		OrderBy("email").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build emails by roles: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.db).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query emails by roles: %w", err)
	}
	defer rows.Close()

	var emails []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, fmt.Errorf("scan email: %w", err)
		}
		emails = append(emails, email)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate emails: %w", err)
	}

	return emails, nil
}

// EmailByID resolves a user id to an email.
// Returns domain.ErrNotFound if the user does not exist.
func (r *Repo) EmailByID(ctx context.Context, userID string) (string, error) {
	sql, args, err := postgres.Builder.
		Select("email").
		From(table).
		Where(squirrel.Eq{"id": userID}).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("build email by id: %w", err)
	}

	var email string
	if err := postgres.QuerierFromCtx(ctx, r.db).QueryRow(ctx, sql, args...).Scan(&email); err != nil {
		return "", postgres.MapError(err, "user", userID)
	}

	return email, nil
}

// SetRole assigns role to the user with the given email. It reports false
// when no user matched or the user already held the role.
func (r *Repo) SetRole(ctx context.Context, email, role string) (bool, error) {
	role = strings.ToLower(strings.TrimSpace(role))

	sql, args, err := postgres.Builder.
		Update(table).
		Set("role", role).
		Where("lower(email) = lower(?)", strings.TrimSpace(email)).
		Where(squirrel.NotEq{"role": role}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build set role: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, sql, args...)
	if err != nil {
		return false, fmt.Errorf("set role: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
