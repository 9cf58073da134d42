package postgres

import (
	"github.com/Masterminds/squirrel"

	"github.com/heartmarshall/notify-backend/internal/domain"
)

// Builder is the squirrel statement builder for PostgreSQL placeholders.
var Builder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// RecipientFilter matches rows owned by the recipient: by user id, or by
// case-insensitive email, whichever identities are present.
// A zero recipient matches nothing.
func RecipientFilter(idColumn, emailColumn string, r domain.Recipient) squirrel.Sqlizer {
	var or squirrel.Or
	if r.UserID != "" {
		or = append(or, squirrel.Eq{idColumn: r.UserID})
	}
	if email := domain.NormalizeEmail(r.Email); email != "" {
		or = append(or, squirrel.Expr("lower("+emailColumn+") = ?", email))
	}
	if len(or) == 0 {
		return squirrel.Expr("false")
	}
	return or
}

// NullIfEmpty stores "" as NULL.
func NullIfEmpty(s string) squirrel.Sqlizer {
	return squirrel.Expr("NULLIF(?, '')", s)
}
