package domain

import "slices"

// Principal is the authenticated caller of a user-facing operation.
type Principal struct {
	UserID string
	Email  string
	Role   string
}

// Recipient is the identity notifications addressed to this principal carry.
func (p Principal) Recipient() Recipient {
	return Recipient{UserID: p.UserID, Email: p.Email}.Normalized()
}

// HasRole reports whether the principal's role is one of roles.
func (p Principal) HasRole(roles []string) bool {
	return p.Role != "" && slices.Contains(roles, NormalizeToken(p.Role))
}
