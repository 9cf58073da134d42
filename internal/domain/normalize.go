package domain

import (
	"strings"
	"unicode"
)

// NormalizeEmail trims and lowercases an email address. Email identity is
// case-insensitive everywhere in the pipeline.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeToken trims and lowercases an enum-like value.
func NormalizeToken(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizeEntityType converts an entity type name to snake_case:
// "TeamMember", "team-member" and "team_member" all become "team_member".
func NormalizeEntityType(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(s) + 4)
	prevLower := false
	for _, r := range s {
		switch {
		case r == '-' || r == ' ' || r == '_':
			if b.Len() > 0 && !strings.HasSuffix(b.String(), "_") {
				b.WriteByte('_')
			}
			prevLower = false
		case unicode.IsUpper(r):
			if prevLower {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			prevLower = false
		default:
			b.WriteRune(r)
			prevLower = unicode.IsLower(r) || unicode.IsDigit(r)
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}
