package automation

import (
	"slices"

	"github.com/heartmarshall/notify-backend/internal/domain"
)

// A trigger decides from the snapshots alone whether a rule fires.
// Triggers compare values, never count events, so replaying an update whose
// before snapshot already holds the target value does not fire again.
type trigger func(ev domain.ChangeEvent) bool

func onCreate(ev domain.ChangeEvent) bool {
	return ev.Operation == domain.OperationCreate
}

func onCreateWhere(field string, values ...string) trigger {
	return func(ev domain.ChangeEvent) bool {
		return onCreate(ev) && slices.Contains(values, domain.NormalizeToken(ev.After.String(field)))
	}
}

// becomes fires on an update where field moves into one of values from a
// different value.
func becomes(field string, values ...string) trigger {
	return func(ev domain.ChangeEvent) bool {
		if ev.Operation != domain.OperationUpdate {
			return false
		}
		after := domain.NormalizeToken(ev.After.String(field))
		before := domain.NormalizeToken(ev.Before.String(field))
		return after != before && slices.Contains(values, after)
	}
}

// changed fires on an update where field holds a new non-empty value.
func changed(field string) trigger {
	return func(ev domain.ChangeEvent) bool {
		if ev.Operation != domain.OperationUpdate {
			return false
		}
		after := ev.After.String(field)
		return after != "" && after != ev.Before.String(field)
	}
}

// gainsMembers fires on an update where the list field gained an entry.
func gainsMembers(field string) trigger {
	return func(ev domain.ChangeEvent) bool {
		return ev.Operation == domain.OperationUpdate && len(added(ev, field)) > 0
	}
}

// added returns entries of the list field present after but not before,
// compared case-insensitively.
func added(ev domain.ChangeEvent, field string) []string {
	prior := make(map[string]struct{})
	for _, v := range ev.Before.Strings(field) {
		prior[domain.NormalizeToken(v)] = struct{}{}
	}
	var out []string
	for _, v := range ev.After.Strings(field) {
		if _, ok := prior[domain.NormalizeToken(v)]; !ok {
			out = append(out, v)
		}
	}
	return out
}
