package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Snapshot is a field-name to value view of an entity at one point in time.
// Values come from JSON, so numbers are float64 and lists are []any.
type Snapshot map[string]any

// Has reports whether the field is present, even if null.
func (s Snapshot) Has(field string) bool {
	_, ok := s[field]
	return ok
}

// String returns the field as a trimmed string. Missing and null fields are "".
func (s Snapshot) String(field string) string {
	v, ok := s[field]
	if !ok || v == nil {
		return ""
	}
	if str, ok := v.(string); ok {
		return strings.TrimSpace(str)
	}
	return strings.TrimSpace(formatScalar(v))
}

// formatScalar renders floats in plain decimal so large JSON numbers do not
// come out in exponent form.
func formatScalar(v any) string {
	switch t := v.(type) {
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}

// Strings returns the field as a list. A JSON array, a single string and a
// comma-separated string are all accepted; blanks are dropped.
func (s Snapshot) Strings(field string) []string {
	v, ok := s[field]
	if !ok || v == nil {
		return nil
	}

	var raw []string
	switch t := v.(type) {
	case []string:
		raw = t
	case []any:
		for _, item := range t {
			if item == nil {
				continue
			}
			if str, ok := item.(string); ok {
				raw = append(raw, str)
			} else {
				raw = append(raw, formatScalar(item))
			}
		}
	case string:
		raw = strings.Split(t, ",")
	default:
		raw = []string{formatScalar(t)}
	}

	out := make([]string, 0, len(raw))
	for _, r := range raw {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	return out
}

// ChangeEvent describes one create or update of an entity in the external store.
// Before is only set for updates.
type ChangeEvent struct {
	EntityType string
	Operation  ChangeOperation
	EntityID   string
	After      Snapshot
	Before     Snapshot
}

// Validate checks the structural contract of the event.
func (e ChangeEvent) Validate() error {
	var errs []FieldError
	if e.EntityType == "" {
		errs = append(errs, FieldError{Field: "entity_type", Message: "required"})
	}
	if !e.Operation.IsValid() {
		errs = append(errs, FieldError{Field: "operation", Message: "must be create or update"})
	}
	if strings.TrimSpace(e.EntityID) == "" {
		errs = append(errs, FieldError{Field: "entity_id", Message: "required"})
	}
	if e.Operation == OperationUpdate && e.Before == nil {
		errs = append(errs, FieldError{Field: "old_data", Message: "required for update"})
	}
	if len(errs) > 0 {
		return NewValidationErrors(errs)
	}
	return nil
}

// Entity is the read view of a record in the external entity store.
type Entity struct {
	Type string
	ID   string
	Data Snapshot
}
