package approval

import (
	"strings"

	"github.com/heartmarshall/notify-backend/internal/domain"
)

const maxReasonLen = 2000

// approvable lists entity types carrying approval fields.
var approvable = map[string]struct{}{
	"project":     {},
	"client":      {},
	"contractor":  {},
	"consultant":  {},
	"supplier":    {},
	"team_member": {},
	"document":    {},
	"proposal":    {},
	"invoice":     {},
}

// IsApprovable reports whether records of the entity type can be approved.
func IsApprovable(entityType string) bool {
	_, ok := approvable[domain.NormalizeEntityType(entityType)]
	return ok
}

// TransitionInput identifies the record to approve or reject.
type TransitionInput struct {
	EntityType string
	ID         string
	// Reason is only persisted on rejection.
	Reason string
}

// Validate checks all fields and collects all errors.
func (i TransitionInput) Validate() error {
	var errs []domain.FieldError

	if strings.TrimSpace(i.EntityType) == "" {
		errs = append(errs, domain.FieldError{Field: "entity_type", Message: "required"})
	} else if !IsApprovable(i.EntityType) {
		errs = append(errs, domain.FieldError{Field: "entity_type", Message: "does not support approval"})
	}
	if strings.TrimSpace(i.ID) == "" {
		errs = append(errs, domain.FieldError{Field: "id", Message: "required"})
	}
	if len(i.Reason) > maxReasonLen {
		errs = append(errs, domain.FieldError{Field: "reason", Message: "max 2000 characters"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}
