package notification

import (
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/notify-backend/internal/domain"
)

const (
	maxTitleLen  = 500
	maxBodyLen   = 5000
	defaultLimit = 20
	maxLimit     = 200
)

// CreateInput holds the parameters for creating a notification.
type CreateInput struct {
	Recipient         domain.Recipient
	Title             string
	Body              string
	Category          domain.NotificationCategory
	Priority          domain.NotificationPriority
	Link              string
	RelatedEntityType string
	RelatedEntityID   string
	Metadata          map[string]any
	// SkipPush disables push delivery; the zero value requests it.
	SkipPush bool
}

// Validate checks all fields and collects all errors.
func (i CreateInput) Validate() error {
	var errs []domain.FieldError

	if i.Recipient.IsZero() {
		errs = append(errs, domain.FieldError{Field: "recipient", Message: "user_id or user_email is required"})
	}

	title := strings.TrimSpace(i.Title)
	if title == "" {
		errs = append(errs, domain.FieldError{Field: "title", Message: "required"})
	}
	if len(title) > maxTitleLen {
		errs = append(errs, domain.FieldError{Field: "title", Message: "max 500 characters"})
	}

	body := strings.TrimSpace(i.Body)
	if body == "" {
		errs = append(errs, domain.FieldError{Field: "body", Message: "required"})
	}
	if len(body) > maxBodyLen {
		errs = append(errs, domain.FieldError{Field: "body", Message: "max 5000 characters"})
	}

	if i.Category != "" && !i.Category.IsValid() {
		errs = append(errs, domain.FieldError{Field: "category", Message: "unknown category"})
	}
	if i.Priority != "" && !i.Priority.IsValid() {
		errs = append(errs, domain.FieldError{Field: "priority", Message: "must be low, normal, high or urgent"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// ListInput holds the parameters for listing the caller's notifications.
type ListInput struct {
	UnreadOnly bool
	Limit      int
	Offset     int
}

// Validate checks all fields and collects all errors.
func (i ListInput) Validate() error {
	var errs []domain.FieldError
	if i.Limit < 0 {
		errs = append(errs, domain.FieldError{Field: "limit", Message: "must be non-negative"})
	}
	if i.Limit > maxLimit {
		errs = append(errs, domain.FieldError{Field: "limit", Message: "max 200"})
	}
	if i.Offset < 0 {
		errs = append(errs, domain.FieldError{Field: "offset", Message: "must be non-negative"})
	}
	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// MarkReadInput holds the parameters for marking one notification read.
type MarkReadInput struct {
	ID uuid.UUID
}

// Validate checks all fields and collects all errors.
func (i MarkReadInput) Validate() error {
	if i.ID == uuid.Nil {
		return domain.NewValidationError("id", "required")
	}
	return nil
}
