package automation

import (
	"context"
	"fmt"
	"strings"

	"github.com/heartmarshall/notify-backend/internal/domain"
	"github.com/heartmarshall/notify-backend/internal/service/notification"
)

type recipientFunc func(ctx context.Context, r *resolver, ev domain.ChangeEvent) ([]domain.Recipient, error)

type rule struct {
	name       string
	entityType string
	trigger    trigger
	recipients recipientFunc
	// actor identifies who caused the change; nil when unknown.
	actor   func(ev domain.ChangeEvent) domain.Recipient
	message func(ev domain.ChangeEvent) message
}

type message struct {
	title    string
	body     string
	category domain.NotificationCategory
	priority domain.NotificationPriority
	link     string
}

func (m message) input(ruleName string, ev domain.ChangeEvent, to domain.Recipient) notification.CreateInput {
	priority := m.priority
	if priority == "" {
		priority = domain.PriorityNormal
	}
	return notification.CreateInput{
		Recipient:         to,
		Title:             m.title,
		Body:              m.body,
		Category:          m.category,
		Priority:          priority,
		Link:              m.link,
		RelatedEntityType: ev.EntityType,
		RelatedEntityID:   ev.EntityID,
		Metadata: map[string]any{
			"rule":      ruleName,
			"operation": string(ev.Operation),
		},
	}
}

var defaultRules = []rule{
	// task
	{
		name:       "task_assigned_on_create",
		entityType: "task",
		trigger:    onCreate,
		recipients: fromFields("assigned_to"),
		actor:      actorFrom("created_by"),
		message:    taskAssigned,
	},
	{
		name:       "task_assigned_on_update",
		entityType: "task",
		trigger:    gainsMembers("assigned_to"),
		recipients: func(_ context.Context, _ *resolver, ev domain.ChangeEvent) ([]domain.Recipient, error) {
			return recipientsOf(added(ev, "assigned_to")), nil
		},
		actor:   actorFrom("updated_by"),
		message: taskAssigned,
	},
	{
		name:       "task_completed",
		entityType: "task",
		trigger:    becomes("status", "completed"),
		recipients: fromFields("created_by"),
		actor:      actorFrom("completed_by", "updated_by"),
		message: func(ev domain.ChangeEvent) message {
			return message{
				title:    "Task completed",
				body:     fmt.Sprintf("%q was marked as completed", label(ev, "title", "name")),
				category: domain.CategoryTaskCompleted,
				link:     linkFor(ev.EntityType, ev.EntityID),
			}
		},
	},

	// project
	{
		name:       "project_created",
		entityType: "project",
		trigger:    onCreate,
		recipients: func(ctx context.Context, r *resolver, _ domain.ChangeEvent) ([]domain.Recipient, error) {
			return r.admins(ctx)
		},
		actor: actorFrom("created_by"),
		message: func(ev domain.ChangeEvent) message {
			return message{
				title:    "New project created",
				body:     fmt.Sprintf("A new project %q has been created", label(ev, "name", "title")),
				category: domain.CategoryProjectCreated,
				link:     linkFor(ev.EntityType, ev.EntityID),
			}
		},
	},
	{
		name:       "project_stage_changed",
		entityType: "project",
		trigger:    changed("current_stage"),
		recipients: fromFields("architect_email", "team_members", "created_by"),
		actor:      actorFrom("updated_by"),
		message: func(ev domain.ChangeEvent) message {
			return message{
				title:    "Project stage updated",
				body:     fmt.Sprintf("%q moved to stage %s", label(ev, "name", "title"), ev.After.String("current_stage")),
				category: domain.CategoryProjectStageChanged,
				link:     linkFor(ev.EntityType, ev.EntityID),
			}
		},
	},

	// document
	{
		name:       "document_uploaded",
		entityType: "document",
		trigger:    onCreate,
		recipients: func(ctx context.Context, r *resolver, ev domain.ChangeEvent) ([]domain.Recipient, error) {
			project, err := r.entity(ctx, "project", ev.After.String("project_id"))
			if err != nil {
				return nil, err
			}
			return fieldRecipients(project.Data, "architect_email", "created_by"), nil
		},
		actor: actorFrom("uploaded_by", "created_by"),
		message: func(ev domain.ChangeEvent) message {
			return message{
				title:    "New document uploaded",
				body:     fmt.Sprintf("%q was uploaded", label(ev, "name", "title", "file_name")),
				category: domain.CategoryDocumentUploaded,
				link:     linkFor(ev.EntityType, ev.EntityID),
			}
		},
	},
	{
		name:       "document_pending_approval",
		entityType: "document",
		trigger:    onCreateWhere("approval_status", string(domain.ApprovalPending)),
		recipients: func(ctx context.Context, r *resolver, _ domain.ChangeEvent) ([]domain.Recipient, error) {
			return r.admins(ctx)
		},
		actor: actorFrom("uploaded_by", "created_by"),
		message: func(ev domain.ChangeEvent) message {
			return message{
				title:    "Document awaiting approval",
				body:     fmt.Sprintf("%q needs your review", label(ev, "name", "title", "file_name")),
				category: domain.CategoryDocumentPendingApproval,
				link:     linkFor(ev.EntityType, ev.EntityID),
			}
		},
	},
	{
		name:       "document_approved",
		entityType: "document",
		trigger:    becomes("approval_status", string(domain.ApprovalApproved)),
		recipients: fromFields("uploaded_by", "created_by"),
		actor:      actorFrom("approved_by"),
		message: func(ev domain.ChangeEvent) message {
			return message{
				title:    "Document approved",
				body:     fmt.Sprintf("%q has been approved", label(ev, "name", "title", "file_name")),
				category: domain.CategoryDocumentApproved,
				link:     linkFor(ev.EntityType, ev.EntityID),
			}
		},
	},
	{
		name:       "document_rejected",
		entityType: "document",
		trigger:    becomes("approval_status", string(domain.ApprovalRejected)),
		recipients: fromFields("uploaded_by", "created_by"),
		actor:      actorFrom("approved_by"),
		message: func(ev domain.ChangeEvent) message {
			return message{
				title:    "Document rejected",
				body:     withReason(fmt.Sprintf("%q has been rejected", label(ev, "name", "title", "file_name")), ev),
				category: domain.CategoryDocumentRejected,
				priority: domain.PriorityHigh,
				link:     linkFor(ev.EntityType, ev.EntityID),
			}
		},
	},

	// proposal
	{
		name:       "proposal_approved",
		entityType: "proposal",
		trigger:    becomes("status", "approved"),
		recipients: fromFields("created_by"),
		actor:      actorFrom("approved_by"),
		message: func(ev domain.ChangeEvent) message {
			return message{
				title:    "Proposal approved",
				body:     fmt.Sprintf("Your proposal %q has been approved", label(ev, "title", "name")),
				category: domain.CategoryProposalApproved,
				link:     linkFor(ev.EntityType, ev.EntityID),
			}
		},
	},
	{
		name:       "proposal_rejected",
		entityType: "proposal",
		trigger:    becomes("status", "rejected"),
		recipients: fromFields("created_by"),
		actor:      actorFrom("approved_by"),
		message: func(ev domain.ChangeEvent) message {
			return message{
				title:    "Proposal rejected",
				body:     withReason(fmt.Sprintf("Your proposal %q has been rejected", label(ev, "title", "name")), ev),
				category: domain.CategoryProposalRejected,
				link:     linkFor(ev.EntityType, ev.EntityID),
			}
		},
	},

	// invoice
	{
		name:       "payment_received",
		entityType: "invoice",
		trigger:    becomes("status", "paid"),
		recipients: fromFields("created_by"),
		actor:      actorFrom("updated_by"),
		message: func(ev domain.ChangeEvent) message {
			body := fmt.Sprintf("Invoice %s has been paid", label(ev, "invoice_number", "number"))
			if amount := ev.After.String("amount"); amount != "" {
				body = fmt.Sprintf("%s (%s)", body, amount)
			}
			return message{
				title:    "Payment received",
				body:     body,
				category: domain.CategoryPaymentReceived,
				priority: domain.PriorityHigh,
				link:     linkFor(ev.EntityType, ev.EntityID),
			}
		},
	},

	// meeting
	{
		name:       "meeting_scheduled",
		entityType: "meeting",
		trigger:    onCreate,
		recipients: fromFields("attendees"),
		actor:      actorFrom("organizer_email", "created_by"),
		message: func(ev domain.ChangeEvent) message {
			body := fmt.Sprintf("You have been invited to %q", label(ev, "title", "name"))
			if start := ev.After.String("start_time"); start != "" {
				body = fmt.Sprintf("%s at %s", body, start)
			}
			return message{
				title:    "Meeting scheduled",
				body:     body,
				category: domain.CategoryMeetingScheduled,
				link:     linkFor(ev.EntityType, ev.EntityID),
			}
		},
	},

	// directory records
	recordAdded("client", domain.CategoryClientAdded, "client"),
	recordAdded("contractor", domain.CategoryContractorAdded, "contractor"),
	recordAdded("consultant", domain.CategoryConsultantAdded, "consultant"),
	recordAdded("supplier", domain.CategorySupplierAdded, "supplier"),

	// comment
	{
		name:       "new_comment",
		entityType: "comment",
		trigger:    onCreate,
		recipients: func(ctx context.Context, r *resolver, ev domain.ChangeEvent) ([]domain.Recipient, error) {
			target, err := r.entity(ctx,
				domain.NormalizeEntityType(ev.After.String("entity_type")),
				ev.After.String("entity_id"),
			)
			if err != nil {
				return nil, err
			}
			return fieldRecipients(target.Data, "created_by", "assigned_to", "architect_email"), nil
		},
		actor: actorFrom("author_email", "created_by"),
		message: func(ev domain.ChangeEvent) message {
			target := domain.NormalizeEntityType(ev.After.String("entity_type"))
			return message{
				title:    "New comment",
				body:     commentBody(ev.After.String("content")),
				category: domain.CategoryNewComment,
				link:     linkFor(target, ev.After.String("entity_id")),
			}
		},
	},

	// recording
	{
		name:       "recording_analyzed",
		entityType: "recording",
		trigger:    becomes("status", "analyzed"),
		recipients: fromFields("created_by"),
		message: func(ev domain.ChangeEvent) message {
			return message{
				title:    "Recording analyzed",
				body:     fmt.Sprintf("The analysis of %q is ready", label(ev, "title", "name")),
				category: domain.CategoryRecordingAnalyzed,
				link:     linkFor(ev.EntityType, ev.EntityID),
			}
		},
	},

	// team member
	{
		name:       "team_member_approved",
		entityType: "team_member",
		trigger:    becomes("approval_status", string(domain.ApprovalApproved)),
		recipients: fromFields("email", "user_email"),
		actor:      actorFrom("approved_by"),
		message: func(ev domain.ChangeEvent) message {
			return message{
				title:    "Account approved",
				body:     "Your account has been approved. You now have full access.",
				category: domain.CategoryGeneral,
				link:     "/",
			}
		},
	},
}

func taskAssigned(ev domain.ChangeEvent) message {
	return message{
		title:    "New task assigned",
		body:     fmt.Sprintf("You have been assigned to %q", label(ev, "title", "name")),
		category: domain.CategoryTaskAssigned,
		priority: domain.ParsePriority(ev.After.String("priority")),
		link:     linkFor(ev.EntityType, ev.EntityID),
	}
}

func recordAdded(entityType string, category domain.NotificationCategory, noun string) rule {
	return rule{
		name:       category.String(),
		entityType: entityType,
		trigger:    onCreate,
		recipients: fromFields("architect_email"),
		actor:      actorFrom("created_by"),
		message: func(ev domain.ChangeEvent) message {
			return message{
				title:    fmt.Sprintf("New %s added", noun),
				body:     fmt.Sprintf("%q was added as a %s", label(ev, "name", "company_name", "full_name"), noun),
				category: category,
				link:     linkFor(ev.EntityType, ev.EntityID),
			}
		},
	}
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// fromFields collects recipients from fields of the after snapshot. A field
// may hold one identity or a list.
func fromFields(fields ...string) recipientFunc {
	return func(_ context.Context, _ *resolver, ev domain.ChangeEvent) ([]domain.Recipient, error) {
		return fieldRecipients(ev.After, fields...), nil
	}
}

func fieldRecipients(s domain.Snapshot, fields ...string) []domain.Recipient {
	var out []domain.Recipient
	for _, f := range fields {
		out = append(out, recipientsOf(s.Strings(f))...)
	}
	return out
}

func actorFrom(fields ...string) func(ev domain.ChangeEvent) domain.Recipient {
	return func(ev domain.ChangeEvent) domain.Recipient {
		for _, f := range fields {
			if v := ev.After.String(f); v != "" {
				return recipientOf(v)
			}
		}
		return domain.Recipient{}
	}
}

// recipientOf treats values with an @ as emails and anything else as a user id.
func recipientOf(v string) domain.Recipient {
	v = strings.TrimSpace(v)
	if strings.Contains(v, "@") {
		return domain.RecipientFromEmail(v)
	}
	return domain.Recipient{UserID: v}
}

func recipientsOf(values []string) []domain.Recipient {
	out := make([]domain.Recipient, 0, len(values))
	for _, v := range values {
		out = append(out, recipientOf(v))
	}
	return out
}

// label returns the first non-empty field of the after snapshot, or the entity id.
func label(ev domain.ChangeEvent, fields ...string) string {
	for _, f := range fields {
		if v := ev.After.String(f); v != "" {
			return v
		}
	}
	return ev.EntityID
}

func withReason(body string, ev domain.ChangeEvent) string {
	if reason := ev.After.String("rejection_reason"); reason != "" {
		return body + ": " + reason
	}
	return body
}

var linkPaths = map[string]string{
	"task":        "tasks",
	"project":     "projects",
	"document":    "documents",
	"proposal":    "proposals",
	"invoice":     "invoices",
	"meeting":     "meetings",
	"client":      "clients",
	"contractor":  "contractors",
	"consultant":  "consultants",
	"supplier":    "suppliers",
	"recording":   "recordings",
	"team_member": "team",
}

func linkFor(entityType, id string) string {
	path, ok := linkPaths[entityType]
	if !ok {
		path = strings.ReplaceAll(entityType, "_", "-") + "s"
	}
	return "/" + path + "/" + id
}

const maxCommentPreview = 140

func commentBody(content string) string {
	if content == "" {
		return "Someone commented on an item you follow"
	}
	r := []rune(content)
	if len(r) <= maxCommentPreview {
		return content
	}
	return string(r[:maxCommentPreview-1]) + "…"
}
