package domain

// NotificationCategory classifies a notification. Push clients collapse
// notifications that share a category.
type NotificationCategory string

const (
	CategoryTaskAssigned            NotificationCategory = "task_assigned"
	CategoryTaskCompleted           NotificationCategory = "task_completed"
	CategoryProjectCreated          NotificationCategory = "project_created"
	CategoryProjectStageChanged     NotificationCategory = "project_stage_changed"
	CategoryDocumentUploaded        NotificationCategory = "document_uploaded"
	CategoryDocumentApproved        NotificationCategory = "document_approved"
	CategoryDocumentRejected        NotificationCategory = "document_rejected"
	CategoryDocumentPendingApproval NotificationCategory = "document_pending_approval"
	CategoryProposalApproved        NotificationCategory = "proposal_approved"
	CategoryProposalRejected        NotificationCategory = "proposal_rejected"
	CategoryPaymentReceived         NotificationCategory = "payment_received"
	CategoryMeetingScheduled        NotificationCategory = "meeting_scheduled"
	CategoryMeetingReminder         NotificationCategory = "meeting_reminder"
	CategoryTaskDueSoon             NotificationCategory = "task_due_soon"
	CategoryClientAdded             NotificationCategory = "client_added"
	CategoryContractorAdded         NotificationCategory = "contractor_added"
	CategoryConsultantAdded         NotificationCategory = "consultant_added"
	CategorySupplierAdded           NotificationCategory = "supplier_added"
	CategoryNewComment              NotificationCategory = "new_comment"
	CategoryRecordingAnalyzed       NotificationCategory = "recording_analyzed"
	CategoryGeneral                 NotificationCategory = "general"
)

func (c NotificationCategory) String() string { return string(c) }

func (c NotificationCategory) IsValid() bool {
	switch c {
	case CategoryTaskAssigned, CategoryTaskCompleted, CategoryProjectCreated,
		CategoryProjectStageChanged, CategoryDocumentUploaded, CategoryDocumentApproved,
		CategoryDocumentRejected, CategoryDocumentPendingApproval, CategoryProposalApproved,
		CategoryProposalRejected, CategoryPaymentReceived, CategoryMeetingScheduled,
		CategoryMeetingReminder, CategoryTaskDueSoon, CategoryClientAdded,
		CategoryContractorAdded, CategoryConsultantAdded, CategorySupplierAdded,
		CategoryNewComment, CategoryRecordingAnalyzed, CategoryGeneral:
		return true
	}
	return false
}

// NotificationPriority is the urgency of a notification.
type NotificationPriority string

const (
	PriorityLow    NotificationPriority = "low"
	PriorityNormal NotificationPriority = "normal"
	PriorityHigh   NotificationPriority = "high"
	PriorityUrgent NotificationPriority = "urgent"
)

func (p NotificationPriority) String() string { return string(p) }

func (p NotificationPriority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// ParsePriority maps free-form entity priorities onto notification
// priorities. Unknown values become normal.
func ParsePriority(s string) NotificationPriority {
	p := NotificationPriority(NormalizeToken(s))
	if p.IsValid() {
		return p
	}
	return PriorityNormal
}

// ChangeOperation is the kind of entity mutation a change event describes.
type ChangeOperation string

const (
	OperationCreate ChangeOperation = "create"
	OperationUpdate ChangeOperation = "update"
)

func (o ChangeOperation) String() string { return string(o) }

func (o ChangeOperation) IsValid() bool {
	switch o {
	case OperationCreate, OperationUpdate:
		return true
	}
	return false
}

// ApprovalStatus is the state of an approvable record.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

func (s ApprovalStatus) String() string { return string(s) }

func (s ApprovalStatus) IsValid() bool {
	switch s {
	case ApprovalPending, ApprovalApproved, ApprovalRejected:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is allowed.
func (s ApprovalStatus) IsTerminal() bool {
	return s == ApprovalApproved || s == ApprovalRejected
}

// Well-known user roles.
const (
	RoleAdmin          = "admin"
	RoleSuperAdmin     = "super_admin"
	RoleArchitect      = "architect"
	RoleProjectManager = "project_manager"
	RoleUser           = "user"
)
