package rest

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/notify-backend/internal/domain"
	"github.com/heartmarshall/notify-backend/internal/service/notification"
)

type notificationService interface {
	Create(ctx context.Context, input notification.CreateInput) (uuid.UUID, error)
	List(ctx context.Context, input notification.ListInput) (*notification.Page, error)
	UnreadCount(ctx context.Context) (int, error)
	MarkRead(ctx context.Context, input notification.MarkReadInput) error
	MarkAllRead(ctx context.Context) (int, error)
}

// NotificationHandler serves the notification inbox and the internal create endpoint.
type NotificationHandler struct {
	svc notificationService
	log *slog.Logger
}

// NewNotificationHandler creates a NotificationHandler.
func NewNotificationHandler(svc notificationService, logger *slog.Logger) *NotificationHandler {
	return &NotificationHandler{svc: svc, log: logger.With("handler", "notification")}
}

type createNotificationRequest struct {
	UserID            string         `json:"user_id"`
	UserEmail         string         `json:"user_email"`
	Title             string         `json:"title"`
	Body              string         `json:"body"`
	Category          string         `json:"category"`
	Priority          string         `json:"priority"`
	Link              string         `json:"link"`
	RelatedEntityType string         `json:"related_entity_type"`
	RelatedEntityID   string         `json:"related_entity_id"`
	Metadata          map[string]any `json:"metadata"`
	SendPush          *bool          `json:"send_push"`
}

type notificationResponse struct {
	ID                string         `json:"id"`
	UserID            string         `json:"user_id,omitempty"`
	UserEmail         string         `json:"user_email,omitempty"`
	Title             string         `json:"title"`
	Body              string         `json:"body"`
	Category          string         `json:"category"`
	Priority          string         `json:"priority"`
	Link              string         `json:"link,omitempty"`
	RelatedEntityType string         `json:"related_entity_type,omitempty"`
	RelatedEntityID   string         `json:"related_entity_id,omitempty"`
	Metadata          map[string]any `json:"metadata"`
	IsRead            bool           `json:"is_read"`
	CreatedAt         time.Time      `json:"created_at"`
}

type listResponse struct {
	Items  []notificationResponse `json:"items"`
	Total  int                    `json:"total"`
	Offset int                    `json:"offset"`
}

// Create handles POST /api/internal/notifications.
func (h *NotificationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createNotificationRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	id, err := h.svc.Create(r.Context(), notification.CreateInput{
		Recipient:         domain.Recipient{UserID: req.UserID, Email: req.UserEmail},
		Title:             req.Title,
		Body:              req.Body,
		Category:          domain.NotificationCategory(domain.NormalizeToken(req.Category)),
		Priority:          domain.NotificationPriority(domain.NormalizeToken(req.Priority)),
		Link:              req.Link,
		RelatedEntityType: req.RelatedEntityType,
		RelatedEntityID:   req.RelatedEntityID,
		Metadata:          req.Metadata,
		SkipPush:          req.SendPush != nil && !*req.SendPush,
	})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"success":         true,
		"notification_id": id.String(),
	})
}

// List handles GET /api/notifications?unread=&limit=&offset=.
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	unread := r.URL.Query().Get("unread")
	input := notification.ListInput{
		UnreadOnly: unread == "1" || strings.EqualFold(unread, "true"),
		Limit:      limit,
		Offset:     offset,
	}

	page, err := h.svc.List(r.Context(), input)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	items := make([]notificationResponse, len(page.Items))
	for i, n := range page.Items {
		items[i] = toNotificationResponse(n)
	}
	writeJSON(w, http.StatusOK, listResponse{
		Items:  items,
		Total:  page.Total,
		Offset: offset,
	})
}

// UnreadCount handles GET /api/notifications/unread-count.
func (h *NotificationHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.UnreadCount(r.Context())
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"count": n})
}

// MarkRead handles POST /api/notifications/{id}/read.
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid notification id")
		return
	}

	if err := h.svc.MarkRead(r.Context(), notification.MarkReadInput{ID: id}); err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// MarkAllRead handles POST /api/notifications/read-all.
func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.MarkAllRead(r.Context())
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "updated": n})
}

func toNotificationResponse(n domain.Notification) notificationResponse {
	metadata := n.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	return notificationResponse{
		ID:                n.ID.String(),
		UserID:            n.Recipient.UserID,
		UserEmail:         n.Recipient.Email,
		Title:             n.Title,
		Body:              n.Body,
		Category:          n.Category.String(),
		Priority:          n.Priority.String(),
		Link:              n.Link,
		RelatedEntityType: n.RelatedEntityType,
		RelatedEntityID:   n.RelatedEntityID,
		Metadata:          metadata,
		IsRead:            n.IsRead,
		CreatedAt:         n.CreatedAt,
	}
}
