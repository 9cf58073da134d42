package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/notify-backend/internal/domain"
	"github.com/heartmarshall/notify-backend/internal/service/push"
	"github.com/heartmarshall/notify-backend/pkg/ctxutil"
)

type pushService interface {
	Subscribe(ctx context.Context, input push.SubscribeInput) (*domain.PushSubscription, error)
	Unsubscribe(ctx context.Context, owner domain.Recipient, endpoint string) error
	PublicKey() (string, error)
	Deliver(ctx context.Context, to domain.Recipient, m push.Message) (push.Result, error)
	DeliverTo(ctx context.Context, subs []domain.PushSubscription, m push.Message) (push.Result, error)
}

// PushHandler serves device subscription management and internal push sends.
type PushHandler struct {
	svc pushService
	log *slog.Logger
}

// NewPushHandler creates a PushHandler.
func NewPushHandler(svc pushService, logger *slog.Logger) *PushHandler {
	return &PushHandler{svc: svc, log: logger.With("handler", "push")}
}

// subscriptionRequest mirrors the browser's PushSubscription.toJSON().
type subscriptionRequest struct {
	Endpoint string `json:"endpoint"`
	Keys     struct {
		P256dh string `json:"p256dh"`
		Auth   string `json:"auth"`
	} `json:"keys"`
	DeviceName string `json:"device_name"`
}

type unsubscribeRequest struct {
	Endpoint string `json:"endpoint"`
}

type sendRequest struct {
	UserID        string                `json:"user_id"`
	UserEmail     string                `json:"user_email"`
	Subscriptions []subscriptionRequest `json:"subscriptions"`
	Title         string                `json:"title"`
	Body          string                `json:"body"`
	URL           string                `json:"url"`
	Tag           string                `json:"tag"`
	Data          map[string]any        `json:"data"`
	Priority      string                `json:"priority"`
}

type sendResponse struct {
	Success bool `json:"success"`
	Sent    int  `json:"sent"`
	Failed  int  `json:"failed"`
	Pruned  int  `json:"pruned"`
}

// Subscribe handles POST /api/push/subscriptions.
func (h *PushHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	p, ok := ctxutil.PrincipalFromCtx(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req subscriptionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	sub, err := h.svc.Subscribe(r.Context(), push.SubscribeInput{
		Owner:      p.Recipient(),
		Endpoint:   req.Endpoint,
		P256dh:     req.Keys.P256dh,
		Auth:       req.Keys.Auth,
		DeviceName: req.DeviceName,
	})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"success":         true,
		"subscription_id": sub.ID.String(),
	})
}

// Unsubscribe handles DELETE /api/push/subscriptions.
func (h *PushHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	p, ok := ctxutil.PrincipalFromCtx(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req unsubscribeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.svc.Unsubscribe(r.Context(), p.Recipient(), req.Endpoint); err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// PublicKey handles GET /api/push/public-key.
func (h *PushHandler) PublicKey(w http.ResponseWriter, r *http.Request) {
	key, err := h.svc.PublicKey()
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"public_key": key})
}

// Send handles POST /api/internal/push/send. Explicit subscriptions take
// precedence over a recipient lookup.
func (h *PushHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req sendRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	msg := push.Message{
		Title:    req.Title,
		Body:     req.Body,
		URL:      req.URL,
		Tag:      req.Tag,
		Data:     req.Data,
		Priority: domain.NotificationPriority(domain.NormalizeToken(req.Priority)),
	}

	var (
		res push.Result
		err error
	)
	if len(req.Subscriptions) > 0 {
		subs := make([]domain.PushSubscription, len(req.Subscriptions))
		for i, s := range req.Subscriptions {
			subs[i] = domain.PushSubscription{
				Endpoint:   s.Endpoint,
				PublicKey:  s.Keys.P256dh,
				AuthSecret: s.Keys.Auth,
				IsActive:   true,
			}
		}
		res, err = h.svc.DeliverTo(r.Context(), subs, msg)
	} else {
		res, err = h.svc.Deliver(r.Context(), domain.Recipient{UserID: req.UserID, Email: req.UserEmail}, msg)
	}
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, sendResponse{
		Success: true,
		Sent:    res.Sent,
		Failed:  res.Failed,
		Pruned:  res.Pruned,
	})
}
