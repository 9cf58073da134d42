package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/heartmarshall/notify-backend/internal/domain"
)

type changeHandler interface {
	Watches(entityType string) bool
	Handle(ctx context.Context, ev domain.ChangeEvent) error
}

// AutomationHandler receives change events from the entity store, one
// endpoint per entity type.
type AutomationHandler struct {
	dispatcher changeHandler
	log        *slog.Logger
	timeout    time.Duration
}

// NewAutomationHandler creates an AutomationHandler. Each event is handled
// detached from the request and bounded by timeout; zero means no bound.
func NewAutomationHandler(dispatcher changeHandler, logger *slog.Logger, timeout time.Duration) *AutomationHandler {
	return &AutomationHandler{dispatcher: dispatcher, log: logger.With("handler", "automation"), timeout: timeout}
}

type automationRequest struct {
	Event struct {
		Type     string `json:"type"`
		EntityID string `json:"entity_id"`
	} `json:"event"`
	Data    map[string]any `json:"data"`
	OldData map[string]any `json:"old_data"`
}

// Handle handles POST /api/internal/automations/{entity}. The response never
// carries per-recipient detail.
func (h *AutomationHandler) Handle(w http.ResponseWriter, r *http.Request) {
	entity := domain.NormalizeEntityType(r.PathValue("entity"))
	if !h.dispatcher.Watches(entity) {
		writeError(w, http.StatusNotFound, "no automation for entity "+entity)
		return
	}

	var req automationRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ev := domain.ChangeEvent{
		EntityType: entity,
		Operation:  domain.ChangeOperation(domain.NormalizeToken(req.Event.Type)),
		EntityID:   req.Event.EntityID,
		After:      req.Data,
		Before:     req.OldData,
	}

	// A caller that hangs up must not abort fan-out halfway.
	ctx := context.WithoutCancel(r.Context())
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	if err := h.dispatcher.Handle(ctx, ev); err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
