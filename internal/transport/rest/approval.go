package rest

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/notify-backend/internal/domain"
	"github.com/heartmarshall/notify-backend/internal/service/approval"
)

type approvalService interface {
	Approve(ctx context.Context, input approval.TransitionInput) (*domain.Entity, error)
	Reject(ctx context.Context, input approval.TransitionInput) (*domain.Entity, error)
}

// ApprovalHandler serves approve/reject transitions for approvable records.
type ApprovalHandler struct {
	svc approvalService
	log *slog.Logger
}

// NewApprovalHandler creates an ApprovalHandler.
func NewApprovalHandler(svc approvalService, logger *slog.Logger) *ApprovalHandler {
	return &ApprovalHandler{svc: svc, log: logger.With("handler", "approval")}
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

type entityResponse struct {
	EntityType string         `json:"entity_type"`
	ID         string         `json:"id"`
	Data       map[string]any `json:"data"`
}

// Approve handles POST /api/approvals/{entity}/{id}/approve.
func (h *ApprovalHandler) Approve(w http.ResponseWriter, r *http.Request) {
	e, err := h.svc.Approve(r.Context(), approval.TransitionInput{
		EntityType: r.PathValue("entity"),
		ID:         r.PathValue("id"),
	})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toEntityResponse(e))
}

// Reject handles POST /api/approvals/{entity}/{id}/reject. The body with a
// reason is optional.
func (h *ApprovalHandler) Reject(w http.ResponseWriter, r *http.Request) {
	var req rejectRequest
	if r.Body != nil && r.ContentLength != 0 {
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := decodeOptional(r.Body, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	e, err := h.svc.Reject(r.Context(), approval.TransitionInput{
		EntityType: r.PathValue("entity"),
		ID:         r.PathValue("id"),
		Reason:     req.Reason,
	})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toEntityResponse(e))
}

func decodeOptional(body io.Reader, v any) error {
	err := jsonDecode(body, v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func toEntityResponse(e *domain.Entity) entityResponse {
	return entityResponse{EntityType: e.Type, ID: e.ID, Data: e.Data}
}
