package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/heartmarshall/bookshelf-backend/internal/domain"
	"github.com/heartmarshall/bookshelf-backend/internal/service/webhook"
)

// webhookService defines the minimal interface needed by WebhooksHandler.
type webhookService interface {
	Register(ctx context.Context, input webhook.RegisterInput) (*domain.Subscription, error)
	List(ctx context.Context) ([]domain.Subscription, error)
	Unregister(ctx context.Context, id uuid.UUID) error
}

// WebhooksHandler serves the webhook subscription REST endpoints.
type WebhooksHandler struct {
	svc webhookService
	log *slog.Logger
}

// NewWebhooksHandler creates a WebhooksHandler.
func NewWebhooksHandler(svc webhookService, logger *slog.Logger) *WebhooksHandler {
	return &WebhooksHandler{svc: svc, log: logger.With("handler", "webhooks")}
}

type registerWebhookRequest struct {
	URL   string `json:"url"`
	Event string `json:"event"`
}

type subscriptionResponse struct {
	ID    string `json:"id"`
	URL   string `json:"url"`
	Event string `json:"event"`
}

// Register handles POST /v1/webhooks.
func (h *WebhooksHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerWebhookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sub, err := h.svc.Register(r.Context(), webhook.RegisterInput{
		URL:   req.URL,
		Event: req.Event,
	})
	if err != nil {
		handleDomainError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, toSubscriptionResponse(*sub))
}

// List handles GET /v1/webhooks.
func (h *WebhooksHandler) List(w http.ResponseWriter, r *http.Request) {
	subs, err := h.svc.List(r.Context())
	if err != nil {
		handleDomainError(w, r, h.log, err)
		return
	}

	out := make([]subscriptionResponse, len(subs))
	for i, sub := range subs {
		out[i] = toSubscriptionResponse(sub)
	}
	writeJSON(w, http.StatusOK, out)
}

// Unregister handles DELETE /v1/webhooks/{id}. Responds 204 with no body.
func (h *WebhooksHandler) Unregister(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid webhook id")
		return
	}

	if err := h.svc.Unregister(r.Context(), id); err != nil {
		handleDomainError(w, r, h.log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toSubscriptionResponse(sub domain.Subscription) subscriptionResponse {
	return subscriptionResponse{
		ID:    sub.ID.String(),
		URL:   sub.URL,
		Event: sub.Event.String(),
	}
}
