package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vya-logistics/vya-backend/internal/api/httpx"
	"github.com/vya-logistics/vya-backend/internal/services"
)

type WebhookHandler struct {
	settlement *services.SettlementService
}

func NewWebhookHandler(settlement *services.SettlementService) *WebhookHandler {
	return &WebhookHandler{settlement: settlement}
}

// Asaas handles the inbound payment webhook. Apart from a malformed body
// (400) or a bad signature token (401), it always acknowledges with 200 so
// the gateway does not retry events we have deliberately ignored.
func (h *WebhookHandler) Asaas(w http.ResponseWriter, r *http.Request) {
	var ev services.WebhookEvent
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "bad_request", "malformed body", nil)
		return
	}

	token := r.Header.Get("asaas-access-token")
	ack, err := h.settlement.HandleGatewayEvent(r.Context(), token, ev)
	if err != nil {
		if errors.Is(err, services.ErrInvalidWebhookToken) {
			httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "invalid webhook token", nil)
			return
		}
		var vErr *services.ValidationError
		if errors.As(err, &vErr) {
			httpx.WriteError(w, http.StatusBadRequest, "bad_request", vErr.Error(), nil)
			return
		}
		// Persistence failure: let the gateway retry.
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "processing failed", nil)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, ack)
}
