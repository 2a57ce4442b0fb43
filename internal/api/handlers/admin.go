package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"
	"github.com/vya-logistics/vya-backend/internal/api/httpx"
	"github.com/vya-logistics/vya-backend/internal/services"
)

type AdminHandler struct {
	settlement *services.SettlementService
	users      *services.UserService
}

func NewAdminHandler(settlement *services.SettlementService, users *services.UserService) *AdminHandler {
	return &AdminHandler{settlement: settlement, users: users}
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		httpx.WriteServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, users)
}

func (h *AdminHandler) SetPlatformFee(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FeePercent decimal.Decimal `json:"fee_percent"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "bad_request", "malformed body", nil)
		return
	}
	if err := h.settlement.SetFeePercent(r.Context(), req.FeePercent); err != nil {
		httpx.WriteServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"fee_percent": req.FeePercent.String()})
}
