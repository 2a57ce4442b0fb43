package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/vya-logistics/vya-backend/internal/api/httpx"
	"github.com/vya-logistics/vya-backend/internal/middleware"
	"github.com/vya-logistics/vya-backend/internal/services"
)

type WalletHandler struct {
	wallet *services.WalletService
}

func NewWalletHandler(wallet *services.WalletService) *WalletHandler {
	return &WalletHandler{wallet: wallet}
}

func (h *WalletHandler) Current(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.UserID(r.Context())
	wallet, err := h.wallet.Current(r.Context(), uid)
	if err != nil {
		httpx.WriteServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, wallet)
}

func (h *WalletHandler) History(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.UserID(r.Context())
	limit, offset := pagination(r)
	txns, err := h.wallet.History(r.Context(), uid, limit, offset)
	if err != nil {
		httpx.WriteServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, txns)
}

func (h *WalletHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.UserID(r.Context())
	var req struct {
		PixKey     string `json:"pix_key"`
		PixKeyType string `json:"pix_key_type"`
	}
	// Body is optional; without a key the service derives one from the
	// actor's profile.
	_ = json.NewDecoder(r.Body).Decode(&req)

	res, err := h.wallet.Withdraw(r.Context(), uid, req.PixKey, req.PixKeyType)
	if err != nil {
		httpx.WriteServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, res)
}
