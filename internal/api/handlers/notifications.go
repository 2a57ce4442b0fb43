package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vya-logistics/vya-backend/internal/api/httpx"
	"github.com/vya-logistics/vya-backend/internal/middleware"
	repo "github.com/vya-logistics/vya-backend/internal/repository"
)

type NotificationHandler struct {
	notifications repo.Notifications
}

func NewNotificationHandler(n repo.Notifications) *NotificationHandler {
	return &NotificationHandler{notifications: n}
}

func (h *NotificationHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.UserID(r.Context())
	limit, offset := pagination(r)
	out, err := h.notifications.ListByUser(r.Context(), uid, limit, offset)
	if err != nil {
		httpx.WriteServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.UserID(r.Context())
	if err := h.notifications.MarkRead(r.Context(), chi.URLParam(r, "id"), uid); err != nil {
		httpx.WriteServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
