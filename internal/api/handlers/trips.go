package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/vya-logistics/vya-backend/internal/api/httpx"
	"github.com/vya-logistics/vya-backend/internal/middleware"
	"github.com/vya-logistics/vya-backend/internal/services"
)

type TripHandler struct {
	trips *services.TripService
}

func NewTripHandler(trips *services.TripService) *TripHandler {
	return &TripHandler{trips: trips}
}

func (h *TripHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.UserID(r.Context())
	var req struct {
		Origin      string    `json:"origin"`
		Destination string    `json:"destination"`
		DepartureAt time.Time `json:"departure_at"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "bad_request", "malformed body", nil)
		return
	}
	trip, err := h.trips.Create(r.Context(), uid, req.Origin, req.Destination, req.DepartureAt)
	if err != nil {
		httpx.WriteServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, trip)
}

func (h *TripHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.UserID(r.Context())
	trips, err := h.trips.ListByTraveler(r.Context(), uid)
	if err != nil {
		httpx.WriteServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, trips)
}
