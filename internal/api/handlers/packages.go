package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/vya-logistics/vya-backend/internal/api/httpx"
	"github.com/vya-logistics/vya-backend/internal/api/validate"
	"github.com/vya-logistics/vya-backend/internal/middleware"
	"github.com/vya-logistics/vya-backend/internal/models"
	"github.com/vya-logistics/vya-backend/internal/services"
)

type PackageHandler struct {
	packages   *services.PackageService
	settlement *services.SettlementService
}

func NewPackageHandler(packages *services.PackageService, settlement *services.SettlementService) *PackageHandler {
	return &PackageHandler{packages: packages, settlement: settlement}
}

func (h *PackageHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.UserID(r.Context())
	var req struct {
		SizeClass   string          `json:"size_class"`
		Description string          `json:"description"`
		Origin      string          `json:"origin"`
		Destination string          `json:"destination"`
		Price       decimal.Decimal `json:"price"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "bad_request", "malformed body", nil)
		return
	}
	if err := validate.Collect(
		validate.Required("size_class", req.SizeClass),
		validate.Required("origin", req.Origin),
		validate.Required("destination", req.Destination),
	); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "validation_error", err.Error(), err)
		return
	}
	pkg, err := h.packages.Create(r.Context(), uid, req.SizeClass, req.Description, req.Origin, req.Destination, req.Price)
	if err != nil {
		httpx.WriteServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, pkg)
}

func (h *PackageHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.UserID(r.Context())
	limit, offset := pagination(r)
	pkgs, err := h.packages.ListBySender(r.Context(), uid, limit, offset)
	if err != nil {
		httpx.WriteServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, pkgs)
}

func (h *PackageHandler) ListAvailable(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	pkgs, err := h.packages.ListAvailable(r.Context(), limit, offset)
	if err != nil {
		httpx.WriteServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, pkgs)
}

// InitiateCharge starts the PIX payment flow for a searching package. Only
// travelers claim packages, so other roles are rejected up front.
func (h *PackageHandler) InitiateCharge(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.UserID(r.Context())
	if role, _ := middleware.Role(r.Context()); role != models.RoleTraveler {
		httpx.WriteError(w, http.StatusForbidden, "forbidden", "only travelers can initiate a charge", nil)
		return
	}
	var req struct {
		TripID string `json:"trip_id"`
	}
	// Body is optional; an absent trip id falls back to the next trip.
	_ = json.NewDecoder(r.Body).Decode(&req)

	res, err := h.settlement.InitiateCharge(r.Context(), uid, chi.URLParam(r, "id"), req.TripID)
	if err != nil {
		httpx.WriteServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, res)
}

// UpdateStatus applies pickup/transit/delivery confirmations on behalf of
// the package's sender or assigned traveler.
func (h *PackageHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.UserID(r.Context())
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Status == "" {
		httpx.WriteError(w, http.StatusBadRequest, "bad_request", "status required", nil)
		return
	}
	pkg, err := h.packages.Advance(r.Context(), uid, chi.URLParam(r, "id"), models.PackageStatus(req.Status))
	if err != nil {
		httpx.WriteServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, pkg)
}

func pagination(r *http.Request) (limit, offset int) {
	limit, offset = 50, 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}
	return limit, offset
}
