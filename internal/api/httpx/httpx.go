package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vya-logistics/vya-backend/internal/services"
)

type APIError struct {
	Error   string      `json:"error"`
	Code    string      `json:"code"`
	Details interface{} `json:"details,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, status int, code, msg string, details interface{}) {
	WriteJSON(w, status, APIError{
		Error:   msg,
		Code:    code,
		Details: details,
	})
}

// WriteServiceError maps the service error taxonomy onto HTTP statuses.
func WriteServiceError(w http.ResponseWriter, err error) {
	var vErr *services.ValidationError
	var cErr *services.ConflictError
	var gErr *services.GatewayError
	switch {
	case errors.As(err, &vErr):
		WriteError(w, http.StatusBadRequest, "validation_error", vErr.Error(), map[string]string{"field": vErr.Field})
	case errors.As(err, &cErr):
		details := map[string]string{}
		if cErr.CurrentStatus != "" {
			details["current_status"] = string(cErr.CurrentStatus)
		}
		WriteError(w, http.StatusConflict, "conflict", cErr.Msg, details)
	case errors.As(err, &gErr):
		WriteError(w, http.StatusBadGateway, "gateway_error", "payment provider call failed, balance restored", nil)
	case errors.Is(err, services.ErrNotFound):
		WriteError(w, http.StatusNotFound, "not_found", "resource not found", nil)
	case errors.Is(err, services.ErrForbidden):
		WriteError(w, http.StatusForbidden, "forbidden", "not allowed for this actor", nil)
	case errors.Is(err, services.ErrInsufficientBalance):
		WriteError(w, http.StatusUnprocessableEntity, "insufficient_balance", "no available balance to withdraw", nil)
	case errors.Is(err, services.ErrInvalidCredentials):
		WriteError(w, http.StatusUnauthorized, "unauthorized", "invalid credentials", nil)
	default:
		WriteError(w, http.StatusInternalServerError, "internal_error", "internal error", nil)
	}
}
