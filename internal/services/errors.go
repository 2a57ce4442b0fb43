package services

import (
	"errors"
	"fmt"

	"github.com/vya-logistics/vya-backend/internal/models"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrForbidden           = errors.New("forbidden")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInternal            = errors.New("internal error")
)

// ValidationError reports missing or malformed caller input.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

// ConflictError reports a violated state precondition along with the state
// actually observed, so the caller can decide whether to retry.
type ConflictError struct {
	Msg           string
	CurrentStatus models.PackageStatus
}

func (e *ConflictError) Error() string {
	if e.CurrentStatus != "" {
		return fmt.Sprintf("%s (current status: %s)", e.Msg, e.CurrentStatus)
	}
	return e.Msg
}

// GatewayError wraps a failed payment-gateway call. Withdrawal surfaces it
// after compensation; charge initiation absorbs it via the synthetic
// fallback; webhook crediting logs and swallows it.
type GatewayError struct {
	Op  string
	Err error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("gateway %s: %v", e.Op, e.Err)
}

func (e *GatewayError) Unwrap() error { return e.Err }
