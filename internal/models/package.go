package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PackageStatus string

const (
	PkgSearching       PackageStatus = "searching"
	PkgWaitingPayment  PackageStatus = "waiting_payment"
	PkgWaitingPickup   PackageStatus = "waiting_pickup"
	PkgTransit         PackageStatus = "transit"
	PkgWaitingDelivery PackageStatus = "waiting_delivery"
	PkgDelivered       PackageStatus = "delivered"
	PkgCanceled        PackageStatus = "canceled"
)

// next holds the forward transitions of the package lifecycle. Cancellation
// is reachable from any non-terminal state; terminal states have no exits.
var next = map[PackageStatus]PackageStatus{
	PkgSearching:       PkgWaitingPayment,
	PkgWaitingPayment:  PkgWaitingPickup,
	PkgWaitingPickup:   PkgTransit,
	PkgTransit:         PkgWaitingDelivery,
	PkgWaitingDelivery: PkgDelivered,
}

func (s PackageStatus) Terminal() bool {
	return s == PkgDelivered || s == PkgCanceled
}

// CanTransition reports whether moving from s to to respects the forward-only
// lifecycle. Statuses are never skipped and terminal states are never left.
func (s PackageStatus) CanTransition(to PackageStatus) bool {
	if s.Terminal() {
		return false
	}
	if to == PkgCanceled {
		return true
	}
	return next[s] == to
}

type Package struct {
	ID             string          `json:"id"`
	SenderID       string          `json:"sender_id"`
	TripID         *string         `json:"trip_id,omitempty"`
	SizeClass      string          `json:"size_class"`
	Description    string          `json:"description,omitempty"`
	Origin         string          `json:"origin"`
	Destination    string          `json:"destination"`
	Price          decimal.Decimal `json:"price"`
	Status         PackageStatus   `json:"status"`
	AsaasPaymentID *string         `json:"asaas_payment_id,omitempty"`
	PixQRCode      *string         `json:"pix_qr_code,omitempty"`
	PixCopyPaste   *string         `json:"pix_copy_paste,omitempty"`
	ExpiresAt      *time.Time      `json:"expires_at,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}
