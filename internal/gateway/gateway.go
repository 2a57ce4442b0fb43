// Package gateway defines the contract the settlement core consumes from the
// external payment provider. The Asaas implementation lives in the asaas
// subpackage; tests substitute doubles.
package gateway

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type ChargeRequest struct {
	CustomerID        string // empty means an anonymous sandbox charge
	Amount            decimal.Decimal
	Description       string
	ExternalReference string
	DueDate           time.Time
}

type Charge struct {
	ID     string
	Status string
}

type PixQRCode struct {
	EncodedImage string // base64 PNG
	Payload      string // copy-paste BR Code
}

type TransferRequest struct {
	Amount      decimal.Decimal
	PixKey      string
	PixKeyType  string // CPF | EMAIL | PHONE | EVP
	Description string
}

type Transfer struct {
	ID     string
	Status string
}

type PaymentGateway interface {
	// Configured reports whether real gateway credentials are present.
	Configured() bool
	// FindOrCreateCustomer resolves a gateway customer by government id,
	// creating one when no match exists.
	FindOrCreateCustomer(ctx context.Context, name, cpfCnpj string) (string, error)
	CreatePixCharge(ctx context.Context, req ChargeRequest) (Charge, error)
	GetPixQRCode(ctx context.Context, chargeID string) (PixQRCode, error)
	CreateTransfer(ctx context.Context, req TransferRequest) (Transfer, error)
}
