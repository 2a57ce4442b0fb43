package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vya-logistics/vya-backend/internal/models"
)

type Users interface {
	Create(ctx context.Context, name, email, phone, cpf, passwordHash, role string) (models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	List(ctx context.Context) ([]models.User, error)
}

type Trips interface {
	Create(ctx context.Context, t models.Trip) (models.Trip, error)
	GetByID(ctx context.Context, id string) (models.Trip, error)
	// NextForTraveler returns the traveler's soonest scheduled or active
	// trip ordered by departure date.
	NextForTraveler(ctx context.Context, travelerID string) (models.Trip, error)
	ListByTraveler(ctx context.Context, travelerID string) ([]models.Trip, error)
}

// ChargeDetails is everything initiate-charge persists onto a package at its
// point of commitment.
type ChargeDetails struct {
	PaymentID    string
	PixQRCode    string
	PixCopyPaste string
	ExpiresAt    time.Time
	TripID       *string
}

type Packages interface {
	Create(ctx context.Context, p models.Package) (models.Package, error)
	GetByID(ctx context.Context, id string) (models.Package, error)
	GetByPaymentID(ctx context.Context, paymentID string) (models.Package, error)
	ListBySender(ctx context.Context, senderID string, limit, offset int) ([]models.Package, error)
	ListSearching(ctx context.Context, limit, offset int) ([]models.Package, error)
	// ClaimForPayment moves the package searching -> waiting_payment and
	// records the charge details, guarded by the current status. Returns
	// false when the package was not in searching anymore.
	ClaimForPayment(ctx context.Context, id string, d ChargeDetails) (bool, error)
	// MarkPaid moves waiting_payment -> waiting_pickup. Returns false when
	// the package already left waiting_payment (duplicate webhook delivery).
	MarkPaid(ctx context.Context, id string) (bool, error)
	// UpdateStatus applies a guarded transition from `from` to `to`.
	UpdateStatus(ctx context.Context, id string, from, to models.PackageStatus) (bool, error)
}

type Wallets interface {
	Get(ctx context.Context, userID string) (models.Wallet, error)
	// CompareAndSwapAvailable sets available_balance to `to` only if the
	// stored value still equals `expected`. Returns false when the row
	// changed concurrently (or does not exist).
	CompareAndSwapAvailable(ctx context.Context, userID string, expected, to decimal.Decimal) (bool, error)
	// RestoreAvailable adds amount back after a failed payout.
	RestoreAvailable(ctx context.Context, userID string, amount decimal.Decimal) error
	// CreditFromPackage runs the atomic credit primitive: wallet upsert
	// incrementing available_balance and total_earned plus a CREDIT ledger
	// entry, in one transaction.
	CreditFromPackage(ctx context.Context, userID string, amount decimal.Decimal, packageID string) error
}

type WalletTransactions interface {
	Create(ctx context.Context, t models.WalletTransaction) (models.WalletTransaction, error)
	UpdateStatus(ctx context.Context, id string, status models.WalletTxnStatus) error
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]models.WalletTransaction, error)
}

type Configs interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

type Notifications interface {
	Create(ctx context.Context, n models.Notification) error
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]models.Notification, error)
	MarkRead(ctx context.Context, id, userID string) error
}
