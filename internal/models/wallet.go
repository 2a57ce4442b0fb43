package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Wallet struct {
	UserID           string          `json:"user_id"`
	AvailableBalance decimal.Decimal `json:"available_balance"`
	PendingBalance   decimal.Decimal `json:"pending_balance"`
	TotalEarned      decimal.Decimal `json:"total_earned"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

type WalletTxnType string

const (
	TxnCredit     WalletTxnType = "CREDIT"
	TxnWithdrawal WalletTxnType = "WITHDRAWAL"
)

type WalletTxnStatus string

const (
	TxnPending   WalletTxnStatus = "PENDING"
	TxnCompleted WalletTxnStatus = "COMPLETED"
	TxnFailed    WalletTxnStatus = "FAILED"
)

// WalletTransaction is an append-only ledger entry. Rows are never deleted;
// a WITHDRAWAL moves PENDING -> COMPLETED or PENDING -> FAILED.
type WalletTransaction struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	Type        WalletTxnType   `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Status      WalletTxnStatus `json:"status"`
	Description string          `json:"description,omitempty"`
	PackageID   *string         `json:"package_id,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
