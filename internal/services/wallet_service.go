package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/vya-logistics/vya-backend/internal/gateway"
	"github.com/vya-logistics/vya-backend/internal/metrics"
	"github.com/vya-logistics/vya-backend/internal/models"
	"github.com/vya-logistics/vya-backend/internal/notify"
	repo "github.com/vya-logistics/vya-backend/internal/repository"
)

type WithdrawResult struct {
	Amount     decimal.Decimal `json:"amount_withdrawn"`
	PixKeyType string          `json:"pix_key_type"`
}

// WalletService exposes wallet views and the withdraw operation. Withdraw is
// the only path that debits a wallet; crediting happens exclusively through
// the settlement webhook.
type WalletService struct {
	wallets repo.Wallets
	txns    repo.WalletTransactions
	users   repo.Users
	gw      gateway.PaymentGateway
	emitter *notify.Emitter
}

func NewWalletService(wallets repo.Wallets, txns repo.WalletTransactions, users repo.Users, gw gateway.PaymentGateway, emitter *notify.Emitter) *WalletService {
	return &WalletService{wallets: wallets, txns: txns, users: users, gw: gw, emitter: emitter}
}

func (s *WalletService) Current(ctx context.Context, userID string) (models.Wallet, error) {
	w, err := s.wallets.Get(ctx, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		// Wallets are created lazily on first credit; an absent row is an
		// empty wallet, not an error.
		return models.Wallet{
			UserID:           userID,
			AvailableBalance: decimal.Zero,
			PendingBalance:   decimal.Zero,
			TotalEarned:      decimal.Zero,
		}, nil
	}
	return w, err
}

func (s *WalletService) History(ctx context.Context, userID string, limit, offset int) ([]models.WalletTransaction, error) {
	return s.txns.ListByUser(ctx, userID, limit, offset)
}

// Withdraw pushes the wallet's full available balance out over PIX.
//
// The debit is optimistic: the balance is zeroed with a compare-and-swap so
// a concurrent withdrawal or credit forces a retry instead of a silent stale
// debit. No lock is held across the gateway call; if the transfer fails the
// debit is compensated by restoring the captured amount.
func (s *WalletService) Withdraw(ctx context.Context, actorID, pixKey, pixKeyType string) (WithdrawResult, error) {
	w, err := s.wallets.Get(ctx, actorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return WithdrawResult{}, ErrInsufficientBalance
		}
		return WithdrawResult{}, fmt.Errorf("%w: load wallet: %v", ErrInternal, err)
	}
	if !w.AvailableBalance.IsPositive() {
		return WithdrawResult{}, ErrInsufficientBalance
	}

	key, keyType, err := s.resolveKey(ctx, actorID, pixKey, pixKeyType)
	if err != nil {
		return WithdrawResult{}, err
	}

	captured := w.AvailableBalance

	swapped, err := s.wallets.CompareAndSwapAvailable(ctx, actorID, captured, decimal.Zero)
	if err != nil {
		return WithdrawResult{}, fmt.Errorf("%w: debit wallet: %v", ErrInternal, err)
	}
	if !swapped {
		metrics.WithdrawalsTotal.WithLabelValues("conflict").Inc()
		return WithdrawResult{}, &ConflictError{Msg: "balance changed concurrently, try again"}
	}

	txn, err := s.txns.Create(ctx, models.WalletTransaction{
		UserID:      actorID,
		Type:        models.TxnWithdrawal,
		Amount:      captured,
		Status:      models.TxnPending,
		Description: fmt.Sprintf("PIX withdrawal to %s key", keyType),
	})
	if err != nil {
		// No ledger row yet: restore the balance and bail out.
		s.restore(ctx, actorID, captured)
		metrics.WithdrawalsTotal.WithLabelValues("error").Inc()
		return WithdrawResult{}, fmt.Errorf("%w: record withdrawal (balance restored): %v", ErrInternal, err)
	}

	_, err = s.gw.CreateTransfer(ctx, gateway.TransferRequest{
		Amount:      captured,
		PixKey:      key,
		PixKeyType:  keyType,
		Description: "VYA wallet withdrawal",
	})
	if err != nil {
		s.restore(ctx, actorID, captured)
		if uerr := s.txns.UpdateStatus(ctx, txn.ID, models.TxnFailed); uerr != nil {
			slog.Error("failed to mark withdrawal transaction FAILED", "txn_id", txn.ID, "err", uerr)
		}
		s.emitter.Emit(actorID, notify.KindWithdrawFailed,
			"Withdrawal failed",
			fmt.Sprintf("Your withdrawal of R$ %s could not be completed. The amount was returned to your wallet.", captured.StringFixed(2)))
		metrics.WithdrawalsTotal.WithLabelValues("gateway_error").Inc()
		return WithdrawResult{}, &GatewayError{Op: "transfer", Err: err}
	}

	if err := s.txns.UpdateStatus(ctx, txn.ID, models.TxnCompleted); err != nil {
		// Transfer went through; the stale PENDING row is a reporting
		// blemish, not a balance problem.
		slog.Error("failed to mark withdrawal transaction COMPLETED", "txn_id", txn.ID, "err", err)
	}
	s.emitter.Emit(actorID, notify.KindWithdrawCompleted,
		"Withdrawal completed",
		fmt.Sprintf("R$ %s is on the way to your %s PIX key.", captured.StringFixed(2), keyType))
	metrics.WithdrawalsTotal.WithLabelValues("ok").Inc()
	return WithdrawResult{Amount: captured, PixKeyType: keyType}, nil
}

func (s *WalletService) restore(ctx context.Context, userID string, amount decimal.Decimal) {
	if err := s.wallets.RestoreAvailable(ctx, userID, amount); err != nil {
		// The one failure mode with no automatic way out; flag it loudly.
		slog.Error("balance restore failed after withdrawal error", "user_id", userID, "amount", amount, "err", err)
	}
}

// resolveKey picks the destination PIX key: the one supplied in the request,
// or one derived from the actor's profile in priority order CPF, email,
// phone.
func (s *WalletService) resolveKey(ctx context.Context, actorID, pixKey, pixKeyType string) (string, string, error) {
	if pixKey != "" {
		if pixKeyType == "" {
			return "", "", &ValidationError{Field: "pix_key_type", Msg: "required when pix_key is supplied"}
		}
		if pixKeyType == "CPF" {
			pixKey = models.NormalizeCPF(pixKey)
		}
		return pixKey, pixKeyType, nil
	}

	u, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		return "", "", fmt.Errorf("%w: load profile: %v", ErrInternal, err)
	}
	switch {
	case u.CPF != "":
		return models.NormalizeCPF(u.CPF), "CPF", nil
	case u.Email != "":
		return u.Email, "EMAIL", nil
	case u.Phone != "":
		return u.Phone, "PHONE", nil
	}
	return "", "", &ValidationError{Field: "pix_key", Msg: "no key supplied and none derivable from profile"}
}
