package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/vya-logistics/vya-backend/internal/models"
)

type walletsRepo struct{ pool *pgxpool.Pool }

func (r *walletsRepo) Get(ctx context.Context, userID string) (models.Wallet, error) {
	var w models.Wallet
	err := r.pool.QueryRow(ctx,
		`SELECT user_id, available_balance, pending_balance, total_earned, updated_at
		   FROM wallets
		  WHERE user_id=$1`,
		userID,
	).Scan(&w.UserID, &w.AvailableBalance, &w.PendingBalance, &w.TotalEarned, &w.UpdatedAt)
	return w, err
}

// CompareAndSwapAvailable is the optimistic lock behind withdraw: the update
// lands only if nobody changed the balance since it was read.
func (r *walletsRepo) CompareAndSwapAvailable(ctx context.Context, userID string, expected, to decimal.Decimal) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE wallets
		    SET available_balance=$3, updated_at=now()
		  WHERE user_id=$1 AND available_balance=$2`,
		userID, expected, to,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *walletsRepo) RestoreAvailable(ctx context.Context, userID string, amount decimal.Decimal) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE wallets
		    SET available_balance = available_balance + $2, updated_at=now()
		  WHERE user_id=$1`,
		userID, amount,
	)
	return err
}

func (r *walletsRepo) CreditFromPackage(ctx context.Context, userID string, amount decimal.Decimal, packageID string) error {
	_, err := r.pool.Exec(ctx, `SELECT credit_wallet($1,$2,$3)`, userID, amount, packageID)
	return err
}
