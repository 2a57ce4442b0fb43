package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vya-logistics/vya-backend/internal/models"
)

type walletTxnsRepo struct{ pool *pgxpool.Pool }

const walletTxnCols = `id, user_id, type, amount, status, coalesce(description,''), package_id, created_at, updated_at`

func (r *walletTxnsRepo) Create(ctx context.Context, t models.WalletTransaction) (models.WalletTransaction, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Status == "" {
		t.Status = models.TxnPending
	}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO wallet_transactions(id, user_id, type, amount, status, description, package_id)
		 VALUES($1,$2,$3,$4,$5,nullif($6,''),$7)
		 RETURNING `+walletTxnCols,
		t.ID, t.UserID, t.Type, t.Amount, t.Status, t.Description, t.PackageID,
	).Scan(&t.ID, &t.UserID, &t.Type, &t.Amount, &t.Status, &t.Description, &t.PackageID, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

func (r *walletTxnsRepo) UpdateStatus(ctx context.Context, id string, status models.WalletTxnStatus) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE wallet_transactions SET status=$2, updated_at=now() WHERE id=$1`,
		id, status,
	)
	return err
}

func (r *walletTxnsRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]models.WalletTransaction, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+walletTxnCols+` FROM wallet_transactions
		  WHERE user_id=$1
		  ORDER BY created_at DESC
		  LIMIT $2 OFFSET $3`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.WalletTransaction
	for rows.Next() {
		var t models.WalletTransaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.Type, &t.Amount, &t.Status, &t.Description, &t.PackageID, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
