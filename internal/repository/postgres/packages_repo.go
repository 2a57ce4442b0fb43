package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vya-logistics/vya-backend/internal/models"
	repo "github.com/vya-logistics/vya-backend/internal/repository"
)

type packagesRepo struct{ pool *pgxpool.Pool }

const packageCols = `id, sender_id, trip_id, size_class, coalesce(description,''), origin, destination,
	price, status, asaas_payment_id, pix_qr_code, pix_copy_paste, expires_at, created_at, updated_at`

func (r *packagesRepo) scanOne(row interface{ Scan(...any) error }) (models.Package, error) {
	var p models.Package
	err := row.Scan(&p.ID, &p.SenderID, &p.TripID, &p.SizeClass, &p.Description, &p.Origin, &p.Destination,
		&p.Price, &p.Status, &p.AsaasPaymentID, &p.PixQRCode, &p.PixCopyPaste, &p.ExpiresAt, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *packagesRepo) Create(ctx context.Context, p models.Package) (models.Package, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Status == "" {
		p.Status = models.PkgSearching
	}
	row := r.pool.QueryRow(ctx,
		`INSERT INTO packages(id, sender_id, size_class, description, origin, destination, price, status)
		 VALUES($1,$2,$3,nullif($4,''),$5,$6,$7,$8)
		 RETURNING `+packageCols,
		p.ID, p.SenderID, p.SizeClass, p.Description, p.Origin, p.Destination, p.Price, p.Status,
	)
	return r.scanOne(row)
}

func (r *packagesRepo) GetByID(ctx context.Context, id string) (models.Package, error) {
	return r.scanOne(r.pool.QueryRow(ctx,
		`SELECT `+packageCols+` FROM packages WHERE id=$1`, id))
}

func (r *packagesRepo) GetByPaymentID(ctx context.Context, paymentID string) (models.Package, error) {
	return r.scanOne(r.pool.QueryRow(ctx,
		`SELECT `+packageCols+` FROM packages WHERE asaas_payment_id=$1`, paymentID))
}

func (r *packagesRepo) ListBySender(ctx context.Context, senderID string, limit, offset int) ([]models.Package, error) {
	return r.list(ctx,
		`SELECT `+packageCols+` FROM packages
		  WHERE sender_id=$1
		  ORDER BY created_at DESC
		  LIMIT $2 OFFSET $3`,
		senderID, limit, offset)
}

func (r *packagesRepo) ListSearching(ctx context.Context, limit, offset int) ([]models.Package, error) {
	return r.list(ctx,
		`SELECT `+packageCols+` FROM packages
		  WHERE status=$1
		  ORDER BY created_at DESC
		  LIMIT $2 OFFSET $3`,
		models.PkgSearching, limit, offset)
}

func (r *packagesRepo) list(ctx context.Context, q string, args ...any) ([]models.Package, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Package
	for rows.Next() {
		p, err := r.scanOne(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ClaimForPayment is the point of commitment of initiate-charge: the WHERE
// clause on the current status makes it a compare-and-swap, so a package is
// never claimed twice.
func (r *packagesRepo) ClaimForPayment(ctx context.Context, id string, d repo.ChargeDetails) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE packages
		    SET status=$2, asaas_payment_id=$3, pix_qr_code=$4, pix_copy_paste=$5,
		        expires_at=$6, trip_id=coalesce($7, trip_id), updated_at=now()
		  WHERE id=$1 AND status=$8`,
		id, models.PkgWaitingPayment, d.PaymentID, d.PixQRCode, d.PixCopyPaste,
		d.ExpiresAt, d.TripID, models.PkgSearching,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *packagesRepo) MarkPaid(ctx context.Context, id string) (bool, error) {
	return r.UpdateStatus(ctx, id, models.PkgWaitingPayment, models.PkgWaitingPickup)
}

func (r *packagesRepo) UpdateStatus(ctx context.Context, id string, from, to models.PackageStatus) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE packages SET status=$3, updated_at=now() WHERE id=$1 AND status=$2`,
		id, from, to,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
