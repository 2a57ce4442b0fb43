package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vya-logistics/vya-backend/internal/models"
)

type tripsRepo struct{ pool *pgxpool.Pool }

const tripCols = `id, traveler_id, origin, destination, departure_at, status, created_at`

func (r *tripsRepo) Create(ctx context.Context, t models.Trip) (models.Trip, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Status == "" {
		t.Status = models.TripScheduled
	}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO trips(id, traveler_id, origin, destination, departure_at, status)
		 VALUES($1,$2,$3,$4,$5,$6)
		 RETURNING `+tripCols,
		t.ID, t.TravelerID, t.Origin, t.Destination, t.DepartureAt, t.Status,
	).Scan(&t.ID, &t.TravelerID, &t.Origin, &t.Destination, &t.DepartureAt, &t.Status, &t.CreatedAt)
	return t, err
}

func (r *tripsRepo) GetByID(ctx context.Context, id string) (models.Trip, error) {
	var t models.Trip
	err := r.pool.QueryRow(ctx,
		`SELECT `+tripCols+` FROM trips WHERE id=$1`, id,
	).Scan(&t.ID, &t.TravelerID, &t.Origin, &t.Destination, &t.DepartureAt, &t.Status, &t.CreatedAt)
	return t, err
}

func (r *tripsRepo) NextForTraveler(ctx context.Context, travelerID string) (models.Trip, error) {
	var t models.Trip
	err := r.pool.QueryRow(ctx,
		`SELECT `+tripCols+` FROM trips
		  WHERE traveler_id=$1 AND status IN ('scheduled','active')
		  ORDER BY departure_at ASC
		  LIMIT 1`,
		travelerID,
	).Scan(&t.ID, &t.TravelerID, &t.Origin, &t.Destination, &t.DepartureAt, &t.Status, &t.CreatedAt)
	return t, err
}

func (r *tripsRepo) ListByTraveler(ctx context.Context, travelerID string) ([]models.Trip, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+tripCols+` FROM trips
		  WHERE traveler_id=$1
		  ORDER BY departure_at DESC
		  LIMIT 100`,
		travelerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Trip
	for rows.Next() {
		var t models.Trip
		if err := rows.Scan(&t.ID, &t.TravelerID, &t.Origin, &t.Destination, &t.DepartureAt, &t.Status, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
