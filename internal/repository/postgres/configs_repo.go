package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type configsRepo struct{ pool *pgxpool.Pool }

func (r *configsRepo) Get(ctx context.Context, key string) (string, error) {
	var v string
	err := r.pool.QueryRow(ctx, `SELECT value FROM configs WHERE key=$1`, key).Scan(&v)
	return v, err
}

func (r *configsRepo) Set(ctx context.Context, key, value string) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO configs(key, value, updated_at) VALUES($1,$2,now())
		 ON CONFLICT (key) DO UPDATE SET value=EXCLUDED.value, updated_at=now()`,
		key, value,
	)
	return err
}
