package profile

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"stash-backend/internal/domain"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Get(ctx context.Context, customerID string) (map[string]interface{}, error) {
	const q = `SELECT data FROM profiles WHERE customer_id = $1`
	var data map[string]interface{}
	if err := r.pool.QueryRow(ctx, q, customerID).Scan(&data); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

func (r *postgresRepo) Put(ctx context.Context, customerID string, data map[string]interface{}) error {
	if data == nil {
		data = map[string]interface{}{}
	}
	const q = `
INSERT INTO profiles (customer_id, data, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (customer_id) DO UPDATE SET data = EXCLUDED.data, updated_at = now()
`
	_, err := r.pool.Exec(ctx, q, customerID, data)
	return err
}
