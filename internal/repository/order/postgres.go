package order

import (
	"context"
	"errors"
	"io"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"stash-backend/internal/domain"
)

const orderColumns = `id, created_at, status, customer_name, customer_email, profile, items, total_count, total_amount, currency, COALESCE(proof_url, '')`

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) Insert(ctx context.Context, o domain.Order) (*domain.Order, error) {
	items := o.Items
	if items == nil {
		items = []domain.CartItem{}
	}
	var name, email *string
	if o.Customer != nil {
		if o.Customer.Name != "" {
			name = &o.Customer.Name
		}
		if o.Customer.Email != "" {
			email = &o.Customer.Email
		}
	}

	q := `
INSERT INTO orders (id, created_at, status, customer_name, customer_email, profile, items, total_count, total_amount, currency)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING ` + orderColumns
	row := r.pool.QueryRow(ctx, q,
		o.ID,
		o.CreatedAt,
		string(o.Status),
		name,
		email,
		o.Profile,
		items,
		o.TotalCount,
		o.TotalAmount,
		o.Currency,
	)
	stored, err := scanOrder(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			r.logger.Printf("order repo: insert id=%s duplicate", o.ID)
			return nil, domain.ErrAlreadyExists
		}
		r.logger.Printf("order repo: insert id=%s error=%v", o.ID, err)
		return nil, err
	}
	r.logger.Printf("order repo: inserted id=%s total=%v %s", stored.ID, stored.TotalAmount, stored.Currency)
	return stored, nil
}

func (r *postgresRepo) ListAll(ctx context.Context) ([]domain.Order, error) {
	q := `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Printf("order repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *o)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("order repo: list rows error=%v", err)
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	q := `SELECT ` + orderColumns + ` FROM orders WHERE upper(id) = upper($1)`
	o, err := scanOrder(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("order repo: get id=%s error=%v", id, err)
		return nil, err
	}
	return o, nil
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	q := `UPDATE orders SET status = $2 WHERE upper(id) = upper($1) RETURNING ` + orderColumns
	o, err := scanOrder(r.pool.QueryRow(ctx, q, id, string(status)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("order repo: update status id=%s error=%v", id, err)
		return nil, err
	}
	r.logger.Printf("order repo: status id=%s -> %s", o.ID, o.Status)
	return o, nil
}

func (r *postgresRepo) SetProof(ctx context.Context, id, proofURL string) (*domain.Order, error) {
	q := `UPDATE orders SET proof_url = $2 WHERE upper(id) = upper($1) RETURNING ` + orderColumns
	o, err := scanOrder(r.pool.QueryRow(ctx, q, id, proofURL))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("order repo: set proof id=%s error=%v", id, err)
		return nil, err
	}
	return o, nil
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM orders WHERE upper(id) = upper($1)`, id)
	if err != nil {
		r.logger.Printf("order repo: delete id=%s error=%v", id, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	r.logger.Printf("order repo: deleted id=%s", id)
	return nil
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var o domain.Order
	var name, email *string
	var status string
	err := row.Scan(
		&o.ID,
		&o.CreatedAt,
		&status,
		&name,
		&email,
		&o.Profile,
		&o.Items,
		&o.TotalCount,
		&o.TotalAmount,
		&o.Currency,
		&o.ProofURL,
	)
	if err != nil {
		return nil, err
	}
	o.Status = domain.OrderStatus(status)
	if name != nil || email != nil {
		o.Customer = &domain.OrderCustomer{}
		if name != nil {
			o.Customer.Name = *name
		}
		if email != nil {
			o.Customer.Email = *email
		}
	}
	if o.Items == nil {
		o.Items = []domain.CartItem{}
	}
	return &o, nil
}
