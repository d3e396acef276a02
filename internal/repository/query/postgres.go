package query

import (
	"context"

	"storefront-api/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Create(ctx context.Context, in domain.Query) (*domain.Query, error) {
	const q = `
INSERT INTO queries (name, email, message)
VALUES ($1, $2, $3)
RETURNING id::text, created_at
`
	res := in
	if err := r.pool.QueryRow(ctx, q, in.Name, in.Email, in.Message).Scan(&res.ID, &res.CreatedAt); err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Query, error) {
	const q = `
SELECT id::text, name, email, message, created_at
FROM queries
ORDER BY created_at DESC
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Query
	for rows.Next() {
		var item domain.Query
		if err := rows.Scan(&item.ID, &item.Name, &item.Email, &item.Message, &item.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, rows.Err()
}
