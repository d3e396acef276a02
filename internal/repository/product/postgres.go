package product

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"storefront-api/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

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

const productColumns = `id::text, name, COALESCE(description, ''), category, price_cents, currency, in_stock, image_url, created_at`

func (r *postgresRepo) List(ctx context.Context) ([]domain.Product, error) {
	q := fmt.Sprintf(`SELECT %s FROM products ORDER BY created_at DESC`, productColumns)
	return r.queryMany(ctx, q)
}

func (r *postgresRepo) ListPublic(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	q := fmt.Sprintf(`SELECT %s FROM products`, productColumns)
	var args []interface{}
	where := ""
	if filter.Category != "" {
		args = append(args, filter.Category)
		where = fmt.Sprintf(" WHERE category = $%d", len(args))
	}
	if filter.InStock != nil {
		args = append(args, *filter.InStock)
		if where == "" {
			where = fmt.Sprintf(" WHERE in_stock = $%d", len(args))
		} else {
			where += fmt.Sprintf(" AND in_stock = $%d", len(args))
		}
	}
	q += where + " ORDER BY created_at DESC"
	return r.queryMany(ctx, q, args...)
}

func (r *postgresRepo) queryMany(ctx context.Context, q string, args ...interface{}) ([]domain.Product, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		r.logger.Printf("product repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Category, &p.PriceCents, &p.Currency, &p.InStock, &p.ImageURL, &p.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("product repo: list rows error=%v", err)
		return nil, err
	}
	r.logger.Printf("product repo: list count=%d", len(result))
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	q := fmt.Sprintf(`SELECT %s FROM products WHERE id = $1`, productColumns)
	var p domain.Product
	err := r.pool.QueryRow(ctx, q, id).Scan(&p.ID, &p.Name, &p.Description, &p.Category, &p.PriceCents, &p.Currency, &p.InStock, &p.ImageURL, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Printf("product repo: get id=%s not found", id)
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("product repo: get id=%s error=%v", id, err)
		return nil, err
	}
	return &p, nil
}

func (r *postgresRepo) Create(ctx context.Context, p domain.Product) (*domain.Product, error) {
	const q = `
INSERT INTO products (name, description, category, price_cents, currency, in_stock, image_url)
VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, $7)
RETURNING id::text, created_at
`
	res := p
	err := r.pool.QueryRow(ctx, q, p.Name, p.Description, p.Category, p.PriceCents, p.Currency, p.InStock, p.ImageURL).Scan(&res.ID, &res.CreatedAt)
	if err != nil {
		r.logger.Printf("product repo: create name=%s error=%v", p.Name, err)
		return nil, err
	}
	r.logger.Printf("product repo: created id=%s name=%s", res.ID, res.Name)
	return &res, nil
}

func (r *postgresRepo) Update(ctx context.Context, p domain.Product) (*domain.Product, error) {
	const q = `
UPDATE products
SET name = $2, description = NULLIF($3, ''), category = $4, price_cents = $5, currency = $6, in_stock = $7, image_url = $8
WHERE id = $1
RETURNING created_at
`
	res := p
	err := r.pool.QueryRow(ctx, q, p.ID, p.Name, p.Description, p.Category, p.PriceCents, p.Currency, p.InStock, p.ImageURL).Scan(&res.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("product repo: update id=%s error=%v", p.ID, err)
		return nil, err
	}
	r.logger.Printf("product repo: updated id=%s", p.ID)
	return &res, nil
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM products WHERE id = $1`
	tag, err := r.pool.Exec(ctx, q, id)
	if err != nil {
		r.logger.Printf("product repo: delete id=%s error=%v", id, err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	r.logger.Printf("product repo: deleted id=%s", id)
	return nil
}

func (r *postgresRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
