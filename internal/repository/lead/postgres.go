package lead

import (
	"context"
	"errors"
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

const leadSelect = `
SELECT l.id::text, l.user_id::text, l.product_id::text, p.name, l.quantity, l.status,
       l.engraving_text, l.color, l.custom_image_url, l.created_at
FROM leads l
JOIN products p ON p.id = l.product_id
`

func (r *postgresRepo) Create(ctx context.Context, in CreateLeadInput) (*domain.Lead, error) {
	const q = `
INSERT INTO leads (user_id, product_id, quantity, engraving_text, color, custom_image_url)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id::text, status, created_at
`
	lead := domain.Lead{
		UserID:         in.UserID,
		ProductID:      in.ProductID,
		Quantity:       in.Quantity,
		EngravingText:  in.EngravingText,
		Color:          in.Color,
		CustomImageURL: in.CustomImageURL,
	}
	err := r.pool.QueryRow(ctx, q, in.UserID, in.ProductID, in.Quantity, in.EngravingText, in.Color, in.CustomImageURL).
		Scan(&lead.ID, &lead.Status, &lead.CreatedAt)
	if err != nil {
		r.logger.Printf("lead repo: create user_id=%s product_id=%s error=%v", in.UserID, in.ProductID, err)
		return nil, err
	}
	r.logger.Printf("lead repo: created id=%s user_id=%s", lead.ID, lead.UserID)
	return &lead, nil
}

func (r *postgresRepo) ListAll(ctx context.Context) ([]domain.Lead, error) {
	return r.queryMany(ctx, leadSelect+` ORDER BY l.created_at DESC`)
}

func (r *postgresRepo) ListRecent(ctx context.Context, limit int) ([]domain.Lead, error) {
	return r.queryMany(ctx, leadSelect+` ORDER BY l.created_at DESC LIMIT $1`, limit)
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID string) ([]domain.Lead, error) {
	return r.queryMany(ctx, leadSelect+` WHERE l.user_id = $1 ORDER BY l.created_at DESC`, userID)
}

func (r *postgresRepo) queryMany(ctx context.Context, q string, args ...interface{}) ([]domain.Lead, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		r.logger.Printf("lead repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Lead
	for rows.Next() {
		var l domain.Lead
		if err := rows.Scan(&l.ID, &l.UserID, &l.ProductID, &l.ProductName, &l.Quantity, &l.Status,
			&l.EngravingText, &l.Color, &l.CustomImageURL, &l.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, l)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("lead repo: list rows error=%v", err)
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Lead, error) {
	var l domain.Lead
	err := r.pool.QueryRow(ctx, leadSelect+` WHERE l.id = $1`, id).
		Scan(&l.ID, &l.UserID, &l.ProductID, &l.ProductName, &l.Quantity, &l.Status,
			&l.EngravingText, &l.Color, &l.CustomImageURL, &l.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("lead repo: get id=%s error=%v", id, err)
		return nil, err
	}
	return &l, nil
}

func (r *postgresRepo) SetStatus(ctx context.Context, id, status string) (*domain.Lead, error) {
	const q = `UPDATE leads SET status = $2 WHERE id = $1`
	tag, err := r.pool.Exec(ctx, q, id, status)
	if err != nil {
		r.logger.Printf("lead repo: set status id=%s error=%v", id, err)
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, domain.ErrNotFound
	}
	r.logger.Printf("lead repo: status id=%s -> %s", id, status)
	return r.GetByID(ctx, id)
}

func (r *postgresRepo) CountByStatus(ctx context.Context) (map[string]int, error) {
	const q = `SELECT status, COUNT(*) FROM leads GROUP BY status`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}
