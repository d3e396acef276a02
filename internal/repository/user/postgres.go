package user

import (
	"context"
	"errors"
	"io"
	"log"

	"storefront-api/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
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

func (r *postgresRepo) Create(ctx context.Context, u domain.User) (*domain.User, error) {
	const q = `
INSERT INTO users (email, name, password_hash, role)
VALUES ($1, $2, $3, $4)
RETURNING id::text, created_at
`
	res := u
	err := r.pool.QueryRow(ctx, q, u.Email, u.Name, u.PasswordHash, u.Role).Scan(&res.ID, &res.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			r.logger.Printf("user repo: create email=%s duplicate", u.Email)
			return nil, domain.ErrAlreadyExists
		}
		r.logger.Printf("user repo: create email=%s error=%v", u.Email, err)
		return nil, err
	}
	res.Wishlist = []string{}
	r.logger.Printf("user repo: created id=%s email=%s role=%s", res.ID, res.Email, res.Role)
	return &res, nil
}

func (r *postgresRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	const q = `
SELECT id::text, email, name, password_hash, role, created_at
FROM users
WHERE email = $1
`
	return r.getOne(ctx, q, email)
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	const q = `
SELECT id::text, email, name, password_hash, role, created_at
FROM users
WHERE id = $1
`
	return r.getOne(ctx, q, id)
}

func (r *postgresRepo) getOne(ctx context.Context, q string, arg string) (*domain.User, error) {
	var u domain.User
	err := r.pool.QueryRow(ctx, q, arg).Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("user repo: get error=%v", err)
		return nil, err
	}
	wishlist, err := r.ListWishlist(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	u.Wishlist = wishlist
	return &u, nil
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.User, error) {
	const q = `
SELECT id::text, email, name, role, created_at
FROM users
ORDER BY created_at DESC
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Printf("user repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("user repo: list rows error=%v", err)
		return nil, err
	}
	r.logger.Printf("user repo: list count=%d", len(result))
	return result, nil
}

func (r *postgresRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *postgresRepo) ListWishlist(ctx context.Context, userID string) ([]string, error) {
	const q = `
SELECT product_id::text
FROM wishlist_items
WHERE user_id = $1
ORDER BY created_at
`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		r.logger.Printf("user repo: wishlist user_id=%s error=%v", userID, err)
		return nil, err
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *postgresRepo) AddWishlistItem(ctx context.Context, userID, productID string) error {
	const q = `
INSERT INTO wishlist_items (user_id, product_id)
VALUES ($1, $2)
ON CONFLICT (user_id, product_id) DO NOTHING
`
	_, err := r.pool.Exec(ctx, q, userID, productID)
	if err != nil {
		r.logger.Printf("user repo: wishlist add user_id=%s product_id=%s error=%v", userID, productID, err)
	}
	return err
}

func (r *postgresRepo) RemoveWishlistItem(ctx context.Context, userID, productID string) error {
	const q = `
DELETE FROM wishlist_items
WHERE user_id = $1 AND product_id = $2
`
	_, err := r.pool.Exec(ctx, q, userID, productID)
	if err != nil {
		r.logger.Printf("user repo: wishlist remove user_id=%s product_id=%s error=%v", userID, productID, err)
	}
	return err
}
