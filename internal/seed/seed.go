package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

type productSeed struct {
	Name        string
	Description string
	Category    string
	PriceCents  int64
	Currency    string
	InStock     bool
}

// Apply inserts an admin account and a small catalog for manual testing.
// It is idempotent: existing rows are left alone.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	if err := ensureAdmin(ctx, pool, "admin@storefront.local", "Admin", "Admin123!"); err != nil {
		return fmt.Errorf("ensure admin: %w", err)
	}

	products := []productSeed{
		{
			Name:        "Engraved Oak Nameplate",
			Description: "Solid oak desk nameplate with custom engraving",
			Category:    "office",
			PriceCents:  149900,
			Currency:    "INR",
			InStock:     true,
		},
		{
			Name:        "Personalized Steel Tumbler",
			Description: "Insulated tumbler with laser-etched monogram",
			Category:    "drinkware",
			PriceCents:  89900,
			Currency:    "INR",
			InStock:     true,
		},
		{
			Name:        "Custom Photo Frame",
			Description: "Walnut frame sized for a 6x8 print",
			Category:    "decor",
			PriceCents:  119900,
			Currency:    "INR",
			InStock:     false,
		},
	}

	for _, p := range products {
		if err := ensureProduct(ctx, pool, p); err != nil {
			return fmt.Errorf("ensure product %s: %w", p.Name, err)
		}
	}

	return nil
}

func ensureAdmin(ctx context.Context, pool *pgxpool.Pool, email, name, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	const q = `
INSERT INTO users (email, name, password_hash, role)
VALUES ($1, $2, $3, 'admin')
ON CONFLICT (email) DO NOTHING
`
	_, err = pool.Exec(ctx, q, email, name, string(hash))
	return err
}

func ensureProduct(ctx context.Context, pool *pgxpool.Pool, p productSeed) error {
	const q = `
INSERT INTO products (name, description, category, price_cents, currency, in_stock)
SELECT $1, $2, $3, $4, $5, $6
WHERE NOT EXISTS (SELECT 1 FROM products WHERE name = $1)
`
	_, err := pool.Exec(ctx, q, p.Name, p.Description, p.Category, p.PriceCents, p.Currency, p.InStock)
	return err
}
