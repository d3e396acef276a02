package query

import (
	"context"

	"storefront-api/internal/domain"
)

type Repository interface {
	Create(ctx context.Context, q domain.Query) (*domain.Query, error)
	List(ctx context.Context) ([]domain.Query, error)
}
