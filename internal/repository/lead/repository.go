package lead

import (
	"context"

	"storefront-api/internal/domain"
)

// CreateLeadInput carries fields needed to insert a lead row.
type CreateLeadInput struct {
	UserID         string
	ProductID      string
	Quantity       int
	EngravingText  string
	Color          string
	CustomImageURL string
}

type Repository interface {
	Create(ctx context.Context, in CreateLeadInput) (*domain.Lead, error)
	ListAll(ctx context.Context) ([]domain.Lead, error)
	ListRecent(ctx context.Context, limit int) ([]domain.Lead, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Lead, error)
	GetByID(ctx context.Context, id string) (*domain.Lead, error)
	SetStatus(ctx context.Context, id, status string) (*domain.Lead, error)
	CountByStatus(ctx context.Context) (map[string]int, error)
}
