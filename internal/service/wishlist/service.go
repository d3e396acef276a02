package wishlist

import (
	"context"
	"errors"
	"strings"

	"storefront-api/internal/domain"
)

type Service struct {
	users    userRepo
	products productRepo
}

type userRepo interface {
	ListWishlist(ctx context.Context, userID string) ([]string, error)
	AddWishlistItem(ctx context.Context, userID, productID string) error
	RemoveWishlistItem(ctx context.Context, userID, productID string) error
}

type productRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

func New(users userRepo, products productRepo) *Service {
	return &Service{users: users, products: products}
}

// Toggle flips membership of productID in the user's wishlist and returns
// the resulting id list.
func (s *Service) Toggle(ctx context.Context, userID, productID string) ([]string, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return nil, errors.New("productId required")
	}
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, errors.New("product not found")
		}
		return nil, err
	}

	current, err := s.users.ListWishlist(ctx, userID)
	if err != nil {
		return nil, err
	}
	member := false
	for _, id := range current {
		if id == productID {
			member = true
			break
		}
	}

	if member {
		err = s.users.RemoveWishlistItem(ctx, userID, productID)
	} else {
		err = s.users.AddWishlistItem(ctx, userID, productID)
	}
	if err != nil {
		return nil, err
	}
	return s.users.ListWishlist(ctx, userID)
}

// List returns the full product projections for the user's wishlist.
func (s *Service) List(ctx context.Context, userID string) ([]domain.Product, error) {
	ids, err := s.users.ListWishlist(ctx, userID)
	if err != nil {
		return nil, err
	}
	products := []domain.Product{}
	for _, id := range ids {
		p, err := s.products.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return nil, err
		}
		products = append(products, *p)
	}
	return products, nil
}
