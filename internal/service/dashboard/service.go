package dashboard

import (
	"context"

	"storefront-api/internal/domain"
)

type Service struct {
	products productCounter
	users    userCounter
	leads    leadCounter
}

type productCounter interface {
	Count(ctx context.Context) (int, error)
}

type userCounter interface {
	Count(ctx context.Context) (int, error)
}

type leadCounter interface {
	CountByStatus(ctx context.Context) (map[string]int, error)
}

func New(products productCounter, users userCounter, leads leadCounter) *Service {
	return &Service{products: products, users: users, leads: leads}
}

func (s *Service) Stats(ctx context.Context) (*domain.DashboardStats, error) {
	products, err := s.products.Count(ctx)
	if err != nil {
		return nil, err
	}
	users, err := s.users.Count(ctx)
	if err != nil {
		return nil, err
	}
	byStatus, err := s.leads.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	total := 0
	for _, n := range byStatus {
		total += n
	}
	return &domain.DashboardStats{
		TotalProducts:  products,
		TotalUsers:     users,
		TotalLeads:     total,
		NewLeads:       byStatus[domain.LeadStatusNew],
		ConvertedLeads: byStatus[domain.LeadStatusConverted],
	}, nil
}
