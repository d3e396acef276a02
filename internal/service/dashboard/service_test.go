package dashboard

import (
	"context"
	"errors"
	"testing"

	"storefront-api/internal/domain"
)

type stubCounter struct {
	n   int
	err error
}

func (s *stubCounter) Count(_ context.Context) (int, error) { return s.n, s.err }

type stubLeadCounter struct {
	byStatus map[string]int
	err      error
}

func (s *stubLeadCounter) CountByStatus(_ context.Context) (map[string]int, error) {
	return s.byStatus, s.err
}

func TestStats(t *testing.T) {
	svc := New(
		&stubCounter{n: 12},
		&stubCounter{n: 40},
		&stubLeadCounter{byStatus: map[string]int{
			domain.LeadStatusNew:       3,
			domain.LeadStatusContacted: 2,
			domain.LeadStatusConverted: 4,
		}},
	)

	got, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.TotalProducts != 12 || got.TotalUsers != 40 {
		t.Fatalf("unexpected totals: %+v", got)
	}
	if got.TotalLeads != 9 {
		t.Fatalf("expected 9 total leads, got %d", got.TotalLeads)
	}
	if got.NewLeads != 3 || got.ConvertedLeads != 4 {
		t.Fatalf("unexpected lead breakdown: %+v", got)
	}
}

func TestStatsError(t *testing.T) {
	svc := New(&stubCounter{err: errors.New("boom")}, &stubCounter{}, &stubLeadCounter{})
	if _, err := svc.Stats(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
}
