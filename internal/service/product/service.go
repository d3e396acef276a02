package product

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"storefront-api/internal/domain"
	productrepo "storefront-api/internal/repository/product"
	"github.com/google/uuid"
)

type Service struct {
	repo        productrepo.Repository
	uploadDir   string
	fileURLHost string
}

func New(repo productrepo.Repository, uploadDir, fileURLHost string) *Service {
	return &Service{repo: repo, uploadDir: uploadDir, fileURLHost: fileURLHost}
}

// UpsertInput mirrors the multipart admin product form. Image is optional;
// on update a missing image keeps the stored one.
type UpsertInput struct {
	Name        string
	Description string
	Category    string
	PriceCents  int64
	Currency    string
	InStock     bool
	Image       *multipart.FileHeader
}

func (s *Service) List(ctx context.Context) ([]domain.Product, error) {
	return s.repo.List(ctx)
}

// ListPublic returns the storefront catalog, optionally filtered.
func (s *Service) ListPublic(ctx context.Context, category string, inStock *bool) ([]domain.Product, error) {
	return s.repo.ListPublic(ctx, domain.ProductFilter{
		Category: strings.TrimSpace(category),
		InStock:  inStock,
	})
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, in UpsertInput) (*domain.Product, error) {
	p, err := productFromInput(in)
	if err != nil {
		return nil, err
	}
	if in.Image != nil {
		url, err := s.saveUpload(in.Image)
		if err != nil {
			return nil, fmt.Errorf("save product image: %w", err)
		}
		p.ImageURL = url
	}
	return s.repo.Create(ctx, p)
}

func (s *Service) Update(ctx context.Context, id string, in UpsertInput) (*domain.Product, error) {
	p, err := productFromInput(in)
	if err != nil {
		return nil, err
	}
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p.ID = existing.ID
	if in.Image != nil {
		url, err := s.saveUpload(in.Image)
		if err != nil {
			return nil, fmt.Errorf("save product image: %w", err)
		}
		p.ImageURL = url
	} else {
		p.ImageURL = existing.ImageURL
	}
	return s.repo.Update(ctx, p)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func productFromInput(in UpsertInput) (domain.Product, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return domain.Product{}, errors.New("name required")
	}
	if in.PriceCents < 0 {
		return domain.Product{}, errors.New("price must not be negative")
	}
	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = "INR"
	}
	return domain.Product{
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		Category:    strings.TrimSpace(in.Category),
		PriceCents:  in.PriceCents,
		Currency:    currency,
		InStock:     in.InStock,
	}, nil
}

func (s *Service) saveUpload(fh *multipart.FileHeader) (string, error) {
	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return "", err
	}
	ext := filepath.Ext(fh.Filename)
	name := uuid.NewString() + ext
	dst := filepath.Join(s.uploadDir, name)

	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		os.Remove(dst)
		return "", err
	}
	return s.fileURLHost + "/uploads/" + name, nil
}
