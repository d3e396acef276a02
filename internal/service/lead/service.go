package lead

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
	leadrepo "storefront-api/internal/repository/lead"
	"github.com/google/uuid"
)

const recentLimit = 5

type Service struct {
	repo        leadRepo
	productRepo productRepo
	uploadDir   string
	fileURLHost string
}

type leadRepo interface {
	Create(ctx context.Context, in leadrepo.CreateLeadInput) (*domain.Lead, error)
	ListAll(ctx context.Context) ([]domain.Lead, error)
	ListRecent(ctx context.Context, limit int) ([]domain.Lead, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Lead, error)
	SetStatus(ctx context.Context, id, status string) (*domain.Lead, error)
}

type productRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

func New(repo leadrepo.Repository, productRepo productRepo, uploadDir, fileURLHost string) *Service {
	return &Service{repo: repo, productRepo: productRepo, uploadDir: uploadDir, fileURLHost: fileURLHost}
}

// CreateInput mirrors the multipart lead form. CustomImage is optional.
type CreateInput struct {
	ProductID     string
	Quantity      int
	EngravingText string
	Color         string
	CustomImage   *multipart.FileHeader
}

func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (*domain.Lead, error) {
	productID := strings.TrimSpace(in.ProductID)
	if productID == "" {
		return nil, errors.New("productId required")
	}
	if in.Quantity <= 0 {
		return nil, errors.New("quantity must be positive")
	}
	if s.productRepo == nil {
		return nil, errors.New("product repository unavailable")
	}
	if _, err := s.productRepo.GetByID(ctx, productID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, errors.New("product not found")
		}
		return nil, err
	}

	imageURL := ""
	if in.CustomImage != nil {
		url, err := s.saveUpload(in.CustomImage)
		if err != nil {
			return nil, fmt.Errorf("save custom image: %w", err)
		}
		imageURL = url
	}

	return s.repo.Create(ctx, leadrepo.CreateLeadInput{
		UserID:         userID,
		ProductID:      productID,
		Quantity:       in.Quantity,
		EngravingText:  strings.TrimSpace(in.EngravingText),
		Color:          strings.TrimSpace(in.Color),
		CustomImageURL: imageURL,
	})
}

func (s *Service) All(ctx context.Context) ([]domain.Lead, error) {
	return s.repo.ListAll(ctx)
}

func (s *Service) Recent(ctx context.Context) ([]domain.Lead, error) {
	return s.repo.ListRecent(ctx, recentLimit)
}

func (s *Service) ByUser(ctx context.Context, userID string) ([]domain.Lead, error) {
	return s.repo.ListByUser(ctx, userID)
}

// UpdateStatus moves a lead through its lifecycle and returns the updated
// lead so callers can notify the owner.
func (s *Service) UpdateStatus(ctx context.Context, id, status string) (*domain.Lead, error) {
	status = strings.TrimSpace(status)
	if !domain.ValidLeadStatus(status) {
		return nil, errors.New("invalid status")
	}
	return s.repo.SetStatus(ctx, id, status)
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
