package lead

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"storefront-api/internal/domain"
	leadrepo "storefront-api/internal/repository/lead"
)

type stubLeadRepo struct {
	created    *domain.Lead
	createErr  error
	lastCreate leadrepo.CreateLeadInput
	leads      []domain.Lead
	lastLimit  int
	statusLead *domain.Lead
	statusErr  error
	lastStatus string
}

func (s *stubLeadRepo) Create(_ context.Context, in leadrepo.CreateLeadInput) (*domain.Lead, error) {
	s.lastCreate = in
	return s.created, s.createErr
}

func (s *stubLeadRepo) ListAll(_ context.Context) ([]domain.Lead, error) { return s.leads, nil }

func (s *stubLeadRepo) ListRecent(_ context.Context, limit int) ([]domain.Lead, error) {
	s.lastLimit = limit
	return s.leads, nil
}

func (s *stubLeadRepo) ListByUser(_ context.Context, _ string) ([]domain.Lead, error) {
	return s.leads, nil
}

func (s *stubLeadRepo) SetStatus(_ context.Context, _, status string) (*domain.Lead, error) {
	s.lastStatus = status
	return s.statusLead, s.statusErr
}

type stubProductRepo struct {
	product *domain.Product
	err     error
}

func (s *stubProductRepo) GetByID(_ context.Context, _ string) (*domain.Product, error) {
	return s.product, s.err
}

// formFile builds a real multipart.FileHeader the way gin hands one to the
// service.
func formFile(t *testing.T, field, name, content string) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile(field, name)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write([]byte(content)); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	w.Close()

	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if err := req.ParseMultipartForm(1 << 20); err != nil {
		t.Fatalf("parse multipart: %v", err)
	}
	return req.MultipartForm.File[field][0]
}

func TestCreateValidation(t *testing.T) {
	svc := &Service{repo: &stubLeadRepo{}, productRepo: &stubProductRepo{}}

	if _, err := svc.Create(context.Background(), "u1", CreateInput{ProductID: " ", Quantity: 1}); err == nil {
		t.Fatalf("expected productId error")
	}
	if _, err := svc.Create(context.Background(), "u1", CreateInput{ProductID: "p1", Quantity: 0}); err == nil {
		t.Fatalf("expected quantity error")
	}
}

func TestCreateUnknownProduct(t *testing.T) {
	svc := &Service{repo: &stubLeadRepo{}, productRepo: &stubProductRepo{err: domain.ErrNotFound}}
	_, err := svc.Create(context.Background(), "u1", CreateInput{ProductID: "p1", Quantity: 1})
	if err == nil || err.Error() != "product not found" {
		t.Fatalf("expected product not found, got %v", err)
	}
}

func TestCreateHappyPath(t *testing.T) {
	expected := &domain.Lead{ID: "l1", Status: domain.LeadStatusNew}
	repo := &stubLeadRepo{created: expected}
	svc := &Service{
		repo:        repo,
		productRepo: &stubProductRepo{product: &domain.Product{ID: "p1"}},
	}

	got, err := svc.Create(context.Background(), "u1", CreateInput{
		ProductID:     "p1",
		Quantity:      2,
		EngravingText: "  Happy Birthday  ",
		Color:         " red ",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != expected {
		t.Fatalf("unexpected lead: %+v", got)
	}
	if repo.lastCreate.UserID != "u1" || repo.lastCreate.Quantity != 2 {
		t.Fatalf("unexpected create input: %+v", repo.lastCreate)
	}
	if repo.lastCreate.EngravingText != "Happy Birthday" || repo.lastCreate.Color != "red" {
		t.Fatalf("fields not trimmed: %+v", repo.lastCreate)
	}
	if repo.lastCreate.CustomImageURL != "" {
		t.Fatalf("expected no image url, got %q", repo.lastCreate.CustomImageURL)
	}
}

func TestCreateSavesUpload(t *testing.T) {
	dir := t.TempDir()
	repo := &stubLeadRepo{created: &domain.Lead{ID: "l1"}}
	svc := &Service{
		repo:        repo,
		productRepo: &stubProductRepo{product: &domain.Product{ID: "p1"}},
		uploadDir:   dir,
		fileURLHost: "http://localhost:3333",
	}

	_, err := svc.Create(context.Background(), "u1", CreateInput{
		ProductID:   "p1",
		Quantity:    1,
		CustomImage: formFile(t, "customImage", "photo.png", "fake image bytes"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	url := repo.lastCreate.CustomImageURL
	if !strings.HasPrefix(url, "http://localhost:3333/uploads/") {
		t.Fatalf("unexpected image url: %q", url)
	}
	if !strings.HasSuffix(url, ".png") {
		t.Fatalf("extension not preserved: %q", url)
	}

	saved := filepath.Join(dir, filepath.Base(url))
	data, err := os.ReadFile(saved)
	if err != nil {
		t.Fatalf("read saved upload: %v", err)
	}
	if string(data) != "fake image bytes" {
		t.Fatalf("upload content mismatch: %q", data)
	}
}

func TestRecentUsesLimit(t *testing.T) {
	repo := &stubLeadRepo{}
	svc := &Service{repo: repo}

	if _, err := svc.Recent(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastLimit != recentLimit {
		t.Fatalf("expected limit %d, got %d", recentLimit, repo.lastLimit)
	}
}

func TestUpdateStatusValidation(t *testing.T) {
	svc := &Service{repo: &stubLeadRepo{}}
	if _, err := svc.UpdateStatus(context.Background(), "l1", "Shipped"); err == nil {
		t.Fatalf("expected invalid status error")
	}
}

func TestUpdateStatusHappyPath(t *testing.T) {
	expected := &domain.Lead{ID: "l1", Status: domain.LeadStatusContacted}
	repo := &stubLeadRepo{statusLead: expected}
	svc := &Service{repo: repo}

	got, err := svc.UpdateStatus(context.Background(), "l1", " Contacted ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != expected {
		t.Fatalf("unexpected lead: %+v", got)
	}
	if repo.lastStatus != domain.LeadStatusContacted {
		t.Fatalf("status not trimmed: %q", repo.lastStatus)
	}
}

func TestUpdateStatusNotFound(t *testing.T) {
	svc := &Service{repo: &stubLeadRepo{statusErr: domain.ErrNotFound}}
	if _, err := svc.UpdateStatus(context.Background(), "l1", domain.LeadStatusNew); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
