package product

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
)

type stubRepo struct {
	list       []domain.Product
	listErr    error
	lastFilter domain.ProductFilter
	byID       *domain.Product
	byIDErr    error
	created    *domain.Product
	createErr  error
	lastUpsert domain.Product
	updated    *domain.Product
	deleteErr  error
	deletedID  string
}

func (s *stubRepo) List(_ context.Context) ([]domain.Product, error) {
	return s.list, s.listErr
}

func (s *stubRepo) ListPublic(_ context.Context, f domain.ProductFilter) ([]domain.Product, error) {
	s.lastFilter = f
	return s.list, s.listErr
}

func (s *stubRepo) GetByID(_ context.Context, _ string) (*domain.Product, error) {
	return s.byID, s.byIDErr
}

func (s *stubRepo) Create(_ context.Context, p domain.Product) (*domain.Product, error) {
	s.lastUpsert = p
	return s.created, s.createErr
}

func (s *stubRepo) Update(_ context.Context, p domain.Product) (*domain.Product, error) {
	s.lastUpsert = p
	return s.updated, nil
}

func (s *stubRepo) Delete(_ context.Context, id string) error {
	s.deletedID = id
	return s.deleteErr
}

func (s *stubRepo) Count(_ context.Context) (int, error) { return len(s.list), nil }

func newTestService(t *testing.T, repo *stubRepo) *Service {
	t.Helper()
	return New(repo, t.TempDir(), "http://localhost:3333")
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
	svc := newTestService(t, &stubRepo{})

	if _, err := svc.Create(context.Background(), UpsertInput{Name: "  "}); err == nil {
		t.Fatalf("expected name validation error")
	}
	if _, err := svc.Create(context.Background(), UpsertInput{Name: "Mug", PriceCents: -1}); err == nil {
		t.Fatalf("expected price validation error")
	}
}

func TestCreateDefaultsCurrency(t *testing.T) {
	repo := &stubRepo{created: &domain.Product{ID: "p1"}}
	svc := newTestService(t, repo)

	if _, err := svc.Create(context.Background(), UpsertInput{Name: " Mug ", PriceCents: 500}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastUpsert.Currency != "INR" {
		t.Fatalf("expected INR default, got %q", repo.lastUpsert.Currency)
	}
	if repo.lastUpsert.Name != "Mug" {
		t.Fatalf("name not trimmed: %q", repo.lastUpsert.Name)
	}
}

func TestCreateUppercasesCurrency(t *testing.T) {
	repo := &stubRepo{created: &domain.Product{ID: "p1"}}
	svc := newTestService(t, repo)

	if _, err := svc.Create(context.Background(), UpsertInput{Name: "Mug", Currency: "usd"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastUpsert.Currency != "USD" {
		t.Fatalf("expected USD, got %q", repo.lastUpsert.Currency)
	}
}

func TestCreateSavesUpload(t *testing.T) {
	dir := t.TempDir()
	repo := &stubRepo{created: &domain.Product{ID: "p1"}}
	svc := New(repo, dir, "http://localhost:3333")

	_, err := svc.Create(context.Background(), UpsertInput{
		Name:  "Mug",
		Image: formFile(t, "image", "mug.png", "fake image bytes"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	url := repo.lastUpsert.ImageURL
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

func TestUpdatePreservesImage(t *testing.T) {
	existing := &domain.Product{ID: "p1", ImageURL: "http://host/uploads/old.png"}
	repo := &stubRepo{byID: existing, updated: existing}
	svc := newTestService(t, repo)

	if _, err := svc.Update(context.Background(), "p1", UpsertInput{Name: "Mug"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastUpsert.ImageURL != existing.ImageURL {
		t.Fatalf("image url not preserved: %q", repo.lastUpsert.ImageURL)
	}
	if repo.lastUpsert.ID != "p1" {
		t.Fatalf("id not carried over: %q", repo.lastUpsert.ID)
	}
}

func TestUpdateReplacesImageWhenGiven(t *testing.T) {
	existing := &domain.Product{ID: "p1", ImageURL: "http://host/uploads/old.png"}
	repo := &stubRepo{byID: existing, updated: existing}
	svc := newTestService(t, repo)

	if _, err := svc.Update(context.Background(), "p1", UpsertInput{
		Name:  "Mug",
		Image: formFile(t, "image", "new.png", "replacement bytes"),
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	url := repo.lastUpsert.ImageURL
	if url == existing.ImageURL {
		t.Fatalf("image url not replaced: %q", url)
	}
	if !strings.HasPrefix(url, "http://localhost:3333/uploads/") || !strings.HasSuffix(url, ".png") {
		t.Fatalf("unexpected image url: %q", url)
	}
}

func TestUpdateMissingProduct(t *testing.T) {
	svc := newTestService(t, &stubRepo{byIDErr: domain.ErrNotFound})
	if _, err := svc.Update(context.Background(), "p1", UpsertInput{Name: "Mug"}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListPublicFilter(t *testing.T) {
	repo := &stubRepo{}
	svc := newTestService(t, repo)
	inStock := true

	if _, err := svc.ListPublic(context.Background(), " gifts ", &inStock); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastFilter.Category != "gifts" {
		t.Fatalf("category not trimmed: %q", repo.lastFilter.Category)
	}
	if repo.lastFilter.InStock == nil || !*repo.lastFilter.InStock {
		t.Fatalf("in stock filter not passed through")
	}
}
