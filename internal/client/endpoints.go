package client

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"storefront-api/internal/domain"
)

// LoginResult is the payload returned by the login endpoint.
type LoginResult struct {
	User      domain.User `json:"user"`
	Token     string      `json:"token"`
	ExpiresIn int         `json:"expiresIn"`
}

// RegisterInput mirrors the register form.
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *Client) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	var out domain.User
	if err := c.doJSON(ctx, http.MethodPost, "/users/register", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	body := map[string]string{"email": email, "password": password}
	var out LoginResult
	if err := c.doJSON(ctx, http.MethodPost, "/users/login", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPost, "/users/logout", nil, nil)
}

func (c *Client) ListUsers(ctx context.Context) ([]domain.User, error) {
	var out []domain.User
	if err := c.doJSON(ctx, http.MethodGet, "/users", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ProductInput mirrors the admin product form. Image, when non-nil,
// becomes the multipart file attachment.
type ProductInput struct {
	Name        string
	Description string
	Category    string
	PriceCents  int64
	Currency    string
	InStock     bool
	Image       io.Reader
	ImageName   string
}

func productForm(in ProductInput) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fields := map[string]string{
		"name":        in.Name,
		"description": in.Description,
		"category":    in.Category,
		"priceCents":  strconv.FormatInt(in.PriceCents, 10),
		"currency":    in.Currency,
		"inStock":     strconv.FormatBool(in.InStock),
	}
	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return nil, "", err
		}
	}
	if in.Image != nil {
		name := in.ImageName
		if name == "" {
			name = "product-image"
		}
		part, err := w.CreateFormFile("image", name)
		if err != nil {
			return nil, "", err
		}
		if _, err := io.Copy(part, in.Image); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var out []domain.Product
	if err := c.doJSON(ctx, http.MethodGet, "/products", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateProduct(ctx context.Context, in ProductInput) (*domain.Product, error) {
	buf, contentType, err := productForm(in)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/products", buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)

	var out domain.Product
	if err := c.send(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	var out domain.Product
	if err := c.doJSON(ctx, http.MethodGet, "/products/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateProduct(ctx context.Context, id string, in ProductInput) (*domain.Product, error) {
	buf, contentType, err := productForm(in)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+"/products/"+url.PathEscape(id), buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)

	var out domain.Product
	if err := c.send(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/products/"+url.PathEscape(id), nil, nil)
}

// PublicProducts lists the storefront catalog. Filters are optional.
func (c *Client) PublicProducts(ctx context.Context, category string, inStock *bool) ([]domain.Product, error) {
	params := url.Values{}
	if category != "" {
		params.Set("category", category)
	}
	if inStock != nil {
		params.Set("inStock", strconv.FormatBool(*inStock))
	}
	path := "/products/public"
	if encoded := params.Encode(); encoded != "" {
		path += "?" + encoded
	}
	var out []domain.Product
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) PublicProduct(ctx context.Context, id string) (*domain.Product, error) {
	var out domain.Product
	if err := c.doJSON(ctx, http.MethodGet, "/products/public/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DashboardStats(ctx context.Context) (*domain.DashboardStats, error) {
	var out domain.DashboardStats
	if err := c.doJSON(ctx, http.MethodGet, "/dashboard/stats", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RecentLeads(ctx context.Context) ([]domain.Lead, error) {
	var out []domain.Lead
	if err := c.doJSON(ctx, http.MethodGet, "/leads/recent", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AllLeads(ctx context.Context) ([]domain.Lead, error) {
	var out []domain.Lead
	if err := c.doJSON(ctx, http.MethodGet, "/leads/all", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) MyRequests(ctx context.Context) ([]domain.Lead, error) {
	var out []domain.Lead
	if err := c.doJSON(ctx, http.MethodGet, "/leads/my-requests", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// LeadInput mirrors the customization request form. CustomImage, when
// non-nil, becomes the multipart file attachment.
type LeadInput struct {
	ProductID     string
	Quantity      int
	EngravingText string
	Color         string
	CustomImage   io.Reader
	ImageName     string
}

func (c *Client) CreateLead(ctx context.Context, in LeadInput) (*domain.Lead, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fields := map[string]string{
		"productId": in.ProductID,
		"quantity":  strconv.Itoa(in.Quantity),
	}
	if in.EngravingText != "" {
		fields["engravingText"] = in.EngravingText
	}
	if in.Color != "" {
		fields["color"] = in.Color
	}
	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return nil, err
		}
	}
	if in.CustomImage != nil {
		name := in.ImageName
		if name == "" {
			name = "custom-image"
		}
		part, err := w.CreateFormFile("customImage", name)
		if err != nil {
			return nil, err
		}
		if _, err := io.Copy(part, in.CustomImage); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/leads", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	var out domain.Lead
	if err := c.send(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateLeadStatus(ctx context.Context, leadID, status string) (*domain.Lead, error) {
	body := map[string]string{"status": status}
	var out domain.Lead
	if err := c.doJSON(ctx, http.MethodPut, "/leads/"+url.PathEscape(leadID)+"/status", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ToggleWishlist flips membership and returns the resulting id list.
func (c *Client) ToggleWishlist(ctx context.Context, productID string) ([]string, error) {
	body := map[string]string{"productId": productID}
	var out struct {
		Wishlist []string `json:"wishlist"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/wishlist/toggle", body, &out); err != nil {
		return nil, err
	}
	return out.Wishlist, nil
}

func (c *Client) Wishlist(ctx context.Context) ([]domain.Product, error) {
	var out []domain.Product
	if err := c.doJSON(ctx, http.MethodGet, "/wishlist", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// QueryInput mirrors the contact form.
type QueryInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

func (c *Client) SubmitQuery(ctx context.Context, in QueryInput) error {
	return c.doJSON(ctx, http.MethodPost, "/query", in, nil)
}

// NotificationTicket fetches a short-lived push-channel ticket.
func (c *Client) NotificationTicket(ctx context.Context) (string, error) {
	var out struct {
		Ticket string `json:"ticket"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/notifications/ticket", nil, &out); err != nil {
		return "", err
	}
	return out.Ticket, nil
}
