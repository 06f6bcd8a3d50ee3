package services

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/adyen/storefront-e2e/internal/models"
)

// StorefrontClient talks to the storefront's JSON API for fixture management
type StorefrontClient interface {
	Seed(ctx context.Context) (*SeedResponse, error)
	Login(ctx context.Context, cred models.Credential) (*LoginResponse, error)
	ListProducts(ctx context.Context) ([]Product, error)
	ArchiveProduct(ctx context.Context, id string) error
}

// HTTPStorefrontClient implements StorefrontClient using resty. The client
// keeps a cookie jar, so a successful Login authenticates later calls.
type HTTPStorefrontClient struct {
	http *resty.Client
}

// NewStorefrontClient creates a client for the storefront at baseURL
func NewStorefrontClient(baseURL string, timeout time.Duration) StorefrontClient {
	return &HTTPStorefrontClient{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(timeout).
			SetHeader("Accept", "application/json").
			SetHeader("Content-Type", "application/json"),
	}
}

// SeedResponse is returned by GET /api/seed
type SeedResponse struct {
	Success bool       `json:"success"`
	Message string     `json:"message"`
	Error   string     `json:"error"`
	Counts  SeedCounts `json:"counts"`
}

// SeedCounts reports what the seed endpoint created
type SeedCounts struct {
	Products int `json:"products"`
	Users    int `json:"users"`
	Orders   int `json:"orders"`
}

// LoginRequest is the body of POST /api/auth/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is returned by POST /api/auth/login
type LoginResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	User    struct {
		Email string `json:"email"`
		Role  string `json:"role"`
	} `json:"user"`
}

// Product is a catalogue entry as listed by GET /api/products
type Product struct {
	ID       string  `json:"_id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	Stock    int     `json:"stock"`
	IsActive *bool   `json:"isActive,omitempty"`
}

// Active reports whether the product is listed; products predating archiving carry no flag
func (p Product) Active() bool {
	return p.IsActive == nil || *p.IsActive
}

type productsResponse struct {
	Success bool      `json:"success"`
	Error   string    `json:"error"`
	Data    []Product `json:"data"`
}

type mutationResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

// APIError is a non-successful storefront API answer
type APIError struct {
	Method  string
	Path    string
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.Status)
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Status, e.Message)
}

// Seed wipes the store and loads the seed accounts, products and orders
func (c *HTTPStorefrontClient) Seed(ctx context.Context) (*SeedResponse, error) {
	var out SeedResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		SetError(&out).
		Get("/api/seed")
	if err != nil {
		return nil, fmt.Errorf("failed to seed storefront: %w", err)
	}
	if err := check(resp, out.Success, out.Error); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login authenticates cred and stores the session cookie in the client's jar
func (c *HTTPStorefrontClient) Login(ctx context.Context, cred models.Credential) (*LoginResponse, error) {
	var out LoginResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(LoginRequest{Email: cred.Email, Password: cred.Password}).
		SetResult(&out).
		SetError(&out).
		Post("/api/auth/login")
	if err != nil {
		return nil, fmt.Errorf("failed to log in as %s: %w", cred.Email, err)
	}
	if err := check(resp, out.Success, out.Error); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListProducts returns the whole catalogue including archived products
func (c *HTTPStorefrontClient) ListProducts(ctx context.Context) ([]Product, error) {
	var out productsResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		SetError(&out).
		Get("/api/products")
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	if err := check(resp, out.Success, out.Error); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// ArchiveProduct soft-deletes a product, the same call the admin Expunge button makes
func (c *HTTPStorefrontClient) ArchiveProduct(ctx context.Context, id string) error {
	var out mutationResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("id", id).
		SetResult(&out).
		SetError(&out).
		Delete("/api/products/{id}")
	if err != nil {
		return fmt.Errorf("failed to archive product %s: %w", id, err)
	}
	return check(resp, out.Success, out.Error)
}

func check(resp *resty.Response, success bool, message string) error {
	if resp.IsSuccess() && success {
		return nil
	}
	status := resp.StatusCode()
	if status == 0 {
		status = http.StatusInternalServerError
	}
	return &APIError{
		Method:  resp.Request.Method,
		Path:    resp.Request.URL,
		Status:  status,
		Message: message,
	}
}
