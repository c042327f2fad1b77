// Package mercadona implements the catalog provider against the Mercadona
// online-store API.
package mercadona

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/lista-app/lista/internal/domain"
)

const (
	// DefaultBaseURL is the public Mercadona store API.
	DefaultBaseURL = "https://tienda.mercadona.es/api"

	defaultTimeout = 10 * time.Second
)

// Client is an HTTP client for the Mercadona product API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures the client.
type Option func(*Client)

// WithBaseURL overrides the API base URL, mainly for tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = baseURL }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// productResponse mirrors the subset of the product endpoint payload the
// application keeps as an item snapshot.
type productResponse struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Thumbnail   string `json:"thumbnail"`
	PriceInfo   struct {
		UnitPrice      string  `json:"unit_price"`
		ReferencePrice string  `json:"reference_price"`
		UnitSize       float64 `json:"unit_size"`
		SizeFormat     string  `json:"size_format"`
		IsApprox       bool    `json:"approx_size"`
	} `json:"price_instructions"`
}

// GetProduct fetches a single product by its bare Mercadona id.
// A 404 from the API maps to domain.ErrProductNotFound.
func (c *Client) GetProduct(ctx context.Context, productID string) (*domain.ProductSnapshot, error) {
	endpoint := fmt.Sprintf("%s/products/%s/", c.baseURL, url.PathEscape(productID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build product request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("product request failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, domain.ErrProductNotFound
	default:
		return nil, fmt.Errorf("product request returned status %d", resp.StatusCode)
	}

	var body productResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode product response: %w", err)
	}
	return snapshotOf(body), nil
}

type searchResponse struct {
	Results []productResponse `json:"results"`
}

// SearchProducts runs a free-text product search.
func (c *Client) SearchProducts(ctx context.Context, query string, limit int) ([]domain.ProductSnapshot, error) {
	endpoint := fmt.Sprintf("%s/search?%s", c.baseURL, url.Values{
		"query": {query},
		"limit": {strconv.Itoa(limit)},
	}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build search request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search request returned status %d", resp.StatusCode)
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	out := make([]domain.ProductSnapshot, 0, len(body.Results))
	for _, r := range body.Results {
		if len(out) >= limit {
			break
		}
		out = append(out, *snapshotOf(r))
	}
	return out, nil
}

func snapshotOf(p productResponse) *domain.ProductSnapshot {
	snap := &domain.ProductSnapshot{
		ID:     p.ID,
		Source: domain.CatalogSourceMercadona,
		Name:   p.DisplayName,
	}
	if p.Thumbnail != "" {
		snap.Thumbnail = &p.Thumbnail
	}
	// The API ships prices as decimal strings.
	if price, err := strconv.ParseFloat(p.PriceInfo.UnitPrice, 64); err == nil {
		snap.Price = &price
	}
	if refPrice, err := strconv.ParseFloat(p.PriceInfo.ReferencePrice, 64); err == nil {
		snap.UnitPrice = &refPrice
	}
	if p.PriceInfo.UnitSize > 0 {
		size := p.PriceInfo.UnitSize
		snap.UnitSize = &size
	}
	if p.PriceInfo.SizeFormat != "" {
		format := p.PriceInfo.SizeFormat
		snap.UnitFormat = &format
	}
	approx := p.PriceInfo.IsApprox
	snap.IsApproxSize = &approx
	return snap
}
