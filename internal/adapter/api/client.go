package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rl1809/cart-manager/internal/core/domain"
)

// Client queries the shop REST api for products and stock:
//
//	GET {base}/products/{id}
//	GET {base}/stock/{id}
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse api url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("api url %q must be absolute", baseURL)
	}
	return &Client{
		baseURL:    u,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

func (c *Client) GetProduct(ctx context.Context, productID int64) (*domain.Product, error) {
	var p domain.Product
	if err := c.get(ctx, "products", productID, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) GetStock(ctx context.Context, productID int64) (*domain.Stock, error) {
	var s domain.Stock
	if err := c.get(ctx, "stock", productID, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) get(ctx context.Context, resource string, productID int64, out any) error {
	endpoint := c.baseURL.JoinPath(resource, strconv.FormatInt(productID, 10))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("get %s/%d: %w", resource, productID, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return domain.ErrProductNotFound
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("get %s/%d: unexpected status %d", resource, productID, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s/%d: %w", resource, productID, err)
	}
	return nil
}
