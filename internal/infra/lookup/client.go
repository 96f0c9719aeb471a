package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"rocketcart/internal/domain/model"
	"rocketcart/internal/metrics"
	repo "rocketcart/internal/repository"
)

// StatusError は2xx以外の応答。
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("lookup %s: unexpected status %d", e.URL, e.Code)
}

// 404 は repo.ErrNotFound として扱える
func (e *StatusError) Is(target error) bool {
	return target == repo.ErrNotFound && e.Code == http.StatusNotFound
}

// Client は在庫/商品APIを叩く（GET {base}/stock/{id}, GET {base}/products/{id}）。
type Client struct {
	baseURL string
	http    *http.Client
	metrics *metrics.Metrics
}

var _ repo.CatalogClient = (*Client)(nil)

func NewClient(baseURL string, timeout time.Duration, m *metrics.Metrics) *Client {
	return NewClientWithHTTP(baseURL, &http.Client{Timeout: timeout}, m)
}

func NewClientWithHTTP(baseURL string, hc *http.Client, m *metrics.Metrics) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    hc,
		metrics: m,
	}
}

func (c *Client) GetStock(ctx context.Context, productID int64) (model.Stock, error) {
	var s model.Stock
	if err := c.getJSON(ctx, "stock", productID, &s); err != nil {
		return model.Stock{}, err
	}
	if s.ID == 0 {
		s.ID = productID
	}
	return s, nil
}

func (c *Client) GetProduct(ctx context.Context, productID int64) (model.CatalogProduct, error) {
	var p model.CatalogProduct
	if err := c.getJSON(ctx, "products", productID, &p); err != nil {
		return model.CatalogProduct{}, err
	}
	if p.ID == 0 {
		p.ID = productID
	}
	return p, nil
}

func (c *Client) getJSON(ctx context.Context, resource string, id int64, out interface{}) (err error) {
	start := time.Now()
	defer func() { c.metrics.ObserveLookup(resource, start, err) }()

	url := c.baseURL + "/" + resource + "/" + strconv.FormatInt(id, 10)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build lookup request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("lookup %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &StatusError{Code: resp.StatusCode, URL: url}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}
