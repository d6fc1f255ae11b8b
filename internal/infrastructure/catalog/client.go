// Package catalog reads the external pharmacy catalog used to seed the store.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// maxResponseSize caps the catalog document (10MB)
const maxResponseSize = 10 * 1024 * 1024

var (
	// ErrNotConfigured is returned when no catalog address is set
	ErrNotConfigured = errors.New("catalog: pharmacy api configuration not found")
	// ErrUnavailable wraps transport failures and non-2xx answers
	ErrUnavailable = errors.New("catalog: pharmacy api unavailable")
	// ErrInvalidResponse is returned when the document cannot be decoded
	ErrInvalidResponse = errors.New("catalog: invalid pharmacy api response")
)

// Client fetches the catalog document with a single GET.
type Client struct {
	url        string
	httpClient *http.Client
}

// NewClient creates a catalog client. A zero timeout means 30 seconds.
func NewClient(url string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		url: url,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// Fetch GETs the catalog and decodes the JSON body into dst.
func (c *Client) Fetch(ctx context.Context, dst any) error {
	if c.url == "" {
		return ErrNotConfigured
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return fmt.Errorf("catalog: failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: HTTP %d", ErrUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("%w: failed to read response: %v", ErrUnavailable, err)
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return nil
}
