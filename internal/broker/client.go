package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/ogostos/optledger/internal/normalize"
)

const defaultTimeout = 15 * time.Second

// APIError represents a non-2xx response from the brokerage API.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("broker API error %d: %s", e.Status, e.Body)
}

// Client is an HTTP snapshot provider for a brokerage gateway exposing
// portfolio endpoints under /v1/accounts/{id}/.
type Client struct {
	baseURL    string
	apiKey     string
	accountID  string
	httpClient *http.Client
}

// NewClient creates a snapshot client. timeout <= 0 uses the default.
func NewClient(baseURL, apiKey, accountID string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		accountID:  accountID,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// GetPositions fetches the current raw position rows.
func (c *Client) GetPositions(ctx context.Context) ([]normalize.Raw, error) {
	var rows []normalize.Raw
	if err := c.get(ctx, "positions", &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// GetSummary fetches the free-form account summary blob.
func (c *Client) GetSummary(ctx context.Context) (normalize.Raw, error) {
	var blob normalize.Raw
	if err := c.get(ctx, "summary", &blob); err != nil {
		return nil, err
	}
	return blob, nil
}

// GetExecutions fetches recent execution rows.
func (c *Client) GetExecutions(ctx context.Context) ([]normalize.Raw, error) {
	var rows []normalize.Raw
	if err := c.get(ctx, "executions", &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *Client) get(ctx context.Context, resource string, out interface{}) error {
	endpoint := fmt.Sprintf("%s/v1/accounts/%s/%s", c.baseURL, url.PathEscape(c.accountID), resource)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("building %s request: %w", resource, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetching %s: %w", resource, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return fmt.Errorf("reading %s response: %w", resource, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{Status: resp.StatusCode, Body: string(body)}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decoding %s response: %w", resource, err)
	}
	return nil
}
