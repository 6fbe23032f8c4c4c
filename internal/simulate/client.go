package simulate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/okian/momentum/internal/domain/model"
)

// maxErrorBody bounds how much of an error response is kept for messages.
const maxErrorBody = 512

// Client talks to the momentum HTTP API.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// Health checks that the service answers its health endpoint.
func (c *Client) Health(ctx context.Context) error {
	if err := c.do(ctx, http.MethodGet, "/healthz", nil, http.StatusOK, nil); err != nil {
		return fmt.Errorf("%w: %w", ErrUnhealthy, err)
	}
	return nil
}

// Register posts m to the catalog and returns the stored record.
func (c *Client) Register(ctx context.Context, m model.Match) (model.Match, error) {
	var stored model.Match
	err := c.do(ctx, http.MethodPost, "/matches", m, http.StatusCreated, &stored)
	return stored, err
}

// Momentum fetches the momentum output of a registered match.
func (c *Client) Momentum(ctx context.Context, id string) (model.MomentumOutput, error) {
	var out model.MomentumOutput
	err := c.do(ctx, http.MethodGet, "/matches/"+url.PathEscape(id)+"/momentum", nil, http.StatusOK, &out)
	return out, err
}

// Compute posts m for ad-hoc computation.
func (c *Client) Compute(ctx context.Context, m model.Match) (model.MomentumOutput, error) {
	var out model.MomentumOutput
	err := c.do(ctx, http.MethodPost, "/momentum", m, http.StatusOK, &out)
	return out, err
}

func (c *Client) do(ctx context.Context, method, path string, body any, want int, into any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != want {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("%w: %s %s returned %d: %s", ErrUnexpectedCode, method, path, resp.StatusCode, bytes.TrimSpace(msg))
	}
	if into == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(into); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
	}
	return nil
}
