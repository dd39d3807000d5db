// Package client is a typed HTTP client for the race-entry API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sailsizzle/regatta/internal/domain/types"
)

// DefaultTimeout bounds a single request.
const DefaultTimeout = 30 * time.Second

// Client talks to a running regatta server.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// New returns a client for the server at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Submit posts one entry. A duplicate submission ID is not an error; check
// EntryReceipt.Duplicate.
func (c *Client) Submit(ctx context.Context, req types.EntryRequest) (types.EntryReceipt, error) {
	var receipt types.EntryReceipt
	err := c.do(ctx, http.MethodPost, "/entries", req, &receipt)
	return receipt, err
}

// Weekly fetches the weekly leaderboard.
func (c *Client) Weekly(ctx context.Context) (types.WeeklyBoard, error) {
	var board types.WeeklyBoard
	err := c.do(ctx, http.MethodGet, "/leaderboard/weekly", nil, &board)
	return board, err
}

// Annual fetches the annual standings.
func (c *Client) Annual(ctx context.Context) (types.AnnualBoard, error) {
	var board types.AnnualBoard
	err := c.do(ctx, http.MethodGet, "/leaderboard/annual", nil, &board)
	return board, err
}

// BoatTypes fetches the Portsmouth table.
func (c *Client) BoatTypes(ctx context.Context) ([]types.BoatType, error) {
	var boats []types.BoatType
	err := c.do(ctx, http.MethodGet, "/boat-types", nil, &boats)
	return boats, err
}

// Scoring fetches the scoring rules.
func (c *Client) Scoring(ctx context.Context) (types.ScoringRules, error) {
	var rules types.ScoringRules
	err := c.do(ctx, http.MethodGet, "/scoring", nil, &rules)
	return rules, err
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
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
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrRequest, method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading body: %w", ErrRequest, err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		apiErr := &APIError{Status: resp.StatusCode, Code: "http_" + http.StatusText(resp.StatusCode)}
		var er types.ErrorResponse
		if json.Unmarshal(data, &er) == nil && er.Code != "" {
			apiErr.Code, apiErr.Message, apiErr.Field = er.Code, er.Message, er.Field
		} else {
			apiErr.Message = strings.TrimSpace(string(data))
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: decoding %s: %w", ErrResponse, path, err)
	}
	return nil
}
