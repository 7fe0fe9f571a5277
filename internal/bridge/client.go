// Package bridge is an HTTP client for the local TOA bridge, the service
// that caches contract lookups captured from the TOA web session.
package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// TokenHeader carries the shared secret when the bridge requires one.
const TokenHeader = "x-toa-token"

// DefaultTimeout bounds every request.
const DefaultTimeout = 8 * time.Second

// StatusError is returned when the bridge answers with an HTTP error
// status. Callers treat it as a definitive answer, not a transient fault.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("bridge HTTP %d", e.Code)
	}
	return fmt.Sprintf("bridge HTTP %d: %s", e.Code, e.Body)
}

// Stats is the cache summary reported by /toa/health.
type Stats struct {
	Contracts      int      `json:"contracts"`
	Phones         int      `json:"phones"`
	Port           int      `json:"port"`
	PendingLookups int      `json:"pendingLookups"`
	PendingQueue   []string `json:"pendingQueue"`
}

// Client talks to one bridge instance.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewClient creates a Client for baseURL (e.g. "http://127.0.0.1:8787").
// timeout <= 0 selects DefaultTimeout.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: timeout},
	}
}

// FetchContract performs GET /toa/contract/{contract}. A nil Entry with a
// nil error means the body was valid JSON but not an object.
func (c *Client) FetchContract(ctx context.Context, contract string) (Entry, error) {
	body, err := c.do(ctx, http.MethodGet, "/toa/contract/"+url.PathEscape(contract), nil)
	if err != nil {
		return nil, err
	}

	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, nil
	}
	return Entry(obj).unwrap(), nil
}

// QueueLookup asks the bridge to put contract on the queue the browser
// extension polls. It reports whether the contract was newly queued.
func (c *Client) QueueLookup(ctx context.Context, contract string) (bool, error) {
	payload, err := json.Marshal(map[string]string{"contrato": contract})
	if err != nil {
		return false, fmt.Errorf("marshal request: %w", err)
	}

	body, err := c.do(ctx, http.MethodPost, "/toa/queue-lookup", payload)
	if err != nil {
		return false, err
	}

	var result struct {
		OK     bool `json:"ok"`
		Queued bool `json:"queued"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return false, fmt.Errorf("parse response: %w", err)
	}
	return result.Queued, nil
}

// Health performs GET /toa/health.
func (c *Client) Health(ctx context.Context) (*Stats, error) {
	body, err := c.do(ctx, http.MethodGet, "/toa/health", nil)
	if err != nil {
		return nil, err
	}

	var result struct {
		OK    bool  `json:"ok"`
		Stats Stats `json:"stats"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	if !result.OK {
		return nil, fmt.Errorf("bridge reported not ok")
	}
	return &result.Stats, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set(TokenHeader, c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, &StatusError{Code: resp.StatusCode, Body: truncateBody(body)}
	}
	return body, nil
}

// truncateBody keeps error bodies short enough for a status line.
func truncateBody(body []byte) string {
	const maxLen = 200
	s := strings.TrimSpace(string(body))
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "... (truncated)"
}
