package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ray/billdesk/internal/domain"
)

// Client talks to the remote persistence API over HTTP with JSON bodies.
// One resource per entity type, each exposing list/add/update/delete.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient creates a client for the given base URL. The bearer token may be
// empty for unauthenticated endpoints. Pass a nil httpClient to get a
// default with a 30 second timeout.
func NewClient(baseURL, token string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    httpClient,
	}
}

// Invoices returns the invoice resource.
func (c *Client) Invoices() *Resource[*domain.Invoice] {
	return &Resource[*domain.Invoice]{
		c:      c,
		path:   "/invoices",
		entity: "invoices",
		id:     func(i *domain.Invoice) string { return i.ID },
	}
}

// Builders returns the builder resource.
func (c *Client) Builders() *Resource[*domain.Builder] {
	return &Resource[*domain.Builder]{
		c:      c,
		path:   "/builders",
		entity: "builders",
		id:     func(b *domain.Builder) string { return b.ID },
	}
}

// Expenses returns the expense resource.
func (c *Client) Expenses() *Resource[*domain.Expense] {
	return &Resource[*domain.Expense]{
		c:      c,
		path:   "/expenses",
		entity: "expenses",
		id:     func(e *domain.Expense) string { return e.ID },
	}
}

// do performs one request/response round trip. in is JSON-encoded when
// non-nil; out is JSON-decoded when non-nil. Every failure comes back as a
// *SyncError tagged with the operation and entity.
func (c *Client) do(ctx context.Context, method, path string, in, out any, op, entity string) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return &SyncError{Op: op, Entity: entity, Err: fmt.Errorf("encode request: %w", err)}
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return &SyncError{Op: op, Entity: entity, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &SyncError{Op: op, Entity: entity, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &SyncError{
			Op:         op,
			Entity:     entity,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%s: %s", resp.Status, bytes.TrimSpace(msg)),
		}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &SyncError{Op: op, Entity: entity, Err: fmt.Errorf("decode response: %w", err)}
		}
	}
	return nil
}
