// Package payments wraps the external payment-link provider.
package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

// LinkRequest describes the order a payment link is generated for.
type LinkRequest struct {
	OrderID     string          `json:"orderId"`
	Amount      decimal.Decimal `json:"amount"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
}

// Client calls the payment-link provider endpoint.
type Client struct {
	endpoint string
	token    string
	http     *http.Client
}

// New creates a payments client. Pass a nil httpClient for a default with a
// 30 second timeout.
func New(endpoint, token string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{endpoint: endpoint, token: token, http: httpClient}
}

// CreateLink requests a hosted payment URL for the order.
func (c *Client) CreateLink(ctx context.Context, req LinkRequest) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("encode payment link request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("payment link request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("payment link request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("payment link provider returned %s: %s", resp.Status, bytes.TrimSpace(detail))
	}

	var out struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode payment link response: %w", err)
	}
	if out.URL == "" {
		return "", fmt.Errorf("payment link provider returned an empty url")
	}
	return out.URL, nil
}
