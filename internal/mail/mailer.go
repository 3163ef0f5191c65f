// Package mail is the dispatch adapter for the external email transport.
// Delivery is independent of invoice persistence: a transport failure never
// touches invoice state, it only comes back as a *DispatchError.
package mail

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ray/billdesk/internal/domain"
)

// DispatchError is an email transport failure, distinguishable from a
// remote-store SyncError so callers can tell "saved but not sent" from
// "not saved at all".
type DispatchError struct {
	StatusCode int
	Err        error
}

func (e *DispatchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("email dispatch failed (HTTP %d): %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("email dispatch failed: %v", e.Err)
}

func (e *DispatchError) Unwrap() error {
	return e.Err
}

// Attachment is a single binary attachment. Data is the base64 payload; a
// data: URI wrapper is tolerated and stripped before transmission.
type Attachment struct {
	Filename string `json:"filename"`
	Data     string `json:"data"`
}

// EncodeAttachment base64-encodes raw bytes into an attachment.
func EncodeAttachment(filename string, raw []byte) *Attachment {
	return &Attachment{
		Filename: filename,
		Data:     base64.StdEncoding.EncodeToString(raw),
	}
}

// Message is one outbound email.
type Message struct {
	To         string
	Subject    string
	Text       string
	HTML       string
	Attachment *Attachment
}

// DeliveryReceipt is the transport's acknowledgement of an accepted send.
type DeliveryReceipt struct {
	To         string    `json:"to"`
	MessageID  string    `json:"message_id"`
	AcceptedAt time.Time `json:"accepted_at"`
}

// Mailer posts messages to an HTTP mail API that accepts
// {to, subject, text, html, attachment:{filename, data}} JSON bodies.
type Mailer struct {
	endpoint string
	from     string
	token    string
	http     *http.Client
}

// New creates a mailer. Pass a nil httpClient for a default with a 30 second
// timeout.
func New(endpoint, from, token string, httpClient *http.Client) *Mailer {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Mailer{endpoint: endpoint, from: from, token: token, http: httpClient}
}

type sendPayload struct {
	To         string      `json:"to"`
	From       string      `json:"from,omitempty"`
	Subject    string      `json:"subject"`
	Text       string      `json:"text,omitempty"`
	HTML       string      `json:"html,omitempty"`
	Attachment *Attachment `json:"attachment,omitempty"`
}

// SendInvoice transmits the message. An invalid recipient is rejected with a
// validation error before anything leaves the process; it is never silently
// dropped.
func (m *Mailer) SendInvoice(ctx context.Context, msg Message) (*DeliveryReceipt, error) {
	if !domain.ValidEmail(msg.To) {
		verr := domain.NewValidationError("email")
		verr.Add("to", "must be a valid email address")
		return nil, verr
	}

	payload := sendPayload{
		To:      strings.TrimSpace(msg.To),
		From:    m.from,
		Subject: msg.Subject,
		Text:    msg.Text,
		HTML:    msg.HTML,
	}
	if msg.Attachment != nil {
		payload.Attachment = &Attachment{
			Filename: msg.Attachment.Filename,
			Data:     stripDataURI(msg.Attachment.Data),
		}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &DispatchError{Err: fmt.Errorf("encode message: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &DispatchError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if m.token != "" {
		req.Header.Set("Authorization", "Bearer "+m.token)
	}

	resp, err := m.http.Do(req)
	if err != nil {
		return nil, &DispatchError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &DispatchError{
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%s: %s", resp.Status, bytes.TrimSpace(detail)),
		}
	}

	receipt := &DeliveryReceipt{To: payload.To}
	// Receipt body is best-effort; an accepted send with an unreadable body
	// is still a delivery.
	_ = json.NewDecoder(resp.Body).Decode(receipt)
	return receipt, nil
}

// stripDataURI removes a "data:<mediatype>;base64," wrapper, leaving only
// the raw encoded payload the transport expects.
func stripDataURI(s string) string {
	if !strings.HasPrefix(s, "data:") {
		return s
	}
	if idx := strings.Index(s, "base64,"); idx >= 0 {
		return s[idx+len("base64,"):]
	}
	if idx := strings.Index(s, ","); idx >= 0 {
		return s[idx+1:]
	}
	return s
}
