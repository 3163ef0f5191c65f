package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ray/billdesk/internal/domain"
	"github.com/ray/billdesk/internal/mail"
	"github.com/ray/billdesk/internal/payments"
	"github.com/ray/billdesk/internal/pdf"
	"github.com/ray/billdesk/internal/store"
)

var (
	// ErrNotEditable is returned when item edits are attempted on an
	// invoice that has left draft.
	ErrNotEditable = errors.New("invoice can no longer be edited")

	// ErrSentNotDelivered marks the partial-failure case of Send: the
	// status flip was persisted but the email did not go out. The caller
	// should offer a resend, never roll the status back.
	ErrSentNotDelivered = errors.New("invoice was saved as sent but email delivery failed")
)

// Renderer produces the invoice document artifact.
type Renderer interface {
	Render(inv *domain.Invoice) ([]byte, error)
}

// Mailer transmits invoice emails.
type Mailer interface {
	SendInvoice(ctx context.Context, msg mail.Message) (*mail.DeliveryReceipt, error)
}

// PaymentLinker generates hosted payment URLs.
type PaymentLinker interface {
	CreateLink(ctx context.Context, req payments.LinkRequest) (string, error)
}

// InvoiceService manages the invoice lifecycle: creation, item edits, status
// transitions, rendering, and dispatch. Every UI surface goes through this
// interface instead of re-deriving totals or validation locally.
type InvoiceService interface {
	// Create opens a draft invoice billed to the builder, snapshotting the
	// builder's identity and assigning the next invoice number.
	Create(ctx context.Context, builderID string, date, dueDate domain.Date, projectDetails string) (*domain.Invoice, error)

	Get(ctx context.Context, id string) (*domain.Invoice, error)
	List(ctx context.Context, force bool) ([]*domain.Invoice, error)

	// Save persists the invoice after restoring the amount and total
	// invariants on every item.
	Save(ctx context.Context, inv *domain.Invoice) (*domain.Invoice, error)

	// Delete removes the invoice permanently.
	Delete(ctx context.Context, id string) error

	AddItem(ctx context.Context, invoiceID, description string, quantity, rate decimal.Decimal) (*domain.Invoice, error)
	UpdateItem(ctx context.Context, invoiceID, itemID string, description *string, quantity, rate *decimal.Decimal) (*domain.Invoice, error)
	RemoveItem(ctx context.Context, invoiceID, itemID string) (*domain.Invoice, error)

	// MarkSent validates the invoice and moves draft -> sent.
	MarkSent(ctx context.Context, id string) (*domain.Invoice, error)

	// MarkPaid moves draft or sent -> paid. A payment reference is
	// required; datePaid defaults to today when zero.
	MarkPaid(ctx context.Context, id, paymentRef string, datePaid domain.Date) (*domain.Invoice, error)

	// SetCheckNumber records a payment reference without touching status.
	SetCheckNumber(ctx context.Context, id, checkNumber string) (*domain.Invoice, error)

	// AttachPaymentLink requests a hosted payment URL for the invoice
	// total and stores it on the invoice.
	AttachPaymentLink(ctx context.Context, id string) (*domain.Invoice, error)

	// Render produces the document artifact and its filename. The same
	// bytes serve both download and email attachment.
	Render(ctx context.Context, id string) ([]byte, string, error)

	// WritePDF renders the invoice into dir and returns the full path.
	WritePDF(ctx context.Context, id, dir string) (string, error)

	// Send renders the invoice, persists the draft -> sent flip, then
	// dispatches the email with the rendered document attached. If the
	// flip persisted but dispatch failed, the error wraps
	// ErrSentNotDelivered and the returned invoice reflects the persisted
	// sent status.
	Send(ctx context.Context, id string) (*domain.Invoice, *mail.DeliveryReceipt, error)

	// NextInvoiceNumber generates the next free number for the current
	// year, e.g. "INV-2026-007".
	NextInvoiceNumber(ctx context.Context) (string, error)
}

type invoiceService struct {
	store        *store.Store
	renderer     Renderer
	mailer       Mailer
	payments     PaymentLinker
	numberPrefix string
}

// NewInvoiceService creates an invoice service.
func NewInvoiceService(st *store.Store, renderer Renderer, mailer Mailer, linker PaymentLinker, numberPrefix string) InvoiceService {
	if numberPrefix == "" {
		numberPrefix = "INV"
	}
	return &invoiceService{
		store:        st,
		renderer:     renderer,
		mailer:       mailer,
		payments:     linker,
		numberPrefix: numberPrefix,
	}
}

func (s *invoiceService) Create(ctx context.Context, builderID string, date, dueDate domain.Date, projectDetails string) (*domain.Invoice, error) {
	builder, err := s.store.Builders.Get(ctx, builderID)
	if err != nil {
		return nil, fmt.Errorf("resolve builder: %w", err)
	}

	number, err := s.NextInvoiceNumber(ctx)
	if err != nil {
		return nil, err
	}

	inv := domain.NewInvoice(number, builder, date, dueDate)
	inv.ProjectDetails = strings.TrimSpace(projectDetails)

	return s.store.Invoices.Add(ctx, inv)
}

func (s *invoiceService) Get(ctx context.Context, id string) (*domain.Invoice, error) {
	return s.store.Invoices.Get(ctx, id)
}

func (s *invoiceService) List(ctx context.Context, force bool) ([]*domain.Invoice, error) {
	return s.store.Invoices.List(ctx, force)
}

func (s *invoiceService) Save(ctx context.Context, inv *domain.Invoice) (*domain.Invoice, error) {
	for idx := range inv.Items {
		inv.Items[idx].Recompute()
	}
	return s.store.Invoices.Update(ctx, inv)
}

func (s *invoiceService) Delete(ctx context.Context, id string) error {
	return s.store.Invoices.Delete(ctx, id)
}

func (s *invoiceService) AddItem(ctx context.Context, invoiceID, description string, quantity, rate decimal.Decimal) (*domain.Invoice, error) {
	inv, err := s.store.Invoices.Get(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if !inv.CanEdit() {
		return nil, ErrNotEditable
	}

	inv.AddItem(domain.NewInvoiceItem(description, quantity, rate))
	return s.store.Invoices.Update(ctx, inv)
}

func (s *invoiceService) UpdateItem(ctx context.Context, invoiceID, itemID string, description *string, quantity, rate *decimal.Decimal) (*domain.Invoice, error) {
	inv, err := s.store.Invoices.Get(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if !inv.CanEdit() {
		return nil, ErrNotEditable
	}

	item := inv.Item(itemID)
	if item == nil {
		return nil, store.ErrNotFound
	}
	if description != nil {
		item.SetDescription(*description)
	}
	if quantity != nil {
		item.SetQuantity(*quantity)
	}
	if rate != nil {
		item.SetRate(*rate)
	}

	return s.store.Invoices.Update(ctx, inv)
}

func (s *invoiceService) RemoveItem(ctx context.Context, invoiceID, itemID string) (*domain.Invoice, error) {
	inv, err := s.store.Invoices.Get(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if !inv.CanEdit() {
		return nil, ErrNotEditable
	}
	if !inv.RemoveItem(itemID) {
		return nil, store.ErrNotFound
	}
	return s.store.Invoices.Update(ctx, inv)
}

func (s *invoiceService) MarkSent(ctx context.Context, id string) (*domain.Invoice, error) {
	inv, err := s.store.Invoices.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := inv.MarkSent(); err != nil {
		return nil, err
	}
	return s.store.Invoices.Update(ctx, inv)
}

func (s *invoiceService) MarkPaid(ctx context.Context, id, paymentRef string, datePaid domain.Date) (*domain.Invoice, error) {
	inv, err := s.store.Invoices.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := inv.MarkPaid(paymentRef, datePaid); err != nil {
		return nil, err
	}
	return s.store.Invoices.Update(ctx, inv)
}

func (s *invoiceService) SetCheckNumber(ctx context.Context, id, checkNumber string) (*domain.Invoice, error) {
	inv, err := s.store.Invoices.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	// Side-channel edit: legal in any status, never changes status.
	inv.CheckNumber = strings.TrimSpace(checkNumber)
	return s.store.Invoices.Update(ctx, inv)
}

func (s *invoiceService) AttachPaymentLink(ctx context.Context, id string) (*domain.Invoice, error) {
	inv, err := s.store.Invoices.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	url, err := s.payments.CreateLink(ctx, payments.LinkRequest{
		OrderID:     inv.InvoiceNumber,
		Amount:      inv.Total(),
		Name:        inv.BuilderName,
		Description: "Invoice " + inv.InvoiceNumber,
	})
	if err != nil {
		return nil, err
	}

	inv.PaymentLink = url
	return s.store.Invoices.Update(ctx, inv)
}

func (s *invoiceService) Render(ctx context.Context, id string) ([]byte, string, error) {
	inv, err := s.store.Invoices.Get(ctx, id)
	if err != nil {
		return nil, "", err
	}
	artifact, err := s.renderer.Render(inv)
	if err != nil {
		return nil, "", err
	}
	return artifact, pdf.Filename(inv), nil
}

func (s *invoiceService) WritePDF(ctx context.Context, id, dir string) (string, error) {
	artifact, name, err := s.Render(ctx, id)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, artifact, 0644); err != nil {
		return "", fmt.Errorf("write pdf: %w", err)
	}
	return path, nil
}

func (s *invoiceService) Send(ctx context.Context, id string) (*domain.Invoice, *mail.DeliveryReceipt, error) {
	inv, err := s.store.Invoices.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	// Resends of an already-sent invoice are allowed; they still have to
	// pass the same validation as the first send.
	flipped := false
	if inv.Status == domain.InvoiceStatusDraft {
		if err := inv.MarkSent(); err != nil {
			return nil, nil, err
		}
		flipped = true
	} else if err := inv.Validate(); err != nil {
		return nil, nil, err
	}

	artifact, err := s.renderer.Render(inv)
	if err != nil {
		return nil, nil, err
	}

	// Persist the flip before dispatching. Dispatch failure leaves the
	// persisted status alone; the two operations are independent.
	if flipped {
		inv, err = s.store.Invoices.Update(ctx, inv)
		if err != nil {
			return nil, nil, err
		}
	}

	msg := mail.Message{
		To:      inv.BuilderEmail,
		Subject: fmt.Sprintf("Invoice %s", inv.InvoiceNumber),
		Text: fmt.Sprintf("Hi %s,\n\nInvoice %s for $%s is attached.\n\nThank you.",
			inv.BuilderName, inv.InvoiceNumber, inv.Total().StringFixed(2)),
		HTML: fmt.Sprintf("<p>Hi %s,</p><p>Invoice <strong>%s</strong> for <strong>$%s</strong> is attached.</p><p>Thank you.</p>",
			inv.BuilderName, inv.InvoiceNumber, inv.Total().StringFixed(2)),
		Attachment: mail.EncodeAttachment(pdf.Filename(inv), artifact),
	}

	receipt, err := s.mailer.SendInvoice(ctx, msg)
	if err != nil {
		if flipped {
			return inv, nil, fmt.Errorf("%w: %w", ErrSentNotDelivered, err)
		}
		return inv, nil, err
	}
	return inv, receipt, nil
}

func (s *invoiceService) NextInvoiceNumber(ctx context.Context) (string, error) {
	invoices, err := s.store.Invoices.List(ctx, false)
	if err != nil {
		return "", fmt.Errorf("failed to generate invoice number: %w", err)
	}

	year := time.Now().Year()
	prefix := fmt.Sprintf("%s-%d-", s.numberPrefix, year)

	max := 0
	for _, inv := range invoices {
		seq, ok := strings.CutPrefix(inv.InvoiceNumber, prefix)
		if !ok {
			continue
		}
		if n, err := strconv.Atoi(seq); err == nil && n > max {
			max = n
		}
	}
	return fmt.Sprintf("%s%03d", prefix, max+1), nil
}
