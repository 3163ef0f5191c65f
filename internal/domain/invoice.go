package domain

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type InvoiceStatus string

const (
	InvoiceStatusDraft InvoiceStatus = "draft"
	InvoiceStatusSent  InvoiceStatus = "sent"
	InvoiceStatusPaid  InvoiceStatus = "paid"
)

// KnownStatus reports whether s is one of the three lifecycle states.
func KnownStatus(s InvoiceStatus) bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusPaid:
		return true
	}
	return false
}

// InvoiceItem is a single billable row. Amount is derived from Quantity and
// Rate and is never edited independently.
type InvoiceItem struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
	Amount      decimal.Decimal `json:"amount"`
}

// NewInvoiceItem creates an item with its amount already computed.
func NewInvoiceItem(description string, quantity, rate decimal.Decimal) InvoiceItem {
	item := InvoiceItem{
		ID:          uuid.NewString(),
		Description: strings.TrimSpace(description),
		Quantity:    quantity,
		Rate:        rate,
	}
	item.Recompute()
	return item
}

// Recompute restores the Amount = Quantity * Rate invariant.
func (it *InvoiceItem) Recompute() {
	it.Amount = it.Quantity.Mul(it.Rate)
}

// SetQuantity updates the quantity and recomputes the amount.
func (it *InvoiceItem) SetQuantity(q decimal.Decimal) {
	it.Quantity = q
	it.Recompute()
}

// SetRate updates the rate and recomputes the amount.
func (it *InvoiceItem) SetRate(r decimal.Decimal) {
	it.Rate = r
	it.Recompute()
}

// SetDescription updates the description only; the amount is untouched.
func (it *InvoiceItem) SetDescription(d string) {
	it.Description = strings.TrimSpace(d)
}

// Invoice is a billable document issued to a builder. BuilderName and
// BuilderEmail are a snapshot taken at creation time and are not resynced if
// the builder record changes later.
type Invoice struct {
	ID             string        `json:"id"`
	InvoiceNumber  string        `json:"invoice_number"`
	BuilderID      string        `json:"builder_id"`
	BuilderName    string        `json:"builder_name"`
	BuilderEmail   string        `json:"builder_email"`
	ProjectDetails string        `json:"project_details,omitempty"`
	Date           Date          `json:"date"`
	DueDate        Date          `json:"due_date"`
	DatePaid       Date          `json:"date_paid,omitempty"`
	CheckNumber    string        `json:"check_number,omitempty"`
	PaymentLink    string        `json:"payment_link,omitempty"`
	Items          []InvoiceItem `json:"items"`
	Status         InvoiceStatus `json:"status"`
}

// NewInvoice creates a draft invoice billed to the given builder, snapshotting
// the builder's identity onto the invoice.
func NewInvoice(invoiceNumber string, builder *Builder, date, dueDate Date) *Invoice {
	return &Invoice{
		ID:            uuid.NewString(),
		InvoiceNumber: strings.TrimSpace(invoiceNumber),
		BuilderID:     builder.ID,
		BuilderName:   builder.CompanyName,
		BuilderEmail:  builder.Email,
		Date:          date,
		DueDate:       dueDate,
		Items:         make([]InvoiceItem, 0),
		Status:        InvoiceStatusDraft,
	}
}

// AddItem appends an item, preserving insertion order.
func (i *Invoice) AddItem(item InvoiceItem) {
	i.Items = append(i.Items, item)
}

// Item returns a pointer to the item with the given ID, or nil.
func (i *Invoice) Item(itemID string) *InvoiceItem {
	for idx := range i.Items {
		if i.Items[idx].ID == itemID {
			return &i.Items[idx]
		}
	}
	return nil
}

// RemoveItem deletes the item with the given ID. Returns false if absent.
func (i *Invoice) RemoveItem(itemID string) bool {
	for idx := range i.Items {
		if i.Items[idx].ID == itemID {
			i.Items = append(i.Items[:idx], i.Items[idx+1:]...)
			return true
		}
	}
	return false
}

// Total sums the item amounts. An empty invoice totals zero. The total is
// always derived here, never read from a stored field.
func (i *Invoice) Total() decimal.Decimal {
	total := decimal.Zero
	for idx := range i.Items {
		total = total.Add(i.Items[idx].Amount)
	}
	return total
}

// CanEdit returns true if the invoice contents can still be modified.
func (i *Invoice) CanEdit() bool {
	return i.Status == InvoiceStatusDraft
}

// Validate checks the invoice is complete enough to send. Every offending
// field is reported, not just the first.
func (i *Invoice) Validate() error {
	verr := NewValidationError("invoice")

	if strings.TrimSpace(i.InvoiceNumber) == "" {
		verr.Add("invoice_number", "required")
	}
	if i.BuilderID == "" && strings.TrimSpace(i.BuilderName) == "" {
		verr.Add("builder", "required")
	}
	if !i.Date.Valid() {
		verr.Add("date", "must be a valid YYYY-MM-DD date")
	}
	if !i.DueDate.Valid() {
		verr.Add("due_date", "must be a valid YYYY-MM-DD date")
	}

	billable := false
	for idx := range i.Items {
		it := &i.Items[idx]
		if strings.TrimSpace(it.Description) == "" {
			continue
		}
		if it.Quantity.LessThanOrEqual(decimal.Zero) {
			verr.Add("items", "quantity must be greater than zero")
			continue
		}
		if it.Rate.IsNegative() {
			verr.Add("items", "rate cannot be negative")
			continue
		}
		billable = true
	}
	if !billable {
		if _, dup := verr.Fields["items"]; !dup {
			verr.Add("items", "at least one item with a description is required")
		}
	}

	if verr.HasErrors() {
		return verr
	}
	return nil
}

// CanTransition reports whether the status change is legal. Backward moves
// (sent -> draft, paid -> anything) are rejected.
func (i *Invoice) CanTransition(to InvoiceStatus) bool {
	switch i.Status {
	case InvoiceStatusDraft:
		return to == InvoiceStatusSent || to == InvoiceStatusPaid
	case InvoiceStatusSent:
		return to == InvoiceStatusPaid
	case InvoiceStatusPaid:
		return false
	}
	return false
}

// MarkSent moves the invoice from draft to sent. The invoice must pass
// validation first; a failed attempt leaves it unchanged.
func (i *Invoice) MarkSent() error {
	if !i.CanTransition(InvoiceStatusSent) {
		return &TransitionError{From: i.Status, To: InvoiceStatusSent}
	}
	if err := i.Validate(); err != nil {
		return err
	}
	i.Status = InvoiceStatusSent
	return nil
}

// MarkPaid moves the invoice to paid from either draft or sent. A payment
// reference (check number or equivalent) is required; datePaid defaults to
// today when zero.
func (i *Invoice) MarkPaid(paymentRef string, datePaid Date) error {
	if !i.CanTransition(InvoiceStatusPaid) {
		return &TransitionError{From: i.Status, To: InvoiceStatusPaid}
	}
	if strings.TrimSpace(paymentRef) == "" {
		verr := NewValidationError("invoice")
		verr.Add("check_number", "a payment reference is required to mark paid")
		return verr
	}
	if datePaid.IsZero() {
		datePaid = Today()
	} else if !datePaid.Valid() {
		verr := NewValidationError("invoice")
		verr.Add("date_paid", "must be a valid YYYY-MM-DD date")
		return verr
	}
	i.CheckNumber = strings.TrimSpace(paymentRef)
	i.DatePaid = datePaid
	i.Status = InvoiceStatusPaid
	return nil
}
