package domain

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Expense is a cost entry used only by the reporting aggregations. Category
// is a free-form label expenses are grouped under.
type Expense struct {
	ID       string          `json:"id"`
	Date     Date            `json:"date"`
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

// NewExpense creates an expense entry.
func NewExpense(date Date, category string, amount decimal.Decimal) *Expense {
	return &Expense{
		ID:       uuid.NewString(),
		Date:     date,
		Category: strings.TrimSpace(category),
		Amount:   amount,
	}
}

// Validate reports every missing or malformed field.
func (e *Expense) Validate() error {
	verr := NewValidationError("expense")
	if !e.Date.Valid() {
		verr.Add("date", "must be a valid YYYY-MM-DD date")
	}
	if strings.TrimSpace(e.Category) == "" {
		verr.Add("category", "required")
	}
	if e.Amount.IsNegative() {
		verr.Add("amount", "cannot be negative")
	}
	if verr.HasErrors() {
		return verr
	}
	return nil
}
