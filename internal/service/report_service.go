package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ray/billdesk/internal/domain"
	"github.com/ray/billdesk/internal/store"
)

// ExpenseSummary aggregates expenses over a date range.
type ExpenseSummary struct {
	Total      decimal.Decimal
	ByCategory map[string]decimal.Decimal
}

// ReportService provides the financial aggregations. It only reads; expense
// CRUD goes through the store directly.
type ReportService interface {
	// GetExpenseSummary totals expenses within [start, end] grouped by
	// category. Zero-value bounds are open-ended.
	GetExpenseSummary(ctx context.Context, start, end domain.Date) (*ExpenseSummary, error)

	// GetExpensesByMonth totals expenses per month of the given year.
	GetExpensesByMonth(ctx context.Context, year int) (map[time.Month]decimal.Decimal, error)

	// GetOutstandingTotal sums the totals of sent, unpaid invoices.
	GetOutstandingTotal(ctx context.Context) (decimal.Decimal, error)
}

type reportService struct {
	store *store.Store
}

// NewReportService creates a report service.
func NewReportService(st *store.Store) ReportService {
	return &reportService{store: st}
}

func (s *reportService) GetExpenseSummary(ctx context.Context, start, end domain.Date) (*ExpenseSummary, error) {
	expenses, err := s.store.Expenses.List(ctx, false)
	if err != nil {
		return nil, err
	}

	summary := &ExpenseSummary{
		Total:      decimal.Zero,
		ByCategory: make(map[string]decimal.Decimal),
	}
	for _, e := range expenses {
		// ISO dates compare correctly as strings.
		if !start.IsZero() && e.Date < start {
			continue
		}
		if !end.IsZero() && e.Date > end {
			continue
		}
		summary.Total = summary.Total.Add(e.Amount)
		summary.ByCategory[e.Category] = summary.ByCategory[e.Category].Add(e.Amount)
	}
	return summary, nil
}

func (s *reportService) GetExpensesByMonth(ctx context.Context, year int) (map[time.Month]decimal.Decimal, error) {
	expenses, err := s.store.Expenses.List(ctx, false)
	if err != nil {
		return nil, err
	}

	byMonth := make(map[time.Month]decimal.Decimal)
	for _, e := range expenses {
		t := e.Date.Time()
		if t.IsZero() || t.Year() != year {
			continue
		}
		byMonth[t.Month()] = byMonth[t.Month()].Add(e.Amount)
	}
	return byMonth, nil
}

func (s *reportService) GetOutstandingTotal(ctx context.Context) (decimal.Decimal, error) {
	invoices, err := s.store.Invoices.List(ctx, false)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, inv := range invoices {
		if inv.Status == domain.InvoiceStatusSent {
			total = total.Add(inv.Total())
		}
	}
	return total, nil
}
