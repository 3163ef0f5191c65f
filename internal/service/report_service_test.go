package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ray/billdesk/internal/domain"
)

func (f *fixtures) seedExpense(date domain.Date, category, amount string) {
	e := domain.NewExpense(date, category, decimal.RequireFromString(amount))
	f.expenses.items = append(f.expenses.items, e)
}

func TestGetExpenseSummary_GroupsByCategory(t *testing.T) {
	ctx := context.Background()
	f := newFixtures()
	f.seedExpense("2026-03-10", "materials", "40.25")
	f.seedExpense("2026-03-12", "materials", "10")
	f.seedExpense("2026-03-20", "fuel", "25")
	f.seedExpense("2026-07-01", "fuel", "30") // outside range

	svc := NewReportService(f.store)
	summary, err := svc.GetExpenseSummary(ctx, "2026-03-01", "2026-03-31")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !summary.Total.Equal(decimal.RequireFromString("75.25")) {
		t.Errorf("expected total 75.25, got %s", summary.Total)
	}
	if !summary.ByCategory["materials"].Equal(decimal.RequireFromString("50.25")) {
		t.Errorf("expected materials 50.25, got %s", summary.ByCategory["materials"])
	}
	if !summary.ByCategory["fuel"].Equal(decimal.RequireFromString("25")) {
		t.Errorf("expected fuel 25, got %s", summary.ByCategory["fuel"])
	}
}

func TestGetExpenseSummary_OpenEndedBounds(t *testing.T) {
	ctx := context.Background()
	f := newFixtures()
	f.seedExpense("2025-12-31", "materials", "5")
	f.seedExpense("2026-03-10", "materials", "10")

	svc := NewReportService(f.store)
	summary, err := svc.GetExpenseSummary(ctx, "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !summary.Total.Equal(decimal.RequireFromString("15")) {
		t.Errorf("expected everything counted, got %s", summary.Total)
	}

	summary, err = svc.GetExpenseSummary(ctx, "2026-01-01", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !summary.Total.Equal(decimal.RequireFromString("10")) {
		t.Errorf("expected 10 from 2026 on, got %s", summary.Total)
	}
}

func TestGetExpensesByMonth(t *testing.T) {
	ctx := context.Background()
	f := newFixtures()
	f.seedExpense("2026-01-05", "materials", "10")
	f.seedExpense("2026-01-20", "fuel", "5")
	f.seedExpense("2026-06-01", "materials", "20")
	f.seedExpense("2025-06-01", "materials", "99") // other year

	svc := NewReportService(f.store)
	byMonth, err := svc.GetExpensesByMonth(ctx, 2026)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !byMonth[time.January].Equal(decimal.RequireFromString("15")) {
		t.Errorf("expected January 15, got %s", byMonth[time.January])
	}
	if !byMonth[time.June].Equal(decimal.RequireFromString("20")) {
		t.Errorf("expected June 20, got %s", byMonth[time.June])
	}
	if len(byMonth) != 2 {
		t.Errorf("expected two months, got %v", byMonth)
	}
}

func TestGetOutstandingTotal_CountsOnlySent(t *testing.T) {
	ctx := context.Background()
	f := newFixtures()

	f.seedDraft("INV-2026-001") // stays draft

	sent := f.seedDraft("INV-2026-002")
	sent.Status = domain.InvoiceStatusSent

	paid := f.seedDraft("INV-2026-003")
	paid.Status = domain.InvoiceStatusPaid

	svc := NewReportService(f.store)
	total, err := svc.GetOutstandingTotal(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !total.Equal(decimal.RequireFromString("100")) {
		t.Errorf("expected only the sent invoice counted, got %s", total)
	}
}
