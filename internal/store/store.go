// Package store is the synchronization layer between the in-memory session
// cache and the remote persistence API. It is the sole writer of the
// canonical remote copy; the cached collections live only as long as the
// session that created them.
package store

import (
	"github.com/ray/billdesk/internal/domain"
	"github.com/ray/billdesk/internal/remote"
)

// Store bundles the session's cached collections. It is passed explicitly to
// whatever needs cached state; there is no package-level "has this loaded"
// flag.
type Store struct {
	Invoices *Collection[*domain.Invoice]
	Builders *Collection[*domain.Builder]
	Expenses *Collection[*domain.Expense]
}

// New creates cold collections over the remote client. Nothing is fetched
// until the first read.
func New(client *remote.Client) *Store {
	return &Store{
		Invoices: NewCollection(
			client.Invoices(),
			func(i *domain.Invoice) string { return i.ID },
			cloneInvoice,
		),
		Builders: NewCollection(
			client.Builders(),
			func(b *domain.Builder) string { return b.ID },
			cloneBuilder,
		),
		Expenses: NewCollection(
			client.Expenses(),
			func(e *domain.Expense) string { return e.ID },
			cloneExpense,
		),
	}
}

// WaitBackground flushes pending background revalidations on every
// collection. Called at shutdown so in-flight fetches finish cleanly.
func (s *Store) WaitBackground() {
	s.Invoices.WaitBackground()
	s.Builders.WaitBackground()
	s.Expenses.WaitBackground()
}

func cloneInvoice(i *domain.Invoice) *domain.Invoice {
	cp := *i
	cp.Items = make([]domain.InvoiceItem, len(i.Items))
	copy(cp.Items, i.Items)
	return &cp
}

func cloneBuilder(b *domain.Builder) *domain.Builder {
	cp := *b
	return &cp
}

func cloneExpense(e *domain.Expense) *domain.Expense {
	cp := *e
	return &cp
}
