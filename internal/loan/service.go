package loan

import (
	"context"
	"time"
)

// Service orchestrates the loan lifecycle: resolving the book, enforcing the
// one-active-loan-per-book rule via the store, and marking returns.
type Service struct {
	repo          Repository
	books         BookResolver
	strictReturns bool
	now           func() time.Time
}

// NewService creates a new loan service. With strictReturns enabled, loans
// already marked returned cannot be mutated again; the default mirrors the
// loose overwrite behavior of the original API.
func NewService(repo Repository, books BookResolver, strictReturns bool) *Service {
	return &Service{
		repo:          repo,
		books:         books,
		strictReturns: strictReturns,
		now:           time.Now,
	}
}

// Create lends the book with the given ISBN to a customer and returns the
// new loan id. Fails with book.ErrNotFound for an unknown ISBN and
// ErrBookAlreadyLoaned when an active loan exists.
func (s *Service) Create(ctx context.Context, isbn, customer, email string) (int64, error) {
	b, err := s.books.GetByISBN(ctx, isbn)
	if err != nil {
		return 0, err
	}

	l := Loan{
		Customer:      customer,
		CustomerEmail: email,
		BookID:        b.ID,
		LoanDate:      s.now(),
	}
	if err := s.repo.Create(ctx, &l); err != nil {
		return 0, err
	}
	return l.ID, nil
}

// Return records the returned flag on a loan.
func (s *Service) Return(ctx context.Context, id int64, returned bool) error {
	l, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if s.strictReturns && l.Returned != nil && *l.Returned {
		return ErrAlreadyReturned
	}
	l.Returned = &returned
	return s.repo.Update(ctx, &l)
}

// GetByID returns a loan by its id.
func (s *Service) GetByID(ctx context.Context, id int64) (Loan, error) {
	return s.repo.GetByID(ctx, id)
}

// Find returns a page of loans matching the query, each enriched with its book.
func (s *Service) Find(ctx context.Context, q Query) ([]WithBook, int, error) {
	loans, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, 0, err
	}

	out := make([]WithBook, 0, len(loans))
	seen := make(map[int64]int) // book id -> index into out of first occurrence
	for _, l := range loans {
		if idx, ok := seen[l.BookID]; ok {
			out = append(out, WithBook{Loan: l, Book: out[idx].Book})
			continue
		}
		b, err := s.books.GetByID(ctx, l.BookID)
		if err != nil {
			return nil, 0, err
		}
		seen[l.BookID] = len(out)
		out = append(out, WithBook{Loan: l, Book: b})
	}
	return out, total, nil
}

// ListOverdue returns active loans whose loan date precedes the cutoff.
func (s *Service) ListOverdue(ctx context.Context, cutoff time.Time) ([]Loan, error) {
	return s.repo.ListOverdue(ctx, cutoff)
}
