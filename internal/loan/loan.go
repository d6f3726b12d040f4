package loan

import (
	"errors"
	"time"

	"libraryapi/internal/book"
)

// ErrNotFound is returned when a loan is not found.
var ErrNotFound = errors.New("loan not found")

// ErrBookAlreadyLoaned is returned when the book already has an active loan.
var ErrBookAlreadyLoaned = errors.New("book already loaned")

// ErrAlreadyReturned is returned under the strict return policy when a loan
// marked returned is mutated again.
var ErrAlreadyReturned = errors.New("loan already returned")

// Loan records a book lent to a customer. Returned is tri-state: nil means
// the loan is open and no return decision has been recorded yet.
type Loan struct {
	ID            int64     `json:"id"`
	Customer      string    `json:"customer"`
	CustomerEmail string    `json:"customer_email,omitempty"`
	BookID        int64     `json:"book_id"`
	LoanDate      time.Time `json:"loan_date"`
	Returned      *bool     `json:"returned"`
}

// Active reports whether the loan still blocks the book from being lent again.
func (l Loan) Active() bool {
	return l.Returned == nil || !*l.Returned
}

// WithBook pairs a loan with the book it references for presentation.
type WithBook struct {
	Loan
	Book book.Book `json:"book"`
}

// Query defines filters and pagination for listing loans. ISBN matches the
// loaned book exactly, Customer as a case-insensitive substring; non-empty
// fields are combined with OR.
type Query struct {
	ISBN     string
	Customer string
	Limit    int
	Offset   int
}
