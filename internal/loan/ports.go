package loan

import (
	"context"
	"time"

	"libraryapi/internal/book"
)

// Repository defines the contract for loan data storage.
type Repository interface {
	Create(ctx context.Context, l *Loan) error
	GetByID(ctx context.Context, id int64) (Loan, error)
	Update(ctx context.Context, l *Loan) error
	List(ctx context.Context, q Query) ([]Loan, int, error)
	ListOverdue(ctx context.Context, cutoff time.Time) ([]Loan, error)
}

// BookResolver is the slice of the book service the loan service depends on.
type BookResolver interface {
	GetByID(ctx context.Context, id int64) (book.Book, error)
	GetByISBN(ctx context.Context, isbn string) (book.Book, error)
}
