package book

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a book is not found.
var ErrNotFound = errors.New("book not found")

// ErrDuplicateISBN is returned when a book with the same ISBN already exists.
var ErrDuplicateISBN = errors.New("isbn already registered")

// ErrMissingID is returned when an update or delete targets a book without an id.
var ErrMissingID = errors.New("book id must be set")

// ErrHasLoans is returned when deleting a book that loans still reference.
var ErrHasLoans = errors.New("book is referenced by loans")

// Book represents a book in the library catalog.
type Book struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	ISBN      string    `json:"isbn"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Query defines filters and pagination for listing books. Empty filter
// fields are ignored; non-empty ones match case-insensitively as substrings.
type Query struct {
	Title  string
	Author string
	ISBN   string
	Limit  int
	Offset int
}
