package book

import (
	"context"
)

// Service provides book-related business logic.
type Service struct {
	repo Repository
}

// NewService creates a new book service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create registers a new book. The ISBN must not be in use.
func (s *Service) Create(ctx context.Context, b *Book) error {
	return s.repo.Create(ctx, b)
}

// GetByID returns a book by its id.
func (s *Service) GetByID(ctx context.Context, id int64) (Book, error) {
	return s.repo.GetByID(ctx, id)
}

// GetByISBN returns a book by its ISBN.
func (s *Service) GetByISBN(ctx context.Context, isbn string) (Book, error) {
	return s.repo.GetByISBN(ctx, isbn)
}

// Update persists changes to an existing book.
func (s *Service) Update(ctx context.Context, b *Book) error {
	if b.ID == 0 {
		return ErrMissingID
	}
	return s.repo.Update(ctx, b)
}

// Delete removes a book. Books referenced by loans cannot be deleted.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if id == 0 {
		return ErrMissingID
	}
	return s.repo.Delete(ctx, id)
}

// List returns a page of books matching the query plus the total count.
func (s *Service) List(ctx context.Context, q Query) ([]Book, int, error) {
	return s.repo.List(ctx, q)
}
