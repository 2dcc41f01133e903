// internal/catalog/implementation.go
package catalog

import (
	"context"

	"github.com/google/uuid"

	"bookstack/internal/apperr"
)

// service implements the Service interface.
type service struct {
	store Store
}

// NewService creates a new catalog service instance.
func NewService(store Store) Service {
	return &service{store: store}
}

func (s *service) ListBooks(ctx context.Context) ([]*Book, error) {
	return s.store.List(ctx)
}

func (s *service) GetBook(ctx context.Context, id uuid.UUID) (*Book, error) {
	return s.store.FindByID(ctx, id)
}

func (s *service) CreateBook(ctx context.Context, book *Book) (*Book, error) {
	if book.Title == "" {
		return nil, apperr.New(apperr.InvalidArgument, "Book title must not be empty")
	}
	if book.ID == uuid.Nil {
		book.ID = uuid.New()
	}
	if book.AvailableCopies < 0 {
		return nil, apperr.New(apperr.InvalidArgument, "Available copies must not be negative")
	}
	return s.store.Create(ctx, book)
}

func (s *service) UpdateBook(ctx context.Context, id uuid.UUID, patch Patch) (*Book, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	return s.store.UpdateByID(ctx, id, patch)
}

func (s *service) DeleteBook(ctx context.Context, id uuid.UUID) error {
	return s.store.DeleteByID(ctx, id)
}
