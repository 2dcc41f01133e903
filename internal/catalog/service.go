// internal/catalog/service.go
package catalog

import (
	"context"

	"github.com/google/uuid"
)

// Service defines the interface for the catalog service.
type Service interface {
	ListBooks(ctx context.Context) ([]*Book, error)
	GetBook(ctx context.Context, id uuid.UUID) (*Book, error)
	CreateBook(ctx context.Context, book *Book) (*Book, error)
	UpdateBook(ctx context.Context, id uuid.UUID, patch Patch) (*Book, error)
	DeleteBook(ctx context.Context, id uuid.UUID) error
}

// Store is the persistence gateway the catalog service reads and writes
// books through.
type Store interface {
	List(ctx context.Context) ([]*Book, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Book, error)
	Create(ctx context.Context, book *Book) (*Book, error)
	UpdateByID(ctx context.Context, id uuid.UUID, patch Patch) (*Book, error)
	DeleteByID(ctx context.Context, id uuid.UUID) error
}
