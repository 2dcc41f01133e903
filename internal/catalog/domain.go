// internal/catalog/domain.go
package catalog

import (
	"time"

	"github.com/google/uuid"

	"bookstack/internal/apperr"
)

// ErrNotFound is returned when a referenced book does not exist.
var ErrNotFound = apperr.New(apperr.NotFound, "Book not found")

// Book represents a title in the catalog with its available-copy count.
// AvailableCopies never goes negative; it is adjusted only through the
// ledger's conditional updates.
type Book struct {
	ID              uuid.UUID `json:"id"`
	Title           string    `json:"title"`
	Author          string    `json:"author,omitempty"`
	Description     string    `json:"description,omitempty"`
	PublishedYear   int       `json:"published_year,omitempty"`
	AvailableCopies int       `json:"available_copies"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// NewBook constructs a catalog entry. Copies defaults to a single copy when
// not specified.
func NewBook(title, author, description string, publishedYear, copies int) *Book {
	if copies <= 0 {
		copies = 1
	}
	return &Book{
		ID:              uuid.New(),
		Title:           title,
		Author:          author,
		Description:     description,
		PublishedYear:   publishedYear,
		AvailableCopies: copies,
	}
}

// Patch is a partial update of a book; nil fields are left unchanged.
type Patch struct {
	Title           *string `json:"title"`
	Author          *string `json:"author"`
	Description     *string `json:"description"`
	PublishedYear   *int    `json:"published_year"`
	AvailableCopies *int    `json:"available_copies"`
}

// Validate rejects patches that would violate catalog invariants.
func (p Patch) Validate() error {
	if p.Title != nil && *p.Title == "" {
		return apperr.New(apperr.InvalidArgument, "Book title must not be empty")
	}
	if p.AvailableCopies != nil && *p.AvailableCopies < 0 {
		return apperr.New(apperr.InvalidArgument, "Available copies must not be negative")
	}
	return nil
}
