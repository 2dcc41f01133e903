// internal/circulation/service.go
package circulation

import (
	"context"

	"github.com/google/uuid"

	"bookstack/internal/catalog"
)

// Service defines the interface for the circulation service.
type Service interface {
	BorrowBook(ctx context.Context, bookID, userID uuid.UUID) (*Loan, error)
	ReturnBook(ctx context.Context, bookID, userID uuid.UUID) (*Loan, error)
	ListUserLoans(ctx context.Context, userID uuid.UUID) ([]*LoanWithBook, error)
}

// BookStore reads book snapshots for listings.
type BookStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*catalog.Book, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*catalog.Book, error)
}

// Ledger owns available-copy accounting. Decrement is a single conditional
// mutation: it fails with catalog.ErrNotFound for a missing book and
// ErrBookUnavailable when no copies are left, and never drives the count
// negative even under concurrent borrows.
type Ledger interface {
	DecrementAvailableCopies(ctx context.Context, bookID uuid.UUID) (*catalog.Book, error)
	IncrementAvailableCopies(ctx context.Context, bookID uuid.UUID) (*catalog.Book, error)
}

// LoanStore persists loan records. Create fails with ErrAlreadyBorrowed when
// the user already holds an active loan for the book; MarkReturned fails with
// ErrAlreadyReturned when the loan is no longer in the borrowed state.
type LoanStore interface {
	Create(ctx context.Context, loan *Loan) (*Loan, error)
	FindActive(ctx context.Context, bookID, userID uuid.UUID) (*Loan, error)
	HasReturned(ctx context.Context, bookID, userID uuid.UUID) (bool, error)
	MarkReturned(ctx context.Context, loanID uuid.UUID) (*Loan, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Loan, error)
}
