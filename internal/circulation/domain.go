// internal/circulation/domain.go
package circulation

import (
	"time"

	"github.com/google/uuid"

	"bookstack/internal/apperr"
	"bookstack/internal/catalog"
)

const (
	StatusBorrowed = "borrowed"
	StatusReturned = "returned"
)

var (
	// ErrBookUnavailable rejects a borrow when no copies are left.
	ErrBookUnavailable = apperr.New(apperr.Conflict, "Book not available")
	// ErrAlreadyBorrowed rejects a second simultaneous borrow of the same
	// book by the same user.
	ErrAlreadyBorrowed = apperr.New(apperr.Conflict, "Book already borrowed")
	// ErrAlreadyReturned rejects a return of a loan that has already been
	// returned. Distinct from ErrLoanNotFound: the loan existed.
	ErrAlreadyReturned = apperr.New(apperr.Conflict, "Book already returned")
	// ErrLoanNotFound means no loan ever existed for the (book, user) pair.
	ErrLoanNotFound = apperr.New(apperr.NotFound, "Transaction not found")
)

// Loan records a single borrow of a book by a user. It is created in the
// borrowed state and transitions exactly once to returned; returned is
// terminal and loans are never deleted.
type Loan struct {
	ID         uuid.UUID  `json:"id"`
	BookID     uuid.UUID  `json:"book_id"`
	UserID     uuid.UUID  `json:"user_id"`
	BorrowDate time.Time  `json:"borrow_date"`
	ReturnDate *time.Time `json:"return_date,omitempty"`
	Status     string     `json:"status"`
}

// NewLoan creates a loan in the borrowed state. Callers must have secured a
// copy through the ledger before persisting it.
func NewLoan(bookID, userID uuid.UUID) *Loan {
	return &Loan{
		ID:         uuid.New(),
		BookID:     bookID,
		UserID:     userID,
		BorrowDate: time.Now().UTC(),
		Status:     StatusBorrowed,
	}
}

// MarkReturned transitions the loan out of the borrowed state. Returning a
// loan twice fails rather than silently succeeding.
func (l *Loan) MarkReturned(at time.Time) error {
	if l.Status != StatusBorrowed {
		return ErrAlreadyReturned
	}
	l.Status = StatusReturned
	at = at.UTC()
	l.ReturnDate = &at
	return nil
}

// Active reports whether the loan still holds a copy.
func (l *Loan) Active() bool {
	return l.Status == StatusBorrowed
}

// LoanWithBook is a loan joined with a snapshot of its book for listings.
// Book is nil when the title has since been removed from the catalog.
type LoanWithBook struct {
	Loan
	Book *catalog.Book `json:"book,omitempty"`
}
