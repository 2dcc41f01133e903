// internal/circulation/implementation.go
package circulation

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
)

// service implements the Service interface.
type service struct {
	books  BookStore
	ledger Ledger
	loans  LoanStore
}

// NewService creates a new circulation service instance.
func NewService(books BookStore, ledger Ledger, loans LoanStore) Service {
	return &service{books: books, ledger: ledger, loans: loans}
}

// BorrowBook secures a copy and records the loan. The ledger decrement is the
// concurrency guard: it either claims a copy or fails, so two borrows racing
// for the last copy can never both succeed. If the loan record cannot be
// written after a successful decrement, the copy is released again.
func (s *service) BorrowBook(ctx context.Context, bookID, userID uuid.UUID) (*Loan, error) {
	if _, err := s.ledger.DecrementAvailableCopies(ctx, bookID); err != nil {
		return nil, err
	}

	loan, err := s.loans.Create(ctx, NewLoan(bookID, userID))
	if err != nil {
		s.releaseCopy(ctx, bookID)
		return nil, err
	}
	return loan, nil
}

// ReturnBook transitions the user's active loan to returned and puts the copy
// back on the shelf. A pair with no active loan is resolved to either
// "already returned" or "never borrowed".
func (s *service) ReturnBook(ctx context.Context, bookID, userID uuid.UUID) (*Loan, error) {
	loan, err := s.loans.FindActive(ctx, bookID, userID)
	if err != nil {
		if errors.Is(err, ErrLoanNotFound) {
			returned, herr := s.loans.HasReturned(ctx, bookID, userID)
			if herr != nil {
				return nil, herr
			}
			if returned {
				return nil, ErrAlreadyReturned
			}
		}
		return nil, err
	}

	if _, err := s.ledger.IncrementAvailableCopies(ctx, bookID); err != nil {
		return nil, err
	}

	updated, err := s.loans.MarkReturned(ctx, loan.ID)
	if err != nil {
		// A concurrent return won the transition; take the extra copy back.
		if _, derr := s.ledger.DecrementAvailableCopies(ctx, bookID); derr != nil {
			log.Printf("failed to compensate availability for book %s: %v", bookID, derr)
		}
		return nil, err
	}
	return updated, nil
}

// ListUserLoans returns every loan the user ever created, in creation order,
// each joined in memory with a current snapshot of its book. The join is two
// queries plus an in-memory merge and scales with the number of distinct
// books in the result.
func (s *service) ListUserLoans(ctx context.Context, userID uuid.UUID) ([]*LoanWithBook, error) {
	loans, err := s.loans.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	seen := make(map[uuid.UUID]struct{}, len(loans))
	bookIDs := make([]uuid.UUID, 0, len(loans))
	for _, loan := range loans {
		if _, ok := seen[loan.BookID]; !ok {
			seen[loan.BookID] = struct{}{}
			bookIDs = append(bookIDs, loan.BookID)
		}
	}

	books, err := s.books.FindByIDs(ctx, bookIDs)
	if err != nil {
		return nil, err
	}

	result := make([]*LoanWithBook, 0, len(loans))
	for _, loan := range loans {
		result = append(result, &LoanWithBook{Loan: *loan, Book: books[loan.BookID]})
	}
	return result, nil
}

// releaseCopy undoes a decrement whose loan never materialized.
func (s *service) releaseCopy(ctx context.Context, bookID uuid.UUID) {
	if _, err := s.ledger.IncrementAvailableCopies(ctx, bookID); err != nil {
		log.Printf("failed to release copy of book %s: %v", bookID, err)
	}
}
