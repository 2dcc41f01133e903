// internal/storage/loans.go
package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"bookstack/internal/circulation"
)

const loanColumns = "id, book_id, user_id, borrow_date, return_date, status"

// LoanStore provides typed access to the loans table. The partial unique
// index on (book_id, user_id) WHERE status = 'borrowed' makes the
// one-active-loan-per-pair rule a database constraint rather than a lookup.
type LoanStore struct {
	db *sql.DB
}

func NewLoanStore(db *sql.DB) *LoanStore {
	return &LoanStore{db: db}
}

func (s *LoanStore) Create(ctx context.Context, loan *circulation.Loan) (*circulation.Loan, error) {
	ctx, span := tracer().Start(ctx, "loans.create",
		trace.WithAttributes(
			attribute.String("book.id", loan.BookID.String()),
			attribute.String("user.id", loan.UserID.String()),
		),
	)
	defer span.End()

	if err := validID(loan.BookID, "Book"); err != nil {
		return nil, err
	}
	if err := validID(loan.UserID, "User"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		INSERT INTO loans (id, book_id, user_id, borrow_date, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+loanColumns+`
	`, loan.ID, loan.BookID, loan.UserID, loan.BorrowDate, loan.Status)

	created, err := scanLoan(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, circulation.ErrAlreadyBorrowed
		}
		return nil, failure("creating Transaction", err)
	}
	return created, nil
}

func (s *LoanStore) FindActive(ctx context.Context, bookID, userID uuid.UUID) (*circulation.Loan, error) {
	if err := validID(bookID, "Book"); err != nil {
		return nil, err
	}
	if err := validID(userID, "User"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT `+loanColumns+`
		FROM loans
		WHERE book_id = $1 AND user_id = $2 AND status = $3
	`, bookID, userID, circulation.StatusBorrowed)

	loan, err := scanLoan(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, circulation.ErrLoanNotFound
		}
		return nil, failure("reading Transaction", err)
	}
	return loan, nil
}

func (s *LoanStore) HasReturned(ctx context.Context, bookID, userID uuid.UUID) (bool, error) {
	if err := validID(bookID, "Book"); err != nil {
		return false, err
	}
	if err := validID(userID, "User"); err != nil {
		return false, err
	}

	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM loans
			WHERE book_id = $1 AND user_id = $2 AND status = $3
		)
	`, bookID, userID, circulation.StatusReturned).Scan(&exists)
	if err != nil {
		return false, failure("reading Transaction", err)
	}
	return exists, nil
}

// MarkReturned transitions a loan out of the borrowed state. The status
// condition makes the transition exactly-once: a second return matches no
// row and is resolved to AlreadyReturned or NotFound.
func (s *LoanStore) MarkReturned(ctx context.Context, loanID uuid.UUID) (*circulation.Loan, error) {
	ctx, span := tracer().Start(ctx, "loans.mark_returned",
		trace.WithAttributes(attribute.String("loan.id", loanID.String())),
	)
	defer span.End()

	if err := validID(loanID, "Transaction"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		UPDATE loans
		SET status = $2, return_date = now()
		WHERE id = $1 AND status = $3
		RETURNING `+loanColumns+`
	`, loanID, circulation.StatusReturned, circulation.StatusBorrowed)

	loan, err := scanLoan(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, s.resolveTransitionMiss(ctx, loanID)
		}
		return nil, failure("updating Transaction", err)
	}
	return loan, nil
}

func (s *LoanStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*circulation.Loan, error) {
	if err := validID(userID, "User"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+loanColumns+`
		FROM loans
		WHERE user_id = $1
		ORDER BY borrow_date, id
	`, userID)
	if err != nil {
		return nil, failure("listing Transactions", err)
	}
	defer rows.Close()

	var loans []*circulation.Loan
	for rows.Next() {
		loan, err := scanLoan(rows)
		if err != nil {
			return nil, failure("scanning Transaction", err)
		}
		loans = append(loans, loan)
	}
	if err := rows.Err(); err != nil {
		return nil, failure("iterating Transactions", err)
	}
	return loans, nil
}

func (s *LoanStore) resolveTransitionMiss(ctx context.Context, loanID uuid.UUID) error {
	var exists bool
	err := s.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM loans WHERE id = $1)`, loanID).Scan(&exists)
	if err != nil {
		return failure("reading Transaction", err)
	}
	if exists {
		return circulation.ErrAlreadyReturned
	}
	return circulation.ErrLoanNotFound
}

func scanLoan(row scanner) (*circulation.Loan, error) {
	loan := &circulation.Loan{}
	var returnDate sql.NullTime
	err := row.Scan(
		&loan.ID,
		&loan.BookID,
		&loan.UserID,
		&loan.BorrowDate,
		&returnDate,
		&loan.Status,
	)
	if err != nil {
		return nil, err
	}
	if returnDate.Valid {
		loan.ReturnDate = &returnDate.Time
	}
	return loan, nil
}
