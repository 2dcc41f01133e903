// internal/storage/ledger.go
package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"bookstack/internal/catalog"
	"bookstack/internal/circulation"
)

// Ledger owns available-copy accounting for books. Both adjustments are
// single-statement conditional updates against the stored value, so two
// requests racing for the last copy resolve inside the database and the
// count can never drift negative.
type Ledger struct {
	db *sql.DB
}

func NewLedger(db *sql.DB) *Ledger {
	return &Ledger{db: db}
}

// DecrementAvailableCopies claims one copy of a book. The WHERE clause is the
// availability check and the decrement in one atomic mutation; when no row
// matches, a follow-up lookup distinguishes a missing book from an exhausted
// one.
func (l *Ledger) DecrementAvailableCopies(ctx context.Context, bookID uuid.UUID) (*catalog.Book, error) {
	ctx, span := tracer().Start(ctx, "ledger.decrement",
		trace.WithAttributes(attribute.String("book.id", bookID.String())),
	)
	defer span.End()

	if err := validID(bookID, "Book"); err != nil {
		return nil, err
	}

	row := l.db.QueryRowContext(ctx, `
		UPDATE books
		SET available_copies = available_copies - 1, updated_at = now()
		WHERE id = $1 AND available_copies > 0
		RETURNING `+bookColumns+`
	`, bookID)

	book, err := scanBook(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, l.resolveMiss(ctx, bookID)
		}
		return nil, failure("updating Book availability", err)
	}

	span.SetAttributes(attribute.Int("book.available_copies", book.AvailableCopies))
	return book, nil
}

// IncrementAvailableCopies puts one copy of a book back on the shelf.
func (l *Ledger) IncrementAvailableCopies(ctx context.Context, bookID uuid.UUID) (*catalog.Book, error) {
	ctx, span := tracer().Start(ctx, "ledger.increment",
		trace.WithAttributes(attribute.String("book.id", bookID.String())),
	)
	defer span.End()

	if err := validID(bookID, "Book"); err != nil {
		return nil, err
	}

	row := l.db.QueryRowContext(ctx, `
		UPDATE books
		SET available_copies = available_copies + 1, updated_at = now()
		WHERE id = $1
		RETURNING `+bookColumns+`
	`, bookID)

	book, err := scanBook(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, catalog.ErrNotFound
		}
		return nil, failure("updating Book availability", err)
	}

	span.SetAttributes(attribute.Int("book.available_copies", book.AvailableCopies))
	return book, nil
}

// resolveMiss decides why a conditional decrement matched no row.
func (l *Ledger) resolveMiss(ctx context.Context, bookID uuid.UUID) error {
	var exists bool
	err := l.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM books WHERE id = $1)`, bookID).Scan(&exists)
	if err != nil {
		return failure("reading Book", err)
	}
	if exists {
		return circulation.ErrBookUnavailable
	}
	return catalog.ErrNotFound
}
