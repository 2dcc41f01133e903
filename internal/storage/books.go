// internal/storage/books.go
package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"bookstack/internal/catalog"
)

const bookColumns = "id, title, author, description, published_year, available_copies, created_at, updated_at"

// BookStore provides typed access to the books table. It satisfies both
// catalog.Store and circulation.BookStore.
type BookStore struct {
	db *sql.DB
}

func NewBookStore(db *sql.DB) *BookStore {
	return &BookStore{db: db}
}

func (s *BookStore) List(ctx context.Context) ([]*catalog.Book, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+bookColumns+`
		FROM books
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, failure("listing Books", err)
	}
	defer rows.Close()

	return scanBooks(rows)
}

func (s *BookStore) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Book, error) {
	if err := validID(id, "Book"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT `+bookColumns+`
		FROM books
		WHERE id = $1
	`, id)

	book, err := scanBook(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, catalog.ErrNotFound
		}
		return nil, failure("reading Book", err)
	}
	return book, nil
}

// FindByIDs fetches a batch of books in one query, keyed by id. Missing ids
// are simply absent from the result.
func (s *BookStore) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*catalog.Book, error) {
	books := make(map[uuid.UUID]*catalog.Book, len(ids))
	if len(ids) == 0 {
		return books, nil
	}
	for _, id := range ids {
		if err := validID(id, "Book"); err != nil {
			return nil, err
		}
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+bookColumns+`
		FROM books
		WHERE id = ANY($1)
	`, pq.Array(ids))
	if err != nil {
		return nil, failure("reading Books", err)
	}
	defer rows.Close()

	list, err := scanBooks(rows)
	if err != nil {
		return nil, err
	}
	for _, book := range list {
		books[book.ID] = book
	}
	return books, nil
}

func (s *BookStore) Create(ctx context.Context, book *catalog.Book) (*catalog.Book, error) {
	if err := validID(book.ID, "Book"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		INSERT INTO books (id, title, author, description, published_year, available_copies)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+bookColumns+`
	`, book.ID, book.Title, book.Author, book.Description, book.PublishedYear, book.AvailableCopies)

	created, err := scanBook(row)
	if err != nil {
		return nil, failure("creating Book", err)
	}
	return created, nil
}

func (s *BookStore) UpdateByID(ctx context.Context, id uuid.UUID, patch catalog.Patch) (*catalog.Book, error) {
	if err := validID(id, "Book"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		UPDATE books
		SET title            = COALESCE($2, title),
		    author           = COALESCE($3, author),
		    description      = COALESCE($4, description),
		    published_year   = COALESCE($5, published_year),
		    available_copies = COALESCE($6, available_copies),
		    updated_at       = now()
		WHERE id = $1
		RETURNING `+bookColumns+`
	`, id, patch.Title, patch.Author, patch.Description, patch.PublishedYear, patch.AvailableCopies)

	book, err := scanBook(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, catalog.ErrNotFound
		}
		return nil, failure("updating Book", err)
	}
	return book, nil
}

// DeleteByID removes a book. Loans referencing it are kept; listings then
// report the loan without a book snapshot.
func (s *BookStore) DeleteByID(ctx context.Context, id uuid.UUID) error {
	if err := validID(id, "Book"); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return failure("deleting Book", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return catalog.ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBook(row scanner) (*catalog.Book, error) {
	book := &catalog.Book{}
	err := row.Scan(
		&book.ID,
		&book.Title,
		&book.Author,
		&book.Description,
		&book.PublishedYear,
		&book.AvailableCopies,
		&book.CreatedAt,
		&book.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return book, nil
}

func scanBooks(rows *sql.Rows) ([]*catalog.Book, error) {
	var books []*catalog.Book
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, failure("scanning Book", err)
		}
		books = append(books, book)
	}
	if err := rows.Err(); err != nil {
		return nil, failure("iterating Books", err)
	}
	return books, nil
}
