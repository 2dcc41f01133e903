// internal/storage/storage.go

// Package storage is the persistence gateway: typed accessors over the
// books, loans and users tables. It is the only package that issues SQL;
// every accessor validates identifiers before querying and normalizes driver
// failures into the apperr taxonomy.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"bookstack/internal/apperr"
)

const uniqueViolation = "23505"

// Open connects to PostgreSQL and verifies the connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

func tracer() trace.Tracer {
	return otel.Tracer("bookstack/storage")
}

// validID rejects the zero identifier before it ever reaches a query.
func validID(id uuid.UUID, entity string) error {
	if id == uuid.Nil {
		return apperr.Newf(apperr.InvalidArgument, "Invalid ID format for %s", entity)
	}
	return nil
}

// failure wraps a driver error as a persistence failure, keeping the cause
// for diagnostics.
func failure(op string, err error) error {
	return apperr.Wrap(apperr.Internal, fmt.Sprintf("Error during %s", op), err)
}

// isUniqueViolation reports whether err is a unique-constraint violation.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
