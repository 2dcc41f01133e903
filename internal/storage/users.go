// internal/storage/users.go
package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"bookstack/internal/membership"
)

const userColumns = "id, name, email, role, password_hash, salt, created_at"

// UserStore provides typed access to the users table.
type UserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) Create(ctx context.Context, user *membership.User) (*membership.User, error) {
	if err := validID(user.ID, "User"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		INSERT INTO users (id, name, email, role, password_hash, salt)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+userColumns+`
	`, user.ID, user.Name, user.Email, user.Role, user.PasswordHash, user.Salt)

	created, err := scanUser(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, membership.ErrEmailTaken
		}
		return nil, failure("creating User", err)
	}
	return created, nil
}

func (s *UserStore) FindByEmail(ctx context.Context, email string) (*membership.User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE email = $1
	`, email)

	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, membership.ErrNotFound
		}
		return nil, failure("reading User", err)
	}
	return user, nil
}

func (s *UserStore) FindByID(ctx context.Context, id uuid.UUID) (*membership.User, error) {
	if err := validID(id, "User"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1
	`, id)

	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, membership.ErrNotFound
		}
		return nil, failure("reading User", err)
	}
	return user, nil
}

func scanUser(row scanner) (*membership.User, error) {
	user := &membership.User{}
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Role,
		&user.PasswordHash,
		&user.Salt,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}
