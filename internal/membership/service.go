// internal/membership/service.go
package membership

import (
	"context"

	"github.com/google/uuid"
)

// Service defines the interface for the membership service.
type Service interface {
	SignUp(ctx context.Context, name, email, password, role string) (*User, error)
	Login(ctx context.Context, email, password string) (*Session, error)
	Profile(ctx context.Context, id uuid.UUID) (*User, error)
}

// Store is the persistence gateway for user accounts. Create fails with
// ErrEmailTaken when the email is already registered.
type Store interface {
	Create(ctx context.Context, user *User) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
}
