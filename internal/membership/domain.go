// internal/membership/domain.go
package membership

import (
	"time"

	"github.com/google/uuid"

	"bookstack/internal/apperr"
)

const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

var (
	// ErrNotFound is returned when a referenced user does not exist.
	ErrNotFound = apperr.New(apperr.NotFound, "User not found")
	// ErrEmailTaken rejects a sign-up with an email that is already registered.
	ErrEmailTaken = apperr.New(apperr.Conflict, "A user already exists with given email")
	// ErrInvalidCredentials is returned for both unknown email and wrong
	// password so the two cases are indistinguishable to a caller.
	ErrInvalidCredentials = apperr.New(apperr.Unauthenticated, "Invalid credentials")
)

// User is a registered account. PasswordHash and Salt never leave the server.
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	PasswordHash string    `json:"-"`
	Salt         string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Session is the result of a successful login.
type Session struct {
	User         *User  `json:"user"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// ValidRole reports whether role is one of the known roles.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleMember
}
