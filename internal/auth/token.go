// internal/auth/token.go
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"bookstack/internal/apperr"
)

// ErrInvalidToken is returned for any token that fails verification.
var ErrInvalidToken = apperr.New(apperr.Unauthenticated, "Unauthenticated - Invalid Token")

// Claims is the payload carried by both access and refresh tokens.
type Claims struct {
	UserID uuid.UUID `json:"user_id"`
	Name   string    `json:"name"`
	Role   string    `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies the HS256 tokens used by the API.
type TokenManager struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewTokenManager(accessSecret, refreshSecret string) *TokenManager {
	return &TokenManager{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     time.Hour,
		refreshTTL:    365 * 24 * time.Hour,
	}
}

// IssueTokens signs an access/refresh token pair for the given user.
func (tm *TokenManager) IssueTokens(userID uuid.UUID, name, role string) (access, refresh string, err error) {
	access, err = tm.sign(userID, name, role, tm.accessSecret, tm.accessTTL)
	if err != nil {
		return "", "", apperr.Wrap(apperr.Internal, "Error signing access token", err)
	}
	refresh, err = tm.sign(userID, name, role, tm.refreshSecret, tm.refreshTTL)
	if err != nil {
		return "", "", apperr.Wrap(apperr.Internal, "Error signing refresh token", err)
	}
	return access, refresh, nil
}

func (tm *TokenManager) sign(userID uuid.UUID, name, role string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Name:   name,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// VerifyAccess validates an access token and returns its claims.
func (tm *TokenManager) VerifyAccess(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return tm.accessSecret, nil
	})
	if err != nil || !parsed.Valid || claims.UserID == uuid.Nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
