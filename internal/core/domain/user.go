package domain

import (
	"strings"
	"time"
)

// User is an account in the wellness backend
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Validate checks required user fields
func (u *User) Validate() error {
	if u.Email == "" || !strings.Contains(u.Email, "@") {
		return ErrInvalidInput
	}
	if u.Name == "" {
		return ErrInvalidInput
	}
	return nil
}

// TokenClaims holds the identity carried by an auth token
type TokenClaims struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	IssuedAt  int64  `json:"issued_at"`
	ExpiresAt int64  `json:"expires_at"`
}

// Expired reports whether the claims are past their expiry
func (c *TokenClaims) Expired(now time.Time) bool {
	return now.Unix() >= c.ExpiresAt
}
