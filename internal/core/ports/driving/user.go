package driving

import (
	"context"

	"github.com/verdant-labs/wellspring-core/internal/core/domain"
)

// RegisterInput holds the fields needed to create an account
type RegisterInput struct {
	Email    string
	Name     string
	Password string
}

// LoginResult is a successful authentication
type LoginResult struct {
	User  *domain.User
	Token string
}

// UserService manages accounts and authentication
type UserService interface {
	// Register creates an account with a hashed password
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)

	// Login verifies credentials and mints a token
	Login(ctx context.Context, email, password string) (*LoginResult, error)

	// Get retrieves a user by ID
	Get(ctx context.Context, id string) (*domain.User, error)

	// ValidateToken parses and validates a token, returning its claims
	ValidateToken(ctx context.Context, token string) (*domain.TokenClaims, error)
}
