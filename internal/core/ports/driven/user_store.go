package driven

import (
	"context"

	"github.com/verdant-labs/wellspring-core/internal/core/domain"
)

// UserStore persists user accounts
type UserStore interface {
	// Save creates or updates a user
	Save(ctx context.Context, user *domain.User) error

	// Get retrieves a user by ID, domain.ErrNotFound if missing
	Get(ctx context.Context, id string) (*domain.User, error)

	// GetByEmail retrieves a user by email, domain.ErrNotFound if missing
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// Delete removes a user by ID
	Delete(ctx context.Context, id string) error
}
