package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/verdant-labs/wellspring-core/internal/core/domain"
	"github.com/verdant-labs/wellspring-core/internal/core/ports/driven"
	"github.com/verdant-labs/wellspring-core/internal/core/ports/driving"
)

// Ensure userService implements UserService
var _ driving.UserService = (*userService)(nil)

const tokenLifetime = 24 * time.Hour

// userService manages accounts and stateless token authentication
type userService struct {
	userStore   driven.UserStore
	authAdapter driven.AuthAdapter
}

// NewUserService creates a new UserService
func NewUserService(userStore driven.UserStore, authAdapter driven.AuthAdapter) driving.UserService {
	return &userService{
		userStore:   userStore,
		authAdapter: authAdapter,
	}
}

// Register creates an account with a hashed password
func (s *userService) Register(ctx context.Context, input driving.RegisterInput) (*domain.User, error) {
	if len(input.Password) < 8 {
		return nil, domain.ErrInvalidInput
	}

	user := &domain.User{
		ID:        uuid.New().String(),
		Email:     input.Email,
		Name:      input.Name,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.userStore.GetByEmail(ctx, input.Email); err == nil {
		return nil, domain.ErrAlreadyExists
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	hash, err := s.authAdapter.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = hash

	if err := s.userStore.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies credentials and mints a token
func (s *userService) Login(ctx context.Context, email, password string) (*driving.LoginResult, error) {
	user, err := s.userStore.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.authAdapter.VerifyPassword(password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	now := time.Now()
	token, err := s.authAdapter.GenerateToken(&domain.TokenClaims{
		UserID:    user.ID,
		Email:     user.Email,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(tokenLifetime).Unix(),
	})
	if err != nil {
		return nil, err
	}

	return &driving.LoginResult{User: user, Token: token}, nil
}

// Get retrieves a user by ID
func (s *userService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.userStore.Get(ctx, id)
}

// ValidateToken parses and validates a token, returning its claims
func (s *userService) ValidateToken(ctx context.Context, token string) (*domain.TokenClaims, error) {
	claims, err := s.authAdapter.ParseToken(token)
	if err != nil {
		return nil, err
	}
	if claims.Expired(time.Now()) {
		return nil, domain.ErrTokenExpired
	}
	return claims, nil
}
