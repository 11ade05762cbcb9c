package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/verdant-labs/wellspring-core/internal/core/domain"
	"github.com/verdant-labs/wellspring-core/internal/core/ports/driven/mocks"
	"github.com/verdant-labs/wellspring-core/internal/core/ports/driving"
)

func newUserService() (driving.UserService, *mocks.MockUserStore) {
	store := mocks.NewMockUserStore()
	return NewUserService(store, mocks.NewMockAuthAdapter()), store
}

func TestUserService_Register(t *testing.T) {
	svc, store := newUserService()

	user, err := svc.Register(context.Background(), driving.RegisterInput{
		Email: "ada@example.com", Name: "Ada", Password: "long-enough",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.ID == "" {
		t.Error("expected a generated ID")
	}
	if user.PasswordHash == "long-enough" {
		t.Error("password must not be stored in plaintext")
	}

	stored, err := store.GetByEmail(context.Background(), "ada@example.com")
	if err != nil {
		t.Fatalf("user missing from store: %v", err)
	}
	if stored.Name != "Ada" {
		t.Errorf("unexpected name %q", stored.Name)
	}
}

func TestUserService_RegisterRejectsShortPassword(t *testing.T) {
	svc, _ := newUserService()

	_, err := svc.Register(context.Background(), driving.RegisterInput{
		Email: "ada@example.com", Name: "Ada", Password: "short",
	})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestUserService_RegisterDuplicateEmail(t *testing.T) {
	svc, _ := newUserService()

	input := driving.RegisterInput{Email: "ada@example.com", Name: "Ada", Password: "long-enough"}
	if _, err := svc.Register(context.Background(), input); err != nil {
		t.Fatalf("first Register failed: %v", err)
	}
	if _, err := svc.Register(context.Background(), input); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestUserService_LoginAndValidateToken(t *testing.T) {
	svc, _ := newUserService()

	if _, err := svc.Register(context.Background(), driving.RegisterInput{
		Email: "ada@example.com", Name: "Ada", Password: "long-enough",
	}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	result, err := svc.Login(context.Background(), "ada@example.com", "long-enough")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if result.Token == "" {
		t.Fatal("expected a token")
	}

	claims, err := svc.ValidateToken(context.Background(), result.Token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if claims.UserID != result.User.ID {
		t.Errorf("claims carry userID %q, want %q", claims.UserID, result.User.ID)
	}
	if claims.ExpiresAt <= time.Now().Unix() {
		t.Error("expected a future expiry")
	}
}

func TestUserService_LoginWrongPassword(t *testing.T) {
	svc, _ := newUserService()

	if _, err := svc.Register(context.Background(), driving.RegisterInput{
		Email: "ada@example.com", Name: "Ada", Password: "long-enough",
	}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if _, err := svc.Login(context.Background(), "ada@example.com", "wrong-password"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestUserService_LoginUnknownEmail(t *testing.T) {
	svc, _ := newUserService()

	if _, err := svc.Login(context.Background(), "ghost@example.com", "whatever1"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestUserService_ValidateTokenExpired(t *testing.T) {
	svc, _ := newUserService()
	auth := mocks.NewMockAuthAdapter()

	token, err := auth.GenerateToken(&domain.TokenClaims{
		UserID:    "user-1",
		Email:     "ada@example.com",
		IssuedAt:  time.Now().Add(-48 * time.Hour).Unix(),
		ExpiresAt: time.Now().Add(-24 * time.Hour).Unix(),
	})
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	if _, err := svc.ValidateToken(context.Background(), token); !errors.Is(err, domain.ErrTokenExpired) {
		t.Errorf("expected ErrTokenExpired, got %v", err)
	}
}
