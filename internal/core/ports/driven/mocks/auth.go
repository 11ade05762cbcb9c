package mocks

import (
	"encoding/json"
	"strings"

	"github.com/verdant-labs/wellspring-core/internal/core/domain"
)

// MockAuthAdapter is a transparent AuthAdapter for testing. Hashes are
// the plaintext with a fixed prefix and tokens are JSON-encoded claims.
type MockAuthAdapter struct{}

// NewMockAuthAdapter creates a new MockAuthAdapter
func NewMockAuthAdapter() *MockAuthAdapter {
	return &MockAuthAdapter{}
}

func (m *MockAuthAdapter) HashPassword(password string) (string, error) {
	return "hashed:" + password, nil
}

func (m *MockAuthAdapter) VerifyPassword(password, hash string) bool {
	return hash == "hashed:"+password
}

func (m *MockAuthAdapter) GenerateToken(claims *domain.TokenClaims) (string, error) {
	data, err := json.Marshal(claims)
	if err != nil {
		return "", err
	}
	return "token:" + string(data), nil
}

func (m *MockAuthAdapter) ParseToken(tokenString string) (*domain.TokenClaims, error) {
	data, ok := strings.CutPrefix(tokenString, "token:")
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}
	var claims domain.TokenClaims
	if err := json.Unmarshal([]byte(data), &claims); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return &claims, nil
}
