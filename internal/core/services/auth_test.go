package services

import (
	"context"
	"testing"

	"github.com/helioscrm/connect-core/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockAuthAdapter is a mock implementation of driven.AuthAdapter
type MockAuthAdapter struct {
	mock.Mock
}

func (m *MockAuthAdapter) ParseToken(token string) (*domain.TokenClaims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TokenClaims), args.Error(1)
}

func (m *MockAuthAdapter) VerifyServiceKey(key string) bool {
	args := m.Called(key)
	return args.Bool(0)
}

func TestAuthService_ValidateToken(t *testing.T) {
	adapter := new(MockAuthAdapter)
	adapter.On("ParseToken", "session-jwt").Return(&domain.TokenClaims{
		UserID:      "u1",
		Email:       "u1@example.com",
		WorkspaceID: "w1",
	}, nil)

	svc := NewAuthService(adapter)

	auth, err := svc.ValidateToken(context.Background(), "session-jwt")
	require.NoError(t, err)
	assert.Equal(t, "u1", auth.UserID)
	assert.Equal(t, "u1@example.com", auth.Email)
	assert.Equal(t, "w1", auth.WorkspaceID)
	assert.False(t, auth.Service)
	adapter.AssertExpectations(t)
}

func TestAuthService_ValidateToken_Expired(t *testing.T) {
	adapter := new(MockAuthAdapter)
	adapter.On("ParseToken", "stale-jwt").Return(nil, domain.ErrTokenExpired)

	svc := NewAuthService(adapter)

	auth, err := svc.ValidateToken(context.Background(), "stale-jwt")
	assert.Nil(t, auth)
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
}

func TestAuthService_ValidateServiceKey(t *testing.T) {
	adapter := new(MockAuthAdapter)
	adapter.On("VerifyServiceKey", "svc-key").Return(true)

	svc := NewAuthService(adapter)

	auth, err := svc.ValidateServiceKey(context.Background(), "svc-key")
	require.NoError(t, err)
	assert.True(t, auth.Service)
	assert.Empty(t, auth.UserID)
}

func TestAuthService_ValidateServiceKey_Rejected(t *testing.T) {
	adapter := new(MockAuthAdapter)
	adapter.On("VerifyServiceKey", "wrong-key").Return(false)

	svc := NewAuthService(adapter)

	auth, err := svc.ValidateServiceKey(context.Background(), "wrong-key")
	assert.Nil(t, auth)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestAuthService_ValidateServiceKey_Empty(t *testing.T) {
	adapter := new(MockAuthAdapter)

	svc := NewAuthService(adapter)

	_, err := svc.ValidateServiceKey(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	adapter.AssertNotCalled(t, "VerifyServiceKey", mock.Anything)
}
