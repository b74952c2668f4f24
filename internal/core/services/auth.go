package services

import (
	"context"

	"github.com/helioscrm/connect-core/internal/core/domain"
	"github.com/helioscrm/connect-core/internal/core/ports/driven"
	"github.com/helioscrm/connect-core/internal/core/ports/driving"
)

// Ensure authService implements AuthService
var _ driving.AuthService = (*authService)(nil)

// authService validates inbound session tokens and service keys.
type authService struct {
	adapter driven.AuthAdapter
}

// NewAuthService creates a new auth service.
func NewAuthService(adapter driven.AuthAdapter) driving.AuthService {
	return &authService{adapter: adapter}
}

// ValidateToken resolves a CRM session JWT to an authenticated context.
func (s *authService) ValidateToken(ctx context.Context, token string) (*domain.AuthContext, error) {
	claims, err := s.adapter.ParseToken(token)
	if err != nil {
		return nil, err
	}

	return &domain.AuthContext{
		UserID:      claims.UserID,
		Email:       claims.Email,
		WorkspaceID: claims.WorkspaceID,
	}, nil
}

// ValidateServiceKey checks the pre-shared service key used by trusted
// server-side callers.
func (s *authService) ValidateServiceKey(ctx context.Context, key string) (*domain.AuthContext, error) {
	if key == "" || !s.adapter.VerifyServiceKey(key) {
		return nil, domain.ErrUnauthorized
	}
	return &domain.AuthContext{Service: true}, nil
}
