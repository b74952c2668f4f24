package driving

import (
	"context"

	"github.com/helioscrm/connect-core/internal/core/domain"
)

// AuthService validates CRM session credentials on inbound requests.
type AuthService interface {
	// ValidateToken resolves a bearer token to an authenticated context.
	// Returns domain.ErrTokenExpired or domain.ErrTokenInvalid on failure.
	ValidateToken(ctx context.Context, token string) (*domain.AuthContext, error)

	// ValidateServiceKey resolves the `apikey` header used by trusted
	// server-side callers. Returns domain.ErrUnauthorized on mismatch.
	ValidateServiceKey(ctx context.Context, key string) (*domain.AuthContext, error)
}
