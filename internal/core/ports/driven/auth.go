package driven

import "github.com/helioscrm/connect-core/internal/core/domain"

// AuthAdapter verifies inbound credentials. The CRM issues HS256 session
// JWTs; trusted server-side callers present a pre-shared service key.
type AuthAdapter interface {
	// ParseToken validates a session JWT and extracts its claims.
	ParseToken(token string) (*domain.TokenClaims, error)

	// VerifyServiceKey reports whether the presented key matches the
	// configured service key hash.
	VerifyServiceKey(key string) bool
}
