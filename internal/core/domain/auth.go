package domain

// AuthContext contains authenticated user info for request context.
// It is produced by validating the CRM session bearer token.
type AuthContext struct {
	UserID      string `json:"user_id"`
	Email       string `json:"email"`
	WorkspaceID string `json:"workspace_id"`

	// Service is true when the request authenticated with the service
	// API key rather than a user session token.
	Service bool `json:"service,omitempty"`
}

// TokenClaims represents the CRM session JWT payload.
type TokenClaims struct {
	UserID      string `json:"user_id"`
	Email       string `json:"email"`
	WorkspaceID string `json:"workspace_id"`
	IssuedAt    int64  `json:"iat"`
	ExpiresAt   int64  `json:"exp"`
}
