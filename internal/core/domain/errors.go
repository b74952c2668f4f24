package domain

import "errors"

// Domain errors - used across all layers
var (
	// ErrUnauthorized indicates authentication failed or is missing
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidInput indicates a required field is missing or malformed
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidState indicates the OAuth state failed verification or expired
	ErrInvalidState = errors.New("invalid or expired oauth state")

	// ErrUserMismatch indicates the state's user does not match the session user
	ErrUserMismatch = errors.New("state user does not match session user")

	// ErrIntegrationNotFound indicates no stored integration for the user/kind
	ErrIntegrationNotFound = errors.New("integration not found")

	// ErrCredentialsNotFound indicates no OAuth app credentials are configured
	ErrCredentialsNotFound = errors.New("oauth credentials not configured")

	// ErrRefreshFailed indicates the provider rejected the refresh token
	ErrRefreshFailed = errors.New("failed to refresh token")

	// ErrTokenExpired indicates the session token has expired
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenInvalid indicates the session token is malformed or invalid
	ErrTokenInvalid = errors.New("token invalid")

	// ErrMissingConfig indicates a required configuration value is absent
	ErrMissingConfig = errors.New("missing required configuration")
)

// UpstreamError wraps a non-2xx response from the provider. The raw Body is
// for server-side logs only and is never echoed to clients.
type UpstreamError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return "upstream provider error during " + e.Op
}

// SoftError records a non-fatal degradation: the operation succeeded but a
// secondary step (token encryption, email logging) did not. Callers can
// distinguish "succeeded" from "succeeded but degraded" instead of relying
// on an implicit fallback inside a catch-all.
type SoftError struct {
	Op  string
	Err error
}

func (e *SoftError) Error() string {
	return e.Op + " degraded: " + e.Err.Error()
}

func (e *SoftError) Unwrap() error {
	return e.Err
}
