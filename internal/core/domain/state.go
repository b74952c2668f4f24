package domain

// OAuthState is the context-carrying payload signed into the OAuth `state`
// query parameter. It is transient: created at authorization-redirect time,
// verified exactly once by the exchange flow, then discarded.
type OAuthState struct {
	UserID         string `json:"user_id"`
	WorkspaceID    string `json:"workspace_id"`
	Kind           Kind   `json:"kind"`
	RedirectOrigin string `json:"redirect_origin"`

	// IssuedAt is a unix timestamp in milliseconds. States older than
	// five minutes fail verification.
	IssuedAt int64 `json:"issued_at"`
}
