package domain

// WorkspaceCredentials holds the OAuth app credentials used to talk to the
// provider's token endpoint. They are resolved from environment
// configuration, or as a legacy fallback from a workspace-scoped table.
// Read-only at runtime.
type WorkspaceCredentials struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"-"`
	RedirectURI  string `json:"redirect_uri"`
}

// IsConfigured reports whether the credentials are usable for an exchange.
func (c *WorkspaceCredentials) IsConfigured() bool {
	return c.ClientID != "" && c.ClientSecret != "" && c.RedirectURI != ""
}
