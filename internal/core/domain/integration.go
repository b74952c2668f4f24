package domain

import (
	"time"
)

// Provider identifies the external service a credential set belongs to.
type Provider string

const (
	// ProviderGoogle is currently the only supported provider.
	ProviderGoogle Provider = "google"
)

// Kind is the integration's capability discriminator.
type Kind string

const (
	// KindGmail grants email sending on behalf of the connected account.
	KindGmail Kind = "gmail"

	// KindCalendar grants event management on the connected account's
	// primary calendar.
	KindCalendar Kind = "calendar"
)

// IsValid reports whether the kind is one of the known capabilities.
func (k Kind) IsValid() bool {
	return k == KindGmail || k == KindCalendar
}

// UserIntegration is a stored OAuth credential set linking one CRM user to
// one Google capability. Exactly one row exists per (user, provider, kind);
// the store enforces this with an upsert.
type UserIntegration struct {
	ID          string
	UserID      string
	WorkspaceID string
	Provider    Provider
	Kind        Kind

	// Email is the address of the connected Google account.
	Email string

	// AccessToken and RefreshToken are plaintext in memory. At rest they
	// are sealed by the store's token cipher; TokensEncrypted records
	// whether sealing succeeded on the last write.
	AccessToken     string
	RefreshToken    string
	TokensEncrypted bool

	ExpiresAt    time.Time
	Scopes       []string
	LastSyncedAt *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Expired reports whether the access token is past its expiry at the given
// instant. A zero ExpiresAt counts as expired so that integrations persisted
// without an expiry are refreshed before first use.
func (i *UserIntegration) Expired(now time.Time) bool {
	return !i.ExpiresAt.After(now)
}

// ToSummary returns a token-free view safe to return to clients.
func (i *UserIntegration) ToSummary() *IntegrationSummary {
	return &IntegrationSummary{
		ID:           i.ID,
		Kind:         i.Kind,
		Email:        i.Email,
		ExpiresAt:    i.ExpiresAt,
		Scopes:       i.Scopes,
		LastSyncedAt: i.LastSyncedAt,
		CreatedAt:    i.CreatedAt,
	}
}

// IntegrationSummary is the redacted projection of a UserIntegration.
type IntegrationSummary struct {
	ID           string     `json:"id"`
	Kind         Kind       `json:"kind"`
	Email        string     `json:"email"`
	ExpiresAt    time.Time  `json:"expires_at"`
	Scopes       []string   `json:"scopes,omitempty"`
	LastSyncedAt *time.Time `json:"last_synced_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// SplitScopes splits a space- or comma-separated scope string into a slice.
func SplitScopes(scope string) []string {
	var scopes []string
	var current string
	for _, c := range scope {
		if c == ' ' || c == ',' {
			if current != "" {
				scopes = append(scopes, current)
				current = ""
			}
		} else {
			current += string(c)
		}
	}
	if current != "" {
		scopes = append(scopes, current)
	}
	return scopes
}
