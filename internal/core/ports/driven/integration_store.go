package driven

import (
	"context"
	"time"

	"github.com/helioscrm/connect-core/internal/core/domain"
)

// UpsertResult reports the stored row plus any non-fatal degradation that
// occurred on the way in (token encryption falling back to plaintext).
type UpsertResult struct {
	Integration *domain.UserIntegration
	Degraded    *domain.SoftError
}

// IntegrationStore persists per-user, per-kind Google integrations with
// tokens sealed at rest.
type IntegrationStore interface {
	// Get retrieves the integration for (user, google, kind) with tokens
	// decrypted. Returns domain.ErrIntegrationNotFound if absent; any
	// other storage error propagates.
	Get(ctx context.Context, userID string, kind domain.Kind) (*domain.UserIntegration, error)

	// Upsert inserts or updates the row keyed on (user_id, provider,
	// kind). Token encryption is best-effort: on cipher failure the write
	// proceeds in plaintext and the result carries a SoftError.
	Upsert(ctx context.Context, integ *domain.UserIntegration) (*UpsertResult, error)

	// UpdateTokens persists a rotated access token conditionally: the
	// write only lands if the row's expires_at still equals prevExpiresAt,
	// so concurrent refreshes cannot clobber a newer token. Returns true
	// if the row was updated.
	UpdateTokens(ctx context.Context, id, accessToken, refreshToken string, expiresAt, prevExpiresAt time.Time) (bool, error)

	// TouchLastSynced updates last_synced_at. Best-effort by callers.
	TouchLastSynced(ctx context.Context, id string, at time.Time) error
}
