package driven

import (
	"context"

	"github.com/helioscrm/connect-core/internal/core/domain"
)

// CredentialsStore is the legacy fallback for OAuth app credentials stored
// per workspace. Deployments configured through the environment never hit
// this store.
type CredentialsStore interface {
	// Get retrieves the workspace's OAuth app credentials for a kind.
	// Returns domain.ErrCredentialsNotFound if no row exists.
	Get(ctx context.Context, workspaceID string, kind domain.Kind) (*domain.WorkspaceCredentials, error)
}
