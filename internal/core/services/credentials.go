package services

import (
	"context"
	"fmt"

	"github.com/helioscrm/connect-core/internal/core/domain"
	"github.com/helioscrm/connect-core/internal/core/ports/driven"
)

// credentialsResolver resolves OAuth app credentials: the centralized
// environment configuration wins; a workspace-scoped table is the legacy
// fallback for deployments that predate it.
type credentialsResolver struct {
	static *domain.WorkspaceCredentials
	legacy driven.CredentialsStore
}

func (r credentialsResolver) resolve(ctx context.Context, workspaceID string, kind domain.Kind) (*domain.WorkspaceCredentials, error) {
	if r.static != nil && r.static.IsConfigured() {
		return r.static, nil
	}

	if r.legacy == nil {
		return nil, domain.ErrCredentialsNotFound
	}

	creds, err := r.legacy.Get(ctx, workspaceID, kind)
	if err != nil {
		return nil, fmt.Errorf("resolve workspace credentials: %w", err)
	}
	if !creds.IsConfigured() {
		return nil, domain.ErrCredentialsNotFound
	}
	return creds, nil
}
