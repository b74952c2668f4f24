package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/helioscrm/connect-core/internal/core/domain"
	"github.com/helioscrm/connect-core/internal/core/ports/driven"
)

// Ensure CredentialsStore implements the interface.
var _ driven.CredentialsStore = (*CredentialsStore)(nil)

// CredentialsStore reads the legacy workspace_credentials table. It exists
// only for deployments that predate centralized environment configuration.
type CredentialsStore struct {
	db *DB
}

// NewCredentialsStore creates a new PostgreSQL-backed credentials store.
func NewCredentialsStore(db *DB) *CredentialsStore {
	return &CredentialsStore{db: db}
}

// Get retrieves the workspace's OAuth app credentials for a kind.
func (s *CredentialsStore) Get(ctx context.Context, workspaceID string, kind domain.Kind) (*domain.WorkspaceCredentials, error) {
	query := `
		SELECT client_id, client_secret, redirect_uri
		FROM workspace_credentials
		WHERE workspace_id = $1 AND kind = $2
	`

	var creds domain.WorkspaceCredentials
	err := s.db.QueryRowContext(ctx, query, workspaceID, kind).Scan(
		&creds.ClientID,
		&creds.ClientSecret,
		&creds.RedirectURI,
	)
	if err == sql.ErrNoRows {
		return nil, domain.ErrCredentialsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get workspace credentials: %w", err)
	}

	return &creds, nil
}
