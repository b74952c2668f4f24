package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/helioscrm/connect-core/internal/core/domain"
	"github.com/helioscrm/connect-core/internal/core/ports/driven"
)

// Ensure IntegrationStore implements the interface.
var _ driven.IntegrationStore = (*IntegrationStore)(nil)

// IntegrationStore implements driven.IntegrationStore using PostgreSQL.
// Tokens are sealed by the cipher when one is configured; a nil cipher
// stores plaintext (single-tenant development deployments).
type IntegrationStore struct {
	db     *DB
	cipher *TokenCipher
}

// NewIntegrationStore creates a new PostgreSQL-backed integration store.
func NewIntegrationStore(db *DB, cipher *TokenCipher) *IntegrationStore {
	return &IntegrationStore{db: db, cipher: cipher}
}

// Get retrieves the integration for (user, google, kind) with tokens
// decrypted. Returns domain.ErrIntegrationNotFound if absent.
func (s *IntegrationStore) Get(ctx context.Context, userID string, kind domain.Kind) (*domain.UserIntegration, error) {
	query := `
		SELECT id, user_id, workspace_id, provider, kind, email,
			   access_token, refresh_token, tokens_encrypted, expires_at,
			   scopes, last_synced_at, created_at, updated_at
		FROM user_integrations
		WHERE user_id = $1 AND provider = $2 AND kind = $3
	`

	var integ domain.UserIntegration
	var lastSynced sql.NullTime
	var scopes []string

	err := s.db.QueryRowContext(ctx, query, userID, domain.ProviderGoogle, kind).Scan(
		&integ.ID,
		&integ.UserID,
		&integ.WorkspaceID,
		&integ.Provider,
		&integ.Kind,
		&integ.Email,
		&integ.AccessToken,
		&integ.RefreshToken,
		&integ.TokensEncrypted,
		&integ.ExpiresAt,
		pq.Array(&scopes),
		&lastSynced,
		&integ.CreatedAt,
		&integ.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, domain.ErrIntegrationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get integration: %w", err)
	}

	integ.Scopes = scopes
	integ.LastSyncedAt = TimePtr(lastSynced)

	integ.AccessToken = s.open(integ.AccessToken)
	integ.RefreshToken = s.open(integ.RefreshToken)

	return &integ, nil
}

// Upsert inserts or updates the row keyed on (user_id, provider, kind).
// Token sealing is best-effort: a cipher failure degrades to plaintext and
// is reported through the result, not as a write failure.
func (s *IntegrationStore) Upsert(ctx context.Context, integ *domain.UserIntegration) (*driven.UpsertResult, error) {
	accessToken, refreshToken := integ.AccessToken, integ.RefreshToken
	encrypted := false
	var degraded *domain.SoftError

	if s.cipher != nil {
		sealedAccess, errA := s.sealIfSet(accessToken)
		sealedRefresh, errR := s.sealIfSet(refreshToken)
		if errA != nil || errR != nil {
			err := errA
			if err == nil {
				err = errR
			}
			degraded = &domain.SoftError{Op: "token encryption", Err: err}
		} else {
			accessToken, refreshToken = sealedAccess, sealedRefresh
			encrypted = true
		}
	}

	query := `
		INSERT INTO user_integrations (
			id, user_id, workspace_id, provider, kind, email,
			access_token, refresh_token, tokens_encrypted, expires_at,
			scopes, last_synced_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (user_id, provider, kind) DO UPDATE SET
			workspace_id = EXCLUDED.workspace_id,
			email = EXCLUDED.email,
			access_token = EXCLUDED.access_token,
			refresh_token = EXCLUDED.refresh_token,
			tokens_encrypted = EXCLUDED.tokens_encrypted,
			expires_at = EXCLUDED.expires_at,
			scopes = EXCLUDED.scopes,
			updated_at = EXCLUDED.updated_at
		RETURNING id, created_at
	`

	now := time.Now()
	if integ.CreatedAt.IsZero() {
		integ.CreatedAt = now
	}
	integ.UpdatedAt = now
	integ.TokensEncrypted = encrypted

	err := s.db.QueryRowContext(ctx, query,
		integ.ID,
		integ.UserID,
		integ.WorkspaceID,
		integ.Provider,
		integ.Kind,
		integ.Email,
		accessToken,
		refreshToken,
		encrypted,
		integ.ExpiresAt,
		pq.Array(integ.Scopes),
		NullTime(integ.LastSyncedAt),
		integ.CreatedAt,
		integ.UpdatedAt,
	).Scan(&integ.ID, &integ.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("upsert integration: %w", err)
	}

	return &driven.UpsertResult{Integration: integ, Degraded: degraded}, nil
}

// UpdateTokens persists a rotated access token only if expires_at is still
// the value the caller read, making concurrent refreshes idempotent.
func (s *IntegrationStore) UpdateTokens(ctx context.Context, id, accessToken, refreshToken string, expiresAt, prevExpiresAt time.Time) (bool, error) {
	encrypted := false
	if s.cipher != nil {
		sealedAccess, errA := s.sealIfSet(accessToken)
		sealedRefresh, errR := s.sealIfSet(refreshToken)
		if errA == nil && errR == nil {
			accessToken, refreshToken = sealedAccess, sealedRefresh
			encrypted = true
		}
	}

	query := `
		UPDATE user_integrations
		SET access_token = $1, refresh_token = $2, tokens_encrypted = $3,
			expires_at = $4, updated_at = NOW()
		WHERE id = $5 AND expires_at = $6
	`

	res, err := s.db.ExecContext(ctx, query,
		accessToken, refreshToken, encrypted, expiresAt, id, prevExpiresAt)
	if err != nil {
		return false, fmt.Errorf("update tokens: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update tokens: %w", err)
	}
	return rows == 1, nil
}

// TouchLastSynced updates last_synced_at.
func (s *IntegrationStore) TouchLastSynced(ctx context.Context, id string, at time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE user_integrations SET last_synced_at = $1 WHERE id = $2`, at, id)
	if err != nil {
		return fmt.Errorf("touch last_synced_at: %w", err)
	}
	return nil
}

// sealIfSet encrypts a token, passing empty strings through untouched.
func (s *IntegrationStore) sealIfSet(token string) (string, error) {
	if token == "" {
		return "", nil
	}
	return s.cipher.Encrypt(token)
}

// open decrypts a stored value when it carries the sealed envelope. Values
// without the envelope predate encryption and are returned as-is.
func (s *IntegrationStore) open(value string) string {
	if s.cipher == nil || !s.cipher.IsEnvelope(value) {
		return value
	}
	plain, err := s.cipher.Decrypt(value)
	if err != nil {
		// Envelope check passed but the key cannot open it; surface the
		// stored value unchanged rather than fail the read.
		return value
	}
	return plain
}
