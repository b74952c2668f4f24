package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/helioscrm/connect-core/internal/core/domain"
	"github.com/helioscrm/connect-core/internal/core/ports/driven"
)

// refreshLockTTL bounds how long a refresh lock can outlive its holder.
const refreshLockTTL = 30 * time.Second

// tokenRefresher implements the lazy refresh shared by the calendar and
// mail services: an integration's access token is refreshed only on next
// use, never in the background.
//
// Two concurrent expired-token requests are coordinated by a per-integration
// distributed lock plus a conditional (compare-and-swap on expires_at) token
// write, so at most one refresh lands and the loser adopts the winner's
// token.
type tokenRefresher struct {
	integrations driven.IntegrationStore
	oauth        driven.OAuthClient
	lock         driven.DistributedLock
	creds        credentialsResolver
	logger       *slog.Logger
	now          func() time.Time
}

// ensureFresh returns an integration whose access token is valid, refreshing
// and persisting it first when expired. The rotated token is stored before
// the caller issues any provider mutation.
func (r *tokenRefresher) ensureFresh(ctx context.Context, integ *domain.UserIntegration) (*domain.UserIntegration, error) {
	if !integ.Expired(r.now()) {
		return integ, nil
	}

	lockName := "integration-refresh:" + integ.ID
	acquired, err := r.lock.Acquire(ctx, lockName, refreshLockTTL)
	if err != nil {
		// Lock backend down: proceed unguarded rather than fail the
		// request. The CAS write still keeps the refresh idempotent.
		r.logger.Warn("refresh lock unavailable", "integration_id", integ.ID, "error", err)
	}
	if acquired {
		defer func() {
			if err := r.lock.Release(ctx, lockName); err != nil {
				r.logger.Warn("release refresh lock", "integration_id", integ.ID, "error", err)
			}
		}()
	}

	// Re-read after acquiring: a concurrent request may have refreshed
	// while we waited on the lock.
	latest, err := r.integrations.Get(ctx, integ.UserID, integ.Kind)
	if err != nil {
		return nil, fmt.Errorf("reload integration: %w", err)
	}
	if !latest.Expired(r.now()) {
		return latest, nil
	}

	creds, err := r.creds.resolve(ctx, latest.WorkspaceID, latest.Kind)
	if err != nil {
		return nil, err
	}

	token, err := r.oauth.RefreshToken(ctx, creds, latest.RefreshToken)
	if err != nil {
		r.logger.Error("token refresh rejected",
			"integration_id", latest.ID, "kind", latest.Kind, "error", err)
		return nil, domain.ErrRefreshFailed
	}

	refreshToken := token.RefreshToken
	if refreshToken == "" {
		// Google omits the refresh token on rotation unless it changed.
		refreshToken = latest.RefreshToken
	}
	expiresAt := r.now().Add(time.Duration(token.ExpiresIn) * time.Second)

	updated, err := r.integrations.UpdateTokens(ctx, latest.ID, token.AccessToken, refreshToken, expiresAt, latest.ExpiresAt)
	if err != nil {
		return nil, fmt.Errorf("persist refreshed token: %w", err)
	}
	if !updated {
		// Lost the CAS race: another instance persisted first. Use theirs.
		current, err := r.integrations.Get(ctx, latest.UserID, latest.Kind)
		if err != nil {
			return nil, fmt.Errorf("reload integration after refresh race: %w", err)
		}
		return current, nil
	}

	latest.AccessToken = token.AccessToken
	latest.RefreshToken = refreshToken
	latest.ExpiresAt = expiresAt
	return latest, nil
}
