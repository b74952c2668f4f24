package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/helioscrm/connect-core/internal/core/domain"
	"github.com/helioscrm/connect-core/internal/core/ports/driven"
	"github.com/helioscrm/connect-core/internal/core/ports/driving"
)

// Ensure oauthService implements OAuthService
var _ driving.OAuthService = (*oauthService)(nil)

// OAuthServiceConfig holds configuration for the OAuth exchange service.
type OAuthServiceConfig struct {
	// Codec verifies the signed state parameter.
	Codec *StateCodec

	// Integrations persists connected credential sets.
	Integrations driven.IntegrationStore

	// Credentials are the centralized OAuth app credentials. May be nil
	// when the deployment relies on the legacy workspace table.
	Credentials *domain.WorkspaceCredentials

	// LegacyCredentials is the workspace-scoped fallback. Optional.
	LegacyCredentials driven.CredentialsStore

	// Google talks to the provider's token and identity endpoints.
	Google driven.OAuthClient

	Logger *slog.Logger
}

// oauthService implements the exchange flow: verify state, swap code for
// tokens, fetch the account identity, persist the integration.
type oauthService struct {
	codec        *StateCodec
	integrations driven.IntegrationStore
	creds        credentialsResolver
	google       driven.OAuthClient
	logger       *slog.Logger
	now          func() time.Time
}

// NewOAuthService creates a new OAuth exchange service.
func NewOAuthService(cfg OAuthServiceConfig) driving.OAuthService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &oauthService{
		codec:        cfg.Codec,
		integrations: cfg.Integrations,
		creds:        credentialsResolver{static: cfg.Credentials, legacy: cfg.LegacyCredentials},
		google:       cfg.Google,
		logger:       logger,
		now:          time.Now,
	}
}

// Exchange redeems an authorization code for tokens and stores the
// resulting integration. This is a one-shot user-initiated flow: no
// retries, the user re-triggers the authorization redirect on failure.
func (s *oauthService) Exchange(ctx context.Context, auth *domain.AuthContext, req driving.ExchangeRequest) (*driving.ExchangeResponse, error) {
	if req.Code == "" || req.State == "" {
		return nil, domain.ErrInvalidInput
	}

	state := s.codec.Verify(req.State)
	if state == nil {
		return nil, domain.ErrInvalidState
	}
	if !state.Kind.IsValid() {
		return nil, domain.ErrInvalidState
	}

	// Anti-fixation: the state must have been issued for the user who is
	// now redeeming it.
	if state.UserID != auth.UserID {
		s.logger.Warn("oauth state user mismatch",
			"state_user", state.UserID, "session_user", auth.UserID)
		return nil, domain.ErrUserMismatch
	}

	creds, err := s.creds.resolve(ctx, state.WorkspaceID, state.Kind)
	if err != nil {
		return nil, err
	}

	token, err := s.google.ExchangeCode(ctx, creds, req.Code)
	if err != nil {
		return nil, fmt.Errorf("exchange code: %w", err)
	}

	email, err := s.google.AccountEmail(ctx, token.AccessToken, state.Kind)
	if err != nil {
		return nil, fmt.Errorf("fetch account identity: %w", err)
	}

	now := s.now()
	integ := &domain.UserIntegration{
		ID:           uuid.NewString(),
		UserID:       state.UserID,
		WorkspaceID:  state.WorkspaceID,
		Provider:     domain.ProviderGoogle,
		Kind:         state.Kind,
		Email:        email,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    now.Add(time.Duration(token.ExpiresIn) * time.Second),
		Scopes:       domain.SplitScopes(token.Scope),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	result, err := s.integrations.Upsert(ctx, integ)
	if err != nil {
		return nil, fmt.Errorf("save integration: %w", err)
	}
	if result.Degraded != nil {
		s.logger.Warn("integration stored degraded",
			"user_id", state.UserID, "kind", state.Kind, "reason", result.Degraded.Error())
	}

	s.logger.Info("integration connected",
		"user_id", state.UserID, "kind", state.Kind, "email", email)

	return &driving.ExchangeResponse{
		Success: true,
		Email:   email,
		Kind:    state.Kind,
	}, nil
}
