package services

import (
	"context"
	"errors"
	"time"

	"github.com/helioscrm/connect-core/internal/core/domain"
	"github.com/helioscrm/connect-core/internal/core/ports/driven"
)

// Mock driven ports for testing

type mockIntegrationStore struct {
	getFn          func(ctx context.Context, userID string, kind domain.Kind) (*domain.UserIntegration, error)
	upsertFn       func(ctx context.Context, integ *domain.UserIntegration) (*driven.UpsertResult, error)
	updateTokensFn func(ctx context.Context, id, accessToken, refreshToken string, expiresAt, prevExpiresAt time.Time) (bool, error)
	touchFn        func(ctx context.Context, id string, at time.Time) error
}

func (m *mockIntegrationStore) Get(ctx context.Context, userID string, kind domain.Kind) (*domain.UserIntegration, error) {
	if m.getFn != nil {
		return m.getFn(ctx, userID, kind)
	}
	return nil, errors.New("not implemented")
}

func (m *mockIntegrationStore) Upsert(ctx context.Context, integ *domain.UserIntegration) (*driven.UpsertResult, error) {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, integ)
	}
	return nil, errors.New("not implemented")
}

func (m *mockIntegrationStore) UpdateTokens(ctx context.Context, id, accessToken, refreshToken string, expiresAt, prevExpiresAt time.Time) (bool, error) {
	if m.updateTokensFn != nil {
		return m.updateTokensFn(ctx, id, accessToken, refreshToken, expiresAt, prevExpiresAt)
	}
	return false, errors.New("not implemented")
}

func (m *mockIntegrationStore) TouchLastSynced(ctx context.Context, id string, at time.Time) error {
	if m.touchFn != nil {
		return m.touchFn(ctx, id, at)
	}
	return nil
}

type mockCredentialsStore struct {
	getFn func(ctx context.Context, workspaceID string, kind domain.Kind) (*domain.WorkspaceCredentials, error)
}

func (m *mockCredentialsStore) Get(ctx context.Context, workspaceID string, kind domain.Kind) (*domain.WorkspaceCredentials, error) {
	if m.getFn != nil {
		return m.getFn(ctx, workspaceID, kind)
	}
	return nil, domain.ErrCredentialsNotFound
}

type mockEmailLogStore struct {
	saveFn func(ctx context.Context, entry *domain.EmailLogEntry) error
}

func (m *mockEmailLogStore) Save(ctx context.Context, entry *domain.EmailLogEntry) error {
	if m.saveFn != nil {
		return m.saveFn(ctx, entry)
	}
	return nil
}

type mockLock struct {
	acquireFn func(ctx context.Context, name string, ttl time.Duration) (bool, error)
	releaseFn func(ctx context.Context, name string) error
}

func (m *mockLock) Acquire(ctx context.Context, name string, ttl time.Duration) (bool, error) {
	if m.acquireFn != nil {
		return m.acquireFn(ctx, name, ttl)
	}
	return true, nil
}

func (m *mockLock) Release(ctx context.Context, name string) error {
	if m.releaseFn != nil {
		return m.releaseFn(ctx, name)
	}
	return nil
}

func (m *mockLock) Ping(ctx context.Context) error {
	return nil
}

type mockOAuthClient struct {
	exchangeCodeFn func(ctx context.Context, creds *domain.WorkspaceCredentials, code string) (*driven.OAuthToken, error)
	refreshTokenFn func(ctx context.Context, creds *domain.WorkspaceCredentials, refreshToken string) (*driven.OAuthToken, error)
	accountEmailFn func(ctx context.Context, accessToken string, kind domain.Kind) (string, error)
}

func (m *mockOAuthClient) ExchangeCode(ctx context.Context, creds *domain.WorkspaceCredentials, code string) (*driven.OAuthToken, error) {
	if m.exchangeCodeFn != nil {
		return m.exchangeCodeFn(ctx, creds, code)
	}
	return nil, errors.New("not implemented")
}

func (m *mockOAuthClient) RefreshToken(ctx context.Context, creds *domain.WorkspaceCredentials, refreshToken string) (*driven.OAuthToken, error) {
	if m.refreshTokenFn != nil {
		return m.refreshTokenFn(ctx, creds, refreshToken)
	}
	return nil, errors.New("not implemented")
}

func (m *mockOAuthClient) AccountEmail(ctx context.Context, accessToken string, kind domain.Kind) (string, error) {
	if m.accountEmailFn != nil {
		return m.accountEmailFn(ctx, accessToken, kind)
	}
	return "", errors.New("not implemented")
}

type mockCalendarClient struct {
	createFn func(ctx context.Context, accessToken string, event *driven.CalendarEvent) (string, error)
	updateFn func(ctx context.Context, accessToken string, event *driven.CalendarEvent) (string, error)
	deleteFn func(ctx context.Context, accessToken, eventID string) error
}

func (m *mockCalendarClient) CreateEvent(ctx context.Context, accessToken string, event *driven.CalendarEvent) (string, error) {
	if m.createFn != nil {
		return m.createFn(ctx, accessToken, event)
	}
	return "", errors.New("not implemented")
}

func (m *mockCalendarClient) UpdateEvent(ctx context.Context, accessToken string, event *driven.CalendarEvent) (string, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, accessToken, event)
	}
	return "", errors.New("not implemented")
}

func (m *mockCalendarClient) DeleteEvent(ctx context.Context, accessToken, eventID string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, accessToken, eventID)
	}
	return errors.New("not implemented")
}

type mockMailClient struct {
	sendFn func(ctx context.Context, accessToken string, mail *driven.OutgoingMail) (string, error)
}

func (m *mockMailClient) Send(ctx context.Context, accessToken string, mail *driven.OutgoingMail) (string, error) {
	if m.sendFn != nil {
		return m.sendFn(ctx, accessToken, mail)
	}
	return "", errors.New("not implemented")
}

// Shared fixtures

var testGoogleCreds = &domain.WorkspaceCredentials{
	ClientID:     "client-id",
	ClientSecret: "client-secret",
	RedirectURI:  "https://app.example.com/oauth/callback",
}

func freshIntegration(kind domain.Kind) *domain.UserIntegration {
	return &domain.UserIntegration{
		ID:           "int-1",
		UserID:       "u1",
		WorkspaceID:  "w1",
		Provider:     domain.ProviderGoogle,
		Kind:         kind,
		Email:        "u1@example.com",
		AccessToken:  "at-fresh",
		RefreshToken: "rt-1",
		ExpiresAt:    time.Now().Add(time.Hour),
	}
}

func expiredIntegration(kind domain.Kind) *domain.UserIntegration {
	integ := freshIntegration(kind)
	integ.AccessToken = "at-expired"
	integ.ExpiresAt = time.Now().Add(-time.Minute)
	return integ
}
