package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"

	"github.com/helioscrm/connect-core/internal/core/domain"
	"github.com/helioscrm/connect-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.OAuthClient = (*OAuthClient)(nil)

const defaultUserinfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// OAuthClientConfig carries endpoint overrides for tests. Zero values mean
// Google's production endpoints.
type OAuthClientConfig struct {
	TokenURL    string
	UserinfoURL string
	APIEndpoint string
	HTTPClient  *http.Client
}

// OAuthClient talks to Google's OAuth2 token and identity endpoints.
type OAuthClient struct {
	tokenURL    string
	userinfoURL string
	apiEndpoint string
	httpClient  *http.Client
}

// NewOAuthClient creates a Google OAuth client.
func NewOAuthClient(cfg OAuthClientConfig) *OAuthClient {
	c := &OAuthClient{
		tokenURL:    cfg.TokenURL,
		userinfoURL: cfg.UserinfoURL,
		apiEndpoint: cfg.APIEndpoint,
		httpClient:  cfg.HTTPClient,
	}
	if c.tokenURL == "" {
		c.tokenURL = googleoauth.Endpoint.TokenURL
	}
	if c.userinfoURL == "" {
		c.userinfoURL = defaultUserinfoURL
	}
	return c
}

func (c *OAuthClient) oauthConfig(creds *domain.WorkspaceCredentials) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		RedirectURL:  creds.RedirectURI,
		Endpoint: oauth2.Endpoint{
			AuthURL:  googleoauth.Endpoint.AuthURL,
			TokenURL: c.tokenURL,
		},
	}
}

// withHTTPClient routes the oauth2 package's requests through the
// configured client so tests can point at a local server.
func (c *OAuthClient) withHTTPClient(ctx context.Context) context.Context {
	client := c.httpClient
	if client == nil {
		client = defaultHTTPClient
	}
	return context.WithValue(ctx, oauth2.HTTPClient, client)
}

// ExchangeCode redeems an authorization code for tokens.
func (c *OAuthClient) ExchangeCode(ctx context.Context, creds *domain.WorkspaceCredentials, code string) (*driven.OAuthToken, error) {
	tok, err := c.oauthConfig(creds).Exchange(c.withHTTPClient(ctx), code)
	if err != nil {
		return nil, mapTokenError("code exchange", err)
	}
	return fromOAuth2Token(tok), nil
}

// RefreshToken redeems a refresh token for a fresh access token.
func (c *OAuthClient) RefreshToken(ctx context.Context, creds *domain.WorkspaceCredentials, refreshToken string) (*driven.OAuthToken, error) {
	src := c.oauthConfig(creds).TokenSource(c.withHTTPClient(ctx), &oauth2.Token{RefreshToken: refreshToken})
	tok, err := src.Token()
	if err != nil {
		return nil, mapTokenError("token refresh", err)
	}
	out := fromOAuth2Token(tok)
	if out.RefreshToken == refreshToken {
		// TokenSource copies the input refresh token forward; only report a
		// rotation the provider actually performed.
		out.RefreshToken = ""
	}
	return out, nil
}

// AccountEmail fetches the connected account's email address. Gmail
// connections read it from the Gmail profile, which is covered by the
// gmail.send scope; calendar connections fall back to the userinfo
// endpoint granted by the email scope.
func (c *OAuthClient) AccountEmail(ctx context.Context, accessToken string, kind domain.Kind) (string, error) {
	if kind == domain.KindGmail {
		return c.gmailProfileEmail(ctx, accessToken)
	}
	return c.userinfoEmail(ctx, accessToken)
}

func (c *OAuthClient) gmailProfileEmail(ctx context.Context, accessToken string) (string, error) {
	srv, err := newGmailService(ctx, accessToken, c.apiEndpoint, c.httpClient)
	if err != nil {
		return "", fmt.Errorf("create gmail service: %w", err)
	}

	profile, err := srv.Users.GetProfile("me").Context(ctx).Do()
	if err != nil {
		return "", upstreamErr("gmail profile", err)
	}
	if profile.EmailAddress == "" {
		return "", &domain.UpstreamError{Op: "gmail profile", StatusCode: http.StatusOK, Body: "profile missing email address"}
	}
	return profile.EmailAddress, nil
}

func (c *OAuthClient) userinfoEmail(ctx context.Context, accessToken string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.userinfoURL, nil)
	if err != nil {
		return "", fmt.Errorf("build userinfo request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	client := c.httpClient
	if client == nil {
		client = defaultHTTPClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch userinfo: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if resp.StatusCode != http.StatusOK {
		return "", &domain.UpstreamError{Op: "userinfo", StatusCode: resp.StatusCode, Body: string(body)}
	}

	var info struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(body, &info); err != nil {
		return "", fmt.Errorf("parse userinfo: %w", err)
	}
	if info.Email == "" {
		return "", &domain.UpstreamError{Op: "userinfo", StatusCode: resp.StatusCode, Body: "response missing email"}
	}
	return info.Email, nil
}

// fromOAuth2Token converts the oauth2 package's token to the port shape.
func fromOAuth2Token(tok *oauth2.Token) *driven.OAuthToken {
	out := &driven.OAuthToken{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		TokenType:    tok.TokenType,
	}
	if scope, ok := tok.Extra("scope").(string); ok {
		out.Scope = scope
	}
	if !tok.Expiry.IsZero() {
		out.ExpiresIn = int(time.Until(tok.Expiry).Round(time.Second).Seconds())
	}
	return out
}

// mapTokenError converts oauth2 retrieval failures into upstream errors
// that carry the provider's status and body for server-side logging.
func mapTokenError(op string, err error) error {
	var rerr *oauth2.RetrieveError
	if errors.As(err, &rerr) {
		status := 0
		if rerr.Response != nil {
			status = rerr.Response.StatusCode
		}
		return &domain.UpstreamError{Op: op, StatusCode: status, Body: string(rerr.Body)}
	}
	return fmt.Errorf("%s: %w", op, err)
}
