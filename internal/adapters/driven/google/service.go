package google

import (
	"context"
	"errors"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/helioscrm/connect-core/internal/core/domain"
)

// defaultHTTPClient bounds every provider call; context cancellation is
// the per-request cutoff, the timeout is the backstop.
var defaultHTTPClient = &http.Client{Timeout: 30 * time.Second}

// authedHTTPClient wraps base (nil means the package default) so every
// request carries the bearer token.
func authedHTTPClient(ctx context.Context, accessToken string, base *http.Client) *http.Client {
	if base == nil {
		base = defaultHTTPClient
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, base)
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
	return oauth2.NewClient(ctx, src)
}

func serviceOptions(ctx context.Context, accessToken, endpoint string, base *http.Client) []option.ClientOption {
	opts := []option.ClientOption{
		option.WithHTTPClient(authedHTTPClient(ctx, accessToken, base)),
	}
	if endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint))
	}
	return opts
}

func newGmailService(ctx context.Context, accessToken, endpoint string, base *http.Client) (*gmail.Service, error) {
	return gmail.NewService(ctx, serviceOptions(ctx, accessToken, endpoint, base)...)
}

func newCalendarService(ctx context.Context, accessToken, endpoint string, base *http.Client) (*calendar.Service, error) {
	return calendar.NewService(ctx, serviceOptions(ctx, accessToken, endpoint, base)...)
}

// upstreamErr converts Google API failures into upstream errors carrying
// the provider's status and body. Other errors pass through unchanged.
func upstreamErr(op string, err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return &domain.UpstreamError{Op: op, StatusCode: gerr.Code, Body: gerr.Body}
	}
	return err
}
