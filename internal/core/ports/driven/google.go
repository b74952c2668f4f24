package driven

import (
	"context"

	"github.com/helioscrm/connect-core/internal/core/domain"
)

// OAuthToken is the provider's token endpoint response.
type OAuthToken struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
	Scope        string
	ExpiresIn    int
}

// OAuthClient talks to Google's OAuth2 token and identity endpoints.
type OAuthClient interface {
	// ExchangeCode redeems an authorization code using
	// grant_type=authorization_code.
	ExchangeCode(ctx context.Context, creds *domain.WorkspaceCredentials, code string) (*OAuthToken, error)

	// RefreshToken redeems a refresh token using grant_type=refresh_token.
	RefreshToken(ctx context.Context, creds *domain.WorkspaceCredentials, refreshToken string) (*OAuthToken, error)

	// AccountEmail fetches the connected account's email address: the
	// Gmail profile endpoint for kind=gmail, the generic userinfo
	// endpoint for kind=calendar.
	AccountEmail(ctx context.Context, accessToken string, kind domain.Kind) (string, error)
}

// CalendarEvent is the provider-facing event shape.
type CalendarEvent struct {
	ID          string
	Summary     string
	Description string
	Location    string
	Start       string // RFC 3339
	End         string // RFC 3339
	TimeZone    string
	Attendees   []string
}

// CalendarClient performs single event mutations on the primary calendar.
type CalendarClient interface {
	CreateEvent(ctx context.Context, accessToken string, event *CalendarEvent) (string, error)
	UpdateEvent(ctx context.Context, accessToken string, event *CalendarEvent) (string, error)
	DeleteEvent(ctx context.Context, accessToken, eventID string) error
}

// OutgoingMail is one email to send through the Gmail API.
type OutgoingMail struct {
	From    string
	To      string
	Subject string
	HTML    string
	Text    string
}

// MailClient sends a single email and returns the provider message id.
type MailClient interface {
	Send(ctx context.Context, accessToken string, mail *OutgoingMail) (string, error)
}
