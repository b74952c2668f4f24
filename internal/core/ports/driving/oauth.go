package driving

import (
	"context"

	"github.com/helioscrm/connect-core/internal/core/domain"
)

// ExchangeRequest carries the authorization code returned by Google and the
// signed state that survived the redirect round trip.
type ExchangeRequest struct {
	Code  string `json:"code"`
	State string `json:"state"`
}

// ExchangeResponse is returned after a successful code exchange.
type ExchangeResponse struct {
	Success bool        `json:"success"`
	Email   string      `json:"email"`
	Kind    domain.Kind `json:"kind"`
}

// OAuthService redeems authorization codes and persists integrations.
type OAuthService interface {
	// Exchange verifies the state, swaps the code for tokens, fetches the
	// connected account's identity, and upserts the integration. The
	// state's user must match the authenticated user.
	Exchange(ctx context.Context, auth *domain.AuthContext, req ExchangeRequest) (*ExchangeResponse, error)
}
