package driving

import (
	"context"

	"github.com/helioscrm/connect-core/internal/core/domain"
)

// SendMailRequest describes one outgoing email. At least one of HTML or
// Text must be set.
type SendMailRequest struct {
	To        string `json:"to"`
	Subject   string `json:"subject"`
	HTML      string `json:"html,omitempty"`
	Text      string `json:"text,omitempty"`
	QuoteID   string `json:"quoteId,omitempty"`
	InvoiceID string `json:"invoiceId,omitempty"`
}

// SendMailResponse is returned after a successful send.
type SendMailResponse struct {
	OK        bool   `json:"ok"`
	MessageID string `json:"messageId"`
	Message   string `json:"message"`
}

// MailService sends one email per request through the caller's connected
// Gmail integration.
type MailService interface {
	Send(ctx context.Context, auth *domain.AuthContext, req SendMailRequest) (*SendMailResponse, error)
}
