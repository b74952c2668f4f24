package domain

import "time"

// EmailLogEntry records an email sent through the Gmail proxy. Writing the
// log is best-effort: a failed insert degrades the send response, it never
// fails it.
type EmailLogEntry struct {
	ID          string
	UserID      string
	WorkspaceID string
	To          string
	Subject     string

	// QuoteID and InvoiceID link the email to the CRM record it was sent
	// from, when the client provides one.
	QuoteID   string
	InvoiceID string

	// MessageID is the provider-assigned Gmail message id.
	MessageID string

	SentAt time.Time
}
