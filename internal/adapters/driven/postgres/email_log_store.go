package postgres

import (
	"context"
	"fmt"

	"github.com/helioscrm/connect-core/internal/core/domain"
	"github.com/helioscrm/connect-core/internal/core/ports/driven"
)

// Ensure EmailLogStore implements the interface.
var _ driven.EmailLogStore = (*EmailLogStore)(nil)

// EmailLogStore implements driven.EmailLogStore using PostgreSQL.
type EmailLogStore struct {
	db *DB
}

// NewEmailLogStore creates a new PostgreSQL-backed email log store.
func NewEmailLogStore(db *DB) *EmailLogStore {
	return &EmailLogStore{db: db}
}

// Save records one sent email.
func (s *EmailLogStore) Save(ctx context.Context, entry *domain.EmailLogEntry) error {
	query := `
		INSERT INTO email_logs (
			id, user_id, workspace_id, to_email, subject,
			quote_id, invoice_id, message_id, sent_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	quoteID := nullIfEmpty(entry.QuoteID)
	invoiceID := nullIfEmpty(entry.InvoiceID)

	_, err := s.db.ExecContext(ctx, query,
		entry.ID,
		entry.UserID,
		entry.WorkspaceID,
		entry.To,
		entry.Subject,
		NullString(quoteID),
		NullString(invoiceID),
		entry.MessageID,
		entry.SentAt,
	)
	if err != nil {
		return fmt.Errorf("save email log: %w", err)
	}
	return nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
