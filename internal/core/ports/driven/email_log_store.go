package driven

import (
	"context"

	"github.com/helioscrm/connect-core/internal/core/domain"
)

// EmailLogStore records sent emails. Writes are best-effort from the
// caller's perspective: a failure degrades the response, never fails it.
type EmailLogStore interface {
	Save(ctx context.Context, entry *domain.EmailLogEntry) error
}
