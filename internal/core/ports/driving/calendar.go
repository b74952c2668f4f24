package driving

import (
	"context"

	"github.com/helioscrm/connect-core/internal/core/domain"
)

// Event operations accepted by the calendar proxy.
const (
	EventOpCreate = "create"
	EventOpUpdate = "update"
	EventOpDelete = "delete"
)

// EventPayload describes a calendar event mutation. GoogleEventID is
// required for update and delete.
type EventPayload struct {
	GoogleEventID string   `json:"googleEventId,omitempty"`
	Summary       string   `json:"summary,omitempty"`
	Description   string   `json:"description,omitempty"`
	Location      string   `json:"location,omitempty"`
	Start         string   `json:"start,omitempty"` // RFC 3339
	End           string   `json:"end,omitempty"`   // RFC 3339
	TimeZone      string   `json:"timeZone,omitempty"`
	Attendees     []string `json:"attendees,omitempty"`
}

// EventRequest identifies one calendar operation.
type EventRequest struct {
	Op    string       `json:"op"`
	Event EventPayload `json:"event"`
}

// EventResponse is returned after a successful calendar mutation.
type EventResponse struct {
	OK            bool   `json:"ok"`
	GoogleEventID string `json:"googleEventId"`
	Message       string `json:"message"`
}

// CalendarService performs one calendar operation per request on behalf of
// a connected integration, refreshing the access token first if expired.
type CalendarService interface {
	Mutate(ctx context.Context, auth *domain.AuthContext, req EventRequest) (*EventResponse, error)
}
