package google

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"

	"github.com/helioscrm/connect-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.CalendarClient = (*CalendarClient)(nil)

// primaryCalendar is the calendar id every mutation targets. Per-calendar
// routing is out of scope for now.
const primaryCalendar = "primary"

// CalendarClientConfig carries endpoint overrides for tests.
type CalendarClientConfig struct {
	Endpoint   string
	HTTPClient *http.Client
}

// CalendarClient performs event mutations through the Google Calendar API.
type CalendarClient struct {
	endpoint   string
	httpClient *http.Client
}

// NewCalendarClient creates a Google Calendar client.
func NewCalendarClient(cfg CalendarClientConfig) *CalendarClient {
	return &CalendarClient{
		endpoint:   cfg.Endpoint,
		httpClient: cfg.HTTPClient,
	}
}

// CreateEvent inserts an event on the primary calendar and returns the
// provider-assigned event id.
func (c *CalendarClient) CreateEvent(ctx context.Context, accessToken string, event *driven.CalendarEvent) (string, error) {
	srv, err := newCalendarService(ctx, accessToken, c.endpoint, c.httpClient)
	if err != nil {
		return "", fmt.Errorf("create calendar service: %w", err)
	}

	created, err := srv.Events.Insert(primaryCalendar, toAPIEvent(event)).Context(ctx).Do()
	if err != nil {
		return "", upstreamErr("calendar insert", err)
	}
	return created.Id, nil
}

// UpdateEvent patches an existing event identified by event.ID.
func (c *CalendarClient) UpdateEvent(ctx context.Context, accessToken string, event *driven.CalendarEvent) (string, error) {
	srv, err := newCalendarService(ctx, accessToken, c.endpoint, c.httpClient)
	if err != nil {
		return "", fmt.Errorf("create calendar service: %w", err)
	}

	updated, err := srv.Events.Patch(primaryCalendar, event.ID, toAPIEvent(event)).Context(ctx).Do()
	if err != nil {
		return "", upstreamErr("calendar patch", err)
	}
	return updated.Id, nil
}

// DeleteEvent removes an event. Deleting an event that is already gone is
// treated as success.
func (c *CalendarClient) DeleteEvent(ctx context.Context, accessToken, eventID string) error {
	srv, err := newCalendarService(ctx, accessToken, c.endpoint, c.httpClient)
	if err != nil {
		return fmt.Errorf("create calendar service: %w", err)
	}

	err = srv.Events.Delete(primaryCalendar, eventID).Context(ctx).Do()
	if err != nil {
		var gerr *googleapi.Error
		if errors.As(err, &gerr) && (gerr.Code == http.StatusNotFound || gerr.Code == http.StatusGone) {
			return nil
		}
		return upstreamErr("calendar delete", err)
	}
	return nil
}

func toAPIEvent(event *driven.CalendarEvent) *calendar.Event {
	ev := &calendar.Event{
		Summary:     event.Summary,
		Description: event.Description,
		Location:    event.Location,
	}
	if event.Start != "" {
		ev.Start = &calendar.EventDateTime{DateTime: event.Start, TimeZone: event.TimeZone}
	}
	if event.End != "" {
		ev.End = &calendar.EventDateTime{DateTime: event.End, TimeZone: event.TimeZone}
	}
	for _, email := range event.Attendees {
		ev.Attendees = append(ev.Attendees, &calendar.EventAttendee{Email: email})
	}
	return ev
}
