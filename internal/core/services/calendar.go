package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/helioscrm/connect-core/internal/core/domain"
	"github.com/helioscrm/connect-core/internal/core/ports/driven"
	"github.com/helioscrm/connect-core/internal/core/ports/driving"
)

// Ensure calendarService implements CalendarService
var _ driving.CalendarService = (*calendarService)(nil)

// CalendarServiceConfig holds configuration for the calendar proxy service.
type CalendarServiceConfig struct {
	Integrations      driven.IntegrationStore
	Credentials       *domain.WorkspaceCredentials
	LegacyCredentials driven.CredentialsStore
	OAuth             driven.OAuthClient
	Calendar          driven.CalendarClient
	Lock              driven.DistributedLock
	Logger            *slog.Logger
}

// calendarService performs one calendar mutation per request against the
// connected account's primary calendar.
type calendarService struct {
	integrations driven.IntegrationStore
	calendar     driven.CalendarClient
	refresher    *tokenRefresher
	logger       *slog.Logger
}

// NewCalendarService creates a new calendar proxy service.
func NewCalendarService(cfg CalendarServiceConfig) driving.CalendarService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &calendarService{
		integrations: cfg.Integrations,
		calendar:     cfg.Calendar,
		logger:       logger,
		refresher: &tokenRefresher{
			integrations: cfg.Integrations,
			oauth:        cfg.OAuth,
			lock:         cfg.Lock,
			creds:        credentialsResolver{static: cfg.Credentials, legacy: cfg.LegacyCredentials},
			logger:       logger,
			now:          time.Now,
		},
	}
}

// Mutate loads the caller's calendar integration, refreshes its token if
// expired, and issues exactly one provider call. No retries: a retried
// client call may create a duplicate remote event.
func (s *calendarService) Mutate(ctx context.Context, auth *domain.AuthContext, req driving.EventRequest) (*driving.EventResponse, error) {
	if err := validateEventRequest(req); err != nil {
		return nil, err
	}

	integ, err := s.integrations.Get(ctx, auth.UserID, domain.KindCalendar)
	if err != nil {
		return nil, err
	}

	integ, err = s.refresher.ensureFresh(ctx, integ)
	if err != nil {
		return nil, err
	}

	event := &driven.CalendarEvent{
		ID:          req.Event.GoogleEventID,
		Summary:     req.Event.Summary,
		Description: req.Event.Description,
		Location:    req.Event.Location,
		Start:       req.Event.Start,
		End:         req.Event.End,
		TimeZone:    req.Event.TimeZone,
		Attendees:   req.Event.Attendees,
	}

	var eventID string
	switch req.Op {
	case driving.EventOpCreate:
		eventID, err = s.calendar.CreateEvent(ctx, integ.AccessToken, event)
	case driving.EventOpUpdate:
		eventID, err = s.calendar.UpdateEvent(ctx, integ.AccessToken, event)
	case driving.EventOpDelete:
		eventID = req.Event.GoogleEventID
		err = s.calendar.DeleteEvent(ctx, integ.AccessToken, req.Event.GoogleEventID)
	}
	if err != nil {
		return nil, fmt.Errorf("calendar %s: %w", req.Op, err)
	}

	s.logger.Info("calendar event mutated",
		"user_id", auth.UserID, "op", req.Op, "google_event_id", eventID)

	return &driving.EventResponse{
		OK:            true,
		GoogleEventID: eventID,
		Message:       fmt.Sprintf("event %s successful", req.Op),
	}, nil
}

func validateEventRequest(req driving.EventRequest) error {
	switch req.Op {
	case driving.EventOpCreate:
		if req.Event.Summary == "" || req.Event.Start == "" || req.Event.End == "" {
			return domain.ErrInvalidInput
		}
	case driving.EventOpUpdate, driving.EventOpDelete:
		if req.Event.GoogleEventID == "" {
			return domain.ErrInvalidInput
		}
	default:
		return domain.ErrInvalidInput
	}
	return nil
}
