package google

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/helioscrm/connect-core/internal/core/domain"
	"github.com/helioscrm/connect-core/internal/core/ports/driven"
)

func TestCalendarClient_CreateEvent(t *testing.T) {
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || !strings.HasSuffix(r.URL.Path, "/calendars/primary/events") {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": "evt-123"}`))
	}))
	defer server.Close()

	client := NewCalendarClient(CalendarClientConfig{
		Endpoint:   server.URL,
		HTTPClient: server.Client(),
	})

	id, err := client.CreateEvent(context.Background(), "access-token", &driven.CalendarEvent{
		Summary:   "Site visit",
		Start:     "2026-09-01T10:00:00+02:00",
		End:       "2026-09-01T11:00:00+02:00",
		TimeZone:  "Europe/Amsterdam",
		Attendees: []string{"customer@example.com"},
	})
	if err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}
	if id != "evt-123" {
		t.Errorf("event id: got %q", id)
	}

	if gotBody["summary"] != "Site visit" {
		t.Errorf("summary: got %v", gotBody["summary"])
	}
	start, _ := gotBody["start"].(map[string]any)
	if start["dateTime"] != "2026-09-01T10:00:00+02:00" {
		t.Errorf("start.dateTime: got %v", start["dateTime"])
	}
	if start["timeZone"] != "Europe/Amsterdam" {
		t.Errorf("start.timeZone: got %v", start["timeZone"])
	}
}

func TestCalendarClient_UpdateEvent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch || !strings.HasSuffix(r.URL.Path, "/calendars/primary/events/evt-123") {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": "evt-123"}`))
	}))
	defer server.Close()

	client := NewCalendarClient(CalendarClientConfig{
		Endpoint:   server.URL,
		HTTPClient: server.Client(),
	})

	id, err := client.UpdateEvent(context.Background(), "access-token", &driven.CalendarEvent{
		ID:      "evt-123",
		Summary: "Site visit (rescheduled)",
		Start:   "2026-09-02T10:00:00+02:00",
		End:     "2026-09-02T11:00:00+02:00",
	})
	if err != nil {
		t.Fatalf("UpdateEvent: %v", err)
	}
	if id != "evt-123" {
		t.Errorf("event id: got %q", id)
	}
}

func TestCalendarClient_DeleteEvent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("unexpected method %s", r.Method)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewCalendarClient(CalendarClientConfig{
		Endpoint:   server.URL,
		HTTPClient: server.Client(),
	})

	if err := client.DeleteEvent(context.Background(), "access-token", "evt-123"); err != nil {
		t.Fatalf("DeleteEvent: %v", err)
	}
}

func TestCalendarClient_DeleteEvent_AlreadyGone(t *testing.T) {
	for _, status := range []int{http.StatusNotFound, http.StatusGone} {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			w.Write([]byte(`{"error": {"code": ` + strconv.Itoa(status) + `}}`))
		}))

		client := NewCalendarClient(CalendarClientConfig{
			Endpoint:   server.URL,
			HTTPClient: server.Client(),
		})

		if err := client.DeleteEvent(context.Background(), "access-token", "evt-gone"); err != nil {
			t.Errorf("DeleteEvent with %d: %v", status, err)
		}
		server.Close()
	}
}

func TestCalendarClient_CreateEvent_ProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": {"code": 401, "message": "Invalid Credentials"}}`))
	}))
	defer server.Close()

	client := NewCalendarClient(CalendarClientConfig{
		Endpoint:   server.URL,
		HTTPClient: server.Client(),
	})

	_, err := client.CreateEvent(context.Background(), "expired-token", &driven.CalendarEvent{
		Summary: "Site visit",
		Start:   "2026-09-01T10:00:00+02:00",
		End:     "2026-09-01T11:00:00+02:00",
	})

	var uerr *domain.UpstreamError
	if !errors.As(err, &uerr) {
		t.Fatalf("got %T (%v), want *domain.UpstreamError", err, err)
	}
	if uerr.StatusCode != http.StatusUnauthorized {
		t.Errorf("StatusCode: got %d, want 401", uerr.StatusCode)
	}
}
