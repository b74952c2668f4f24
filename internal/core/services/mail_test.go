package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/helioscrm/connect-core/internal/core/domain"
	"github.com/helioscrm/connect-core/internal/core/ports/driven"
	"github.com/helioscrm/connect-core/internal/core/ports/driving"
)

func TestMailSend_Success(t *testing.T) {
	var touchedID string
	integrations := &mockIntegrationStore{
		getFn: func(ctx context.Context, userID string, kind domain.Kind) (*domain.UserIntegration, error) {
			if kind != domain.KindGmail {
				t.Errorf("kind: got %q", kind)
			}
			return freshIntegration(domain.KindGmail), nil
		},
		touchFn: func(ctx context.Context, id string, at time.Time) error {
			touchedID = id
			return nil
		},
	}

	var sent *driven.OutgoingMail
	mail := &mockMailClient{
		sendFn: func(ctx context.Context, accessToken string, outgoing *driven.OutgoingMail) (string, error) {
			sent = outgoing
			return "msg-1", nil
		},
	}
	var logged *domain.EmailLogEntry
	emailLog := &mockEmailLogStore{
		saveFn: func(ctx context.Context, entry *domain.EmailLogEntry) error {
			logged = entry
			return nil
		},
	}

	svc := NewMailService(MailServiceConfig{
		Integrations: integrations,
		Credentials:  testGoogleCreds,
		Mail:         mail,
		EmailLog:     emailLog,
		Lock:         &mockLock{},
	})

	resp, err := svc.Send(context.Background(), &domain.AuthContext{UserID: "u1"}, driving.SendMailRequest{
		To:      "customer@example.com",
		Subject: "Your quote",
		HTML:    "<p>Hi</p>",
		QuoteID: "q-1",
	})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if !resp.OK || resp.MessageID != "msg-1" || resp.Message != "email sent" {
		t.Errorf("unexpected response: %+v", resp)
	}

	if sent == nil {
		t.Fatal("nothing sent")
	}
	// The From address is the connected account, not the CRM user input
	if sent.From != "u1@example.com" {
		t.Errorf("from: got %q", sent.From)
	}
	if sent.To != "customer@example.com" || sent.HTML != "<p>Hi</p>" {
		t.Errorf("sent mail: %+v", sent)
	}

	if logged == nil {
		t.Fatal("no email log entry saved")
	}
	if logged.MessageID != "msg-1" || logged.QuoteID != "q-1" || logged.UserID != "u1" {
		t.Errorf("log entry: %+v", logged)
	}
	if touchedID != "int-1" {
		t.Errorf("last_synced_at touched for %q", touchedID)
	}
}

func TestMailSend_Validation(t *testing.T) {
	svc := NewMailService(MailServiceConfig{
		Integrations: &mockIntegrationStore{},
		Credentials:  testGoogleCreds,
		Mail:         &mockMailClient{},
		EmailLog:     &mockEmailLogStore{},
		Lock:         &mockLock{},
	})
	auth := &domain.AuthContext{UserID: "u1"}

	tests := []struct {
		name string
		req  driving.SendMailRequest
	}{
		{"missing to", driving.SendMailRequest{Subject: "s", Text: "t"}},
		{"missing subject", driving.SendMailRequest{To: "a@b.com", Text: "t"}},
		{"missing body", driving.SendMailRequest{To: "a@b.com", Subject: "s"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Send(context.Background(), auth, tt.req)
			if !errors.Is(err, domain.ErrInvalidInput) {
				t.Errorf("got %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestMailSend_NoIntegration(t *testing.T) {
	integrations := &mockIntegrationStore{
		getFn: func(ctx context.Context, userID string, kind domain.Kind) (*domain.UserIntegration, error) {
			return nil, domain.ErrIntegrationNotFound
		},
	}

	svc := NewMailService(MailServiceConfig{
		Integrations: integrations,
		Credentials:  testGoogleCreds,
		Mail:         &mockMailClient{},
		EmailLog:     &mockEmailLogStore{},
		Lock:         &mockLock{},
	})

	_, err := svc.Send(context.Background(), &domain.AuthContext{UserID: "u1"}, driving.SendMailRequest{
		To: "a@b.com", Subject: "s", Text: "t",
	})
	if !errors.Is(err, domain.ErrIntegrationNotFound) {
		t.Errorf("got %v, want ErrIntegrationNotFound", err)
	}
}

// A failed email-log write degrades to a warning; the send still succeeds.
func TestMailSend_LogFailureIsSoft(t *testing.T) {
	integrations := &mockIntegrationStore{
		getFn: func(ctx context.Context, userID string, kind domain.Kind) (*domain.UserIntegration, error) {
			return freshIntegration(domain.KindGmail), nil
		},
	}
	mail := &mockMailClient{
		sendFn: func(ctx context.Context, accessToken string, outgoing *driven.OutgoingMail) (string, error) {
			return "msg-1", nil
		},
	}
	emailLog := &mockEmailLogStore{
		saveFn: func(ctx context.Context, entry *domain.EmailLogEntry) error {
			return errors.New("log table unavailable")
		},
	}

	svc := NewMailService(MailServiceConfig{
		Integrations: integrations,
		Credentials:  testGoogleCreds,
		Mail:         mail,
		EmailLog:     emailLog,
		Lock:         &mockLock{},
	})

	resp, err := svc.Send(context.Background(), &domain.AuthContext{UserID: "u1"}, driving.SendMailRequest{
		To: "a@b.com", Subject: "s", Text: "t",
	})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if !resp.OK || resp.MessageID != "msg-1" {
		t.Errorf("unexpected response: %+v", resp)
	}
}

// Expired token on send: the refresh happens and the message goes out with
// the rotated access token.
func TestMailSend_RefreshesExpiredToken(t *testing.T) {
	integ := expiredIntegration(domain.KindGmail)
	integrations := &mockIntegrationStore{
		getFn: func(ctx context.Context, userID string, kind domain.Kind) (*domain.UserIntegration, error) {
			snapshot := *integ
			return &snapshot, nil
		},
		updateTokensFn: func(ctx context.Context, id, accessToken, refreshToken string, expiresAt, prevExpiresAt time.Time) (bool, error) {
			return true, nil
		},
	}
	oauth := &mockOAuthClient{
		refreshTokenFn: func(ctx context.Context, creds *domain.WorkspaceCredentials, refreshToken string) (*driven.OAuthToken, error) {
			return &driven.OAuthToken{AccessToken: "at-rotated", ExpiresIn: 3600}, nil
		},
	}
	var usedToken string
	mail := &mockMailClient{
		sendFn: func(ctx context.Context, accessToken string, outgoing *driven.OutgoingMail) (string, error) {
			usedToken = accessToken
			return "msg-1", nil
		},
	}

	svc := NewMailService(MailServiceConfig{
		Integrations: integrations,
		Credentials:  testGoogleCreds,
		OAuth:        oauth,
		Mail:         mail,
		EmailLog:     &mockEmailLogStore{},
		Lock:         &mockLock{},
	})

	resp, err := svc.Send(context.Background(), &domain.AuthContext{UserID: "u1"}, driving.SendMailRequest{
		To: "a@b.com", Subject: "s", Text: "t",
	})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if !resp.OK {
		t.Errorf("unexpected response: %+v", resp)
	}
	if usedToken != "at-rotated" {
		t.Errorf("sent with %q, want refreshed token", usedToken)
	}
}
