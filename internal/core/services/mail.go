package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/helioscrm/connect-core/internal/core/domain"
	"github.com/helioscrm/connect-core/internal/core/ports/driven"
	"github.com/helioscrm/connect-core/internal/core/ports/driving"
)

// Ensure mailService implements MailService
var _ driving.MailService = (*mailService)(nil)

// MailServiceConfig holds configuration for the Gmail send service.
type MailServiceConfig struct {
	Integrations      driven.IntegrationStore
	Credentials       *domain.WorkspaceCredentials
	LegacyCredentials driven.CredentialsStore
	OAuth             driven.OAuthClient
	Mail              driven.MailClient
	EmailLog          driven.EmailLogStore
	Lock              driven.DistributedLock
	Logger            *slog.Logger
}

// mailService sends one email per request through the caller's Gmail
// integration and records it in the email log.
type mailService struct {
	integrations driven.IntegrationStore
	mail         driven.MailClient
	emailLog     driven.EmailLogStore
	refresher    *tokenRefresher
	logger       *slog.Logger
	now          func() time.Time
}

// NewMailService creates a new Gmail send service.
func NewMailService(cfg MailServiceConfig) driving.MailService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &mailService{
		integrations: cfg.Integrations,
		mail:         cfg.Mail,
		emailLog:     cfg.EmailLog,
		logger:       logger,
		now:          time.Now,
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

// Send delivers a single email. The email-log write afterwards is
// best-effort: a failure is logged and surfaced as a degraded success,
// never as a request failure.
func (s *mailService) Send(ctx context.Context, auth *domain.AuthContext, req driving.SendMailRequest) (*driving.SendMailResponse, error) {
	if req.To == "" || req.Subject == "" || (req.HTML == "" && req.Text == "") {
		return nil, domain.ErrInvalidInput
	}

	integ, err := s.integrations.Get(ctx, auth.UserID, domain.KindGmail)
	if err != nil {
		return nil, err
	}

	integ, err = s.refresher.ensureFresh(ctx, integ)
	if err != nil {
		return nil, err
	}

	messageID, err := s.mail.Send(ctx, integ.AccessToken, &driven.OutgoingMail{
		From:    integ.Email,
		To:      req.To,
		Subject: req.Subject,
		HTML:    req.HTML,
		Text:    req.Text,
	})
	if err != nil {
		return nil, fmt.Errorf("gmail send: %w", err)
	}

	now := s.now()
	logErr := s.emailLog.Save(ctx, &domain.EmailLogEntry{
		ID:          uuid.NewString(),
		UserID:      auth.UserID,
		WorkspaceID: integ.WorkspaceID,
		To:          req.To,
		Subject:     req.Subject,
		QuoteID:     req.QuoteID,
		InvoiceID:   req.InvoiceID,
		MessageID:   messageID,
		SentAt:      now,
	})
	if logErr != nil {
		soft := &domain.SoftError{Op: "email log write", Err: logErr}
		s.logger.Warn("email sent but not logged",
			"user_id", auth.UserID, "message_id", messageID, "reason", soft.Error())
	}

	if err := s.integrations.TouchLastSynced(ctx, integ.ID, now); err != nil {
		s.logger.Warn("update last_synced_at", "integration_id", integ.ID, "error", err)
	}

	s.logger.Info("email sent",
		"user_id", auth.UserID, "to", req.To, "message_id", messageID)

	return &driving.SendMailResponse{
		OK:        true,
		MessageID: messageID,
		Message:   "email sent",
	}, nil
}
