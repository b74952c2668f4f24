package google

import (
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"net/http"
	"strings"

	"google.golang.org/api/gmail/v1"

	"github.com/helioscrm/connect-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.MailClient = (*MailClient)(nil)

// MailClientConfig carries endpoint overrides for tests.
type MailClientConfig struct {
	Endpoint   string
	HTTPClient *http.Client
}

// MailClient sends email through the Gmail API on behalf of the connected
// account.
type MailClient struct {
	endpoint   string
	httpClient *http.Client
}

// NewMailClient creates a Gmail send client.
func NewMailClient(cfg MailClientConfig) *MailClient {
	return &MailClient{
		endpoint:   cfg.Endpoint,
		httpClient: cfg.HTTPClient,
	}
}

// Send builds an RFC 2822 message, base64url-encodes it, and submits it as
// the authenticated user. Returns the Gmail message id.
func (c *MailClient) Send(ctx context.Context, accessToken string, outgoing *driven.OutgoingMail) (string, error) {
	srv, err := newGmailService(ctx, accessToken, c.endpoint, c.httpClient)
	if err != nil {
		return "", fmt.Errorf("create gmail service: %w", err)
	}

	raw := base64.RawURLEncoding.EncodeToString([]byte(buildMessage(outgoing)))
	sent, err := srv.Users.Messages.Send("me", &gmail.Message{Raw: raw}).Context(ctx).Do()
	if err != nil {
		return "", upstreamErr("gmail send", err)
	}
	return sent.Id, nil
}

// mimeBoundary separates the alternative parts. Message bodies are
// base64url-wrapped before transmission, so a fixed boundary is safe.
const mimeBoundary = "connect-core-alt"

// buildMessage assembles the RFC 2822 payload. Messages with both bodies go
// out as multipart/alternative with the HTML part last, so capable clients
// prefer it.
func buildMessage(outgoing *driven.OutgoingMail) string {
	var b strings.Builder

	fmt.Fprintf(&b, "From: %s\r\n", outgoing.From)
	fmt.Fprintf(&b, "To: %s\r\n", outgoing.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("UTF-8", outgoing.Subject))
	b.WriteString("MIME-Version: 1.0\r\n")

	switch {
	case outgoing.HTML != "" && outgoing.Text != "":
		fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%q\r\n\r\n", mimeBoundary)
		writePart(&b, "text/plain", outgoing.Text)
		writePart(&b, "text/html", outgoing.HTML)
		fmt.Fprintf(&b, "--%s--\r\n", mimeBoundary)
	case outgoing.HTML != "":
		b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n")
		b.WriteString(outgoing.HTML)
	default:
		b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n\r\n")
		b.WriteString(outgoing.Text)
	}

	return b.String()
}

func writePart(b *strings.Builder, contentType, body string) {
	fmt.Fprintf(b, "--%s\r\n", mimeBoundary)
	fmt.Fprintf(b, "Content-Type: %s; charset=\"UTF-8\"\r\n\r\n", contentType)
	b.WriteString(body)
	b.WriteString("\r\n")
}
