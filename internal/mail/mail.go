// Package mail delivers account emails such as address verification.
package mail

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
)

// Message is a plain-text email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Mailer sends a Message.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// LogMailer writes messages to the log instead of sending them.
// It is selected when no SMTP host is configured, so local development can
// copy the verification link straight from the server output.
type LogMailer struct {
	log *slog.Logger
}

// NewLogMailer returns a LogMailer writing to log.
func NewLogMailer(log *slog.Logger) *LogMailer {
	return &LogMailer{log: log}
}

// Send logs msg at info level.
func (m *LogMailer) Send(ctx context.Context, msg Message) error {
	m.log.InfoContext(ctx, "outgoing mail",
		"to", msg.To,
		"subject", msg.Subject,
		"body", msg.Body,
	)
	return nil
}

// VerificationMessage builds the email asking to to confirm their address.
// The link points at the frontend's /verify page, which forwards the token
// to GET /auth/verify.
func VerificationMessage(to, baseURL, token string) Message {
	link := strings.TrimRight(baseURL, "/") + "/verify?token=" + url.QueryEscape(token)
	return Message{
		To:      to,
		Subject: "Confirm your Notekeeper email address",
		Body: fmt.Sprintf(
			"Welcome to Notekeeper!\n\nConfirm your email address by opening this link:\n\n%s\n\nIf you did not create an account you can ignore this message.\n",
			link,
		),
	}
}
