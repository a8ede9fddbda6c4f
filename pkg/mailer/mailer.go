// Package mailer delivers transactional email.
package mailer

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"

	"github.com/d60-Lab/shelf/config"
	"github.com/d60-Lab/shelf/pkg/logger"
)

type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// New returns an SMTP mailer, or a log-only mailer when no host is configured.
func New(cfg config.MailConfig) Mailer {
	if cfg.Host == "" {
		return LogMailer{}
	}
	return &SMTPMailer{cfg: cfg}
}

type SMTPMailer struct {
	cfg config.MailConfig
}

func (m *SMTPMailer) Send(_ context.Context, to, subject, htmlBody string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", m.cfg.From)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-version: 1.0;\r\nContent-Type: text/html; charset=\"UTF-8\";\r\n\r\n")
	b.WriteString(htmlBody)

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}
	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, []byte(b.String())); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}

// LogMailer writes messages to the log instead of sending them.
// The body (reset links included) only shows up at debug level.
type LogMailer struct{}

func (LogMailer) Send(_ context.Context, to, subject, htmlBody string) error {
	logger.Info("mail not configured, dropping message", zap.String("to", to), zap.String("subject", subject))
	logger.Debug("dropped mail body", zap.String("to", to), zap.String("body", htmlBody))
	return nil
}
