package sender

import (
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"

	"github.com/openoutreach/outreach-backend/internal/config"
)

// EmailSender is the send capability consumed by the dispatcher.
type EmailSender interface {
	Send(to, subject, body string) error
}

// New returns an SMTP-backed sender, or the mock when no SMTP host is
// configured.
func New(cfg config.SMTPConfig, logger *zap.Logger) EmailSender {
	if cfg.Host == "" {
		logger.Info("SMTP not configured, using mock email sender")
		return &Mock{Logger: logger}
	}
	return &SMTP{cfg: cfg}
}

// SMTP sends plain-text mail over a standard SMTP session.
type SMTP struct {
	cfg config.SMTPConfig
}

func (s *SMTP) Send(to, subject, body string) error {
	msg := strings.Join([]string{
		"From: " + s.cfg.FromEmail,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"utf-8\"",
		"",
		body,
	}, "\r\n")

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	if err := smtp.SendMail(addr, auth, s.cfg.FromEmail, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("send email to %s: %w", to, err)
	}
	return nil
}

// Mock pretends every send succeeds. Used in development and whenever SMTP
// credentials are absent.
type Mock struct {
	Logger *zap.Logger
}

func (m *Mock) Send(to, subject, body string) error {
	m.Logger.Info("mock email sent", zap.String("to", to), zap.String("subject", subject))
	return nil
}
