package mail

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	gomail "gopkg.in/gomail.v2"

	"github.com/bamiogunfemi/amy-sub000/internal/config"
)

// Mailer is the outbound email capability consumed by the password-reset
// flow. Delivery mechanics stay behind this interface.
type Mailer interface {
	SendPasswordResetEmail(ctx context.Context, address, token string) error
}

type smtpMailer struct {
	cfg    config.MailConfig
	logger *zap.Logger
}

// NewMailer returns an SMTP-backed mailer, or a logging stub when no SMTP
// host is configured (local development).
func NewMailer(cfg config.MailConfig, logger *zap.Logger) Mailer {
	if cfg.SMTPHost == "" {
		logger.Warn("MAIL_SMTP_HOST not provided; outbound mail will only be logged")
		return &logMailer{logger: logger}
	}
	return &smtpMailer{cfg: cfg, logger: logger}
}

func (m *smtpMailer) SendPasswordResetEmail(_ context.Context, address, token string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.FromAddress)
	msg.SetHeader("To", address)
	msg.SetHeader("Subject", "Reset your password")
	msg.SetBody("text/html", fmt.Sprintf(
		`<p>We received a request to reset your password.</p>
<p><a href="%s?token=%s">Set a new password</a></p>
<p>The link expires in one hour. If you did not request this, ignore this email.</p>`,
		m.cfg.ResetBaseURL, token,
	))

	dialer := gomail.NewDialer(m.cfg.SMTPHost, m.cfg.SMTPPort, m.cfg.SMTPUser, m.cfg.SMTPPassword)
	if err := dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send reset email: %w", err)
	}
	return nil
}

type logMailer struct {
	logger *zap.Logger
}

func (m *logMailer) SendPasswordResetEmail(_ context.Context, address, token string) error {
	m.logger.Info("password reset email (stub)",
		zap.String("to", address),
		zap.String("token", token),
	)
	return nil
}
