package utils

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"adboard/config"
)

// NotificationMailer dispatches Email-channel notifications over SMTP.
type NotificationMailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewNotificationMailer returns nil when SMTP is not configured; callers
// treat a nil mailer as "dispatch unavailable".
func NewNotificationMailer(cfg config.SMTPConfig) *NotificationMailer {
	if cfg.Host == "" {
		return nil
	}
	return &NotificationMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (m *NotificationMailer) Send(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send notification email: %w", err)
	}
	return nil
}
