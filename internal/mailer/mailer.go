package mailer

import (
	"fmt"
	"net/smtp"

	"humdum-app/internal/config"
	"humdum-app/internal/logger"
)

// Sender delivers password reset codes. Injected as an interface so tests
// can use a double instead of a live SMTP server.
type Sender interface {
	SendResetCode(to, code string) error
}

// SMTPMailer implements Sender over plain SMTP with auth
type SMTPMailer struct {
	config config.MailConfig
}

// NewSMTPMailer creates a mailer with config
func NewSMTPMailer(mailConfig config.MailConfig) *SMTPMailer {
	return &SMTPMailer{config: mailConfig}
}

// SendResetCode emails a password reset code to the given address
func (m *SMTPMailer) SendResetCode(to, code string) error {
	addr := m.config.Host + ":" + m.config.Port
	auth := smtp.PlainAuth("", m.config.Username, m.config.Password, m.config.Host)

	msg := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: Your Password Reset Code\r\n\r\nUse this code to reset your password: %s\r\n",
		m.config.From, to, code,
	)

	if err := smtp.SendMail(addr, auth, m.config.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("error sending reset code: %w", err)
	}

	logger.Log.WithField("to", to).Info("Sent password reset code")
	return nil
}
