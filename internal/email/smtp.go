package email

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/domodwyer/mailyak/v3"
	"go.uber.org/zap"

	"github.com/Mastel22/boondocks-bn-backend/internal/logger"
)

// SMTPMailer sends emails through an SMTP relay
type SMTPMailer struct {
	host     string
	port     int
	username string
	password string
	from     string
}

// NewSMTPMailer creates a mailer for the given relay
func NewSMTPMailer(host string, port int, username, password, from string) *SMTPMailer {
	return &SMTPMailer{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

// SendVerificationEmail sends the signup verification link
func (m *SMTPMailer) SendVerificationEmail(ctx context.Context, to, name, link string) error {
	if err := m.send(ctx, to, VerificationMessage(name, link)); err != nil {
		return fmt.Errorf("failed to send verification email: %w", err)
	}
	return nil
}

// SendPasswordResetEmail sends the password reset link
func (m *SMTPMailer) SendPasswordResetEmail(ctx context.Context, to, name, link string) error {
	if err := m.send(ctx, to, PasswordResetMessage(name, link)); err != nil {
		return fmt.Errorf("failed to send password reset email: %w", err)
	}
	return nil
}

func (m *SMTPMailer) send(ctx context.Context, to string, msg Message) error {
	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}
	mail := mailyak.New(fmt.Sprintf("%s:%d", m.host, m.port), auth)

	mail.To(to)
	mail.From(m.from)
	mail.Subject(msg.Subject)
	mail.HTML().Set(msg.HTML)
	mail.Plain().Set(msg.Text)

	// mailyak has no context support; abandon the send when ctx ends
	done := make(chan error, 1)
	go func() {
		done <- mail.Send()
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		if err != nil {
			return err
		}
	}

	logger.Log.Debug("Email sent over SMTP", zap.String("to", to), zap.String("subject", msg.Subject))
	return nil
}
