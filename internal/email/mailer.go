package email

import (
	"context"
	"fmt"
	"html"

	"github.com/Mastel22/boondocks-bn-backend/internal/config"
)

// Mailer sends the account emails of the auth flow
type Mailer interface {
	SendVerificationEmail(ctx context.Context, to, name, link string) error
	SendPasswordResetEmail(ctx context.Context, to, name, link string) error
}

// Message is a rendered email with HTML and plain text bodies
type Message struct {
	Subject string
	HTML    string
	Text    string
}

// New builds the mailer selected by MAIL_DRIVER
func New(ctx context.Context, cfg *config.Config) (Mailer, error) {
	switch cfg.Mail.Driver {
	case "ses":
		return NewSESMailer(ctx, cfg.AWS.Region, cfg.Mail.From)
	case "smtp":
		if cfg.Mail.SMTPHost == "" {
			return nil, fmt.Errorf("SMTP_HOST is required when MAIL_DRIVER=smtp")
		}
		return NewSMTPMailer(cfg.Mail.SMTPHost, cfg.Mail.SMTPPort, cfg.Mail.SMTPUser, cfg.Mail.SMTPPass, cfg.Mail.From), nil
	case "log", "":
		return NewLogMailer(), nil
	default:
		return nil, fmt.Errorf("unsupported mail driver %q", cfg.Mail.Driver)
	}
}

// VerificationMessage renders the email sent after signup
func VerificationMessage(name, link string) Message {
	safeName := html.EscapeString(name)
	safeLink := html.EscapeString(link)

	htmlBody := fmt.Sprintf(`
		<!DOCTYPE html>
		<html>
		<head>
			<meta charset="UTF-8">
			<style>
				body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; }
				.container { max-width: 600px; margin: 0 auto; padding: 20px; }
				.button { display: inline-block; padding: 12px 24px; background-color: #0a7e5e; color: white; text-decoration: none; border-radius: 6px; margin: 20px 0; }
			</style>
		</head>
		<body>
			<div class="container">
				<h1>Welcome to Barefoot Nomad, %s</h1>
				<p>Please confirm your email address to start booking trips and accommodation.</p>
				<a href="%s" class="button">Verify Email</a>
				<p>Or copy and paste this link into your browser:</p>
				<p style="word-break: break-all; color: #666;">%s</p>
				<p>If the link has expired, request a new one from the sign in page.</p>
			</div>
		</body>
		</html>
	`, safeName, safeLink, safeLink)

	textBody := fmt.Sprintf(`
Welcome to Barefoot Nomad, %s

Please confirm your email address by opening the link below:

%s

If the link has expired, request a new one from the sign in page.
	`, name, link)

	return Message{
		Subject: "Verify your Barefoot Nomad account",
		HTML:    htmlBody,
		Text:    textBody,
	}
}

// PasswordResetMessage renders the forgot-password email
func PasswordResetMessage(name, link string) Message {
	safeName := html.EscapeString(name)
	safeLink := html.EscapeString(link)

	htmlBody := fmt.Sprintf(`
		<!DOCTYPE html>
		<html>
		<head>
			<meta charset="UTF-8">
			<style>
				body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; }
				.container { max-width: 600px; margin: 0 auto; padding: 20px; }
				.button { display: inline-block; padding: 12px 24px; background-color: #0a7e5e; color: white; text-decoration: none; border-radius: 6px; margin: 20px 0; }
			</style>
		</head>
		<body>
			<div class="container">
				<h1>Reset Your Password</h1>
				<p>Hi %s, you requested to reset your Barefoot Nomad password.</p>
				<p>Click the button below to choose a new password. This link will expire in 1 hour and works once.</p>
				<a href="%s" class="button">Reset Password</a>
				<p>Or copy and paste this link into your browser:</p>
				<p style="word-break: break-all; color: #666;">%s</p>
				<p>If you didn't request this password reset, you can safely ignore this email.</p>
			</div>
		</body>
		</html>
	`, safeName, safeLink, safeLink)

	textBody := fmt.Sprintf(`
Reset Your Barefoot Nomad Password

Hi %s, you requested to reset your password.

Open the link below to choose a new password. This link will expire in 1 hour and works once.

%s

If you didn't request this password reset, you can safely ignore this email.
	`, name, link)

	return Message{
		Subject: "Reset your Barefoot Nomad password",
		HTML:    htmlBody,
		Text:    textBody,
	}
}
