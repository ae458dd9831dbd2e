package email

import (
	"context"

	"go.uber.org/zap"

	"github.com/Mastel22/boondocks-bn-backend/internal/logger"
)

// LogMailer writes links to the log instead of sending mail. Used in development.
type LogMailer struct{}

// NewLogMailer creates a LogMailer
func NewLogMailer() *LogMailer {
	return &LogMailer{}
}

func (LogMailer) SendVerificationEmail(ctx context.Context, to, name, link string) error {
	logger.Log.Info("Verification email (not sent)", zap.String("to", to), zap.String("link", link))
	return nil
}

func (LogMailer) SendPasswordResetEmail(ctx context.Context, to, name, link string) error {
	logger.Log.Info("Password reset email (not sent)", zap.String("to", to), zap.String("link", link))
	return nil
}
