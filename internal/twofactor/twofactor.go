// Package twofactor manages TOTP secrets for authenticator apps and SMS passcodes.
package twofactor

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image/png"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	"go.uber.org/zap"

	"github.com/Mastel22/boondocks-bn-backend/internal/dto"
	"github.com/Mastel22/boondocks-bn-backend/internal/logger"
	"github.com/Mastel22/boondocks-bn-backend/internal/metrics"
	"github.com/Mastel22/boondocks-bn-backend/internal/models"
	"github.com/Mastel22/boondocks-bn-backend/internal/repository"
	"github.com/Mastel22/boondocks-bn-backend/internal/sms"
)

const (
	// Issuer is shown next to the account in authenticator apps
	Issuer = "Barefoot Nomad"

	appPeriod  = 30
	smsPeriod  = 60
	secretSize = 20
	qrSize     = 200
)

var (
	ErrPhoneRequired = errors.New("phone number required for sms 2fa")
	ErrNotEnabled    = errors.New("2fa not enabled")
	ErrUnsupported   = errors.New("unsupported 2fa type")
	ErrInvalidCode   = errors.New("invalid totp token")
	ErrSendFailed    = errors.New("failed to send passcode")
	ErrMissingSecret = errors.New("2fa secret missing")
)

// Service wraps the TOTP library and the SMS gateway
type Service struct {
	users repository.UserRepository
	sms   sms.Sender
	now   func() time.Time
}

// NewService creates a 2FA service
func NewService(users repository.UserRepository, sender sms.Sender) *Service {
	return &Service{
		users: users,
		sms:   sender,
		now:   time.Now,
	}
}

// SetClock replaces the time source, for tests
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

func validateOpts(t models.TwoFAType) totp.ValidateOpts {
	period := uint(appPeriod)
	if t.IsSMS() {
		period = smsPeriod
	}
	return totp.ValidateOpts{
		Period:    period,
		Skew:      1,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	}
}

// Verify checks code against secret using the period of the given type
func (s *Service) Verify(secret, code string, t models.TwoFAType) bool {
	if secret == "" || code == "" {
		return false
	}
	ok, err := totp.ValidateCustom(code, secret, s.now().UTC(), validateOpts(t))
	return err == nil && ok
}

// Generate returns the current code for secret and the text message that carries it
func (s *Service) Generate(secret string, t models.TwoFAType) (string, string, error) {
	code, err := totp.GenerateCodeCustom(secret, s.now().UTC(), validateOpts(t))
	if err != nil {
		return "", "", fmt.Errorf("failed to generate passcode: %w", err)
	}
	return code, PasscodeMessage(code), nil
}

// PasscodeMessage is the SMS text for a code
func PasscodeMessage(code string) string {
	return "Your 6 Digit 60 seconds expiration PassCode is: " + code
}

// SetupSecret creates a new pending secret of type t for user. For SMS, a given phone
// number is saved first and a passcode is sent to it.
func (s *Service) SetupSecret(ctx context.Context, user *models.User, t models.TwoFAType, phone string) (*dto.TwoFAResponse, error) {
	base := t.Base()
	if base != models.TwoFAAuthenticatorApp && base != models.TwoFASMSText {
		return nil, ErrUnsupported
	}

	if phone != "" {
		user.PhoneNumber = phone
	}
	if base == models.TwoFASMSText && user.PhoneNumber == "" {
		return nil, ErrPhoneRequired
	}

	period := uint(appPeriod)
	if base == models.TwoFASMSText {
		period = smsPeriod
	}
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      Issuer,
		AccountName: user.Email,
		Period:      period,
		SecretSize:  secretSize,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate TOTP secret: %w", err)
	}

	dataURL := ""
	if base == models.TwoFAAuthenticatorApp {
		dataURL, err = qrDataURL(key)
		if err != nil {
			return nil, err
		}
	}

	user.TwoFAType = base.Temp()
	user.TwoFASecret = key.Secret()
	user.TwoFADataURL = dataURL

	err = s.users.UpdateFields(ctx, user.ID, map[string]interface{}{
		"phone_number":    user.PhoneNumber,
		"two_fa_type":     user.TwoFAType,
		"two_fa_secret":   user.TwoFASecret,
		"two_fa_data_url": user.TwoFADataURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store TOTP secret: %w", err)
	}

	if base == models.TwoFASMSText {
		if err := s.sendCode(ctx, user.PhoneNumber, user.TwoFASecret, base); err != nil {
			return nil, err
		}
	}

	logger.Log.Info("2FA secret created",
		logger.WithUserID(user.ID),
		zap.String("type", string(user.TwoFAType)),
	)
	return Describe(user), nil
}

// Get describes the user's current 2FA configuration
func (s *Service) Get(user *models.User) *dto.TwoFAResponse {
	return Describe(user)
}

// Remove disables 2FA for user
func (s *Service) Remove(ctx context.Context, user *models.User) (*dto.TwoFAResponse, error) {
	user.TwoFAType = models.TwoFANone
	user.TwoFASecret = ""
	user.TwoFADataURL = ""

	err := s.users.UpdateFields(ctx, user.ID, map[string]interface{}{
		"two_fa_type":     user.TwoFAType,
		"two_fa_secret":   "",
		"two_fa_data_url": "",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to remove TOTP secret: %w", err)
	}
	return Describe(user), nil
}

// VerifyUser checks code against the user's secret. A valid code confirms a pending
// secret by promoting its type. The returned response carries isTokenValid.
func (s *Service) VerifyUser(ctx context.Context, user *models.User, code string) (*dto.TwoFAResponse, error) {
	if user.TwoFAType == models.TwoFANone || user.TwoFAType == "" {
		return nil, ErrNotEnabled
	}

	valid := s.Verify(user.TwoFASecret, code, user.TwoFAType)
	metrics.RecordTwoFAVerification(string(user.TwoFAType.Base()), valid)
	if valid && user.TwoFAType.IsTemp() {
		final := user.TwoFAType.Base()
		if err := s.users.UpdateFields(ctx, user.ID, map[string]interface{}{"two_fa_type": final}); err != nil {
			return nil, fmt.Errorf("failed to activate 2FA: %w", err)
		}
		user.TwoFAType = final
	}

	resp := Describe(user)
	resp.IsTokenValid = &valid
	if !valid {
		return resp, ErrInvalidCode
	}
	return resp, nil
}

// SendCode texts a fresh passcode to the user's stored phone using the stored secret
func (s *Service) SendCode(ctx context.Context, user *models.User) error {
	if !user.TwoFAType.IsSMS() {
		return ErrNotEnabled
	}
	if user.TwoFASecret == "" {
		return ErrMissingSecret
	}
	if user.PhoneNumber == "" {
		return ErrPhoneRequired
	}
	return s.sendCode(ctx, user.PhoneNumber, user.TwoFASecret, models.TwoFASMSText)
}

func (s *Service) sendCode(ctx context.Context, phone, secret string, t models.TwoFAType) error {
	_, message, err := s.Generate(secret, t)
	if err != nil {
		return err
	}
	err = s.sms.Send(ctx, phone, message)
	metrics.RecordNotification("sms", "passcode", err)
	if err != nil {
		logger.Log.Error("Failed to send passcode", zap.Error(err))
		return fmt.Errorf("%w: %v", ErrSendFailed, err)
	}
	return nil
}

// Describe reports the 2FA fields a client needs for the user's configuration
func Describe(user *models.User) *dto.TwoFAResponse {
	resp := &dto.TwoFAResponse{
		TwoFAType:   string(user.TwoFAType),
		TwoFASecret: user.TwoFASecret,
	}
	if user.TwoFAType.IsSMS() {
		resp.PhoneNumber = user.PhoneNumber
	} else {
		resp.TwoFADataURL = user.TwoFADataURL
	}
	return resp
}

func qrDataURL(key *otp.Key) (string, error) {
	img, err := key.Image(qrSize, qrSize)
	if err != nil {
		return "", fmt.Errorf("failed to render QR code: %w", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("failed to encode QR code: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
