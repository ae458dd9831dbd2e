package auth

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"

	"github.com/Mastel22/boondocks-bn-backend/internal/config"
	"github.com/Mastel22/boondocks-bn-backend/internal/dto"
	"github.com/Mastel22/boondocks-bn-backend/internal/email"
	"github.com/Mastel22/boondocks-bn-backend/internal/logger"
	"github.com/Mastel22/boondocks-bn-backend/internal/metrics"
	"github.com/Mastel22/boondocks-bn-backend/internal/models"
	"github.com/Mastel22/boondocks-bn-backend/internal/repository"
	"github.com/Mastel22/boondocks-bn-backend/internal/twofactor"
)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrEmailInUse           = errors.New("email already in use")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrAlreadyVerified      = errors.New("user already verified")
	ErrInvalidVerifyToken   = errors.New("invalid verification token")
	ErrInvalidResetToken    = errors.New("invalid or expired password reset token")
	ErrInvalidAccessToken   = errors.New("invalid access token")
	ErrInvalidTwoFAToken    = errors.New("invalid 2fa token")
	ErrInvalidRole          = errors.New("invalid role")
	ErrOAuthNotConfigured   = errors.New("oauth provider not configured")
	ErrOAuthEmailUnverified = errors.New("oauth email not verified")
)

// Service handles all authentication operations
type Service struct {
	users        repository.UserRepository
	tokens       *TokenManager
	mailer       email.Mailer
	twoFA        *twofactor.Service
	ttl          config.JWTConfig
	appURL       string
	frontendURL  string
	googleConfig *oauth2.Config
	userInfoURL  string
}

// NewService creates a new authentication service
func NewService(cfg *config.Config, users repository.UserRepository, mailer email.Mailer, twoFA *twofactor.Service) *Service {
	s := &Service{
		users:       users,
		tokens:      NewTokenManager([]byte(cfg.JWT.Secret)),
		mailer:      mailer,
		twoFA:       twoFA,
		ttl:         cfg.JWT,
		appURL:      cfg.AppURL,
		frontendURL: cfg.FrontendURL,
		userInfoURL: googleUserInfoURL,
	}
	if cfg.OAuth != nil {
		s.googleConfig = cfg.OAuth.GoogleConfig
	}
	return s
}

// Tokens exposes the token manager
func (s *Service) Tokens() *TokenManager {
	return s.tokens
}

// Signup registers a user with email and password and sends a verification email
func (s *Service) Signup(ctx context.Context, req dto.SignupRequest) (*dto.SignupResponse, error) {
	_, err := s.users.GetUserByEmail(ctx, req.Email)
	if err == nil {
		return nil, ErrEmailInUse
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("database error: %w", err)
	}

	hashedPassword, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        models.NormalizeEmail(req.Email),
		PasswordHash: &hashedPassword,
		Role:         models.RoleRequester,
		TwoFAType:    models.TwoFANone,
	}
	if err := s.users.CreateUser(ctx, user); errors.Is(err, repository.ErrDuplicate) {
		// Lost a race with a concurrent signup for the same email
		return nil, ErrEmailInUse
	} else if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.tokens.Sign(user, PurposeAccess, s.ttl.AccessTTL)
	if err != nil {
		return nil, err
	}

	// Delivery problems must not fail the signup; the user can ask for a resend
	if err := s.sendVerification(ctx, user); err != nil {
		logger.Log.Warn("Failed to send verification email",
			logger.WithUserID(user.ID),
			zap.Error(err),
		)
	}

	metrics.RecordSignup()
	logger.Log.Info("User signed up", logger.WithUserID(user.ID))
	return &dto.SignupResponse{
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		Token:     token,
	}, nil
}

// Signin authenticates with email and password. When 2FA is active the response
// only carries a short-lived 2FA token, and SMS users are sent a passcode.
func (s *Service) Signin(ctx context.Context, req dto.SigninRequest) (*dto.SigninResponse, error) {
	user, err := s.users.GetUserByEmail(ctx, req.Email)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	} else if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	if !user.HasPassword() {
		metrics.RecordSignin("password", "failure")
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)); err != nil {
		metrics.RecordSignin("password", "failure")
		return nil, ErrInvalidCredentials
	}

	if user.TwoFAType.Active() {
		pending, err := s.tokens.Sign(user, PurposeTwoFA, s.ttl.TwoFAPendingTTL)
		if err != nil {
			return nil, err
		}
		if user.TwoFAType == models.TwoFASMSText {
			if err := s.twoFA.SendCode(ctx, user); err != nil {
				return nil, err
			}
		}
		metrics.RecordSignin("password", "twofa_pending")
		return &dto.SigninResponse{
			IsVerified:    user.IsVerified,
			TwoFARequired: true,
			TwoFAType:     string(user.TwoFAType),
			TwoFAToken:    pending,
		}, nil
	}

	metrics.RecordSignin("password", "success")
	return s.signinResponse(user)
}

// CompleteTwoFASignin exchanges a pending 2FA token and a valid code for an access token
func (s *Service) CompleteTwoFASignin(ctx context.Context, twoFAToken, code string) (*dto.SigninResponse, error) {
	claims, err := s.tokens.Parse(twoFAToken)
	if err != nil || claims.Purpose != PurposeTwoFA {
		return nil, ErrInvalidTwoFAToken
	}

	user, err := s.users.GetUser(ctx, claims.UserID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, ErrInvalidTwoFAToken
	} else if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	if !user.TwoFAType.Active() {
		return nil, twofactor.ErrNotEnabled
	}
	valid := s.twoFA.Verify(user.TwoFASecret, code, user.TwoFAType)
	metrics.RecordTwoFAVerification(string(user.TwoFAType), valid)
	if !valid {
		return nil, twofactor.ErrInvalidCode
	}

	metrics.RecordSignin("twofa", "success")
	return s.signinResponse(user)
}

func (s *Service) signinResponse(user *models.User) (*dto.SigninResponse, error) {
	token, err := s.tokens.Sign(user, PurposeAccess, s.ttl.AccessTTL)
	if err != nil {
		return nil, err
	}
	return &dto.SigninResponse{
		ID:         user.ID,
		FirstName:  user.FirstName,
		LastName:   user.LastName,
		Email:      user.Email,
		Role:       string(user.Role),
		IsVerified: user.IsVerified,
		Token:      token,
	}, nil
}

// VerifyAccount marks the token's user as verified. Both verification and
// access tokens are accepted, since the signup token doubles as a verification token.
func (s *Service) VerifyAccount(ctx context.Context, token string) error {
	claims, err := s.tokens.Parse(token)
	if err != nil || (claims.Purpose != PurposeVerify && claims.Purpose != PurposeAccess) {
		return ErrInvalidVerifyToken
	}

	user, err := s.users.GetUser(ctx, claims.UserID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return ErrUserNotFound
	} else if err != nil {
		return fmt.Errorf("database error: %w", err)
	}

	if user.IsVerified {
		return ErrAlreadyVerified
	}

	if err := s.users.UpdateFields(ctx, user.ID, map[string]interface{}{"is_verified": true}); err != nil {
		return fmt.Errorf("failed to verify user: %w", err)
	}

	metrics.RecordVerification()
	logger.Log.Info("User verified", logger.WithUserID(user.ID))
	return nil
}

// ResendVerification sends a fresh verification link
func (s *Service) ResendVerification(ctx context.Context, emailAddr string) error {
	user, err := s.users.GetUserByEmail(ctx, emailAddr)
	if errors.Is(err, repository.ErrUserNotFound) {
		return ErrUserNotFound
	} else if err != nil {
		return fmt.Errorf("database error: %w", err)
	}

	if user.IsVerified {
		return ErrAlreadyVerified
	}

	return s.sendVerification(ctx, user)
}

func (s *Service) sendVerification(ctx context.Context, user *models.User) error {
	token, err := s.tokens.Sign(user, PurposeVerify, s.ttl.VerifyTTL)
	if err != nil {
		return err
	}
	link := s.appURL + "/api/v1/auth/verification?token=" + url.QueryEscape(token)
	err = s.mailer.SendVerificationEmail(ctx, user.Email, user.FirstName, link)
	metrics.RecordNotification("email", "verification", err)
	return err
}

// ForgotPassword emails a single-use password reset link
func (s *Service) ForgotPassword(ctx context.Context, emailAddr string) error {
	user, err := s.users.GetUserByEmail(ctx, emailAddr)
	if errors.Is(err, repository.ErrUserNotFound) {
		return ErrUserNotFound
	} else if err != nil {
		return fmt.Errorf("database error: %w", err)
	}

	token, err := s.tokens.Sign(user, PurposeReset, s.ttl.ResetTTL)
	if err != nil {
		return err
	}

	link := s.frontendURL + "/reset-password?token=" + url.QueryEscape(token)
	err = s.mailer.SendPasswordResetEmail(ctx, user.Email, user.FirstName, link)
	metrics.RecordNotification("email", "password_reset", err)
	if err != nil {
		return fmt.Errorf("failed to send reset email: %w", err)
	}
	metrics.RecordPasswordReset("requested")
	return nil
}

// ResetPassword validates the reset token and stores the new password
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	claims, err := s.tokens.Parse(token)
	if err != nil || claims.Purpose != PurposeReset {
		return ErrInvalidResetToken
	}

	user, err := s.users.GetUser(ctx, claims.UserID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return ErrInvalidResetToken
	} else if err != nil {
		return fmt.Errorf("database error: %w", err)
	}

	// A changed password hash means the token was already used
	if claims.Fingerprint == "" || claims.Fingerprint != s.tokens.Fingerprint(user) {
		return ErrInvalidResetToken
	}

	hashedPassword, err := hashPassword(newPassword)
	if err != nil {
		return err
	}

	if err := s.users.UpdateFields(ctx, user.ID, map[string]interface{}{"password_hash": hashedPassword}); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	metrics.RecordPasswordReset("completed")
	logger.Log.Info("Password reset", logger.WithUserID(user.ID))
	return nil
}

// Authenticate resolves an access token to its user
func (s *Service) Authenticate(ctx context.Context, accessToken string) (*models.User, error) {
	claims, err := s.tokens.Parse(accessToken)
	if err != nil || claims.Purpose != PurposeAccess {
		return nil, ErrInvalidAccessToken
	}

	user, err := s.users.GetUser(ctx, claims.UserID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, ErrInvalidAccessToken
	} else if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return user, nil
}

// SetRole changes the role of the user with the given email
func (s *Service) SetRole(ctx context.Context, emailAddr string, role models.Role) (*models.User, error) {
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	user, err := s.users.GetUserByEmail(ctx, emailAddr)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, ErrUserNotFound
	} else if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	if err := s.users.UpdateFields(ctx, user.ID, map[string]interface{}{"role": role}); err != nil {
		return nil, fmt.Errorf("failed to update role: %w", err)
	}
	user.Role = role

	logger.Log.Info("User role changed", logger.WithUserID(user.ID), zap.String("role", string(role)))
	return user, nil
}

// UpdateProfile changes the caller's names and phone number
func (s *Service) UpdateProfile(ctx context.Context, user *models.User, req dto.UpdateProfileRequest) (*models.User, error) {
	fields := map[string]interface{}{}
	if req.FirstName != nil {
		fields["first_name"] = *req.FirstName
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		fields["last_name"] = *req.LastName
		user.LastName = *req.LastName
	}
	if req.PhoneNumber != nil {
		fields["phone_number"] = *req.PhoneNumber
		user.PhoneNumber = *req.PhoneNumber
	}
	if len(fields) == 0 {
		return user, nil
	}

	if err := s.users.UpdateFields(ctx, user.ID, fields); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	user.UpdatedAt = time.Now().UTC()
	return user, nil
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}
