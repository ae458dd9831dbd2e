package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/Mastel22/boondocks-bn-backend/internal/dto"
	"github.com/Mastel22/boondocks-bn-backend/internal/logger"
	"github.com/Mastel22/boondocks-bn-backend/internal/metrics"
	"github.com/Mastel22/boondocks-bn-backend/internal/models"
	"github.com/Mastel22/boondocks-bn-backend/internal/repository"
	"github.com/Mastel22/boondocks-bn-backend/internal/telemetry"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"

// OAuthUserInfo represents user info from OAuth providers
type OAuthUserInfo struct {
	ID            string
	Email         string
	EmailVerified bool
	FirstName     string
	LastName      string
}

// GoogleUserInfo represents Google OAuth user response
type GoogleUserInfo struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
}

// GoogleAuthURL returns the Google consent page URL for state
func (s *Service) GoogleAuthURL(state string) (string, error) {
	if s.googleConfig == nil {
		return "", ErrOAuthNotConfigured
	}
	return s.googleConfig.AuthCodeURL(state, oauth2.AccessTypeOnline), nil
}

// GoogleCallback exchanges an authorization code and signs the Google account in
func (s *Service) GoogleCallback(ctx context.Context, code string) (*dto.SigninResponse, error) {
	if s.googleConfig == nil {
		return nil, ErrOAuthNotConfigured
	}

	userInfo, err := s.getGoogleUserInfo(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to get Google user info: %w", err)
	}

	user, err := s.findOrCreateUserFromOAuth(ctx, userInfo)
	if err != nil {
		metrics.RecordSignin("google", "failure")
		return nil, err
	}
	metrics.RecordSignin("google", "success")
	return s.signinResponse(user)
}

// findOrCreateUserFromOAuth links by Google ID first, then by email, else creates a verified account
func (s *Service) findOrCreateUserFromOAuth(ctx context.Context, info *OAuthUserInfo) (*models.User, error) {
	user, err := s.users.GetUserByGoogleID(ctx, info.ID)
	if err == nil {
		return user, nil
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("database error checking OAuth: %w", err)
	}

	// Linking by email is only safe when Google vouches for the address
	if !info.EmailVerified {
		return nil, ErrOAuthEmailUnverified
	}

	user, err = s.users.GetUserByEmail(ctx, info.Email)
	if err == nil {
		googleID := info.ID
		fields := map[string]interface{}{"google_id": googleID, "is_verified": true}
		if err := s.users.UpdateFields(ctx, user.ID, fields); err != nil {
			return nil, fmt.Errorf("failed to link Google account: %w", err)
		}
		user.GoogleID = &googleID
		user.IsVerified = true
		logger.Log.Info("Linked Google account to existing user", logger.WithUserID(user.ID))
		return user, nil
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("database error finding user: %w", err)
	}

	googleID := info.ID
	user = &models.User{
		FirstName:  info.FirstName,
		LastName:   info.LastName,
		Email:      models.NormalizeEmail(info.Email),
		IsVerified: true,
		Role:       models.RoleRequester,
		TwoFAType:  models.TwoFANone,
		GoogleID:   &googleID,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	logger.Log.Info("Created user from Google sign-in", logger.WithUserID(user.ID))
	return user, nil
}

func (s *Service) getGoogleUserInfo(ctx context.Context, code string) (*OAuthUserInfo, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, telemetry.NewHTTPClient(10*time.Second))
	token, err := s.googleConfig.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}

	client := s.googleConfig.Client(ctx, token)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.userInfoURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to get user info: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		logger.Log.Warn("Google user info request failed",
			zap.Int("status", resp.StatusCode),
		)
		return nil, fmt.Errorf("user info request returned status %d", resp.StatusCode)
	}

	var googleUser GoogleUserInfo
	if err := json.Unmarshal(body, &googleUser); err != nil {
		return nil, fmt.Errorf("failed to parse user info: %w", err)
	}

	return toOAuthUserInfo(googleUser), nil
}

func toOAuthUserInfo(g GoogleUserInfo) *OAuthUserInfo {
	first, last := g.GivenName, g.FamilyName
	if first == "" {
		parts := strings.Fields(g.Name)
		if len(parts) > 0 {
			first = parts[0]
			last = strings.Join(parts[1:], " ")
		}
	}
	if first == "" {
		first = strings.SplitN(g.Email, "@", 2)[0]
	}
	return &OAuthUserInfo{
		ID:            g.Sub,
		Email:         g.Email,
		EmailVerified: g.EmailVerified,
		FirstName:     first,
		LastName:      last,
	}
}
