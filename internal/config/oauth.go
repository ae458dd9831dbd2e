package config

import (
	"fmt"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// OAuthConfig holds OAuth provider configurations
type OAuthConfig struct {
	GoogleConfig *oauth2.Config
}

// LoadOAuthConfig loads Google OAuth configuration from environment variables.
// Callbacks land on <baseURL>/api/v1/auth/google/callback unless OAUTH_REDIRECT_URL overrides the base.
// Required:
// - GOOGLE_CLIENT_ID
// - GOOGLE_CLIENT_SECRET
func LoadOAuthConfig(baseURL string) (*OAuthConfig, error) {
	redirectURL := getEnvOrDefault("OAUTH_REDIRECT_URL", baseURL)

	googleClientID := os.Getenv("GOOGLE_CLIENT_ID")
	if googleClientID == "" {
		return nil, fmt.Errorf("GOOGLE_CLIENT_ID environment variable not set")
	}

	googleClientSecret := os.Getenv("GOOGLE_CLIENT_SECRET")
	if googleClientSecret == "" {
		return nil, fmt.Errorf("GOOGLE_CLIENT_SECRET environment variable not set")
	}

	return &OAuthConfig{
		GoogleConfig: &oauth2.Config{
			ClientID:     googleClientID,
			ClientSecret: googleClientSecret,
			RedirectURL:  redirectURL + "/api/v1/auth/google/callback",
			Scopes:       []string{"openid", "profile", "email"},
			Endpoint:     google.Endpoint,
		},
	}, nil
}
