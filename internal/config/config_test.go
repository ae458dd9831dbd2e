package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cleanEnv blanks every variable Load reads; an empty value means "use the default"
func cleanEnv(t *testing.T) {
	for _, key := range []string{
		"PORT", "ENVIRONMENT", "APP_URL", "FRONTEND_URL", "LOG_LEVEL", "LOG_FILE",
		"DATABASE_DRIVER", "DATABASE_URL", "SQLITE_PATH",
		"MAIL_DRIVER", "MAIL_FROM", "SMTP_HOST", "SMTP_PORT", "SMTP_USER", "SMTP_PASSWORD",
		"SMS_DRIVER", "SMS_SENDER_ID", "AWS_REGION", "AWS_BUCKET", "CDN_URL",
		"REDIS_HOST", "REDIS_PORT", "REDIS_PASSWORD", "CORS_ALLOWED_ORIGINS",
		"ACCESS_TOKEN_TTL", "VERIFY_TOKEN_TTL", "RESET_TOKEN_TTL", "TWO_FA_PENDING_TTL",
		"HOTEL_CACHE_TTL", "CACHE_MAX_COST", "ROOM_RELEASE_INTERVAL", "RATE_LIMIT_AUTH",
		"OTEL_ENABLED", "OTEL_SAMPLING_RATE", "OTEL_SERVICE_NAME", "OTEL_EXPORTER_OTLP_ENDPOINT",
		"OAUTH_REDIRECT_URL", "GOOGLE_CLIENT_ID", "GOOGLE_CLIENT_SECRET",
	} {
		t.Setenv(key, "")
	}
	t.Setenv("JWT_SECRET", "test_jwt_secret_key")
}

func TestLoadDefaults(t *testing.T) {
	cleanEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8787", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, "http://localhost:8787", cfg.AppURL)
	assert.Equal(t, cfg.AppURL, cfg.FrontendURL)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "log", cfg.Mail.Driver)
	assert.Equal(t, 587, cfg.Mail.SMTPPort)
	assert.Equal(t, "log", cfg.SMS.Driver)
	assert.Equal(t, []string{"http://localhost"}, cfg.CORSAllowedOrigins)
	assert.False(t, cfg.Redis.Enabled())

	assert.Equal(t, RateLimit{Requests: 10, Window: time.Minute}, cfg.AuthRateLimit)
	assert.Equal(t, 24*time.Hour, cfg.JWT.AccessTTL)
	assert.Equal(t, 24*time.Hour, cfg.JWT.VerifyTTL)
	assert.Equal(t, time.Hour, cfg.JWT.ResetTTL)
	assert.Equal(t, 5*time.Minute, cfg.JWT.TwoFAPendingTTL)
	assert.Equal(t, 5*time.Minute, cfg.Cache.HotelTTL)
	assert.Equal(t, time.Hour, cfg.RoomReleaseInterval)

	assert.False(t, cfg.Telemetry.Enabled)
	assert.Equal(t, 1.0, cfg.Telemetry.SamplingRate)
	assert.Nil(t, cfg.OAuth, "Google sign-in is off without a client id")
}

func TestLoadOverrides(t *testing.T) {
	cleanEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("APP_URL", "https://api.barefoot.test/")
	t.Setenv("FRONTEND_URL", "https://barefoot.test/")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://barefoot.test, https://admin.barefoot.test,")
	t.Setenv("ACCESS_TOKEN_TTL", "2h")
	t.Setenv("RATE_LIMIT_AUTH", "100/hour")
	t.Setenv("REDIS_HOST", "redis")
	t.Setenv("GOOGLE_CLIENT_ID", "client-id")
	t.Setenv("GOOGLE_CLIENT_SECRET", "client-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "https://api.barefoot.test", cfg.AppURL)
	assert.Equal(t, "https://barefoot.test", cfg.FrontendURL)
	assert.Equal(t, []string{"https://barefoot.test", "https://admin.barefoot.test"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 2*time.Hour, cfg.JWT.AccessTTL)
	assert.Equal(t, RateLimit{Requests: 100, Window: time.Hour}, cfg.AuthRateLimit)
	assert.True(t, cfg.Redis.Enabled())
	require.NotNil(t, cfg.OAuth)
	assert.Equal(t, "client-id", cfg.OAuth.GoogleConfig.ClientID)
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	cleanEnv(t)
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"ACCESS_TOKEN_TTL", "forever"},
		{"RESET_TOKEN_TTL", "10"},
		{"ROOM_RELEASE_INTERVAL", "hourly"},
		{"CACHE_MAX_COST", "lots"},
		{"SMTP_PORT", "smtp"},
		{"RATE_LIMIT_AUTH", "ten per minute"},
		{"RATE_LIMIT_AUTH", "10/fortnight"},
		{"OTEL_SAMPLING_RATE", "half"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			cleanEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestParseRateLimit(t *testing.T) {
	tests := []struct {
		in   string
		want RateLimit
		ok   bool
	}{
		{"10/min", RateLimit{10, time.Minute}, true},
		{" 5/s ", RateLimit{5, time.Second}, true},
		{"3/HOUR", RateLimit{3, time.Hour}, true},
		{"0/min", RateLimit{}, false},
		{"-1/min", RateLimit{}, false},
		{"10", RateLimit{}, false},
		{"10/day", RateLimit{}, false},
	}

	for _, tt := range tests {
		got, err := ParseRateLimit(tt.in)
		if !tt.ok {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}
