package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the server needs at startup
type Config struct {
	Port        string
	Environment string
	AppURL      string
	FrontendURL string

	LogLevel string
	LogFile  string

	Database DatabaseConfig
	JWT      JWTConfig
	Mail     MailConfig
	SMS      SMSConfig
	AWS      AWSConfig
	Redis    RedisConfig
	Cache    CacheConfig

	CORSAllowedOrigins []string
	AuthRateLimit      RateLimit

	// RoomReleaseInterval is how often rooms held by ended trips are freed
	RoomReleaseInterval time.Duration

	Telemetry TelemetryConfig
	OAuth     *OAuthConfig
}

type DatabaseConfig struct {
	Driver     string // postgres | sqlite
	URL        string
	SQLitePath string
}

type JWTConfig struct {
	Secret          string
	AccessTTL       time.Duration
	VerifyTTL       time.Duration
	ResetTTL        time.Duration
	TwoFAPendingTTL time.Duration
}

type MailConfig struct {
	Driver   string // ses | smtp | log
	From     string
	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
}

type SMSConfig struct {
	Driver   string // sns | log
	SenderID string
}

type AWSConfig struct {
	Region   string
	S3Bucket string
	CDNURL   string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
}

// Enabled reports whether a redis host was configured
func (r RedisConfig) Enabled() bool {
	return r.Host != ""
}

type CacheConfig struct {
	HotelTTL time.Duration
	MaxCost  int64
}

// RateLimit is a request budget per window, parsed from "10/min" style strings
type RateLimit struct {
	Requests int
	Window   time.Duration
}

type TelemetryConfig struct {
	Enabled      bool
	ServiceName  string
	OTLPEndpoint string
	SamplingRate float64
}

// Load reads the environment (after an optional .env file) into a Config
func Load() (*Config, error) {
	// .env is optional; real environment variables win
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnvOrDefault("PORT", "8787"),
		Environment: getEnvOrDefault("ENVIRONMENT", "development"),
		AppURL:      strings.TrimRight(getEnvOrDefault("APP_URL", "http://localhost:8787"), "/"),
		LogLevel:    getEnvOrDefault("LOG_LEVEL", "info"),
		LogFile:     getEnvOrDefault("LOG_FILE", "server.log"),
		Database: DatabaseConfig{
			Driver:     getEnvOrDefault("DATABASE_DRIVER", "postgres"),
			URL:        os.Getenv("DATABASE_URL"),
			SQLitePath: getEnvOrDefault("SQLITE_PATH", "barefoot.db"),
		},
		Mail: MailConfig{
			Driver:   getEnvOrDefault("MAIL_DRIVER", "log"),
			From:     getEnvOrDefault("MAIL_FROM", "Barefoot Nomad <noreply@barefootnomad.com>"),
			SMTPHost: os.Getenv("SMTP_HOST"),
			SMTPUser: os.Getenv("SMTP_USER"),
			SMTPPass: os.Getenv("SMTP_PASSWORD"),
		},
		SMS: SMSConfig{
			Driver:   getEnvOrDefault("SMS_DRIVER", "log"),
			SenderID: os.Getenv("SMS_SENDER_ID"),
		},
		AWS: AWSConfig{
			Region:   getEnvOrDefault("AWS_REGION", "us-east-1"),
			S3Bucket: os.Getenv("AWS_BUCKET"),
			CDNURL:   os.Getenv("CDN_URL"),
		},
		Redis: RedisConfig{
			Host:     os.Getenv("REDIS_HOST"),
			Port:     getEnvOrDefault("REDIS_PORT", "6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
		},
		CORSAllowedOrigins: splitList(getEnvOrDefault("CORS_ALLOWED_ORIGINS", "http://localhost")),
		Telemetry: TelemetryConfig{
			ServiceName:  getEnvOrDefault("OTEL_SERVICE_NAME", "barefoot-nomad"),
			OTLPEndpoint: getEnvOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
		},
	}
	cfg.FrontendURL = strings.TrimRight(getEnvOrDefault("FRONTEND_URL", cfg.AppURL), "/")

	cfg.JWT.Secret = os.Getenv("JWT_SECRET")
	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable not set")
	}

	var err error
	if cfg.JWT.AccessTTL, err = getDuration("ACCESS_TOKEN_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.JWT.VerifyTTL, err = getDuration("VERIFY_TOKEN_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.JWT.ResetTTL, err = getDuration("RESET_TOKEN_TTL", time.Hour); err != nil {
		return nil, err
	}
	if cfg.JWT.TwoFAPendingTTL, err = getDuration("TWO_FA_PENDING_TTL", 5*time.Minute); err != nil {
		return nil, err
	}
	if cfg.Cache.HotelTTL, err = getDuration("HOTEL_CACHE_TTL", 5*time.Minute); err != nil {
		return nil, err
	}
	if cfg.Cache.MaxCost, err = getInt64("CACHE_MAX_COST", 1<<20); err != nil {
		return nil, err
	}
	if cfg.RoomReleaseInterval, err = getDuration("ROOM_RELEASE_INTERVAL", time.Hour); err != nil {
		return nil, err
	}
	port, err := getInt64("SMTP_PORT", 587)
	if err != nil {
		return nil, err
	}
	cfg.Mail.SMTPPort = int(port)

	if cfg.AuthRateLimit, err = ParseRateLimit(getEnvOrDefault("RATE_LIMIT_AUTH", "10/min")); err != nil {
		return nil, fmt.Errorf("RATE_LIMIT_AUTH: %w", err)
	}

	cfg.Telemetry.Enabled = getEnvOrDefault("OTEL_ENABLED", "false") == "true"
	if cfg.Telemetry.SamplingRate, err = strconv.ParseFloat(getEnvOrDefault("OTEL_SAMPLING_RATE", "1.0"), 64); err != nil {
		return nil, fmt.Errorf("OTEL_SAMPLING_RATE: %w", err)
	}

	// OAuth is optional; a missing client id disables Google sign-in
	if oauthCfg, err := LoadOAuthConfig(cfg.AppURL); err == nil {
		cfg.OAuth = oauthCfg
	}

	return cfg, nil
}

// IsProduction reports whether the server runs in production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// ParseRateLimit parses "<n>/<sec|min|hour>" into a RateLimit
func ParseRateLimit(s string) (RateLimit, error) {
	parts := strings.SplitN(strings.TrimSpace(s), "/", 2)
	if len(parts) != 2 {
		return RateLimit{}, fmt.Errorf("invalid rate limit %q", s)
	}
	n, err := strconv.Atoi(parts[0])
	if err != nil || n <= 0 {
		return RateLimit{}, fmt.Errorf("invalid rate limit count %q", parts[0])
	}
	var window time.Duration
	switch strings.ToLower(parts[1]) {
	case "s", "sec", "second":
		window = time.Second
	case "m", "min", "minute":
		window = time.Minute
	case "h", "hour":
		window = time.Hour
	default:
		return RateLimit{}, fmt.Errorf("invalid rate limit window %q", parts[1])
	}
	return RateLimit{Requests: n, Window: window}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func getInt64(key string, defaultValue int64) (int64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
