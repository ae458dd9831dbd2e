package client

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	keyBaseURL = "api.base_url"
	keyTimeout = "api.timeout"
	keyToken   = "auth.token"
	keyEmail   = "auth.email"
)

var envKeyReplacer = strings.NewReplacer(".", "_")

// Config is the nomadctl settings file, ~/.config/barefoot/config.toml by default
type Config struct {
	v    *viper.Viper
	path string
}

// DefaultConfigPath returns the per-user config file location
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "barefoot", "config.toml"), nil
}

// LoadConfig reads path, creating its directory. A missing file yields defaults.
// BAREFOOT_API_BASE_URL style environment variables override the file.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		var err error
		if path, err = DefaultConfigPath(); err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.SetConfigFile(path)
	v.SetEnvPrefix("barefoot")
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()

	v.SetDefault(keyBaseURL, "http://localhost:8787")
	v.SetDefault(keyTimeout, 30)

	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}
	return &Config{v: v, path: path}, nil
}

// Path is the file the config is read from and saved to
func (c *Config) Path() string { return c.path }

func (c *Config) BaseURL() string { return c.v.GetString(keyBaseURL) }

func (c *Config) Timeout() time.Duration {
	return time.Duration(c.v.GetInt(keyTimeout)) * time.Second
}

func (c *Config) Token() string { return c.v.GetString(keyToken) }

func (c *Config) Email() string { return c.v.GetString(keyEmail) }

// SaveSession stores the access token and account email
func (c *Config) SaveSession(email, token string) error {
	c.v.Set(keyEmail, email)
	c.v.Set(keyToken, token)
	return c.write()
}

// ClearSession forgets the stored token
func (c *Config) ClearSession() error {
	c.v.Set(keyToken, "")
	return c.write()
}

func (c *Config) write() error {
	if err := c.v.WriteConfigAs(c.path); err != nil {
		return err
	}
	return os.Chmod(c.path, 0600)
}
