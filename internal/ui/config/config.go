package config

import (
	"crypto/rand"
	"fmt"
	"net/url"
	"time"

	"github.com/Netflix/go-env"
)

// Config holds the UI server settings, loaded from environment variables
type Config struct {
	Environment    string        `env:"ENVIRONMENT,default=dev"`
	Host           string        `env:"HOST,default=0.0.0.0"`
	Port           int           `env:"PORT,default=3000"`
	LogLevel       string        `env:"LOG_LEVEL,default=debug"`
	ReadTimeout    time.Duration `env:"READ_TIMEOUT,default=15s"`
	WriteTimeout   time.Duration `env:"WRITE_TIMEOUT,default=15s"`
	IdleTimeout    time.Duration `env:"IDLE_TIMEOUT,default=60s"`
	APIBaseURL     string        `env:"API_BASE_URL,default=https://childcare-management.onrender.com"`
	APITimeout     time.Duration `env:"API_TIMEOUT,default=10s"`
	SessionMaxAge  time.Duration `env:"SESSION_MAX_AGE,default=8h"`
	CSRFKey        string        `env:"CSRF_KEY"` // 32 bytes, required in prod
	RateLimitRPS   int           `env:"RATE_LIMIT_RPS,default=20"`
	RateLimitBurst int           `env:"RATE_LIMIT_BURST,default=40"`
}

var validEnvs = map[string]bool{
	"dev":     true,
	"test":    true,
	"perf":    true,
	"prod":    true,
	"staging": true,
}

const (
	SessionCookieName = "childcare_session"

	// CSRFKeyLength is the key size expected by gorilla/csrf
	CSRFKeyLength = 32
)

func NewConfig() (*Config, error) {
	var cfg Config

	_, err := env.UnmarshalFromEnviron(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal environment variables: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// CSRFAuthKey returns the key used to sign CSRF tokens.
// Outside prod a random key is generated when CSRF_KEY is not set, so tokens do not survive a restart.
func (c *Config) CSRFAuthKey() ([]byte, error) {
	if c.CSRFKey != "" {
		return []byte(c.CSRFKey), nil
	}
	key := make([]byte, CSRFKeyLength)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("could not generate CSRF key: %w", err)
	}
	return key, nil
}

func validateConfig(cfg *Config) error {
	if !validEnvs[cfg.Environment] {
		return fmt.Errorf("invalid environment '%s'. Valid environments: dev, test, perf, staging, prod", cfg.Environment)
	}

	if cfg.Port < 1 || cfg.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", cfg.Port)
	}

	if cfg.ReadTimeout <= 0 {
		return fmt.Errorf("read timeout must be positive, got %v", cfg.ReadTimeout)
	}
	if cfg.WriteTimeout <= 0 {
		return fmt.Errorf("write timeout must be positive, got %v", cfg.WriteTimeout)
	}
	if cfg.IdleTimeout <= 0 {
		return fmt.Errorf("idle timeout must be positive, got %v", cfg.IdleTimeout)
	}
	if cfg.APITimeout <= 0 {
		return fmt.Errorf("API timeout must be positive, got %v", cfg.APITimeout)
	}
	if cfg.SessionMaxAge <= 0 {
		return fmt.Errorf("session max age must be positive, got %v", cfg.SessionMaxAge)
	}

	if cfg.APIBaseURL == "" {
		return fmt.Errorf("API_BASE_URL cannot be empty")
	}
	u, err := url.Parse(cfg.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("API_BASE_URL must be an absolute URL, got %q", cfg.APIBaseURL)
	}

	if cfg.CSRFKey != "" && len(cfg.CSRFKey) != CSRFKeyLength {
		return fmt.Errorf("CSRF_KEY must be %d bytes, got %d", CSRFKeyLength, len(cfg.CSRFKey))
	}
	if cfg.Environment == "prod" && cfg.CSRFKey == "" {
		return fmt.Errorf("CSRF_KEY is required in %s environment", cfg.Environment)
	}

	if cfg.RateLimitRPS < 0 || cfg.RateLimitBurst < 0 {
		return fmt.Errorf("rate limit settings cannot be negative")
	}

	return nil
}

// ClientConfig holds the settings needed to call the API from the command line
type ClientConfig struct {
	APIBaseURL string        `env:"API_BASE_URL,default=https://childcare-management.onrender.com"`
	APITimeout time.Duration `env:"API_TIMEOUT,default=10s"`
	APIToken   string        `env:"CHILDCARE_API_TOKEN"`
	LogLevel   string        `env:"LOG_LEVEL,default=warn"`
}

func NewClientConfig() (*ClientConfig, error) {
	var cfg ClientConfig

	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal environment variables: %w", err)
	}

	u, err := url.Parse(cfg.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("API_BASE_URL must be an absolute URL, got %q", cfg.APIBaseURL)
	}
	if cfg.APITimeout <= 0 {
		return nil, fmt.Errorf("API timeout must be positive, got %v", cfg.APITimeout)
	}

	return &cfg, nil
}
