package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		Environment:    "dev",
		Host:           "0.0.0.0",
		Port:           3000,
		LogLevel:       "debug",
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		IdleTimeout:    60 * time.Second,
		APIBaseURL:     "https://childcare-management.onrender.com",
		APITimeout:     10 * time.Second,
		SessionMaxAge:  8 * time.Hour,
		RateLimitRPS:   20,
		RateLimitBurst: 40,
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "defaults",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "unknown environment",
			modify:  func(c *Config) { c.Environment = "qa" },
			wantErr: true,
		},
		{
			name:    "port out of range",
			modify:  func(c *Config) { c.Port = 70000 },
			wantErr: true,
		},
		{
			name:    "zero read timeout",
			modify:  func(c *Config) { c.ReadTimeout = 0 },
			wantErr: true,
		},
		{
			name:    "zero API timeout",
			modify:  func(c *Config) { c.APITimeout = 0 },
			wantErr: true,
		},
		{
			name:    "empty API base URL",
			modify:  func(c *Config) { c.APIBaseURL = "" },
			wantErr: true,
		},
		{
			name:    "relative API base URL",
			modify:  func(c *Config) { c.APIBaseURL = "/api" },
			wantErr: true,
		},
		{
			name:    "prod without CSRF key",
			modify:  func(c *Config) { c.Environment = "prod" },
			wantErr: true,
		},
		{
			name: "prod with CSRF key",
			modify: func(c *Config) {
				c.Environment = "prod"
				c.CSRFKey = strings.Repeat("k", CSRFKeyLength)
			},
			wantErr: false,
		},
		{
			name:    "short CSRF key",
			modify:  func(c *Config) { c.CSRFKey = "short" },
			wantErr: true,
		},
		{
			name:    "negative rate limit",
			modify:  func(c *Config) { c.RateLimitRPS = -1 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.modify(&cfg)
			err := validateConfig(&cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCSRFAuthKey(t *testing.T) {
	cfg := validConfig()

	key, err := cfg.CSRFAuthKey()
	if err != nil {
		t.Fatalf("CSRFAuthKey() error = %v", err)
	}
	if len(key) != CSRFKeyLength {
		t.Errorf("generated key length = %d, want %d", len(key), CSRFKeyLength)
	}

	cfg.CSRFKey = strings.Repeat("a", CSRFKeyLength)
	key, err = cfg.CSRFAuthKey()
	if err != nil {
		t.Fatalf("CSRFAuthKey() error = %v", err)
	}
	if string(key) != cfg.CSRFKey {
		t.Errorf("configured key not used")
	}
}

func TestNewConfigFromEnvironment(t *testing.T) {
	t.Setenv("ENVIRONMENT", "test")
	t.Setenv("PORT", "8081")
	t.Setenv("API_BASE_URL", "http://localhost:8000")
	t.Setenv("API_TIMEOUT", "3s")

	cfg, err := NewConfig()
	if err != nil {
		t.Fatalf("NewConfig() error = %v", err)
	}

	if cfg.Environment != "test" {
		t.Errorf("Environment = %q, want test", cfg.Environment)
	}
	if cfg.Port != 8081 {
		t.Errorf("Port = %d, want 8081", cfg.Port)
	}
	if cfg.APIBaseURL != "http://localhost:8000" {
		t.Errorf("APIBaseURL = %q", cfg.APIBaseURL)
	}
	if cfg.APITimeout != 3*time.Second {
		t.Errorf("APITimeout = %v, want 3s", cfg.APITimeout)
	}
	if cfg.SessionMaxAge != 8*time.Hour {
		t.Errorf("SessionMaxAge = %v, want default 8h", cfg.SessionMaxAge)
	}
}

func TestNewClientConfig(t *testing.T) {
	t.Setenv("API_BASE_URL", "http://localhost:8000")
	t.Setenv("CHILDCARE_API_TOKEN", "abc")

	cfg, err := NewClientConfig()
	if err != nil {
		t.Fatalf("NewClientConfig() error = %v", err)
	}
	if cfg.APIBaseURL != "http://localhost:8000" || cfg.APIToken != "abc" {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.APITimeout != 10*time.Second {
		t.Errorf("APITimeout = %v, want default 10s", cfg.APITimeout)
	}

	t.Setenv("API_BASE_URL", "not a url")
	if _, err := NewClientConfig(); err == nil {
		t.Error("expected an error for a relative API_BASE_URL")
	}
}
