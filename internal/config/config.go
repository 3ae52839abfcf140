// Package config loads runtime settings once at startup. The resulting
// Config is immutable and passed explicitly to every component.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	SessionModeToken = "token"
	SessionModeStore = "store"

	defaultSessionSecret = "change-this-secret"
	defaultDomain        = "localhost:5000"
)

type Config struct {
	DatabaseURL      string
	HTTPPort         string
	Env              string
	AuthUsername     string
	AuthPassword     string
	AuthPasswordHash string
	SessionSecret    string
	SessionMode      string
	AppDomain        string
	PlatformURL      string
	LogLevel         string
	MaxUploadBytes   int64
}

// Load reads .env (if present), the environment and an optional config file.
// Environment variables win over the file.
func Load(configFile string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("http_port", "8080")
	v.SetDefault("app_env", "development")
	v.SetDefault("session_secret", defaultSessionSecret)
	v.SetDefault("session_mode", SessionModeToken)
	v.SetDefault("log_level", "info")
	v.SetDefault("max_upload_bytes", int64(32<<20))
	v.AutomaticEnv()
	_ = v.BindEnv("platform_url", "PLATFORM_URL", "VERCEL_URL")

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}

	cfg := &Config{
		DatabaseURL:      v.GetString("database_url"),
		HTTPPort:         v.GetString("http_port"),
		Env:              strings.ToLower(v.GetString("app_env")),
		AuthUsername:     v.GetString("auth_username"),
		AuthPassword:     v.GetString("auth_password"),
		AuthPasswordHash: v.GetString("auth_password_hash"),
		SessionSecret:    v.GetString("session_secret"),
		SessionMode:      strings.ToLower(v.GetString("session_mode")),
		AppDomain:        v.GetString("app_domain"),
		PlatformURL:      v.GetString("platform_url"),
		LogLevel:         v.GetString("log_level"),
		MaxUploadBytes:   v.GetInt64("max_upload_bytes"),
	}

	if cfg.SessionMode != SessionModeToken && cfg.SessionMode != SessionModeStore {
		return nil, fmt.Errorf("invalid SESSION_MODE %q: want %q or %q", cfg.SessionMode, SessionModeToken, SessionModeStore)
	}
	if cfg.MaxUploadBytes <= 0 {
		return nil, fmt.Errorf("invalid MAX_UPLOAD_BYTES: %d", cfg.MaxUploadBytes)
	}
	return cfg, nil
}

// ValidateServe checks what the HTTP server needs beyond Load.
func (c *Config) ValidateServe() error {
	var errs []error
	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL is empty"))
	}
	if c.IsProduction() {
		if c.AuthUsername == "" || (c.AuthPassword == "" && c.AuthPasswordHash == "") {
			errs = append(errs, errors.New("AUTH_USERNAME and AUTH_PASSWORD (or AUTH_PASSWORD_HASH) are required in production"))
		}
		if c.SessionMode == SessionModeToken && (c.SessionSecret == "" || c.SessionSecret == defaultSessionSecret) {
			errs = append(errs, errors.New("SESSION_SECRET must be set in production"))
		}
	}
	return errors.Join(errs...)
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func (c *Config) Protocol() string {
	if c.IsProduction() {
		return "https"
	}
	return "http"
}

// PublicDomain is the host certificates point at: APP_DOMAIN, then the
// platform-provided URL, then a localhost default.
func (c *Config) PublicDomain() string {
	if d := strings.TrimSpace(c.AppDomain); d != "" {
		return d
	}
	if u := strings.TrimSpace(c.PlatformURL); u != "" {
		u = strings.TrimPrefix(u, "https://")
		u = strings.TrimPrefix(u, "http://")
		return strings.TrimSuffix(u, "/")
	}
	return defaultDomain
}
