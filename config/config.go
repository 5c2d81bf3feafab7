package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config centralises all environment and runtime configuration
type Config struct {
	Port         string
	DatabasePath string
	UseHTTPS     bool
	Location     *time.Location

	AdminEmail    string
	AdminPassword string

	JWTSecret string
	TokenTTL  time.Duration

	OIDC OIDCConfig

	TelegramToken  string
	TelegramChatID int64

	WorkerCount int
}

// OIDCConfig holds the optional single sign-on settings
type OIDCConfig struct {
	Domain       string
	ClientID     string
	ClientSecret string
	CallbackURL  string
}

// Enabled reports whether single sign-on is configured
func (o OIDCConfig) Enabled() bool {
	return o.Domain != "" && o.ClientID != ""
}

// TelegramEnabled reports whether check-in notifications are configured
func (c *Config) TelegramEnabled() bool {
	return c.TelegramToken != "" && c.TelegramChatID != 0
}

// Load reads .env (when present) and the environment
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function
func FromEnv(getenv func(string) string) (*Config, error) {
	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	cfg := &Config{
		Port:          get("PORT", "8080"),
		DatabasePath:  get("DATABASE_PATH", "time_tracker.db"),
		UseHTTPS:      parseBool(getenv("USE_HTTPS")),
		AdminEmail:    get("ADMIN_EMAIL", "admin@company.com"),
		AdminPassword: get("ADMIN_PASSWORD", "tracker@admin"),
		JWTSecret:     get("JWT_SECRET", ""),
		OIDC: OIDCConfig{
			Domain:       get("OIDC_DOMAIN", ""),
			ClientID:     get("OIDC_CLIENT_ID", ""),
			ClientSecret: get("OIDC_CLIENT_SECRET", ""),
			CallbackURL:  get("OIDC_CALLBACK_URL", ""),
		},
		TelegramToken: get("TELEGRAM_TOKEN", ""),
	}

	tz := get("TIMEZONE", "Local")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", tz, err)
	}
	cfg.Location = loc

	ttl, err := time.ParseDuration(get("TOKEN_TTL", "24h"))
	if err != nil || ttl <= 0 {
		return nil, fmt.Errorf("invalid TOKEN_TTL %q", getenv("TOKEN_TTL"))
	}
	cfg.TokenTTL = ttl

	workers, err := strconv.Atoi(get("WORKER_COUNT", "2"))
	if err != nil || workers <= 0 {
		return nil, fmt.Errorf("invalid WORKER_COUNT %q", getenv("WORKER_COUNT"))
	}
	cfg.WorkerCount = workers

	if chat := get("TELEGRAM_CHAT_ID", ""); chat != "" {
		id, err := strconv.ParseInt(chat, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_CHAT_ID %q: %w", chat, err)
		}
		cfg.TelegramChatID = id
	}

	if cfg.JWTSecret == "" {
		log.Println("⚠️  JWT_SECRET not set, API tokens will not survive a restart")
		cfg.JWTSecret = randomSecret()
	}

	return cfg, nil
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "t", "yes", "y", "on":
		return true
	default:
		return false
	}
}
