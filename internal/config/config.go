// Package config loads and validates application configuration from environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on.
	Port string `env:"PORT" env-default:"8080"`

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string `env:"DATABASE_URL"`

	// LogLevel controls the minimum log level: debug, info, warn, error.
	LogLevel string `env:"LOG_LEVEL" env-default:"info"`

	// LogPretty switches from JSON logs to colourised text logs.
	LogPretty bool `env:"LOG_PRETTY" env-default:"false"`

	// CORSOrigins is the comma-separated list of allowed cross-origin request
	// origins. Defaults to the Vite dev server.
	CORSOrigins string `env:"CORS_ORIGINS" env-default:"http://localhost:5173"`

	// MaxBodyBytes limits the size of request bodies.
	MaxBodyBytes int64 `env:"MAX_BODY_BYTES" env-default:"1048576"`

	// AppBaseURL is the frontend origin used to build verification links.
	AppBaseURL string `env:"APP_BASE_URL" env-default:"http://localhost:5173"`

	// RequireVerifiedEmail makes login refuse accounts that have not
	// confirmed their email address.
	RequireVerifiedEmail bool `env:"REQUIRE_VERIFIED_EMAIL" env-default:"true"`

	JWT      JWTConfig
	Database DatabaseConfig
	Mail     MailConfig
}

// JWTConfig controls token signing and lifetimes.
type JWTConfig struct {
	// SecretKey is the HMAC signing secret. Required.
	SecretKey string `env:"JWT_SECRET_KEY"`

	// Algorithm is one of HS256, HS384, HS512.
	Algorithm string `env:"JWT_ALGORITHM" env-default:"HS256"`

	AccessTokenTTL time.Duration `env:"ACCESS_TOKEN_EXPIRE" env-default:"30m"`
	VerifyTokenTTL time.Duration `env:"VERIFY_TOKEN_EXPIRE" env-default:"24h"`
}

// DatabaseConfig controls connection start-up and upkeep.
type DatabaseConfig struct {
	ConnectAttempts   uint          `env:"DB_CONNECT_ATTEMPTS" env-default:"5"`
	KeepAliveInterval time.Duration `env:"DB_KEEPALIVE_INTERVAL" env-default:"5m"`
	MigrateOnStart    bool          `env:"MIGRATE_ON_START" env-default:"true"`
}

// MailConfig configures outgoing mail. An empty Host selects the log mailer.
type MailConfig struct {
	Host     string `env:"SMTP_HOST"`
	Port     int    `env:"SMTP_PORT" env-default:"587"`
	Username string `env:"SMTP_USERNAME"`
	Password string `env:"SMTP_PASSWORD"`
	From     string `env:"MAIL_FROM" env-default:"Notekeeper <no-reply@localhost>"`
}

// Load reads configuration from environment variables and returns a Config.
// A .env file in the working directory is loaded first when present; real
// environment variables always win over it.
// Returns an error listing any required variables that are not set.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("config.Load: %w", err)
	}

	var missing []string
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if cfg.JWT.SecretKey == "" {
		missing = append(missing, "JWT_SECRET_KEY")
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}

// AllowedOrigins splits CORSOrigins into a trimmed slice, ignoring empty entries.
func (c Config) AllowedOrigins() []string {
	return splitCSV(c.CORSOrigins)
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
