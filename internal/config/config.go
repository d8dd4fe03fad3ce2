package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Resend    ResendConfig
	Admin     AdminConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Port string
	Host string
	Env  string
}

type DatabaseConfig struct {
	// Path is the SQLite database file, or ":memory:" for an in-memory
	// database.
	Path string
}

type ResendConfig struct {
	APIKey    string
	FromEmail string
	FromName  string
}

type AdminConfig struct {
	// JWTSecret signs admin session tokens.
	JWTSecret string
	// PasswordHash is the Argon2id hash of the admin password. Empty
	// disables admin login.
	PasswordHash string
	// TokenLifetimeMinutes bounds how long an admin session stays valid.
	TokenLifetimeMinutes int
}

type RateLimitConfig struct {
	// MaxRequests per window per client IP on the write endpoints.
	MaxRequests   int
	WindowSeconds int
}

func Load() (*Config, error) {
	// Load .env files if they exist (try .env.local first, then .env)
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load(".env")

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Host: getEnv("HOST", "localhost"),
			Env:  getEnv("ENV", "development"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DATABASE_PATH", "alocubano.db"),
		},
		Resend: ResendConfig{
			APIKey:    getEnv("RESEND_API_KEY", ""),
			FromEmail: getEnv("RESEND_FROM_EMAIL", "tickets@alocubanoboulderfest.com"),
			FromName:  getEnv("RESEND_FROM_NAME", "A Lo Cubano Boulder Fest"),
		},
		Admin: AdminConfig{
			JWTSecret:            getEnv("ADMIN_JWT_SECRET", ""),
			PasswordHash:         getEnv("ADMIN_PASSWORD_HASH", ""),
			TokenLifetimeMinutes: getEnvAsInt("ADMIN_TOKEN_LIFETIME_MINUTES", 60),
		},
		RateLimit: RateLimitConfig{
			MaxRequests:   getEnvAsInt("RATE_LIMIT_MAX_REQUESTS", 30),
			WindowSeconds: getEnvAsInt("RATE_LIMIT_WINDOW_SECONDS", 60),
		},
	}

	return config, nil
}

// IsDevelopment reports whether the server runs in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
