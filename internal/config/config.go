package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds everything the process reads from the environment. It is
// loaded once at startup; a missing required variable fails the boot
// instead of surfacing as a 500 on the first request.
type Config struct {
	Host    string
	Port    int
	Version string

	DatabaseURL string
	RedisURL    string // optional, enables Redis-backed locking

	JWTSecret      string
	EncryptionKey  string
	ServiceKeyHash string // bcrypt hash of the apikey header, optional

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURI  string

	AppURL         string
	AllowedOrigins []string
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{
		Host:    getEnv("HOST", "0.0.0.0"),
		Port:    getEnvInt("PORT", 8080),
		Version: getEnv("VERSION", "dev"),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),

		JWTSecret:      os.Getenv("JWT_SECRET"),
		EncryptionKey:  os.Getenv("ENCRYPTION_KEY"),
		ServiceKeyHash: os.Getenv("SERVICE_API_KEY_HASH"),

		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURI:  os.Getenv("GOOGLE_REDIRECT_URI"),

		AppURL: os.Getenv("APP_URL"),
	}

	var missing []string
	for _, req := range []struct {
		name  string
		value string
	}{
		{"DATABASE_URL", cfg.DatabaseURL},
		{"JWT_SECRET", cfg.JWTSecret},
		{"ENCRYPTION_KEY", cfg.EncryptionKey},
	} {
		if req.value == "" {
			missing = append(missing, req.name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	cfg.AllowedOrigins = splitOrigins(getEnv("ALLOWED_ORIGINS", cfg.AppURL))

	return cfg, nil
}

// splitOrigins parses a comma-separated origin allow-list.
func splitOrigins(raw string) []string {
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultValue
}
