package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/wadjakorntonsri/linkshrink/pkg/core/domain"
)

type Config struct {
	Port               string
	DatabaseURL        string
	StorageKey         string
	AppEnv             string
	BaseURL            string
	FrontendURL        string
	DefaultExpiryDays  int
	LogLevel           string
	AuthEnabled        bool
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
	JWTSecret          string
	AllowedEmails      []string
}

func Load() *Config {
	_ = godotenv.Load() // Ignore error if .env not found (e.g. prod)

	return &Config{
		Port:               getEnv("PORT", "8080"),
		DatabaseURL:        getEnv("DATABASE_URL", "file:linkshrink.db"),
		StorageKey:         getEnv("STORAGE_KEY", "linkShrink_urls"),
		AppEnv:             getEnv("APP_ENV", "local"),
		BaseURL:            getEnv("BASE_URL", "http://localhost:8080"),
		FrontendURL:        getEnv("FRONTEND_URL", "/"),
		DefaultExpiryDays:  getEnvInt("DEFAULT_EXPIRY_DAYS", 30),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		AuthEnabled:        getEnvBool("AUTH_ENABLED", false),
		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURL:  getEnv("GOOGLE_REDIRECT_URL", "http://localhost:8080/auth/google/callback"),
		JWTSecret:          getEnv("JWT_SECRET", ""),
		AllowedEmails:      splitList(getEnv("ALLOWED_EMAILS", "")),
	}
}

// Validate checks settings that would otherwise fail at request time
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}
	if c.DefaultExpiryDays <= 0 || c.DefaultExpiryDays > domain.MaxExpiryDays {
		return fmt.Errorf("DEFAULT_EXPIRY_DAYS must be between 1 and %d, got %d", domain.MaxExpiryDays, c.DefaultExpiryDays)
	}
	if c.AuthEnabled {
		if c.JWTSecret == "" {
			return errors.New("JWT_SECRET is required when AUTH_ENABLED is set")
		}
		if c.GoogleClientID == "" {
			return errors.New("GOOGLE_CLIENT_ID is required when AUTH_ENABLED is set")
		}
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	b, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return b
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
