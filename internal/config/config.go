package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server  ServerConfig
	Backend BackendConfig
	Session SessionConfig
	Limits  LimitsConfig
}

type ServerConfig struct {
	Host        string
	Port        string
	Environment string
}

// BackendConfig points the client at the EventApp REST API.
type BackendConfig struct {
	BaseURL string
	Timeout time.Duration
}

type SessionConfig struct {
	CookieName string
	Expiration time.Duration
	Secure     bool
}

type LimitsConfig struct {
	RateLimitEnabled bool
	MaxLoginAttempts int
	LoginWindow      time.Duration
}

func New() *Config {
	return &Config{
		Server: ServerConfig{
			Host:        getEnv("SERVER_HOST", ""),
			Port:        getEnv("SERVER_PORT", "3000"),
			Environment: getEnv("SERVER_ENVIRONMENT", "development"),
		},
		Backend: BackendConfig{
			BaseURL: getEnv("API_BASE_URL", "http://localhost:8086"),
			Timeout: getEnvDuration("API_TIMEOUT", 15*time.Second),
		},
		Session: SessionConfig{
			CookieName: getEnv("SESSION_COOKIE_NAME", "eventapp_session"),
			Expiration: getEnvDuration("SESSION_EXPIRATION", 24*time.Hour),
			Secure:     getEnvBool("SESSION_COOKIE_SECURE", false),
		},
		Limits: LimitsConfig{
			RateLimitEnabled: getEnvBool("RATE_LIMIT_ENABLED", true),
			MaxLoginAttempts: getEnvInt("MAX_LOGIN_ATTEMPTS", 5),
			LoginWindow:      getEnvDuration("LOGIN_ATTEMPT_WINDOW", 15*time.Minute),
		},
	}
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if durationValue, err := time.ParseDuration(value); err == nil {
			return durationValue
		}
	}
	return defaultValue
}
