// Package config provides environment configuration for the workbench.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the application.
type Config struct {
	// Server settings
	ServerPort         string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration

	// Sekha memory service settings
	SekhaURL     string
	SekhaAPIKey  string
	SekhaTimeout time.Duration

	// NATS settings
	EventsEnabled bool
	NATSURL       string
	NATSCAFile    string
	NATSCertFile  string
	NATSKeyFile   string
	NATSToken     string

	// JWT settings
	JWTSecret string

	// LLM settings
	LLMProvider     string
	AnthropicAPIKey string
	OpenAIAPIKey    string

	// Rate limiting
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Logging
	LogLevel string

	// Tracing
	TracingEndpoint string
	TracingEnabled  bool
}

// Load reads configuration from environment variables.
func Load() *Config {
	return &Config{
		// Server
		ServerPort:         getEnv("PORT", "8080"),
		ServerReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
		ServerWriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 120*time.Second),

		// Sekha
		SekhaURL:     getEnv("SEKHA_URL", "http://localhost:9000"),
		SekhaAPIKey:  getEnv("SEKHA_API_KEY", ""),
		SekhaTimeout: getDurationEnv("SEKHA_TIMEOUT", 30*time.Second),

		// NATS
		EventsEnabled: getBoolEnv("EVENTS_ENABLED", false),
		NATSURL:       getEnv("NATS_URL", "nats://localhost:4222"),
		NATSCAFile:    getEnv("NATS_CA_FILE", ""),
		NATSCertFile:  getEnv("NATS_CERT_FILE", ""),
		NATSKeyFile:   getEnv("NATS_KEY_FILE", ""),
		NATSToken:     getEnv("NATS_TOKEN", ""),

		// JWT
		JWTSecret: getEnv("JWT_SECRET", "development-secret-change-in-production"),

		// LLM
		LLMProvider:     getEnv("LLM_PROVIDER", "anthropic"),
		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),

		// Rate limiting
		RateLimitRequests: getIntEnv("RATE_LIMIT_REQUESTS", 60),
		RateLimitWindow:   getDurationEnv("RATE_LIMIT_WINDOW", time.Minute),

		// Logging
		LogLevel: getEnv("LOG_LEVEL", "info"),

		// Tracing
		TracingEndpoint: getEnv("TRACING_ENDPOINT", "localhost:4318"),
		TracingEnabled:  getBoolEnv("TRACING_ENABLED", false),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
