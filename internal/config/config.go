package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// FlowVariant selects which booking dialogue strategy the bot runs.
type FlowVariant string

const (
	// FlowMenu drives date/time capture through list menus.
	FlowMenu FlowVariant = "menu"
	// FlowAI infers the appointment date/time from free text with an LLM.
	FlowAI FlowVariant = "ai"
)

// Config holds application configuration.
type Config struct {
	Port     string
	Env      string
	LogLevel string

	// Meta WhatsApp Cloud API credentials.
	VerifyToken    string
	MetaJWTToken   string
	MetaNumberID   string
	MetaAPIVersion string
	MetaAppSecret  string

	// Booking flow.
	FlowVariant         FlowVariant
	ClinicName          string
	ClinicTimezone      string
	AppointmentDuration time.Duration
	SessionTTL          time.Duration

	// Google Calendar.
	GoogleCalendarID      string
	GoogleCredentialsJSON string

	// LLM providers.
	OpenAIAPIKey string
	OpenAIModel  string
	GeminiAPIKey string
	GeminiModel  string

	// Session store.
	RedisAddr     string
	RedisPassword string
	RedisTLS      bool

	// Booking log.
	DatabaseURL string

	AdminJWTSecret string
}

// Load reads configuration from environment variables.
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "3008"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		VerifyToken:    getEnv("VERIFY_TOKEN", ""),
		MetaJWTToken:   getEnv("META_JWT_TOKEN", ""),
		MetaNumberID:   getEnv("META_NUMBER_ID", ""),
		MetaAPIVersion: getEnv("META_API_VERSION", "v22.0"),
		MetaAppSecret:  getEnv("META_APP_SECRET", ""),

		FlowVariant:         parseFlowVariant(getEnv("FLOW_VARIANT", "menu")),
		ClinicName:          getEnv("CLINIC_NAME", "Clínica Salud Total"),
		ClinicTimezone:      getEnv("CLINIC_TIMEZONE", "America/Santiago"),
		AppointmentDuration: getEnvAsDuration("APPOINTMENT_DURATION", time.Hour),
		SessionTTL:          getEnvAsDuration("SESSION_TTL", 24*time.Hour),

		GoogleCalendarID:      getEnv("GOOGLE_CALENDAR_ID", ""),
		GoogleCredentialsJSON: getEnv("GOOGLE_CREDENTIALS_JSON", ""),

		OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:  getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.5-flash"),

		RedisAddr:     getEnv("REDIS_ADDR", "redis:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		AdminJWTSecret: getEnv("ADMIN_JWT_SECRET", ""),
	}
}

func parseFlowVariant(raw string) FlowVariant {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "ai":
		return FlowAI
	default:
		return FlowMenu
	}
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value.
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
