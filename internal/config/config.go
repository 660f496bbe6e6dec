package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port          string
	Env           string
	LogLevel      string
	DatabaseURL   string
	RedisAddr     string
	RedisPassword string
	RedisTLS      bool

	// SMS provider (HTTP gateway), with an optional fallback gateway used
	// when the primary send fails
	SMSBaseURL            string
	SMSAPIKey             string
	SMSFromNumber         string
	SMSTimeout            time.Duration
	SMSFallbackBaseURL    string
	SMSFallbackAPIKey     string
	SMSFallbackFromNumber string

	// Email channel
	EmailProvider      string
	SendGridAPIKey     string
	SendGridFromEmail  string
	SendGridFromName   string
	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	SESFromEmail       string

	// Google Calendar mirroring
	GoogleCalendarID          string
	GoogleCredentialsJSONPath string
	CalendarTimeout           time.Duration

	// Notification scheduling
	ScanInterval       time.Duration
	RetryDrainInterval time.Duration
	CleanupInterval    time.Duration
	RetryBaseDelay     time.Duration
	RetryMaxAttempts   int
	RecordRetention    time.Duration
	PrepCategories     []string

	// Catalog cache
	CatalogRefreshInterval time.Duration

	// Calendar resync pass
	CalendarResyncInterval time.Duration

	// Staff API auth
	AdminJWTSecret string

	// HTTP surface
	SalonName          string
	CORSAllowedOrigins []string
	RateLimitPerSecond float64
	RateLimitBurst     int
}

// Load reads configuration from environment variables. A .env file in the
// working directory is applied first when present; real env vars win.
func Load() *Config {
	_ = godotenv.Load()
	return &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),

		SMSBaseURL:            getEnv("SMS_BASE_URL", ""),
		SMSAPIKey:             getEnv("SMS_API_KEY", ""),
		SMSFromNumber:         getEnv("SMS_FROM_NUMBER", ""),
		SMSTimeout:            getEnvAsDuration("SMS_TIMEOUT", 30*time.Second),
		SMSFallbackBaseURL:    getEnv("SMS_FALLBACK_BASE_URL", ""),
		SMSFallbackAPIKey:     getEnv("SMS_FALLBACK_API_KEY", ""),
		SMSFallbackFromNumber: getEnv("SMS_FALLBACK_FROM_NUMBER", ""),

		EmailProvider:      strings.ToLower(strings.TrimSpace(getEnv("EMAIL_PROVIDER", "none"))),
		SendGridAPIKey:     getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail:  getEnv("SENDGRID_FROM_EMAIL", ""),
		SendGridFromName:   getEnv("SENDGRID_FROM_NAME", "SalonOps"),
		AWSRegion:          getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
		SESFromEmail:       getEnv("SES_FROM_EMAIL", ""),

		GoogleCalendarID:          getEnv("GOOGLE_CALENDAR_ID", ""),
		GoogleCredentialsJSONPath: getEnv("GOOGLE_CREDENTIALS_JSON_PATH", ""),
		CalendarTimeout:           getEnvAsDuration("CALENDAR_TIMEOUT", 30*time.Second),

		ScanInterval:       getEnvAsDuration("NOTIFY_SCAN_INTERVAL", 5*time.Minute),
		RetryDrainInterval: getEnvAsDuration("NOTIFY_RETRY_INTERVAL", 10*time.Minute),
		CleanupInterval:    getEnvAsDuration("NOTIFY_CLEANUP_INTERVAL", 24*time.Hour),
		RetryBaseDelay:     getEnvAsDuration("NOTIFY_RETRY_BASE_DELAY", 5*time.Minute),
		RetryMaxAttempts:   getEnvAsInt("NOTIFY_RETRY_MAX_ATTEMPTS", 3),
		RecordRetention:    getEnvAsDuration("NOTIFY_RECORD_RETENTION", 30*24*time.Hour),
		PrepCategories:     getEnvAsList("NOTIFY_PREP_CATEGORIES", []string{"coloring", "chemical_treatment"}),

		CatalogRefreshInterval: getEnvAsDuration("CATALOG_REFRESH_INTERVAL", 10*time.Minute),

		CalendarResyncInterval: getEnvAsDuration("CALENDAR_RESYNC_INTERVAL", 15*time.Minute),

		AdminJWTSecret: getEnv("ADMIN_JWT_SECRET", ""),

		SalonName:          getEnv("SALON_NAME", "SalonOps"),
		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", nil),
		RateLimitPerSecond: getEnvAsFloat("RATE_LIMIT_PER_SECOND", 10),
		RateLimitBurst:     getEnvAsInt("RATE_LIMIT_BURST", 20),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsFloat retrieves an environment variable as a float or returns a default value
func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
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

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
