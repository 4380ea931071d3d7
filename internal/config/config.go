package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port               string
	Env                string
	LogLevel           string
	CORSAllowedOrigins []string

	// Clinic
	ClinicName     string
	ClinicTimezone string

	// Session slots (Redis when configured, memory otherwise)
	RedisAddr            string
	RedisPassword        string
	RedisTLS             bool
	SessionSigningSecret string
	SessionTTL           time.Duration
	SessionCookieSecure  bool

	// Simulated latency of the original UI flows
	AuthSimulatedDelay time.Duration
	ChatReplyDelay     time.Duration

	// Unsubmitted booking drafts older than this are pruned
	DraftMaxAge       time.Duration
	// REST chat conversations idle for this long are closed
	ChatSessionMaxAge time.Duration

	// Remote users store
	MongoURI      string
	MongoDatabase string

	// Appointments
	DatabaseURL string

	// Per-IP rate limiting for auth routes and chat session creation
	AuthRateLimitPerSecond float64
	AuthRateLimitBurst     int
	ChatOpenRatePerSecond  float64
	ChatOpenRateBurst      int

	// Email confirmations: "sendgrid", "ses" or empty for the stub sender
	EmailProvider      string
	EmailFromAddress   string
	EmailFromName      string
	EmailReplyTo       string
	SendGridAPIKey     string
	SESConfigSet       string
	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:               getEnv("PORT", "8080"),
		Env:                getEnv("ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", nil),

		ClinicName:     getEnv("CLINIC_NAME", "Synapse Clinic Hub"),
		ClinicTimezone: getEnv("CLINIC_TIMEZONE", "Asia/Kolkata"),

		RedisAddr:            getEnv("REDIS_ADDR", ""),
		RedisPassword:        getEnv("REDIS_PASSWORD", ""),
		RedisTLS:             getEnvAsBool("REDIS_TLS", false),
		SessionSigningSecret: getEnv("SESSION_SIGNING_SECRET", ""),
		SessionTTL:           getEnvAsDuration("SESSION_TTL", 0),
		SessionCookieSecure:  getEnvAsBool("SESSION_COOKIE_SECURE", false),

		AuthSimulatedDelay: getEnvAsDuration("AUTH_SIMULATED_DELAY", 1500*time.Millisecond),
		ChatReplyDelay:     getEnvAsDuration("CHAT_REPLY_DELAY", 800*time.Millisecond),

		DraftMaxAge:       getEnvAsDuration("DRAFT_MAX_AGE", 2*time.Hour),
		ChatSessionMaxAge: getEnvAsDuration("CHAT_SESSION_MAX_AGE", 30*time.Minute),

		MongoURI:      getEnv("MONGODB_URI", ""),
		MongoDatabase: getEnv("MONGODB_DATABASE", "synapse-clinic"),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		AuthRateLimitPerSecond: getEnvAsFloat("AUTH_RATE_LIMIT_RPS", 2),
		AuthRateLimitBurst:     getEnvAsInt("AUTH_RATE_LIMIT_BURST", 10),
		ChatOpenRatePerSecond:  getEnvAsFloat("CHAT_OPEN_RATE_LIMIT_RPS", 0.5),
		ChatOpenRateBurst:      getEnvAsInt("CHAT_OPEN_RATE_LIMIT_BURST", 5),

		EmailProvider:      strings.ToLower(strings.TrimSpace(getEnv("EMAIL_PROVIDER", ""))),
		EmailFromAddress:   getEnv("EMAIL_FROM_ADDRESS", ""),
		EmailFromName:      getEnv("EMAIL_FROM_NAME", "Synapse Clinic Hub"),
		EmailReplyTo:       getEnv("EMAIL_REPLY_TO", ""),
		SendGridAPIKey:     getEnv("SENDGRID_API_KEY", ""),
		SESConfigSet:       getEnv("SES_CONFIGURATION_SET", ""),
		AWSRegion:          getEnv("AWS_REGION", "ap-south-1"),
		AWSAccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
	}
}

// IsProduction reports whether the service runs with production defaults.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
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

// getEnvAsList splits a comma-separated variable, dropping blank entries.
func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
