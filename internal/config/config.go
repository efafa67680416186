package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	// Server
	Port        string
	Env         string
	AppBaseURL  string
	CORSOrigins []string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT
	JWTSecret        string
	JWTExpirationDur time.Duration

	// Google sign-in
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string

	// Payments
	WebhookSecret string
	CheckoutURL   string

	// Subscription limits
	PremiumMaxLookbackDays int

	// Mail
	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	EmailFrom    string

	// Summary queue
	AMQPURL            string
	AMQPExchange       string
	AMQPQueue          string
	SummaryConcurrency int

	// Export
	ExportFontPath string
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		Port:        getEnv("PORT", "8080"),
		Env:         getEnv("ENV", "development"),
		AppBaseURL:  getEnv("APP_BASE_URL", "http://localhost:3000"),
		CORSOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "fincheck"),
		DBPassword: getEnv("DB_PASSWORD", "fincheck"),
		DBName:     getEnv("DB_NAME", "fincheck"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret: getEnv("JWT_SECRET", "fallback-secret-key-for-dev-only"),

		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURL:  getEnv("GOOGLE_REDIRECT_URL", "http://localhost:8080/api/v1/auth/google/callback"),

		WebhookSecret: getEnv("WEBHOOK_SECRET", ""),
		CheckoutURL:   getEnv("CHECKOUT_URL", ""),

		PremiumMaxLookbackDays: getEnvInt("PREMIUM_MAX_LOOKBACK_DAYS", 3650),

		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnv("SMTP_PORT", "587"),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		EmailFrom:    getEnv("EMAIL_FROM", "Fincheck <no-reply@fincheck.local>"),

		AMQPURL:            getEnv("AMQP_URL", ""),
		AMQPExchange:       getEnv("AMQP_EXCHANGE", "fincheck"),
		AMQPQueue:          getEnv("AMQP_QUEUE", "weekly-summary"),
		SummaryConcurrency: getEnvInt("SUMMARY_CONCURRENCY", 4),

		ExportFontPath: getEnv("EXPORT_FONT_PATH", ""),
	}

	expStr := getEnv("JWT_EXPIRES_IN", "24h")
	expDur, err := time.ParseDuration(expStr)
	if err != nil {
		log.Printf("Warning: invalid JWT_EXPIRES_IN value '%s', falling back to 24h\n", expStr)
		expDur = 24 * time.Hour
	}
	config.JWTExpirationDur = expDur

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// DSN returns the PostgreSQL connection string used by GORM.
func (c *Config) DSN() string {
	return "host=" + c.DBHost + " port=" + c.DBPort + " user=" + c.DBUser +
		" password=" + c.DBPassword + " dbname=" + c.DBName + " sslmode=" + c.DBSSLMode
}

// MigrationURL returns the postgres:// URL expected by golang-migrate.
func (c *Config) MigrationURL() string {
	return "postgres://" + c.DBUser + ":" + c.DBPassword + "@" + c.DBHost + ":" + c.DBPort +
		"/" + c.DBName + "?sslmode=" + c.DBSSLMode
}

// GoogleEnabled reports whether Google sign-in credentials are configured.
func (c *Config) GoogleEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != ""
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		log.Printf("Warning: invalid %s value '%s', falling back to %d\n", key, raw, defaultValue)
		return defaultValue
	}
	return n
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
