package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT
	JWTSecret    string
	JWTExpiry    time.Duration
	CookieSecure bool

	// Admin
	AdminEmails string

	// Server
	Port          string
	CORSOrigins   string
	UploadMaxSize int64

	// Email
	SMTPHost      string
	SMTPPort      int
	EmailUser     string
	EmailPassword string
	SupportEmail  string

	// Observability
	SentryDSN string
	AppEnv    string
}

func Load() *Config {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "pricepulse"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret:    getEnv("JWT_SECRET", ""),
		JWTExpiry:    parseDuration(getEnv("JWT_EXPIRY", "168h")),
		CookieSecure: parseBool(getEnv("COOKIE_SECURE", "true")),

		AdminEmails: getEnv("ADMIN_EMAILS", ""),

		Port:          getEnv("PORT", "8080"),
		CORSOrigins:   getEnv("CORS_ORIGINS", "*"),
		UploadMaxSize: parseInt64(getEnv("UPLOAD_MAX_SIZE", "5000000"), 5000000),

		SMTPHost:      getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:      int(parseInt64(getEnv("SMTP_PORT", "587"), 587)),
		EmailUser:     getEnv("EMAIL_USER", ""),
		EmailPassword: getEnv("EMAIL_PASSWORD", ""),
		SupportEmail:  getEnv("SUPPORT_EMAIL", "support@pricepulse.ng"),

		SentryDSN: getEnv("SENTRY_DSN", ""),
		AppEnv:    getEnv("APP_ENV", "development"),
	}
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

// EmailConfigured reports whether outbound SMTP credentials are present.
func (c *Config) EmailConfigured() bool {
	return c.EmailUser != "" && c.EmailPassword != ""
}

// AdminEmailList returns ADMIN_EMAILS split on commas, lower-cased.
func (c *Config) AdminEmailList() []string {
	return parseCSV(strings.ToLower(c.AdminEmails))
}

// CORSOriginList returns CORS_ORIGINS split on commas without trailing slashes.
func (c *Config) CORSOriginList() []string {
	origins := parseCSV(c.CORSOrigins)
	for i, o := range origins {
		origins[i] = strings.TrimSuffix(o, "/")
	}
	return origins
}

func parseCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 7 * 24 * time.Hour
	}
	return d
}

func parseBool(s string) bool {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return true
	}
	return b
}

func parseInt64(s string, fallback int64) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}
