package config

import (
	"os"
	"strconv"
	"strings"
)

// Config carries everything the API and worker read from the environment.
// Secrets support the *_FILE indirection used by container secret mounts.
type Config struct {
	ProductsTable string
	OrdersTable   string
	ProfilesTable string
	CountersTable string

	EmailQueueURL string

	// Order number scheme: "counter" (CS-001) or "daily" (CS20250829001).
	OrderNumberScheme string
	OrderNumberPrefix string

	// Local rqlite node used when DynamoDB is unreachable. Empty disables the
	// fallback path.
	FallbackURL string

	JWTSecret string

	RazorpayKeyID     string
	RazorpayKeySecret string

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	EmailFrom    string

	MetricsNamespace string
}

func Load() *Config {
	return &Config{
		ProductsTable:     getEnv("PRODUCTS_TABLE", "storefront-products"),
		OrdersTable:       getEnv("ORDERS_TABLE", "storefront-orders"),
		ProfilesTable:     getEnv("PROFILES_TABLE", "storefront-profiles"),
		CountersTable:     getEnv("COUNTERS_TABLE", "storefront-counters"),
		EmailQueueURL:     getEnv("ORDER_EMAIL_QUEUE_URL", ""),
		OrderNumberScheme: getEnv("ORDER_NUMBER_SCHEME", "counter"),
		OrderNumberPrefix: getEnv("ORDER_NUMBER_PREFIX", "CS"),
		FallbackURL:       getEnv("FALLBACK_RQLITE_URL", ""),
		JWTSecret:         getEnvFromFile("JWT_SECRET_FILE", "JWT_SECRET", ""),
		RazorpayKeyID:     getEnv("RAZORPAY_KEY_ID", ""),
		RazorpayKeySecret: getEnvFromFile("RAZORPAY_KEY_SECRET_FILE", "RAZORPAY_KEY_SECRET", ""),
		SMTPHost:          getEnv("SMTP_HOST", ""),
		SMTPPort:          getEnvInt("SMTP_PORT", 587),
		SMTPUser:          getEnv("SMTP_USER", ""),
		SMTPPassword:      getEnvFromFile("SMTP_PASSWORD_FILE", "SMTP_PASSWORD", ""),
		EmailFrom:         getEnv("EMAIL_FROM", "orders@cs-truck.example"),
		MetricsNamespace:  getEnv("METRICS_NAMESPACE", "Storefront"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFromFile(fileKey, envKey, defaultValue string) string {
	if filePath := os.Getenv(fileKey); filePath != "" {
		if content, err := os.ReadFile(filePath); err == nil {
			return strings.TrimSpace(string(content))
		}
	}
	return getEnv(envKey, defaultValue)
}
