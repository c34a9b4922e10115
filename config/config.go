package config

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const (
	// MinIPHashSecretLength is the minimum required length for the IP hash secret in production
	MinIPHashSecretLength = 32
)

type Config struct {
	ServerPort    string
	Environment   string
	PublicDir     string
	DefaultLocale string
	// Database. DBEnabled=false runs without a lead store.
	DBEnabled        bool
	DBPath           string
	TursoDatabaseURL string
	TursoAuthToken   string
	// Email (Resend)
	ResendAPIKey    string
	EmailFrom       string
	EmailFromName   string
	EmailTestMode   bool // When true, emails are logged instead of sent
	ContactNotifyTo string
	NotifyLocale    string
	// Cloudflare Turnstile
	TurnstileSiteKey   string
	TurnstileSecretKey string
	// Origin allowed to post the contact form. Empty disables the check.
	AllowedOrigin string
	// Consent logging
	IPHashSecret string
	// Lead exports (Cloudflare R2, local fallback)
	ExportDir         string
	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
}

// Load reads the configuration from the environment, loading a .env file first when present.
func Load() (*Config, error) {
	// A missing .env file is fine, system environment variables are used instead
	_ = godotenv.Load()

	environment := getEnv("ENVIRONMENT", "development")

	ipHashSecret := getEnv("IP_HASH_SECRET", "")
	if err := ValidateIPHashSecret(ipHashSecret, environment); err != nil {
		return nil, err
	}
	if ipHashSecret == "" {
		ipHashSecret = GenerateSecureSecret()
	}

	cfg := &Config{
		ServerPort:         getEnv("SERVER_PORT", "8080"),
		Environment:        environment,
		PublicDir:          getEnv("PUBLIC_DIR", "public"),
		DefaultLocale:      getEnv("DEFAULT_LOCALE", "de"),
		DBEnabled:          getEnvBool("DB_ENABLED", true),
		DBPath:             getEnv("DB_PATH", "db/leads.db"),
		TursoDatabaseURL:   getEnv("TURSO_DATABASE_URL", ""),
		TursoAuthToken:     getEnv("TURSO_AUTH_TOKEN", ""),
		ResendAPIKey:       getEnv("RESEND_API_KEY", ""),
		EmailFrom:          getEnv("EMAIL_FROM", "kontakt@techsupportpro.de"),
		EmailFromName:      getEnv("EMAIL_FROM_NAME", "Tech Support Pro Kontaktformular"),
		EmailTestMode:      getEnvBool("EMAIL_TEST_MODE", false),
		ContactNotifyTo:    getEnv("CONTACT_NOTIFY_TO", "info@techsupportpro.de"),
		NotifyLocale:       getEnv("NOTIFY_LOCALE", "de"),
		TurnstileSiteKey:   getEnv("TURNSTILE_SITE_KEY", ""),
		TurnstileSecretKey: getEnv("TURNSTILE_SECRET_KEY", ""),
		AllowedOrigin:      strings.TrimRight(getEnv("ALLOWED_ORIGIN", ""), "/"),
		IPHashSecret:       ipHashSecret,
		ExportDir:          getEnv("EXPORT_DIR", "exports"),
		R2AccountID:        getEnv("R2_ACCOUNT_ID", ""),
		R2AccessKeyID:      getEnv("R2_ACCESS_KEY_ID", ""),
		R2SecretAccessKey:  getEnv("R2_SECRET_ACCESS_KEY", ""),
		R2BucketName:       getEnv("R2_BUCKET_NAME", ""),
	}

	return cfg, nil
}

// IsProduction reports whether the app runs with production settings
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// DatabaseConfigured reports whether a lead store should be opened
func (c *Config) DatabaseConfigured() bool {
	return c.DBEnabled && (c.TursoDatabaseURL != "" || c.DBPath != "")
}

// R2Configured reports whether every R2 credential is present
func (c *Config) R2Configured() bool {
	return c.R2AccountID != "" && c.R2AccessKeyID != "" && c.R2SecretAccessKey != "" && c.R2BucketName != ""
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	// Accept common boolean representations
	switch strings.ToLower(value) {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	default:
		return defaultValue
	}
}

// ValidateIPHashSecret validates the secret used to pseudonymise IP addresses.
// In production it must be at least 32 characters and not a known insecure default.
func ValidateIPHashSecret(secret string, environment string) error {
	if environment != "production" {
		return nil
	}

	// Known insecure defaults that must be rejected
	insecureDefaults := []string{
		"change-me",
		"secret",
		"development",
		"test",
		"",
	}

	for _, insecure := range insecureDefaults {
		if strings.EqualFold(secret, insecure) {
			return fmt.Errorf("IP_HASH_SECRET is unset or an insecure default, generate one with: openssl rand -base64 32")
		}
	}

	if len(secret) < MinIPHashSecretLength {
		return fmt.Errorf("IP_HASH_SECRET must be at least %d characters in production (current: %d)", MinIPHashSecretLength, len(secret))
	}

	return nil
}

// GenerateSecureSecret generates a cryptographically secure random secret.
// Only used in development when no secret is provided.
func GenerateSecureSecret() string {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return ""
	}
	return base64.StdEncoding.EncodeToString(bytes)
}
