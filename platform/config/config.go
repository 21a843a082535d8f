// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// JWTConfig provides JWT validation settings for middleware.
type JWTConfig interface {
	GetJWTAccessSecret() string
}

// AuthServiceConfig provides settings needed by the auth service.
type AuthServiceConfig interface {
	JWTConfig
	GetAccessTokenTTL() time.Duration
	GetSeedDemoUsers() bool
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// SMTPConfig provides settings for outbound mail.
type SMTPConfig interface {
	GetSMTPEnabled() bool
	GetSMTPHost() string
	GetSMTPPort() int
	GetSMTPUsername() string
	GetSMTPPassword() string
	GetEmailFromName() string
	GetEmailFromAddress() string
}

// MinIOConfig provides settings for MinIO S3-compatible storage.
type MinIOConfig interface {
	GetMinIOEndpoint() string
	GetMinIOAccessKey() string
	GetMinIOSecretKey() string
	GetMinIOUseSSL() bool
	GetMinioBucketOfferPDFs() string
	GetMinioBucketBackups() string
	IsMinIOEnabled() bool
}

// GotenbergConfig provides settings for the Gotenberg HTML-to-PDF service.
type GotenbergConfig interface {
	GetGotenbergURL() string
	GetGotenbergUsername() string
	GetGotenbergPassword() string
	IsGotenbergEnabled() bool
}

// PricingConfig provides settings for the remote catalog/pricing service.
type PricingConfig interface {
	GetPricingServiceURL() string
	GetPricingServiceAPIKey() string
	GetPricingServiceTimeout() time.Duration
	IsPricingServiceEnabled() bool
}

// RedisConfig provides settings for the asynq task queue.
type RedisConfig interface {
	GetRedisAddr() string
	GetRedisPassword() string
	GetWorkerConcurrency() int
}

// BackupConfig provides settings for scheduled cloud backups.
type BackupConfig interface {
	GetBackupCronSpec() string
	GetBackupRetention() int
}

// OfferConfig provides settings for offer rendering.
type OfferConfig interface {
	GetAppBaseURL() string
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                   string
	HTTPAddr              string
	DatabaseURL           string
	JWTAccessSecret       string
	AccessTokenTTL        time.Duration
	SeedDemoUsers         bool
	CORSAllowAll          bool
	CORSOrigins           []string
	CORSAllowCreds        bool
	AppBaseURL            string
	SMTPEnabled           bool
	SMTPHost              string
	SMTPPort              int
	SMTPUsername          string
	SMTPPassword          string
	EmailFromName         string
	EmailFromAddress      string
	MinIOEndpoint         string
	MinIOAccessKey        string
	MinIOSecretKey        string
	MinIOUseSSL           bool
	MinioBucketOfferPDFs  string
	MinioBucketBackups    string
	GotenbergURL          string
	GotenbergUsername     string
	GotenbergPassword     string
	PricingServiceURL     string
	PricingServiceAPIKey  string
	PricingServiceTimeout time.Duration
	RedisAddr             string
	RedisPassword         string
	WorkerConcurrency     int
	BackupCronSpec        string
	BackupRetention       int
}

// =============================================================================
// Interface Implementations
// =============================================================================

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

// JWTConfig implementation
func (c *Config) GetJWTAccessSecret() string { return c.JWTAccessSecret }

// AuthServiceConfig implementation
func (c *Config) GetAccessTokenTTL() time.Duration { return c.AccessTokenTTL }
func (c *Config) GetSeedDemoUsers() bool           { return c.SeedDemoUsers }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }

// SMTPConfig implementation
func (c *Config) GetSMTPEnabled() bool        { return c.SMTPEnabled }
func (c *Config) GetSMTPHost() string         { return c.SMTPHost }
func (c *Config) GetSMTPPort() int            { return c.SMTPPort }
func (c *Config) GetSMTPUsername() string     { return c.SMTPUsername }
func (c *Config) GetSMTPPassword() string     { return c.SMTPPassword }
func (c *Config) GetEmailFromName() string    { return c.EmailFromName }
func (c *Config) GetEmailFromAddress() string { return c.EmailFromAddress }

// MinIOConfig implementation
func (c *Config) GetMinIOEndpoint() string        { return c.MinIOEndpoint }
func (c *Config) GetMinIOAccessKey() string       { return c.MinIOAccessKey }
func (c *Config) GetMinIOSecretKey() string       { return c.MinIOSecretKey }
func (c *Config) GetMinIOUseSSL() bool            { return c.MinIOUseSSL }
func (c *Config) GetMinioBucketOfferPDFs() string { return c.MinioBucketOfferPDFs }
func (c *Config) GetMinioBucketBackups() string   { return c.MinioBucketBackups }
func (c *Config) IsMinIOEnabled() bool            { return c.MinIOEndpoint != "" }

// GotenbergConfig implementation
func (c *Config) GetGotenbergURL() string      { return c.GotenbergURL }
func (c *Config) GetGotenbergUsername() string { return c.GotenbergUsername }
func (c *Config) GetGotenbergPassword() string { return c.GotenbergPassword }
func (c *Config) IsGotenbergEnabled() bool     { return c.GotenbergURL != "" }

// PricingConfig implementation
func (c *Config) GetPricingServiceURL() string           { return c.PricingServiceURL }
func (c *Config) GetPricingServiceAPIKey() string        { return c.PricingServiceAPIKey }
func (c *Config) GetPricingServiceTimeout() time.Duration { return c.PricingServiceTimeout }
func (c *Config) IsPricingServiceEnabled() bool          { return c.PricingServiceURL != "" }

// RedisConfig implementation
func (c *Config) GetRedisAddr() string     { return c.RedisAddr }
func (c *Config) GetRedisPassword() string { return c.RedisPassword }
func (c *Config) GetWorkerConcurrency() int { return c.WorkerConcurrency }

// BackupConfig implementation
func (c *Config) GetBackupCronSpec() string { return c.BackupCronSpec }
func (c *Config) GetBackupRetention() int   { return c.BackupRetention }

// OfferConfig implementation
func (c *Config) GetAppBaseURL() string { return c.AppBaseURL }

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	smtpHost := getEnv("SMTP_HOST", "")
	smtpEnabled := strings.EqualFold(getEnv("SMTP_ENABLED", "true"), "true")

	cfg := &Config{
		Env:                   getEnv("APP_ENV", "development"),
		HTTPAddr:              getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:           getEnv("DATABASE_URL", ""),
		JWTAccessSecret:       getEnv("JWT_ACCESS_SECRET", ""),
		AccessTokenTTL:        mustDuration(getEnv("JWT_ACCESS_TTL", "12h")),
		SeedDemoUsers:         strings.EqualFold(getEnv("SEED_DEMO_USERS", "true"), "true"),
		CORSAllowAll:          corsAllowAll,
		CORSOrigins:           corsOrigins,
		CORSAllowCreds:        strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "true"), "true"),
		AppBaseURL:            getEnv("APP_BASE_URL", "http://localhost:5173"),
		SMTPEnabled:           smtpEnabled && smtpHost != "",
		SMTPHost:              smtpHost,
		SMTPPort:              mustInt(getEnv("SMTP_PORT", "587")),
		SMTPUsername:          getEnv("SMTP_USERNAME", ""),
		SMTPPassword:          getEnv("SMTP_PASSWORD", ""),
		EmailFromName:         getEnv("EMAIL_FROM_NAME", "FFD POWER"),
		EmailFromAddress:      getEnv("EMAIL_FROM_ADDRESS", ""),
		MinIOEndpoint:         getEnv("MINIO_ENDPOINT", ""),
		MinIOAccessKey:        getEnv("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey:        getEnv("MINIO_SECRET_KEY", ""),
		MinIOUseSSL:           strings.EqualFold(getEnv("MINIO_USE_SSL", "false"), "true"),
		MinioBucketOfferPDFs:  getEnv("MINIO_BUCKET_OFFER_PDFS", "offer-pdfs"),
		MinioBucketBackups:    getEnv("MINIO_BUCKET_BACKUPS", "quote-backups"),
		GotenbergURL:          getEnv("GOTENBERG_URL", ""),
		GotenbergUsername:     getEnv("GOTENBERG_USERNAME", ""),
		GotenbergPassword:     getEnv("GOTENBERG_PASSWORD", ""),
		PricingServiceURL:     getEnv("PRICING_SERVICE_URL", ""),
		PricingServiceAPIKey:  getEnv("PRICING_SERVICE_API_KEY", ""),
		PricingServiceTimeout: mustDuration(getEnv("PRICING_SERVICE_TIMEOUT", "5s")),
		RedisAddr:             getEnv("REDIS_ADDR", ""),
		RedisPassword:         getEnv("REDIS_PASSWORD", ""),
		WorkerConcurrency:     mustInt(getEnv("WORKER_CONCURRENCY", "5")),
		BackupCronSpec:        getEnv("BACKUP_CRON_SPEC", "0 3 * * *"),
		BackupRetention:       mustInt(getEnv("BACKUP_RETENTION", "30")),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTAccessSecret == "" {
		return nil, fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	if smtpEnabled && cfg.SMTPEnabled && cfg.EmailFromAddress == "" {
		return nil, fmt.Errorf("EMAIL_FROM_ADDRESS is required when SMTP is enabled")
	}
	if cfg.CORSAllowAll && cfg.CORSAllowCreds {
		return nil, fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt(value string) int {
	result, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
