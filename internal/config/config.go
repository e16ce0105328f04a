package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Email      EmailConfig      `yaml:"email"`
	JWT        JWTConfig        `yaml:"jwt"`
	Storage    StorageConfig    `yaml:"storage"`
	Events     EventsConfig     `yaml:"events"`
	Log        LogConfig        `yaml:"log"`
	Membership MembershipConfig `yaml:"membership"`
	RateLimit  RateLimitConfig  `yaml:"rate_limit"`
	Scheduler  SchedulerConfig  `yaml:"scheduler"`
	Client     ClientConfig     `yaml:"client"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host                string `yaml:"host"`
	Port                int    `yaml:"port"`
	BaseURL             string `yaml:"base_url"`
	ReadTimeoutSeconds  int    `yaml:"read_timeout_seconds"`
	WriteTimeoutSeconds int    `yaml:"write_timeout_seconds"`
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
}

// EmailConfig contains SendGrid settings. An empty API key disables delivery.
type EmailConfig struct {
	SendGridAPIKey string `yaml:"sendgrid_api_key"`
	FromName       string `yaml:"from_name"`
	FromEmail      string `yaml:"from_email"`
}

// JWTConfig contains JWT token settings
type JWTConfig struct {
	Secret             string `yaml:"secret"`
	AccessTokenExpiry  int    `yaml:"access_token_expiry_minutes"`
	RefreshTokenExpiry int    `yaml:"refresh_token_expiry_minutes"`
}

// StorageConfig contains file storage settings
type StorageConfig struct {
	Type                string `yaml:"type"`       // "local" or "cloudinary"
	UploadDir           string `yaml:"upload_dir"` // For local storage
	MaxFileSize         int64  `yaml:"max_file_size_mb"`
	CloudinaryCloudName string `yaml:"cloudinary_cloud_name"`
	CloudinaryAPIKey    string `yaml:"cloudinary_api_key"`
	CloudinaryAPISecret string `yaml:"cloudinary_api_secret"`
}

// EventsConfig contains Kafka settings. No brokers means events are dropped.
type EventsConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// MembershipConfig contains fees and share thresholds
type MembershipConfig struct {
	SharePriceCents    int64 `yaml:"share_price_cents"`
	ActivationFeeCents int64 `yaml:"activation_fee_cents"`
	SingleFeeCents     int64 `yaml:"single_fee_cents"`
	DoubleFeeCents     int64 `yaml:"double_fee_cents"`
	CriticalLowShares  int32 `yaml:"critical_low_shares"`
	LowShares          int32 `yaml:"low_shares"`
}

// RateLimitConfig throttles login attempts per client address
type RateLimitConfig struct {
	LoginPerMinute int `yaml:"login_per_minute"`
	Burst          int `yaml:"burst"`
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	ShareBalanceAdvisory string `yaml:"share_balance_advisory"`
	PendingReviewDigest  string `yaml:"pending_review_digest"`
}

// ClientConfig is used by the admin CLI
type ClientConfig struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse YAML
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Override with environment variables if present
	cfg.overrideWithEnv()

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	// Database
	if val := os.Getenv("DB_HOST"); val != "" {
		c.Database.Host = val
	}
	if val := os.Getenv("DB_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Database.Port)
	}
	if val := os.Getenv("DB_USER"); val != "" {
		c.Database.User = val
	}
	if val := os.Getenv("DB_PASSWORD"); val != "" {
		c.Database.Password = val
	}
	if val := os.Getenv("DB_NAME"); val != "" {
		c.Database.Database = val
	}
	if val := os.Getenv("DB_SSL_MODE"); val != "" {
		c.Database.SSLMode = val
	}

	// Email
	if val := os.Getenv("SENDGRID_API_KEY"); val != "" {
		c.Email.SendGridAPIKey = val
	}
	if val := os.Getenv("EMAIL_FROM"); val != "" {
		c.Email.FromEmail = val
	}

	// JWT
	if val := os.Getenv("JWT_SECRET"); val != "" {
		c.JWT.Secret = val
	}

	// Server
	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.Port)
	}

	// Storage
	if val := os.Getenv("STORAGE_TYPE"); val != "" {
		c.Storage.Type = val
	}
	if val := os.Getenv("UPLOAD_DIR"); val != "" {
		c.Storage.UploadDir = val
	}
	if val := os.Getenv("CLOUDINARY_CLOUD_NAME"); val != "" {
		c.Storage.CloudinaryCloudName = val
	}
	if val := os.Getenv("CLOUDINARY_API_KEY"); val != "" {
		c.Storage.CloudinaryAPIKey = val
	}
	if val := os.Getenv("CLOUDINARY_API_SECRET"); val != "" {
		c.Storage.CloudinaryAPISecret = val
	}

	// Events
	if val := os.Getenv("KAFKA_BROKERS"); val != "" {
		c.Events.Brokers = strings.Split(val, ",")
	}
	if val := os.Getenv("KAFKA_TOPIC"); val != "" {
		c.Events.Topic = val
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}

	// Client
	if val := os.Getenv("PAMOJA_API_URL"); val != "" {
		c.Client.BaseURL = val
	}

	// Set defaults for log if not configured
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Server validation
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.ReadTimeoutSeconds == 0 {
		c.Server.ReadTimeoutSeconds = 15
	}
	if c.Server.WriteTimeoutSeconds == 0 {
		c.Server.WriteTimeoutSeconds = 30
	}

	// Database validation
	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}

	// JWT validation
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters")
	}
	if c.JWT.AccessTokenExpiry == 0 {
		c.JWT.AccessTokenExpiry = 60
	}
	if c.JWT.RefreshTokenExpiry == 0 {
		c.JWT.RefreshTokenExpiry = 7 * 24 * 60
	}

	// Email defaults
	if c.Email.FromName == "" {
		c.Email.FromName = "Pamoja Kenya"
	}
	if c.Email.SendGridAPIKey != "" && c.Email.FromEmail == "" {
		return fmt.Errorf("email from address is required when SendGrid is configured")
	}

	// Storage validation
	switch c.Storage.Type {
	case "", "local":
		c.Storage.Type = "local"
		if c.Storage.UploadDir == "" {
			return fmt.Errorf("upload directory is required")
		}
	case "cloudinary":
		if c.Storage.CloudinaryCloudName == "" || c.Storage.CloudinaryAPIKey == "" || c.Storage.CloudinaryAPISecret == "" {
			return fmt.Errorf("cloudinary cloud name, api key and api secret are required")
		}
	default:
		return fmt.Errorf("unsupported storage type: %s", c.Storage.Type)
	}
	if c.Storage.MaxFileSize == 0 {
		c.Storage.MaxFileSize = 10
	}

	// Events defaults
	if c.Events.Topic == "" {
		c.Events.Topic = "pamoja.lifecycle"
	}

	// Membership defaults
	if c.Membership.SharePriceCents == 0 {
		c.Membership.SharePriceCents = 10000 // $100 per share
	}
	if c.Membership.ActivationFeeCents == 0 {
		c.Membership.ActivationFeeCents = 5000
	}
	if c.Membership.SingleFeeCents == 0 {
		c.Membership.SingleFeeCents = 5000
	}
	if c.Membership.DoubleFeeCents == 0 {
		c.Membership.DoubleFeeCents = 10000
	}
	if c.Membership.CriticalLowShares == 0 {
		c.Membership.CriticalLowShares = 20
	}
	if c.Membership.LowShares == 0 {
		c.Membership.LowShares = 25
	}
	if c.Membership.LowShares < c.Membership.CriticalLowShares {
		return fmt.Errorf("low share threshold must not be below the critical threshold")
	}

	// Rate limit defaults
	if c.RateLimit.LoginPerMinute == 0 {
		c.RateLimit.LoginPerMinute = 10
	}
	if c.RateLimit.Burst == 0 {
		c.RateLimit.Burst = 5
	}

	// Scheduler defaults
	if c.Scheduler.ShareBalanceAdvisory == "" {
		c.Scheduler.ShareBalanceAdvisory = "0 0 8 * * 1" // Mondays at 8 AM UTC
	}
	if c.Scheduler.PendingReviewDigest == "" {
		c.Scheduler.PendingReviewDigest = "0 0 7 * * *" // Daily at 7 AM UTC
	}
	parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	for name, expr := range map[string]string{
		"share_balance_advisory": c.Scheduler.ShareBalanceAdvisory,
		"pending_review_digest":  c.Scheduler.PendingReviewDigest,
	} {
		if _, err := parser.Parse(expr); err != nil {
			return fmt.Errorf("invalid scheduler.%s %q: %w", name, expr, err)
		}
	}

	// Client defaults
	if c.Client.BaseURL == "" {
		c.Client.BaseURL = fmt.Sprintf("http://localhost:%d/api", c.Server.Port)
	}
	if c.Client.TimeoutSeconds == 0 {
		c.Client.TimeoutSeconds = 30
	}

	return nil
}

// GetDatabaseConnectionString returns a PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

// GetServerAddress returns the HTTP server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
