package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port string
	Env  string // development, production

	// Database
	DatabaseURL string

	// Security
	SettingsEncryptionKey string
	SecureCookies         bool

	// Seed account, created only when no staff user exists
	AdminEmail    string
	AdminName     string
	AdminPassword string

	// SMTP defaults, used until settings are saved through the API
	SMTPHost      string
	SMTPPort      int
	SMTPUser      string
	SMTPPass      string
	SMTPFromEmail string
	SMTPFromName  string

	// Mail queue
	MailQueueRate time.Duration
	MailQueueSize int
	MailMaxRetry  int

	// Reminders
	ReminderInterval time.Duration

	// Limits
	RateLimitPerMinute int
	MaxUploadSizeMB    int
}

func Load() (*Config, error) {
	// Load .env file if it exists (don't error if missing)
	_ = godotenv.Load()

	return load(flag.CommandLine, os.Args[1:])
}

func load(fs *flag.FlagSet, args []string) (*Config, error) {
	cfg := &Config{}

	// Define flags with env var fallbacks
	fs.StringVar(&cfg.Port, "port", getEnv("PORT", "8080"), "Server port")
	fs.StringVar(&cfg.Env, "env", getEnv("ENV", "development"), "Environment (development, production)")
	fs.StringVar(&cfg.DatabaseURL, "database-url", getEnv("DATABASE_URL", ""), "PostgreSQL connection string")
	fs.DurationVar(&cfg.ReminderInterval, "reminder-interval", getDuration("REMINDER_INTERVAL", 24*time.Hour), "How often HR reminders are sent")

	cfg.SettingsEncryptionKey = getEnv("SETTINGS_ENCRYPTION_KEY", "")
	cfg.SecureCookies = getEnv("SECURE_COOKIES", "false") == "true"

	cfg.AdminEmail = getEnv("ADMIN_EMAIL", "")
	cfg.AdminName = getEnv("ADMIN_NAME", "Administrator")
	cfg.AdminPassword = getEnv("ADMIN_PASSWORD", "")

	cfg.SMTPHost = getEnv("SMTP_HOST", "")
	cfg.SMTPPort = getInt("SMTP_PORT", 587)
	cfg.SMTPUser = getEnv("SMTP_USER", "")
	cfg.SMTPPass = getEnv("SMTP_PASS", "")
	cfg.SMTPFromEmail = getEnv("SMTP_FROM_EMAIL", "")
	cfg.SMTPFromName = getEnv("SMTP_FROM_NAME", "Intern Registration")

	cfg.MailQueueRate = getDuration("MAIL_QUEUE_RATE", 2*time.Second)
	cfg.MailQueueSize = getInt("MAIL_QUEUE_SIZE", 100)
	cfg.MailMaxRetry = getInt("MAIL_MAX_RETRY", 3)

	cfg.RateLimitPerMinute = getInt("RATE_LIMIT_PER_MINUTE", 30)
	cfg.MaxUploadSizeMB = getInt("MAX_UPLOAD_SIZE_MB", 10)

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}

	if len(c.SettingsEncryptionKey) < 32 {
		return errors.New("SETTINGS_ENCRYPTION_KEY must be at least 32 characters")
	}

	if c.ReminderInterval < time.Minute {
		return fmt.Errorf("REMINDER_INTERVAL must be at least 1m, got %s", c.ReminderInterval)
	}

	if c.MailQueueSize < 1 || c.MailQueueRate <= 0 || c.MailMaxRetry < 0 {
		return errors.New("MAIL_QUEUE_SIZE, MAIL_QUEUE_RATE and MAIL_MAX_RETRY must be positive")
	}

	if c.MaxUploadSizeMB < 1 {
		return errors.New("MAX_UPLOAD_SIZE_MB must be at least 1")
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// MaxUploadBytes is the attachment size limit in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadSizeMB) << 20
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}
