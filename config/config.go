package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Webhook    WebhookConfig    `yaml:"webhook"`
	Booking    BookingConfig    `yaml:"booking"`
	Database   DatabaseConfig   `yaml:"database"`
	Push       PushConfig       `yaml:"push"`
	WorkerPool WorkerPoolConfig `yaml:"worker_pool"`
}

// WorkerPoolConfig holds the configuration for the notification worker pool.
type WorkerPoolConfig struct {
	Size int `yaml:"size"`
}

// PushConfig holds the VAPID keys for web push notifications.
type PushConfig struct {
	PublicKey  string `yaml:"vapid_public_key"`
	PrivateKey string `yaml:"vapid_private_key"`
	Subject    string `yaml:"subject"`
	TTL        int    `yaml:"ttl"`
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port            int     `yaml:"port"`
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec"`
	CacheTTLSeconds int     `yaml:"cache_ttl_seconds"`
}

// WebhookConfig describes the single n8n endpoint every remote action goes to.
type WebhookConfig struct {
	URL            string            `yaml:"url"`
	Headers        map[string]string `yaml:"headers"`
	TimeoutSeconds int               `yaml:"timeout_seconds"`
	Timeout        time.Duration     `yaml:"-"` // Ignored by YAML parser

	// Rolling window for the calendar event listing, in days.
	ListPastDays   int `yaml:"list_past_days"`
	ListFutureDays int `yaml:"list_future_days"`

	// Timezone used to compose wall-clock instants sent to the calendar.
	Timezone string         `yaml:"timezone"`
	Location *time.Location `yaml:"-"`
}

// BookingConfig holds the booking business rules.
type BookingConfig struct {
	DurationMinutes  int           `yaml:"duration_minutes"`
	Duration         time.Duration `yaml:"-"`
	DefaultAttendant string        `yaml:"default_attendant"`
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
}

// Load reads the configuration from the given path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	if cfg.Webhook.URL == "" {
		return nil, fmt.Errorf("webhook.url must be configured")
	}

	if cfg.Webhook.TimeoutSeconds <= 0 {
		cfg.Webhook.TimeoutSeconds = 15
	}
	cfg.Webhook.Timeout = time.Duration(cfg.Webhook.TimeoutSeconds) * time.Second

	if cfg.Webhook.ListPastDays <= 0 {
		cfg.Webhook.ListPastDays = 30
	}
	if cfg.Webhook.ListFutureDays <= 0 {
		cfg.Webhook.ListFutureDays = 60
	}

	if cfg.Webhook.Timezone == "" {
		cfg.Webhook.Timezone = "America/Boa_Vista"
	}
	loc, err := time.LoadLocation(cfg.Webhook.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid webhook.timezone %q: %w", cfg.Webhook.Timezone, err)
	}
	cfg.Webhook.Location = loc

	// Every appointment is a fixed two hour block unless overridden.
	if cfg.Booking.DurationMinutes <= 0 {
		cfg.Booking.DurationMinutes = 120
	}
	cfg.Booking.Duration = time.Duration(cfg.Booking.DurationMinutes) * time.Minute

	if cfg.Booking.DefaultAttendant == "" {
		cfg.Booking.DefaultAttendant = "Balcão"
	}

	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}

	if cfg.Push.TTL <= 0 {
		cfg.Push.TTL = 3600
	}

	if cfg.WorkerPool.Size <= 0 {
		log.Printf("worker_pool.size is not set or invalid; defaulting to 1")
		cfg.WorkerPool.Size = 1
	}

	return &cfg, nil
}
