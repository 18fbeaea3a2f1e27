package config

import (
	"log"
	"os"
	"strconv"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
		Env  string `yaml:"env"`
	} `yaml:"server"`

	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`

	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUsername string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
		FromName     string `yaml:"from_name"`
		TemplatesDir string `yaml:"templates_dir"`
	} `yaml:"email"`

	JWT struct {
		Secret string `yaml:"secret"`
		TTL    int    `yaml:"ttl"` // minutes
	} `yaml:"jwt"`

	App struct {
		// BaseURL is the public origin used to build invoice deep links in
		// email bodies.
		BaseURL string `yaml:"base_url"`
	} `yaml:"app"`

	Scheduler SchedulerConfig `yaml:"scheduler"`
}

// SchedulerConfig drives the background reminder worker and the manual
// scheduler trigger.
type SchedulerConfig struct {
	// DueDaysAhead is the rolling look-ahead window for payment-due
	// reminders, in days.
	DueDaysAhead int `yaml:"due_days_ahead"`
	// RetentionDays: read notifications older than this get swept.
	RetentionDays int `yaml:"retention_days"`
	// Intervals are in minutes.
	ScanIntervalMinutes    int `yaml:"scan_interval_minutes"`
	CleanupIntervalMinutes int `yaml:"cleanup_interval_minutes"`
}

var AppConfig *Config

// LoadConfig reads config.yaml, or falls back to environment variables when
// DATABASE_URL is set (test and container deployments).
func LoadConfig() {
	var cfg Config

	dbURL := os.Getenv("DATABASE_URL")

	if dbURL == "" {
		configPath := os.Getenv("CONFIG_PATH")
		if configPath == "" {
			configPath = "config/config.yaml"
		}

		f, err := os.Open(configPath)
		if err != nil {
			log.Fatalf("Failed to open config file at %s: %v", configPath, err)
		}
		defer f.Close()

		decoder := yaml.NewDecoder(f)
		if err := decoder.Decode(&cfg); err != nil {
			log.Fatalf("Failed to parse config file at %s: %v", configPath, err)
		}

		applyDefaults(&cfg)
		AppConfig = &cfg
		return
	}

	cfg.Database.DSN = dbURL
	cfg.Server.Env = os.Getenv("SERVER_ENV")
	cfg.Server.Port, _ = strconv.Atoi(os.Getenv("SERVER_PORT"))
	cfg.JWT.Secret = os.Getenv("JWT_SECRET")
	cfg.JWT.TTL = 60

	cfg.Email.SMTPHost = "localhost"
	cfg.Email.SMTPPort = 587
	cfg.Email.FromEmail = "noreply@clutchpay.app"
	cfg.Email.FromName = "ClutchPay"

	cfg.App.BaseURL = "http://localhost:3000"

	applyDefaults(&cfg)
	AppConfig = &cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Scheduler.DueDaysAhead <= 0 {
		cfg.Scheduler.DueDaysAhead = 3
	}
	if cfg.Scheduler.RetentionDays <= 0 {
		cfg.Scheduler.RetentionDays = 60
	}
	if cfg.Scheduler.ScanIntervalMinutes <= 0 {
		cfg.Scheduler.ScanIntervalMinutes = 60
	}
	if cfg.Scheduler.CleanupIntervalMinutes <= 0 {
		cfg.Scheduler.CleanupIntervalMinutes = 24 * 60
	}
}

func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}
