// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment keys. The four EMAIL_* values are required.
const (
	EnvMailHost   = "EMAIL_HOST"
	EnvMailPort   = "EMAIL_PORT"
	EnvMailUser   = "EMAIL_USER"
	EnvMailPass   = "EMAIL_PASS"
	EnvConfigPath = "DIGEST_CONFIG"
	EnvTrigger    = "DIGEST_TRIGGER"
	EnvStatusAddr = "DIGEST_STATUS_ADDR"
	EnvDataDir    = "JOBDIGEST_DATA_DIR"
)

type Selectors struct {
	Card        string `yaml:"card" json:"card"`
	Title       string `yaml:"title" json:"title"`
	Link        string `yaml:"link" json:"link"`
	Description string `yaml:"description" json:"description"`
	// Marker, when set, must be present on every healthy results page.
	Marker string `yaml:"marker" json:"marker"`
}

type Config struct {
	// Mail settings only come from the environment (or the keychain).
	Mail struct {
		Host     string
		Port     int
		User     string
		Password string
	} `yaml:"-"`

	App struct {
		DataDir    string `yaml:"data_dir"`
		StatusAddr string `yaml:"status_addr"`
	} `yaml:"app"`

	Schedule struct {
		Trigger      string `yaml:"trigger"` // HH:MM local time
		CheckSeconds int    `yaml:"check_seconds"`
	} `yaml:"schedule"`

	Listing struct {
		SearchURL      string    `yaml:"search_url"`
		BaseOrigin     string    `yaml:"base_origin"`
		TimeoutSeconds int       `yaml:"timeout_seconds"`
		Selectors      Selectors `yaml:"selectors"`
	} `yaml:"listing"`

	Filters struct {
		Keywords []string `yaml:"keywords"`
	} `yaml:"filters"`
}

func Default() Config {
	var cfg Config
	cfg.App.DataDir = "."
	cfg.Schedule.Trigger = "12:00"
	cfg.Schedule.CheckSeconds = 30
	cfg.Listing.SearchURL = "https://angel.co/jobs?filter=testing&experience=entry_level&sort=published_at"
	cfg.Listing.BaseOrigin = "https://angel.co"
	cfg.Listing.TimeoutSeconds = 20
	cfg.Listing.Selectors = Selectors{
		Card:        ".job-card",
		Title:       ".title",
		Link:        "a",
		Description: ".description",
	}
	return cfg
}

// Load reads .env (if any), the optional YAML overlay and the environment.
// It does not check required fields; call Validate once the mail password
// has had a chance to come from the keychain.
func Load() (Config, error) {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	cfg := Default()

	if path := strings.TrimSpace(os.Getenv(EnvConfigPath)); path != "" {
		if err := OverlayFile(&cfg, path); err != nil {
			return cfg, &ConfigError{Problems: []string{fmt.Sprintf("%s: %v", path, err)}, Err: err}
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	cfg.Mail.Host = strings.TrimSpace(os.Getenv(EnvMailHost))
	cfg.Mail.User = strings.TrimSpace(os.Getenv(EnvMailUser))
	cfg.Mail.Password = os.Getenv(EnvMailPass)

	if raw := strings.TrimSpace(os.Getenv(EnvMailPort)); raw != "" {
		port, err := strconv.Atoi(raw)
		if err != nil {
			return &ConfigError{
				Problems: []string{fmt.Sprintf("%s must be an integer, got %q", EnvMailPort, raw)},
				Err:      err,
			}
		}
		cfg.Mail.Port = port
	}

	if v := strings.TrimSpace(os.Getenv(EnvTrigger)); v != "" {
		cfg.Schedule.Trigger = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvStatusAddr)); v != "" {
		cfg.App.StatusAddr = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvDataDir)); v != "" {
		cfg.App.DataDir = v
	}
	return nil
}
