// Package config loads service settings from an optional YAML file,
// a .env file and the process environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	Env      string `yaml:"env" env:"APP_ENV" env-default:"development"`
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`

	HTTP      HTTPConfig     `yaml:"http"`
	Store     StoreConfig    `yaml:"store"`
	JWT       JWTConfig      `yaml:"jwt"`
	Reminders ReminderConfig `yaml:"reminders"`

	missing []string
}

type HTTPConfig struct {
	Address      string        `yaml:"address" env:"HTTP_ADDRESS" env-default:":8080"`
	Timeout      time.Duration `yaml:"timeout" env:"HTTP_TIMEOUT" env-default:"10s"`
	AllowOrigins []string      `yaml:"allow_origins" env:"CORS_ALLOW_ORIGINS" env-separator:","`
}

type StoreConfig struct {
	// Driver is one of memory, sqlite or firestore.
	Driver           string `yaml:"driver" env:"STORE_DRIVER" env-default:"sqlite"`
	SQLitePath       string `yaml:"sqlite_path" env:"SQLITE_PATH" env-default:"kalender.db"`
	FirestoreProject string `yaml:"firestore_project" env:"FIRESTORE_PROJECT_ID"`
	CredentialsFile  string `yaml:"credentials_file" env:"GOOGLE_APPLICATION_CREDENTIALS"`
}

type JWTConfig struct {
	Secret        string        `yaml:"secret" env:"JWT_SECRET_KEY" env-required:"true"`
	RefreshSecret string        `yaml:"refresh_secret" env:"JWT_REFRESH_SECRET_KEY" env-required:"true"`
	Issuer        string        `yaml:"issuer" env:"JWT_ISSUER" env-default:"kalender"`
	AccessTTL     time.Duration `yaml:"access_ttl" env:"JWT_ACCESS_TTL" env-default:"60m"`
	RefreshTTL    time.Duration `yaml:"refresh_ttl" env:"JWT_REFRESH_TTL" env-default:"168h"`
}

type ReminderConfig struct {
	// Interval between reminder sweeps; zero disables the background loop.
	Interval time.Duration `yaml:"interval" env:"REMINDER_INTERVAL" env-default:"15m"`
	TimeZone string        `yaml:"time_zone" env:"TIMEZONE" env-default:"UTC"`
}

// Load reads envFile (if present) into the environment, then fills Config
// from configPath, falling back to environment variables alone when the
// file does not exist. Absent files are reported by Missing.
func Load(configPath, envFile string) (Config, error) {
	var cfg Config
	var missing []string

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return cfg, fmt.Errorf("load %s: %w", envFile, err)
			}
			missing = append(missing, envFile)
		}
	}

	if configPath == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return cfg, fmt.Errorf("read env: %w", err)
		}
		cfg.missing = missing
		return cfg, cfg.validate()
	}

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("read config %q: %w", configPath, err)
		}
		missing = append(missing, configPath)
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return cfg, fmt.Errorf("read env: %w", err)
		}
	}
	cfg.missing = missing
	return cfg, cfg.validate()
}

// Missing lists the config and .env paths Load skipped because they do not
// exist.
func (c Config) Missing() []string {
	return c.missing
}

func (c Config) validate() error {
	switch c.Store.Driver {
	case "memory", "sqlite":
	case "firestore":
		if c.Store.CredentialsFile == "" {
			return errors.New("firestore store requires GOOGLE_APPLICATION_CREDENTIALS")
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves the time zone used to decide what "today" is.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Reminders.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid time zone %q: %w", c.Reminders.TimeZone, err)
	}
	return loc, nil
}
