package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/thlib/go-timezone-local/tzlocal"
	"gopkg.in/yaml.v3"
)

// Config holds everything needed to wire a tracker.
type Config struct {
	// DBPath is the SQLite file used when DatabaseURL is empty.
	DBPath string `yaml:"db_path"`
	// DatabaseURL selects the Postgres store when set.
	DatabaseURL string `yaml:"database_url"`
	// StatePath is the YAML file holding the weekly reset marker.
	StatePath string `yaml:"state_path"`

	UserID      string `yaml:"user_id"`
	DisplayName string `yaml:"display_name"`
	Timezone    string `yaml:"timezone"`

	MaxShift          time.Duration `yaml:"max_shift"`
	ResetPollInterval time.Duration `yaml:"reset_poll_interval"`

	AMQPURL      string `yaml:"amqp_url"`
	AMQPExchange string `yaml:"amqp_exchange"`

	LogUseCases bool `yaml:"log_use_cases"`
	Verbose     bool `yaml:"verbose"`
}

// Dir returns the per-user data directory, ~/.shiftlog.
func Dir() string {
	if v := os.Getenv("SHIFTLOG_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".shiftlog"
	}
	return filepath.Join(home, ".shiftlog")
}

// DefaultPath is where LoadConfig looks when no path is given.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

// DefaultConfig returns a Config for the current OS user in the local zone.
func DefaultConfig() Config {
	dir := Dir()
	user := os.Getenv("USER")
	if user == "" {
		user = "default"
	}
	return Config{
		DBPath:            filepath.Join(dir, "shiftlog.db"),
		StatePath:         filepath.Join(dir, "state.yaml"),
		UserID:            user,
		Timezone:          DetectTimezone(),
		MaxShift:          8 * time.Hour,
		ResetPollInterval: time.Minute,
		AMQPExchange:      "shiftlog.sessions",
	}
}

// LoadConfig starts from DefaultConfig, overlays the YAML file at path (a
// missing file is fine) and then SHIFTLOG_* environment variables. An empty
// path means DefaultPath.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}

	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("SHIFTLOG_DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("SHIFTLOG_DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("SHIFTLOG_STATE_PATH"); v != "" {
		cfg.StatePath = v
	}
	if v := os.Getenv("SHIFTLOG_USER"); v != "" {
		cfg.UserID = v
	}
	if v := os.Getenv("SHIFTLOG_DISPLAY_NAME"); v != "" {
		cfg.DisplayName = v
	}
	if v := os.Getenv("SHIFTLOG_TIMEZONE"); v != "" {
		cfg.Timezone = v
	}
	if v := os.Getenv("SHIFTLOG_MAX_SHIFT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.MaxShift = d
		}
	}
	if v := os.Getenv("SHIFTLOG_RESET_POLL_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.ResetPollInterval = d
		}
	}
	if v := os.Getenv("SHIFTLOG_AMQP_URL"); v != "" {
		cfg.AMQPURL = v
	}
	if v := os.Getenv("SHIFTLOG_AMQP_EXCHANGE"); v != "" {
		cfg.AMQPExchange = v
	}
	if v := os.Getenv("SHIFTLOG_LOG_USE_CASES"); v != "" {
		cfg.LogUseCases, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("SHIFTLOG_VERBOSE"); v != "" {
		cfg.Verbose, _ = strconv.ParseBool(v)
	}
}

// Validate rejects settings the tracker cannot run with.
func (c Config) Validate() error {
	if strings.TrimSpace(c.UserID) == "" {
		return errors.New("config: user_id is required")
	}
	if c.DBPath == "" && c.DatabaseURL == "" {
		return errors.New("config: one of db_path or database_url is required")
	}
	if c.Timezone != "" {
		if _, err := time.LoadLocation(c.Timezone); err != nil {
			return fmt.Errorf("config: timezone %q: %w", c.Timezone, err)
		}
	}
	if c.MaxShift <= 0 {
		return fmt.Errorf("config: max_shift must be positive, got %s", c.MaxShift)
	}
	return nil
}

// UsesPostgres reports whether the Postgres store is selected.
func (c Config) UsesPostgres() bool {
	return c.DatabaseURL != ""
}

// DetectTimezone returns the IANA name of the local zone: $TZ when it names a
// loadable zone, otherwise the platform zone, otherwise "UTC".
func DetectTimezone() string {
	if tz := strings.TrimPrefix(os.Getenv("TZ"), ":"); loadable(tz) {
		return tz
	}
	if name, err := tzlocal.LocalTZ(); err == nil && loadable(name) {
		return name
	}
	return "UTC"
}

func loadable(name string) bool {
	if name == "" {
		return false
	}
	_, err := time.LoadLocation(name)
	return err == nil
}
