package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Load loads configuration from a YAML file: read, apply defaults,
// apply HERMES_* environment overrides, validate.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// applyEnvOverrides applies HERMES_SECTION_FIELD environment variables
// on top of the file values.
func applyEnvOverrides(cfg *Config) {
	if val := os.Getenv("HERMES_RULES_PATH"); val != "" {
		cfg.Rules.Path = val
	}
	if val := os.Getenv("HERMES_RULES_WATCH"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Rules.Watch = b
		}
	}

	if val := os.Getenv("HERMES_TRACKING_LISTEN_ADDRESS"); val != "" {
		cfg.Tracking.ListenAddress = val
	}

	if val := os.Getenv("HERMES_AVATAR_URL"); val != "" {
		cfg.Avatar.URL = val
	}
	if val := os.Getenv("HERMES_AVATAR_AUTH_TOKEN"); val != "" {
		cfg.Avatar.AuthToken = val
	}
	if val := os.Getenv("HERMES_AVATAR_REQUEST_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Avatar.RequestTimeout = d
		}
	}

	if val := os.Getenv("HERMES_SYNC_INTERVAL"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Sync.Interval = d
		}
	}
	if val := os.Getenv("HERMES_SYNC_FULL_RESYNC_SCHEDULE"); val != "" {
		cfg.Sync.FullResyncSchedule = val
	}

	if val := os.Getenv("HERMES_JOURNAL_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Journal.Enabled = b
		}
	}
	if val := os.Getenv("HERMES_JOURNAL_PATH"); val != "" {
		cfg.Journal.Path = val
	}

	if val := os.Getenv("HERMES_LOG_LEVEL"); val != "" {
		cfg.Logging.Level = val
	}
	if val := os.Getenv("HERMES_LOG_FORMAT"); val != "" {
		cfg.Logging.Format = val
	}

	if val := os.Getenv("HERMES_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Metrics.Enabled = b
		}
	}
	if val := os.Getenv("HERMES_METRICS_LISTEN_ADDRESS"); val != "" {
		cfg.Metrics.ListenAddress = val
	}
}
