package config

import (
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
)

// Validate checks the configuration for consistency problems. It returns
// the first problem found.
func Validate(cfg *Config) error {
	if cfg.Rules.Path == "" {
		return fmt.Errorf("rules.path cannot be empty")
	}

	if cfg.Tracking.ListenAddress == "" {
		return fmt.Errorf("tracking.listen_address cannot be empty")
	}

	if cfg.Avatar.URL == "" {
		return fmt.Errorf("avatar.url cannot be empty")
	}
	if !strings.HasPrefix(cfg.Avatar.URL, "ws://") && !strings.HasPrefix(cfg.Avatar.URL, "wss://") {
		return fmt.Errorf("avatar.url %q must use the ws:// or wss:// scheme", cfg.Avatar.URL)
	}

	if cfg.Sync.Interval <= 0 {
		return fmt.Errorf("sync.interval must be positive")
	}
	if cfg.Sync.FullResyncSchedule != "" {
		if _, err := cron.ParseStandard(cfg.Sync.FullResyncSchedule); err != nil {
			return fmt.Errorf("invalid sync.full_resync_schedule %q: %w", cfg.Sync.FullResyncSchedule, err)
		}
	}

	if cfg.Journal.Enabled && cfg.Journal.Path == "" {
		return fmt.Errorf("journal.path cannot be empty when the journal is enabled")
	}

	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging.level %q", cfg.Logging.Level)
	}

	switch cfg.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("invalid logging.format %q", cfg.Logging.Format)
	}

	if cfg.Metrics.Enabled && cfg.Metrics.ListenAddress == "" {
		return fmt.Errorf("metrics.listen_address cannot be empty when metrics are enabled")
	}

	return nil
}
