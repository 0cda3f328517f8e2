package config

import "time"

// Config is the root configuration for the bridge.
type Config struct {
	Rules    RulesConfig    `yaml:"rules"`
	Tracking TrackingConfig `yaml:"tracking"`
	Avatar   AvatarConfig   `yaml:"avatar"`
	Sync     SyncConfig     `yaml:"sync"`
	Journal  JournalConfig  `yaml:"journal"`
	Logging  LoggingConfig  `yaml:"logging"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// RulesConfig configures the transformation-rule file and its watcher.
type RulesConfig struct {
	// Path is the JSON rule file to load.
	Path string `yaml:"path"`

	// Watch enables filesystem watching of the rule file. When false,
	// rules only reload on the periodic resync.
	Watch bool `yaml:"watch"`

	// DebounceInterval is the quiet period before a file change fires a
	// notification.
	DebounceInterval time.Duration `yaml:"debounce_interval"`
}

// TrackingConfig configures the UDP tracking receiver.
type TrackingConfig struct {
	// ListenAddress is the UDP address the capture client sends to.
	ListenAddress string `yaml:"listen_address"`

	// StaleAfter marks tracking input stale when no frame arrives
	// within this window; stale input suspends value injection.
	StaleAfter time.Duration `yaml:"stale_after"`
}

// AvatarConfig configures the avatar endpoint connection.
type AvatarConfig struct {
	// URL is the endpoint's websocket address.
	URL string `yaml:"url"`

	// PluginName and PluginDeveloper identify the bridge during
	// authentication.
	PluginName      string `yaml:"plugin_name"`
	PluginDeveloper string `yaml:"plugin_developer"`

	// AuthToken is a previously granted token; when empty, a new one is
	// requested on connect.
	AuthToken string `yaml:"auth_token"`

	// RequestTimeout bounds each request round-trip.
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// HandshakeTimeout bounds the websocket dial.
	HandshakeTimeout time.Duration `yaml:"handshake_timeout"`
}

// SyncConfig configures synchronization timing.
type SyncConfig struct {
	// Interval is the live value-injection cadence.
	Interval time.Duration `yaml:"interval"`

	// FullResyncSchedule is a cron expression for periodic full
	// reconciliation passes. Empty disables the schedule.
	FullResyncSchedule string `yaml:"full_resync_schedule"`
}

// JournalConfig configures the sync-history store.
type JournalConfig struct {
	// Enabled turns cycle recording on.
	Enabled bool `yaml:"enabled"`

	// Path is the SQLite database file.
	Path string `yaml:"path"`
}

// LoggingConfig configures the process logger.
type LoggingConfig struct {
	// Level is the minimum log level ("debug", "info", "warn", "error").
	Level string `yaml:"level"`

	// Format is the output format ("json", "text").
	Format string `yaml:"format"`
}

// MetricsConfig configures the Prometheus surface.
type MetricsConfig struct {
	// Enabled turns the metrics HTTP listener on.
	Enabled bool `yaml:"enabled"`

	// ListenAddress is the metrics HTTP address.
	ListenAddress string `yaml:"listen_address"`

	// Namespace prefixes every metric family.
	Namespace string `yaml:"namespace"`
}
