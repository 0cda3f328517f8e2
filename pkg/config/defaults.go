package config

import "time"

// Default values for configuration fields.
const (
	// Rules defaults
	DefaultRulesPath        = "./rules.json"
	DefaultRulesWatch       = true
	DefaultDebounceInterval = 100 * time.Millisecond

	// Tracking defaults
	DefaultTrackingListenAddress = "0.0.0.0:49983"
	DefaultTrackingStaleAfter    = 2 * time.Second

	// Avatar defaults
	DefaultAvatarURL              = "ws://127.0.0.1:8001"
	DefaultPluginName             = "hermes"
	DefaultPluginDeveloper        = "facelink"
	DefaultAvatarRequestTimeout   = 10 * time.Second
	DefaultAvatarHandshakeTimeout = 5 * time.Second

	// Sync defaults
	DefaultSyncInterval = 50 * time.Millisecond

	// Journal defaults
	DefaultJournalEnabled = true
	DefaultJournalPath    = "data/journal.db"

	// Logging defaults
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"

	// Metrics defaults
	DefaultMetricsEnabled       = false
	DefaultMetricsListenAddress = "127.0.0.1:9090"
	DefaultMetricsNamespace     = "hermes"
)

// ApplyDefaults fills zero-valued fields with their defaults.
func ApplyDefaults(cfg *Config) {
	if cfg.Rules.Path == "" {
		cfg.Rules.Path = DefaultRulesPath
	}
	if cfg.Rules.DebounceInterval <= 0 {
		cfg.Rules.DebounceInterval = DefaultDebounceInterval
	}

	if cfg.Tracking.ListenAddress == "" {
		cfg.Tracking.ListenAddress = DefaultTrackingListenAddress
	}
	if cfg.Tracking.StaleAfter <= 0 {
		cfg.Tracking.StaleAfter = DefaultTrackingStaleAfter
	}

	if cfg.Avatar.URL == "" {
		cfg.Avatar.URL = DefaultAvatarURL
	}
	if cfg.Avatar.PluginName == "" {
		cfg.Avatar.PluginName = DefaultPluginName
	}
	if cfg.Avatar.PluginDeveloper == "" {
		cfg.Avatar.PluginDeveloper = DefaultPluginDeveloper
	}
	if cfg.Avatar.RequestTimeout <= 0 {
		cfg.Avatar.RequestTimeout = DefaultAvatarRequestTimeout
	}
	if cfg.Avatar.HandshakeTimeout <= 0 {
		cfg.Avatar.HandshakeTimeout = DefaultAvatarHandshakeTimeout
	}

	if cfg.Sync.Interval <= 0 {
		cfg.Sync.Interval = DefaultSyncInterval
	}

	if cfg.Journal.Path == "" {
		cfg.Journal.Path = DefaultJournalPath
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = DefaultLogLevel
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = DefaultLogFormat
	}

	if cfg.Metrics.ListenAddress == "" {
		cfg.Metrics.ListenAddress = DefaultMetricsListenAddress
	}
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
}

// DefaultConfig returns a fully defaulted configuration.
func DefaultConfig() *Config {
	cfg := &Config{
		Rules:   RulesConfig{Watch: DefaultRulesWatch},
		Journal: JournalConfig{Enabled: DefaultJournalEnabled},
	}
	ApplyDefaults(cfg)
	return cfg
}
