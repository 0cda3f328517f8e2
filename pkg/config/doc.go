// Package config defines the bridge's YAML configuration: the rule file
// and its watch settings, the tracking listener, the avatar endpoint
// connection, synchronization timing, the sync journal, and the
// logging/metrics surfaces.
//
// Loading follows a fixed sequence: read YAML, apply defaults, apply
// HERMES_* environment-variable overrides, validate. Environment
// variables always take precedence over file values.
package config
