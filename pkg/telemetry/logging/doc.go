// Package logging builds the process-wide structured logger.
//
// The bridge logs through log/slog everywhere; this package only turns
// the logging configuration into a configured *slog.Logger (level,
// JSON or text output) and installs it as the slog default.
package logging
