// Package logging provides structured logging for the bridge.
//
// This package wraps Go's standard log/slog package to provide
// consistent, structured logging across the entire application.
//
// # Features
//
//   - Text output for interactive use (human-readable, the default)
//   - JSON output for machine-parsed deployments
//   - Default fields (service, version) on all log entries
//   - Level-based filtering (debug, info, warn, error)
//   - Thread-safe for concurrent use
//
// # Configuration
//
// Logging is configured via LoggingConfig (file keys shown; the
// BOSE_LOG_LEVEL and BOSE_LOG_FORMAT environment variables override):
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "text"     # text, json
//	  output: "stdout"   # stdout, stderr
//
// # Usage
//
//	logger := logging.New(cfg.Logging, "1.0.0")
//	logger.Info("starting service", "listen", ":8291")
//	logger.Error("failed to connect", "error", err)
//
// # Security
//
// Never log the account password or the control token. Log derived
// facts instead (token expiry, person ID).
package logging
