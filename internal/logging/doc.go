// Package logging provides structured logging for carelog.
//
// This package wraps zap logger with convenience functions for the common
// logging patterns used throughout the client. Because the primary interface
// is a full-screen terminal UI, logging is silent by default: output only
// appears when the CARELOG_LOG_LEVEL environment variable is set, and it is
// written to stderr so it can be redirected away from the UI.
//
// # Log Levels
//
//   - Debug: request/response cycles, screen transitions
//   - Info: normal operations
//   - Warn: failed API requests (surfaced to the operator as status text)
//   - Error: startup failures
//
// # Usage
//
// Initialize once at startup:
//
//	if err := logging.InitializeFromEnv(); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
// All logging functions are safe for concurrent use.
package logging
