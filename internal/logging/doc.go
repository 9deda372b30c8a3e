// Package logging provides structured logging for meshinv.
//
// This package wraps a zap logger with convenience functions for the logging
// patterns used across the CLI, the terminal UI and the web dashboard.
//
// # Log Levels
//
// The package supports standard log levels:
//   - Debug: request URLs, retry attempts, filter recomputation
//   - Info: completed loads, scans, web requests
//   - Warn: fallbacks to placeholder data, swallowed scan failures
//   - Error: server failures
//
// # Silent by Default
//
// Logging is disabled unless a level is passed explicitly (--log-level) or
// set in the MESHINV_LOG_LEVEL environment variable. This keeps the curated
// CLI and TUI output clean.
//
// # Terminal UI
//
// The terminal UI owns the screen, so it initializes logging with a file
// output instead of stdout:
//
//	if err := logging.InitializeWithOutput(level, logPath); err != nil {
//	    return err
//	}
//	defer logging.Sync()
//
// # Specialized Logging
//
//	logging.LogLoad(snapshot.Origin.String(), len(snapshot.Records), snapshot.Err)
//	logging.LogScan(err, settleDelay)
//	logging.LogHTTPRequest(remoteAddr, method, path, status, duration)
package logging
