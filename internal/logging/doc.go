// Package logging provides structured logging for padlock.
//
// This package wraps zap with convenience functions for the logging
// patterns used throughout the tool. Logging is silent by default: the
// reconciliation engine's state lines and WARNING:/ERROR: diagnostics are
// the primary user-facing output, and the structured log is an opt-in
// mirror for debugging.
//
// # Configuration
//
// Set the PADLOCK_LOG_LEVEL environment variable to enable output:
//
//	PADLOCK_LOG_LEVEL=debug padlock 2
//
// Structured output goes to stderr so it never mixes with the state lines
// on stdout.
//
// # Log Levels
//
//   - Debug: poll attempts, device attribution details
//   - Info: slot plug/unplug events, reconciliation milestones
//   - Warn: collisions, erroneous slot transitions, free-confirmation
//     timeouts
//   - Error: invalid slot queries, fatal bus failures before exit
package logging
