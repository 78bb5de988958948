// Package logging provides a minimal logging interface and adapters for the
// skill host.
//
// The Logger interface defines the standard logging methods (Debug, Info,
// Warn, Error) that the host and its components use for observability. This
// package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - HostLogger with conversation and skill context plus domain helpers
//   - NoOpLogger for silent operation (testing, minimal setups)
//
// Usage:
//
//	logger := logging.NewSlogLogger(logging.LogLevelInfo, "json", false)
//	host := skillhost.New(skillhost.WithLogger(logger))
//
// The design intentionally keeps the interface minimal to avoid vendor lock-in
// while supporting structured logging where available.
package logging
