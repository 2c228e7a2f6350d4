// Package logging provides the minimal structured logging interface used by
// researchmesh components.
//
// The Logger interface mirrors the key/value style of log/slog so any slog
// handler can back it. This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping *slog.Logger
//   - NewLogger building a JSON or text slog logger from LoggerConfig
//   - With for attaching fixed attributes (agent name, run id)
//   - NoOpLogger, the default everywhere a logger is optional
//
// Usage:
//
//	logger := logging.NewLogger(&logging.LoggerConfig{Level: logging.LogLevelDebug, Format: "text"})
//	a, err := agent.New(func(o *agent.Options) { o.Logger = logger })
package logging
