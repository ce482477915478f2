// Package logging assembles structured slog loggers and formatting helpers used
// across ineta.
//
// It owns the console and JSON handlers, the per-run JSON log file, and
// context-aware helpers so pipeline code can tag log lines with run IDs, step
// names, and network numbers. The package also provides a no-op logger for
// tests and wiring code that cannot fail.
package logging
