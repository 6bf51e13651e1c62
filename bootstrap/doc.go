// Package bootstrap puts process logging into a known state before the
// rest of a program starts writing.
//
// After Initialize the root logger has no handlers and the bootstrap
// logger (LoggerName) has exactly one: an INFO-level stream to standard
// output whose lines look like
//
//	2026-01-15 12:00:00,000 - MainThread - INFO - listening on :8080
//
// Initialize is idempotent with respect to that state and safe to call
// from several goroutines. Programs that pass a registry around use New;
// programs that rely on logger.Default use the package-level Initialize
// or blank-import the autoinit subpackage.
package bootstrap
