// Package handler provides the Handler interface and its built-in
// implementations for dispatching log entries to outputs.
//
// A handler owns its threshold and formatter (see Base), so one logger
// can feed a terse console stream and a verbose sink at the same time.
//
// Built-in handlers:
//
//   - StreamHandler writes formatted entries to any io.Writer (default: stdout).
//   - FileHandler appends to a file with optional size or age rotation.
//   - AsyncHandler puts a bounded queue in front of another handler. When
//     the queue is full a per-level OverflowPolicy applies: DropNewest
//     (default for Debug/Info/Warning), DropOldest, or Block with a
//     timeout (default for Error/Critical), so low-priority logs never
//     stall the application while errors are not silently dropped.
//   - MultiHandler fans out a single entry to multiple child handlers.
//
// The zaphandler subpackage forwards entries into a zap core.
//
// Handlers track dropped, blocked, and processed counts via Stats.
package handler
