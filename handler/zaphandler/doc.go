// Package zaphandler forwards log entries into a zapcore.Core, so a
// logboot logger can feed an existing zap pipeline (encoders, sinks,
// sampling) without changing its call sites.
package zaphandler
