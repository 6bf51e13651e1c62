// Package logger is the public API of logboot: a registry of named,
// shared loggers.
//
// A Registry owns one root logger and any number of named loggers
// addressed by dotted names. Registry.Logger returns the existing logger
// for a name or creates it, so every part of a program that asks for
// "app.db" gets the same instance:
//
//	reg := logger.New()
//	db := reg.Logger("app.db")
//	db.SetLevel(logger.InfoLevel)
//	db.AddHandler(handler.NewStreamHandler(handler.StreamConfig{}))
//	db.Info("connected", logger.String("dsn", "postgres://..."))
//
// A logger with no level of its own uses the nearest ancestor's, ending
// at the root (WARNING by default). Records go to the logger's handlers
// and then to each ancestor's handlers until a logger with propagation
// turned off is reached. Records that find no handler at all are written
// to stderr by a WARNING-level last-resort handler.
//
// Registry.Disable suppresses a severity and everything below it for
// every logger at once, independently of their thresholds.
//
// Default returns a process-wide registry for programs that do not pass
// one around. Get and Root are shorthands for it.
//
// Level checks happen before any allocation, so filtered-out messages
// cost a few atomic loads.
package logger
