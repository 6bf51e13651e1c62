package handler

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/Philipp01105/logboot/core"
	"github.com/Philipp01105/logboot/formatter"
)

// ErrClosed is returned by handlers that receive entries after Close.
var ErrClosed = errors.New("handler closed")

// Handler defines the interface for log handlers.
// Handle must not retain entry after it returns; handlers that defer
// work must Clone it.
type Handler interface {
	// Handle processes a log entry
	Handle(entry *core.Entry) error

	// Close closes the handler and releases resources
	Close() error
}

// Leveled is implemented by handlers that filter entries by severity.
type Leveled interface {
	Enabled(level core.Level) bool
}

// CallerConsumer is implemented by handlers whose output uses caller
// information. Base implements it through its formatter.
type CallerConsumer interface {
	NeedsCaller() bool
}

// NeedsCaller reports whether h wants entries with caller information.
func NeedsCaller(h Handler) bool {
	c, ok := h.(CallerConsumer)
	return ok && c.NeedsCaller()
}

// StatsProvider is implemented by handlers that track write statistics.
type StatsProvider interface {
	Stats() Snapshot
}

// Base carries the per-handler threshold and formatter. It is meant to be
// embedded; all methods are safe for concurrent use.
type Base struct {
	level     atomic.Int32
	mu        sync.RWMutex
	formatter formatter.Formatter
}

// SetLevel sets the minimum level this handler emits.
func (b *Base) SetLevel(level core.Level) {
	b.level.Store(int32(level))
}

// Level returns the handler threshold.
func (b *Base) Level() core.Level {
	return core.Level(b.level.Load())
}

// Enabled reports whether entries at level pass the handler threshold.
func (b *Base) Enabled(level core.Level) bool {
	return level >= b.Level()
}

// SetFormatter replaces the formatter used for subsequent entries.
func (b *Base) SetFormatter(f formatter.Formatter) {
	b.mu.Lock()
	b.formatter = f
	b.mu.Unlock()
}

// Formatter returns the current formatter.
func (b *Base) Formatter() formatter.Formatter {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.formatter
}

// NeedsCaller reports whether the current formatter prints caller information.
func (b *Base) NeedsCaller() bool {
	cf, ok := b.Formatter().(formatter.CallerFormatter)
	return ok && cf.NeedsCaller()
}
