package logger

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"go.uber.org/multierr"

	"github.com/Philipp01105/logboot/core"
	"github.com/Philipp01105/logboot/handler"
)

// callerSkip is the frame distance from core.GetCaller to user code:
// log -> exported method -> caller.
const callerSkip = 2

// Logger is a named, shared logger owned by a Registry. Its threshold and
// handler list are mutable and safe for concurrent use.
type Logger struct {
	name      string
	registry  *Registry
	level     atomic.Int32
	propagate atomic.Bool

	mu       sync.RWMutex
	handlers []handler.Handler // copy-on-write, never mutated in place
}

func newLogger(name string, r *Registry) *Logger {
	l := &Logger{name: name, registry: r}
	l.level.Store(int32(core.NotSetLevel))
	l.propagate.Store(true)
	return l
}

// Name returns the logger name
func (l *Logger) Name() string {
	return l.name
}

// Registry returns the registry that owns the logger
func (l *Logger) Registry() *Registry {
	return l.registry
}

// SetLevel sets the logger's own threshold. NotSetLevel defers to the ancestors.
func (l *Logger) SetLevel(level core.Level) {
	l.level.Store(int32(level))
}

// Level returns the logger's own threshold
func (l *Logger) Level() core.Level {
	return core.Level(l.level.Load())
}

// EffectiveLevel returns the first threshold that is set, walking from this
// logger towards the root.
func (l *Logger) EffectiveLevel() core.Level {
	for c := l; c != nil; c = l.registry.parent(c) {
		if lvl := c.Level(); lvl != core.NotSetLevel {
			return lvl
		}
	}
	return core.NotSetLevel
}

// IsEnabledFor reports whether a record at level would be processed
func (l *Logger) IsEnabledFor(level core.Level) bool {
	if level <= l.registry.Disabled() {
		return false
	}
	return level >= l.EffectiveLevel()
}

// SetPropagate controls whether records also reach the ancestors' handlers
func (l *Logger) SetPropagate(enabled bool) {
	l.propagate.Store(enabled)
}

// Propagate reports whether records reach the ancestors' handlers
func (l *Logger) Propagate() bool {
	return l.propagate.Load()
}

// AddHandler attaches h unless it is already attached
func (l *Logger) AddHandler(h handler.Handler) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, existing := range l.handlers {
		if existing == h {
			return
		}
	}
	next := make([]handler.Handler, len(l.handlers), len(l.handlers)+1)
	copy(next, l.handlers)
	l.handlers = append(next, h)
}

// RemoveHandler detaches h and reports whether it was attached.
// The handler is not closed.
func (l *Logger) RemoveHandler(h handler.Handler) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, existing := range l.handlers {
		if existing == h {
			next := make([]handler.Handler, 0, len(l.handlers)-1)
			next = append(next, l.handlers[:i]...)
			l.handlers = append(next, l.handlers[i+1:]...)
			return true
		}
	}
	return false
}

// ClearHandlers detaches every handler and returns them in attach order.
// The handlers are not closed.
func (l *Logger) ClearHandlers() []handler.Handler {
	l.mu.Lock()
	defer l.mu.Unlock()
	removed := l.handlers
	l.handlers = nil
	return removed
}

// Handlers returns a copy of the attached handlers
func (l *Logger) Handlers() []handler.Handler {
	hs := l.snapshot()
	out := make([]handler.Handler, len(hs))
	copy(out, hs)
	return out
}

func (l *Logger) snapshot() []handler.Handler {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.handlers
}

// Log logs a message at the specified level
func (l *Logger) Log(level core.Level, msg string, fields ...core.Field) {
	if !l.IsEnabledFor(level) {
		return
	}
	l.log(context.Background(), level, msg, fields)
}

// LogContext logs a message, taking the thread name from ctx when set
// with core.WithThreadName.
func (l *Logger) LogContext(ctx context.Context, level core.Level, msg string, fields ...core.Field) {
	if !l.IsEnabledFor(level) {
		return
	}
	l.log(ctx, level, msg, fields)
}

// log builds the entry and hands it to the handler chain
func (l *Logger) log(ctx context.Context, level core.Level, msg string, fields []core.Field) {
	entry := core.GetEntry()
	entry.Time = l.registry.now()
	entry.Level = level
	entry.Logger = l.name
	entry.Message = msg
	entry.Thread = threadName(ctx)
	if len(fields) > 0 {
		entry.Fields = append(entry.Fields, fields...)
	}
	if l.registry.caller || l.wantsCaller() {
		entry.Caller = core.GetCaller(callerSkip)
	}

	l.dispatch(entry)
	core.PutEntry(entry)
}

// dispatch offers entry to this logger's handlers and, while propagation
// allows, to each ancestor's. Per-handler thresholds are applied here.
func (l *Logger) dispatch(entry *core.Entry) {
	found := 0
	for c := l; c != nil; c = l.registry.parent(c) {
		for _, h := range c.snapshot() {
			found++
			if lh, ok := h.(handler.Leveled); ok && !lh.Enabled(entry.Level) {
				continue
			}
			if err := h.Handle(entry); err != nil {
				l.registry.reportError(entry, err)
			}
		}
		if !c.Propagate() {
			break
		}
	}

	if found == 0 && l.registry.lastResort != nil {
		lr := l.registry.lastResort
		if lh, ok := lr.(handler.Leveled); ok && !lh.Enabled(entry.Level) {
			return
		}
		if err := lr.Handle(entry); err != nil {
			l.registry.reportError(entry, err)
		}
	}
}

// wantsCaller reports whether a handler that would see a record from l
// prints caller information. It walks the same chain as dispatch.
func (l *Logger) wantsCaller() bool {
	found := false
	for c := l; c != nil; c = l.registry.parent(c) {
		for _, h := range c.snapshot() {
			found = true
			if handler.NeedsCaller(h) {
				return true
			}
		}
		if !c.Propagate() {
			break
		}
	}
	return !found && l.registry.lastResort != nil && handler.NeedsCaller(l.registry.lastResort)
}

func threadName(ctx context.Context) string {
	if name, ok := core.ThreadNameFrom(ctx); ok {
		return name
	}
	return core.ThreadName()
}

// Debug logs a debug message
func (l *Logger) Debug(msg string, fields ...core.Field) {
	if !l.IsEnabledFor(core.DebugLevel) {
		return
	}
	l.log(context.Background(), core.DebugLevel, msg, fields)
}

// Info logs an info message
func (l *Logger) Info(msg string, fields ...core.Field) {
	if !l.IsEnabledFor(core.InfoLevel) {
		return
	}
	l.log(context.Background(), core.InfoLevel, msg, fields)
}

// Warn logs a warning message
func (l *Logger) Warn(msg string, fields ...core.Field) {
	if !l.IsEnabledFor(core.WarnLevel) {
		return
	}
	l.log(context.Background(), core.WarnLevel, msg, fields)
}

// Error logs an error message
func (l *Logger) Error(msg string, fields ...core.Field) {
	if !l.IsEnabledFor(core.ErrorLevel) {
		return
	}
	l.log(context.Background(), core.ErrorLevel, msg, fields)
}

// Critical logs a critical message. Unlike a fatal log it does not exit.
func (l *Logger) Critical(msg string, fields ...core.Field) {
	if !l.IsEnabledFor(core.CriticalLevel) {
		return
	}
	l.log(context.Background(), core.CriticalLevel, msg, fields)
}

// Debugf logs a debug message with formatting
func (l *Logger) Debugf(format string, args ...interface{}) {
	if !l.IsEnabledFor(core.DebugLevel) {
		return
	}
	l.log(context.Background(), core.DebugLevel, fmt.Sprintf(format, args...), nil)
}

// Infof logs an info message with formatting
func (l *Logger) Infof(format string, args ...interface{}) {
	if !l.IsEnabledFor(core.InfoLevel) {
		return
	}
	l.log(context.Background(), core.InfoLevel, fmt.Sprintf(format, args...), nil)
}

// Warnf logs a warning message with formatting
func (l *Logger) Warnf(format string, args ...interface{}) {
	if !l.IsEnabledFor(core.WarnLevel) {
		return
	}
	l.log(context.Background(), core.WarnLevel, fmt.Sprintf(format, args...), nil)
}

// Errorf logs an error message with formatting
func (l *Logger) Errorf(format string, args ...interface{}) {
	if !l.IsEnabledFor(core.ErrorLevel) {
		return
	}
	l.log(context.Background(), core.ErrorLevel, fmt.Sprintf(format, args...), nil)
}

// Criticalf logs a critical message with formatting
func (l *Logger) Criticalf(format string, args ...interface{}) {
	if !l.IsEnabledFor(core.CriticalLevel) {
		return
	}
	l.log(context.Background(), core.CriticalLevel, fmt.Sprintf(format, args...), nil)
}

// Slog returns a *slog.Logger that writes through this logger
func (l *Logger) Slog() *slog.Logger {
	return slog.New(NewSlogHandler(l))
}

// Close detaches and closes the logger's own handlers
func (l *Logger) Close() error {
	var err error
	for _, h := range l.ClearHandlers() {
		err = multierr.Append(err, h.Close())
	}
	return err
}
