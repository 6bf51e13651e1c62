package zaphandler

import (
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Philipp01105/logboot/core"
	"github.com/Philipp01105/logboot/handler"
)

// ThreadKey is the zap field carrying the entry's thread name.
const ThreadKey = "thread"

// Handler writes entries to a zap core. The handler threshold (Base) is
// applied by the logger; the core's own level is checked on every write.
type Handler struct {
	handler.Base
	core zapcore.Core
}

// New wraps c.
func New(c zapcore.Core) *Handler {
	return &Handler{core: c}
}

// NewFromLogger wraps the core behind an existing zap logger.
func NewFromLogger(l *zap.Logger) *Handler {
	return New(l.Core())
}

// Handle converts entry and writes it if the core is enabled for its level
func (h *Handler) Handle(entry *core.Entry) error {
	lvl := ToZapLevel(entry.Level)
	if !h.core.Enabled(lvl) {
		return nil
	}

	ze := zapcore.Entry{
		Level:      lvl,
		Time:       entry.Time,
		LoggerName: entry.Logger,
		Message:    entry.Message,
	}
	if entry.Caller.Defined {
		ze.Caller = zapcore.NewEntryCaller(0, entry.Caller.File, entry.Caller.Line, true)
		ze.Caller.Function = entry.Caller.Function
	}

	fields := make([]zapcore.Field, 0, len(entry.Fields)+1)
	if entry.Thread != "" {
		fields = append(fields, zap.String(ThreadKey, entry.Thread))
	}
	for _, f := range entry.Fields {
		fields = append(fields, toZapField(f))
	}

	return h.core.Write(ze, fields)
}

// Close flushes the core.
func (h *Handler) Close() error {
	return h.core.Sync()
}

// ToZapLevel maps a level to zap. CRITICAL becomes DPanicLevel, the
// highest zap level that Core.Write never turns into a panic or exit.
func ToZapLevel(l core.Level) zapcore.Level {
	switch {
	case l <= core.DebugLevel:
		return zapcore.DebugLevel
	case l == core.InfoLevel:
		return zapcore.InfoLevel
	case l == core.WarnLevel:
		return zapcore.WarnLevel
	case l == core.ErrorLevel:
		return zapcore.ErrorLevel
	default:
		return zapcore.DPanicLevel
	}
}

// FromZapLevel maps a zap level back. DPanic, Panic and Fatal collapse to CRITICAL.
func FromZapLevel(l zapcore.Level) core.Level {
	switch {
	case l <= zapcore.DebugLevel:
		return core.DebugLevel
	case l == zapcore.InfoLevel:
		return core.InfoLevel
	case l == zapcore.WarnLevel:
		return core.WarnLevel
	case l == zapcore.ErrorLevel:
		return core.ErrorLevel
	default:
		return core.CriticalLevel
	}
}

func toZapField(f core.Field) zapcore.Field {
	switch f.Type {
	case core.StringType:
		return zap.String(f.Key, f.Str)
	case core.IntType, core.Int64Type:
		return zap.Int64(f.Key, f.Int64)
	case core.Float64Type:
		return zap.Float64(f.Key, f.Float64)
	case core.BoolType:
		return zap.Bool(f.Key, f.Int64 == 1)
	case core.TimeType:
		return zap.Time(f.Key, time.Unix(0, f.Int64))
	case core.DurationType:
		return zap.Duration(f.Key, time.Duration(f.Int64))
	case core.ErrorType:
		return zap.String(f.Key, f.Str)
	default:
		return zap.Any(f.Key, f.Any)
	}
}
