package logger

import (
	"context"
	"log/slog"
	"path/filepath"
	"runtime"

	"github.com/Philipp01105/logboot/core"
)

// LevelCritical is the slog level that maps to CRITICAL.
const LevelCritical = slog.Level(12)

// SlogHandler implements slog.Handler on top of a Logger, so code written
// against log/slog shares the logger's thresholds and handlers.
type SlogHandler struct {
	logger *Logger
	attrs  []core.Field
	group  string
}

// NewSlogHandler creates a slog.Handler that logs through l.
func NewSlogHandler(l *Logger) *SlogHandler {
	return &SlogHandler{logger: l}
}

// Enabled reports whether the logger handles records at the given level.
func (s *SlogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return s.logger.IsEnabledFor(slogLevelToCore(level))
}

// Handle converts the record to an entry and dispatches it.
func (s *SlogHandler) Handle(ctx context.Context, record slog.Record) error {
	entry := core.GetEntry()
	entry.Time = record.Time
	if entry.Time.IsZero() {
		entry.Time = s.logger.registry.now()
	}
	entry.Level = slogLevelToCore(record.Level)
	entry.Logger = s.logger.name
	entry.Message = record.Message
	entry.Thread = threadName(ctx)

	if len(s.attrs) > 0 {
		entry.Fields = append(entry.Fields, s.attrs...)
	}
	record.Attrs(func(a slog.Attr) bool {
		entry.Fields = appendAttr(entry.Fields, s.group, a)
		return true
	})

	if record.PC != 0 && (s.logger.registry.caller || s.logger.wantsCaller()) {
		frame, _ := runtime.CallersFrames([]uintptr{record.PC}).Next()
		entry.Caller = core.CallerInfo{
			File:      frame.File,
			ShortFile: filepath.Base(frame.File),
			Line:      frame.Line,
			Function:  frame.Function,
			Defined:   true,
		}
	}

	s.logger.dispatch(entry)
	core.PutEntry(entry)
	return nil
}

// WithAttrs returns a new SlogHandler with additional attributes.
func (s *SlogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newAttrs := make([]core.Field, len(s.attrs), len(s.attrs)+len(attrs))
	copy(newAttrs, s.attrs)
	for _, a := range attrs {
		newAttrs = appendAttr(newAttrs, s.group, a)
	}
	return &SlogHandler{logger: s.logger, attrs: newAttrs, group: s.group}
}

// WithGroup returns a new SlogHandler whose attribute keys are prefixed with name.
func (s *SlogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return s
	}
	group := name
	if s.group != "" {
		group = s.group + "." + name
	}
	return &SlogHandler{logger: s.logger, attrs: s.attrs, group: group}
}

func slogLevelToCore(level slog.Level) core.Level {
	switch {
	case level >= LevelCritical:
		return core.CriticalLevel
	case level >= slog.LevelError:
		return core.ErrorLevel
	case level >= slog.LevelWarn:
		return core.WarnLevel
	case level >= slog.LevelInfo:
		return core.InfoLevel
	default:
		return core.DebugLevel
	}
}

// appendAttr flattens a into fields, joining group names with dots.
func appendAttr(fields []core.Field, group string, a slog.Attr) []core.Field {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return fields
	}

	key := a.Key
	if group != "" && key != "" {
		key = group + "." + key
	} else if key == "" {
		key = group
	}

	switch a.Value.Kind() {
	case slog.KindString:
		return append(fields, String(key, a.Value.String()))
	case slog.KindInt64:
		return append(fields, Int64(key, a.Value.Int64()))
	case slog.KindUint64:
		return append(fields, Int64(key, int64(a.Value.Uint64())))
	case slog.KindFloat64:
		return append(fields, Float64(key, a.Value.Float64()))
	case slog.KindBool:
		return append(fields, Bool(key, a.Value.Bool()))
	case slog.KindTime:
		return append(fields, Time(key, a.Value.Time()))
	case slog.KindDuration:
		return append(fields, Duration(key, a.Value.Duration()))
	case slog.KindGroup:
		for _, ga := range a.Value.Group() {
			fields = appendAttr(fields, key, ga)
		}
		return fields
	default:
		if err, ok := a.Value.Any().(error); ok {
			return append(fields, core.Field{Key: key, Type: core.ErrorType, Str: err.Error()})
		}
		return append(fields, Any(key, a.Value.Any()))
	}
}
