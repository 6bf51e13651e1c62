package logger

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/multierr"

	"github.com/Philipp01105/logboot/core"
	"github.com/Philipp01105/logboot/formatter"
	"github.com/Philipp01105/logboot/handler"
)

// RootName is the name reported by the root logger.
const RootName = "root"

// ErrorHandler receives handler failures together with the entry that caused them.
type ErrorHandler func(entry *core.Entry, err error)

// Registry owns a root logger and a set of named loggers addressed by
// dotted names ("app", "app.db"). Loggers are created on first lookup and
// live as long as the registry. All methods are safe for concurrent use.
type Registry struct {
	mu         sync.RWMutex
	root       *Logger
	loggers    map[string]*Logger
	disabled   atomic.Int32
	clock      func() time.Time
	caller     bool
	onError    ErrorHandler
	lastResort handler.Handler
}

// Option configures a Registry
type Option func(*Registry)

// WithClock sets the time source for entry timestamps
func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		r.clock = now
	}
}

// WithCoarseClock stamps entries from core.CoarseNow, trading sub-millisecond
// precision for a cheaper time source.
func WithCoarseClock() Option {
	return func(r *Registry) {
		core.StartCoarseClock()
		r.clock = core.CoarseNow
	}
}

// WithCaller enables caller information on every entry
func WithCaller(enabled bool) Option {
	return func(r *Registry) {
		r.caller = enabled
	}
}

// WithErrorHandler replaces the default stderr report for handler failures
func WithErrorHandler(fn ErrorHandler) Option {
	return func(r *Registry) {
		r.onError = fn
	}
}

// WithLastResort sets the handler used when a record finds no handler at
// all on its way to the root. nil disables the fallback.
func WithLastResort(h handler.Handler) Option {
	return func(r *Registry) {
		r.lastResort = h
	}
}

// New creates a registry whose root logger has no handlers and a WARNING threshold.
// Records that reach no handler go to a WARNING-level stderr stream printing the bare message.
func New(opts ...Option) *Registry {
	r := &Registry{
		loggers: make(map[string]*Logger),
		clock:   time.Now,
		onError: reportTo(os.Stderr),
	}
	r.disabled.Store(int32(core.NotSetLevel))
	r.lastResort = handler.NewStreamHandler(handler.StreamConfig{
		Writer:    os.Stderr,
		Formatter: formatter.MustPattern("%(message)s", formatter.Config{}),
		Level:     core.WarnLevel,
	})

	for _, opt := range opts {
		opt(r)
	}

	r.root = newLogger(RootName, r)
	r.root.SetLevel(core.WarnLevel)
	return r
}

// Root returns the root logger
func (r *Registry) Root() *Logger {
	return r.root
}

// Logger returns the logger called name, creating it on first use.
// The empty name and RootName both return the root logger.
func (r *Registry) Logger(name string) *Logger {
	if name == "" || name == RootName {
		return r.root
	}

	r.mu.RLock()
	l, ok := r.loggers[name]
	r.mu.RUnlock()
	if ok {
		return l
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if l, ok = r.loggers[name]; ok {
		return l
	}
	l = newLogger(name, r)
	r.loggers[name] = l
	return l
}

// Names returns the names of all non-root loggers, sorted
func (r *Registry) Names() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.loggers))
	for name := range r.loggers {
		names = append(names, name)
	}
	r.mu.RUnlock()
	sort.Strings(names)
	return names
}

// Disable suppresses every record at or below level across all loggers of
// the registry, regardless of their own thresholds. Disable(NotSetLevel)
// lifts the suppression.
func (r *Registry) Disable(level core.Level) {
	r.disabled.Store(int32(level))
}

// Disabled returns the current global suppression level (NotSetLevel when none)
func (r *Registry) Disabled() core.Level {
	return core.Level(r.disabled.Load())
}

// Shutdown closes every handler attached to any logger of the registry.
// Handlers attached to several loggers are closed once.
func (r *Registry) Shutdown() error {
	r.mu.RLock()
	all := make([]*Logger, 0, len(r.loggers)+1)
	all = append(all, r.root)
	for _, l := range r.loggers {
		all = append(all, l)
	}
	r.mu.RUnlock()

	seen := make(map[handler.Handler]struct{})
	var err error
	for _, l := range all {
		for _, h := range l.Handlers() {
			if _, ok := seen[h]; ok {
				continue
			}
			seen[h] = struct{}{}
			err = multierr.Append(err, h.Close())
		}
	}
	return err
}

// parent returns the nearest existing ancestor of l by dotted name, or
// the root. The root has no parent.
func (r *Registry) parent(l *Logger) *Logger {
	if l == r.root {
		return nil
	}

	name := l.name
	r.mu.RLock()
	defer r.mu.RUnlock()
	for {
		i := strings.LastIndexByte(name, '.')
		if i < 0 {
			return r.root
		}
		name = name[:i]
		if p, ok := r.loggers[name]; ok {
			return p
		}
	}
}

func (r *Registry) now() time.Time {
	return r.clock()
}

func (r *Registry) reportError(entry *core.Entry, err error) {
	if r.onError != nil {
		r.onError(entry, err)
	}
}

// reportTo returns an ErrorHandler that prints a short report to w.
func reportTo(w io.Writer) ErrorHandler {
	return func(entry *core.Entry, err error) {
		fmt.Fprintf(w, "--- Logging error ---\n%v\nLogger: %s, level: %s, message: %q\n",
			err, entry.Logger, entry.Level, entry.Message)
	}
}

var (
	defaultRegistry = New()
	defaultMu       sync.RWMutex
)

// Default returns the process-wide registry
func Default() *Registry {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultRegistry
}

// SetDefault replaces the process-wide registry
func SetDefault(r *Registry) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultRegistry = r
}

// Get returns the named logger of the process-wide registry
func Get(name string) *Logger {
	return Default().Logger(name)
}

// Root returns the root logger of the process-wide registry
func Root() *Logger {
	return Default().Root()
}
