package bootstrap

import (
	"io"
	"os"
	"sync"

	"github.com/Philipp01105/logboot/core"
	"github.com/Philipp01105/logboot/formatter"
	"github.com/Philipp01105/logboot/handler"
	"github.com/Philipp01105/logboot/logger"
)

const (
	// LoggerName identifies the logger configured by Initialize.
	LoggerName = "logboot.bootstrap"
	// DebugEnviron is the RACK_ENVIRON value that would keep DEBUG records
	// enabled if the global suppression were switched on.
	DebugEnviron = "debug"
)

// debugSuppression gates the registry-wide DEBUG suppression keyed on
// RACK_ENVIRON. It stays off: output must not depend on the variable.
const debugSuppression = false

// initMu serializes every Initialize, whatever registry it targets.
var initMu sync.Mutex

// Bootstrap configures one registry's root logger and the bootstrap logger.
type Bootstrap struct {
	registry *logger.Registry
	name     string
	out      io.Writer
	config   Config
}

// Option configures a Bootstrap
type Option func(*Bootstrap)

// WithName overrides LoggerName.
func WithName(name string) Option {
	return func(b *Bootstrap) {
		b.name = name
	}
}

// WithOutput replaces standard output as the destination.
func WithOutput(w io.Writer) Option {
	return func(b *Bootstrap) {
		b.out = w
	}
}

// WithConfig sets the environment configuration.
func WithConfig(cfg Config) Option {
	return func(b *Bootstrap) {
		b.config = cfg
	}
}

// New returns a Bootstrap for reg.
func New(reg *logger.Registry, opts ...Option) *Bootstrap {
	b := &Bootstrap{
		registry: reg,
		name:     LoggerName,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Initialize strips every handler from the root logger, sets the bootstrap
// logger to INFO, replaces its handlers with a single standard output
// stream in formatter.DefaultPattern, and returns it.
//
// Running it again converges to the same state: the previous stream
// handler is detached (not closed) and a new one takes its place.
func (b *Bootstrap) Initialize() *logger.Logger {
	initMu.Lock()
	defer initMu.Unlock()

	b.registry.Root().ClearHandlers()

	log := b.registry.Logger(b.name)
	log.SetLevel(core.InfoLevel)
	log.ClearHandlers()

	out := b.out
	if out == nil {
		out = os.Stdout
	}
	h := handler.NewStreamHandler(handler.StreamConfig{Writer: out})
	h.SetFormatter(formatter.MustPattern(formatter.DefaultPattern, formatter.Config{}))
	log.AddHandler(h)

	if debugSuppression && b.config.Environ != DebugEnviron {
		b.registry.Disable(core.DebugLevel)
	}

	return log
}

// Initialize runs the bootstrap against logger.Default() with the
// configuration found in the environment.
func Initialize() *logger.Logger {
	cfg, err := LoadConfig()
	if err != nil {
		cfg = &Config{}
	}
	return New(logger.Default(), WithConfig(*cfg)).Initialize()
}

// Logger returns the bootstrap logger of logger.Default().
func Logger() *logger.Logger {
	return logger.Get(LoggerName)
}
