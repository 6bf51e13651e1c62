package handler

import (
	"bytes"
	"io"
	"os"
	"sync"

	"github.com/Philipp01105/logboot/core"
	"github.com/Philipp01105/logboot/formatter"
)

// StreamHandler writes formatted entries to an io.Writer. Writes are
// serialized, so one entry always produces one contiguous line.
type StreamHandler struct {
	Base
	writer  io.Writer
	writeMu sync.Mutex // protects buf and writer
	buf     bytes.Buffer
	stats   *Stats
}

// StreamConfig holds configuration for a stream handler
type StreamConfig struct {
	// Writer to write to (default: os.Stdout)
	Writer io.Writer
	// Formatter to use (default: PatternFormatter with DefaultPattern)
	Formatter formatter.Formatter
	// Level is the handler threshold (default: DebugLevel, i.e. everything)
	Level core.Level
}

// NewStreamHandler creates a new stream handler
func NewStreamHandler(cfg StreamConfig) *StreamHandler {
	if cfg.Writer == nil {
		cfg.Writer = os.Stdout
	}
	if cfg.Formatter == nil {
		cfg.Formatter = formatter.MustPattern(formatter.DefaultPattern, formatter.Config{})
	}

	h := &StreamHandler{
		writer: cfg.Writer,
		stats:  NewStats(),
	}
	h.SetLevel(cfg.Level)
	h.SetFormatter(cfg.Formatter)
	h.buf.Grow(256)
	return h
}

// Writer returns the destination stream.
func (h *StreamHandler) Writer() io.Writer {
	return h.writer
}

// Handle formats and writes an entry
func (h *StreamHandler) Handle(entry *core.Entry) error {
	f := h.Formatter()

	if bf, ok := f.(formatter.BufferFormatter); ok {
		h.writeMu.Lock()
		h.buf.Reset()
		bf.FormatEntry(entry, &h.buf)
		_, err := h.writer.Write(h.buf.Bytes())
		h.writeMu.Unlock()
		return h.done(err)
	}

	data, err := f.Format(entry)
	if err != nil {
		return err
	}

	h.writeMu.Lock()
	_, err = h.writer.Write(data)
	h.writeMu.Unlock()
	return h.done(err)
}

func (h *StreamHandler) done(err error) error {
	if err == nil {
		h.stats.IncrementProcessed()
	}
	return err
}

// Stats returns a snapshot of the current statistics
func (h *StreamHandler) Stats() Snapshot {
	return h.stats.GetSnapshot()
}

// Close releases the handler. The underlying stream is left open.
func (h *StreamHandler) Close() error {
	return nil
}
