package handler

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Philipp01105/logboot/core"
	"github.com/Philipp01105/logboot/formatter"
)

// ErrNoFilename is returned by NewFileHandler when FileConfig.Filename is empty.
var ErrNoFilename = errors.New("filename is required")

// rotatedSuffix is appended to the file name of a rotated backup.
const rotatedSuffix = "2006-01-02T15-04-05.000"

// FileHandler appends formatted entries to a file, optionally rotating it
// by size or age. Writes are synchronous; wrap it in an AsyncHandler to
// move them off the calling goroutine.
type FileHandler struct {
	Base
	filename       string
	mu             sync.Mutex // protects everything below
	file           *os.File
	buf            bytes.Buffer
	maxSize        int64
	maxBackups     int
	rotateInterval time.Duration
	currentSize    int64
	lastRotate     time.Time
	closed         bool
	stats          *Stats
}

// FileConfig holds configuration for file handler
type FileConfig struct {
	// Filename is the path to the log file
	Filename string
	// Formatter to use (default: PatternFormatter with DefaultPattern)
	Formatter formatter.Formatter
	// Level is the handler threshold (default: DebugLevel)
	Level core.Level
	// MaxSize is the size in bytes that triggers rotation (0 = never)
	MaxSize int64
	// RotateInterval is the file age that triggers rotation (0 = never)
	RotateInterval time.Duration
	// MaxBackups is the number of rotated files to keep (0 = keep all)
	MaxBackups int
}

// NewFileHandler opens (or creates) cfg.Filename for appending.
func NewFileHandler(cfg FileConfig) (*FileHandler, error) {
	if cfg.Filename == "" {
		return nil, ErrNoFilename
	}
	if cfg.Formatter == nil {
		cfg.Formatter = formatter.MustPattern(formatter.DefaultPattern, formatter.Config{})
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Filename), 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	file, size, err := openAppend(cfg.Filename)
	if err != nil {
		return nil, err
	}

	h := &FileHandler{
		filename:       cfg.Filename,
		file:           file,
		maxSize:        cfg.MaxSize,
		maxBackups:     cfg.MaxBackups,
		rotateInterval: cfg.RotateInterval,
		currentSize:    size,
		lastRotate:     time.Now(),
		stats:          NewStats(),
	}
	h.SetLevel(cfg.Level)
	h.SetFormatter(cfg.Formatter)
	return h, nil
}

func openAppend(name string) (*os.File, int64, error) {
	file, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, 0, err
	}
	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, 0, err
	}
	return file, info.Size(), nil
}

// Filename returns the path of the active log file.
func (h *FileHandler) Filename() string {
	return h.filename
}

// Handle formats and appends an entry, rotating first when a limit is reached.
func (h *FileHandler) Handle(entry *core.Entry) error {
	f := h.Formatter()

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return ErrClosed
	}

	h.buf.Reset()
	if bf, ok := f.(formatter.BufferFormatter); ok {
		bf.FormatEntry(entry, &h.buf)
	} else {
		data, err := f.Format(entry)
		if err != nil {
			return err
		}
		h.buf.Write(data)
	}

	if h.needsRotate(int64(h.buf.Len())) {
		if err := h.rotate(); err != nil {
			return err
		}
	}

	n, err := h.file.Write(h.buf.Bytes())
	h.currentSize += int64(n)
	if err != nil {
		return err
	}
	h.stats.IncrementProcessed()
	return nil
}

func (h *FileHandler) needsRotate(next int64) bool {
	if h.maxSize > 0 && h.currentSize > 0 && h.currentSize+next > h.maxSize {
		return true
	}
	return h.rotateInterval > 0 && time.Since(h.lastRotate) >= h.rotateInterval
}

// rotate renames the active file with a timestamp suffix and reopens it.
func (h *FileHandler) rotate() error {
	if err := h.file.Close(); err != nil {
		return err
	}

	rotated := h.filename + "." + time.Now().Format(rotatedSuffix)
	renameErr := os.Rename(h.filename, rotated)

	file, size, err := openAppend(h.filename)
	if err != nil {
		return fmt.Errorf("reopen %s after rotation: %w", h.filename, errors.Join(renameErr, err))
	}
	h.file = file
	h.currentSize = size
	h.lastRotate = time.Now()
	if renameErr != nil {
		return renameErr
	}

	if h.maxBackups > 0 {
		return h.pruneBackups()
	}
	return nil
}

// pruneBackups removes the oldest rotated files beyond maxBackups.
func (h *FileHandler) pruneBackups() error {
	dir := filepath.Dir(h.filename)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	prefix := filepath.Base(h.filename) + "."
	var kept []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), prefix) {
			kept = append(kept, filepath.Join(dir, e.Name()))
		}
	}
	if len(kept) <= h.maxBackups {
		return nil
	}

	// the timestamp suffix sorts chronologically
	sort.Strings(kept)
	for _, b := range kept[:len(kept)-h.maxBackups] {
		if err := os.Remove(b); err != nil {
			return err
		}
	}
	return nil
}

// Stats returns a snapshot of the current statistics
func (h *FileHandler) Stats() Snapshot {
	return h.stats.GetSnapshot()
}

// Close syncs and closes the file. Later calls return nil.
func (h *FileHandler) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}
	h.closed = true
	return errors.Join(h.file.Sync(), h.file.Close())
}
