package formatter

import (
	"bytes"
	"sync"

	"github.com/Philipp01105/logboot/core"
)

// Formatter defines the interface for log formatters
type Formatter interface {
	// Format formats a log entry into bytes
	Format(entry *core.Entry) ([]byte, error)
}

// BufferFormatter is an optional interface that formatters can implement
// to format directly into a caller-provided buffer, avoiding internal
// buffer pool overhead.
type BufferFormatter interface {
	// FormatEntry formats a log entry into the given buffer.
	FormatEntry(entry *core.Entry, buf *bytes.Buffer)
}

// CallerFormatter is implemented by formatters that print caller
// information. Loggers capture the caller for an entry when any handler
// on its way reports NeedsCaller.
type CallerFormatter interface {
	NeedsCaller() bool
}

// Config holds common formatter configuration
type Config struct {
	// IncludeCaller enables caller information in log output
	IncludeCaller bool
	// TimestampFormat specifies the time layout (formatter-specific default when empty)
	TimestampFormat string
}

// bufferPool is a pool of bytes.Buffer to reduce allocations
var bufferPool = &sync.Pool{
	New: func() interface{} {
		b := new(bytes.Buffer)
		b.Grow(256)
		return b
	},
}

func getBuffer() *bytes.Buffer {
	buf := bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

func putBuffer(buf *bytes.Buffer) {
	if buf.Cap() > 64*1024 { // Don't keep very large buffers
		return
	}
	bufferPool.Put(buf)
}

// formatWith runs fn against a pooled buffer and returns a copy of its contents.
func formatWith(entry *core.Entry, fn func(*core.Entry, *bytes.Buffer)) []byte {
	buf := getBuffer()
	defer putBuffer(buf)

	fn(entry, buf)

	result := make([]byte, buf.Len())
	copy(result, buf.Bytes())
	return result
}
