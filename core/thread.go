package core

import (
	"bytes"
	"context"
	"runtime"
	"strconv"
)

// MainThreadName is reported for the goroutine running main.
const MainThreadName = "MainThread"

type threadKey struct{}

// WithThreadName returns a context that names the work running under it.
// Loggers prefer this name over the goroutine-derived one.
func WithThreadName(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, threadKey{}, name)
}

// ThreadNameFrom returns the name stored by WithThreadName, if any.
func ThreadNameFrom(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	name, ok := ctx.Value(threadKey{}).(string)
	return name, ok && name != ""
}

var goroutinePrefix = []byte("goroutine ")

// ThreadName returns a name for the calling goroutine: MainThreadName for
// goroutine 1, "goroutine-<id>" otherwise.
func ThreadName() string {
	id := goroutineID()
	switch id {
	case 0:
		return "unknown"
	case 1:
		return MainThreadName
	}
	return "goroutine-" + strconv.FormatUint(id, 10)
}

// goroutineID parses the id out of the "goroutine N [state]:" stack header.
func goroutineID() uint64 {
	var buf [64]byte
	b := buf[:runtime.Stack(buf[:], false)]
	b = bytes.TrimPrefix(b, goroutinePrefix)
	if i := bytes.IndexByte(b, ' '); i > 0 {
		b = b[:i]
	}
	id, err := strconv.ParseUint(string(b), 10, 64)
	if err != nil {
		return 0
	}
	return id
}
