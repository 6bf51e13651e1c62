package handler

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Philipp01105/logboot/core"
	"github.com/Philipp01105/logboot/formatter"
)

// recordingHandler keeps the messages it receives.
type recordingHandler struct {
	Base
	mu     sync.Mutex
	msgs   []string
	err    error
	closed bool
}

func (r *recordingHandler) Handle(entry *core.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, entry.Message)
	return r.err
}

func (r *recordingHandler) Close() error {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
	return r.err
}

func (r *recordingHandler) messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.msgs...)
}

// failingWriter rejects every write.
type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk on fire") }

func newEntry(level core.Level, msg string) *core.Entry {
	e := core.GetEntry()
	e.Time = time.Date(2026, 2, 18, 13, 0, 0, 0, time.UTC)
	e.Level = level
	e.Thread = core.MainThreadName
	e.Message = msg
	return e
}

func TestStreamHandler_WritesPatternLine(t *testing.T) {
	var buf bytes.Buffer
	h := NewStreamHandler(StreamConfig{Writer: &buf})
	defer h.Close()

	if err := h.Handle(newEntry(core.InfoLevel, "test message")); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	want := "2026-02-18 13:00:00,000 - MainThread - INFO - test message\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
	if got := h.Stats().ProcessedTotal; got != 1 {
		t.Errorf("ProcessedTotal = %d, want 1", got)
	}
}

func TestStreamHandler_SetFormatter(t *testing.T) {
	var buf bytes.Buffer
	h := NewStreamHandler(StreamConfig{Writer: &buf})

	h.SetFormatter(formatter.NewJSONFormatter(formatter.Config{}))
	_ = h.Handle(newEntry(core.WarnLevel, "switched"))

	if !strings.Contains(buf.String(), `"level":"WARNING"`) {
		t.Errorf("Expected JSON output, got: %s", buf.String())
	}
}

func TestStreamHandler_DefaultsToStdout(t *testing.T) {
	h := NewStreamHandler(StreamConfig{})
	if h.Writer() == nil {
		t.Fatal("Writer() is nil")
	}
	if _, ok := h.Formatter().(*formatter.PatternFormatter); !ok {
		t.Errorf("default formatter = %T, want *formatter.PatternFormatter", h.Formatter())
	}
}

func TestStreamHandler_WriteError(t *testing.T) {
	h := NewStreamHandler(StreamConfig{Writer: failingWriter{}})

	if err := h.Handle(newEntry(core.ErrorLevel, "lost")); err == nil {
		t.Fatal("Handle() expected an error from the writer")
	}
	if got := h.Stats().ProcessedTotal; got != 0 {
		t.Errorf("ProcessedTotal = %d, want 0", got)
	}
}

func TestStreamHandler_ConcurrentLinesStayWhole(t *testing.T) {
	var buf bytes.Buffer
	h := NewStreamHandler(StreamConfig{Writer: &buf})

	const goroutines = 8
	const msgs = 50
	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < msgs; i++ {
				e := newEntry(core.InfoLevel, "parallel")
				_ = h.Handle(e)
				core.PutEntry(e)
			}
		}()
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != goroutines*msgs {
		t.Fatalf("got %d lines, want %d", len(lines), goroutines*msgs)
	}
	for _, line := range lines {
		if !strings.HasSuffix(line, " - INFO - parallel") {
			t.Fatalf("interleaved line: %q", line)
		}
	}
}

func TestBase_Level(t *testing.T) {
	var b Base
	if !b.Enabled(core.DebugLevel) {
		t.Error("zero Base should admit DEBUG")
	}

	b.SetLevel(core.WarnLevel)
	if b.Level() != core.WarnLevel {
		t.Errorf("Level() = %v, want WARNING", b.Level())
	}
	if b.Enabled(core.InfoLevel) {
		t.Error("INFO should be filtered at WARNING threshold")
	}
	if !b.Enabled(core.CriticalLevel) {
		t.Error("CRITICAL should pass WARNING threshold")
	}
}

func TestBase_NeedsCaller(t *testing.T) {
	h := NewStreamHandler(StreamConfig{Writer: &bytes.Buffer{}})
	if NeedsCaller(h) {
		t.Error("default pattern should not need caller information")
	}

	h.SetFormatter(formatter.MustPattern("%(lineno)d %(message)s", formatter.Config{}))
	if !NeedsCaller(h) {
		t.Error("lineno pattern should need caller information")
	}

	h.SetFormatter(formatter.NewJSONFormatter(formatter.Config{IncludeCaller: true}))
	if !NeedsCaller(h) {
		t.Error("JSON with IncludeCaller should need caller information")
	}

	if NeedsCaller(&recordingHandler{}) {
		t.Error("handler without formatter should not need caller information")
	}
}

func TestNeedsCaller_Wrappers(t *testing.T) {
	plain := NewStreamHandler(StreamConfig{Writer: &bytes.Buffer{}})
	withCaller := NewStreamHandler(StreamConfig{
		Writer:    &bytes.Buffer{},
		Formatter: formatter.MustPattern("%(filename)s", formatter.Config{}),
	})

	if NeedsCaller(NewMultiHandler(plain, &recordingHandler{})) {
		t.Error("multi handler without caller consumers reported NeedsCaller")
	}
	if !NeedsCaller(NewMultiHandler(plain, withCaller)) {
		t.Error("multi handler should report a child's caller need")
	}

	async := NewAsyncHandler(withCaller, AsyncConfig{})
	defer async.Close()
	if !NeedsCaller(async) {
		t.Error("async handler should defer to the wrapped handler")
	}
}

func TestMultiHandler(t *testing.T) {
	var buf1, buf2 bytes.Buffer
	h1 := NewStreamHandler(StreamConfig{Writer: &buf1})
	h2 := NewStreamHandler(StreamConfig{Writer: &buf2, Level: core.ErrorLevel})

	multi := NewMultiHandler(h1, h2)
	defer multi.Close()

	if err := multi.Handle(newEntry(core.InfoLevel, "multi test")); err != nil {
		t.Errorf("Handle() error = %v", err)
	}

	if !strings.Contains(buf1.String(), "multi test") {
		t.Error("First handler did not receive message")
	}
	if buf2.Len() != 0 {
		t.Errorf("Second handler should filter INFO, got: %s", buf2.String())
	}
	if !multi.Enabled(core.InfoLevel) {
		t.Error("MultiHandler should be enabled when any child is")
	}
}

func TestMultiHandler_CombinesErrors(t *testing.T) {
	errA := errors.New("a failed")
	errB := errors.New("b failed")
	a := &recordingHandler{err: errA}
	b := &recordingHandler{err: errB}

	multi := NewMultiHandler(a, b)
	err := multi.Handle(newEntry(core.InfoLevel, "x"))
	if !errors.Is(err, errA) || !errors.Is(err, errB) {
		t.Errorf("Handle() error = %v, want both child errors", err)
	}

	err = multi.Close()
	if !errors.Is(err, errA) || !errors.Is(err, errB) {
		t.Errorf("Close() error = %v, want both child errors", err)
	}
	if !a.closed || !b.closed {
		t.Error("Close() did not reach every child")
	}
}
