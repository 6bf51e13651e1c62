package handler

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Philipp01105/logboot/core"
)

// gatedHandler blocks every Handle call until the gate is opened.
type gatedHandler struct {
	recordingHandler
	gate chan struct{}
	once sync.Once
}

func newGatedHandler() *gatedHandler {
	return &gatedHandler{gate: make(chan struct{})}
}

func (g *gatedHandler) open() { g.once.Do(func() { close(g.gate) }) }

func (g *gatedHandler) Handle(entry *core.Entry) error {
	<-g.gate
	return g.recordingHandler.Handle(entry)
}

func TestAsyncHandler_DeliversAll(t *testing.T) {
	rec := &recordingHandler{}
	h := NewAsyncHandler(rec, AsyncConfig{BufferSize: 100})

	for i := 0; i < 50; i++ {
		e := newEntry(core.InfoLevel, "async test")
		if err := h.Handle(e); err != nil {
			t.Fatalf("Handle() error = %v", err)
		}
		// The caller may recycle its entry immediately.
		core.PutEntry(e)
	}

	if err := h.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	msgs := rec.messages()
	if len(msgs) != 50 {
		t.Fatalf("Expected 50 messages, got %d", len(msgs))
	}
	for _, m := range msgs {
		if m != "async test" {
			t.Fatalf("unexpected message %q", m)
		}
	}
	if !rec.closed {
		t.Error("Close() did not close the wrapped handler")
	}
}

func TestOverflowPolicy_DropNewest(t *testing.T) {
	g := newGatedHandler()
	h := NewAsyncHandler(g, AsyncConfig{
		BufferSize: 2,
		OverflowPolicy: map[core.Level]OverflowPolicy{
			core.InfoLevel: DropNewest,
		},
	})

	for i := 0; i < 10; i++ {
		_ = h.Handle(newEntry(core.InfoLevel, "test"))
	}

	if h.Stats().DroppedTotal[core.InfoLevel] == 0 {
		t.Error("Expected some dropped logs with DropNewest policy")
	}
	g.open()
	h.Close()
}

func TestOverflowPolicy_DropOldest(t *testing.T) {
	g := newGatedHandler()
	h := NewAsyncHandler(g, AsyncConfig{
		BufferSize: 2,
		OverflowPolicy: map[core.Level]OverflowPolicy{
			core.WarnLevel: DropOldest,
		},
	})

	for i := 0; i < 10; i++ {
		_ = h.Handle(newEntry(core.WarnLevel, "warn"))
	}
	last := newEntry(core.WarnLevel, "newest")
	_ = h.Handle(last)

	if h.Stats().DroppedTotal[core.WarnLevel] == 0 {
		t.Error("Expected some dropped logs with DropOldest policy")
	}

	g.open()
	h.Close()

	msgs := g.messages()
	if len(msgs) == 0 || msgs[len(msgs)-1] != "newest" {
		t.Errorf("DropOldest should keep the newest entry, got %v", msgs)
	}
}

func TestOverflowPolicy_BlockFallsBackToSyncWrite(t *testing.T) {
	rec := &recordingHandler{}
	h := NewAsyncHandler(rec, AsyncConfig{
		BufferSize:   1,
		BlockTimeout: 10 * time.Millisecond,
	})
	defer h.Close()

	for i := 0; i < 20; i++ {
		_ = h.Handle(newEntry(core.ErrorLevel, "error"))
	}

	// Block never drops: every entry is either queued or written synchronously.
	if got := h.Stats().DroppedTotal[core.ErrorLevel]; got != 0 {
		t.Errorf("Block policy dropped %d entries", got)
	}
}

func TestAsyncHandler_ClosedRejects(t *testing.T) {
	h := NewAsyncHandler(&recordingHandler{}, AsyncConfig{})
	if err := h.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := h.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}
	if err := h.Handle(newEntry(core.InfoLevel, "late")); !errors.Is(err, ErrClosed) {
		t.Errorf("Handle() after Close error = %v, want ErrClosed", err)
	}
}

func TestAsyncHandler_CloseDuringHandle(t *testing.T) {
	for round := 0; round < 50; round++ {
		rec := &recordingHandler{}
		h := NewAsyncHandler(rec, AsyncConfig{BufferSize: 8})

		var accepted sync.WaitGroup
		var mu sync.Mutex
		ok := 0
		for i := 0; i < 8; i++ {
			accepted.Add(1)
			go func() {
				defer accepted.Done()
				for j := 0; j < 50; j++ {
					e := newEntry(core.InfoLevel, "x")
					err := h.Handle(e)
					core.PutEntry(e)
					if err == nil {
						mu.Lock()
						ok++
						mu.Unlock()
					}
				}
			}()
		}
		time.Sleep(time.Duration(round%5) * 100 * time.Microsecond)
		if err := h.Close(); err != nil {
			t.Fatalf("Close() error = %v", err)
		}
		accepted.Wait()

		got := uint64(len(rec.messages()))
		for _, n := range h.Stats().DroppedTotal {
			got += n
		}
		if got != uint64(ok) {
			t.Fatalf("round %d: %d entries accepted, %d written or dropped", round, ok, got)
		}
	}
}

func TestAsyncHandler_ReportsErrors(t *testing.T) {
	boom := errors.New("boom")
	reported := make(chan error, 1)
	h := NewAsyncHandler(&recordingHandler{err: boom}, AsyncConfig{
		ErrorHandler: func(err error) {
			select {
			case reported <- err:
			default:
			}
		},
	})
	defer h.Close()

	_ = h.Handle(newEntry(core.InfoLevel, "x"))

	select {
	case err := <-reported:
		if !errors.Is(err, boom) {
			t.Errorf("reported %v, want boom", err)
		}
	case <-time.After(time.Second):
		t.Fatal("error was not reported")
	}
}

func TestAsyncHandler_EnabledFollowsWrapped(t *testing.T) {
	rec := &recordingHandler{}
	rec.SetLevel(core.ErrorLevel)
	h := NewAsyncHandler(rec, AsyncConfig{})
	defer h.Close()

	if h.Enabled(core.InfoLevel) {
		t.Error("INFO should be filtered by the wrapped handler threshold")
	}
	if !h.Enabled(core.ErrorLevel) {
		t.Error("ERROR should pass")
	}
}

func TestStats(t *testing.T) {
	s := NewStats()
	s.IncrementDropped(core.InfoLevel)
	s.IncrementDropped(core.CriticalLevel)
	s.IncrementDropped(core.NotSetLevel) // ignored
	s.IncrementBlocked()
	s.IncrementProcessed()

	if s.GetTotalDropped() != 2 {
		t.Errorf("GetTotalDropped() = %d, want 2", s.GetTotalDropped())
	}
	snap := s.GetSnapshot()
	if snap.DroppedTotal[core.CriticalLevel] != 1 || snap.BlockedTotal != 1 || snap.ProcessedTotal != 1 {
		t.Errorf("unexpected snapshot %+v", snap)
	}

	s.Reset()
	if s.GetTotalDropped() != 0 || s.GetProcessed() != 0 || s.GetBlocked() != 0 {
		t.Error("Reset() did not clear counters")
	}
}

func TestOverflowPolicy_String(t *testing.T) {
	tests := map[OverflowPolicy]string{
		DropNewest:         "DropNewest",
		DropOldest:         "DropOldest",
		Block:              "Block",
		OverflowPolicy(99): "Unknown",
	}
	for p, want := range tests {
		if got := p.String(); got != want {
			t.Errorf("String() = %q, want %q", got, want)
		}
	}
}
