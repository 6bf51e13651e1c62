package handler

import (
	"sync"
	"time"

	"github.com/Philipp01105/logboot/core"
)

// AsyncConfig holds configuration for an async handler
type AsyncConfig struct {
	// BufferSize is the size of the async queue (default: 1000)
	BufferSize int
	// OverflowPolicy defines per-level overflow behavior (default: DefaultLevelPolicy)
	OverflowPolicy map[core.Level]OverflowPolicy
	// BlockTimeout is the timeout for the Block overflow policy (default: 100ms)
	BlockTimeout time.Duration
	// DrainTimeout bounds how long Close keeps writing queued entries (default: 5s)
	DrainTimeout time.Duration
	// ErrorHandler receives errors from the wrapped handler (default: ignored)
	ErrorHandler func(error)
}

func applyAsyncDefaults(cfg *AsyncConfig) {
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 1000
	}
	if cfg.OverflowPolicy == nil {
		cfg.OverflowPolicy = DefaultLevelPolicy()
	}
	if cfg.BlockTimeout == 0 {
		cfg.BlockTimeout = 100 * time.Millisecond
	}
	if cfg.DrainTimeout == 0 {
		cfg.DrainTimeout = 5 * time.Second
	}
	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = func(error) {}
	}
}

// AsyncHandler moves the wrapped handler off the caller's goroutine.
// Entries are cloned into a bounded queue and written by a single
// background goroutine; a full queue is resolved by the per-level
// OverflowPolicy.
type AsyncHandler struct {
	next      Handler
	cfg       AsyncConfig
	queue     chan *core.Entry
	closed    chan struct{}
	closeMu   sync.RWMutex // held for writing only while closing
	isClosed  bool
	closeOnce sync.Once
	wg        sync.WaitGroup
	stats     *Stats
}

// NewAsyncHandler wraps next with a queue and starts the writer goroutine.
func NewAsyncHandler(next Handler, cfg AsyncConfig) *AsyncHandler {
	applyAsyncDefaults(&cfg)

	h := &AsyncHandler{
		next:   next,
		cfg:    cfg,
		queue:  make(chan *core.Entry, cfg.BufferSize),
		closed: make(chan struct{}),
		stats:  NewStats(),
	}

	h.wg.Add(1)
	go h.process()
	return h
}

// Enabled defers to the wrapped handler's threshold.
func (h *AsyncHandler) Enabled(level core.Level) bool {
	if l, ok := h.next.(Leveled); ok {
		return l.Enabled(level)
	}
	return true
}

// NeedsCaller defers to the wrapped handler.
func (h *AsyncHandler) NeedsCaller() bool {
	return NeedsCaller(h.next)
}

// Handle queues a copy of entry according to the overflow policy.
// An entry accepted before Close is either written or counted as dropped.
func (h *AsyncHandler) Handle(entry *core.Entry) error {
	h.closeMu.RLock()
	defer h.closeMu.RUnlock()
	if h.isClosed {
		return ErrClosed
	}

	e := entry.Clone()

	policy, ok := h.cfg.OverflowPolicy[e.Level]
	if !ok {
		policy = DropNewest
	}

	select {
	case h.queue <- e:
		return nil
	default:
	}

	switch policy {
	case Block:
		timer := time.NewTimer(h.cfg.BlockTimeout)
		defer timer.Stop()
		select {
		case h.queue <- e:
			return nil
		case <-timer.C:
			// Timeout - fall back to a synchronous write
			h.stats.IncrementBlocked()
			return h.write(e)
		}

	case DropOldest:
		select {
		case old := <-h.queue:
			h.stats.IncrementDropped(old.Level)
			core.PutEntry(old)
		default:
		}
		select {
		case h.queue <- e:
			return nil
		default:
			h.stats.IncrementDropped(e.Level)
			core.PutEntry(e)
			return nil
		}

	default:
		h.stats.IncrementDropped(e.Level)
		core.PutEntry(e)
		return nil
	}
}

func (h *AsyncHandler) write(e *core.Entry) error {
	err := h.next.Handle(e)
	if err == nil {
		h.stats.IncrementProcessed()
	}
	core.PutEntry(e)
	return err
}

// process is the single consumer of the queue
func (h *AsyncHandler) process() {
	defer h.wg.Done()

	for {
		select {
		case e := <-h.queue:
			if err := h.write(e); err != nil {
				h.cfg.ErrorHandler(err)
			}
		case <-h.closed:
			deadline := time.After(h.cfg.DrainTimeout)
			for {
				select {
				case e := <-h.queue:
					if err := h.write(e); err != nil {
						h.cfg.ErrorHandler(err)
					}
				case <-deadline:
					return
				default:
					return
				}
			}
		}
	}
}

// Stats returns a snapshot of the queue statistics
func (h *AsyncHandler) Stats() Snapshot {
	return h.stats.GetSnapshot()
}

// Close drains the queue (bounded by DrainTimeout) and closes the wrapped handler.
func (h *AsyncHandler) Close() error {
	var err error
	h.closeOnce.Do(func() {
		h.closeMu.Lock()
		h.isClosed = true
		close(h.closed)
		h.closeMu.Unlock()

		h.wg.Wait()
		err = h.next.Close()
	})
	return err
}
