package handler

import (
	"go.uber.org/multierr"

	"github.com/Philipp01105/logboot/core"
)

// MultiHandler sends log entries to multiple handlers
type MultiHandler struct {
	handlers []Handler
}

// NewMultiHandler creates a new multi-handler
func NewMultiHandler(handlers ...Handler) *MultiHandler {
	return &MultiHandler{handlers: handlers}
}

// Enabled reports whether any child accepts level.
func (h *MultiHandler) Enabled(level core.Level) bool {
	for _, child := range h.handlers {
		if l, ok := child.(Leveled); !ok || l.Enabled(level) {
			return true
		}
	}
	return false
}

// NeedsCaller reports whether any child uses caller information.
func (h *MultiHandler) NeedsCaller() bool {
	for _, child := range h.handlers {
		if NeedsCaller(child) {
			return true
		}
	}
	return false
}

// Handle passes entry to every child whose threshold admits it
func (h *MultiHandler) Handle(entry *core.Entry) error {
	var err error
	for _, child := range h.handlers {
		if l, ok := child.(Leveled); ok && !l.Enabled(entry.Level) {
			continue
		}
		err = multierr.Append(err, child.Handle(entry))
	}
	return err
}

// Close closes all handlers
func (h *MultiHandler) Close() error {
	var err error
	for _, child := range h.handlers {
		err = multierr.Append(err, child.Close())
	}
	return err
}
