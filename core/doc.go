// Package core defines the shared types used across logboot.
//
// It provides the Level type for severity filtering, the Entry type that
// represents a single log record, and the Field type for structured
// key-value pairs.
//
// Entry objects are pooled via sync.Pool. Callers get an Entry with
// GetEntry and return it with PutEntry once every handler has consumed
// it. Handlers that queue an entry for later must Clone it first.
//
// Goroutines have no names, so ThreadName derives one from the goroutine
// id. Code that wants a stable label for a unit of work can attach one to
// a context with WithThreadName.
package core
