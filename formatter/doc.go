// Package formatter turns log entries into output lines.
//
// Formatter returns a []byte; BufferFormatter writes into a
// caller-provided bytes.Buffer. Handlers check for BufferFormatter and
// prefer it, which keeps the write path free of intermediate copies.
//
// PatternFormatter compiles a "%(attribute)s" layout once and renders it
// with Append-style calls. The default layout is
//
//	%(asctime)s - %(threadName)s - %(levelname)s - %(message)s
//
// JSONFormatter emits one JSON object per line.
//
// Buffers larger than 64 KiB are not returned to the pool so a single
// large log line cannot permanently inflate memory usage.
package formatter
