package logger

import (
	"bytes"
	"testing"

	"github.com/Philipp01105/logboot/handler"
)

func benchLogger() *Logger {
	log := newTestRegistry().Logger("bench")
	log.SetLevel(InfoLevel)
	log.AddHandler(handler.NewStreamHandler(handler.StreamConfig{Writer: &bytes.Buffer{}}))
	return log
}

func BenchmarkLogger_LevelCheck(b *testing.B) {
	log := benchLogger()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		// Should exit early due to level check
		log.Debug("debug message", String("key", "value"))
	}
}

func BenchmarkLogger_Info(b *testing.B) {
	log := benchLogger()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		log.Info("test message", String("key", "value"))
	}
}

func BenchmarkLogger_InfoPropagated(b *testing.B) {
	log := benchLogger()
	child := log.Registry().Logger("bench.child.leaf")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		child.Info("test message",
			String("str", "value"),
			Int("int", 42),
			Bool("bool", true),
		)
	}
}
