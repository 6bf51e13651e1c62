package formatter_test

import (
	"fmt"
	"strings"
	"time"

	"github.com/Philipp01105/logboot/core"
	"github.com/Philipp01105/logboot/formatter"
)

func ExampleNewPatternFormatter() {
	f, err := formatter.NewPatternFormatter(formatter.DefaultPattern, formatter.Config{})
	if err != nil {
		panic(err)
	}

	entry := &core.Entry{
		Time:    time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC),
		Level:   core.InfoLevel,
		Thread:  core.MainThreadName,
		Message: "hello world",
	}

	out, _ := f.Format(entry)
	fmt.Print(string(out))
	// Output:
	// 2026-01-15 12:00:00,000 - MainThread - INFO - hello world
}

func ExampleNewJSONFormatter() {
	f := formatter.NewJSONFormatter(formatter.Config{})

	entry := &core.Entry{
		Time:    time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC),
		Level:   core.InfoLevel,
		Message: "request handled",
		Fields: []core.Field{
			{Key: "status", Int64: 200, Type: core.Int64Type},
		},
	}

	out, _ := f.Format(entry)
	fmt.Println(strings.Contains(string(out), `"level":"INFO"`))
	fmt.Println(strings.Contains(string(out), `"status":200`))
	// Output:
	// true
	// true
}
