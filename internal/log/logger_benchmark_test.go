package log

import (
	"errors"
	"io"
	"testing"
)

func benchLogger(format Format, level Level, addSource bool) *Logger {
	return New(Config{
		Level:       level,
		Format:      format,
		Output:      NewOutput(io.Discard),
		AddSource:   addSource,
		ServiceName: "anvil",
	})
}

func BenchmarkLoggerInfo(b *testing.B) {
	benchmarks := []struct {
		name   string
		format Format
		source bool
	}{
		{"json", FormatJSON, false},
		{"json_with_source", FormatJSON, true},
		{"text", FormatText, false},
	}

	for _, bm := range benchmarks {
		b.Run(bm.name, func(b *testing.B) {
			logger := benchLogger(bm.format, LevelInfo, bm.source)
			b.ReportAllocs()
			for b.Loop() {
				logger.Info("task finished",
					"task", "build",
					"project", "core",
					"duration_ms", 412,
				)
			}
		})
	}
}

// Debug calls below the configured level should cost close to nothing.
func BenchmarkLoggerDebugDisabled(b *testing.B) {
	logger := benchLogger(FormatJSON, LevelInfo, false)
	b.ReportAllocs()
	for b.Loop() {
		logger.Debug("tool output",
			"tool", "go",
			"line", "compiling packages",
		)
	}
}

func BenchmarkLoggerWithError(b *testing.B) {
	logger := benchLogger(FormatJSON, LevelInfo, false)
	err := errors.New("exit status 1")
	b.ReportAllocs()
	for b.Loop() {
		logger.WithError(err).Error("task failed",
			"task", "test",
			"project", "cli",
		)
	}
}

func BenchmarkLoggerParallel(b *testing.B) {
	logger := benchLogger(FormatJSON, LevelInfo, false)
	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			logger.Info("stage progress",
				"stage", "restore",
				"project", "core",
			)
		}
	})
}

func BenchmarkLoggerManyFields(b *testing.B) {
	logger := benchLogger(FormatJSON, LevelInfo, false)
	b.ReportAllocs()
	for b.Loop() {
		logger.Info("run summary",
			"workspace", "demo",
			"run_id", "0c55ad6e",
			"total", 6,
			"succeeded", 5,
			"failed", 1,
			"skipped", 0,
			"duration_ms", 1832.5,
			"targets", []string{"ci"},
		)
	}
}
