package internal

import (
	"log/slog"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogLevel(t *testing.T) {
	t.Cleanup(func() {
		SetQuiet(false)
		SetDebug(false)
	})

	tests := []struct {
		name  string
		quiet bool
		debug bool
		want  slog.Level
	}{
		{"default", false, false, slog.LevelInfo},
		{"quiet", true, false, slog.LevelWarn},
		{"debug", false, true, slog.LevelDebug},
		{"debug wins over quiet", true, true, slog.LevelDebug},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			SetQuiet(tt.quiet)
			SetDebug(tt.debug)
			assert.Equal(t, tt.want, LogLevel())
		})
	}
}

func TestSeed(t *testing.T) {
	var mode atomic.Bool
	seed(&mode, "true")
	assert.True(t, mode.Load())

	seed(&mode, "not-a-bool")
	assert.True(t, mode.Load())

	seed(&mode, "0")
	assert.False(t, mode.Load())
}

func TestVersionStringLocal(t *testing.T) {
	assert.True(t, IsLocal())
	assert.Equal(t, defaultUndefined, GitCommit())
	assert.NotEmpty(t, VersionString())
}
