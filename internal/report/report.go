// Package report carries human-readable build progress to the user.
//
// Resolution and orchestration never write to the terminal directly; they
// receive a [Reporter] and write lines through its three severity channels.
package report

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// Severity channels for user-facing build messages.
type Reporter interface {
	Info(msg string)
	Warn(msg string)
	Error(msg string)
}

// Returns a reporter that writes through the given logger.
//
// A nil logger selects [slog.Default] at call time, so reconfiguring the
// default logger after construction is honoured.
func NewLogger(logger *slog.Logger) Reporter {
	return &logReporter{logger: logger}
}

type logReporter struct {
	logger *slog.Logger
}

func (r *logReporter) Info(msg string)  { r.log(slog.LevelInfo, msg) }
func (r *logReporter) Warn(msg string)  { r.log(slog.LevelWarn, msg) }
func (r *logReporter) Error(msg string) { r.log(slog.LevelError, msg) }

func (r *logReporter) log(level slog.Level, msg string) {
	logger := r.logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Log(context.Background(), level, msg)
}

// Formats and writes an informational line.
func Infof(r Reporter, format string, args ...any) { r.Info(fmt.Sprintf(format, args...)) }

// Formats and writes a warning line.
func Warnf(r Reporter, format string, args ...any) { r.Warn(fmt.Sprintf(format, args...)) }

// Formats and writes an error line.
func Errorf(r Reporter, format string, args ...any) { r.Error(fmt.Sprintf(format, args...)) }

// Reporter that keeps every line in memory. Safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	infos  []string
	warns  []string
	errors []string
}

func (r *Recorder) Info(msg string)  { r.add(&r.infos, msg) }
func (r *Recorder) Warn(msg string)  { r.add(&r.warns, msg) }
func (r *Recorder) Error(msg string) { r.add(&r.errors, msg) }

func (r *Recorder) add(lines *[]string, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	*lines = append(*lines, msg)
}

// Returns a copy of the recorded informational lines.
func (r *Recorder) Infos() []string { return r.snapshot(r.infos) }

// Returns a copy of the recorded warnings.
func (r *Recorder) Warnings() []string { return r.snapshot(r.warns) }

// Returns a copy of the recorded errors.
func (r *Recorder) Errors() []string { return r.snapshot(r.errors) }

func (r *Recorder) snapshot(lines []string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), lines...)
}

// Reporter that drops everything.
type Discard struct{}

func (Discard) Info(string)  {}
func (Discard) Warn(string)  {}
func (Discard) Error(string) {}
