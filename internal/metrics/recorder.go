package metrics

import "time"

// Task result categories for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultFailed   ResultLabel = "failed"
	ResultCached   ResultLabel = "cached"
	ResultCanceled ResultLabel = "canceled"
)

// Observability hooks for build runs. Implementations must be safe for
// concurrent use.
type Recorder interface {
	ObserveTaskDuration(target string, d time.Duration)
	IncTaskResult(target string, result ResultLabel)
	ObserveBuildDuration(d time.Duration)
	IncBuildOutcome(outcome string) // success|failed
	SetConcurrency(n int)
}

// Recorder that does nothing.
type NoopRecorder struct{}

func (NoopRecorder) ObserveTaskDuration(string, time.Duration) {}
func (NoopRecorder) IncTaskResult(string, ResultLabel)         {}
func (NoopRecorder) ObserveBuildDuration(time.Duration)        {}
func (NoopRecorder) IncBuildOutcome(string)                    {}
func (NoopRecorder) SetConcurrency(int)                        {}
