package build

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/cruciblehq/nanobundle/internal/metrics"
	"github.com/cruciblehq/nanobundle/internal/report"
	"golang.org/x/sync/errgroup"
)

// Skips tasks whose inputs are unchanged since they were last built.
// Implementations must be safe for concurrent use.
type Cache interface {
	Fresh(task Task, opts Options) bool
	Store(task Task, opts Options, artifact *Artifact) error
}

// Outcome of one task.
type Result struct {
	Task     Task          // Task that ran.
	Artifact *Artifact     // Produced files, nil on failure.
	Err      error         // *TaskError on failure.
	Cached   bool          // Whether the task was skipped as unchanged.
	Duration time.Duration // Time spent in the backend.
}

// Aggregate outcome of a run.
type Summary struct {
	Results  []Result      // One result per task, in plan order.
	ExitCode int           // Zero iff every task succeeded.
	Duration time.Duration // Wall time of the run.
}

// Returns the failed results.
func (s *Summary) Failed() []Result {
	var failed []Result
	for _, r := range s.Results {
		if r.Err != nil {
			failed = append(failed, r)
		}
	}
	return failed
}

// Configures [Run].
type RunOption func(*runConfig)

type runConfig struct {
	concurrency int
	cache       Cache
	recorder    metrics.Recorder
}

// Limits the number of tasks running at once. Values below one select the
// number of CPUs.
func WithConcurrency(n int) RunOption {
	return func(c *runConfig) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// Consults and updates a cache around every task.
func WithCache(cache Cache) RunOption {
	return func(c *runConfig) { c.cache = cache }
}

// Records task and run metrics.
func WithRecorder(rec metrics.Recorder) RunOption {
	return func(c *runConfig) {
		if rec != nil {
			c.recorder = rec
		}
	}
}

// Executes every task of the plan and aggregates the outcome.
//
// Tasks run concurrently up to the configured limit and are reported in
// completion order. A failed task does not cancel or skip its siblings and
// is not retried. Once ctx is cancelled no further task is started; tasks
// not yet started fail with the context error. The returned summary holds
// results in plan order and a non-zero exit code if any task failed.
func Run(ctx context.Context, plan *Plan, backend Backend, r report.Reporter, opts ...RunOption) *Summary {
	cfg := runConfig{
		concurrency: runtime.NumCPU(),
		recorder:    metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	started := time.Now()
	cfg.recorder.SetConcurrency(cfg.concurrency)

	slog.Debug("dispatching tasks", "tasks", len(plan.Tasks), "concurrency", cfg.concurrency)

	results := make([]Result, len(plan.Tasks))

	var g errgroup.Group
	g.SetLimit(cfg.concurrency)

	for i, task := range plan.Tasks {
		g.Go(func() error {
			results[i] = execute(ctx, task, plan.Options, backend, cfg)
			reportResult(r, plan.Options.Root, results[i])
			return nil
		})
	}
	_ = g.Wait()

	summary := &Summary{
		Results:  results,
		Duration: time.Since(started),
	}

	outcome := "success"
	if failed := summary.Failed(); len(failed) > 0 {
		summary.ExitCode = 1
		outcome = "failed"
		report.Errorf(r, "%d of %d build tasks failed", len(failed), len(results))
	}

	cfg.recorder.ObserveBuildDuration(summary.Duration)
	cfg.recorder.IncBuildOutcome(outcome)

	return summary
}

// Runs one task against the backend, consulting the cache first.
func execute(ctx context.Context, task Task, opts Options, backend Backend, cfg runConfig) Result {
	label := task.Target.String()

	if err := ctx.Err(); err != nil {
		cfg.recorder.IncTaskResult(label, metrics.ResultCanceled)
		return Result{Task: task, Err: &TaskError{Task: task, Err: err}}
	}

	if cfg.cache != nil && cfg.cache.Fresh(task, opts) {
		cfg.recorder.IncTaskResult(label, metrics.ResultCached)
		return Result{Task: task, Cached: true}
	}

	started := time.Now()
	artifact, err := backend.Build(ctx, task, opts)
	elapsed := time.Since(started)
	cfg.recorder.ObserveTaskDuration(label, elapsed)

	if err != nil {
		result := metrics.ResultFailed
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			result = metrics.ResultCanceled
		}
		cfg.recorder.IncTaskResult(label, result)
		return Result{Task: task, Err: &TaskError{Task: task, Err: err}, Duration: elapsed}
	}

	cfg.recorder.IncTaskResult(label, metrics.ResultSuccess)

	if cfg.cache != nil {
		if err := cfg.cache.Store(task, opts, artifact); err != nil {
			slog.Warn("failed to update build cache", "output", task.OutputFile, "error", err)
		}
	}

	return Result{Task: task, Artifact: artifact, Duration: elapsed}
}

// Writes one line per task outcome, plus any backend warnings.
func reportResult(r report.Reporter, root string, res Result) {
	out := displayPath(root, res.Task.OutputFile)

	switch {
	case res.Err != nil:
		cause := res.Err
		var taskErr *TaskError
		if errors.As(res.Err, &taskErr) {
			cause = taskErr.Err
		}
		report.Errorf(r, "failed %s -> %s: %v", res.Task.label(), out, cause)
	case res.Cached:
		report.Infof(r, "unchanged %s -> %s", res.Task.label(), out)
	default:
		var size int
		if res.Artifact != nil {
			size = res.Artifact.Bytes
			for _, w := range res.Artifact.Warnings {
				report.Warnf(r, "%s: %s", res.Task.label(), w)
			}
		}
		report.Infof(r, "built %s -> %s (%s, %s)", res.Task.label(), out, formatBytes(size), res.Duration.Round(time.Millisecond))
	}
}

// Formats a byte count as B, kB or MB.
func formatBytes(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f kB", float64(n)/(1<<10))
	}
	return fmt.Sprintf("%d B", n)
}
