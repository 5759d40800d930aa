package build

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cruciblehq/nanobundle/internal/entry"
	"github.com/cruciblehq/nanobundle/internal/report"
	"github.com/cruciblehq/nanobundle/internal/target"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Backend that records which outputs it was asked to build.
type fakeBackend struct {
	mu    sync.Mutex
	calls []string
	fail  map[string]error
	delay time.Duration
}

func (b *fakeBackend) Build(ctx context.Context, task Task, opts Options) (*Artifact, error) {
	b.mu.Lock()
	b.calls = append(b.calls, task.OutputFile)
	err := b.fail[task.OutputFile]
	b.mu.Unlock()

	if b.delay > 0 {
		time.Sleep(b.delay)
	}
	if err != nil {
		return nil, err
	}
	return &Artifact{Files: []string{task.OutputFile}, Bytes: 2048, Inputs: []string{task.Entry.SourceFile}}, nil
}

func (b *fakeBackend) Calls() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.calls...)
}

// Three subpaths built for a single neutral module target.
func threeTaskPlan(t *testing.T) *Plan {
	t.Helper()
	entries := []entry.Entry{
		e(".", "/pkg/src/index.ts", 0),
		e("./b", "/pkg/src/b.ts", 1),
		e("./c", "/pkg/src/c.ts", 2),
	}
	targets := []target.Target{target.New(target.PlatformNeutral, target.FormatModule)}

	plan, err := NewPlan(entries, targets, testOptions, report.Discard{})
	require.NoError(t, err)
	require.Len(t, plan.Tasks, 3)
	return plan
}

func TestRunSuccess(t *testing.T) {
	plan := threeTaskPlan(t)
	backend := &fakeBackend{}
	var r report.Recorder

	summary := Run(context.Background(), plan, backend, &r)

	assert.Equal(t, 0, summary.ExitCode)
	assert.Empty(t, summary.Failed())
	assert.ElementsMatch(t, outputs(plan.Tasks), backend.Calls())
	assert.Len(t, r.Infos(), 3)
	assert.Empty(t, r.Errors())
	assert.Contains(t, r.Infos()[0], "2.0 kB")
}

func TestRunDoesNotFailFast(t *testing.T) {
	plan := threeTaskPlan(t)
	boom := errors.New("Could not resolve \"left-pad\"")
	backend := &fakeBackend{fail: map[string]error{plan.Tasks[1].OutputFile: boom}}
	var r report.Recorder

	summary := Run(context.Background(), plan, backend, &r, WithConcurrency(1))

	assert.Equal(t, 1, summary.ExitCode)
	assert.Equal(t, outputs(plan.Tasks), backend.Calls())
	require.Len(t, summary.Results, 3)

	assert.NoError(t, summary.Results[0].Err)
	assert.NoError(t, summary.Results[2].Err)

	err := summary.Results[1].Err
	require.ErrorIs(t, err, ErrTask)
	require.ErrorIs(t, err, boom)
	var taskErr *TaskError
	require.ErrorAs(t, err, &taskErr)
	assert.Equal(t, "./b", taskErr.Task.Entry.ExportPath)

	assert.Len(t, r.Infos(), 2)
	errs := r.Errors()
	require.Len(t, errs, 2)
	assert.Contains(t, errs[0], `failed "./b" (neutral/module) -> dist/b.mjs: Could not resolve "left-pad"`)
	assert.Equal(t, "1 of 3 build tasks failed", errs[1])
}

func TestRunRespectsConcurrencyLimit(t *testing.T) {
	entries := make([]entry.Entry, 8)
	for i := range entries {
		entries[i] = e("./e"+string(rune('a'+i)), "/pkg/src/x.ts", i)
	}
	plan, err := NewPlan(entries, []target.Target{target.New(target.PlatformNode, target.FormatModule)}, testOptions, report.Discard{})
	require.NoError(t, err)

	var running, peak atomic.Int32
	backend := BackendFunc(func(ctx context.Context, task Task, opts Options) (*Artifact, error) {
		n := running.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		running.Add(-1)
		return &Artifact{}, nil
	})

	summary := Run(context.Background(), plan, backend, report.Discard{}, WithConcurrency(2))
	assert.Equal(t, 0, summary.ExitCode)
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestRunCancelledBeforeStart(t *testing.T) {
	plan := threeTaskPlan(t)
	backend := &fakeBackend{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary := Run(ctx, plan, backend, report.Discard{})

	assert.Equal(t, 1, summary.ExitCode)
	assert.Empty(t, backend.Calls())
	for _, res := range summary.Results {
		assert.ErrorIs(t, res.Err, context.Canceled)
	}
}

// Cache that reports every task as fresh and counts stores.
type staticCache struct {
	fresh  bool
	stored atomic.Int32
}

func (c *staticCache) Fresh(Task, Options) bool { return c.fresh }

func (c *staticCache) Store(Task, Options, *Artifact) error {
	c.stored.Add(1)
	return nil
}

func TestRunSkipsFreshTasks(t *testing.T) {
	plan := threeTaskPlan(t)
	backend := &fakeBackend{}
	cache := &staticCache{fresh: true}
	var r report.Recorder

	summary := Run(context.Background(), plan, backend, &r, WithCache(cache))

	assert.Equal(t, 0, summary.ExitCode)
	assert.Empty(t, backend.Calls())
	for _, res := range summary.Results {
		assert.True(t, res.Cached)
	}
	assert.Contains(t, r.Infos()[0], "unchanged")
}

func TestRunStoresBuiltTasks(t *testing.T) {
	plan := threeTaskPlan(t)
	backend := &fakeBackend{fail: map[string]error{plan.Tasks[0].OutputFile: errors.New("x")}}
	cache := &staticCache{}

	Run(context.Background(), plan, backend, report.Discard{}, WithCache(cache))

	assert.Equal(t, int32(2), cache.stored.Load())
}

func TestRunReportsBackendWarnings(t *testing.T) {
	plan := threeTaskPlan(t)
	backend := BackendFunc(func(ctx context.Context, task Task, opts Options) (*Artifact, error) {
		return &Artifact{Warnings: []string{"unused import"}}, nil
	})
	var r report.Recorder

	Run(context.Background(), plan, backend, &r)
	assert.Len(t, r.Warnings(), 3)
}

func TestRunEmptyPlan(t *testing.T) {
	summary := Run(context.Background(), &Plan{}, &fakeBackend{}, report.Discard{})
	assert.Equal(t, 0, summary.ExitCode)
	assert.Empty(t, summary.Results)
}
