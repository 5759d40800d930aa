package cli

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/cruciblehq/nanobundle/internal"
	"github.com/cruciblehq/nanobundle/internal/build"
	"github.com/cruciblehq/nanobundle/internal/cache"
	"github.com/cruciblehq/nanobundle/internal/entry"
	"github.com/cruciblehq/nanobundle/internal/manifest"
	"github.com/cruciblehq/nanobundle/internal/metrics"
	"github.com/cruciblehq/nanobundle/internal/paths"
	"github.com/cruciblehq/nanobundle/internal/report"
	"github.com/cruciblehq/nanobundle/internal/target"
	"github.com/davecgh/go-spew/spew"
	"github.com/prometheus/client_golang/prometheus"
)

// Flags shared by the build, watch and plan commands.
type BuildFlags struct {
	OutDir      string `short:"o" default:"${out_dir}" env:"NANOBUNDLE_OUT_DIR" help:"Output directory, relative to the package." placeholder:"DIR"`
	SourceDir   string `default:"${source_dir}" env:"NANOBUNDLE_SOURCE_DIR" help:"Source directory, relative to the package." placeholder:"DIR"`
	Minify      bool   `default:"${minify}" negatable:"" env:"NANOBUNDLE_MINIFY" help:"Minify output."`
	Sourcemap   bool   `default:"${sourcemap}" negatable:"" env:"NANOBUNDLE_SOURCEMAP" help:"Emit linked source maps."`
	Concurrency int    `short:"j" default:"${concurrency}" env:"NANOBUNDLE_CONCURRENCY" help:"Maximum parallel build tasks, 0 for one per CPU."`
	Cache       bool   `default:"${cache}" negatable:"" env:"NANOBUNDLE_CACHE" help:"Skip tasks whose inputs are unchanged."`
	CacheFile   string `hidden:"" env:"NANOBUNDLE_CACHE_FILE" help:"Override the build cache location." placeholder:"PATH"`
	MetricsFile string `env:"NANOBUNDLE_METRICS_FILE" help:"Write build metrics in Prometheus text format." placeholder:"PATH"`
}

// Loads the package at dir and plans its build.
//
// Loading, target resolution, entry resolution and planning all happen
// before any task runs; an error from any of them means nothing is built.
func preparePlan(dir string, flags BuildFlags, r report.Reporter) (*build.Plan, error) {
	m, err := manifest.Load(dir)
	if err != nil {
		return nil, err
	}

	resolver := entry.FileResolver{
		Root:      m.Dir,
		SourceDir: flags.SourceDir,
		OutDir:    flags.OutDir,
	}

	source, err := entry.DefaultSource(m, resolver)
	if err != nil {
		return nil, err
	}

	targets, err := target.Resolve(m, r)
	if err != nil {
		return nil, err
	}

	entries, err := entry.Resolve(m, entry.Options{SourceFile: source, Resolver: resolver})
	if err != nil {
		return nil, err
	}

	opts := build.Options{
		Root:          m.Dir,
		SourceRoot:    filepath.Join(m.Dir, flags.SourceDir),
		OutDir:        filepath.Join(m.Dir, flags.OutDir),
		DefaultFormat: target.DefaultFormat(m),
		Externals:     m.Externals(),
		Minify:        flags.Minify,
		Sourcemap:     flags.Sourcemap,
	}

	plan, err := build.NewPlan(entries, targets, opts, r)
	if err != nil {
		return nil, err
	}

	slog.Debug("build planned", "package", m.Name, "targets", target.Join(targets), "entries", len(entries), "tasks", len(plan.Tasks))
	if internal.IsDebug() {
		slog.Debug("plan", "dump", dump(plan))
	}

	return plan, nil
}

// Plans and runs a build of the package at dir and returns its exit code.
func runBuild(ctx context.Context, dir string, flags BuildFlags, backend build.Backend, r report.Reporter) (int, error) {
	started := time.Now()

	plan, err := preparePlan(dir, flags, r)
	if err != nil {
		return 1, err
	}

	opts := []build.RunOption{build.WithConcurrency(flags.Concurrency)}

	if flags.Cache {
		store, err := openCache(flags.CacheFile)
		if err != nil {
			slog.Warn("building without cache", "error", err)
		} else {
			defer store.Close()
			opts = append(opts, build.WithCache(store))
		}
	}

	var recorder *metrics.PrometheusRecorder
	if flags.MetricsFile != "" {
		recorder = metrics.NewPrometheusRecorder(prometheus.NewRegistry())
		opts = append(opts, build.WithRecorder(recorder))
	}

	summary := build.Run(ctx, plan, backend, r, opts...)

	if recorder != nil {
		if err := recorder.WriteTextfile(flags.MetricsFile); err != nil {
			slog.Warn("failed to write metrics", "path", flags.MetricsFile, "error", err)
		}
	}

	elapsed := time.Since(started)
	report.Infof(r, "Done in %.1fms.", float64(elapsed.Microseconds())/1000)

	return summary.ExitCode, nil
}

func openCache(path string) (*cache.Store, error) {
	if path == "" {
		path = paths.CacheFile()
	}
	return cache.Open(path)
}

// Renders a value for debug output.
func dump(v any) string {
	cfg := spew.ConfigState{
		Indent:                  "  ",
		DisablePointerAddresses: true,
		DisableCapacities:       true,
		SortKeys:                true,
	}
	return cfg.Sdump(v)
}
