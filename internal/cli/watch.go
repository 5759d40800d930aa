package cli

import (
	"context"
	"path/filepath"
	"time"

	"github.com/cruciblehq/nanobundle/internal/build"
	"github.com/cruciblehq/nanobundle/internal/bundler"
	"github.com/cruciblehq/nanobundle/internal/report"
	"github.com/cruciblehq/nanobundle/internal/watch"
)

// Represents the 'nanobundle watch' command.
type WatchCmd struct {
	BuildFlags `embed:""`
	Debounce   time.Duration `default:"100ms" env:"NANOBUNDLE_DEBOUNCE" help:"Quiet period before rebuilding."`
}

// Executes the watch command.
//
// Builds once, then rebuilds the whole package after every batch of file
// changes until interrupted. Build failures are reported and watching
// continues.
func (c *WatchCmd) Run(ctx context.Context) error {
	return c.watch(ctx, RootCmd.Cwd, bundler.New(), report.NewLogger(nil))
}

func (c *WatchCmd) watch(ctx context.Context, dir string, backend build.Backend, r report.Reporter) error {
	root, err := filepath.Abs(dir)
	if err != nil {
		return err
	}

	w, err := watch.New(root,
		watch.WithDebounce(c.Debounce),
		watch.WithIgnore(filepath.Join(root, c.OutDir)),
		watch.WithIgnoreFiles(absPaths(c.MetricsFile, c.CacheFile)...),
	)
	if err != nil {
		return err
	}
	defer w.Close()

	rebuild := func(ctx context.Context) {
		if _, err := runBuild(ctx, root, c.BuildFlags, backend, r); err != nil {
			report.Errorf(r, "%v", err)
		}
	}

	rebuild(ctx)
	report.Infof(r, "watching %s for changes", root)

	return w.Run(ctx, func(ctx context.Context, changed []string) {
		report.Infof(r, "%d file(s) changed, rebuilding", len(changed))
		rebuild(ctx)
	})
}

// Returns the non-empty paths made absolute against the working directory,
// which is where they are written.
func absPaths(paths ...string) []string {
	var out []string
	for _, p := range paths {
		if p == "" {
			continue
		}
		if abs, err := filepath.Abs(p); err == nil {
			out = append(out, abs)
		}
	}
	return out
}
