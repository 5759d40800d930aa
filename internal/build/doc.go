// Package build turns resolved entries and targets into build tasks and
// executes them.
//
// Planning pairs every export path with every target. For each pair the
// first entry in declaration order whose conditions the target answers to
// wins, so earlier conditions take precedence over later ones exactly as a
// runtime resolving the exports map would choose. Entries that win no pair
// are reported as dead. Every task's output path is then checked for
// collisions; a collision aborts the whole build before anything runs.
//
// Execution dispatches each task to a [Backend] on its own goroutine, up to
// a concurrency limit. A failing task never stops its siblings and is never
// retried; the run's exit code is zero only when every task succeeded.
//
// Example usage:
//
//	plan, err := build.NewPlan(entries, targets, build.Options{
//	    Root:      m.Dir,
//	    OutDir:    filepath.Join(m.Dir, "dist"),
//	    Externals: m.Externals(),
//	}, reporter)
//	if err != nil {
//	    return err
//	}
//
//	summary := build.Run(ctx, plan, backend, reporter, build.WithConcurrency(4))
//	os.Exit(summary.ExitCode)
package build
