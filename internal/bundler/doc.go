// Package bundler compiles build tasks with esbuild.
//
// [Esbuild] implements [build.Backend]. Each task runs one in-process esbuild
// build with the task's entry as the single entry point, the target's
// platform and module format, and the package's dependencies marked
// external. esbuild never writes to disk itself: its output files are
// collected in memory and written with a temp-file-and-rename, so a failed
// or cancelled task leaves any previous output untouched.
//
// The build metafile is decoded to report the source files read, which the
// build cache uses to fingerprint a task.
//
// Example usage:
//
//	plan, err := build.NewPlan(entries, targets, opts, reporter)
//	if err != nil {
//	    return err
//	}
//
//	summary := build.Run(ctx, plan, bundler.New(), reporter)
//	os.Exit(summary.ExitCode)
package bundler
