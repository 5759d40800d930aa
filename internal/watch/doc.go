// Package watch reports batches of changed files under a package directory.
//
// A [Watcher] registers every directory below the root with fsnotify,
// skipping dependency and VCS directories and any configured output
// directories, and follows directories created later. Events are debounced:
// a burst of writes (editors commonly write a file several times per save)
// is delivered as one sorted batch once the tree has been quiet for the
// debounce interval. Batches are delivered synchronously, so a slow
// callback coalesces the changes that arrive meanwhile into the next batch.
//
// Example usage:
//
//	w, err := watch.New(root, watch.WithIgnore(outDir))
//	if err != nil {
//	    return err
//	}
//	defer w.Close()
//
//	return w.Run(ctx, func(ctx context.Context, changed []string) {
//	    rebuild(ctx)
//	})
package watch
