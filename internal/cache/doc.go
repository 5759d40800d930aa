// Package cache skips build tasks whose inputs are unchanged.
//
// A [Store] keeps one record per output file in a bbolt database. The record
// holds a fingerprint of the task (entry, target, output path, build
// options and tool version) together with the contents of every source file
// the previous build read. A task is fresh when its outputs still exist and
// the fingerprint recomputed over the recorded inputs matches.
//
// Example usage:
//
//	store, err := cache.Open(paths.CacheFile())
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	summary := build.Run(ctx, plan, backend, reporter, build.WithCache(store))
package cache
