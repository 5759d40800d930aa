// Package entry flattens a package's conditional exports into build entries.
//
// The exports tree is walked depth first in declaration order. Every leaf
// becomes an [Entry] that records the subpath consumers import, the
// condition names taken to reach the leaf, and the absolute source file the
// leaf resolves to. The declaration order is kept on each entry because the
// first declared condition wins when several entries could serve the same
// target.
//
// A manifest without "exports" yields a single default entry backed by the
// "source" field. Branches under the "types" condition describe declaration
// files emitted by the TypeScript compiler and are skipped.
//
// Example usage:
//
//	resolver := entry.FileResolver{Root: m.Dir, SourceDir: "src", OutDir: "dist"}
//	src, err := entry.DefaultSource(m, resolver)
//	if err != nil {
//	    return err
//	}
//	entries, err := entry.Resolve(m, entry.Options{SourceFile: src, Resolver: resolver})
package entry
