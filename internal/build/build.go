package build

import (
	"context"

	"github.com/cruciblehq/nanobundle/internal/target"
)

// Shared build settings, identical for every task of a run.
type Options struct {
	Root          string        // Package directory, used to shorten paths in messages.
	SourceRoot    string        // Absolute source directory.
	OutDir        string        // Absolute output directory.
	DefaultFormat target.Format // Package default format, selects the commonjs extension.
	Externals     []string      // Package names excluded from bundling.
	Minify        bool          // Whether to minify output.
	Sourcemap     bool          // Whether to emit linked source maps.
}

// Compiles one task. Implementations must be safe for concurrent use and
// must not leave a partially written output file behind when ctx is
// cancelled.
type Backend interface {
	Build(ctx context.Context, task Task, opts Options) (*Artifact, error)
}

// Adapts a function to the [Backend] interface.
type BackendFunc func(ctx context.Context, task Task, opts Options) (*Artifact, error)

func (f BackendFunc) Build(ctx context.Context, task Task, opts Options) (*Artifact, error) {
	return f(ctx, task, opts)
}

// Files produced by a successful task.
type Artifact struct {
	Files    []string // Absolute paths written (bundle and source map).
	Bytes    int      // Size of the bundle in bytes.
	Inputs   []string // Absolute paths of the source files read.
	Warnings []string // Backend warnings, already formatted.
}
