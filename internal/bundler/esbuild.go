package bundler

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/cruciblehq/nanobundle/internal/build"
	"github.com/cruciblehq/nanobundle/internal/paths"
	"github.com/cruciblehq/nanobundle/internal/target"
	"github.com/evanw/esbuild/pkg/api"
)

// Backend that bundles each task with the esbuild Go API.
type Esbuild struct{}

// Creates an esbuild backend.
func New() *Esbuild {
	return &Esbuild{}
}

// Bundles the task's entry and writes the output files.
//
// Cancelling ctx cancels the running esbuild build. Output is only written
// once the build succeeded and ctx is still live.
func (b *Esbuild) Build(ctx context.Context, task build.Task, opts build.Options) (*build.Artifact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bctx, cerr := api.Context(buildOptions(task, opts))
	if cerr != nil {
		return nil, bundleError(cerr.Errors)
	}
	defer bctx.Dispose()

	stop := context.AfterFunc(ctx, bctx.Cancel)
	defer stop()

	result := bctx.Rebuild()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(result.Errors) > 0 {
		return nil, bundleError(result.Errors)
	}

	meta, err := parseMetafile(result.Metafile)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBundle, err)
	}

	artifact := &build.Artifact{
		Inputs: meta.inputFiles(opts.Root),
	}
	if len(result.Warnings) > 0 {
		artifact.Warnings = formatMessages(result.Warnings, api.WarningMessage)
	}

	for _, out := range writeOrder(result.OutputFiles, task.OutputFile) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := writeFile(out.Path, out.Contents, paths.DefaultFileMode); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrWrite, err)
		}
		artifact.Files = append(artifact.Files, out.Path)
		if out.Path == task.OutputFile {
			artifact.Bytes = len(out.Contents)
		}
	}

	slog.Debug("bundled", "entry", task.Entry.SourceFile, "output", task.OutputFile, "inputs", len(artifact.Inputs))

	return artifact, nil
}

// Returns the output files with the bundle last, so a bundle is never in
// place without the source map it links to.
func writeOrder(files []api.OutputFile, bundle string) []api.OutputFile {
	ordered := make([]api.OutputFile, 0, len(files))
	var main []api.OutputFile
	for _, f := range files {
		if f.Path == bundle {
			main = append(main, f)
			continue
		}
		ordered = append(ordered, f)
	}
	return append(ordered, main...)
}

// Maps a task to esbuild options.
func buildOptions(task build.Task, opts build.Options) api.BuildOptions {
	options := api.BuildOptions{
		EntryPoints:   []string{task.Entry.SourceFile},
		Outfile:       task.OutputFile,
		AbsWorkingDir: opts.Root,
		Bundle:        true,
		Write:         false,
		Metafile:      true,
		LogLevel:      api.LogLevelSilent,
		Format:        esbuildFormat(task.Target.Format),
		Platform:      esbuildPlatform(task.Target.Platform),
		External:      externals(opts.Externals),
	}

	if task.Target.Platform == target.PlatformNeutral {
		options.MainFields = []string{"module", "main"}
	}

	if opts.Minify {
		options.MinifyWhitespace = true
		options.MinifyIdentifiers = true
		options.MinifySyntax = true
	}

	if opts.Sourcemap {
		options.Sourcemap = api.SourceMapLinked
	}

	return options
}

func esbuildFormat(f target.Format) api.Format {
	if f == target.FormatModule {
		return api.FormatESModule
	}
	return api.FormatCommonJS
}

func esbuildPlatform(p target.Platform) api.Platform {
	switch p {
	case target.PlatformNode:
		return api.PlatformNode
	case target.PlatformBrowser:
		return api.PlatformBrowser
	}
	return api.PlatformNeutral
}

// Marks each package and its subpaths as external.
func externals(names []string) []string {
	if len(names) == 0 {
		return nil
	}
	out := make([]string, 0, 2*len(names))
	for _, name := range names {
		out = append(out, name, name+"/*")
	}
	return out
}

// Formats esbuild diagnostics without terminal colors, one per message.
func formatMessages(msgs []api.Message, kind api.MessageKind) []string {
	formatted := api.FormatMessages(msgs, api.FormatMessagesOptions{Kind: kind})
	for i, m := range formatted {
		formatted[i] = strings.TrimSpace(m)
	}
	return formatted
}

// Wraps esbuild errors in [ErrBundle].
func bundleError(msgs []api.Message) error {
	return fmt.Errorf("%w: %s", ErrBundle, strings.Join(formatMessages(msgs, api.ErrorMessage), "\n\n"))
}

// Returns path made absolute against root.
func absPath(root, p string) string {
	p = filepath.FromSlash(p)
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}
