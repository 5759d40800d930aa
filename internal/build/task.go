package build

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/cruciblehq/nanobundle/internal/entry"
	"github.com/cruciblehq/nanobundle/internal/target"
)

// Extensions stripped from export paths before the output extension is
// appended ("./utils.js" builds to "utils.mjs", not "utils.js.mjs").
var scriptExtensions = map[string]bool{
	".js": true, ".mjs": true, ".cjs": true, ".jsx": true,
	".ts": true, ".mts": true, ".cts": true, ".tsx": true,
}

// One entry built for one target.
type Task struct {
	Entry      entry.Entry   // Entry being built.
	Target     target.Target // Environment it is built for.
	OutputFile string        // Absolute destination path.
}

// Returns e.g. `"./utils" [import] (node/module)`.
func (t Task) label() string {
	return fmt.Sprintf("%s (%s)", t.Entry, t.Target)
}

func (t Task) String() string {
	return t.label()
}

// Derives the output file of an entry for a target.
//
// The file name comes from the export path ("." is "index", "./utils" is
// "utils"), the extension from the format: ".mjs" for module, and for
// commonjs ".cjs" when the package defaults to module or ".js" otherwise.
// When the run spans several platforms the file is placed in a
// per-platform subdirectory of the output directory.
func OutputFile(e entry.Entry, t target.Target, opts Options, multiPlatform bool) string {
	dir := opts.OutDir
	if multiPlatform {
		dir = filepath.Join(dir, string(t.Platform))
	}
	return filepath.Join(dir, filepath.FromSlash(outputName(e.ExportPath))+Extension(t.Format, opts.DefaultFormat))
}

// Returns the output extension for a format given the package default.
func Extension(format, defaultFormat target.Format) string {
	if format == target.FormatModule {
		return ".mjs"
	}
	if defaultFormat == target.FormatModule {
		return ".cjs"
	}
	return ".js"
}

// Converts an export path to a slash-separated file name without extension.
func outputName(exportPath string) string {
	name := strings.TrimPrefix(exportPath, ".")
	name = strings.TrimPrefix(name, "/")
	if name == "" {
		return "index"
	}
	if ext := path.Ext(name); scriptExtensions[ext] {
		name = strings.TrimSuffix(name, ext)
	}
	return name
}

// Returns path relative to root when it lies inside it.
func displayPath(root, p string) string {
	if root == "" {
		return p
	}
	rel, err := filepath.Rel(root, p)
	if err != nil || strings.HasPrefix(rel, "..") {
		return p
	}
	return rel
}
