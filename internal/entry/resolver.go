package entry

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Source extensions tried, in order, when a manifest path names a build
// output rather than a source module.
var SourceExtensions = []string{".ts", ".tsx", ".mts", ".cts", ".js", ".jsx", ".mjs", ".cjs"}

// Maps a manifest path to the absolute source file that implements it.
type Resolver interface {
	Resolve(path string) (string, error)
}

// Adapts a function to the [Resolver] interface.
type ResolverFunc func(path string) (string, error)

func (f ResolverFunc) Resolve(path string) (string, error) {
	return f(path)
}

// Resolves manifest paths against a package directory on disk.
//
// A path under OutDir (e.g., "./dist/utils.mjs") names a build output: it is
// mapped into SourceDir and resolved by trying each of [SourceExtensions] in
// place of its extension ("src/utils.ts"). Such a path never resolves to a
// file inside OutDir, even when a previous build left one there. Any other
// path naming an existing file resolves to itself; otherwise the extension
// is swapped in place, so "./src/index.js" resolves to "src/index.ts".
type FileResolver struct {
	Root      string // Absolute package directory.
	SourceDir string // Source directory relative to Root (e.g., "src").
	OutDir    string // Output directory relative to Root (e.g., "dist").
}

func (r FileResolver) Resolve(path string) (string, error) {
	abs := path
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(r.Root, filepath.FromSlash(path))
	}

	if r.OutDir != "" {
		if rel, ok := within(filepath.Join(r.Root, r.OutDir), abs); ok {
			if r.SourceDir != "" {
				if src, ok := trySourceExtensions(filepath.Join(r.Root, r.SourceDir, rel)); ok {
					return src, nil
				}
			}
			return "", fmt.Errorf("%w: %s (no source in %s)", fs.ErrNotExist, path, r.SourceDir)
		}
	}

	if isFile(abs) {
		return abs, nil
	}

	if src, ok := trySourceExtensions(abs); ok {
		return src, nil
	}

	return "", fmt.Errorf("%w: %s", fs.ErrNotExist, path)
}

// Returns p relative to dir when p lies strictly inside dir.
func within(dir, p string) (string, bool) {
	rel, err := filepath.Rel(dir, p)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return rel, true
}

// Replaces the extension of file with each source extension and returns the
// first that exists.
func trySourceExtensions(file string) (string, bool) {
	base := strings.TrimSuffix(file, filepath.Ext(file))
	for _, ext := range SourceExtensions {
		if candidate := base + ext; isFile(candidate) {
			return candidate, true
		}
	}
	return "", false
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
