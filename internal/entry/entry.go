package entry

import (
	"fmt"
	"log/slog"
	"path"
	"slices"
	"strings"

	"github.com/cruciblehq/nanobundle/internal/manifest"
	"github.com/cruciblehq/nanobundle/internal/target"
)

// Subpath of the default entry.
const DefaultExportPath = "."

// A public import path of the package and the source file backing it.
type Entry struct {
	ExportPath string   // Path consumers import (e.g., ".", "./utils").
	SourceFile string   // Absolute path of the source module.
	Conditions []string // Condition names leading to this entry, in declaration order.
	Order      int      // Declaration index across the whole exports tree.
}

// Returns a readable label such as `"./utils" [node require]`.
func (e Entry) String() string {
	if len(e.Conditions) == 0 {
		return fmt.Sprintf("%q", e.ExportPath)
	}
	return fmt.Sprintf("%q [%s]", e.ExportPath, strings.Join(e.Conditions, " "))
}

// Inputs to [Resolve].
type Options struct {
	SourceFile string   // Absolute source of the default entry.
	Resolver   Resolver // Maps manifest paths to source files.
}

// Flattens the manifest's exports into entries.
//
// Without "exports" a single default entry backed by opts.SourceFile is
// returned. Otherwise every leaf of the exports tree yields one entry, in
// declaration order. A leaf whose path does not resolve, a branch that is
// neither a string nor an object, or a map mixing subpaths and conditions is
// an [EntryError].
func Resolve(m *manifest.Manifest, opts Options) ([]Entry, error) {
	if m.Exports == nil {
		return []Entry{{ExportPath: DefaultExportPath, SourceFile: opts.SourceFile}}, nil
	}

	w := &walker{resolver: opts.Resolver}

	root, ok := m.Exports.(*manifest.Branch)
	if !ok || !hasSubpaths(root) {
		if err := w.walk(DefaultExportPath, m.Exports, nil); err != nil {
			return nil, err
		}
	} else {
		for _, key := range root.Keys {
			if !manifest.IsSubpath(key) {
				return nil, &EntryError{
					ExportPath: DefaultExportPath,
					Path:       key,
					Err:        fmt.Errorf("%w: subpath keys and condition keys cannot be mixed", ErrMalformed),
				}
			}
			if strings.Contains(key, "*") || strings.HasSuffix(key, "/") {
				return nil, &EntryError{ExportPath: key, Err: ErrPattern}
			}
			if err := w.walk(key, root.Get(key), nil); err != nil {
				return nil, err
			}
		}
	}

	if len(w.entries) == 0 {
		return nil, &EntryError{ExportPath: DefaultExportPath, Path: "exports", Err: ErrNoEntries}
	}
	return w.entries, nil
}

// Returns the absolute source of the default entry declared by "source".
func DefaultSource(m *manifest.Manifest, r Resolver) (string, error) {
	if m.Source == "" {
		return "", &EntryError{ExportPath: DefaultExportPath, Path: "source", Err: ErrMissingSource}
	}
	src, err := r.Resolve(m.Source)
	if err != nil {
		return "", &EntryError{ExportPath: DefaultExportPath, Path: m.Source, Err: fmt.Errorf("%w: %w", ErrMissingSource, err)}
	}
	return src, nil
}

// Accumulates entries during the recursive descent.
type walker struct {
	resolver Resolver
	entries  []Entry
}

// Descends into one node of a subpath's condition tree.
func (w *walker) walk(exportPath string, n manifest.Node, conds []string) error {
	switch n := n.(type) {
	case *manifest.Leaf:
		return w.leaf(exportPath, n, conds)

	case *manifest.Branch:
		for _, key := range n.Keys {
			if manifest.IsSubpath(key) {
				return &EntryError{
					ExportPath: exportPath,
					Conditions: conds,
					Path:       key,
					Err:        fmt.Errorf("%w: subpath nested under a condition", ErrMalformed),
				}
			}
			if key == target.ConditionTypes {
				slog.Debug("skipping type declarations", "export", exportPath, "conditions", conds)
				continue
			}
			if err := w.walk(exportPath, n.Get(key), append(slices.Clone(conds), key)); err != nil {
				return err
			}
		}
		return nil

	case *manifest.Invalid:
		return &EntryError{
			ExportPath: exportPath,
			Conditions: conds,
			Err:        fmt.Errorf("%w: condition value is a %s, want a path or an object", ErrMalformed, n.Kind),
		}
	}

	return &EntryError{ExportPath: exportPath, Conditions: conds, Err: ErrMalformed}
}

// Emits the entry for a terminal path.
func (w *walker) leaf(exportPath string, l *manifest.Leaf, conds []string) error {
	if l.Null {
		slog.Debug("subpath excluded", "export", exportPath, "conditions", conds)
		return nil
	}
	if l.Path == "" {
		return &EntryError{
			ExportPath: exportPath,
			Conditions: conds,
			Err:        fmt.Errorf("%w: empty path", ErrMalformed),
		}
	}

	if !isScript(l.Path) {
		slog.Debug("skipping non-script export", "export", exportPath, "path", l.Path)
		return nil
	}

	src, err := w.resolver.Resolve(l.Path)
	if err != nil {
		return &EntryError{
			ExportPath: exportPath,
			Conditions: conds,
			Path:       l.Path,
			Err:        fmt.Errorf("%w: %w", ErrUnresolvable, err),
		}
	}

	w.entries = append(w.entries, Entry{
		ExportPath: exportPath,
		SourceFile: src,
		Conditions: slices.Clone(conds),
		Order:      len(w.entries),
	})
	return nil
}

func hasSubpaths(b *manifest.Branch) bool {
	return slices.ContainsFunc(b.Keys, manifest.IsSubpath)
}

// Returns false for exported files the bundler does not produce, such as
// "./package.json" or type declarations.
func isScript(p string) bool {
	base := strings.ToLower(path.Base(p))
	for _, suffix := range []string{".d.ts", ".d.mts", ".d.cts"} {
		if strings.HasSuffix(base, suffix) {
			return false
		}
	}
	switch path.Ext(base) {
	case ".json", ".css", ".wasm", ".node":
		return false
	}
	return true
}
