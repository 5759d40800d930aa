package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Name of the manifest file inside a package directory.
const Filename = "package.json"

// Read-only snapshot of the build-relevant fields of a package.json.
type Manifest struct {
	Dir              string         // Absolute directory containing the manifest.
	Name             string         // Package name.
	Type             string         // Declared default module format ("module", "commonjs" or empty).
	Source           string         // Source path of the default entry.
	Main             string         // Legacy CommonJS entry.
	Module           string         // Legacy ESM entry.
	Types            string         // Type declarations entry ("types" or "typings").
	Browser          bool           // Whether a "browser" field is present.
	Exports          Node           // Conditional exports tree, nil when absent.
	Dependencies     []string       // Dependency names in declaration order.
	PeerDependencies []string       // Peer dependency names in declaration order.
	Engines          map[string]any // Engine constraints as decoded JSON values.
}

// JSON shape of the fields read from package.json.
type rawManifest struct {
	Name             string          `json:"name"`
	Type             string          `json:"type"`
	Source           string          `json:"source"`
	Main             string          `json:"main"`
	Module           string          `json:"module"`
	Types            string          `json:"types"`
	Typings          string          `json:"typings"`
	Browser          json.RawMessage `json:"browser"`
	Exports          json.RawMessage `json:"exports"`
	Dependencies     json.RawMessage `json:"dependencies"`
	PeerDependencies json.RawMessage `json:"peerDependencies"`
	Engines          map[string]any  `json:"engines"`
}

// Reads and parses the package.json in dir.
//
// The returned manifest records the absolute directory it was read from.
func Load(dir string) (*Manifest, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}

	path := filepath.Join(abs, Filename)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, err
	}

	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	m.Dir = abs

	return m, nil
}

// Parses package.json contents. The Dir field is left empty.
func Parse(data []byte) (*Manifest, error) {
	var raw rawManifest
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	m := &Manifest{
		Name:    raw.Name,
		Type:    raw.Type,
		Source:  raw.Source,
		Main:    raw.Main,
		Module:  raw.Module,
		Types:   raw.Types,
		Browser: present(raw.Browser),
		Engines: raw.Engines,
	}
	if m.Types == "" {
		m.Types = raw.Typings
	}

	if present(raw.Exports) {
		n, err := decodeNode(raw.Exports)
		if err != nil {
			return nil, fmt.Errorf("%w: exports: %w", ErrMalformed, err)
		}
		m.Exports = n
	}

	var err error
	if m.Dependencies, err = dependencyNames(raw.Dependencies); err != nil {
		return nil, fmt.Errorf("%w: dependencies: %w", ErrMalformed, err)
	}
	if m.PeerDependencies, err = dependencyNames(raw.PeerDependencies); err != nil {
		return nil, fmt.Errorf("%w: peerDependencies: %w", ErrMalformed, err)
	}

	return m, nil
}

// Returns the package names excluded from bundling: dependencies followed by
// peer dependencies, without duplicates.
func (m *Manifest) Externals() []string {
	seen := make(map[string]bool)
	var names []string
	for _, list := range [][]string{m.Dependencies, m.PeerDependencies} {
		for _, name := range list {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	return names
}

// Returns the set of condition names used anywhere in the exports tree.
func (m *Manifest) ConditionNames() map[string]bool {
	names := make(map[string]bool)
	collectConditions(m.Exports, names)
	return names
}

func collectConditions(n Node, names map[string]bool) {
	b, ok := n.(*Branch)
	if !ok {
		return
	}
	for _, key := range b.Keys {
		if !IsSubpath(key) {
			names[key] = true
		}
		collectConditions(b.Values[key], names)
	}
}

// Returns the string value of engines[name] and whether it was declared.
// A declared value that is not a string yields ok with an empty string.
func (m *Manifest) Engine(name string) (value string, declared bool) {
	v, ok := m.Engines[name]
	if !ok {
		return "", false
	}
	s, _ := v.(string)
	return s, true
}

// Reports whether a raw JSON member was present and not null.
func present(raw json.RawMessage) bool {
	return len(raw) > 0 && string(raw) != "null"
}

func dependencyNames(raw json.RawMessage) ([]string, error) {
	if !present(raw) {
		return nil, nil
	}
	return objectKeys(raw)
}
