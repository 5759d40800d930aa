package target

import (
	"errors"
	"path"

	"github.com/cruciblehq/nanobundle/internal/manifest"
	"github.com/cruciblehq/nanobundle/internal/report"
)

// Resolves the ordered target set for a manifest.
//
// A manifest without any target information (no "engines.node", "exports",
// "main" or "module") is not fatal: the fallback to [DefaultTargets] is
// reported as a warning and the defaults are returned. Every other
// [ConfigError] is returned as is.
func Resolve(m *manifest.Manifest, r report.Reporter) ([]Target, error) {
	targets, err := Infer(m)
	if errors.Is(err, ErrNoTargetInfo) {
		defaults := DefaultTargets()
		report.Warnf(r, "no target information in package.json (engines.node, exports, main or module), building defaults: %s", Join(defaults))
		return defaults, nil
	}
	if err != nil {
		return nil, err
	}
	return targets, nil
}

// Infers the target set from the manifest without any fallback.
//
// Returns a [ConfigError] wrapping [ErrNoTargetInfo] when nothing in the
// manifest describes a target.
func Infer(m *manifest.Manifest) ([]Target, error) {
	if err := validateType(m.Type); err != nil {
		return nil, err
	}

	nodeEngine, nodeDeclared := m.Engine("node")
	if nodeDeclared && nodeEngine == "" {
		if _, ok := m.Engines["node"].(string); ok {
			return nil, &ConfigError{Field: "engines.node", Err: ErrEmptyEngine}
		}
		return nil, &ConfigError{Field: "engines.node", Err: ErrInvalidEngine}
	}

	if !nodeDeclared && m.Exports == nil && m.Main == "" && m.Module == "" {
		return nil, &ConfigError{Field: "exports", Err: ErrNoTargetInfo}
	}

	conds := m.ConditionNames()

	var platforms []Platform
	if nodeDeclared || conds[string(PlatformNode)] {
		platforms = append(platforms, PlatformNode)
	}
	if m.Browser || conds[string(PlatformBrowser)] {
		platforms = append(platforms, PlatformBrowser)
	}
	if len(platforms) == 0 {
		platforms = append(platforms, PlatformNeutral)
	}

	formats := inferFormats(m, conds)

	var targets []Target
	for _, p := range platforms {
		for _, f := range formats {
			targets = append(targets, New(p, f))
		}
	}
	sortTargets(targets)

	return targets, nil
}

// Returns the package default format declared by "type".
func DefaultFormat(m *manifest.Manifest) Format {
	if m.Type == "module" {
		return FormatModule
	}
	return FormatCommonJS
}

// Collects the formats implied by export conditions and legacy fields.
//
// Exports that name neither "require" nor "import" contribute the package
// default format. A manifest that implies no format at all (only
// "engines.node") builds both.
func inferFormats(m *manifest.Manifest, conds map[string]bool) []Format {
	set := make(map[Format]bool)

	if conds[ConditionRequire] {
		set[FormatCommonJS] = true
	}
	if conds[ConditionImport] {
		set[FormatModule] = true
	}
	if m.Exports != nil && len(set) == 0 {
		set[DefaultFormat(m)] = true
	}

	if m.Main != "" {
		if isModuleFile(m.Main, m.Type) {
			set[FormatModule] = true
		} else {
			set[FormatCommonJS] = true
		}
	}
	if m.Module != "" {
		set[FormatModule] = true
	}

	if len(set) == 0 {
		return append([]Format(nil), formatOrder...)
	}

	var formats []Format
	for _, f := range formatOrder {
		if set[f] {
			formats = append(formats, f)
		}
	}
	return formats
}

// Returns true if a file is loaded as ESM, judged by its extension and the
// package "type".
func isModuleFile(file, pkgType string) bool {
	switch path.Ext(file) {
	case ".mjs", ".mts":
		return true
	case ".cjs", ".cts":
		return false
	}
	return pkgType == "module"
}

func validateType(t string) error {
	switch t {
	case "", "module", "commonjs":
		return nil
	}
	return &ConfigError{Field: "type", Err: ErrInvalidType}
}
