package target

import (
	"slices"
	"strings"
)

// Runtime environment an artifact is built for.
type Platform string

const (
	PlatformNode    Platform = "node"
	PlatformBrowser Platform = "browser"
	PlatformNeutral Platform = "neutral"
)

// Module format of an artifact.
type Format string

const (
	FormatCommonJS Format = "commonjs"
	FormatModule   Format = "module"
)

// Condition names shared by targets.
const (
	ConditionDefault = "default"
	ConditionImport  = "import"
	ConditionRequire = "require"
	ConditionTypes   = "types"
)

var (
	platformOrder = []Platform{PlatformNode, PlatformBrowser, PlatformNeutral}
	formatOrder   = []Format{FormatCommonJS, FormatModule}
)

// A (platform, format) build environment.
type Target struct {
	Platform   Platform // Runtime environment.
	Format     Format   // Module format.
	Conditions []string // Condition names that select this target.
}

// Creates a target and computes its condition names.
//
// Every target answers to "default" and to the condition of its format
// ("require" or "import"). Node and browser targets also answer to their
// platform name.
func New(platform Platform, format Format) Target {
	conds := []string{formatCondition(format)}
	if platform != PlatformNeutral {
		conds = append(conds, string(platform))
	}
	conds = append(conds, ConditionDefault)

	return Target{
		Platform:   platform,
		Format:     format,
		Conditions: conds,
	}
}

// Returns the documented fallback: commonjs and module for the neutral
// platform.
func DefaultTargets() []Target {
	return []Target{
		New(PlatformNeutral, FormatCommonJS),
		New(PlatformNeutral, FormatModule),
	}
}

// Returns true if the target answers to every given condition. An empty
// condition path matches every target.
func (t Target) Matches(conditions []string) bool {
	for _, c := range conditions {
		if !slices.Contains(t.Conditions, c) {
			return false
		}
	}
	return true
}

// Returns "platform/format".
func (t Target) String() string {
	return string(t.Platform) + "/" + string(t.Format)
}

// Returns a comma-separated list of targets.
func Join(targets []Target) string {
	names := make([]string, len(targets))
	for i, t := range targets {
		names[i] = t.String()
	}
	return strings.Join(names, ", ")
}

// Returns the set of distinct platforms in targets, in canonical order.
func Platforms(targets []Target) []Platform {
	var out []Platform
	for _, p := range platformOrder {
		for _, t := range targets {
			if t.Platform == p {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

func formatCondition(f Format) string {
	if f == FormatModule {
		return ConditionImport
	}
	return ConditionRequire
}

// Orders targets commonjs before module, then node, browser, neutral.
func sortTargets(targets []Target) {
	slices.SortStableFunc(targets, func(a, b Target) int {
		if d := slices.Index(formatOrder, a.Format) - slices.Index(formatOrder, b.Format); d != 0 {
			return d
		}
		return slices.Index(platformOrder, a.Platform) - slices.Index(platformOrder, b.Platform)
	})
}
