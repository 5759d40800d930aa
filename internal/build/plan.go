package build

import (
	"log/slog"
	"slices"

	"github.com/cruciblehq/nanobundle/internal/entry"
	"github.com/cruciblehq/nanobundle/internal/report"
	"github.com/cruciblehq/nanobundle/internal/target"
)

// Validated set of tasks for one invocation.
type Plan struct {
	Tasks   []Task          // Tasks ordered by export path, then target.
	Dead    []entry.Entry   // Entries that won no target.
	Targets []target.Target // Targets the plan was derived for.
	Options Options         // Shared build settings.
}

// Derives the tasks for entries and targets and rejects output conflicts.
//
// Export paths are visited in the order of their first entry. For every
// export path and target, the first entry in declaration order whose
// conditions the target answers to is selected; later entries for the same
// pair are shadowed. Entries that are never selected are reported as
// warnings and listed in [Plan.Dead]. If two tasks compute the same output
// file a [ConflictError] naming every colliding pair is returned.
func NewPlan(entries []entry.Entry, targets []target.Target, opts Options, r report.Reporter) (*Plan, error) {
	multiPlatform := len(target.Platforms(targets)) > 1

	groups, order := groupByExportPath(entries)
	selected := make([]bool, len(entries))

	var tasks []Task
	for _, exportPath := range order {
		for _, t := range targets {
			for _, i := range groups[exportPath] {
				e := entries[i]
				if !t.Matches(e.Conditions) {
					continue
				}
				selected[i] = true
				tasks = append(tasks, Task{
					Entry:      e,
					Target:     t,
					OutputFile: OutputFile(e, t, opts, multiPlatform),
				})
				break
			}
		}
	}

	var dead []entry.Entry
	for i, e := range entries {
		if selected[i] {
			continue
		}
		dead = append(dead, e)
		if slices.ContainsFunc(targets, func(t target.Target) bool { return t.Matches(e.Conditions) }) {
			report.Warnf(r, "entry %s is shadowed by an earlier condition for every target it matches (%s), skipping", e, target.Join(targets))
		} else {
			report.Warnf(r, "entry %s matches no build target (%s), skipping", e, target.Join(targets))
		}
	}

	if err := checkConflicts(tasks); err != nil {
		return nil, err
	}

	slog.Debug("plan derived", "entries", len(entries), "targets", len(targets), "tasks", len(tasks), "dead", len(dead))

	return &Plan{
		Tasks:   tasks,
		Dead:    dead,
		Targets: targets,
		Options: opts,
	}, nil
}

// Groups entry indexes by export path, each group sorted by declaration
// order, and returns the export paths in order of first appearance.
func groupByExportPath(entries []entry.Entry) (map[string][]int, []string) {
	groups := make(map[string][]int)
	var order []string

	for i, e := range entries {
		if _, ok := groups[e.ExportPath]; !ok {
			order = append(order, e.ExportPath)
		}
		groups[e.ExportPath] = append(groups[e.ExportPath], i)
	}

	for _, idx := range groups {
		slices.SortStableFunc(idx, func(a, b int) int {
			return entries[a].Order - entries[b].Order
		})
	}

	return groups, order
}

// Returns a [ConflictError] when two tasks share an output file.
func checkConflicts(tasks []Task) error {
	first := make(map[string]int, len(tasks))
	var conflicts []Conflict

	for i, t := range tasks {
		j, ok := first[t.OutputFile]
		if !ok {
			first[t.OutputFile] = i
			continue
		}
		conflicts = append(conflicts, Conflict{
			OutputFile: t.OutputFile,
			First:      tasks[j],
			Second:     t,
		})
	}

	if len(conflicts) > 0 {
		return &ConflictError{Conflicts: conflicts}
	}
	return nil
}
