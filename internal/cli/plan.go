package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cruciblehq/nanobundle/internal/build"
	"github.com/cruciblehq/nanobundle/internal/report"
)

// Represents the 'nanobundle plan' command.
type PlanCmd struct {
	BuildFlags `embed:""`
}

// Executes the plan command.
//
// Resolves targets and entries and prints one line per build task without
// compiling anything. Configuration errors and output conflicts are
// reported exactly as a build would report them.
func (c *PlanCmd) Run(ctx context.Context) error {
	plan, err := preparePlan(RootCmd.Cwd, c.BuildFlags, report.NewLogger(nil))
	if err != nil {
		return err
	}
	printPlan(os.Stdout, plan)
	return nil
}

// Writes one line per task and per dead entry.
func printPlan(w io.Writer, plan *build.Plan) {
	for _, t := range plan.Tasks {
		fmt.Fprintf(w, "%s -> %s\n", t, relPath(plan.Options.Root, t.OutputFile))
	}
	for _, e := range plan.Dead {
		fmt.Fprintf(w, "%s (skipped)\n", e)
	}
}

// Returns p relative to root when possible.
func relPath(root, p string) string {
	if rel, err := filepath.Rel(root, p); err == nil {
		return rel
	}
	return p
}
