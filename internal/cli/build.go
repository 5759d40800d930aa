package cli

import (
	"context"

	"github.com/cruciblehq/nanobundle/internal/bundler"
	"github.com/cruciblehq/nanobundle/internal/report"
)

// Represents the 'nanobundle build' command.
type BuildCmd struct {
	BuildFlags `embed:""`
}

// Executes the build command.
//
// Every task runs to completion even when others fail. A failed task makes
// the command exit with a non-zero code after all results are reported.
func (c *BuildCmd) Run(ctx context.Context) error {
	code, err := runBuild(ctx, RootCmd.Cwd, c.BuildFlags, bundler.New(), report.NewLogger(nil))
	if err != nil {
		return err
	}
	if code != 0 {
		return &ExitError{Code: code}
	}
	return nil
}
