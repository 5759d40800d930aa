package main

import (
	"errors"
	"log/slog"
	"os"

	"github.com/cruciblehq/nanobundle/internal"
	"github.com/cruciblehq/nanobundle/internal/cli"
)

// The entry point for nanobundle.
//
// Initializes logging, displays startup information, and executes the root
// command. A failed build exits with its own code once its failures have
// been reported; any other error is logged and exits with code 1.
func main() {
	slog.SetDefault(slog.New(cli.NewHandler(os.Stderr)))

	slog.Debug("build", "version", internal.VersionString())

	slog.Debug("nanobundle is running",
		"pid", os.Getpid(),
		"cwd", cwd(),
		"args", os.Args,
	)

	if err := cli.Execute(); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		slog.Error(err.Error())
		os.Exit(1)
	}
}

// Returns the current working directory or "(unknown)".
func cwd() string {
	cwd, err := os.Getwd()
	if err != nil {
		return "(unknown)"
	}
	return cwd
}
