package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/cruciblehq/nanobundle/internal"
	"github.com/cruciblehq/nanobundle/internal/paths"
	"github.com/cruciblehq/nanobundle/internal/settings"
	"github.com/google/uuid"
)

// Represents the root command for nanobundle.
var RootCmd struct {
	Quiet   bool       `short:"q" help:"Suppress informational output."`
	Verbose bool       `short:"v" help:"Enable verbose output."`
	Debug   bool       `short:"d" help:"Enable debug output."`
	Cwd     string     `short:"C" default:"." type:"existingdir" env:"NANOBUNDLE_CWD" help:"Package directory." placeholder:"DIR"`
	Build   BuildCmd   `cmd:"" default:"withargs" help:"Build every export of the package."`
	Watch   WatchCmd   `cmd:"" help:"Build, then rebuild whenever a source file changes."`
	Plan    PlanCmd    `cmd:"" help:"Show the build tasks without running them."`
	Version VersionCmd `cmd:"" help:"Show version information."`
}

// Parses arguments, configures logging, and runs the selected subcommand.
func Execute() error {

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	envFiles, err := settings.LoadEnv(".")
	if err != nil {
		return err
	}

	s, err := settings.Load(settingsFile())
	if err != nil {
		return err
	}

	vars := kong.Vars{
		"version": internal.VersionString(),
	}
	for k, v := range s.Vars() {
		vars[k] = v
	}

	kongCtx := kong.Parse(&RootCmd,
		kong.Name(internal.Name),
		kong.Description("A zero-configuration bundler for npm packages.\n\nReads the build targets and entry points from package.json and bundles every export with esbuild."),
		kong.UsageOnError(),
		vars,
		kong.BindTo(ctx, (*context.Context)(nil)),
	)

	configureLogger()

	slog.Debug("settings loaded", "file", settingsFile(), "env", envFiles)

	return kongCtx.Run()
}

// Returns the settings file path, honouring NANOBUNDLE_CONFIG.
func settingsFile() string {
	if p := os.Getenv(settings.ConfigEnv); p != "" {
		return p
	}
	return paths.ConfigFile()
}

// Configures the global logger based on CLI flags.
func configureLogger() {
	if RootCmd.Debug {
		internal.SetDebug(true)
	}
	if RootCmd.Quiet {
		internal.SetQuiet(true)
	}
	if RootCmd.Verbose {
		internal.SetVerbose(true)
	}

	logger := slog.New(NewHandler(os.Stderr))
	if internal.IsDebug() || internal.IsVerbose() {
		logger = logger.With("run", uuid.NewString())
	}
	slog.SetDefault(logger)
}
