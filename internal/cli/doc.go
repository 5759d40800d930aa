// Parses flags, configures logging and runs nanobundle commands.
//
// The tool accepts the following global flags:
//
//	-q, --quiet     Suppress informational output.
//	-v, --verbose   Enable verbose output.
//	-d, --debug     Enable debug output.
//	-C, --cwd       Package directory.
//
// Build flags take their defaults from the user settings file and may be
// overridden by NANOBUNDLE_* environment variables (also read from .env and
// .env.local in the working directory) and finally by the flags themselves.
// After parsing, the global logger is reconfigured to reflect the final
// level and verbosity before the command runs.
package cli
