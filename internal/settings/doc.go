// Package settings loads user defaults for build flags.
//
// Settings are layered. Built-in defaults are overridden by the user's
// config.yaml (see [paths.ConfigFile]); the result becomes the default value
// of the corresponding command-line flag, which in turn yields to its
// NANOBUNDLE_* environment variable and finally to the flag itself.
// Environment variables may be supplied in .env.local and .env files, which
// never override variables already set in the process environment.
//
// Example config.yaml:
//
//	outDir: build
//	sourceDir: lib
//	minify: true
//	sourcemap: true
//	concurrency: 4
//	cache: false
package settings
