// Package target derives the build environments a package is compiled for.
//
// A [Target] pairs a platform (node, browser or neutral) with a module format
// (commonjs or module). Targets are inferred from the manifest: the
// "engines.node" and "browser" fields and the condition names used in
// "exports" select platforms, while "require"/"import" conditions and the
// legacy "main"/"module" fields select formats. Each target carries the
// condition names it answers to, which the build orchestrator matches
// against entry condition paths.
//
// When the manifest carries no target information at all, [Resolve] reports
// a warning and falls back to [DefaultTargets].
package target
