package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/cruciblehq/nanobundle/internal/build"
	"github.com/cruciblehq/nanobundle/internal/bundler"
	"github.com/cruciblehq/nanobundle/internal/entry"
	"github.com/cruciblehq/nanobundle/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testFlags = BuildFlags{
	OutDir:    "dist",
	SourceDir: "src",
}

// Creates a package directory with the given files and returns its path.
func writePackage(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	}
	return root
}

// Package with an import/require pair over one TypeScript source.
func dualPackage(t *testing.T) string {
	return writePackage(t, map[string]string{
		"package.json": `{
			"name": "demo",
			"source": "src/index.ts",
			"exports": {
				".": {
					"import": "./dist/index.mjs",
					"require": "./dist/index.js"
				}
			},
			"dependencies": {"react": "^18.0.0"}
		}`,
		"src/index.ts": "import React from 'react';\nexport const version: string = React.version;\n",
	})
}

// Backend that counts calls and writes nothing.
func countingBackend(calls *atomic.Int32, fail func(build.Task) error) build.Backend {
	return build.BackendFunc(func(ctx context.Context, task build.Task, opts build.Options) (*build.Artifact, error) {
		calls.Add(1)
		if fail != nil {
			if err := fail(task); err != nil {
				return nil, err
			}
		}
		return &build.Artifact{Files: []string{task.OutputFile}}, nil
	})
}

func TestRunBuildBundlesEveryTarget(t *testing.T) {
	root := dualPackage(t)
	var r report.Recorder

	code, err := runBuild(context.Background(), root, testFlags, bundler.New(), &r)
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Empty(t, r.Errors())

	cjs, err := os.ReadFile(filepath.Join(root, "dist", "index.js"))
	require.NoError(t, err)
	assert.Contains(t, string(cjs), `require("react")`)

	esm, err := os.ReadFile(filepath.Join(root, "dist", "index.mjs"))
	require.NoError(t, err)
	assert.Contains(t, string(esm), `from "react"`)

	infos := r.Infos()
	require.NotEmpty(t, infos)
	assert.True(t, strings.HasPrefix(infos[len(infos)-1], "Done in "), infos[len(infos)-1])
}

func TestRunBuildSkipsUnchangedTasks(t *testing.T) {
	root := dualPackage(t)
	flags := testFlags
	flags.Cache = true
	flags.CacheFile = filepath.Join(t.TempDir(), "cache.db")

	var first report.Recorder
	code, err := runBuild(context.Background(), root, flags, bundler.New(), &first)
	require.NoError(t, err)
	require.Equal(t, 0, code)

	var second report.Recorder
	code, err = runBuild(context.Background(), root, flags, bundler.New(), &second)
	require.NoError(t, err)
	require.Equal(t, 0, code)

	unchanged := 0
	for _, line := range second.Infos() {
		if strings.HasPrefix(line, "unchanged ") {
			unchanged++
		}
	}
	assert.Equal(t, 2, unchanged)
}

func TestPlanIsStableAcrossBuilds(t *testing.T) {
	root := dualPackage(t)

	before, err := preparePlan(root, testFlags, report.Discard{})
	require.NoError(t, err)

	code, err := runBuild(context.Background(), root, testFlags, bundler.New(), report.Discard{})
	require.NoError(t, err)
	require.Equal(t, 0, code)
	require.FileExists(t, filepath.Join(root, "dist", "index.mjs"))

	after, err := preparePlan(root, testFlags, report.Discard{})
	require.NoError(t, err)

	assert.Equal(t, before.Tasks, after.Tasks)
	for _, task := range after.Tasks {
		assert.Equal(t, filepath.Join(root, "src", "index.ts"), task.Entry.SourceFile)
	}
}

func TestRunBuildConflictBuildsNothing(t *testing.T) {
	root := writePackage(t, map[string]string{
		"package.json": `{
			"source": "src/index.ts",
			"exports": {".": "./src/index.ts", "./index": "./src/index.ts"}
		}`,
		"src/index.ts": "export {};\n",
	})
	var calls atomic.Int32

	code, err := runBuild(context.Background(), root, testFlags, countingBackend(&calls, nil), report.Discard{})

	require.ErrorIs(t, err, build.ErrConflict)
	assert.Equal(t, 1, code)
	assert.Zero(t, calls.Load())
}

func TestRunBuildMissingSource(t *testing.T) {
	root := writePackage(t, map[string]string{
		"package.json": `{"name": "demo", "main": "./dist/index.js"}`,
	})
	var calls atomic.Int32

	_, err := runBuild(context.Background(), root, testFlags, countingBackend(&calls, nil), report.Discard{})

	require.ErrorIs(t, err, entry.ErrMissingSource)
	assert.Zero(t, calls.Load())
}

func TestRunBuildMissingManifest(t *testing.T) {
	var calls atomic.Int32
	_, err := runBuild(context.Background(), t.TempDir(), testFlags, countingBackend(&calls, nil), report.Discard{})
	assert.Error(t, err)
}

func TestRunBuildReportsFailedTasks(t *testing.T) {
	root := dualPackage(t)
	var calls atomic.Int32
	backend := countingBackend(&calls, func(task build.Task) error {
		if strings.HasSuffix(task.OutputFile, ".mjs") {
			return errors.New("syntax error")
		}
		return nil
	})
	var r report.Recorder

	code, err := runBuild(context.Background(), root, testFlags, backend, &r)

	require.NoError(t, err)
	assert.Equal(t, 1, code)
	assert.Equal(t, int32(2), calls.Load())
	assert.Len(t, r.Errors(), 2)
}

func TestRunBuildWritesMetrics(t *testing.T) {
	root := dualPackage(t)
	flags := testFlags
	flags.MetricsFile = filepath.Join(t.TempDir(), "nanobundle.prom")
	var calls atomic.Int32

	code, err := runBuild(context.Background(), root, flags, countingBackend(&calls, nil), report.Discard{})
	require.NoError(t, err)
	require.Equal(t, 0, code)

	data, err := os.ReadFile(flags.MetricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "nanobundle_task_results_total")
	assert.Contains(t, string(data), `outcome="success"`)
}

func TestPrintPlan(t *testing.T) {
	root := writePackage(t, map[string]string{
		"package.json": `{
			"source": "src/index.ts",
			"engines": {"node": ">=18"},
			"exports": {
				".": {"node": "./src/index.ts", "default": "./src/index.ts"},
				"./worker": {"worker": "./src/worker.ts"}
			}
		}`,
		"src/index.ts":  "export {};\n",
		"src/worker.ts": "export {};\n",
	})

	plan, err := preparePlan(root, testFlags, report.Discard{})
	require.NoError(t, err)

	var buf bytes.Buffer
	printPlan(&buf, plan)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, []string{
		`"." [node] (node/commonjs) -> ` + filepath.Join("dist", "index.js"),
		`"." [default] (skipped)`,
		`"./worker" [worker] (skipped)`,
	}, lines)
}
