package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadMissingFile(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Defaults(), s)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yaml", "outDir: build\nminify: true\nconcurrency: 3\n")

	s, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, Settings{
		OutDir:      "build",
		SourceDir:   "src",
		Minify:      true,
		Concurrency: 3,
		Cache:       true,
	}, s)
}

func TestLoadExpandsEnvironment(t *testing.T) {
	t.Setenv("NB_TEST_OUT", "out")
	path := writeFile(t, t.TempDir(), "config.yaml", "outDir: ${NB_TEST_OUT}/lib\n")

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "out/lib", s.OutDir)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		err     error
	}{
		{"malformed", "outDir: [", ErrRead},
		{"wrong type", "concurrency: many\n", ErrRead},
		{"negative concurrency", "concurrency: -1\n", ErrInvalid},
		{"empty out dir", "outDir: \"\"\n", ErrInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "config.yaml", tt.content)

			s, err := Load(path)
			assert.ErrorIs(t, err, tt.err)
			assert.Equal(t, Defaults(), s)
		})
	}
}

func TestVars(t *testing.T) {
	vars := Settings{OutDir: "dist", SourceDir: "src", Sourcemap: true, Concurrency: 2}.Vars()

	assert.Equal(t, "dist", vars["out_dir"])
	assert.Equal(t, "src", vars["source_dir"])
	assert.Equal(t, "false", vars["minify"])
	assert.Equal(t, "true", vars["sourcemap"])
	assert.Equal(t, "2", vars["concurrency"])
	assert.Equal(t, "false", vars["cache"])
}

func TestLoadEnvPrecedence(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".env", "NB_TEST_A=env\nNB_TEST_B=env\nNB_TEST_C=env\n")
	writeFile(t, dir, ".env.local", "NB_TEST_A=local\n")

	t.Setenv("NB_TEST_C", "process")
	// Registers cleanup for variables the loader sets.
	t.Setenv("NB_TEST_A", "")
	t.Setenv("NB_TEST_B", "")
	os.Unsetenv("NB_TEST_A")
	os.Unsetenv("NB_TEST_B")

	loaded, err := LoadEnv(dir)
	require.NoError(t, err)

	assert.Equal(t, []string{filepath.Join(dir, ".env.local"), filepath.Join(dir, ".env")}, loaded)
	assert.Equal(t, "local", os.Getenv("NB_TEST_A"))
	assert.Equal(t, "env", os.Getenv("NB_TEST_B"))
	assert.Equal(t, "process", os.Getenv("NB_TEST_C"))
}

func TestLoadEnvNoFiles(t *testing.T) {
	loaded, err := LoadEnv(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, loaded)
}
