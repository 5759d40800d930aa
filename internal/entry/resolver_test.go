package entry

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, root string, rel string) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, nil, 0o644))
	return path
}

func TestFileResolver(t *testing.T) {
	root := t.TempDir()
	index := touch(t, root, "src/index.ts")
	utils := touch(t, root, "src/utils/index.tsx")
	plain := touch(t, root, "lib/plain.js")

	r := FileResolver{Root: root, SourceDir: "src", OutDir: "dist"}

	tests := []struct {
		name string
		path string
		want string
	}{
		{"existing file", "./lib/plain.js", plain},
		{"source path", "./src/index.ts", index},
		{"output mapped to source", "./dist/index.mjs", index},
		{"nested output mapped to source", "./dist/utils/index.cjs", utils},
		{"extension swapped in place", "./src/index.js", index},
		{"absolute path", index, index},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Resolve(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFileResolverMissing(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "src/index.ts")

	r := FileResolver{Root: root, SourceDir: "src", OutDir: "dist"}

	for _, p := range []string{"./dist/other.mjs", "./lib/index.js", "./src"} {
		_, err := r.Resolve(p)
		assert.ErrorIs(t, err, fs.ErrNotExist, p)
	}
}

func TestFileResolverPrefersExtensionOrder(t *testing.T) {
	root := t.TempDir()
	ts := touch(t, root, "src/index.ts")
	touch(t, root, "src/index.js")

	r := FileResolver{Root: root, SourceDir: "src", OutDir: "dist"}
	got, err := r.Resolve("./dist/index.cjs")
	require.NoError(t, err)
	assert.Equal(t, ts, got)
}

func TestFileResolverIgnoresPreviousOutput(t *testing.T) {
	root := t.TempDir()
	index := touch(t, root, "src/index.ts")
	touch(t, root, "dist/index.mjs")
	touch(t, root, "dist/index.js")
	touch(t, root, "dist/stale.mjs")

	r := FileResolver{Root: root, SourceDir: "src", OutDir: "dist"}

	for _, p := range []string{"./dist/index.mjs", "./dist/index.js"} {
		got, err := r.Resolve(p)
		require.NoError(t, err, p)
		assert.Equal(t, index, got, p)
	}

	_, err := r.Resolve("./dist/stale.mjs")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}
