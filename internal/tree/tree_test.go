package tree

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func paths(files []File) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.Path
	}
	return out
}

const sampleJS = `/**
 * A summary.
 */

/**
 * Say hi.
 *
 * @param {string} name
 */
exports.hi = function(name) {};
`

func TestDiscover(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"a.js":                  sampleJS,
		"sub/b.ts":              "/** B. */\n",
		"node_modules/dep/x.js": "",
		".cache/y.js":           "",
		".eslintrc.js":          "",
		"skip.js":               "",
		"notes.txt":             "",
		"docs/out.js":           "",
		".npmignore":            "skip.js\n",
	})

	files, err := Discover(root, "", filepath.Join(root, "docs"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a.js", "sub/b.ts"}, paths(files))
	assert.Equal(t, "typescript", files[1].Language.Name)
}

func TestDiscoverIgnoreFile(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"a.js":       "",
		"gen/b.js":   "",
		"custom.txt": "gen/\n",
		".npmignore": "a.js\n",
	})

	files, err := Discover(root, "custom.txt", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.js"}, paths(files))

	_, err = Discover(root, "missing.txt", "")
	assert.Error(t, err)
}

func TestDiscoverGitignoreFallback(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"a.js":       "",
		"b.js":       "",
		".gitignore": "b.js\n",
	})

	files, err := Discover(root, "", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.js"}, paths(files))
}

func TestConvert(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	root := filepath.Join(dir, "src")
	target := filepath.Join(dir, "docs")
	writeFiles(t, root, map[string]string{
		"a.js":     sampleJS,
		"sub/b.js": "/** B file. */\n",
	})

	results, err := Convert(context.Background(), root, target, Options{Concurrency: 2})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "a.js", results[0].Source)
	assert.Equal(t, 1, results[0].Symbols)
	assert.Equal(t, "A summary.", results[0].Summary)

	a, err := os.ReadFile(filepath.Join(target, "a.md"))
	require.NoError(t, err)
	assert.Contains(t, string(a), "_Source: [a.js](../src/a.js)_")
	assert.Contains(t, string(a), "# hi(name)")

	b, err := os.ReadFile(filepath.Join(target, "sub", "b.md"))
	require.NoError(t, err)
	assert.Contains(t, string(b), "B file.")

	index, err := os.ReadFile(filepath.Join(target, IndexFile))
	require.NoError(t, err)
	assert.Equal(t, "## Files\n\n- [a.js](a.md) - A summary.\n- [sub/b.js](sub/b.md) - B file.\n", string(index))
}

func TestConvertEmpty(t *testing.T) {
	t.Parallel()

	_, err := Convert(context.Background(), t.TempDir(), t.TempDir(), Options{})
	assert.ErrorContains(t, err, "no source files")
}

func TestWriteIndexAppendsToReadme(t *testing.T) {
	t.Parallel()

	target := t.TempDir()
	readme := filepath.Join(target, IndexFile)
	require.NoError(t, os.WriteFile(readme, []byte("# Readme\n"), 0o644))

	err := WriteIndex(target, []Result{
		{Source: "README.js", Output: readme},
		{Source: "lib.js", Output: filepath.Join(target, "lib.md"), Summary: "Lib\nstuff."},
	})
	require.NoError(t, err)

	got, err := os.ReadFile(readme)
	require.NoError(t, err)
	assert.Equal(t, "# Readme\n\n## Files\n\n- [README.js](README.md)\n- [lib.js](lib.md) - Lib stuff.\n", string(got))
}

func TestOutputPath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a.md", OutputPath("a.js"))
	assert.Equal(t, "lib/x.d.md", OutputPath("lib/x.d.ts"))
}
