package walk

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tree creates files (relative paths) with the given contents under a
// fresh temporary directory.
func tree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func rel(t *testing.T, root string, paths []string) []string {
	t.Helper()
	out := make([]string, len(paths))
	for i, p := range paths {
		r, err := filepath.Rel(root, p)
		require.NoError(t, err)
		out[i] = filepath.ToSlash(r)
	}
	return out
}

func TestWalk_LexicalOrder(t *testing.T) {
	root := tree(t, map[string]string{
		"b.txt":       "b",
		"a.txt":       "a",
		"sub/c.pdf":   "c",
		"sub/a/d.csv": "d",
	})

	files, err := Walk(context.Background(), Config{Root: root})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt", "b.txt", "sub/a/d.csv", "sub/c.pdf"}, rel(t, root, files))
}

func TestWalk_HiddenFiles(t *testing.T) {
	root := tree(t, map[string]string{
		"visible.txt":   "v",
		".hidden.txt":   "h",
		".git/config":   "c",
		"sub/.env":      "e",
		"sub/notes.txt": "n",
	})

	files, err := Walk(context.Background(), Config{Root: root})
	require.NoError(t, err)
	assert.Equal(t, []string{"sub/notes.txt", "visible.txt"}, rel(t, root, files))

	files, err = Walk(context.Background(), Config{Root: root, IncludeHidden: true})
	require.NoError(t, err)
	assert.Equal(t, []string{".git/config", ".hidden.txt", "sub/.env", "sub/notes.txt", "visible.txt"}, rel(t, root, files))
}

func TestWalkStats_CountsHidden(t *testing.T) {
	root := tree(t, map[string]string{
		"visible.txt":   "v",
		".hidden.txt":   "h",
		".git/config":   "c",
		".git/HEAD":     "c",
		"sub/.env":      "e",
		"sub/notes.txt": "n",
	})

	files, stats, err := WalkStats(context.Background(), Config{Root: root})
	require.NoError(t, err)
	assert.Len(t, files, 2)
	assert.Equal(t, 3, stats.Hidden)

	files, stats, err = WalkStats(context.Background(), Config{Root: root, IncludeHidden: true})
	require.NoError(t, err)
	assert.Len(t, files, 6)
	assert.Zero(t, stats.Hidden)
}

func TestWalk_MaxFileSize(t *testing.T) {
	root := tree(t, map[string]string{
		"small.txt": "tiny",
		"large.txt": "this file is larger than the limit",
	})

	files, err := Walk(context.Background(), Config{Root: root, MaxFileSize: 10})
	require.NoError(t, err)
	assert.Equal(t, []string{"small.txt"}, rel(t, root, files))
}

func TestWalk_Gitignore(t *testing.T) {
	root := tree(t, map[string]string{
		".gitignore":     "*.log\nbuild/\n",
		"app.log":        "x",
		"main.txt":       "x",
		"build/out.txt":  "x",
		"docs/guide.txt": "x",
	})

	files, err := Walk(context.Background(), Config{Root: root, Gitignore: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"docs/guide.txt", "main.txt"}, rel(t, root, files))

	files, err = Walk(context.Background(), Config{Root: root})
	require.NoError(t, err)
	assert.Equal(t, []string{"app.log", "build/out.txt", "docs/guide.txt", "main.txt"}, rel(t, root, files))
}

func TestWalk_Exclude(t *testing.T) {
	root := tree(t, map[string]string{
		"data.txt":       "x",
		"PII_Report.txt": "previous report",
	})

	files, err := Walk(context.Background(), Config{
		Root:    root,
		Exclude: []string{filepath.Join(root, "PII_Report.txt")},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"data.txt"}, rel(t, root, files))
}

func TestWalk_SkipsSymlinks(t *testing.T) {
	root := tree(t, map[string]string{"real.txt": "x"})
	if err := os.Symlink(filepath.Join(root, "real.txt"), filepath.Join(root, "link.txt")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	files, err := Walk(context.Background(), Config{Root: root})
	require.NoError(t, err)
	assert.Equal(t, []string{"real.txt"}, rel(t, root, files))
}

func TestWalk_SingleFileRoot(t *testing.T) {
	root := tree(t, map[string]string{"only.txt": "x"})
	path := filepath.Join(root, "only.txt")

	files, err := Walk(context.Background(), Config{Root: path})
	require.NoError(t, err)
	assert.Equal(t, []string{path}, files)
}

func TestWalk_MissingRoot(t *testing.T) {
	_, err := Walk(context.Background(), Config{Root: filepath.Join(t.TempDir(), "missing")})
	assert.Error(t, err)
}

func TestWalk_Cancelled(t *testing.T) {
	root := tree(t, map[string]string{"a.txt": "x"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Walk(ctx, Config{Root: root})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIsHidden(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{".git", true},
		{".env", true},
		{"file.txt", false},
		{".", false},
		{"..", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isHidden(tt.name))
		})
	}
}
