package fileops

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Local, string) {
	t.Helper()
	root := t.TempDir()
	store, err := NewLocal(root)
	require.NoError(t, err)
	return store, root
}

func TestWriteReadRoundtrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Write(ctx, "src/deep/nested/app.js", "const a = 1;\n"))

	content, err := store.Read(ctx, "src/deep/nested/app.js")
	require.NoError(t, err)
	assert.Equal(t, "const a = 1;\n", content)
}

func TestListFiltersByExtensionAndHiddenDirs(t *testing.T) {
	store, root := newTestStore(t)
	ctx := context.Background()

	seed := map[string]string{
		"src/app.js":     "x",
		"src/lib.ts":     "x",
		"main.go":        "x",
		"notes.md":       "x",
		"bin/tool":       "x",
		".git/config.js": "x",
	}
	for p, c := range seed {
		full := filepath.Join(root, filepath.FromSlash(p))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0750))
		require.NoError(t, os.WriteFile(full, []byte(c), 0600))
	}

	files, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"src/app.js", "src/lib.ts", "main.go"}, files)

	scoped, err := store.List(ctx, "src")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"src/app.js", "src/lib.ts"}, scoped)
}

func TestRenameAndDelete(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Write(ctx, "old.js", "content"))
	require.NoError(t, store.Rename(ctx, "old.js", "moved/new.js"))

	_, err := store.Read(ctx, "old.js")
	assert.Error(t, err)
	content, err := store.Read(ctx, "moved/new.js")
	require.NoError(t, err)
	assert.Equal(t, "content", content)

	require.NoError(t, store.Delete(ctx, "moved/new.js"))
	_, err = store.Read(ctx, "moved/new.js")
	assert.Error(t, err)
}

func TestResolveRejectsEscapes(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	_, err := store.Read(ctx, "/etc/passwd")
	assert.ErrorContains(t, err, "not allowed")

	_, err = store.Read(ctx, "../outside.js")
	assert.ErrorContains(t, err, "outside of the project root")

	err = store.Write(ctx, "src/../../outside.js", "x")
	assert.ErrorContains(t, err, "outside of the project root")
}
