// pkg/walker/walker_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: afero MemMapFs
// PURPOSE: Test multi-root traversal order and destination mapping

package walker_test

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/dots/pkg/walker"
)

func writeTree(t *testing.T, fs afero.Fs, files ...string) {
	t.Helper()
	for _, f := range files {
		require.NoError(t, fs.MkdirAll(filepath.Dir(f), 0755))
		require.NoError(t, afero.WriteFile(fs, f, []byte(f), 0644))
	}
}

func collect[T any](t *testing.T, w *walker.Walker[T]) []walker.Entry[T] {
	t.Helper()
	var out []walker.Entry[T]
	require.NoError(t, w.Walk(func(e walker.Entry[T]) error {
		out = append(out, e)
		return nil
	}))
	return out
}

func TestWalk_RootsInRegistrationOrder(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeTree(t, fs,
		"/src/c/one", "/src/c/sub/two",
		"/src/a/x", "/src/a/y/z",
		"/src/b/only",
	)

	w := walker.New[string](fs).
		Add("/src/a", "/dst/A", "a").
		Add("/src/b", "/dst/B", "b").
		Add("/src/c", "/dst/C", "c")
	entries := collect(t, w)

	var tags []string
	for _, e := range entries {
		tags = append(tags, e.Tag)
		root := map[string]string{"a": "/src/a", "b": "/src/b", "c": "/src/c"}[e.Tag]
		dest := map[string]string{"a": "/dst/A", "b": "/dst/B", "c": "/dst/C"}[e.Tag]

		require.True(t, strings.HasPrefix(e.Path, root), e.Path)
		rel, err := filepath.Rel(root, e.Path)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dest, rel), e.Destination)
	}

	// Every entry of a root precedes every entry of the next root.
	assert.Equal(t, []string{"a", "a", "a", "a", "b", "b", "c", "c", "c", "c"}, tags)
}

func TestWalk_Repeatable(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeTree(t, fs, "/a/1", "/b/2", "/c/3")

	w := walker.New[string](fs).
		Add("/a", "/da", "a").
		Add("/b", "/db", "b").
		Add("/c", "/dc", "c")

	first := collect(t, w)
	second := collect(t, w)
	require.Len(t, first, 6)
	assert.Equal(t, first, second)
}

func TestWalk_EntryDetails(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeTree(t, fs, "/df/nvim/init.lua", "/df/nvim/lua/plugins.lua")

	entries := collect(t, walker.New[int](fs).Add("/df/nvim", "/home/me/.config/nvim", 7))
	require.Len(t, entries, 4)

	root := entries[0]
	assert.Equal(t, "/df/nvim", root.Path)
	assert.Equal(t, "/home/me/.config/nvim", root.Destination)
	assert.Equal(t, 0, root.Depth)
	assert.True(t, root.IsDir)
	assert.Equal(t, 7, root.Tag)

	assert.Equal(t, "/df/nvim/init.lua", entries[1].Path)
	assert.Equal(t, "/home/me/.config/nvim/init.lua", entries[1].Destination)
	assert.Equal(t, 1, entries[1].Depth)
	assert.False(t, entries[1].IsDir)

	assert.Equal(t, "/home/me/.config/nvim/lua/plugins.lua", entries[3].Destination)
	assert.Equal(t, 2, entries[3].Depth)
}

func TestWalk_FileRoot(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeTree(t, fs, "/df/zshrc")

	entries := collect(t, walker.New[string](fs).Add("/df/zshrc", "/home/me/.zshrc", "cp"))
	require.Len(t, entries, 1)
	assert.Equal(t, "/home/me/.zshrc", entries[0].Destination)
	assert.False(t, entries[0].IsDir)
}

func TestWalk_MissingRootKeepsMappingInStep(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeTree(t, fs, "/df/a", "/df/c")

	w := walker.New[string](fs).
		Add("/df/a", "/dst/a", "a").
		Add("/df/missing", "/dst/missing", "missing").
		Add("/df/c", "/dst/c", "c")
	entries := collect(t, w)

	require.Len(t, entries, 2)
	assert.Equal(t, "/dst/a", entries[0].Destination)
	assert.Equal(t, "c", entries[1].Tag)
	assert.Equal(t, "/dst/c", entries[1].Destination)
}

func TestWalk_Ignore(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeTree(t, fs, "/df/.git/HEAD", "/df/keep", "/df/notes.swp")

	entries := collect(t, walker.New[string](fs, walker.WithIgnore(".git", "*.swp")).Add("/df", "/dst", ""))
	var paths []string
	for _, e := range entries {
		paths = append(paths, e.Path)
	}
	assert.Equal(t, []string{"/df", "/df/keep"}, paths)
}

func TestWalk_VisitError(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeTree(t, fs, "/df/a", "/df/b")
	boom := errors.New("boom")

	calls := 0
	err := walker.New[string](fs).Add("/df", "/dst", "").Walk(func(e walker.Entry[string]) error {
		calls++
		if e.Depth == 1 {
			return boom
		}
		return nil
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, calls)
}

func TestWalk_SkipDir(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeTree(t, fs, "/df/skip/inner", "/df/z")

	var paths []string
	err := walker.New[string](fs).Add("/df", "/dst", "").Walk(func(e walker.Entry[string]) error {
		paths = append(paths, e.Path)
		if e.IsDir && e.Depth == 1 {
			return walker.SkipDir
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"/df", "/df/skip", "/df/z"}, paths)
}

func TestPlanner(t *testing.T) {
	var p walker.Planner[string]
	p.Add("/a", "/x", "first")
	p.Add("/b/", "/y", "second")

	_, ok := p.Plan("/a/file", 1)
	assert.False(t, ok, "no root is current before the first depth-0 entry")

	e, ok := p.Plan("/a", 0)
	require.True(t, ok)
	assert.Equal(t, "/x", e.Destination)

	e, ok = p.Plan("/a/deep/file", 2)
	require.True(t, ok)
	assert.Equal(t, "/x/deep/file", e.Destination)

	_, ok = p.Plan("/ab/file", 1)
	assert.False(t, ok, "prefix must match whole components")

	e, ok = p.Plan("/b", 0)
	require.True(t, ok)
	assert.Equal(t, "second", e.Tag)
	assert.Equal(t, "/y", e.Destination)

	// The cursor never moves past the last root.
	e, ok = p.Plan("/b", 0)
	require.True(t, ok)
	assert.Equal(t, "second", e.Tag)

	_, ok = p.Plan("/a/file", 1)
	assert.False(t, ok)
	assert.Equal(t, 2, p.Len())

	p.Reset()
	e, ok = p.Plan("/a", 0)
	require.True(t, ok)
	assert.Equal(t, "first", e.Tag)
}
