package adorable

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadAtoms(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"a.html":     `<div class="p(4) bg(red)"></div>`,
		"empty.html": `<p>no classes</p>`,
	})

	atoms, err := ReadAtoms(filepath.Join(dir, "a.html"))
	require.NoError(t, err)
	assert.Equal(t, []string{"p(4)", "bg(red)"}, atoms)

	atoms, err = ReadAtoms(filepath.Join(dir, "empty.html"))
	require.NoError(t, err)
	assert.NotNil(t, atoms)
	assert.Empty(t, atoms)
}

func TestReadAtoms_NotAFile(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"a.html": `<a class="m(2)">`})
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.html"), 0o755))
	require.NoError(t, os.Symlink(filepath.Join(dir, "a.html"), filepath.Join(dir, "link.html")))

	_, err := ReadAtoms(filepath.Join(dir, "sub.html"))
	require.ErrorIs(t, err, ErrNotAFile)

	_, err = ReadAtoms(filepath.Join(dir, "link.html"))
	require.ErrorIs(t, err, ErrNotAFile)
}

func TestReadAtoms_Missing(t *testing.T) {
	_, err := ReadAtoms(filepath.Join(t.TempDir(), "missing.html"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.NotErrorIs(t, err, ErrNotAFile)
}

func TestReadEntries(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"b.html": `<a class="p(1)">`,
		"a.html": `<a class="p(2)">`,
	})
	require.NoError(t, os.Mkdir(filepath.Join(dir, "d.html"), 0o755))

	paths := []string{
		filepath.Join(dir, "b.html"),
		filepath.Join(dir, "d.html"),
		filepath.Join(dir, "a.html"),
	}
	entries, err := ReadEntries(context.Background(), paths)
	require.NoError(t, err)
	assert.Equal(t, []Entry{
		{Path: paths[0], Atoms: []string{"p(1)"}},
		{Path: paths[2], Atoms: []string{"p(2)"}},
	}, entries)
}

func TestReadEntries_FailFast(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"a.html": `<a class="p(2)">`})

	_, err := ReadEntries(context.Background(), []string{
		filepath.Join(dir, "a.html"),
		filepath.Join(dir, "missing.html"),
	})
	require.ErrorIs(t, err, os.ErrNotExist)
}
