package fsutil

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindFirst(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "modules")
	require.NoError(t, os.WriteFile(base+".json", []byte("{}"), 0o644))
	require.NoError(t, os.WriteFile(base+".yaml", []byte("{}"), 0o644))
	require.NoError(t, os.Mkdir(base+".toml", 0o755))

	path, err := FindFirst(base, []string{"tml", "toml", "json", "yaml"})
	require.NoError(t, err)
	assert.Equal(t, base+".json", path)

	_, err = FindFirst(filepath.Join(dir, "board"), []string{"tml"})
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestListAndCopy(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.v"), []byte("module b;"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.v"), []byte("module a;"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))

	files, err := ListFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.v", "b.v"}, files)

	dirs, err := ListDirs(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"sub"}, dirs)

	missing, err := ListFiles(filepath.Join(dir, "nope"))
	require.NoError(t, err)
	assert.Empty(t, missing)

	dst := filepath.Join(dir, "out", "nested", "a.v")
	require.NoError(t, CopyFile(filepath.Join(dir, "a.v"), dst))
	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "module a;", string(got))
}
