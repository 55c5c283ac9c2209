package backup

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCreateCopiesTree(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	root := filepath.Join(base, "project")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "sub"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.c"), []byte("// 注释\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "sub", "b.md"), []byte("# 标题\n"), 0644))

	dst, err := Create(root)
	require.NoError(t, err)
	require.Equal(t, root+"_backup", dst)

	got, err := os.ReadFile(filepath.Join(dst, "a.c"))
	require.NoError(t, err)
	require.Equal(t, "// 注释\n", string(got))

	got, err = os.ReadFile(filepath.Join(dst, "sub", "b.md"))
	require.NoError(t, err)
	require.Equal(t, "# 标题\n", string(got))
}

func TestCreateSkipsExistingBackup(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	root := filepath.Join(base, "project")
	require.NoError(t, os.MkdirAll(root, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.c"), []byte("original"), 0644))

	dst, err := Create(root)
	require.NoError(t, err)

	// Mutate the source; a second Create must not overwrite the backup.
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.c"), []byte("mutated"), 0644))

	dst2, err := Create(root)
	require.NoError(t, err)
	require.Equal(t, dst, dst2)

	got, err := os.ReadFile(filepath.Join(dst, "a.c"))
	require.NoError(t, err)
	require.Equal(t, "original", string(got), "existing backup must be left alone")
}

func TestCreatePreservesMode(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	root := filepath.Join(base, "project")
	require.NoError(t, os.MkdirAll(root, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "run.py"), []byte("#!/usr/bin/env python\n"), 0755))

	dst, err := Create(root)
	require.NoError(t, err)

	info, err := os.Stat(filepath.Join(dst, "run.py"))
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0755), info.Mode().Perm())
}

func TestCreateMissingRoot(t *testing.T) {
	t.Parallel()

	_, err := Create(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
}
