package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"habstudio/internal/model"
)

// writePkg lays down a fake installed package directory and returns it.
// storeDir is a cache-style store (origin/name/version/release directly
// under it).
func writePkg(t *testing.T, storeDir string, ref model.Ref, version, release string, metafiles map[Metafile]string) string {
	t.Helper()
	dir := filepath.Join(storeDir, ref.Origin, ref.Name, version, release)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	for kind, content := range metafiles {
		require.NoError(t, os.WriteFile(filepath.Join(dir, string(kind)), []byte(content+"\n"), 0o644))
	}
	return dir
}

func TestInstalledPathPicksLatest(t *testing.T) {
	root := t.TempDir()
	ref := model.Ref{Origin: "core", Name: "hab"}
	storeDir := filepath.Join(root, Base)
	writePkg(t, storeDir, ref, "1.5.0", "20230101120000", nil)
	want := writePkg(t, storeDir, ref, "1.6.0", "20240101120000", nil)
	writePkg(t, storeDir, ref, "1.6.0", "20230601120000", nil)

	st := New(nil)
	got, err := st.InstalledPath(root, ref)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestInstalledPathMultiDigitVersion(t *testing.T) {
	// Versions compare numerically per component: 5.10.0 is newer than
	// 5.9.0 even though it sorts earlier as a string.
	root := t.TempDir()
	ref := model.Ref{Origin: "core", Name: "bash"}
	storeDir := filepath.Join(root, Base)
	writePkg(t, storeDir, ref, "5.9.0", "20240101120000", nil)
	want := writePkg(t, storeDir, ref, "5.10.0", "20240201120000", nil)

	st := New(nil)
	got, err := st.InstalledPath(root, ref)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestCompareVersions(t *testing.T) {
	cases := []struct {
		a, b string
		want int // sign only
	}{
		{"5.9.0", "5.10.0", -1},
		{"9", "10", -1},
		{"1.10", "1.9", 1},
		{"1.2.3", "1.2.3", 0},
		{"1.2", "1.2.1", -1},   // shorter loses when the prefix matches
		{"2.0", "2.0-rc1", -1}, // non-numeric parts fall back to strings
		{"1.0a", "1.0b", -1},
	}
	for _, c := range cases {
		got := compareVersions(c.a, c.b)
		switch {
		case c.want < 0:
			assert.Negative(t, got, "%s vs %s", c.a, c.b)
		case c.want > 0:
			assert.Positive(t, got, "%s vs %s", c.a, c.b)
		default:
			assert.Zero(t, got, "%s vs %s", c.a, c.b)
		}
	}
}

func TestInstalledPathMissing(t *testing.T) {
	st := New(nil)
	_, err := st.InstalledPath(t.TempDir(), model.Ref{Origin: "core", Name: "nope"})
	assert.Error(t, err)
}

func TestReadMetafile(t *testing.T) {
	cache := t.TempDir()
	ref := model.Ref{Origin: "core", Name: "bash"}
	dir := writePkg(t, cache, ref, "5.1", "20240101120000", map[Metafile]string{
		MetaPath:  "/hab/pkgs/core/bash/5.1/20240101120000/bin",
		MetaIdent: "core/bash/5.1/20240101120000",
	})

	frag, err := ReadMetafile(dir, MetaPath)
	require.NoError(t, err)
	assert.Equal(t, "/hab/pkgs/core/bash/5.1/20240101120000/bin", frag)

	_, err = ReadMetafile(dir, MetaTDeps)
	assert.ErrorIs(t, err, ErrNoMetafile)
}

func TestTDeps(t *testing.T) {
	cache := t.TempDir()
	ref := model.Ref{Origin: "core", Name: "bash"}
	dir := writePkg(t, cache, ref, "5.1", "20240101120000", map[Metafile]string{
		MetaTDeps: "core/glibc/2.35/20240101120000\n\ncore/ncurses/6.3/20240101120000",
	})

	deps, err := TDeps(dir)
	require.NoError(t, err)
	require.Len(t, deps, 2)
	assert.Equal(t, "core/glibc", deps[0].String())
	assert.Equal(t, "core/ncurses", deps[1].String())
}

func TestTDepsMissingMetafile(t *testing.T) {
	cache := t.TempDir()
	dir := writePkg(t, cache, model.Ref{Origin: "core", Name: "hab"}, "1.6.0", "20240101120000", nil)

	deps, err := TDeps(dir)
	require.NoError(t, err)
	assert.Empty(t, deps)
}

func TestCopyFromCache(t *testing.T) {
	cache := t.TempDir()
	root := t.TempDir()
	web := model.Ref{Origin: "myorg", Name: "web"}
	glibc := model.Ref{Origin: "core", Name: "glibc"}

	webDir := writePkg(t, cache, web, "1.0.0", "20240101120000", map[Metafile]string{
		MetaPath:  "/hab/pkgs/myorg/web/1.0.0/20240101120000/bin",
		MetaTDeps: "core/glibc/2.35/20240101120000",
	})
	require.NoError(t, os.MkdirAll(filepath.Join(webDir, "bin"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(webDir, "bin", "web"), []byte("#!/bin/sh\n"), 0o755))
	writePkg(t, cache, glibc, "2.35", "20240101120000", map[Metafile]string{
		MetaPath: "/hab/pkgs/core/glibc/2.35/20240101120000/bin",
	})

	st := New(nil)
	deps, err := st.CopyFromCache(cache, root, web)
	require.NoError(t, err)
	require.Len(t, deps, 1)
	assert.Equal(t, "core/glibc", deps[0].String())

	// Both package trees landed under <root>/hab/pkgs with layout intact.
	copied, err := st.InstalledPath(root, web)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(copied, "bin", "web"))

	info, err := os.Stat(filepath.Join(copied, "bin", "web"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())

	_, err = st.InstalledPath(root, glibc)
	assert.NoError(t, err)
}

func TestCopyFromCacheMissingDep(t *testing.T) {
	cache := t.TempDir()
	web := model.Ref{Origin: "myorg", Name: "web"}
	writePkg(t, cache, web, "1.0.0", "20240101120000", map[Metafile]string{
		MetaTDeps: "core/glibc/2.35/20240101120000",
	})

	st := New(nil)
	_, err := st.CopyFromCache(cache, t.TempDir(), web)
	assert.Error(t, err)
}

func TestInCache(t *testing.T) {
	cache := t.TempDir()
	ref := model.Ref{Origin: "core", Name: "hab"}
	st := New(nil)

	assert.False(t, st.InCache(cache, ref))
	writePkg(t, cache, ref, "1.6.0", "20240101120000", nil)
	assert.True(t, st.InCache(cache, ref))
}

func TestCopyTreeSymlinks(t *testing.T) {
	cache := t.TempDir()
	root := t.TempDir()
	ref := model.Ref{Origin: "core", Name: "busybox-static"}
	dir := writePkg(t, cache, ref, "1.36", "20240101120000", nil)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "bin"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bin", "busybox"), []byte("bb"), 0o755))
	require.NoError(t, os.Symlink("busybox", filepath.Join(dir, "bin", "sh")))

	st := New(nil)
	_, err := st.CopyFromCache(cache, root, ref)
	require.NoError(t, err)

	copied, err := st.InstalledPath(root, ref)
	require.NoError(t, err)
	target, err := os.Readlink(filepath.Join(copied, "bin", "sh"))
	require.NoError(t, err)
	assert.Equal(t, "busybox", target)
}
