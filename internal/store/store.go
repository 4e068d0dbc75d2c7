// Package store reads installed package directories and their metafiles
// under a filesystem root, and can copy packages in from a local package
// cache. It never installs anything itself; installation belongs to the
// external hab tool.
package store

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"habstudio/internal/model"
)

// Base is the package directory layout under any filesystem root.
const Base = "hab/pkgs"

// Store resolves packages under filesystem roots and package caches.
// A root holds packages at <root>/hab/pkgs/<origin>/<name>/...; a cache
// is the store directory itself (e.g. /hab/pkgs on the host).
type Store struct {
	log *zap.Logger
}

func New(logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{log: logger}
}

// PackageDir is the directory holding all releases of a package under root.
func (s *Store) PackageDir(root string, ref model.Ref) string {
	return filepath.Join(root, Base, ref.Origin, ref.Name)
}

// InstalledPath resolves origin/name to its latest installed release
// directory under a filesystem root.
func (s *Store) InstalledPath(root string, ref model.Ref) (string, error) {
	dir, err := resolve(filepath.Join(root, Base), ref)
	if err != nil {
		return "", fmt.Errorf("package %s not installed under %s: %w", ref, root, err)
	}
	return dir, nil
}

// CachePath resolves origin/name to its latest release directory in a
// local package cache.
func (s *Store) CachePath(cache string, ref model.Ref) (string, error) {
	dir, err := resolve(cache, ref)
	if err != nil {
		return "", fmt.Errorf("package %s not cached under %s: %w", ref, cache, err)
	}
	return dir, nil
}

// InCache reports whether a package is present in the local package cache.
func (s *Store) InCache(cache string, ref model.Ref) bool {
	_, err := s.CachePath(cache, ref)
	return err == nil
}

// CopyFromCache copies a cached package directory, and the directory of
// every entry in its TDEPS metafile, into the target root with the same
// layout. Returns the dependency refs that were copied alongside.
func (s *Store) CopyFromCache(cache, targetRoot string, ref model.Ref) ([]model.Ref, error) {
	src, err := s.CachePath(cache, ref)
	if err != nil {
		return nil, err
	}
	if err := s.copyPackage(cache, targetRoot, src); err != nil {
		return nil, err
	}

	deps, err := TDeps(src)
	if err != nil {
		return nil, err
	}
	for _, dep := range deps {
		depSrc, err := s.CachePath(cache, dep)
		if err != nil {
			return nil, fmt.Errorf("dependency of %s: %w", ref, err)
		}
		if err := s.copyPackage(cache, targetRoot, depSrc); err != nil {
			return nil, err
		}
	}
	return deps, nil
}

// copyPackage re-roots one cached package directory under the target root.
// The cache layout is <cache>/<origin>/<name>/<version>/<release>, so the
// relative part slots straight under <targetRoot>/hab/pkgs.
func (s *Store) copyPackage(cache, targetRoot, src string) error {
	rel, err := filepath.Rel(cache, src)
	if err != nil {
		return err
	}
	dest := filepath.Join(targetRoot, Base, rel)
	s.log.Debug("copying package directory", zap.String("src", src), zap.String("dest", dest))
	return copyTree(src, dest)
}

// resolve picks the greatest version directory, then the greatest release
// directory within it. Versions are semver-shaped and need numeric
// comparison per component (5.10.0 beats 5.9.0); releases are 14-digit
// timestamps, so lexicographic order is release order.
func resolve(storeDir string, ref model.Ref) (string, error) {
	base := filepath.Join(storeDir, ref.Origin, ref.Name)

	version, err := latestVersion(base)
	if err != nil {
		return "", err
	}
	release, err := latestSubdir(filepath.Join(base, version))
	if err != nil {
		return "", err
	}
	return filepath.Join(base, version, release), nil
}

func latestVersion(dir string) (string, error) {
	names, err := subdirs(dir)
	if err != nil {
		return "", err
	}
	best := names[0]
	for _, n := range names[1:] {
		if compareVersions(n, best) > 0 {
			best = n
		}
	}
	return best, nil
}

// compareVersions orders dot-separated versions numerically per component,
// falling back to string comparison for non-numeric parts.
func compareVersions(a, b string) int {
	as := strings.Split(a, ".")
	bs := strings.Split(b, ".")
	for i := 0; i < len(as) && i < len(bs); i++ {
		an, aerr := strconv.Atoi(as[i])
		bn, berr := strconv.Atoi(bs[i])
		if aerr == nil && berr == nil {
			if an != bn {
				return an - bn
			}
			continue
		}
		if c := strings.Compare(as[i], bs[i]); c != 0 {
			return c
		}
	}
	return len(as) - len(bs)
}

func latestSubdir(dir string) (string, error) {
	names, err := subdirs(dir)
	if err != nil {
		return "", err
	}
	sort.Strings(names)
	return names[len(names)-1], nil
}

func subdirs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no entries in %s", dir)
	}
	return names, nil
}

// copyTree recursively copies a directory, preserving modes and symlinks.
func copyTree(src, dest string) error {
	info, err := os.Lstat(src)
	if err != nil {
		return err
	}

	switch {
	case info.Mode()&os.ModeSymlink != 0:
		target, err := os.Readlink(src)
		if err != nil {
			return err
		}
		// Replace a stale link if one is already there.
		_ = os.Remove(dest)
		return os.Symlink(target, dest)

	case info.IsDir():
		if err := os.MkdirAll(dest, info.Mode().Perm()); err != nil {
			return err
		}
		entries, err := os.ReadDir(src)
		if err != nil {
			return err
		}
		for _, e := range entries {
			if err := copyTree(filepath.Join(src, e.Name()), filepath.Join(dest, e.Name())); err != nil {
				return err
			}
		}
		return nil

	default:
		return copyFile(src, dest, info.Mode().Perm())
	}
}

func copyFile(src, dest string, perm os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
