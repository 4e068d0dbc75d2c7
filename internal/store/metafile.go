package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"habstudio/internal/model"
)

// Metafile identifies one of the flat text artifacts the package system
// writes into every installed package directory.
type Metafile string

const (
	MetaPath  Metafile = "PATH"
	MetaTDeps Metafile = "TDEPS"
	MetaDeps  Metafile = "DEPS"
	MetaIdent Metafile = "IDENT"
)

// ErrNoMetafile reports a package that does not carry the requested
// metafile. This is an ordinary condition for PATH composition: packages
// with no executables simply contribute nothing.
var ErrNoMetafile = errors.New("metafile not present")

// ReadMetafile returns the trimmed content of a package's metafile.
func ReadMetafile(pkgDir string, kind Metafile) (string, error) {
	data, err := os.ReadFile(filepath.Join(pkgDir, string(kind)))
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%s in %s: %w", kind, pkgDir, ErrNoMetafile)
		}
		return "", fmt.Errorf("reading %s metafile: %w", kind, err)
	}
	return strings.TrimSpace(string(data)), nil
}

// TDeps returns the ordered transitive dependency references from a
// package's TDEPS metafile, one per line. A missing metafile yields an
// empty list, not an error.
func TDeps(pkgDir string) ([]model.Ref, error) {
	content, err := ReadMetafile(pkgDir, MetaTDeps)
	if err != nil {
		if errors.Is(err, ErrNoMetafile) {
			return nil, nil
		}
		return nil, err
	}

	var deps []model.Ref
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		ref, err := model.ParseRef(line)
		if err != nil {
			return nil, fmt.Errorf("bad TDEPS entry in %s: %w", pkgDir, err)
		}
		deps = append(deps, ref)
	}
	return deps, nil
}
