// Package hab wraps the external hab CLI, the package-installation and
// binlink collaborator of the bootstrapper.
package hab

import (
	"context"

	"habstudio/internal/model"
)

// Installer ensures a package is fetched and installed under a filesystem
// root. Failure is fatal to the caller; there are no retry semantics.
type Installer interface {
	Install(ctx context.Context, root string, ref model.Ref) error
}

// Binlinker exposes a package's executable under a directory inside the
// target root.
type Binlinker interface {
	Binlink(ctx context.Context, root string, ref model.Ref, exe, destDir string) error
}
