// Package studio provisions an isolated build/runtime root: it
// materializes packages, composes the executable search path, and writes
// the environment configuration files the studio runs on.
package studio

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"habstudio/internal/config"
	"habstudio/internal/hab"
	"habstudio/internal/model"
	"habstudio/internal/store"
)

// The base runtime. These are always driven through the installer, even
// when a copy of the same package already arrived as somebody's
// dependency, so the studio never ends up with a merely-copied supervisor.
var baseRefs = []model.Ref{
	{Origin: "core", Name: "hab"},
	{Origin: "core", Name: "hab-sup"},
	{Origin: "core", Name: "hab-launcher"},
}

// Shell providers for the /bin links.
var (
	habPkg   = model.Ref{Origin: "core", Name: "hab"}
	shellPkg = model.Ref{Origin: "core", Name: "busybox-static"}
	bashPkg  = model.Ref{Origin: "core", Name: "bash"}
)

// Bootstrapper assembles a studio under a single target root. It assumes
// exclusive access to that root for the duration of a call; concurrent
// bootstraps of one root are not supported.
type Bootstrapper struct {
	cfg       *config.Config
	store     *store.Store
	installer hab.Installer
	binlinker hab.Binlinker
	out       io.Writer
	log       *zap.Logger
}

func New(cfg *config.Config, st *store.Store, installer hab.Installer, binlinker hab.Binlinker, out io.Writer, logger *zap.Logger) *Bootstrapper {
	if logger == nil {
		logger = zap.NewNop()
	}
	if out == nil {
		out = io.Discard
	}
	return &Bootstrapper{
		cfg:       cfg,
		store:     st,
		installer: installer,
		binlinker: binlinker,
		out:       out,
		log:       logger,
	}
}

// Bootstrap provisions the configured root with the requested packages.
// It is idempotent: a root that already carries bin/hab is left untouched.
// The first failure aborts the whole run; the caller is expected to retry
// wholesale rather than resume.
func (b *Bootstrapper) Bootstrap(ctx context.Context, requested []model.Ref) error {
	root := b.cfg.Root

	if _, err := os.Lstat(filepath.Join(root, "bin", "hab")); err == nil {
		b.log.Debug("guard link present, skipping bootstrap", zap.String("root", root))
		fmt.Fprintf(b.out, "Studio at %s is already provisioned, nothing to do\n", root)
		return nil
	}

	for _, ref := range requested {
		if b.store.InCache(b.cfg.PackageCache, ref) {
			deps, err := b.store.CopyFromCache(b.cfg.PackageCache, root, ref)
			if err != nil {
				return fmt.Errorf("copying %s from cache: %w", ref, err)
			}
			fmt.Fprintf(b.out, "» Using local copy of %s (+%d transitive deps)\n", ref, len(deps))
			continue
		}
		fmt.Fprintf(b.out, "» Installing %s\n", ref)
		if err := b.installer.Install(ctx, root, ref); err != nil {
			return fmt.Errorf("installing %s: %w", ref, err)
		}
	}

	for _, ref := range baseRefs {
		fmt.Fprintf(b.out, "» Installing %s\n", ref)
		if err := b.installer.Install(ctx, root, ref); err != nil {
			return fmt.Errorf("installing %s: %w", ref, err)
		}
	}

	insp, err := Compose(b.store, root, pathPackages(requested))
	if err != nil {
		return fmt.Errorf("composing studio path: %w", err)
	}

	if err := b.materialize(ctx, insp.ComposedPath, b.defaultPackage(requested)); err != nil {
		return err
	}

	fmt.Fprintf(b.out, "✓ Studio ready at %s\n", root)
	return nil
}

// pathPackages is the ordered list of path-contributing packages:
// the requested packages followed by the fixed base runtime.
func pathPackages(requested []model.Ref) []model.Ref {
	list := make([]model.Ref, 0, len(requested)+len(baseRefs))
	list = append(list, requested...)
	list = append(list, baseRefs...)
	return list
}

// defaultPackage picks the supervisor package baked into the init script.
func (b *Bootstrapper) defaultPackage(requested []model.Ref) string {
	if b.cfg.DefaultPackage != "" {
		return b.cfg.DefaultPackage
	}
	if len(requested) > 0 {
		return requested[0].String()
	}
	return "core/hab-sup"
}
