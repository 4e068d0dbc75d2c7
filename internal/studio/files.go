package studio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"habstudio/internal/etcfile"
)

// Fixed DNS resolution for the studio. Two public nameservers, always.
const resolvConf = `nameserver 8.8.8.8
nameserver 8.8.4.4
`

// Static name-service switch: local files everywhere, DNS only as the
// second resolver for hosts.
const nsswitchConf = `passwd:     files
group:      files
shadow:     files

hosts:      files dns
networks:   files

rpc:        files
services:   files
`

// The hab service account and group appended to the studio databases.
var (
	habPasswdEntry = []string{"hab", "x", "42", "42", "root", "/", "/bin/sh"}
	habGroupEntry  = []string{"hab", "x", "42", "hab"}
)

// linkedShell is where every account's login shell points after bootstrap.
const linkedShell = "/bin/sh"

// materialize writes the studio's configuration files. Steps are
// independent of each other but fail-fast: there is no rollback on a
// partial failure, matching the retry-wholesale contract of Bootstrap.
func (b *Bootstrapper) materialize(ctx context.Context, composed, defaultPkg string) error {
	root := b.cfg.Root

	binDir := filepath.Join(root, "bin")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}

	// The hab link doubles as the idempotency guard for later runs.
	if err := b.binlinker.Binlink(ctx, root, habPkg, "hab", "/bin"); err != nil {
		return fmt.Errorf("binlinking hab: %w", err)
	}
	if err := b.binlinker.Binlink(ctx, root, shellPkg, "sh", "/bin"); err != nil {
		return fmt.Errorf("binlinking sh: %w", err)
	}
	if err := b.binlinker.Binlink(ctx, root, bashPkg, "bash", "/bin"); err != nil {
		return fmt.Errorf("binlinking bash: %w", err)
	}

	etcDir := filepath.Join(root, "etc")
	if err := os.MkdirAll(etcDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", etcDir, err)
	}

	passwdPath := filepath.Join(etcDir, "passwd")
	passwd, err := etcfile.Load(passwdPath)
	if err != nil {
		return fmt.Errorf("reading passwd: %w", err)
	}
	passwd.SetAllShells(linkedShell)
	passwd.Append(habPasswdEntry...)
	if err := passwd.Save(passwdPath); err != nil {
		return fmt.Errorf("writing passwd: %w", err)
	}

	groupPath := filepath.Join(etcDir, "group")
	group, err := etcfile.Load(groupPath)
	if err != nil {
		return fmt.Errorf("reading group: %w", err)
	}
	group.Append(habGroupEntry...)
	if err := group.Save(groupPath); err != nil {
		return fmt.Errorf("writing group: %w", err)
	}

	files := []struct {
		path    string
		content string
		perm    os.FileMode
	}{
		{filepath.Join(etcDir, "profile"), profileScript(composed), 0o644},
		{filepath.Join(etcDir, "resolv.conf"), resolvConf, 0o644},
		{filepath.Join(etcDir, "nsswitch.conf"), nsswitchConf, 0o644},
		{filepath.Join(root, ".hab_pkg"), "", 0o644},
		{filepath.Join(root, "init.sh"), initScript(composed, defaultPkg), 0o755},
	}
	for _, f := range files {
		if err := os.WriteFile(f.path, []byte(f.content), f.perm); err != nil {
			return fmt.Errorf("writing %s: %w", f.path, err)
		}
		// WriteFile perm only applies on create; an existing init.sh from a
		// half-finished run still needs the executable bit.
		if err := os.Chmod(f.path, f.perm); err != nil {
			return fmt.Errorf("chmod %s: %w", f.path, err)
		}
	}
	return nil
}

// profileScript prepends the composed path to whatever the login
// environment already carries, defines the supervisor conveniences, and
// wires up command completion.
func profileScript(composed string) string {
	return fmt.Sprintf(`# Generated by habstudio. Do not edit by hand.
export PATH=%s:$PATH

alias sup-run='hab sup run'
alias sup-term='hab sup term'
alias sup-log='tail -f /hab/sup/default/sup.log'

source <(hab cli completers --shell bash)
`, composed)
}

// initScript is the studio entry point. Help and version flags pass
// through to the supervisor verbatim; any other flag starts the default
// package; everything else (including no argument) passes through.
func initScript(composed, defaultPkg string) string {
	return fmt.Sprintf(`#!/bin/sh
export PATH=%s

case "$1" in
  -h|--help|-V|--version)
    exec hab sup "$@"
    ;;
  -*)
    exec hab sup start %s "$@"
    ;;
  *)
    exec hab sup "$@"
    ;;
esac
`, composed, defaultPkg)
}
