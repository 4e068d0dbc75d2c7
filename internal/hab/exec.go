package hab

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"go.uber.org/zap"

	"habstudio/internal/model"
)

// CLI runs the hab binary. It implements Installer and Binlinker.
type CLI struct {
	Bin string
	// cacheKeyPath is the inherited HAB_CACHE_KEY_PATH value recorded at
	// startup; it is threaded in explicitly rather than re-read from the
	// ambient environment.
	cacheKeyPath string
	log          *zap.Logger
}

func NewCLI(bin, cacheKeyPath string, logger *zap.Logger) *CLI {
	if bin == "" {
		bin = "hab"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CLI{Bin: bin, cacheKeyPath: cacheKeyPath, log: logger}
}

// Install runs `hab pkg install` against the target root.
func (c *CLI) Install(ctx context.Context, root string, ref model.Ref) error {
	return c.run(ctx, root, "pkg", "install", ref.String())
}

// Binlink runs `hab pkg binlink` to expose one executable inside the root.
// destDir is root-relative (e.g. /bin).
func (c *CLI) Binlink(ctx context.Context, root string, ref model.Ref, exe, destDir string) error {
	return c.run(ctx, root, "pkg", "binlink", ref.String(), exe, "--dest", destDir)
}

func (c *CLI) run(ctx context.Context, root string, args ...string) error {
	cmd := exec.CommandContext(ctx, c.Bin, args...)
	cmd.Env = childEnv(os.Environ(), root)

	if c.cacheKeyPath != "" {
		c.log.Debug("dropping inherited cache key path", zap.String("value", c.cacheKeyPath))
	}
	c.log.Debug("running hab", zap.Strings("args", args), zap.String("root", root))
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s %s: %w\n%s", c.Bin, strings.Join(args, " "), err, strings.TrimSpace(string(out)))
	}
	return nil
}

// childEnv builds the environment for a nested hab invocation.
// We want the tool to operate on the studio root, not the host:
// FS_ROOT redirects its filesystem operations, and the inherited
// HAB_CACHE_KEY_PATH is removed so key lookups cannot leak in from the
// calling context.
func childEnv(env []string, root string) []string {
	var out []string
	for _, e := range env {
		if strings.HasPrefix(e, "HAB_CACHE_KEY_PATH=") {
			continue
		}
		if strings.HasPrefix(e, "FS_ROOT=") {
			continue
		}
		out = append(out, e)
	}
	out = append(out, "FS_ROOT="+root)
	return out
}
