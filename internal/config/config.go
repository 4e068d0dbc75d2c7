package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Defaults for a studio on a stock Habitat host.
const (
	DefaultRoot         = "/hab/studios/default"
	DefaultPackageCache = "/hab/pkgs"
	DefaultHabBin       = "hab"
)

// Config carries everything the bootstrapper needs as explicit values.
// Ambient environment state (package roots, cache key paths) is resolved
// once here and threaded through, never re-read by nested calls.
type Config struct {
	// Root is the target root directory being provisioned.
	Root string
	// PackageCache is the host-side package store consulted before falling
	// back to the external installer.
	PackageCache string
	// CacheKeyPath is the inherited HAB_CACHE_KEY_PATH value, threaded
	// into the hab runner, which scrubs it from child environments.
	CacheKeyPath string
	// Origin is the default origin used to qualify bare package names.
	Origin string
	// DefaultPackage is the supervisor package baked into the init script.
	// Falls back to the first requested package when empty.
	DefaultPackage string
	// HabBin is the hab executable to invoke.
	HabBin string
	// Packages are extra requested packages merged before positional args.
	Packages []string
}

// fileConfig is the studio.yaml schema.
type fileConfig struct {
	Root           string   `yaml:"root"`
	PackageCache   string   `yaml:"package_cache"`
	Origin         string   `yaml:"origin"`
	DefaultPackage string   `yaml:"default_package"`
	HabBin         string   `yaml:"hab_bin"`
	Packages       []string `yaml:"packages"`
}

// Load resolves configuration in precedence order:
// environment > .studiorc env file > studio.yaml > defaults.
// Flag overrides are applied by the caller on top of the result.
func Load() (*Config, error) {
	// .studiorc just seeds the environment; a missing file is fine.
	_ = godotenv.Load(".studiorc")

	cfg := &Config{
		Root:         DefaultRoot,
		PackageCache: DefaultPackageCache,
		HabBin:       DefaultHabBin,
	}

	if data, err := os.ReadFile("studio.yaml"); err == nil {
		var fc fileConfig
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("parsing studio.yaml: %w", err)
		}
		applyFile(cfg, fc)
	}

	cfg.Root = firstNonEmpty(strings.TrimSpace(os.Getenv("HAB_STUDIO_ROOT")), cfg.Root)
	cfg.PackageCache = firstNonEmpty(strings.TrimSpace(os.Getenv("HAB_PKG_ROOT")), cfg.PackageCache)
	cfg.CacheKeyPath = strings.TrimSpace(os.Getenv("HAB_CACHE_KEY_PATH"))
	cfg.Origin = firstNonEmpty(strings.TrimSpace(os.Getenv("HAB_ORIGIN")), cfg.Origin)
	cfg.DefaultPackage = firstNonEmpty(strings.TrimSpace(os.Getenv("HAB_STUDIO_SUP_PKG")), cfg.DefaultPackage)
	cfg.HabBin = firstNonEmpty(strings.TrimSpace(os.Getenv("HAB_BIN")), cfg.HabBin)

	return cfg, nil
}

func applyFile(cfg *Config, fc fileConfig) {
	cfg.Root = firstNonEmpty(fc.Root, cfg.Root)
	cfg.PackageCache = firstNonEmpty(fc.PackageCache, cfg.PackageCache)
	cfg.Origin = firstNonEmpty(fc.Origin, cfg.Origin)
	cfg.DefaultPackage = firstNonEmpty(fc.DefaultPackage, cfg.DefaultPackage)
	cfg.HabBin = firstNonEmpty(fc.HabBin, cfg.HabBin)
	cfg.Packages = append(cfg.Packages, fc.Packages...)
}

// Qualify turns a bare package name into origin/name using the configured
// origin. Already-qualified identifiers pass through untouched.
func (c *Config) Qualify(name string) string {
	if strings.Contains(name, "/") || c.Origin == "" {
		return name
	}
	return c.Origin + "/" + name
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
