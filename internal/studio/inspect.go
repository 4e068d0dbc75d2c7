package studio

import (
	"fmt"
	"os"
	"path/filepath"

	"habstudio/internal/config"
	"habstudio/internal/model"
	"habstudio/internal/store"
)

// Inspector re-derives the composed path of a provisioned root, with
// package attribution and provisioning diagnostics, for the report, TUI
// and web surfaces.
type Inspector struct {
	cfg   *config.Config
	store *store.Store
}

func NewInspector(cfg *config.Config, st *store.Store) *Inspector {
	return &Inspector{cfg: cfg, store: st}
}

func (ins *Inspector) Inspect(requested []model.Ref) (*model.Inspection, error) {
	root := ins.cfg.Root

	insp, err := Compose(ins.store, root, pathPackages(requested))
	if err != nil {
		return nil, err
	}

	if _, err := os.Lstat(filepath.Join(root, "bin", "hab")); err != nil {
		insp.Diagnostics = append(insp.Diagnostics,
			fmt.Sprintf("root %s is not provisioned (bin/hab missing); run a bootstrap first", root))
	}
	if _, err := os.Stat(filepath.Join(root, ".hab_pkg")); err != nil {
		insp.Diagnostics = append(insp.Diagnostics, "studio marker .hab_pkg is missing")
	}

	// Composed entries are root-relative absolute paths; check each points
	// at a real directory inside the root.
	for _, e := range insp.PathEntries {
		if e.IsDuplicate {
			continue
		}
		if _, err := os.Stat(filepath.Join(root, e.Value)); err != nil {
			insp.Diagnostics = append(insp.Diagnostics,
				fmt.Sprintf("path entry %s does not exist under the root", e.Value))
		}
	}
	return insp, nil
}
