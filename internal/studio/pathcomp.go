package studio

import (
	"errors"
	"fmt"
	"strings"

	"habstudio/internal/model"
	"habstudio/internal/store"
)

// RootBinDir is the fixed, unconditional final entry of every composed
// path. It guarantees a minimal fallback even for an empty package set.
const RootBinDir = "/bin"

// Compose builds the studio search path for the given packages, in order.
//
// The composition is two-pass: first every package's own PATH metafile
// fragment, in list order; then every transitive dependency's fragment,
// again walking the list in order. Own entries are never interleaved with
// dependency entries. Duplicates are kept (marked, not removed) because
// dropping them would change which executable wins a name collision.
func Compose(st *store.Store, root string, refs []model.Ref) (*model.Inspection, error) {
	insp := &model.Inspection{Root: root}
	nodes := make([]model.PackageNode, len(refs))
	dirs := make([]string, len(refs))

	for i, ref := range refs {
		nodes[i] = model.PackageNode{
			ID:    fmt.Sprintf("node-%d", i+1),
			Ref:   ref.String(),
			Order: i + 1,
		}
		dir, err := st.InstalledPath(root, ref)
		if err != nil {
			nodes[i].Missing = true
			insp.Diagnostics = append(insp.Diagnostics,
				fmt.Sprintf("%s is not installed under %s", ref, root))
			continue
		}
		dirs[i] = dir
		if ident, err := store.ReadMetafile(dir, store.MetaIdent); err == nil {
			nodes[i].Ident = ident
		}
		if deps, err := store.ReadMetafile(dir, store.MetaDeps); err == nil {
			for _, line := range strings.Split(deps, "\n") {
				if line = strings.TrimSpace(line); line != "" {
					nodes[i].Deps = append(nodes[i].Deps, line)
				}
			}
		}
	}

	seen := make(map[string]int)
	appendEntry := func(value, pkg, via string, node *model.PackageNode) {
		entry := model.PathEntry{
			Value:   value,
			Package: pkg,
			Via:     via,
			NodeID:  node.ID,
		}
		if first, ok := seen[value]; ok {
			entry.IsDuplicate = true
			entry.DuplicateOf = first
		} else {
			seen[value] = len(insp.PathEntries)
		}
		node.Entries = append(node.Entries, len(insp.PathEntries))
		insp.PathEntries = append(insp.PathEntries, entry)
	}

	// Pass 1: own PATH fragments.
	for i, ref := range refs {
		if dirs[i] == "" {
			continue
		}
		frag, err := store.ReadMetafile(dirs[i], store.MetaPath)
		if err != nil {
			if errors.Is(err, store.ErrNoMetafile) {
				nodes[i].NoPath = true
				insp.Diagnostics = append(insp.Diagnostics,
					fmt.Sprintf("%s has no PATH metafile; contributes nothing", ref))
				continue
			}
			return nil, err
		}
		appendEntry(frag, ref.String(), "", &nodes[i])
	}

	// Pass 2: transitive dependency fragments, same outer order.
	for i, ref := range refs {
		if dirs[i] == "" {
			continue
		}
		deps, err := store.TDeps(dirs[i])
		if err != nil {
			return nil, err
		}
		for _, dep := range deps {
			depDir, err := st.InstalledPath(root, dep)
			if err != nil {
				insp.Diagnostics = append(insp.Diagnostics,
					fmt.Sprintf("dependency %s of %s is not installed", dep, ref))
				continue
			}
			frag, err := store.ReadMetafile(depDir, store.MetaPath)
			if err != nil {
				if errors.Is(err, store.ErrNoMetafile) {
					continue
				}
				return nil, err
			}
			appendEntry(frag, dep.String(), ref.String(), &nodes[i])
		}
	}

	// Fixed fallback, always last.
	fallback := model.PathEntry{Value: RootBinDir, IsFallback: true}
	if first, ok := seen[RootBinDir]; ok {
		fallback.IsDuplicate = true
		fallback.DuplicateOf = first
	}
	insp.PathEntries = append(insp.PathEntries, fallback)

	values := make([]string, len(insp.PathEntries))
	for i, e := range insp.PathEntries {
		values[i] = e.Value
	}
	insp.ComposedPath = strings.Join(values, ":")
	insp.Nodes = nodes
	return insp, nil
}
