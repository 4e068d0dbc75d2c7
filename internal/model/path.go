package model

// PathEntry represents a single directory in the composed studio PATH.
type PathEntry struct {
	Value       string // The directory path (e.g. /hab/pkgs/core/bash/5.1/20240101/bin)
	Package     string // Package whose PATH metafile contributed this entry
	Via         string // Non-empty if contributed through Via's transitive deps
	IsDuplicate bool   // True if an earlier entry has the same value
	DuplicateOf int    // Index of the original entry if this is a duplicate
	IsFallback  bool   // True for the fixed trailing root binary directory

	// Flow attribution
	NodeID string // ID of the PackageNode this belongs to
}

// PackageNode represents one path-contributing package in composition order.
type PackageNode struct {
	ID      string   // e.g. "node-1"
	Ref     string   // e.g. "core/hab"
	Ident   string   // Fully-qualified ident from the IDENT metafile, if present
	Deps    []string // Direct dependency idents from the DEPS metafile
	Order   int      // Sequence order (1, 2, 3...)
	Entries []int    // Indices of PathEntries contributed by this node
	Missing bool     // True when the package is not installed under the root
	NoPath  bool     // True when the package carries no PATH metafile
}

// Inspection contains the processed view of a provisioned studio root.
type Inspection struct {
	Root         string
	ComposedPath string
	PathEntries  []PathEntry
	Nodes        []PackageNode
	Diagnostics  []string
}
