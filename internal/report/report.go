// Package report renders a studio inspection as a plain-text diagnostic
// report suitable for stdout or a file.
package report

import (
	"fmt"
	"strings"

	"habstudio/internal/model"
)

// Generate renders the inspection. Verbose adds metafile-level detail for
// each package node.
func Generate(insp *model.Inspection, verbose bool) string {
	var b strings.Builder

	fmt.Fprintf(&b, "habstudio %s — studio inspection\n", model.Version)
	fmt.Fprintf(&b, "Root: %s\n\n", insp.Root)

	b.WriteString("Composed PATH (in resolution order):\n")
	for i, e := range insp.PathEntries {
		marker := " "
		switch {
		case e.IsDuplicate:
			marker = model.IconDuplicate
		case e.IsFallback:
			marker = model.IconFallback
		case e.Via != "":
			marker = model.IconDep
		}
		fmt.Fprintf(&b, "  %2d %s %s", i+1, marker, e.Value)
		switch {
		case e.IsFallback:
			b.WriteString("  (fixed fallback)")
		case e.Via != "":
			fmt.Fprintf(&b, "  (%s via %s)", e.Package, e.Via)
		default:
			fmt.Fprintf(&b, "  (%s)", e.Package)
		}
		if e.IsDuplicate {
			fmt.Fprintf(&b, "  duplicate of #%d", e.DuplicateOf+1)
		}
		b.WriteByte('\n')
	}

	b.WriteString("\nPackage contribution order:\n")
	for _, n := range insp.Nodes {
		status := ""
		switch {
		case n.Missing:
			status = "  [not installed]"
		case n.NoPath:
			status = "  [no PATH metafile]"
		}
		fmt.Fprintf(&b, "  %d. %s (%d entries)%s\n", n.Order, n.Ref, len(n.Entries), status)
		if verbose && n.Ident != "" {
			fmt.Fprintf(&b, "     ident: %s\n", n.Ident)
		}
		if verbose && len(n.Deps) > 0 {
			fmt.Fprintf(&b, "     deps:  %s\n", strings.Join(n.Deps, ", "))
		}
	}

	if len(insp.Diagnostics) > 0 {
		b.WriteString("\nDiagnostics:\n")
		for _, d := range insp.Diagnostics {
			fmt.Fprintf(&b, "  - %s\n", d)
		}
	}

	return b.String()
}
