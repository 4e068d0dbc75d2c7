package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"habstudio/internal/model"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	dimmedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	normalStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	warnStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("208")) // Orange
	depStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("81"))  // Sky Blue/Cyan

	paneStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("63"))
)

func (m AppModel) View() string {
	if m.Loading {
		return "\n  Inspecting studio... please wait.\n"
	}
	if m.Err != nil {
		return fmt.Sprintf("\n  Error: %v\n", m.Err)
	}

	width := m.WindowSize.Width
	height := m.WindowSize.Height

	netWidth := width - 6
	if netWidth < 20 {
		netWidth = 20
	}
	leftWidth := netWidth / 2
	rightWidth := netWidth - leftWidth

	boxHeight := height - 6
	if boxHeight < 6 {
		boxHeight = 6
	}
	interiorHeight := boxHeight - 2
	if interiorHeight < 2 {
		interiorHeight = 2
	}

	left := m.renderEntries(interiorHeight)

	var right string
	switch {
	case m.ShowDiagnostics:
		right = m.renderDiagnostics()
	case m.ShowFlow:
		right = m.renderFlow(interiorHeight)
	default:
		right = m.renderDetails()
	}

	panes := lipgloss.JoinHorizontal(lipgloss.Top,
		paneStyle.Width(leftWidth).Height(interiorHeight).Render(left),
		paneStyle.Width(rightWidth).Height(interiorHeight).Render(right),
	)

	header := headerStyle.Render(fmt.Sprintf(" habstudio %s — %s ", model.Version, m.Inspection.Root))

	footer := dimmedStyle.Render("↑/↓ select · f flow · d diagnostics · w find binary · r refresh · q quit")
	if m.InputMode {
		footer = "Find binary: " + m.InputBuffer.View()
	} else if m.SearchActive {
		footer = fmt.Sprintf("Filter %q (%d matches) · esc clear · %s",
			m.InputBuffer.Value(), len(m.FilteredIndices), footer)
	}

	return header + "\n" + panes + "\n" + footer
}

// renderEntries draws the left panel: the composed PATH in order.
func (m AppModel) renderEntries(interiorHeight int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Composed PATH"))
	b.WriteString("\n\n")

	// Windowing: keep the selection roughly centered.
	visible := interiorHeight - 2
	if visible < 1 {
		visible = 1
	}
	start := 0
	end := len(m.FilteredIndices)
	if len(m.FilteredIndices) > visible {
		if m.SelectedIdx >= visible/2 {
			start = m.SelectedIdx - visible/2
		}
		if start+visible > len(m.FilteredIndices) {
			start = len(m.FilteredIndices) - visible
		}
		if start < 0 {
			start = 0
		}
		end = start + visible
	}

	for i := start; i < end; i++ {
		entry := m.Inspection.PathEntries[m.FilteredIndices[i]]

		icon := model.IconOK
		switch {
		case entry.IsDuplicate:
			icon = model.IconDuplicate
		case entry.IsFallback:
			icon = model.IconFallback
		case entry.Via != "":
			icon = model.IconDep
		}
		if _, err := os.Stat(filepath.Join(m.Inspection.Root, entry.Value)); err != nil && !entry.IsFallback {
			icon = model.IconMissing
		}

		line := fmt.Sprintf("%s %s", icon, entry.Value)
		switch {
		case i == m.SelectedIdx:
			line = selectedStyle.Render(line)
		case entry.IsDuplicate:
			line = dimmedStyle.Render(line)
		case entry.Via != "":
			line = depStyle.Render(line)
		default:
			line = normalStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}

	if len(m.FilteredIndices) == 0 {
		b.WriteString(dimmedStyle.Render("(no matching entries)"))
	}
	return b.String()
}

// renderDetails draws the right panel for the selected entry.
func (m AppModel) renderDetails() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Entry Details"))
	b.WriteString("\n\n")

	if len(m.FilteredIndices) == 0 || m.SelectedIdx >= len(m.FilteredIndices) {
		b.WriteString(dimmedStyle.Render("Nothing selected."))
		return b.String()
	}
	idx := m.FilteredIndices[m.SelectedIdx]
	entry := m.Inspection.PathEntries[idx]

	fmt.Fprintf(&b, "Directory:  %s\n", entry.Value)
	fmt.Fprintf(&b, "Position:   %d of %d\n", idx+1, len(m.Inspection.PathEntries))

	switch {
	case entry.IsFallback:
		b.WriteString("Source:     fixed root fallback (always last)\n")
	case entry.Via != "":
		fmt.Fprintf(&b, "Package:    %s\n", entry.Package)
		fmt.Fprintf(&b, "Via:        transitive dep of %s\n", entry.Via)
	default:
		fmt.Fprintf(&b, "Package:    %s (own PATH metafile)\n", entry.Package)
	}

	if entry.IsDuplicate {
		b.WriteString(warnStyle.Render(
			fmt.Sprintf("\nDuplicate of entry #%d — this copy never wins a lookup.", entry.DuplicateOf+1)))
		b.WriteByte('\n')
	}

	resolved := filepath.Join(m.Inspection.Root, entry.Value)
	if files, err := os.ReadDir(resolved); err == nil {
		fmt.Fprintf(&b, "\nContains %d entries under the root.\n", len(files))
	} else {
		b.WriteString(warnStyle.Render("\nDirectory does not exist under the root.\n"))
	}
	return b.String()
}

// renderFlow draws the package contribution order.
func (m AppModel) renderFlow(interiorHeight int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Package Flow"))
	b.WriteString("\n\n")

	for i, n := range m.Inspection.Nodes {
		status := ""
		switch {
		case n.Missing:
			status = " [not installed]"
		case n.NoPath:
			status = " [no PATH]"
		}
		line := fmt.Sprintf("%d. %s (%d entries)%s", n.Order, n.Ref, len(n.Entries), status)
		if i == m.FlowSelectedIdx {
			line = selectedStyle.Render(line)
		} else if n.Missing || n.NoPath {
			line = warnStyle.Render(line)
		} else {
			line = normalStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}

	if m.FlowSelectedIdx < len(m.Inspection.Nodes) {
		n := m.Inspection.Nodes[m.FlowSelectedIdx]
		if n.Ident != "" {
			b.WriteString(dimmedStyle.Render("\nident: " + n.Ident))
		}
	}
	return b.String()
}

func (m AppModel) renderDiagnostics() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Diagnostics"))
	b.WriteString("\n\n")

	if len(m.Inspection.Diagnostics) == 0 {
		b.WriteString(normalStyle.Render("No issues found."))
		return b.String()
	}
	for _, d := range m.Inspection.Diagnostics {
		b.WriteString(warnStyle.Render("• " + d))
		b.WriteByte('\n')
	}
	return b.String()
}

var _ tea.Model = AppModel{}
