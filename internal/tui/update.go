package tui

import (
	"os"
	"path/filepath"
	"strings"

	"habstudio/internal/model"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// MsgInspectReady indicates that the studio inspection has completed.
type MsgInspectReady model.Inspection

// MsgError indicates an error occurred.
type MsgError error

// inspectCmd runs the inspection in the background.
func (m AppModel) inspectCmd() tea.Cmd {
	return func() tea.Msg {
		insp, err := m.Inspector.Inspect(m.Requested)
		if err != nil {
			return MsgError(err)
		}
		return MsgInspectReady(*insp)
	}
}

// Update handles events.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.WindowSize = msg
		m.DetailsViewport.Width = msg.Width / 2
		m.DetailsViewport.Height = msg.Height - 4 // minus footer/header
		return m, nil

	case MsgInspectReady:
		m.Loading = false
		m.Inspection = model.Inspection(msg)
		// Show everything until a search narrows it down.
		m.FilteredIndices = make([]int, len(m.Inspection.PathEntries))
		for i := range m.Inspection.PathEntries {
			m.FilteredIndices[i] = i
		}
		if len(m.FilteredIndices) > 0 {
			m.SelectedIdx = 0
		}
		return m, nil

	case MsgError:
		m.Err = msg
		m.Loading = false
		return m, nil

	case tea.KeyMsg:
		if m.InputMode {
			switch msg.Type {
			case tea.KeyEnter:
				m.InputMode = false
				m.performSearch()
				return m, nil
			case tea.KeyEsc:
				m.InputMode = false
				m.InputBuffer.Blur()
				m.SearchActive = false
				m.InputBuffer.SetValue("")
				m.performSearch() // Reset filter to all
				return m, nil
			}
			m.InputBuffer, cmd = m.InputBuffer.Update(msg)
			return m, cmd
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "esc":
			if m.SearchActive {
				m.InputMode = false
				m.InputBuffer.Blur()
				m.SearchActive = false
				m.InputBuffer.SetValue("")
				m.performSearch()
				return m, nil
			}
			if m.ShowFlow {
				m.ShowFlow = false
				return m, nil
			}
		case "up", "k":
			if m.ShowFlow {
				if m.FlowSelectedIdx > 0 {
					m.FlowSelectedIdx--
				}
			} else {
				if m.SelectedIdx > 0 {
					m.SelectedIdx--
				}
			}
		case "down", "j":
			if m.ShowFlow {
				if m.FlowSelectedIdx < len(m.Inspection.Nodes)-1 {
					m.FlowSelectedIdx++
				}
			} else {
				if m.SelectedIdx < len(m.FilteredIndices)-1 {
					m.SelectedIdx++
				}
			}
		case "d":
			m.ShowDiagnostics = !m.ShowDiagnostics
			m.ShowFlow = false
		case "f":
			m.ShowFlow = !m.ShowFlow
			m.ShowDiagnostics = false
			if len(m.Inspection.Nodes) > 0 && m.FlowSelectedIdx >= len(m.Inspection.Nodes) {
				m.FlowSelectedIdx = 0
			}
		case "r":
			m.Loading = true
			return m, m.inspectCmd()
		case "w":
			m.InputMode = true
			m.InputBuffer.Focus()
			m.InputBuffer.SetValue("")
			return m, textinput.Blink
		}
	}

	return m, cmd
}

// performSearch filters the entry list to directories holding a binary
// whose name starts with the typed term. Directories are resolved under
// the studio root, so this works from outside the studio.
func (m *AppModel) performSearch() {
	term := strings.ToLower(m.InputBuffer.Value())
	if term == "" {
		m.SearchActive = false
		m.FilteredIndices = make([]int, len(m.Inspection.PathEntries))
		for i := range m.Inspection.PathEntries {
			m.FilteredIndices[i] = i
		}
	} else {
		m.SearchActive = true
		var result []int
		for i, entry := range m.Inspection.PathEntries {
			dir := filepath.Join(m.Inspection.Root, entry.Value)
			files, err := os.ReadDir(dir)
			if err != nil {
				// Missing directories can't hold a match.
				continue
			}
			for _, f := range files {
				if f.IsDir() {
					continue
				}
				if strings.HasPrefix(strings.ToLower(f.Name()), term) {
					result = append(result, i)
					break
				}
			}
		}
		m.FilteredIndices = result
	}

	// Bounds check
	if m.SelectedIdx >= len(m.FilteredIndices) {
		if len(m.FilteredIndices) > 0 {
			m.SelectedIdx = len(m.FilteredIndices) - 1
		} else {
			m.SelectedIdx = 0
		}
	}
}
