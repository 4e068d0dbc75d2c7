package tui

import (
	"habstudio/internal/model"
	"habstudio/internal/studio"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// AppModel holds the TUI state.
type AppModel struct {
	// Data
	Inspector  *studio.Inspector
	Requested  []model.Ref
	Inspection model.Inspection
	Loading    bool
	Err        error

	// UI State
	SelectedIdx     int
	FlowSelectedIdx int // Index of selected package node in Flow Mode
	WindowSize      tea.WindowSizeMsg

	// View Modes
	ShowDiagnostics bool
	ShowFlow        bool

	// Search State
	InputMode       bool
	InputBuffer     textinput.Model
	FilteredIndices []int // Indices of PathEntries to show
	SearchActive    bool

	// Components
	DetailsViewport viewport.Model
}

// InitialModel returns the initial state.
func InitialModel(inspector *studio.Inspector, requested []model.Ref) AppModel {
	ti := textinput.New()
	ti.Placeholder = "Binary name..."
	ti.CharLimit = 50
	ti.Width = 20

	return AppModel{
		Inspector:   inspector,
		Requested:   requested,
		Loading:     true,
		InputBuffer: ti,
		SelectedIdx: 0,
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.inspectCmd()
}
