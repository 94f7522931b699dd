package help

import (
	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/whatsboard/internal/keys"
	"github.com/nhle/whatsboard/internal/theme"
)

// Model is the help overlay view.
type Model struct {
	keys     *keys.KeyMap
	help     help.Model
	commands []string
	width    int
	height   int
}

// New creates a new help view model listing the key map and the
// command palette commands.
func New(keys *keys.KeyMap, commands []string, width, height int) Model {
	h := help.New()
	h.ShowAll = true
	m := Model{
		keys:     keys,
		help:     h,
		commands: commands,
	}
	m.SetSize(width, height)
	return m
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the help view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	return m, nil
}

// View renders the help overlay.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	sections := []string{
		titleStyle.Render("Keyboard Shortcuts"),
		m.help.View(m.keys),
	}

	if len(m.commands) > 0 {
		sections = append(sections, "", titleStyle.Render("Commands (:)"))
		for _, c := range m.commands {
			sections = append(sections, theme.DimmedStyle.Render("  "+c))
		}
	}

	return theme.DetailPanelStyle.
		Width(max(m.width-4, 10)).
		Height(max(m.height-4, 1)).
		Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

// SetSize updates the help view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width - 8
}
