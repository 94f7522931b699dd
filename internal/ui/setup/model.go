package setup

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/nhle/whatsboard/internal/model"
	"github.com/nhle/whatsboard/internal/theme"
)

// DoneMsg reports the outcome of a submitted form. Config is the saved
// configuration when Err is nil.
type DoneMsg struct {
	Config *model.AppConfig
	Err    error
}

// CancelMsg reports that the form was aborted.
type CancelMsg struct{}

// Model embeds the configuration form in the TUI.
type Model struct {
	form   *huh.Form
	values *Values
	cfg    model.AppConfig
	path   string
	set    SecretSetter
	width  int
	height int
}

// New creates a form editing a copy of cfg, saved to path on submit.
func New(cfg *model.AppConfig, path string, set SecretSetter, width, height int) Model {
	v := FromConfig(cfg)
	return Model{
		form:   NewForm(v, formWidth(width)),
		values: v,
		cfg:    *cfg,
		path:   path,
		set:    set,
		width:  width,
		height: height,
	}
}

func formWidth(w int) int {
	return max(min(w-8, 80), 30)
}

// Init starts the form.
func (m Model) Init() tea.Cmd {
	return m.form.Init()
}

// Update forwards messages to the form and reports completion.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		cfg := m.cfg
		path, v, set := m.path, m.values, m.set
		return m, func() tea.Msg {
			if err := Save(path, &cfg, v, set); err != nil {
				return DoneMsg{Err: err}
			}
			return DoneMsg{Config: &cfg}
		}
	case huh.StateAborted:
		return m, func() tea.Msg { return CancelMsg{} }
	}
	return m, cmd
}

// View renders the form.
func (m Model) View() string {
	return theme.DetailPanelStyle.
		Width(max(m.width-4, 10)).
		Render(m.form.View())
}
