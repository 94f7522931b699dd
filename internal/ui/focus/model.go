// Package focus renders the focus timer card and drives its ticks.
package focus

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/whatsboard/internal/keys"
	"github.com/nhle/whatsboard/internal/theme"
	"github.com/nhle/whatsboard/internal/timer"
)

// TickMsg advances the timer by one second if Epoch is still current.
type TickMsg struct {
	Epoch uint64
}

// tick schedules the next TickMsg one second from now.
func tick(epoch uint64) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return TickMsg{Epoch: epoch}
	})
}

// Model is the focus timer card.
type Model struct {
	keys  *keys.KeyMap
	timer *timer.Timer
	width int
}

// New wraps t.
func New(k *keys.KeyMap, t *timer.Timer, width int) Model {
	return Model{keys: k, timer: t, width: width}
}

// Init resumes ticking when the persisted state was running.
func (m Model) Init() tea.Cmd {
	if m.timer.State().IsRunning {
		return tick(m.timer.Epoch())
	}
	return nil
}

// Update handles timer ticks and the start/stop and reset keys.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TickMsg:
		if m.timer.Tick(msg.Epoch) {
			return m, tick(msg.Epoch)
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.TimerToggle):
			if epoch, started := m.timer.Toggle(); started {
				return m, tick(epoch)
			}
		case key.Matches(msg, m.keys.TimerReset):
			m.timer.Reset()
		}
	}
	return m, nil
}

// Start starts a stopped timer and schedules its first tick.
func (m Model) Start() tea.Cmd {
	if epoch, started := m.timer.Start(); started {
		return tick(epoch)
	}
	return nil
}

// Pause stops a running timer.
func (m Model) Pause() {
	m.timer.Stop()
}

// Reset stops the timer and zeroes it.
func (m Model) Reset() {
	m.timer.Reset()
}

// State returns the timer state.
func (m Model) State() timer.State {
	return m.timer.State()
}

// SetWidth updates the card width.
func (m *Model) SetWidth(width int) {
	m.width = width
}

// View renders the timer card.
func (m Model) View() string {
	st := m.timer.State()

	clock := theme.BigNumberStyle
	status := theme.DimmedStyle.Render("stopped")
	action := "start"
	if st.IsRunning {
		clock = clock.Foreground(theme.ColorGreen)
		status = lipgloss.NewStyle().Foreground(theme.ColorGreen).Render("running")
		action = "stop"
	}

	hints := theme.HelpStyle.Render(
		m.keys.TimerToggle.Help().Key + " " + action + " · " +
			m.keys.TimerReset.Help().Key + " reset",
	)

	body := lipgloss.JoinVertical(
		lipgloss.Left,
		theme.CardTitleStyle.Render("Focus Timer"),
		clock.Render(st.Display())+"  "+status,
		hints,
	)
	return theme.CardStyle.Width(max(m.width-2, 10)).Render(body)
}
