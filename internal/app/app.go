package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/whatsboard/internal/credential"
	"github.com/nhle/whatsboard/internal/keys"
	"github.com/nhle/whatsboard/internal/model"
	appsync "github.com/nhle/whatsboard/internal/sync"
	"github.com/nhle/whatsboard/internal/ui"
	aiview "github.com/nhle/whatsboard/internal/ui/ai"
	calendarview "github.com/nhle/whatsboard/internal/ui/calendar"
	"github.com/nhle/whatsboard/internal/ui/command"
	"github.com/nhle/whatsboard/internal/ui/dashboard"
	"github.com/nhle/whatsboard/internal/ui/detail"
	"github.com/nhle/whatsboard/internal/ui/focus"
	helpview "github.com/nhle/whatsboard/internal/ui/help"
	"github.com/nhle/whatsboard/internal/ui/markdown"
	"github.com/nhle/whatsboard/internal/ui/setup"
)

// unreadCountMsg carries the number of unread notifications to the UI.
type unreadCountMsg struct {
	count int
}

// snapshotMsg asks the root model to redraw from the Store.
type snapshotMsg struct{}

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewDashboard ViewState = iota
	ViewDetail
	ViewHelp
	ViewCommand
	ViewSetup
)

// Panel is the dashboard column receiving navigation keys.
type Panel int

const (
	PanelTasks Panel = iota
	PanelCalendar
)

// Commands are the command palette entries.
var Commands = []string{
	"refresh",
	"today",
	"timer start",
	"timer stop",
	"timer reset",
	"configure",
	"help",
	"quit",
}

// Model is the root Bubble Tea model. It owns the selected task and
// routes messages between the dashboard, calendar, timer and detail views.
type Model struct {
	ctx    context.Context
	cancel context.CancelFunc
	rt     *Runtime
	keys   *keys.KeyMap

	currentView  ViewState
	previousView ViewState
	panel        Panel
	layout       ui.Layout
	ready        bool

	dashboard   dashboard.Model
	calendar    calendarview.Model
	focus       focus.Model
	detail      detail.Model
	helpView    helpview.Model
	commandView command.Model
	setupView   setup.Model

	unreadCount int
	authExpired bool
	lastErr     error
	notice      string
}

// New creates the root model over a wired Runtime.
func New(rt *Runtime) Model {
	ctx, cancel := context.WithCancel(context.Background())
	k := keys.DefaultKeyMap()
	md := markdown.New(rt.Config.Display.Theme)
	session := rt.NewSession(model.Task{})

	m := Model{
		ctx:         ctx,
		cancel:      cancel,
		rt:          rt,
		keys:        k,
		currentView: ViewDashboard,
		dashboard:   dashboard.New(k, rt.Config.Display.UserName, 80, 24),
		calendar:    calendarview.New(k, 30, 24),
		focus:       focus.New(k, rt.Timer, 30),
		detail:      detail.New(ctx, rt.Summarizer, session, md, k, 80, 24),
		helpView:    helpview.New(k, Commands, 80, 24),
		commandView: command.New(Commands, 80, 24),
	}
	m.setPanel(PanelTasks)
	return m
}

// Init draws any cached snapshot, resumes a running timer and starts
// the refresh poller.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		func() tea.Msg { return snapshotMsg{} },
		m.focus.Init(),
		m.rt.Poller.Start(),
		m.fetchUnreadCount(),
	)
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		m.resize()
		if m.currentView == ViewSetup {
			return m.updateActiveView(msg)
		}
		return m, nil

	case snapshotMsg:
		return m, m.applySnapshot()

	case appsync.RefreshResultMsg:
		cmds := []tea.Cmd{m.rt.Poller.WaitForNextResult()}
		if msg.Error != nil {
			m.lastErr = msg.Error
			m.authExpired = msg.AuthExpired
		} else {
			m.lastErr = nil
			m.authExpired = false
			cmds = append(cmds, m.applySnapshot())
		}
		if len(msg.NewTasks) > 0 {
			cmds = append(cmds, m.fetchUnreadCount())
		}
		return m, tea.Batch(cmds...)

	case unreadCountMsg:
		m.unreadCount = msg.count
		return m, nil

	case ui.SelectTaskMsg:
		return m, m.selectTask(msg.TaskID)

	case detail.BackMsg:
		m.detail.Close()
		m.currentView = ViewDashboard
		return m, nil

	case aiview.SummaryMsg, aiview.ReplyMsg, spinner.TickMsg:
		var cmd tea.Cmd
		m.detail, cmd = m.detail.Update(msg)
		return m, cmd

	case focus.TickMsg:
		var cmd tea.Cmd
		m.focus, cmd = m.focus.Update(msg)
		return m, cmd

	case command.CommandMsg:
		m.currentView = m.previousView
		return m, m.executeCommand(string(msg))

	case command.CancelMsg:
		m.currentView = m.previousView
		return m, nil

	case setup.DoneMsg:
		m.currentView = ViewDashboard
		if msg.Err != nil {
			m.notice = fmt.Sprintf("saving configuration failed: %v", msg.Err)
			return m, nil
		}
		m.rt.Config = msg.Config
		m.notice = "configuration saved; restart to apply source changes"
		return m, nil

	case setup.CancelMsg:
		m.currentView = ViewDashboard
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	return m.updateActiveView(msg)
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, m.quit()
	}

	// Views with text input get every other key.
	switch {
	case m.currentView == ViewCommand, m.currentView == ViewSetup:
		return m.updateActiveView(msg)
	case m.currentView == ViewDetail && m.detail.ActiveTab() == detail.TabChat:
		return m.updateActiveView(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.currentView == ViewDashboard {
			return m, m.quit()
		}

	case key.Matches(msg, m.keys.Help):
		if m.currentView == ViewHelp {
			m.currentView = m.previousView
			return m, nil
		}
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return m, nil

	case key.Matches(msg, m.keys.Command):
		m.previousView = m.currentView
		m.currentView = ViewCommand
		return m, m.commandView.Focus()
	}

	switch m.currentView {
	case ViewHelp:
		if key.Matches(msg, m.keys.Back) {
			m.currentView = m.previousView
		}
		return m, nil

	case ViewDashboard:
		m.notice = ""
		switch {
		case key.Matches(msg, m.keys.Refresh):
			return m, m.rt.Poller.RefreshNow()
		case key.Matches(msg, m.keys.TimerToggle), key.Matches(msg, m.keys.TimerReset):
			var cmd tea.Cmd
			m.focus, cmd = m.focus.Update(msg)
			return m, cmd
		case key.Matches(msg, m.keys.NextPanel):
			if m.panel == PanelTasks {
				m.setPanel(PanelCalendar)
			} else {
				m.setPanel(PanelTasks)
			}
			return m, nil
		}
	}

	return m.updateActiveView(msg)
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewDashboard:
		if m.panel == PanelCalendar {
			m.calendar, cmd = m.calendar.Update(msg)
		} else {
			m.dashboard, cmd = m.dashboard.Update(msg)
		}
	case ViewDetail:
		m.detail, cmd = m.detail.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	case ViewCommand:
		m.commandView, cmd = m.commandView.Update(msg)
	case ViewSetup:
		m.setupView, cmd = m.setupView.Update(msg)
	}

	return m, cmd
}

// selectTask opens the detail view for id. Only one task is ever
// selected; opening another replaces it and restarts its chat.
func (m *Model) selectTask(id string) tea.Cmd {
	t, ok := m.rt.Store.TaskByID(id)
	if !ok {
		return nil
	}
	m.currentView = ViewDetail
	return tea.Batch(m.detail.Open(t), m.markRead(id))
}

// applySnapshot pushes the Store contents into every view.
func (m *Model) applySnapshot() tea.Cmd {
	tasks := m.rt.Store.Tasks()
	cmd := m.dashboard.SetTasks(tasks, m.rt.Store.MessageCount())
	m.calendar.SetTasks(tasks)

	if cur, open := m.detail.Task(); open {
		if t, ok := m.rt.Store.TaskByID(cur.ID); ok {
			m.detail.UpdateTask(t)
		}
	}
	return cmd
}

func (m *Model) setPanel(p Panel) {
	m.panel = p
	m.dashboard.SetFocused(p == PanelTasks)
	m.calendar.SetFocused(p == PanelCalendar)
}

// resize lays the views out for the current terminal size.
func (m *Model) resize() {
	width := m.layout.ContentWidth()
	height := m.layout.ContentHeight()
	left, right := m.layout.Split()

	m.dashboard.SetSize(left, height)
	m.focus.SetWidth(right)
	m.calendar.SetSize(right, max(height-lipgloss.Height(m.focus.View()), 0))
	m.detail.SetSize(width, height)
	m.helpView.SetSize(width, height)
	m.commandView.SetSize(width, height)
}

// quit stops background work and exits. The timer keeps its persisted
// state.
func (m Model) quit() tea.Cmd {
	m.rt.Poller.Stop()
	m.cancel()
	return tea.Quit
}

// fetchUnreadCount returns a tea.Cmd that counts unread notifications.
func (m Model) fetchUnreadCount() tea.Cmd {
	rt, ctx := m.rt, m.ctx
	return func() tea.Msg {
		return unreadCountMsg{count: rt.UnreadCount(ctx)}
	}
}

// markRead clears the notifications of a task, then recounts.
func (m Model) markRead(taskID string) tea.Cmd {
	rt, ctx := m.rt, m.ctx
	return func() tea.Msg {
		rt.MarkRead(ctx, taskID)
		return unreadCountMsg{count: rt.UnreadCount(ctx)}
	}
}

// executeCommand handles a command string from the command palette.
func (m *Model) executeCommand(cmd string) tea.Cmd {
	switch cmd {
	case "refresh", "sync":
		return m.rt.Poller.RefreshNow()
	case "today":
		m.calendar.GoToToday()
		return nil
	case "timer start", "start":
		return m.focus.Start()
	case "timer stop", "stop":
		m.focus.Pause()
		return nil
	case "timer reset", "reset":
		m.focus.Reset()
		return nil
	case "configure", "config":
		m.setupView = setup.New(m.rt.Config, m.rt.ConfigPath, credential.Set,
			m.layout.ContentWidth(), m.layout.ContentHeight())
		m.currentView = ViewSetup
		return m.setupView.Init()
	case "help":
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return nil
	case "quit", "q":
		return m.quit()
	default:
		m.notice = fmt.Sprintf("unknown command: %s", cmd)
		return nil
	}
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	title := "WhatsBoard"
	if m.unreadCount > 0 {
		title = fmt.Sprintf("WhatsBoard [%d new]", m.unreadCount)
	}
	header := m.layout.RenderHeader(title, m.syncStatus())

	var bar string
	switch {
	case m.lastErr != nil && m.currentView == ViewDashboard:
		bar = m.layout.RenderErrorBar("refresh failed: " + m.lastErr.Error())
	case m.notice != "":
		bar = m.layout.RenderStatusBar(m.notice)
	default:
		bar = m.layout.RenderStatusBar(m.keyHints())
	}

	return m.layout.RenderWithFrame(header, m.renderContent(), bar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewDashboard:
		right := lipgloss.JoinVertical(lipgloss.Left, m.focus.View(), m.calendar.View())
		return lipgloss.JoinHorizontal(lipgloss.Top, m.dashboard.View(), right)
	case ViewDetail:
		return m.detail.View()
	case ViewHelp:
		return m.helpView.View()
	case ViewCommand:
		return m.commandView.View()
	case ViewSetup:
		return m.setupView.View()
	default:
		return ""
	}
}

// syncStatus describes the last refresh for the header.
func (m Model) syncStatus() string {
	if m.authExpired {
		return "authentication expired"
	}
	status := m.rt.Poller.Status()
	switch status.State {
	case appsync.SyncRunning:
		return "syncing"
	case appsync.SyncError:
		return "offline"
	}
	if status.LastSync.IsZero() {
		if at := m.rt.Store.FetchedAt(); !at.IsZero() {
			return "cached " + at.Local().Format("Jan 2 15:04")
		}
		return "waiting for data"
	}
	return "updated " + status.LastSync.Local().Format("15:04:05")
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewCommand:
		return "enter execute | esc cancel"
	case ViewSetup:
		return "enter next | esc cancel"
	case ViewDetail:
		if m.detail.ActiveTab() == detail.TabChat {
			return "enter send | tab analysis | esc back"
		}
		return "tab chat | g regenerate | j/k scroll | esc back"
	default:
		hints := []string{"q quit", "? help", ": command", "r refresh", "s timer", "x reset", "tab panel"}
		if m.panel == PanelCalendar {
			hints = append(hints, "[ ] month", "t today")
		}
		return strings.Join(hints, " | ")
	}
}
