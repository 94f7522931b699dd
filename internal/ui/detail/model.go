package detail

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	aiservice "github.com/nhle/whatsboard/internal/ai"
	"github.com/nhle/whatsboard/internal/keys"
	"github.com/nhle/whatsboard/internal/model"
	"github.com/nhle/whatsboard/internal/theme"
	aiview "github.com/nhle/whatsboard/internal/ui/ai"
	"github.com/nhle/whatsboard/internal/ui/dashboard"
	"github.com/nhle/whatsboard/internal/ui/markdown"
)

// BackMsg signals the parent to close the detail view.
type BackMsg struct{}

// Tab is a detail view tab.
type Tab int

const (
	TabAnalysis Tab = iota
	TabChat
)

func (t Tab) String() string {
	if t == TabChat {
		return "Chat"
	}
	return "AI Analysis"
}

// Model is the task detail view: task metadata above an AI Analysis tab
// and a Chat tab.
type Model struct {
	task     model.Task
	open     bool
	tab      Tab
	analysis aiview.Analysis
	chat     aiview.Chat
	viewport viewport.Model
	keys     *keys.KeyMap
	now      func() time.Time
	width    int
	height   int
}

// New creates a detail view. The summarizer and session back the two tabs.
func New(
	ctx context.Context,
	summarizer *aiservice.Summarizer,
	session *aiservice.Session,
	md *markdown.Renderer,
	k *keys.KeyMap,
	width, height int,
) Model {
	vp := viewport.New(width, height)
	vp.Style = lipgloss.NewStyle()

	m := Model{
		analysis: aiview.NewAnalysis(ctx, summarizer, md, width),
		chat:     aiview.NewChat(ctx, session, md, width, height),
		viewport: vp,
		keys:     k,
		now:      time.Now,
	}
	m.SetSize(width, height)
	return m
}

// Init returns the initial command for the detail view.
func (m Model) Init() tea.Cmd {
	return nil
}

// Open shows t on the analysis tab, restarts the chat for it and
// requests a fresh summary.
func (m *Model) Open(t model.Task) tea.Cmd {
	m.task = t
	m.open = true
	m.tab = TabAnalysis
	m.chat.Blur()
	m.chat.Reset(t)
	cmd := m.analysis.Load(t)
	m.SetSize(m.width, m.height)
	m.refresh()
	m.viewport.GotoTop()
	return cmd
}

// Close hides the view. Replies still in flight are dropped on arrival.
func (m *Model) Close() {
	m.open = false
	m.chat.Blur()
	m.chat.Reset(model.Task{})
}

// Task returns the task being shown.
func (m Model) Task() (model.Task, bool) {
	return m.task, m.open
}

// ActiveTab returns the visible tab.
func (m Model) ActiveTab() Tab {
	return m.tab
}

// UpdateTask refreshes the metadata of the shown task after a data
// refresh without restarting the analysis or chat.
func (m *Model) UpdateTask(t model.Task) {
	if !m.open || t.ID != m.task.ID {
		return
	}
	m.task = t
	m.SetSize(m.width, m.height)
	m.refresh()
}

// Update handles messages for the detail view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case aiview.SummaryMsg:
		var cmd tea.Cmd
		m.analysis, cmd = m.analysis.Update(msg)
		m.refresh()
		return m, cmd

	case aiview.ReplyMsg:
		var cmd tea.Cmd
		m.chat, cmd = m.chat.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	// Spinner ticks and the like go to both tabs; each ignores what
	// is not its own.
	var aCmd, cCmd tea.Cmd
	m.analysis, aCmd = m.analysis.Update(msg)
	m.chat, cCmd = m.chat.Update(msg)
	if m.tab == TabAnalysis {
		m.refresh()
	}
	return m, tea.Batch(aCmd, cCmd)
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		return m, func() tea.Msg {
			return BackMsg{}
		}

	case key.Matches(msg, m.keys.NextTab):
		if m.tab == TabAnalysis {
			m.tab = TabChat
			return m, m.chat.Focus()
		}
		m.tab = TabAnalysis
		m.chat.Blur()
		return m, nil
	}

	if m.tab == TabChat {
		var cmd tea.Cmd
		m.chat, cmd = m.chat.Update(msg)
		return m, cmd
	}

	if key.Matches(msg, m.keys.Regenerate) && !m.analysis.Loading() {
		cmd := m.analysis.Load(m.task)
		m.refresh()
		return m, cmd
	}

	// Delegate to viewport for scrolling (j/k, up/down, pgup/pgdn)
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// refresh re-renders the analysis tab content into the viewport.
func (m *Model) refresh() {
	offset := m.viewport.YOffset
	m.viewport.SetContent(m.analysis.View())
	m.viewport.SetYOffset(offset)
}

// View renders the detail view.
func (m Model) View() string {
	if !m.open {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray).
			Render("No task selected")
	}

	var body string
	if m.tab == TabChat {
		body = m.chat.View()
	} else {
		body = m.viewport.View()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderHeader(),
		m.renderTabs(),
		body,
	)
}

// renderHeader builds the title, metadata and links block.
func (m Model) renderHeader() string {
	task := m.task
	var sections []string

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	sections = append(sections, titleStyle.Render(task.Title)+" "+theme.PriorityBadge(task.Priority))

	metaStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)
	valStyle := lipgloss.NewStyle().Foreground(theme.ColorWhite)
	row := func(label, value string) {
		if value == "" {
			return
		}
		sections = append(sections, fmt.Sprintf("%s %s", metaStyle.Render(fmt.Sprintf("%-10s", label+":")), valStyle.Render(value)))
	}

	from := task.From
	if task.IsGroup {
		from = strings.TrimSpace(from + " (Group chat)")
	} else if from != "" {
		from += " (Direct message)"
	}
	row("From", from)
	row("Deadline", deadline(task))
	row("Category", task.Category)

	var status []string
	if task.Completed {
		status = append(status, "Completed")
	}
	if task.Reminded {
		status = append(status, "Reminder sent")
	} else {
		status = append(status, "No reminder sent")
	}
	if ago := dashboard.RelativeTime(task.CreatedAt, m.now()); ago != "" {
		status = append(status, "Created "+ago)
	}
	sections = append(sections, metaStyle.Render(strings.Join(status, " · ")))

	if task.Snippet != "" {
		quote := lipgloss.NewStyle().
			Foreground(theme.ColorWhite).
			Italic(true).
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(theme.ColorSubtle).
			PaddingLeft(1).
			Width(max(m.width-2, 10))
		sections = append(sections, "", quote.Render(task.Snippet))
	}

	if len(task.Links) > 0 {
		sections = append(sections, "", metaStyle.Render("Related links"))
		linkStyle := lipgloss.NewStyle().Foreground(theme.ColorBlue).Underline(true)
		for i, link := range task.Links {
			sections = append(sections, fmt.Sprintf("%d. %s", i+1, linkStyle.Render(link)))
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderTabs() string {
	var tabs []string
	for _, t := range []Tab{TabAnalysis, TabChat} {
		style := theme.TabStyle
		if t == m.tab {
			style = theme.ActiveTabStyle
		}
		tabs = append(tabs, style.Render(t.String()))
	}
	strip := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
	sep := lipgloss.NewStyle().Foreground(theme.ColorSubtle).
		Render(strings.Repeat("─", max(min(m.width, 80), 1)))
	return "\n" + strip + "\n" + sep
}

// headerHeight estimates the lines above the tab body.
func (m Model) headerHeight() int {
	if !m.open {
		return 0
	}
	return lipgloss.Height(m.renderHeader()) + lipgloss.Height(m.renderTabs())
}

func deadline(t model.Task) string {
	switch {
	case t.HasDeadline() && t.Time != "":
		return t.Deadline.Format("Mon, Jan 2 2006") + " at " + t.Time
	case t.HasDeadline():
		return t.Deadline.Format("Mon, Jan 2 2006")
	default:
		return t.Time
	}
}

// SetSize updates the detail view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	body := max(height-m.headerHeight(), 4)
	m.viewport.Width = width
	m.viewport.Height = body
	m.analysis.SetWidth(width)
	m.chat.SetSize(width, body)
}
