package dashboard

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/whatsboard/internal/keys"
	"github.com/nhle/whatsboard/internal/model"
	"github.com/nhle/whatsboard/internal/store"
	"github.com/nhle/whatsboard/internal/theme"
	"github.com/nhle/whatsboard/internal/ui"
)

// messagesScale is the message count that fills the "Messages analyzed" bar.
const messagesScale = 100

// Stats are the dashboard counters derived from the current snapshot.
type Stats struct {
	Messages  int
	Tasks     int
	Completed int
	Urgent    int
}

// ComputeStats derives the counters for tasks and a message count.
func ComputeStats(tasks []model.Task, messages int) Stats {
	return Stats{
		Messages:  messages,
		Tasks:     len(tasks),
		Completed: store.CompletedCount(tasks),
		Urgent:    len(store.UrgentTasks(tasks)),
	}
}

// MessagesRatio fills the messages bar, capped at 1.
func (s Stats) MessagesRatio() float64 {
	return ratio(s.Messages, messagesScale)
}

// CompletionRatio is completed over total, 0 with no tasks.
func (s Stats) CompletionRatio() float64 {
	return ratio(s.Completed, s.Tasks)
}

// UrgentRatio is urgent over total, 0 with no tasks.
func (s Stats) UrgentRatio() float64 {
	return ratio(s.Urgent, s.Tasks)
}

func ratio(n, d int) float64 {
	if d <= 0 || n <= 0 {
		return 0
	}
	return min(float64(n)/float64(d), 1)
}

// Greeting returns the time-of-day salutation, with the user's name
// appended when set.
func Greeting(now time.Time, name string) string {
	var g string
	switch h := now.Hour(); {
	case h < 12:
		g = "Good morning"
	case h < 17:
		g = "Good afternoon"
	default:
		g = "Good evening"
	}
	if name = strings.TrimSpace(name); name != "" {
		g += ", " + name
	}
	return g
}

// Model is the dashboard overview: greeting, counter cards and the list
// of urgent tasks.
type Model struct {
	keys     *keys.KeyMap
	list     list.Model
	bar      progress.Model
	stats    Stats
	userName string
	now      func() time.Time
	focused  bool
	width    int
	height   int
}

// New creates a dashboard for userName.
func New(k *keys.KeyMap, userName string, width, height int) Model {
	l := list.New([]list.Item{}, ItemDelegate{}, width, height)
	l.Title = "Priority Tasks"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.SetStatusBarItemName("urgent task", "urgent tasks")
	l.Styles.Title = theme.HeaderStyle
	l.Styles.NoItems = theme.DimmedStyle.PaddingLeft(2)

	bar := progress.New(
		progress.WithDefaultGradient(),
		progress.WithoutPercentage(),
	)

	m := Model{
		keys:     k,
		list:     l,
		bar:      bar,
		userName: userName,
		now:      time.Now,
		focused:  true,
	}
	m.SetSize(width, height)
	return m
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the dashboard.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, m.keys.Select) {
		if item, ok := m.list.SelectedItem().(TaskItem); ok {
			id := item.Task.ID
			return m, func() tea.Msg {
				return ui.SelectTaskMsg{TaskID: id}
			}
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// SetTasks replaces the counters and the urgent list from a snapshot.
func (m *Model) SetTasks(tasks []model.Task, messages int) tea.Cmd {
	m.stats = ComputeStats(tasks, messages)

	urgent := store.UrgentTasks(tasks)
	items := make([]list.Item, len(urgent))
	for i, t := range urgent {
		items[i] = TaskItem{Task: t}
	}
	return m.list.SetItems(items)
}

// Stats returns the current counters.
func (m Model) Stats() Stats {
	return m.stats
}

// SelectedTask returns the highlighted urgent task.
func (m Model) SelectedTask() (model.Task, bool) {
	item, ok := m.list.SelectedItem().(TaskItem)
	if !ok {
		return model.Task{}, false
	}
	return item.Task, true
}

// SetFocused marks whether the urgent list receives keys.
func (m *Model) SetFocused(focused bool) {
	m.focused = focused
}

// SetSize updates the dashboard dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.bar.Width = max(cardWidth(width)-4, 4)
	m.list.SetSize(width-2, max(height-cardsHeight-3, 3))
}

// cardsHeight is the rendered height of the greeting and card row.
const cardsHeight = 7

func cardWidth(total int) int {
	return max(total/3, 16)
}

// View renders the dashboard.
func (m Model) View() string {
	greeting := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		Render(Greeting(m.now(), m.userName))

	cards := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.card("Messages Analyzed", fmt.Sprintf("%d", m.stats.Messages), m.stats.MessagesRatio(), "From your WhatsApp chats"),
		m.card("Task Progress", fmt.Sprintf("%d/%d", m.stats.Completed, m.stats.Tasks), m.stats.CompletionRatio(), "Tasks completed"),
		m.card("Urgent Tasks", fmt.Sprintf("%d", m.stats.Urgent), m.stats.UrgentRatio(), "Require immediate attention"),
	)

	style := theme.CardStyle
	if m.focused {
		style = theme.FocusedCardStyle
	}
	tasks := style.Width(max(m.width-2, 10)).Render(m.list.View())

	return lipgloss.JoinVertical(lipgloss.Left, greeting, cards, tasks)
}

func (m Model) card(title, value string, pct float64, caption string) string {
	w := cardWidth(m.width)
	body := lipgloss.JoinVertical(
		lipgloss.Left,
		theme.CardTitleStyle.Render(title),
		theme.BigNumberStyle.Render(value),
		m.bar.ViewAs(pct),
		theme.DimmedStyle.Render(caption),
	)
	return theme.CardStyle.Width(w - 2).MaxWidth(w).Render(body)
}
