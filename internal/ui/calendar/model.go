// Package calendar is the month view of the dashboard.
package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	projection "github.com/nhle/whatsboard/internal/calendar"
	"github.com/nhle/whatsboard/internal/keys"
	"github.com/nhle/whatsboard/internal/model"
	"github.com/nhle/whatsboard/internal/theme"
	"github.com/nhle/whatsboard/internal/ui"
)

// maxListed is how many of the cursor day's tasks are listed under the grid.
const maxListed = 4

// Model shows one month with task markers and a day cursor. Paging the
// month leaves the cursor on its date; it is only highlighted while its
// month is in view.
type Model struct {
	keys      *keys.KeyMap
	projector *projection.Projector
	cursor    time.Time
	tasks     []model.Task
	today     func() time.Time
	focused   bool
	width     int
	height    int
}

// New creates a calendar on the current month with the cursor on today.
func New(k *keys.KeyMap, width, height int) Model {
	return newAt(k, time.Now, width, height)
}

func newAt(k *keys.KeyMap, today func() time.Time, width, height int) Model {
	now := today()
	return Model{
		keys:      k,
		projector: projection.NewProjector(now),
		cursor:    dateOnly(now),
		today:     today,
		width:     width,
		height:    height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles cursor movement, month navigation and selection.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Left):
		m.moveCursor(m.cursor.AddDate(0, 0, -1))
	case key.Matches(keyMsg, m.keys.Right):
		m.moveCursor(m.cursor.AddDate(0, 0, 1))
	case key.Matches(keyMsg, m.keys.Up):
		m.moveCursor(m.cursor.AddDate(0, 0, -7))
	case key.Matches(keyMsg, m.keys.Down):
		m.moveCursor(m.cursor.AddDate(0, 0, 7))
	case key.Matches(keyMsg, m.keys.PrevMonth):
		m.projector.Prev()
	case key.Matches(keyMsg, m.keys.NextMonth):
		m.projector.Next()
	case key.Matches(keyMsg, m.keys.Today):
		m.GoToToday()
	case key.Matches(keyMsg, m.keys.Select):
		due := projection.TasksForDate(m.tasks, m.cursor)
		if len(due) == 0 {
			return m, nil
		}
		id := due[0].ID
		return m, func() tea.Msg {
			return ui.SelectTaskMsg{TaskID: id}
		}
	}
	return m, nil
}

// moveCursor places the cursor on d, following it into another month.
func (m *Model) moveCursor(d time.Time) {
	m.cursor = d
	m.projector.Jump(d)
}

// GoToToday moves the cursor and the viewed month to today.
func (m *Model) GoToToday() {
	m.moveCursor(dateOnly(m.today()))
}

// SetTasks replaces the tasks projected onto the grid.
func (m *Model) SetTasks(tasks []model.Task) {
	m.tasks = tasks
}

// Cursor returns the highlighted date.
func (m Model) Cursor() time.Time {
	return m.cursor
}

// Month returns the first day of the viewed month.
func (m Model) Month() time.Time {
	return m.projector.Month()
}

// SetFocused marks whether the calendar receives keys.
func (m *Model) SetFocused(focused bool) {
	m.focused = focused
}

// SetSize updates the calendar dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// View renders the month grid and the cursor day's tasks.
func (m Model) View() string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		Render(fmt.Sprintf("‹ %s ›", m.projector.Label()))

	grid := projection.Render(m.projector.Month(), m.dayInfo(), projection.Options{
		HeaderStyle:   theme.CardTitleStyle,
		EmptyStyle:    theme.DimmedStyle,
		EntryStyle:    lipgloss.NewStyle().Foreground(theme.ColorWhite),
		TodayStyle:    theme.TodayStyle,
		SelectedStyle: theme.CursorDayStyle,
		DotStyle: func(p model.Priority) lipgloss.Style {
			return lipgloss.NewStyle().Foreground(theme.PriorityColor(p))
		},
		ShowHeader: true,
	})

	content := lipgloss.JoinVertical(lipgloss.Left, title, "", grid, "", m.dayTasks())

	style := theme.CardStyle
	if m.focused {
		style = theme.FocusedCardStyle
	}
	return style.Width(max(m.width-2, 10)).Render(content)
}

func (m Model) dayInfo() []projection.Day {
	index := m.projector.Index(m.tasks)
	now := m.today()
	month := m.projector.Month()

	days := m.projector.Days()
	info := make([]projection.Day, len(days))
	for i, d := range days {
		info[i] = projection.Day{
			Day:        d.Day(),
			Tasks:      index[d.Day()],
			IsToday:    sameDay(d, now),
			IsSelected: sameDay(d, m.cursor) && sameMonth(month, m.cursor),
		}
	}
	return info
}

func (m Model) dayTasks() string {
	header := theme.CardTitleStyle.Render(m.cursor.Format("Mon, Jan 2"))
	due := projection.TasksForDate(m.tasks, m.cursor)
	if len(due) == 0 {
		return header + "\n" + theme.DimmedStyle.Render("No tasks")
	}

	lines := []string{header}
	for i, t := range due {
		if i == maxListed {
			lines = append(lines, theme.DimmedStyle.Render(fmt.Sprintf("+%d more", len(due)-maxListed)))
			break
		}
		dot := lipgloss.NewStyle().Foreground(theme.PriorityColor(t.Priority)).Render("•")
		title := t.Title
		if t.Completed {
			title = theme.DimmedStyle.Strikethrough(true).Render(title)
		}
		lines = append(lines, dot+" "+title)
	}
	return strings.Join(lines, "\n")
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func sameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}
