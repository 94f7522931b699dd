package dashboard

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/whatsboard/internal/model"
	"github.com/nhle/whatsboard/internal/theme"
)

// TaskItem wraps a model.Task so it can be used in a bubbles/list.
type TaskItem struct {
	Task model.Task
}

// FilterValue returns the string used for fuzzy filtering.
func (i TaskItem) FilterValue() string { return i.Task.Title }

// Title returns the task title for the list.
func (i TaskItem) Title() string { return i.Task.Title }

// Description returns the second line of an urgent-task card.
func (i TaskItem) Description() string {
	var parts []string
	if i.Task.From != "" {
		parts = append(parts, "From "+i.Task.From)
	}
	if i.Task.HasDeadline() {
		parts = append(parts, i.Task.Deadline.Format("2006-01-02"))
	}
	if i.Task.Time != "" {
		parts = append(parts, i.Task.Time)
	}
	if i.Task.Category != "" {
		parts = append(parts, i.Task.Category)
	}
	return strings.Join(parts, " · ")
}

// ItemDelegate implements list.ItemDelegate for urgent task cards.
type ItemDelegate struct{}

// Height returns the number of lines each item takes.
func (d ItemDelegate) Height() int { return 2 }

// Spacing returns the number of blank lines between items.
func (d ItemDelegate) Spacing() int { return 1 }

// Update handles per-item messages (unused).
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a two-line task card: title with priority badge, then
// sender, deadline, time and category.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ti, ok := item.(TaskItem)
	if !ok {
		return
	}
	isSelected := index == m.Index()

	marker := lipgloss.NewStyle().
		Foreground(theme.PriorityColor(ti.Task.Priority)).
		Render("●")

	title := fmt.Sprintf("%s %s %s", marker, ti.Task.Title, theme.PriorityBadge(ti.Task.Priority))
	desc := theme.DimmedStyle.Render("  " + ti.Description())

	width := m.Width() - 2
	if width > 0 {
		title = lipgloss.NewStyle().MaxWidth(width).Render(title)
		desc = lipgloss.NewStyle().MaxWidth(width).Render(desc)
	}

	block := title + "\n" + desc
	if isSelected {
		block = theme.SelectedItemStyle.Render(block)
	} else {
		block = theme.ListItemStyle.Render(block)
	}

	fmt.Fprint(w, block)
}

// RelativeTime returns a human-friendly "X ago" string for t relative to
// now.
func RelativeTime(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}

	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return plural(int(d.Minutes()), "minute") + " ago"
	case d < 24*time.Hour:
		return plural(int(d.Hours()), "hour") + " ago"
	case d < 30*24*time.Hour:
		return plural(int(d.Hours()/24), "day") + " ago"
	case d < 365*24*time.Hour:
		return plural(int(d.Hours()/24/30), "month") + " ago"
	default:
		return plural(int(d.Hours()/24/365), "year") + " ago"
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
