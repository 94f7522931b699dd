package calendar

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/whatsboard/internal/model"
)

// maxDots is how many task markers a day cell shows.
const maxDots = 3

// Day describes metadata used when rendering a calendar cell.
type Day struct {
	Day        int
	Tasks      []model.Task
	IsToday    bool
	IsSelected bool
}

// Options controls the styling of the rendered calendar.
type Options struct {
	HeaderStyle   lipgloss.Style
	EmptyStyle    lipgloss.Style
	EntryStyle    lipgloss.Style
	TodayStyle    lipgloss.Style
	SelectedStyle lipgloss.Style

	// DotStyle colours a task marker by priority. Nil renders plain dots.
	DotStyle func(model.Priority) lipgloss.Style

	ShowHeader bool
}

// Render produces a Sunday-first grid for the given month. Each cell is
// the day number followed by up to three task markers.
func Render(month time.Time, days []Day, opts Options) string {
	if month.IsZero() {
		return ""
	}

	first := firstOfMonth(month)
	daysInMonth := DaysIn(month)

	meta := make(map[int]Day, len(days))
	for _, d := range days {
		if d.Day >= 1 && d.Day <= daysInMonth {
			meta[d.Day] = d
		}
	}

	var lines []string
	if opts.ShowHeader {
		names := []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
		for i, n := range names {
			names[i] = padCell(n)
		}
		lines = append(lines, opts.HeaderStyle.Render(strings.Join(names, " ")))
	}

	offset := int(first.Weekday()) // Sunday == 0
	rows := (offset + daysInMonth + 6) / 7
	for row := 0; row < rows; row++ {
		var cells []string
		for col := 0; col < 7; col++ {
			day := row*7 + col - offset + 1
			if day < 1 || day > daysInMonth {
				cells = append(cells, opts.EmptyStyle.Render(padCell("")))
				continue
			}
			cells = append(cells, renderDay(meta[day], day, opts))
		}
		lines = append(lines, strings.Join(cells, " "))
	}

	return strings.Join(lines, "\n")
}

func renderDay(info Day, day int, opts Options) string {
	style := opts.EmptyStyle
	if len(info.Tasks) > 0 {
		style = opts.EntryStyle
	}
	if info.IsToday {
		style = style.Inherit(opts.TodayStyle)
	}
	if info.IsSelected {
		style = style.Inherit(opts.SelectedStyle)
	}

	num := strconv.Itoa(day)
	if day < 10 {
		num = " " + num
	}

	var dots strings.Builder
	for i, t := range info.Tasks {
		if i == maxDots {
			break
		}
		if opts.DotStyle != nil {
			dots.WriteString(opts.DotStyle(t.Priority).Render("•"))
		} else {
			dots.WriteString("•")
		}
	}
	pad := strings.Repeat(" ", maxDots-min(len(info.Tasks), maxDots))

	return style.Render(num) + dots.String() + pad
}

// padCell pads s to the cell width (two digits plus the marker slots).
func padCell(s string) string {
	width := 2 + maxDots
	if len(s) >= width {
		return s[:width]
	}
	return s + strings.Repeat(" ", width-len(s))
}
