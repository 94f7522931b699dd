package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/whatsboard/internal/model"
)

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue    = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen   = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow  = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed     = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorOrange  = lipgloss.AdaptiveColor{Dark: "#FFA94D", Light: "#C05621"}
	ColorMagenta = lipgloss.AdaptiveColor{Dark: "#CC5DE8", Light: "#805AD5"}
	ColorGray    = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite   = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// HeaderStyle is used for top-level section headers and the application title.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorBlue).
	Padding(0, 1)

// StatusBarStyle is used for the bottom status bar.
var StatusBarStyle = lipgloss.NewStyle().
	Foreground(ColorWhite).
	Background(ColorSubtle).
	Padding(0, 1)

// ErrorBarStyle replaces StatusBarStyle while a refresh problem is shown.
var ErrorBarStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("#FFFFFF")).
	Background(ColorRed).
	Padding(0, 1)

// DetailPanelStyle wraps the detail view content area.
var DetailPanelStyle = lipgloss.NewStyle().
	Padding(1, 2).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// CardStyle frames a dashboard counter card.
var CardStyle = lipgloss.NewStyle().
	Padding(0, 1).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// FocusedCardStyle frames the panel that currently receives keys.
var FocusedCardStyle = CardStyle.
	BorderForeground(ColorBlue)

// CardTitleStyle is the small heading inside a card.
var CardTitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorGray)

// BigNumberStyle renders the headline figure of a card.
var BigNumberStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite)

// ListItemStyle is the base style for items in a list.
var ListItemStyle = lipgloss.NewStyle().
	PaddingLeft(2)

// SelectedItemStyle highlights the currently focused list item.
var SelectedItemStyle = lipgloss.NewStyle().
	PaddingLeft(1).
	Bold(true).
	Foreground(ColorBlue).
	Border(lipgloss.NormalBorder(), false, false, false, true).
	BorderForeground(ColorBlue)

// HelpStyle is used for keyboard shortcut hints and help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// DimmedStyle renders secondary text.
var DimmedStyle = lipgloss.NewStyle().
	Foreground(ColorGray)

// TabStyle and ActiveTabStyle render the detail view tab strip.
var (
	TabStyle = lipgloss.NewStyle().
			Foreground(ColorGray).
			Padding(0, 2)

	ActiveTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorWhite).
			Background(ColorBlue).
			Padding(0, 2)
)

// TodayStyle and CursorDayStyle mark calendar cells.
var (
	TodayStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorGreen)

	CursorDayStyle = lipgloss.NewStyle().
			Bold(true).
			Reverse(true)
)

// PriorityColor maps a task priority to its display colour: urgent red,
// high orange, medium yellow, anything else blue.
func PriorityColor(p model.Priority) lipgloss.AdaptiveColor {
	switch {
	case p.Is(model.PriorityUrgent):
		return ColorRed
	case p.Is(model.PriorityHigh):
		return ColorOrange
	case p.Is(model.PriorityMedium):
		return ColorYellow
	default:
		return ColorBlue
	}
}

// PriorityStyle returns a bold colour-coded style for the given priority.
func PriorityStyle(p model.Priority) lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(PriorityColor(p))
}

// PriorityBadge renders a priority as a coloured label.
func PriorityBadge(p model.Priority) string {
	return PriorityStyle(p).Padding(0, 1).Render(p.Label())
}
