// Package ai holds the AI Analysis and Chat panels of the task detail view.
package ai

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	aiservice "github.com/nhle/whatsboard/internal/ai"
	"github.com/nhle/whatsboard/internal/model"
	"github.com/nhle/whatsboard/internal/theme"
	"github.com/nhle/whatsboard/internal/ui/markdown"
)

// SummaryMsg carries a finished summary. Gen identifies the request so a
// summary for a task that is no longer shown is dropped.
type SummaryMsg struct {
	TaskID string
	Gen    int
	Text   string
}

// Analysis shows the AI brief for one task.
type Analysis struct {
	ctx        context.Context
	summarizer *aiservice.Summarizer
	md         *markdown.Renderer
	spinner    spinner.Model

	taskID  string
	gen     int
	loading bool
	text    string
	width   int
}

// NewAnalysis creates the analysis panel. ctx bounds every summary
// request; cancelling it abandons requests in flight.
func NewAnalysis(ctx context.Context, s *aiservice.Summarizer, md *markdown.Renderer, width int) Analysis {
	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = lipgloss.NewStyle().Foreground(theme.ColorBlue)

	return Analysis{
		ctx:        ctx,
		summarizer: s,
		md:         md,
		spinner:    sp,
		width:      width,
	}
}

// Load discards the current text and requests a summary for t.
func (a *Analysis) Load(t model.Task) tea.Cmd {
	a.gen++
	a.taskID = t.ID
	a.loading = true
	a.text = ""

	ctx, s, gen := a.ctx, a.summarizer, a.gen
	return tea.Batch(
		a.spinner.Tick,
		func() tea.Msg {
			return SummaryMsg{TaskID: t.ID, Gen: gen, Text: s.Summarize(ctx, t)}
		},
	)
}

// Update applies summaries and animates the spinner.
func (a Analysis) Update(msg tea.Msg) (Analysis, tea.Cmd) {
	switch msg := msg.(type) {
	case SummaryMsg:
		if msg.TaskID != a.taskID || msg.Gen != a.gen {
			return a, nil
		}
		a.loading = false
		a.text = msg.Text
		return a, nil

	case spinner.TickMsg:
		if !a.loading {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}
	return a, nil
}

// Loading reports whether a summary is awaited.
func (a Analysis) Loading() bool {
	return a.loading
}

// Text returns the raw summary text.
func (a Analysis) Text() string {
	return a.text
}

// SetWidth updates the wrap width.
func (a *Analysis) SetWidth(width int) {
	a.width = width
}

// View renders the summary, or a spinner while it is generated.
func (a Analysis) View() string {
	if a.loading {
		return a.spinner.View() + " " + theme.DimmedStyle.Render("Analyzing task...")
	}
	if a.text == "" {
		return theme.DimmedStyle.Render("No analysis yet")
	}
	return a.md.Render(a.text, a.width)
}
