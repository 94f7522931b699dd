package ai

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	aiservice "github.com/nhle/whatsboard/internal/ai"
	"github.com/nhle/whatsboard/internal/model"
	"github.com/nhle/whatsboard/internal/theme"
	"github.com/nhle/whatsboard/internal/ui/markdown"
)

// ReplyMsg carries the assistant's reply to a chat request.
type ReplyMsg struct {
	Request aiservice.Request
	Reply   string
}

// Chat is the conversation panel for one task.
type Chat struct {
	ctx      context.Context
	session  *aiservice.Session
	md       *markdown.Renderer
	input    textarea.Model
	viewport viewport.Model
	spinner  spinner.Model
	width    int
	height   int
}

// NewChat creates the chat panel over session.
func NewChat(ctx context.Context, session *aiservice.Session, md *markdown.Renderer, width, height int) Chat {
	ta := textarea.New()
	ta.Placeholder = "Ask about this task..."
	ta.Prompt = "> "
	ta.ShowLineNumbers = false
	ta.SetHeight(2)
	ta.CharLimit = 2000

	vp := viewport.New(width, 4)
	vp.Style = lipgloss.NewStyle()

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = lipgloss.NewStyle().Foreground(theme.ColorGreen)

	c := Chat{
		ctx:      ctx,
		session:  session,
		md:       md,
		input:    ta,
		viewport: vp,
		spinner:  sp,
	}
	c.SetSize(width, height)
	c.refreshViewport()
	return c
}

// Reset starts a fresh transcript for t. A reply still in flight for the
// old transcript is dropped when it arrives.
func (c *Chat) Reset(t model.Task) {
	c.session.Reset(t)
	c.input.Reset()
	c.refreshViewport()
}

// Update handles input and replies.
func (c Chat) Update(msg tea.Msg) (Chat, tea.Cmd) {
	switch msg := msg.(type) {
	case ReplyMsg:
		if c.session.Resolve(msg.Request, msg.Reply) {
			c.refreshViewport()
		}
		return c, nil

	case spinner.TickMsg:
		if !c.session.Pending() {
			return c, nil
		}
		var cmd tea.Cmd
		c.spinner, cmd = c.spinner.Update(msg)
		c.refreshViewport()
		return c, cmd

	case tea.KeyMsg:
		return c.handleKeyMsg(msg)
	}

	var cmd tea.Cmd
	c.viewport, cmd = c.viewport.Update(msg)
	return c, cmd
}

// handleKeyMsg sends on enter and passes other keys to the input.
func (c Chat) handleKeyMsg(msg tea.KeyMsg) (Chat, tea.Cmd) {
	switch msg.String() {
	case "enter":
		req, ok := c.session.Submit(c.input.Value())
		if !ok {
			return c, nil
		}
		c.input.Reset()
		c.refreshViewport()
		return c, tea.Batch(c.spinner.Tick, c.sendMessage(req))

	case "pgup", "pgdown":
		var cmd tea.Cmd
		c.viewport, cmd = c.viewport.Update(msg)
		return c, cmd
	}

	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	return c, cmd
}

// sendMessage returns a command that asks the service for a reply.
func (c Chat) sendMessage(req aiservice.Request) tea.Cmd {
	ctx, session := c.ctx, c.session
	return func() tea.Msg {
		return ReplyMsg{Request: req, Reply: session.Complete(ctx, req)}
	}
}

// refreshViewport re-renders the conversation and scrolls to the newest
// message.
func (c *Chat) refreshViewport() {
	c.viewport.SetContent(c.renderConversation())
	c.viewport.GotoBottom()
}

// renderConversation builds the transcript display string.
func (c Chat) renderConversation() string {
	roleStyle := lipgloss.NewStyle().Bold(true)
	userStyle := roleStyle.Foreground(theme.ColorBlue)
	assistantStyle := roleStyle.Foreground(theme.ColorGreen)
	contentStyle := lipgloss.NewStyle().Foreground(theme.ColorWhite).Width(max(c.width-2, 10))

	var sections []string
	for _, msg := range c.session.Messages() {
		switch msg.Role {
		case aiservice.RoleUser:
			sections = append(sections, userStyle.Render("You:"))
			sections = append(sections, contentStyle.Render(msg.Content))
		default:
			sections = append(sections, assistantStyle.Render("Assistant:"))
			sections = append(sections, c.md.Render(msg.Content, c.width-2))
		}
		sections = append(sections, "")
	}

	if c.session.Pending() {
		sections = append(sections, c.spinner.View()+" "+theme.DimmedStyle.Render("typing..."))
	}

	return strings.Join(sections, "\n")
}

// Messages returns the transcript.
func (c Chat) Messages() []aiservice.Message {
	return c.session.Messages()
}

// Pending reports whether a reply is awaited.
func (c Chat) Pending() bool {
	return c.session.Pending()
}

// Focus gives keyboard focus to the input.
func (c *Chat) Focus() tea.Cmd {
	return c.input.Focus()
}

// Blur removes keyboard focus from the input.
func (c *Chat) Blur() {
	c.input.Blur()
}

// SetSize updates the panel dimensions.
func (c *Chat) SetSize(width, height int) {
	c.width = width
	c.height = height
	c.input.SetWidth(width)

	vpHeight := height - c.input.Height() - 1
	if vpHeight < 4 {
		vpHeight = 4
	}
	c.viewport.Width = width
	c.viewport.Height = vpHeight
	c.refreshViewport()
}

// View renders the transcript above the input.
func (c Chat) View() string {
	sep := lipgloss.NewStyle().Foreground(theme.ColorSubtle).
		Render(strings.Repeat("─", max(min(c.width, 80), 1)))

	return lipgloss.JoinVertical(
		lipgloss.Left,
		c.viewport.View(),
		sep,
		c.input.View(),
	)
}
